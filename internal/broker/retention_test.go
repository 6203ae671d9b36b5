package broker

import (
	"context"
	"errors"
	"testing"
)

func TestEstimateCount_SumsWatermarkSpans(t *testing.T) {
	cl := &fakeClient{
		topics: map[string][]int32{"orders": {0, 1}},
		marks: map[string]map[int32]WatermarkPair{
			"orders": {0: {Low: 0, High: 100}, 1: {Low: 0, High: 50}},
		},
	}
	e := testEngine(cl, nil, nil)

	n, err := e.EstimateCount(context.Background(), plaintextProfile(), "", "orders")
	if err != nil {
		t.Fatalf("EstimateCount: %v", err)
	}
	if n != 150 {
		t.Fatalf("estimate = %d, want 150", n)
	}
}

func TestEstimateCount_CompactedPartition(t *testing.T) {
	cl := &fakeClient{
		topics: map[string][]int32{"orders": {0}},
		marks: map[string]map[int32]WatermarkPair{
			"orders": {0: {Low: 40, High: 100}},
		},
	}
	e := testEngine(cl, nil, nil)

	n, err := e.EstimateCount(context.Background(), plaintextProfile(), "", "orders")
	if err != nil {
		t.Fatalf("EstimateCount: %v", err)
	}
	if n != 60 {
		t.Fatalf("estimate = %d, want 60", n)
	}
}

func TestEstimateCount_TopicNotFound(t *testing.T) {
	cl := &fakeClient{topics: map[string][]int32{}}
	e := testEngine(cl, nil, nil)

	_, err := e.EstimateCount(context.Background(), plaintextProfile(), "", "orders")

	var notFound *TopicNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("err = %v, want TopicNotFoundError", err)
	}
}
