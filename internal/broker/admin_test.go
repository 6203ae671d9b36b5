package broker

import (
	"context"
	"errors"
	"testing"

	"github.com/IBM/sarama"
)

func TestListTopics_ProjectsMetadata(t *testing.T) {
	cl := &fakeClient{
		topics: map[string][]int32{
			"orders":   {0, 1, 2},
			"payments": {0},
		},
	}
	e := testEngine(cl, nil, nil)

	topics, err := e.ListTopics(context.Background(), plaintextProfile(), "")
	if err != nil {
		t.Fatalf("ListTopics: %v", err)
	}
	if len(topics) != 2 {
		t.Fatalf("got %d topics, want 2", len(topics))
	}
	byName := map[string]TopicSummary{}
	for _, tp := range topics {
		byName[tp.Name] = tp
	}
	if byName["orders"].Partitions != 3 {
		t.Fatalf("orders partitions = %d, want 3", byName["orders"].Partitions)
	}
	// Replication factor is a documented placeholder, never read from
	// metadata.
	for name, tp := range byName {
		if tp.ReplicationFactor != 1 {
			t.Fatalf("topic %s replication factor = %d, want constant 1", name, tp.ReplicationFactor)
		}
	}
}

func TestCheckConnection(t *testing.T) {
	cl := &fakeClient{topics: map[string][]int32{}}
	e := testEngine(cl, nil, nil)

	if err := e.CheckConnection(context.Background(), plaintextProfile(), ""); err != nil {
		t.Fatalf("CheckConnection: %v", err)
	}
	if !cl.closed {
		t.Fatal("client not closed after probe")
	}
}

func TestCheckConnection_Unreachable(t *testing.T) {
	cl := &fakeClient{refreshErr: sarama.ErrOutOfBrokers}
	e := testEngine(cl, nil, nil)

	err := e.CheckConnection(context.Background(), plaintextProfile(), "")

	var connErr *ConnectivityError
	if !errors.As(err, &connErr) {
		t.Fatalf("err = %v, want ConnectivityError", err)
	}
	if connErr.Brokers != "localhost:9092" {
		t.Fatalf("error carries brokers %q", connErr.Brokers)
	}
}

func TestCreateTopic(t *testing.T) {
	admin := &fakeClusterAdmin{}
	e := testEngine(nil, nil, admin)

	err := e.CreateTopic(context.Background(), plaintextProfile(), "", "orders", 3, 2)
	if err != nil {
		t.Fatalf("CreateTopic: %v", err)
	}
	if admin.createdName != "orders" {
		t.Fatalf("created topic %q", admin.createdName)
	}
	if admin.createdDetail.NumPartitions != 3 || admin.createdDetail.ReplicationFactor != 2 {
		t.Fatalf("detail = %+v", admin.createdDetail)
	}
	if !admin.closed {
		t.Fatal("admin client not closed")
	}
}

func TestCreateTopic_AlreadyExists(t *testing.T) {
	admin := &fakeClusterAdmin{createErr: sarama.ErrTopicAlreadyExists}
	e := testEngine(nil, nil, admin)

	err := e.CreateTopic(context.Background(), plaintextProfile(), "", "orders", 1, 1)

	var createErr *TopicCreationError
	if !errors.As(err, &createErr) {
		t.Fatalf("err = %v, want TopicCreationError", err)
	}
	if createErr.Topic != "orders" {
		t.Fatalf("error names topic %q, want orders", createErr.Topic)
	}
	if !errors.Is(err, sarama.ErrTopicAlreadyExists) {
		t.Fatalf("provider code not preserved: %v", err)
	}
}
