package broker

import (
	"context"
	"time"

	"kafdesk/internal/cluster"
	"kafdesk/internal/telemetry"
)

// EstimateCount approximates the number of retained records in a topic by
// summing each partition's watermark span. Compaction or segment deletion
// can leave holes between the watermarks, so this is an upper-bound
// estimate, not a guarantee of contiguous offsets.
func (e *Engine) EstimateCount(ctx context.Context, profile cluster.Profile, secret string, topic string) (total int64, err error) {
	defer telemetry.ObserveOperation("estimate_count", time.Now())(&err)

	cl, err := e.openClient(profile, secret, metadataTimeout, nil)
	if err != nil {
		return 0, err
	}
	defer cl.Close()

	partitions, err := e.topicPartitions(cl, profile, topic)
	if err != nil {
		return 0, err
	}
	marks, err := e.fetchWatermarks(cl, profile, topic, partitions)
	if err != nil {
		return 0, err
	}
	for _, m := range marks {
		total += m.Span()
	}
	return total, nil
}
