package broker

import (
	"context"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/IBM/sarama"
	"github.com/google/uuid"

	"kafdesk/internal/cluster"
	"kafdesk/internal/logging"
	"kafdesk/internal/telemetry"
)

// Sample reads up to maxMessages recent records from a topic and returns
// them ordered by descending offset. The read is side-effect free: each
// call uses a throwaway identity with offset auto-commit disabled and
// assigns partitions statically, so no durable consumer-group state is
// created or mutated and repeated calls never see "already consumed" gaps.
//
// The requested budget is apportioned evenly across partitions; when
// maxMessages is not a multiple of the partition count the remainder is
// dropped, so the result can hold fewer than maxMessages entries even
// when the topic retains enough records.
func (e *Engine) Sample(ctx context.Context, profile cluster.Profile, secret string, topic string, maxMessages int) (msgs []SampledMessage, err error) {
	defer telemetry.ObserveOperation("sample", time.Now())(&err)

	groupID := "kafdesk-sample-" + uuid.NewString()
	cl, err := e.openClient(profile, secret, metadataTimeout, Params{
		keyGroupID:    groupID,
		keyAutoCommit: "false",
	})
	if err != nil {
		return nil, err
	}
	defer cl.Close()

	partitions, err := e.topicPartitions(cl, profile, topic)
	if err != nil {
		return nil, err
	}
	if maxMessages <= 0 {
		return []SampledMessage{}, nil
	}

	// One awaited watermark fetch at a time; the offset-window math runs
	// only after every pair is collected.
	marks, err := e.fetchWatermarks(cl, profile, topic, partitions)
	if err != nil {
		return nil, err
	}

	share := int64(maxMessages / len(partitions))
	starts := make(map[int32]int64, len(partitions))
	for _, p := range partitions {
		start := marks[p].High - share
		if start < marks[p].Low {
			start = marks[p].Low
		}
		starts[p] = start
	}

	consumer, err := e.newConsumer(cl)
	if err != nil {
		return nil, &ConnectivityError{Brokers: profile.Brokers, Err: err}
	}
	defer consumer.Close()

	records := make(chan *sarama.ConsumerMessage, min(maxMessages, 256))
	done := make(chan struct{})

	var wg sync.WaitGroup
	var pcs []sarama.PartitionConsumer
	defer func() {
		close(done)
		for _, pc := range pcs {
			pc.AsyncClose()
		}
		wg.Wait()
	}()

	for _, p := range partitions {
		pc, err := consumer.ConsumePartition(topic, p, starts[p])
		if err != nil {
			return nil, &ConnectivityError{Brokers: profile.Brokers, Err: err}
		}
		pcs = append(pcs, pc)
		wg.Add(1)
		// The partition stream is a blocking provider surface; forwarding
		// through one channel keeps the poll loop free to time out.
		go func(pc sarama.PartitionConsumer) {
			defer wg.Done()
			for {
				select {
				case msg, ok := <-pc.Messages():
					if !ok {
						return
					}
					select {
					case records <- msg:
					case <-done:
						return
					}
				case perr, ok := <-pc.Errors():
					if !ok {
						return
					}
					// Non-fatal: a bad record is skipped, not the batch.
					logging.L().Warn("record delivery error during sampling",
						"topic", perr.Topic, "partition", perr.Partition, "err", perr.Err)
				case <-done:
					return
				}
			}
		}(pc)
	}

	buf := make([]SampledMessage, 0, maxMessages)
	timer := time.NewTimer(e.pollInterval)
	defer timer.Stop()

poll:
	for attempt := 0; attempt < e.pollAttempts && len(buf) < maxMessages; attempt++ {
		timer.Reset(e.pollInterval)
		select {
		case msg := <-records:
			buf = append(buf, decodeMessage(msg))
		case <-timer.C:
			// Empty poll: with data already buffered the topic is drained
			// for our windows; with nothing yet, keep burning attempts.
			if len(buf) > 0 {
				break poll
			}
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	sort.SliceStable(buf, func(i, j int) bool { return buf[i].Offset > buf[j].Offset })
	return buf, nil
}

// topicPartitions resolves the topic's partition ids, failing with
// TopicNotFoundError when the topic is absent from metadata.
func (e *Engine) topicPartitions(cl sarama.Client, profile cluster.Profile, topic string) ([]int32, error) {
	names, err := cl.Topics()
	if err != nil {
		return nil, &ConnectivityError{Brokers: profile.Brokers, Err: err}
	}
	if !slices.Contains(names, topic) {
		return nil, &TopicNotFoundError{Topic: topic}
	}
	partitions, err := cl.Partitions(topic)
	if err != nil {
		return nil, &ConnectivityError{Brokers: profile.Brokers, Err: err}
	}
	if len(partitions) == 0 {
		return nil, &TopicNotFoundError{Topic: topic}
	}
	return partitions, nil
}

func (e *Engine) fetchWatermarks(cl sarama.Client, profile cluster.Profile, topic string, partitions []int32) (map[int32]WatermarkPair, error) {
	marks := make(map[int32]WatermarkPair, len(partitions))
	for _, p := range partitions {
		low, err := cl.GetOffset(topic, p, sarama.OffsetOldest)
		if err != nil {
			return nil, &ConnectivityError{Brokers: profile.Brokers, Err: err}
		}
		high, err := cl.GetOffset(topic, p, sarama.OffsetNewest)
		if err != nil {
			return nil, &ConnectivityError{Brokers: profile.Brokers, Err: err}
		}
		marks[p] = WatermarkPair{Low: low, High: high}
	}
	return marks, nil
}

func decodeMessage(msg *sarama.ConsumerMessage) SampledMessage {
	out := SampledMessage{
		Partition: msg.Partition,
		Offset:    msg.Offset,
		Key:       lossyString(msg.Key),
		Payload:   lossyString(msg.Value),
	}
	if !msg.Timestamp.IsZero() {
		ms := msg.Timestamp.UnixMilli()
		out.Timestamp = &ms
	}
	return out
}

// lossyString decodes bytes as text, replacing invalid sequences instead
// of failing. Nil in, nil out.
func lossyString(b []byte) *string {
	if b == nil {
		return nil
	}
	s := strings.ToValidUTF8(string(b), string(utf8.RuneError))
	return &s
}
