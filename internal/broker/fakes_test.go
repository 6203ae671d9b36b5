package broker

import (
	"sync"
	"time"

	"github.com/IBM/sarama"
)

// fakeClient stubs the handful of sarama.Client methods the engine uses.
// Everything else panics via the embedded nil interface.
type fakeClient struct {
	sarama.Client

	topics     map[string][]int32
	marks      map[string]map[int32]WatermarkPair
	refreshErr error
	closed     bool
}

func (f *fakeClient) Topics() ([]string, error) {
	names := make([]string, 0, len(f.topics))
	for name := range f.topics {
		names = append(names, name)
	}
	return names, nil
}

func (f *fakeClient) Partitions(topic string) ([]int32, error) {
	parts, ok := f.topics[topic]
	if !ok {
		return nil, sarama.ErrUnknownTopicOrPartition
	}
	return parts, nil
}

func (f *fakeClient) GetOffset(topic string, partition int32, at int64) (int64, error) {
	mark := f.marks[topic][partition]
	if at == sarama.OffsetOldest {
		return mark.Low, nil
	}
	return mark.High, nil
}

func (f *fakeClient) RefreshMetadata(topics ...string) error { return f.refreshErr }

func (f *fakeClient) Close() error {
	f.closed = true
	return nil
}

// fakeConsumer hands out partition consumers preloaded with the stored
// messages at or above the requested offset, and records which start
// offset the engine asked for.
type fakeConsumer struct {
	sarama.Consumer

	mu        sync.Mutex
	msgs      map[int32][]*sarama.ConsumerMessage
	errs      map[int32][]*sarama.ConsumerError
	requested map[int32]int64
	closed    bool
}

func newFakeConsumer() *fakeConsumer {
	return &fakeConsumer{
		msgs:      make(map[int32][]*sarama.ConsumerMessage),
		errs:      make(map[int32][]*sarama.ConsumerError),
		requested: make(map[int32]int64),
	}
}

func (f *fakeConsumer) add(partition int32, offset int64, payload string) {
	f.msgs[partition] = append(f.msgs[partition], &sarama.ConsumerMessage{
		Partition: partition,
		Offset:    offset,
		Value:     []byte(payload),
	})
}

func (f *fakeConsumer) addErr(partition int32, err error) {
	f.errs[partition] = append(f.errs[partition], &sarama.ConsumerError{
		Topic:     "orders",
		Partition: partition,
		Err:       err,
	})
}

func (f *fakeConsumer) ConsumePartition(topic string, partition int32, offset int64) (sarama.PartitionConsumer, error) {
	f.mu.Lock()
	f.requested[partition] = offset
	pending := f.msgs[partition]
	pendingErrs := f.errs[partition]
	f.mu.Unlock()

	pc := &fakePartitionConsumer{
		messages: make(chan *sarama.ConsumerMessage, len(pending)),
		errors:   make(chan *sarama.ConsumerError, len(pendingErrs)+1),
	}
	for _, e := range pendingErrs {
		pc.errors <- e
	}
	for _, m := range pending {
		if m.Offset >= offset {
			pc.messages <- m
		}
	}
	return pc, nil
}

func (f *fakeConsumer) Close() error {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
	return nil
}

type fakePartitionConsumer struct {
	sarama.PartitionConsumer

	messages  chan *sarama.ConsumerMessage
	errors    chan *sarama.ConsumerError
	closeOnce sync.Once
}

func (f *fakePartitionConsumer) Messages() <-chan *sarama.ConsumerMessage { return f.messages }

func (f *fakePartitionConsumer) Errors() <-chan *sarama.ConsumerError { return f.errors }

func (f *fakePartitionConsumer) AsyncClose() {
	f.closeOnce.Do(func() {
		close(f.messages)
		close(f.errors)
	})
}

// fakeClusterAdmin records CreateTopic calls and returns a canned error.
type fakeClusterAdmin struct {
	sarama.ClusterAdmin

	createdName   string
	createdDetail *sarama.TopicDetail
	createErr     error
	closed        bool
}

func (f *fakeClusterAdmin) CreateTopic(topic string, detail *sarama.TopicDetail, validateOnly bool) error {
	f.createdName = topic
	f.createdDetail = detail
	return f.createErr
}

func (f *fakeClusterAdmin) Close() error {
	f.closed = true
	return nil
}

// testEngine wires an Engine to the given fakes with a fast poll budget.
func testEngine(cl sarama.Client, consumer sarama.Consumer, admin sarama.ClusterAdmin) *Engine {
	e := NewEngine()
	e.pollAttempts = 20
	e.pollInterval = 2 * time.Millisecond
	e.newClient = func(addrs []string, cfg *sarama.Config) (sarama.Client, error) {
		return cl, nil
	}
	e.newConsumer = func(client sarama.Client) (sarama.Consumer, error) {
		return consumer, nil
	}
	e.newClusterAdmin = func(addrs []string, cfg *sarama.Config) (sarama.ClusterAdmin, error) {
		return admin, nil
	}
	return e
}
