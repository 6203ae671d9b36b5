package broker

import (
	"time"

	"github.com/IBM/sarama"
)

// Fixed per-operation deadlines.
const (
	metadataTimeout    = 5 * time.Second
	probeTimeout       = 3 * time.Second
	createTopicTimeout = 30 * time.Second
	sendTimeout        = 5 * time.Second

	defaultPollAttempts = 50
	defaultPollInterval = 100 * time.Millisecond
)

// Engine performs broker operations. It is stateless: every call opens a
// fresh client from the supplied profile and discards it on return, so
// there is no shared client state across calls.
type Engine struct {
	newClient       func(addrs []string, cfg *sarama.Config) (sarama.Client, error)
	newClusterAdmin func(addrs []string, cfg *sarama.Config) (sarama.ClusterAdmin, error)
	newSyncProducer func(addrs []string, cfg *sarama.Config) (sarama.SyncProducer, error)
	newConsumer     func(client sarama.Client) (sarama.Consumer, error)

	pollAttempts int
	pollInterval time.Duration
}

func NewEngine() *Engine {
	return &Engine{
		newClient:       sarama.NewClient,
		newClusterAdmin: sarama.NewClusterAdmin,
		newSyncProducer: sarama.NewSyncProducer,
		newConsumer:     sarama.NewConsumerFromClient,
		pollAttempts:    defaultPollAttempts,
		pollInterval:    defaultPollInterval,
	}
}
