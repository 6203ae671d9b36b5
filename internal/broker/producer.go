package broker

import (
	"context"
	"time"

	"github.com/IBM/sarama"

	"kafdesk/internal/cluster"
	"kafdesk/internal/logging"
	"kafdesk/internal/telemetry"
)

// Publish sends one record and waits for broker acknowledgment. Each call
// is an independent connection and send: no batching, no retry.
func (e *Engine) Publish(ctx context.Context, profile cluster.Profile, secret string, topic string, key *string, payload string) (err error) {
	defer telemetry.ObserveOperation("publish", time.Now())(&err)

	cfg, brokers, err := clientConfig(BuildParams(profile, secret), sendTimeout)
	if err != nil {
		return &ConnectivityError{Brokers: profile.Brokers, Err: err}
	}
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Timeout = sendTimeout
	cfg.Producer.Return.Successes = true

	producer, err := e.newSyncProducer(brokers, cfg)
	if err != nil {
		return &ConnectivityError{Brokers: profile.Brokers, Err: err}
	}
	defer producer.Close()

	msg := &sarama.ProducerMessage{
		Topic: topic,
		Value: sarama.StringEncoder(payload),
	}
	if key != nil {
		msg.Key = sarama.StringEncoder(*key)
	}

	partition, offset, err := producer.SendMessage(msg)
	if err != nil {
		return &PublishError{Topic: topic, Err: err}
	}
	logging.L().Debug("published record", "topic", topic, "partition", partition, "offset", offset)
	return nil
}
