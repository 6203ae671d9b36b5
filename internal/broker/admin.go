package broker

import (
	"context"
	"time"

	"github.com/IBM/sarama"

	"kafdesk/internal/cluster"
	"kafdesk/internal/logging"
	"kafdesk/internal/telemetry"
)

// ListTopics fetches full cluster metadata and projects each topic to a
// summary. The replication factor is a constant placeholder, not read from
// metadata.
func (e *Engine) ListTopics(ctx context.Context, profile cluster.Profile, secret string) (topics []TopicSummary, err error) {
	defer telemetry.ObserveOperation("list_topics", time.Now())(&err)

	cl, err := e.openClient(profile, secret, metadataTimeout, nil)
	if err != nil {
		return nil, err
	}
	defer cl.Close()

	logging.L().Debug("fetching metadata", "cluster", profile.Name, "brokers", profile.Brokers)
	names, err := cl.Topics()
	if err != nil {
		return nil, &ConnectivityError{Brokers: profile.Brokers, Err: err}
	}

	topics = make([]TopicSummary, 0, len(names))
	for _, name := range names {
		partitions, err := cl.Partitions(name)
		if err != nil {
			return nil, &ConnectivityError{Brokers: profile.Brokers, Err: err}
		}
		topics = append(topics, TopicSummary{
			Name:              name,
			Partitions:        int32(len(partitions)),
			ReplicationFactor: 1,
		})
	}
	logging.L().Debug("fetched topics", "cluster", profile.Name, "count", len(topics))
	return topics, nil
}

// CheckConnection opens a client and refreshes metadata, discarding the
// result. Success means the cluster is reachable, not that any topic is
// readable.
func (e *Engine) CheckConnection(ctx context.Context, profile cluster.Profile, secret string) (err error) {
	defer telemetry.ObserveOperation("check_connection", time.Now())(&err)

	cl, err := e.openClient(profile, secret, probeTimeout, nil)
	if err != nil {
		return err
	}
	defer cl.Close()

	if err := cl.RefreshMetadata(); err != nil {
		return &ConnectivityError{Brokers: profile.Brokers, Err: err}
	}
	return nil
}

// CreateTopic issues a topic-creation request. Not idempotent: creating an
// existing topic fails with a TopicCreationError naming the topic.
func (e *Engine) CreateTopic(ctx context.Context, profile cluster.Profile, secret string, name string, partitions int32, replication int16) (err error) {
	defer telemetry.ObserveOperation("create_topic", time.Now())(&err)

	cfg, brokers, err := clientConfig(BuildParams(profile, secret), metadataTimeout)
	if err != nil {
		return &ConnectivityError{Brokers: profile.Brokers, Err: err}
	}
	cfg.Admin.Timeout = createTopicTimeout

	admin, err := e.newClusterAdmin(brokers, cfg)
	if err != nil {
		return &ConnectivityError{Brokers: profile.Brokers, Err: err}
	}
	defer admin.Close()

	detail := &sarama.TopicDetail{
		NumPartitions:     partitions,
		ReplicationFactor: replication,
	}
	if err := admin.CreateTopic(name, detail, false); err != nil {
		return &TopicCreationError{Topic: name, Err: err}
	}
	return nil
}

// openClient builds connection parameters and opens a fresh sarama client.
// extraParams lets callers add call-scoped parameters (e.g. the sampler's
// throwaway group identity).
func (e *Engine) openClient(profile cluster.Profile, secret string, timeout time.Duration, extraParams Params) (sarama.Client, error) {
	params := BuildParams(profile, secret)
	for k, v := range extraParams {
		params[k] = v
	}
	cfg, brokers, err := clientConfig(params, timeout)
	if err != nil {
		return nil, &ConnectivityError{Brokers: profile.Brokers, Err: err}
	}
	cl, err := e.newClient(brokers, cfg)
	if err != nil {
		return nil, &ConnectivityError{Brokers: profile.Brokers, Err: err}
	}
	return cl, nil
}
