package broker

import "fmt"

// ConnectivityError means the cluster could not be reached or metadata
// could not be fetched. Carries the broker list for context.
type ConnectivityError struct {
	Brokers string
	Err     error
}

func (e *ConnectivityError) Error() string {
	return fmt.Sprintf("broker connection to %s failed: %v", e.Brokers, e.Err)
}

func (e *ConnectivityError) Unwrap() error { return e.Err }

// TopicNotFoundError means the topic did not appear in cluster metadata.
type TopicNotFoundError struct {
	Topic string
}

func (e *TopicNotFoundError) Error() string {
	return fmt.Sprintf("topic %q not found", e.Topic)
}

// TopicCreationError means the cluster rejected a topic creation request.
// Err carries the provider status (e.g. topic already exists, invalid
// replication factor).
type TopicCreationError struct {
	Topic string
	Err   error
}

func (e *TopicCreationError) Error() string {
	return fmt.Sprintf("create topic %q: %v", e.Topic, e.Err)
}

func (e *TopicCreationError) Unwrap() error { return e.Err }

// PublishError means a send was rejected or not acknowledged in time.
type PublishError struct {
	Topic string
	Err   error
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("publish to %q: %v", e.Topic, e.Err)
}

func (e *PublishError) Unwrap() error { return e.Err }
