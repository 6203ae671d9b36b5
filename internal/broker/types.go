// Package broker is the connectivity and message-sampling engine. Every
// operation opens a fresh client from a profile plus an optional secret,
// performs one bounded unit of work, and discards the client.
package broker

// TopicSummary is one topic projected from cluster metadata.
//
// ReplicationFactor is reported as a constant 1 and is not derived from
// metadata. Known limitation; do not "fix" without a product decision.
type TopicSummary struct {
	Name              string `yaml:"name" json:"name"`
	Partitions        int32  `yaml:"partitions" json:"partitions"`
	ReplicationFactor int16  `yaml:"replication_factor" json:"replication_factor"`
}

// PartitionDescriptor describes one partition's placement. Not surfaced
// by any operation yet.
type PartitionDescriptor struct {
	ID       int32
	Leader   int32
	Replicas []int32
	ISR      []int32
}

// SampledMessage is one record read during a sampling pass. Key and
// Payload are decoded permissively as text: invalid byte sequences are
// replaced, never rejected. Nil means the field was absent on the wire.
type SampledMessage struct {
	Partition int32   `yaml:"partition" json:"partition"`
	Offset    int64   `yaml:"offset" json:"offset"`
	Timestamp *int64  `yaml:"timestamp,omitempty" json:"timestamp,omitempty"` // epoch millis
	Key       *string `yaml:"key,omitempty" json:"key,omitempty"`
	Payload   *string `yaml:"payload,omitempty" json:"payload,omitempty"`
}

// WatermarkPair holds one partition's retention window: Low is the oldest
// retained offset, High the next offset to be written. High-Low is the
// retained record count for the partition.
type WatermarkPair struct {
	Low  int64
	High int64
}

// Span returns the number of offsets retained between the watermarks.
func (w WatermarkPair) Span() int64 { return w.High - w.Low }
