// Package broker provides the message broker clients used to publish package events.
// Every producer submits asynchronously and reports the outcome of each message
// exactly once through a completion callback.
package broker

import (
	"context"
	"errors"
	"sort"
)

// Broker errors.
var (
	// ErrProducerClosed is reported for messages produced after Close.
	ErrProducerClosed = errors.New("broker: producer closed")

	// ErrNotAcknowledged is reported when the broker explicitly refuses a message.
	ErrNotAcknowledged = errors.New("broker: message not acknowledged")

	// ErrConfirmTimeout is reported when no acknowledgment arrives in time.
	ErrConfirmTimeout = errors.New("broker: acknowledgment timed out")

	// ErrEmptyTopic is returned when a topic name is required but missing.
	ErrEmptyTopic = errors.New("broker: topic name is required")
)

// Header names set on every published message.
const (
	HeaderContentType = "content-type"
	HeaderAttemptID   = "attempt-id"
	HeaderEventType   = "event-type"
)

// Header names added when a message is forwarded to a dead-letter topic.
const (
	HeaderOriginalTopic = "original-topic"
	HeaderDeliveryError = "delivery-error"
)

// Message is a single keyed record bound for a topic.
type Message struct {
	Topic   string
	Key     string
	Value   []byte
	Headers map[string]string
}

// DeliveryReport holds the coordinates of an acknowledged message.
type DeliveryReport struct {
	Topic     string
	Partition int32
	Offset    int64
}

// CompletionFunc receives the outcome of one message. Exactly one of report and
// err is non-nil. Broker outcomes arrive on a broker goroutine. A message refused
// before submission, such as one produced after Close, may be reported on the
// caller's goroutine before Produce returns, so onComplete must not take a lock
// the caller holds across Produce.
type CompletionFunc func(report *DeliveryReport, err error)

// Producer submits messages without waiting for acknowledgment.
type Producer interface {
	// Produce hands msg to the broker client and returns immediately. onComplete is
	// invoked once the broker confirms or rejects the message.
	Produce(ctx context.Context, msg *Message, onComplete CompletionFunc)
	// TryProduce is Produce for callers that must never block, such as code running
	// inside a completion callback. A message the client cannot take right away is
	// reported as failed.
	TryProduce(ctx context.Context, msg *Message, onComplete CompletionFunc)
	// Flush blocks until every submitted message has been reported or ctx ends.
	Flush(ctx context.Context) error
	// Ping checks that the broker is reachable.
	Ping(ctx context.Context) error
	// Close releases the client. Every message still in flight is reported, as
	// delivered or failed, before Close returns.
	Close() error
}

// TopicSpec describes a topic to provision.
type TopicSpec struct {
	Name              string
	Partitions        int32
	ReplicationFactor int16
}

// TopicAdmin provisions topics ahead of publishing.
type TopicAdmin interface {
	// CreateTopic creates the topic. An already existing topic is not an error.
	CreateTopic(ctx context.Context, spec TopicSpec) error
	Close() error
}

// Validate checks that the topic can be provisioned.
func (s TopicSpec) Validate() error {
	if s.Name == "" {
		return ErrEmptyTopic
	}
	return nil
}

// sortedHeaderKeys returns header names in a stable order.
func sortedHeaderKeys(headers map[string]string) []string {
	keys := make([]string, 0, len(headers))
	for key := range headers {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
