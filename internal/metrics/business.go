package metrics

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Operation statuses.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// DeliveryOutcome is the final state of one message handed to the broker.
type DeliveryOutcome string

// Delivery outcomes. A dead-letter outcome is recorded in addition to the failure of
// the original message.
const (
	DeliveryDelivered        DeliveryOutcome = "delivered"
	DeliveryFailed           DeliveryOutcome = "failed"
	DeliveryDeadLettered     DeliveryOutcome = "dead_lettered"
	DeliveryDeadLetterFailed DeliveryOutcome = "dead_letter_failed"
)

// Status maps an operation error to its status label.
func Status(err error) string {
	if err != nil {
		return StatusError
	}
	return StatusSuccess
}

// BusinessMetrics records use case operations and broker delivery outcomes.
type BusinessMetrics interface {
	// RecordOperation counts one use case call, e.g. ("events", "package_send", "success").
	RecordOperation(ctx context.Context, domain, operation, status string)

	// RecordDuration observes the latency of one use case call in seconds.
	RecordDuration(ctx context.Context, domain, operation string, duration time.Duration, status string)

	// RecordDelivery counts the broker outcome of one message on topic.
	RecordDelivery(ctx context.Context, topic string, outcome DeliveryOutcome)
}

type businessMetrics struct {
	operations metric.Int64Counter
	durations  metric.Float64Histogram
	deliveries metric.Int64Counter
}

// NewBusinessMetrics creates the instruments on the provider's meter.
func NewBusinessMetrics(provider *Provider) (BusinessMetrics, error) {
	meter := provider.Meter()

	operations, err := meter.Int64Counter(
		provider.Name("operations_total"),
		metric.WithDescription("Total number of use case operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create operation counter: %w", err)
	}

	durations, err := meter.Float64Histogram(
		provider.Name("operation_duration_seconds"),
		metric.WithDescription("Duration of use case operations in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create duration histogram: %w", err)
	}

	deliveries, err := meter.Int64Counter(
		provider.Name("event_deliveries_total"),
		metric.WithDescription("Broker outcomes of published package events"),
		metric.WithUnit("{message}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create delivery counter: %w", err)
	}

	return &businessMetrics{
		operations: operations,
		durations:  durations,
		deliveries: deliveries,
	}, nil
}

func operationAttributes(domain, operation, status string) metric.MeasurementOption {
	return metric.WithAttributes(
		attribute.String("domain", domain),
		attribute.String("operation", operation),
		attribute.String("status", status),
	)
}

func (b *businessMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {
	b.operations.Add(ctx, 1, operationAttributes(domain, operation, status))
}

func (b *businessMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
	b.durations.Record(ctx, duration.Seconds(), operationAttributes(domain, operation, status))
}

func (b *businessMetrics) RecordDelivery(ctx context.Context, topic string, outcome DeliveryOutcome) {
	b.deliveries.Add(ctx, 1, metric.WithAttributes(
		attribute.String("topic", topic),
		attribute.String("outcome", string(outcome)),
	))
}

// NoOpBusinessMetrics discards everything. It is used when metrics are disabled.
type NoOpBusinessMetrics struct{}

// NewNoOpBusinessMetrics creates a no-op BusinessMetrics.
func NewNoOpBusinessMetrics() BusinessMetrics {
	return &NoOpBusinessMetrics{}
}

func (n *NoOpBusinessMetrics) RecordOperation(context.Context, string, string, string) {}

func (n *NoOpBusinessMetrics) RecordDuration(context.Context, string, string, time.Duration, string) {
}

func (n *NoOpBusinessMetrics) RecordDelivery(context.Context, string, DeliveryOutcome) {}
