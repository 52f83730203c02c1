package usecase

import (
	"context"
	"log/slog"
	"maps"

	"github.com/startupheroes/package-events/internal/broker"
	eventsDomain "github.com/startupheroes/package-events/internal/events/domain"
	"github.com/startupheroes/package-events/internal/metrics"
)

// deliveryObserver logs and counts delivery outcomes and forwards failed payloads
// to a dead-letter topic when one is configured.
type deliveryObserver struct {
	producer        broker.Producer
	deadLetterTopic string
	metrics         metrics.BusinessMetrics
	logger          *slog.Logger
}

// NewDeliveryObserver creates a DeliveryObserver. An empty deadLetterTopic disables
// forwarding.
func NewDeliveryObserver(
	producer broker.Producer,
	deadLetterTopic string,
	m metrics.BusinessMetrics,
	logger *slog.Logger,
) DeliveryObserver {
	return &deliveryObserver{
		producer:        producer,
		deadLetterTopic: deadLetterTopic,
		metrics:         m,
		logger:          logger,
	}
}

// Delivered records a broker acknowledgment.
func (o *deliveryObserver) Delivered(ctx context.Context, packageID int64, report *broker.DeliveryReport) {
	o.logger.Debug("package event delivered",
		slog.Int64("package_id", packageID),
		slog.String("topic", report.Topic),
		slog.Int("partition", int(report.Partition)),
		slog.Int64("offset", report.Offset),
	)
	o.metrics.RecordDelivery(ctx, report.Topic, metrics.DeliveryDelivered)
}

// Failed records a rejected or unacknowledged message. Failures are never retried.
func (o *deliveryObserver) Failed(ctx context.Context, msg *broker.Message, err *eventsDomain.DeliveryError) {
	o.logger.Error("package event delivery failed",
		slog.Int64("package_id", err.PackageID),
		slog.String("topic", err.Topic),
		slog.Any("error", err.Err),
	)
	o.metrics.RecordDelivery(ctx, err.Topic, metrics.DeliveryFailed)

	if o.deadLetterTopic == "" || msg.Topic == o.deadLetterTopic {
		return
	}
	o.forward(ctx, msg, err)
}

// forward republishes the failed payload on the dead-letter topic. It runs inside a
// broker completion callback, so it must not wait for buffer space. The outcome of
// the forward is only logged.
func (o *deliveryObserver) forward(ctx context.Context, msg *broker.Message, deliveryErr *eventsDomain.DeliveryError) {
	headers := make(map[string]string, len(msg.Headers)+2)
	maps.Copy(headers, msg.Headers)
	headers[broker.HeaderOriginalTopic] = msg.Topic
	headers[broker.HeaderDeliveryError] = deliveryErr.Error()

	deadLetter := &broker.Message{
		Topic:   o.deadLetterTopic,
		Key:     msg.Key,
		Value:   msg.Value,
		Headers: headers,
	}
	packageID := deliveryErr.PackageID

	o.producer.TryProduce(ctx, deadLetter, func(report *broker.DeliveryReport, err error) {
		if err != nil {
			o.logger.Error("failed to forward package event to dead letter topic",
				slog.Int64("package_id", packageID),
				slog.String("topic", deadLetter.Topic),
				slog.Any("error", err),
			)
			o.metrics.RecordDelivery(ctx, deadLetter.Topic, metrics.DeliveryDeadLetterFailed)
			return
		}

		o.logger.Warn("package event forwarded to dead letter topic",
			slog.Int64("package_id", packageID),
			slog.String("topic", report.Topic),
			slog.Int64("offset", report.Offset),
		)
		o.metrics.RecordDelivery(ctx, report.Topic, metrics.DeliveryDeadLettered)
	})
}
