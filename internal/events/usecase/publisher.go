package usecase

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/startupheroes/package-events/internal/broker"
	apperrors "github.com/startupheroes/package-events/internal/errors"
	eventsDomain "github.com/startupheroes/package-events/internal/events/domain"
	eventsService "github.com/startupheroes/package-events/internal/events/service"
)

// EventTypePackage is the event-type header value of package events.
const EventTypePackage = "package"

// eventPublisher implements EventPublisher on top of a broker.Producer.
type eventPublisher struct {
	producer   broker.Producer
	serializer eventsService.Serializer
	observer   DeliveryObserver
	topic      string
	logger     *slog.Logger

	newAttemptID func() (uuid.UUID, error)
}

// NewEventPublisher creates an EventPublisher that sends every event to topic.
func NewEventPublisher(
	producer broker.Producer,
	serializer eventsService.Serializer,
	observer DeliveryObserver,
	topic string,
	logger *slog.Logger,
) EventPublisher {
	return &eventPublisher{
		producer:   producer,
		serializer: serializer,
		observer:   observer,
		topic:      topic,
		logger:     logger,

		newAttemptID: uuid.NewV7,
	}
}

// Publish encodes the event and hands it to the producer. Encoding failures are
// returned as *SerializationError and nothing reaches the broker. An attempt id
// that cannot be generated fails the publish the same way, unclassified.
func (p *eventPublisher) Publish(ctx context.Context, event *eventsDomain.PackageEvent) error {
	if event == nil {
		return apperrors.Wrap(apperrors.ErrInvalidInput, "event is required")
	}

	payload, err := p.serializer.Serialize(event)
	if err != nil {
		return &eventsDomain.SerializationError{PackageID: event.ID, Err: err}
	}

	attemptID, err := p.newAttemptID()
	if err != nil {
		return apperrors.Wrap(err, "failed to generate attempt id")
	}

	msg := &broker.Message{
		Topic: p.topic,
		Key:   event.Key(),
		Value: payload,
		Headers: map[string]string{
			broker.HeaderContentType: p.serializer.ContentType(),
			broker.HeaderAttemptID:   attemptID.String(),
			broker.HeaderEventType:   EventTypePackage,
		},
	}

	// The caller is answered before the broker acknowledges, so the delivery must
	// outlive the request context.
	deliveryCtx := context.WithoutCancel(ctx)
	packageID := event.ID

	p.producer.Produce(deliveryCtx, msg, func(report *broker.DeliveryReport, err error) {
		p.complete(deliveryCtx, packageID, msg, report, err)
	})

	return nil
}

// PublishAll submits the events one by one and returns the accepted count.
func (p *eventPublisher) PublishAll(ctx context.Context, events []*eventsDomain.PackageEvent) int {
	queued := 0

	for _, event := range events {
		if err := p.Publish(ctx, event); err != nil {
			attrs := []any{slog.Any("error", err)}
			if event != nil {
				attrs = append(attrs, slog.Int64("package_id", event.ID))
			}
			p.logger.Error("failed to queue package event", attrs...)
			continue
		}
		queued++
	}

	p.logger.Info("package events queued",
		slog.Int("queued", queued),
		slog.Int("total", len(events)),
	)

	return queued
}

// complete routes a delivery outcome to the observer. It runs on a broker
// goroutine and must never panic.
func (p *eventPublisher) complete(
	ctx context.Context,
	packageID int64,
	msg *broker.Message,
	report *broker.DeliveryReport,
	err error,
) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("delivery callback panicked",
				slog.Int64("package_id", packageID),
				slog.Any("panic", r),
			)
		}
	}()

	if err != nil {
		p.observer.Failed(ctx, msg, &eventsDomain.DeliveryError{
			PackageID: packageID,
			Topic:     msg.Topic,
			Err:       err,
		})
		return
	}

	p.observer.Delivered(ctx, packageID, report)
}
