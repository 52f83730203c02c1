// Package usecase publishes package events. It loads packages, applies the publish
// gate, maps them to events and hands the encoded events to the broker without
// waiting for acknowledgment.
package usecase

import (
	"context"

	"github.com/startupheroes/package-events/internal/broker"
	eventsDomain "github.com/startupheroes/package-events/internal/events/domain"
	packagesDomain "github.com/startupheroes/package-events/internal/packages/domain"
)

// PackageRepository defines the package reads needed for publication.
type PackageRepository interface {
	FindByID(ctx context.Context, id int64) (*packagesDomain.Package, error)
	FindAllNonCancelled(ctx context.Context) ([]*packagesDomain.Package, error)
}

// EventPublisher submits events to the broker.
type EventPublisher interface {
	// Publish encodes the event and submits it. A nil error means the event was
	// accepted for asynchronous delivery, not that the broker stored it.
	Publish(ctx context.Context, event *eventsDomain.PackageEvent) error
	// PublishAll submits every event and returns how many were accepted.
	// Events that fail to encode are logged and skipped.
	PublishAll(ctx context.Context, events []*eventsDomain.PackageEvent) int
}

// DeliveryObserver receives the asynchronous outcome of every submitted event.
type DeliveryObserver interface {
	Delivered(ctx context.Context, packageID int64, report *broker.DeliveryReport)
	Failed(ctx context.Context, msg *broker.Message, err *eventsDomain.DeliveryError)
}

// PackageEventUseCase defines the publication operations exposed to the outside.
type PackageEventUseCase interface {
	// SendOne publishes the event of a single package and returns its id.
	SendOne(ctx context.Context, id int64) (int64, error)
	// SendAll publishes the events of every non-cancelled package and returns how
	// many were submitted.
	SendAll(ctx context.Context) (int, error)
}
