package service

import (
	eventsDomain "github.com/startupheroes/package-events/internal/events/domain"
	packagesDomain "github.com/startupheroes/package-events/internal/packages/domain"
)

// ToEvent derives the outbound event for pkg. Identity, timestamps and eta are
// always copied. Timing metrics are computed only for statuses whose policy allows
// them; missing timestamps leave the matching metric nil.
func ToEvent(pkg *packagesDomain.Package) *eventsDomain.PackageEvent {
	event := &eventsDomain.PackageEvent{
		ID:            pkg.ID,
		CreatedAt:     eventsDomain.FormatTimestamp(pkg.CreatedAt),
		LastUpdatedAt: eventsDomain.FormatTimestamp(pkg.LastUpdatedAt),
		ETA:           copyInt(pkg.ETA),
	}

	if !pkg.Status.HasTimingMetrics() {
		return event
	}

	event.LeadTime = eventsDomain.MinutesBetween(pkg.CreatedAt, pkg.CompletedAt)
	event.CollectionDuration = eventsDomain.MinutesBetween(pkg.CreatedAt, pkg.PickedUpAt)
	event.DeliveryDuration = eventsDomain.MinutesBetween(pkg.InDeliveryAt, pkg.CompletedAt)
	event.OrderInTime = eventsDomain.IsOnTime(event.LeadTime, event.ETA)

	return event
}

func copyInt(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
