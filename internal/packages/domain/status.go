package domain

import (
	"fmt"
	"sort"

	apperrors "github.com/startupheroes/package-events/internal/errors"
)

// Status is the lifecycle state of a package.
type Status string

// Lifecycle states.
const (
	StatusCreated              Status = "CREATED"
	StatusWaitingForAssignment Status = "WAITING_FOR_ASSIGNMENT"
	StatusAssigned             Status = "ASSIGNED"
	StatusArrivedForPickup     Status = "ARRIVED_FOR_PICKUP"
	StatusPickedUp             Status = "PICKED_UP"
	StatusInDelivery           Status = "IN_DELIVERY"
	StatusArrivedForDelivery   Status = "ARRIVED_FOR_DELIVERY"
	StatusCompleted            Status = "COMPLETED"
	StatusCancelled            Status = "CANCELLED"
)

// statusPolicy records the per-state decisions the event pipeline depends on.
type statusPolicy struct {
	timingMetrics bool
}

// statusPolicies is the single source of truth for known states. A state missing
// here is rejected by ParseStatus, so a new state cannot reach the mapper without
// an explicit decision.
var statusPolicies = map[Status]statusPolicy{
	StatusCreated:              {timingMetrics: false},
	StatusWaitingForAssignment: {timingMetrics: false},
	StatusAssigned:             {timingMetrics: false},
	StatusArrivedForPickup:     {timingMetrics: false},
	StatusPickedUp:             {timingMetrics: false},
	StatusInDelivery:           {timingMetrics: false},
	StatusArrivedForDelivery:   {timingMetrics: false},
	StatusCompleted:            {timingMetrics: true},
	StatusCancelled:            {timingMetrics: false},
}

// ErrUnknownStatus indicates a stored status value outside the known lifecycle.
// It is a data integrity failure, not a client error.
var ErrUnknownStatus = apperrors.New("unknown package status")

// ParseStatus converts a stored value into a Status.
func ParseStatus(value string) (Status, error) {
	status := Status(value)
	if _, ok := statusPolicies[status]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, value)
	}
	return status, nil
}

// AllStatuses returns every known lifecycle state in a stable order.
func AllStatuses() []Status {
	statuses := make([]Status, 0, len(statusPolicies))
	for status := range statusPolicies {
		statuses = append(statuses, status)
	}
	sort.Slice(statuses, func(i, j int) bool { return statuses[i] < statuses[j] })
	return statuses
}

// HasTimingMetrics reports whether events for a package in this state carry
// collection, delivery, lead time and on-time metrics. Unknown and empty states
// never do.
func (s Status) HasTimingMetrics() bool {
	return statusPolicies[s].timingMetrics
}

// String implements fmt.Stringer.
func (s Status) String() string {
	return string(s)
}
