// Package domain defines the delivery package record read by the event pipeline.
// Records are owned by the package store; this service only reads them.
package domain

import "time"

// Package is a delivery package with its lifecycle timestamps.
// Every timestamp is optional; a nil value means the lifecycle step never happened
// or was not recorded.
type Package struct {
	ID int64

	CreatedAt              *time.Time
	LastUpdatedAt          *time.Time
	WaitingForAssignmentAt *time.Time
	ArrivalForPickupAt     *time.Time
	PickedUpAt             *time.Time
	CollectedAt            *time.Time
	InDeliveryAt           *time.Time
	ArrivalForDeliveryAt   *time.Time
	CompletedAt            *time.Time
	CancelledAt            *time.Time

	// ETA is the estimated time of arrival in minutes.
	ETA *int
	// Cancelled excludes the package from publication. It is checked instead of Status.
	Cancelled    bool
	CancelReason *string
	Status       Status

	CustomerID      *int64
	StoreID         *int64
	OriginAddressID *int64
	UserID          *int64
	OrderID         *int64

	Type         *string
	DeliveryDate *time.Time
	Collected    *int
	Reassigned   *int
}
