package domain

import (
	"fmt"

	apperrors "github.com/startupheroes/package-events/internal/errors"
)

// SerializationError reports that an event could not be encoded. It aborts only
// the publish of that one event.
type SerializationError struct {
	PackageID int64
	Err       error
}

// Error implements the error interface.
func (e *SerializationError) Error() string {
	return fmt.Sprintf("Failed to serialize package: %d", e.PackageID)
}

// Unwrap returns the encoder cause.
func (e *SerializationError) Unwrap() error {
	return e.Err
}

// Is classifies the error as apperrors.ErrSerialization.
func (e *SerializationError) Is(target error) bool {
	return target == apperrors.ErrSerialization
}

// DeliveryError reports that the broker rejected or never acknowledged a message.
// It is observed after the caller has been answered and is never returned to it.
type DeliveryError struct {
	PackageID int64
	Topic     string
	Err       error
}

// Error implements the error interface.
func (e *DeliveryError) Error() string {
	return fmt.Sprintf("Failed to deliver package %d to topic %s: %v", e.PackageID, e.Topic, e.Err)
}

// Unwrap returns the broker cause.
func (e *DeliveryError) Unwrap() error {
	return e.Err
}
