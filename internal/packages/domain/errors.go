package domain

import (
	"fmt"

	apperrors "github.com/startupheroes/package-events/internal/errors"
)

// Package-specific error definitions.
var (
	// ErrPackageNotFound indicates no package exists for the requested id.
	ErrPackageNotFound = apperrors.Wrap(apperrors.ErrNotFound, "package not found")

	// ErrPackageCancelled indicates the package is excluded from publication.
	ErrPackageCancelled = apperrors.Wrap(apperrors.ErrRejected, "package cancelled")
)

// NotFoundError is returned when no package matches an id.
type NotFoundError struct {
	ID int64
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("Package not found with id: %d", e.ID)
}

// Unwrap exposes ErrPackageNotFound (and through it apperrors.ErrNotFound).
func (e *NotFoundError) Unwrap() error {
	return ErrPackageNotFound
}

// CancelledError is returned when a cancelled package is asked to be published.
type CancelledError struct {
	ID int64
}

// Error implements the error interface.
func (e *CancelledError) Error() string {
	return fmt.Sprintf("Package is cancelled and cannot be published. Id: %d", e.ID)
}

// Unwrap exposes ErrPackageCancelled (and through it apperrors.ErrRejected).
func (e *CancelledError) Unwrap() error {
	return ErrPackageCancelled
}
