package testutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	packagesDomain "github.com/startupheroes/package-events/internal/packages/domain"
)

// MustParseTime parses a "2006-01-02T15:04:05.999999" timestamp as UTC.
func MustParseTime(t *testing.T, value string) *time.Time {
	t.Helper()

	parsed, err := time.Parse("2006-01-02T15:04:05.999999", value)
	require.NoError(t, err, "invalid test timestamp %q", value)
	return &parsed
}

// IntPtr returns a pointer to v.
func IntPtr(v int) *int {
	return &v
}

// CompletedPackage returns a completed package delivered 52 minutes after creation
// against a 277 minute eta.
func CompletedPackage(t *testing.T, id int64) *packagesDomain.Package {
	t.Helper()

	return &packagesDomain.Package{
		ID:            id,
		CreatedAt:     MustParseTime(t, "2021-11-13T10:47:52.675248"),
		LastUpdatedAt: MustParseTime(t, "2021-11-13T11:40:15.314340"),
		PickedUpAt:    MustParseTime(t, "2021-11-13T10:49:50.278087"),
		InDeliveryAt:  MustParseTime(t, "2021-11-13T11:05:56.861614"),
		CompletedAt:   MustParseTime(t, "2021-11-13T11:40:15.314340"),
		ETA:           IntPtr(277),
		Status:        packagesDomain.StatusCompleted,
	}
}

// InDeliveryPackage returns a package that is still on its way.
func InDeliveryPackage(t *testing.T, id int64) *packagesDomain.Package {
	t.Helper()

	return &packagesDomain.Package{
		ID:            id,
		CreatedAt:     MustParseTime(t, "2021-11-13T10:47:52.675248"),
		LastUpdatedAt: MustParseTime(t, "2021-11-13T11:05:56.861614"),
		PickedUpAt:    MustParseTime(t, "2021-11-13T10:49:50.278087"),
		InDeliveryAt:  MustParseTime(t, "2021-11-13T11:05:56.861614"),
		ETA:           IntPtr(120),
		Status:        packagesDomain.StatusInDelivery,
	}
}

// CancelledPackage returns a package excluded from publication.
func CancelledPackage(t *testing.T, id int64) *packagesDomain.Package {
	t.Helper()

	return &packagesDomain.Package{
		ID:            id,
		CreatedAt:     MustParseTime(t, "2021-11-13T10:47:52.675248"),
		LastUpdatedAt: MustParseTime(t, "2021-11-13T10:50:00"),
		CancelledAt:   MustParseTime(t, "2021-11-13T10:50:00"),
		ETA:           IntPtr(60),
		Cancelled:     true,
		Status:        packagesDomain.StatusCancelled,
	}
}
