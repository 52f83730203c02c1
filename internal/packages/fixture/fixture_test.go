package fixture

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/startupheroes/package-events/internal/errors"
	packagesDomain "github.com/startupheroes/package-events/internal/packages/domain"
)

type recordingWriter struct {
	stored []*packagesDomain.Package
	failOn int64
}

func (w *recordingWriter) Upsert(_ context.Context, pkg *packagesDomain.Package) error {
	if pkg.ID == w.failOn {
		return errors.New("constraint violation")
	}
	w.stored = append(w.stored, pkg)
	return nil
}

func TestLoadFile(t *testing.T) {
	t.Run("Success_ExampleFile", func(t *testing.T) {
		packages, err := LoadFile(filepath.Join("testdata", "packages.yaml"))
		require.NoError(t, err)
		require.Len(t, packages, 3)

		completed := packages[0]
		assert.Equal(t, int64(1), completed.ID)
		assert.Equal(t, packagesDomain.StatusCompleted, completed.Status)
		require.NotNil(t, completed.CreatedAt)
		assert.Equal(t, time.Date(2021, 11, 13, 10, 47, 52, 675248000, time.UTC), *completed.CreatedAt)
		require.NotNil(t, completed.ETA)
		assert.Equal(t, 277, *completed.ETA)
		require.NotNil(t, completed.DeliveryDate)
		assert.Equal(t, 13, completed.DeliveryDate.Day())
		require.NotNil(t, completed.OrderID)
		assert.Equal(t, int64(900001), *completed.OrderID)

		cancelled := packages[1]
		assert.True(t, cancelled.Cancelled)
		require.NotNil(t, cancelled.CancelReason)
		assert.Equal(t, "customer request", *cancelled.CancelReason)
		assert.Nil(t, cancelled.CompletedAt)

		inDelivery := packages[2]
		assert.Equal(t, packagesDomain.StatusInDelivery, inDelivery.Status)
		require.NotNil(t, inDelivery.InDeliveryAt)
		assert.Equal(t, 20, inDelivery.InDeliveryAt.Minute())
	})

	t.Run("Error_MissingFile", func(t *testing.T) {
		_, err := LoadFile(filepath.Join("testdata", "missing.yaml"))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "fixture file not found")
	})
}

func TestParse(t *testing.T) {
	t.Run("Success_EmptyStatus", func(t *testing.T) {
		packages, err := Parse([]byte("packages:\n  - id: 3\n"))

		require.NoError(t, err)
		require.Len(t, packages, 1)
		assert.Equal(t, packagesDomain.Status(""), packages[0].Status)
		assert.Nil(t, packages[0].ETA)
	})

	tests := []struct {
		name    string
		input   string
		message string
	}{
		{name: "non-positive id", input: "packages:\n  - id: 0\n", message: "id must be positive"},
		{name: "duplicate id", input: "packages:\n  - id: 1\n  - id: 1\n", message: "duplicate id"},
		{name: "unknown status", input: "packages:\n  - id: 1\n    status: LOST\n", message: "unknown package status"},
		{name: "bad timestamp", input: "packages:\n  - id: 1\n    createdAt: yesterday\n", message: "invalid timestamp"},
		{name: "malformed yaml", input: "packages: [", message: "invalid input"},
	}

	for _, tt := range tests {
		t.Run("Error_"+tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input))

			require.Error(t, err)
			assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestSeed(t *testing.T) {
	packages := []*packagesDomain.Package{{ID: 1}, {ID: 2}, {ID: 3}}

	t.Run("Success", func(t *testing.T) {
		writer := &recordingWriter{}

		count, err := Seed(context.Background(), writer, packages)

		require.NoError(t, err)
		assert.Equal(t, 3, count)
		assert.Len(t, writer.stored, 3)
	})

	t.Run("Error_StopsAtFirstFailure", func(t *testing.T) {
		writer := &recordingWriter{failOn: 2}

		count, err := Seed(context.Background(), writer, packages)

		require.Error(t, err)
		assert.Equal(t, 1, count)
		assert.Contains(t, err.Error(), "failed to seed package 2")
	})
}
