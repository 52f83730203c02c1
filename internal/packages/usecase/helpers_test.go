package usecase

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/startupheroes/package-events/internal/metrics"
)

// mockBusinessMetrics is a mock implementation of metrics.BusinessMetrics for testing.
type mockBusinessMetrics struct {
	mock.Mock
}

func (m *mockBusinessMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {
	m.Called(ctx, domain, operation, status)
}

func (m *mockBusinessMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
	m.Called(ctx, domain, operation, duration, status)
}

func (m *mockBusinessMetrics) RecordDelivery(ctx context.Context, topic string, outcome metrics.DeliveryOutcome) {
	m.Called(ctx, topic, outcome)
}

var _ metrics.BusinessMetrics = (*mockBusinessMetrics)(nil)
