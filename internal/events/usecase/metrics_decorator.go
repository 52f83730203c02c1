package usecase

import (
	"context"
	"time"

	"github.com/startupheroes/package-events/internal/metrics"
)

// packageEventUseCaseWithMetrics decorates PackageEventUseCase with metrics instrumentation.
type packageEventUseCaseWithMetrics struct {
	next    PackageEventUseCase
	metrics metrics.BusinessMetrics
}

// NewPackageEventUseCaseWithMetrics wraps a PackageEventUseCase with metrics recording.
func NewPackageEventUseCaseWithMetrics(
	useCase PackageEventUseCase,
	m metrics.BusinessMetrics,
) PackageEventUseCase {
	return &packageEventUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// SendOne records metrics for single package publication.
func (p *packageEventUseCaseWithMetrics) SendOne(ctx context.Context, id int64) (int64, error) {
	start := time.Now()
	packageID, err := p.next.SendOne(ctx, id)
	p.record(ctx, "package_send", start, err)
	return packageID, err
}

// SendAll records metrics for bulk publication.
func (p *packageEventUseCaseWithMetrics) SendAll(ctx context.Context) (int, error) {
	start := time.Now()
	count, err := p.next.SendAll(ctx)
	p.record(ctx, "package_bootstrap", start, err)
	return count, err
}

func (p *packageEventUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := metrics.Status(err)
	p.metrics.RecordOperation(ctx, "events", operation, status)
	p.metrics.RecordDuration(ctx, "events", operation, time.Since(start), status)
}
