package usecase

import (
	"context"
	"time"

	"github.com/startupheroes/package-events/internal/metrics"
	packagesDomain "github.com/startupheroes/package-events/internal/packages/domain"
)

// seedUseCaseWithMetrics decorates SeedUseCase with metrics instrumentation.
type seedUseCaseWithMetrics struct {
	next    SeedUseCase
	metrics metrics.BusinessMetrics
}

// NewSeedUseCaseWithMetrics wraps a SeedUseCase with metrics recording.
func NewSeedUseCaseWithMetrics(useCase SeedUseCase, m metrics.BusinessMetrics) SeedUseCase {
	return &seedUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// SeedFile records metrics for file seeding.
func (s *seedUseCaseWithMetrics) SeedFile(ctx context.Context, path string) (int, error) {
	start := time.Now()
	count, err := s.next.SeedFile(ctx, path)
	s.record(ctx, start, err)
	return count, err
}

// Seed records metrics for seeding.
func (s *seedUseCaseWithMetrics) Seed(ctx context.Context, packages []*packagesDomain.Package) (int, error) {
	start := time.Now()
	count, err := s.next.Seed(ctx, packages)
	s.record(ctx, start, err)
	return count, err
}

func (s *seedUseCaseWithMetrics) record(ctx context.Context, start time.Time, err error) {
	status := metrics.Status(err)
	s.metrics.RecordOperation(ctx, "packages", "package_seed", status)
	s.metrics.RecordDuration(ctx, "packages", "package_seed", time.Since(start), status)
}
