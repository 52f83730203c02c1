package usecase

import (
	"context"
	"log/slog"

	"github.com/startupheroes/package-events/internal/database"
	packagesDomain "github.com/startupheroes/package-events/internal/packages/domain"
	"github.com/startupheroes/package-events/internal/packages/fixture"
)

// seedUseCase implements SeedUseCase.
type seedUseCase struct {
	txManager   database.TxManager
	packageRepo PackageWriter
	logger      *slog.Logger
}

// NewSeedUseCase creates a new SeedUseCase.
func NewSeedUseCase(
	txManager database.TxManager,
	packageRepo PackageWriter,
	logger *slog.Logger,
) SeedUseCase {
	return &seedUseCase{
		txManager:   txManager,
		packageRepo: packageRepo,
		logger:      logger,
	}
}

// SeedFile loads and stores a fixture file.
func (s *seedUseCase) SeedFile(ctx context.Context, path string) (int, error) {
	packages, err := fixture.LoadFile(path)
	if err != nil {
		return 0, err
	}

	return s.Seed(ctx, packages)
}

// Seed upserts every package. Nothing is written if any upsert fails.
func (s *seedUseCase) Seed(ctx context.Context, packages []*packagesDomain.Package) (int, error) {
	var written int

	err := s.txManager.WithTx(ctx, func(ctx context.Context) error {
		var err error
		written, err = fixture.Seed(ctx, s.packageRepo, packages)
		return err
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info("packages seeded", slog.Int("count", written))
	return written, nil
}
