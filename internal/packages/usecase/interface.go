// Package usecase defines the package maintenance use cases. Packages are owned by
// the delivery system; this service only seeds them for local runs.
package usecase

import (
	"context"

	packagesDomain "github.com/startupheroes/package-events/internal/packages/domain"
)

// PackageWriter defines the package writes needed for seeding.
type PackageWriter interface {
	Upsert(ctx context.Context, pkg *packagesDomain.Package) error
}

// SeedUseCase stores fixture packages.
type SeedUseCase interface {
	// SeedFile loads the fixture file at path and stores every package in one
	// transaction. It returns how many packages were written.
	SeedFile(ctx context.Context, path string) (int, error)
	// Seed stores the given packages in one transaction.
	Seed(ctx context.Context, packages []*packagesDomain.Package) (int, error)
}
