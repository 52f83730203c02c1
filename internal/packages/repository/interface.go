package repository

import (
	"context"

	packagesDomain "github.com/startupheroes/package-events/internal/packages/domain"
)

// PackageReader reads packages for publication.
type PackageReader interface {
	FindByID(ctx context.Context, id int64) (*packagesDomain.Package, error)
	FindAllNonCancelled(ctx context.Context) ([]*packagesDomain.Package, error)
}

// PackageWriter stores packages loaded from fixtures.
type PackageWriter interface {
	Upsert(ctx context.Context, pkg *packagesDomain.Package) error
}

// PackageRepository combines read and write access.
type PackageRepository interface {
	PackageReader
	PackageWriter
}
