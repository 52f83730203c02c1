package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/startupheroes/package-events/internal/database"
	apperrors "github.com/startupheroes/package-events/internal/errors"
	packagesDomain "github.com/startupheroes/package-events/internal/packages/domain"
)

// PostgreSQLPackageRepository implements package access for PostgreSQL databases.
// It serves both the "postgres" (lib/pq) and "pgx" drivers.
type PostgreSQLPackageRepository struct {
	db *sql.DB
}

// FindByID retrieves a package by id. It returns apperrors.ErrNotFound when no row matches.
func (p *PostgreSQLPackageRepository) FindByID(ctx context.Context, id int64) (*packagesDomain.Package, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + packageColumns + `
			  FROM packages
			  WHERE id = $1`

	pkg, err := scanPackage(querier.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get package by id")
	}

	return pkg, nil
}

// FindAllNonCancelled retrieves every package whose cancelled flag is false, ordered by id.
// The whole result is held in memory.
func (p *PostgreSQLPackageRepository) FindAllNonCancelled(ctx context.Context) ([]*packagesDomain.Package, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + packageColumns + `
			  FROM packages
			  WHERE cancelled = FALSE
			  ORDER BY id ASC`

	rows, err := querier.QueryContext(ctx, query)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list non-cancelled packages")
	}
	defer func() {
		_ = rows.Close()
	}()

	packages, err := scanPackages(rows)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to scan packages")
	}

	return packages, nil
}

// Upsert inserts the package or replaces every column of an existing row with the same id.
func (p *PostgreSQLPackageRepository) Upsert(ctx context.Context, pkg *packagesDomain.Package) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO packages (` + packageColumns + `)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18,
			  $19, $20, $21, $22, $23, $24)
			  ON CONFLICT (id) DO UPDATE SET
			  created_at = EXCLUDED.created_at,
			  last_updated_at = EXCLUDED.last_updated_at,
			  waiting_for_assignment_at = EXCLUDED.waiting_for_assignment_at,
			  arrival_for_pickup_at = EXCLUDED.arrival_for_pickup_at,
			  picked_up_at = EXCLUDED.picked_up_at,
			  collected_at = EXCLUDED.collected_at,
			  in_delivery_at = EXCLUDED.in_delivery_at,
			  arrival_for_delivery_at = EXCLUDED.arrival_for_delivery_at,
			  completed_at = EXCLUDED.completed_at,
			  cancelled_at = EXCLUDED.cancelled_at,
			  eta = EXCLUDED.eta,
			  cancelled = EXCLUDED.cancelled,
			  cancel_reason = EXCLUDED.cancel_reason,
			  status = EXCLUDED.status,
			  customer_id = EXCLUDED.customer_id,
			  store_id = EXCLUDED.store_id,
			  origin_address_id = EXCLUDED.origin_address_id,
			  user_id = EXCLUDED.user_id,
			  order_id = EXCLUDED.order_id,
			  type = EXCLUDED.type,
			  delivery_date = EXCLUDED.delivery_date,
			  collected = EXCLUDED.collected,
			  reassigned = EXCLUDED.reassigned`

	if _, err := querier.ExecContext(ctx, query, upsertArgs(pkg)...); err != nil {
		return apperrors.Wrap(err, "failed to upsert package")
	}
	return nil
}

// NewPostgreSQLPackageRepository creates a new PostgreSQL package repository.
func NewPostgreSQLPackageRepository(db *sql.DB) *PostgreSQLPackageRepository {
	return &PostgreSQLPackageRepository{db: db}
}
