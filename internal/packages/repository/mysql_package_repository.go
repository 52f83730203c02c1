package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/startupheroes/package-events/internal/database"
	apperrors "github.com/startupheroes/package-events/internal/errors"
	packagesDomain "github.com/startupheroes/package-events/internal/packages/domain"
)

// MySQLPackageRepository implements package access for MySQL databases.
// The connection string must set parseTime=true so DATETIME columns scan into time.Time.
type MySQLPackageRepository struct {
	db *sql.DB
}

// FindByID retrieves a package by id. It returns apperrors.ErrNotFound when no row matches.
func (m *MySQLPackageRepository) FindByID(ctx context.Context, id int64) (*packagesDomain.Package, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT ` + packageColumns + `
			  FROM packages
			  WHERE id = ?`

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
func (m *MySQLPackageRepository) FindAllNonCancelled(ctx context.Context) ([]*packagesDomain.Package, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT ` + packageColumns + `
			  FROM packages
			  WHERE cancelled = 0
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
// The update reads the inserted values through the row alias, which needs MySQL 8.0.19+.
func (m *MySQLPackageRepository) Upsert(ctx context.Context, pkg *packagesDomain.Package) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO packages (` + packageColumns + `)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?) AS new
			  ON DUPLICATE KEY UPDATE
			  created_at = new.created_at,
			  last_updated_at = new.last_updated_at,
			  waiting_for_assignment_at = new.waiting_for_assignment_at,
			  arrival_for_pickup_at = new.arrival_for_pickup_at,
			  picked_up_at = new.picked_up_at,
			  collected_at = new.collected_at,
			  in_delivery_at = new.in_delivery_at,
			  arrival_for_delivery_at = new.arrival_for_delivery_at,
			  completed_at = new.completed_at,
			  cancelled_at = new.cancelled_at,
			  eta = new.eta,
			  cancelled = new.cancelled,
			  cancel_reason = new.cancel_reason,
			  status = new.status,
			  customer_id = new.customer_id,
			  store_id = new.store_id,
			  origin_address_id = new.origin_address_id,
			  user_id = new.user_id,
			  order_id = new.order_id,
			  type = new.type,
			  delivery_date = new.delivery_date,
			  collected = new.collected,
			  reassigned = new.reassigned`

	if _, err := querier.ExecContext(ctx, query, upsertArgs(pkg)...); err != nil {
		return apperrors.Wrap(err, "failed to upsert package")
	}
	return nil
}

// NewMySQLPackageRepository creates a new MySQL package repository.
func NewMySQLPackageRepository(db *sql.DB) *MySQLPackageRepository {
	return &MySQLPackageRepository{db: db}
}
