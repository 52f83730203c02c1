// Package repository implements read access to delivery packages.
// Repositories support both PostgreSQL and MySQL; seeding uses an upsert so fixture
// loads are repeatable.
package repository

import (
	"database/sql"
	"fmt"
	"time"

	packagesDomain "github.com/startupheroes/package-events/internal/packages/domain"
)

// packageColumns lists the selected columns in scan order.
const packageColumns = `id, created_at, last_updated_at, waiting_for_assignment_at, arrival_for_pickup_at,
			  picked_up_at, collected_at, in_delivery_at, arrival_for_delivery_at, completed_at,
			  cancelled_at, eta, cancelled, cancel_reason, status, customer_id, store_id,
			  origin_address_id, user_id, order_id, type, delivery_date, collected, reassigned`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPackage(row rowScanner) (*packagesDomain.Package, error) {
	var (
		pkg                                                      packagesDomain.Package
		createdAt, lastUpdatedAt, waitingAt, arrivalPickupAt     sql.Null[time.Time]
		pickedUpAt, collectedAt, inDeliveryAt, arrivalDeliveryAt sql.Null[time.Time]
		completedAt, cancelledAt, deliveryDate                   sql.Null[time.Time]
		eta, collected, reassigned                               sql.Null[int]
		cancelReason, status, packageType                        sql.Null[string]
		customerID, storeID, originAddressID, userID, orderID    sql.Null[int64]
	)

	err := row.Scan(
		&pkg.ID,
		&createdAt,
		&lastUpdatedAt,
		&waitingAt,
		&arrivalPickupAt,
		&pickedUpAt,
		&collectedAt,
		&inDeliveryAt,
		&arrivalDeliveryAt,
		&completedAt,
		&cancelledAt,
		&eta,
		&pkg.Cancelled,
		&cancelReason,
		&status,
		&customerID,
		&storeID,
		&originAddressID,
		&userID,
		&orderID,
		&packageType,
		&deliveryDate,
		&collected,
		&reassigned,
	)
	if err != nil {
		return nil, err
	}

	pkg.CreatedAt = nullPtr(createdAt)
	pkg.LastUpdatedAt = nullPtr(lastUpdatedAt)
	pkg.WaitingForAssignmentAt = nullPtr(waitingAt)
	pkg.ArrivalForPickupAt = nullPtr(arrivalPickupAt)
	pkg.PickedUpAt = nullPtr(pickedUpAt)
	pkg.CollectedAt = nullPtr(collectedAt)
	pkg.InDeliveryAt = nullPtr(inDeliveryAt)
	pkg.ArrivalForDeliveryAt = nullPtr(arrivalDeliveryAt)
	pkg.CompletedAt = nullPtr(completedAt)
	pkg.CancelledAt = nullPtr(cancelledAt)
	pkg.DeliveryDate = nullPtr(deliveryDate)
	pkg.ETA = nullPtr(eta)
	pkg.Collected = nullPtr(collected)
	pkg.Reassigned = nullPtr(reassigned)
	pkg.CancelReason = nullPtr(cancelReason)
	pkg.Type = nullPtr(packageType)
	pkg.CustomerID = nullPtr(customerID)
	pkg.StoreID = nullPtr(storeID)
	pkg.OriginAddressID = nullPtr(originAddressID)
	pkg.UserID = nullPtr(userID)
	pkg.OrderID = nullPtr(orderID)

	// A NULL status leaves Status empty, which never carries timing metrics.
	if status.Valid {
		parsed, err := packagesDomain.ParseStatus(status.V)
		if err != nil {
			return nil, fmt.Errorf("package %d: %w", pkg.ID, err)
		}
		pkg.Status = parsed
	}

	return &pkg, nil
}

func scanPackages(rows *sql.Rows) ([]*packagesDomain.Package, error) {
	packages := make([]*packagesDomain.Package, 0)
	for rows.Next() {
		pkg, err := scanPackage(rows)
		if err != nil {
			return nil, err
		}
		packages = append(packages, pkg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return packages, nil
}

// upsertArgs returns the column values in packageColumns order.
func upsertArgs(pkg *packagesDomain.Package) []any {
	var status any
	if pkg.Status != "" {
		status = string(pkg.Status)
	}

	return []any{
		pkg.ID,
		pkg.CreatedAt,
		pkg.LastUpdatedAt,
		pkg.WaitingForAssignmentAt,
		pkg.ArrivalForPickupAt,
		pkg.PickedUpAt,
		pkg.CollectedAt,
		pkg.InDeliveryAt,
		pkg.ArrivalForDeliveryAt,
		pkg.CompletedAt,
		pkg.CancelledAt,
		pkg.ETA,
		pkg.Cancelled,
		pkg.CancelReason,
		status,
		pkg.CustomerID,
		pkg.StoreID,
		pkg.OriginAddressID,
		pkg.UserID,
		pkg.OrderID,
		pkg.Type,
		pkg.DeliveryDate,
		pkg.Collected,
		pkg.Reassigned,
	}
}

func nullPtr[T any](value sql.Null[T]) *T {
	if !value.Valid {
		return nil
	}
	v := value.V
	return &v
}
