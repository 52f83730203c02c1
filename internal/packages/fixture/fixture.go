// Package fixture loads delivery packages from YAML files and stores them, so a
// local database can be seeded with known lifecycle data.
package fixture

import (
	"context"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	apperrors "github.com/startupheroes/package-events/internal/errors"
	packagesDomain "github.com/startupheroes/package-events/internal/packages/domain"
)

// timestampLayouts are tried in order when parsing fixture timestamps.
var timestampLayouts = []string{
	"2006-01-02 15:04:05.999999",
	"2006-01-02T15:04:05.999999",
	time.RFC3339Nano,
	"2006-01-02",
}

// Timestamp wraps time.Time for YAML string parsing. Zone-less values are UTC.
type Timestamp struct {
	time.Time
}

// UnmarshalYAML parses a timestamp string in any of the supported layouts.
func (ts *Timestamp) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			ts.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("invalid timestamp %q", s)
}

func (ts *Timestamp) ptr() *time.Time {
	if ts == nil {
		return nil
	}
	t := ts.Time
	return &t
}

// PackageFixture is the YAML shape of one package.
type PackageFixture struct {
	ID                     int64      `yaml:"id"`
	CreatedAt              *Timestamp `yaml:"createdAt"`
	LastUpdatedAt          *Timestamp `yaml:"lastUpdatedAt"`
	WaitingForAssignmentAt *Timestamp `yaml:"waitingForAssignmentAt"`
	ArrivalForPickupAt     *Timestamp `yaml:"arrivalForPickupAt"`
	PickedUpAt             *Timestamp `yaml:"pickedUpAt"`
	CollectedAt            *Timestamp `yaml:"collectedAt"`
	InDeliveryAt           *Timestamp `yaml:"inDeliveryAt"`
	ArrivalForDeliveryAt   *Timestamp `yaml:"arrivalForDeliveryAt"`
	CompletedAt            *Timestamp `yaml:"completedAt"`
	CancelledAt            *Timestamp `yaml:"cancelledAt"`
	ETA                    *int       `yaml:"eta"`
	Cancelled              bool       `yaml:"cancelled"`
	CancelReason           *string    `yaml:"cancelReason"`
	Status                 string     `yaml:"status"`
	CustomerID             *int64     `yaml:"customerId"`
	StoreID                *int64     `yaml:"storeId"`
	OriginAddressID        *int64     `yaml:"originAddressId"`
	UserID                 *int64     `yaml:"userId"`
	OrderID                *int64     `yaml:"orderId"`
	Type                   *string    `yaml:"type"`
	DeliveryDate           *Timestamp `yaml:"deliveryDate"`
	Collected              *int       `yaml:"collected"`
	Reassigned             *int       `yaml:"reassigned"`
}

// File is the top-level YAML document.
type File struct {
	Packages []PackageFixture `yaml:"packages"`
}

// Writer stores packages.
type Writer interface {
	Upsert(ctx context.Context, pkg *packagesDomain.Package) error
}

// LoadFile reads and parses a fixture file.
func LoadFile(path string) ([]*packagesDomain.Package, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("fixture file not found: %s", path)
		}
		return nil, fmt.Errorf("cannot read fixture file %q: %w", path, err)
	}

	packages, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("invalid fixture %s: %w", path, err)
	}
	return packages, nil
}

// Parse decodes a fixture document. Ids must be positive and unique; statuses must
// be known or empty.
func Parse(data []byte) ([]*packagesDomain.Package, error) {
	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
	}

	seen := make(map[int64]struct{}, len(file.Packages))
	packages := make([]*packagesDomain.Package, 0, len(file.Packages))

	for i, f := range file.Packages {
		if f.ID <= 0 {
			return nil, apperrors.Wrapf(apperrors.ErrInvalidInput, "package #%d: id must be positive", i+1)
		}
		if _, ok := seen[f.ID]; ok {
			return nil, apperrors.Wrapf(apperrors.ErrInvalidInput, "package %d: duplicate id", f.ID)
		}
		seen[f.ID] = struct{}{}

		pkg, err := f.toDomain()
		if err != nil {
			return nil, apperrors.Wrapf(apperrors.ErrInvalidInput, "package %d: %v", f.ID, err)
		}
		packages = append(packages, pkg)
	}

	return packages, nil
}

func (f PackageFixture) toDomain() (*packagesDomain.Package, error) {
	pkg := &packagesDomain.Package{
		ID:                     f.ID,
		CreatedAt:              f.CreatedAt.ptr(),
		LastUpdatedAt:          f.LastUpdatedAt.ptr(),
		WaitingForAssignmentAt: f.WaitingForAssignmentAt.ptr(),
		ArrivalForPickupAt:     f.ArrivalForPickupAt.ptr(),
		PickedUpAt:             f.PickedUpAt.ptr(),
		CollectedAt:            f.CollectedAt.ptr(),
		InDeliveryAt:           f.InDeliveryAt.ptr(),
		ArrivalForDeliveryAt:   f.ArrivalForDeliveryAt.ptr(),
		CompletedAt:            f.CompletedAt.ptr(),
		CancelledAt:            f.CancelledAt.ptr(),
		ETA:                    f.ETA,
		Cancelled:              f.Cancelled,
		CancelReason:           f.CancelReason,
		CustomerID:             f.CustomerID,
		StoreID:                f.StoreID,
		OriginAddressID:        f.OriginAddressID,
		UserID:                 f.UserID,
		OrderID:                f.OrderID,
		Type:                   f.Type,
		DeliveryDate:           f.DeliveryDate.ptr(),
		Collected:              f.Collected,
		Reassigned:             f.Reassigned,
	}

	if f.Status != "" {
		status, err := packagesDomain.ParseStatus(f.Status)
		if err != nil {
			return nil, err
		}
		pkg.Status = status
	}

	return pkg, nil
}

// Seed stores every package and returns how many were written. It stops at the
// first failure.
func Seed(ctx context.Context, w Writer, packages []*packagesDomain.Package) (int, error) {
	for i, pkg := range packages {
		if err := w.Upsert(ctx, pkg); err != nil {
			return i, fmt.Errorf("failed to seed package %d: %w", pkg.ID, err)
		}
	}
	return len(packages), nil
}
