package usecase

import (
	"context"
	"log/slog"

	apperrors "github.com/startupheroes/package-events/internal/errors"
	eventsDomain "github.com/startupheroes/package-events/internal/events/domain"
	eventsService "github.com/startupheroes/package-events/internal/events/service"
	packagesDomain "github.com/startupheroes/package-events/internal/packages/domain"
)

// packageEventUseCase implements PackageEventUseCase.
type packageEventUseCase struct {
	packageRepo PackageRepository
	publisher   EventPublisher
	logger      *slog.Logger
}

// NewPackageEventUseCase creates a new PackageEventUseCase.
func NewPackageEventUseCase(
	packageRepo PackageRepository,
	publisher EventPublisher,
	logger *slog.Logger,
) PackageEventUseCase {
	return &packageEventUseCase{
		packageRepo: packageRepo,
		publisher:   publisher,
		logger:      logger,
	}
}

// SendOne loads the package, checks it may be published and submits its event.
// The returned id only confirms submission; delivery is reported asynchronously.
func (u *packageEventUseCase) SendOne(ctx context.Context, id int64) (int64, error) {
	if id <= 0 {
		return 0, apperrors.Wrapf(apperrors.ErrInvalidInput, "package id must be positive, got %d", id)
	}

	pkg, err := u.packageRepo.FindByID(ctx, id)
	if err != nil {
		if !apperrors.Is(err, apperrors.ErrNotFound) {
			return 0, err
		}
		pkg = nil
	}

	if err := packagesDomain.AssertPublishable(id, pkg); err != nil {
		return 0, err
	}

	if err := u.publisher.Publish(ctx, eventsService.ToEvent(pkg)); err != nil {
		return 0, err
	}

	return pkg.ID, nil
}

// SendAll submits the event of every non-cancelled package and returns how many
// were accepted by the producer.
func (u *packageEventUseCase) SendAll(ctx context.Context) (int, error) {
	packages, err := u.packageRepo.FindAllNonCancelled(ctx)
	if err != nil {
		return 0, err
	}

	events := make([]*eventsDomain.PackageEvent, 0, len(packages))
	for _, pkg := range packages {
		if pkg == nil {
			continue
		}
		if err := packagesDomain.AssertPublishable(pkg.ID, pkg); err != nil {
			u.logger.Warn("skipping package", slog.Int64("package_id", pkg.ID), slog.Any("error", err))
			continue
		}
		events = append(events, eventsService.ToEvent(pkg))
	}

	return u.publisher.PublishAll(ctx, events), nil
}
