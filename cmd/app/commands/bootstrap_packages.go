package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/startupheroes/package-events/internal/broker"
	eventsUseCase "github.com/startupheroes/package-events/internal/events/usecase"
)

// RunBootstrapPackages publishes the event of every non-cancelled package and waits
// for the deliveries to be reported before returning.
//
// Requirements: Database must be migrated and the broker reachable.
func RunBootstrapPackages(
	ctx context.Context,
	useCase eventsUseCase.PackageEventUseCase,
	producer broker.Producer,
	logger *slog.Logger,
	writer io.Writer,
	flushTimeout time.Duration,
	format string,
) error {
	logger.Info("bootstrapping packages")

	count, err := useCase.SendAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to bootstrap packages: %w", err)
	}

	if err := flushProducer(ctx, producer, flushTimeout); err != nil {
		return err
	}

	logger.Info("bootstrap completed", slog.Int("count", count))

	if format == "json" {
		return writeJSON(writer, map[string]any{"count": count})
	}

	_, err = fmt.Fprintf(writer, "Queued %d package event(s)\n", count)
	return err
}
