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

// RunSendPackage publishes the event of a single package and waits for its delivery
// to be reported before returning.
//
// Requirements: Database must be migrated and the broker reachable.
func RunSendPackage(
	ctx context.Context,
	useCase eventsUseCase.PackageEventUseCase,
	producer broker.Producer,
	logger *slog.Logger,
	writer io.Writer,
	id int64,
	flushTimeout time.Duration,
	format string,
) error {
	logger.Info("sending package", slog.Int64("package_id", id))

	sentID, err := useCase.SendOne(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to send package: %w", err)
	}

	if err := flushProducer(ctx, producer, flushTimeout); err != nil {
		return err
	}

	if format == "json" {
		return writeJSON(writer, map[string]any{"package_id": sentID})
	}

	_, err = fmt.Fprintf(writer, "Package %d sent\n", sentID)
	return err
}
