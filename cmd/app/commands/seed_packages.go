package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	packagesUseCase "github.com/startupheroes/package-events/internal/packages/usecase"
)

// RunSeedPackages loads package fixtures from a YAML file into the database.
//
// Requirements: Database must be migrated and accessible.
func RunSeedPackages(
	ctx context.Context,
	seedUseCase packagesUseCase.SeedUseCase,
	logger *slog.Logger,
	writer io.Writer,
	file string,
	format string,
) error {
	if file == "" {
		return fmt.Errorf("fixture file is required")
	}

	logger.Info("seeding packages", slog.String("file", file))

	count, err := seedUseCase.SeedFile(ctx, file)
	if err != nil {
		return fmt.Errorf("failed to seed packages: %w", err)
	}

	if format == "json" {
		return writeJSON(writer, map[string]any{"file": file, "count": count})
	}

	_, err = fmt.Fprintf(writer, "Seeded %d package(s) from %s\n", count, file)
	return err
}
