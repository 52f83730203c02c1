package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/startupheroes/package-events/internal/broker"
)

// RunCreateTopic provisions the event topic and, when configured, the dead-letter
// topic. Topics that already exist are left untouched.
func RunCreateTopic(
	ctx context.Context,
	admin broker.TopicAdmin,
	logger *slog.Logger,
	writer io.Writer,
	spec broker.TopicSpec,
	deadLetterTopic string,
	format string,
) error {
	specs := []broker.TopicSpec{spec}
	if deadLetterTopic != "" {
		specs = append(specs, broker.TopicSpec{
			Name:              deadLetterTopic,
			Partitions:        spec.Partitions,
			ReplicationFactor: spec.ReplicationFactor,
		})
	}

	names := make([]string, 0, len(specs))
	for _, s := range specs {
		logger.Info("creating topic",
			slog.String("topic", s.Name),
			slog.Int("partitions", int(s.Partitions)),
			slog.Int("replication_factor", int(s.ReplicationFactor)),
		)

		if err := admin.CreateTopic(ctx, s); err != nil {
			return fmt.Errorf("failed to create topic %q: %w", s.Name, err)
		}
		names = append(names, s.Name)
	}

	if format == "json" {
		return writeJSON(writer, map[string]any{"topics": names})
	}

	for _, name := range names {
		if _, err := fmt.Fprintf(writer, "Topic %s is ready\n", name); err != nil {
			return err
		}
	}
	return nil
}
