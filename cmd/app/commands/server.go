package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/startupheroes/package-events/internal/app"
	"github.com/startupheroes/package-events/internal/config"
)

// shutdownServer is the part of the API and metrics servers RunServer needs.
type shutdownServer interface {
	Start(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

// RunServer starts the API server, and the metrics server when enabled, and blocks
// until SIGINT/SIGTERM or a server failure. Servers are stopped first, then the
// container flushes the producer so queued deliveries are still reported.
func RunServer(ctx context.Context, version string) error {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	gin.SetMode(cfg.GetGinMode())

	container := app.NewContainer(cfg)
	logger := container.Logger()
	logger.Info("starting server",
		slog.String("version", version),
		slog.String("broker_driver", cfg.BrokerDriver),
		slog.String("topic", cfg.BrokerTopic),
	)

	defer closeContainer(container, logger)

	// Building the API server initializes every dependency.
	server, err := container.HTTPServer()
	if err != nil {
		return fmt.Errorf("failed to initialize HTTP server: %w", err)
	}

	metricsServer, err := container.MetricsServer()
	if err != nil {
		return fmt.Errorf("failed to initialize metrics server: %w", err)
	}

	servers := map[string]shutdownServer{"api": server}
	if metricsServer != nil {
		servers["metrics"] = metricsServer
	}

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	return serve(ctx, servers, cfg, logger)
}

// serve runs every server until ctx ends or one of them fails, then shuts all of
// them down.
func serve(ctx context.Context, servers map[string]shutdownServer, cfg *config.Config, logger *slog.Logger) error {
	group, groupCtx := errgroup.WithContext(ctx)

	for name, srv := range servers {
		group.Go(func() error {
			if err := srv.Start(groupCtx); err != nil {
				return fmt.Errorf("%s server error: %w", name, err)
			}
			return nil
		})
	}

	<-groupCtx.Done()
	if ctx.Err() != nil {
		logger.Info("shutdown signal received")
	} else {
		logger.Error("server error, initiating shutdown")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ProducerFlushTimeout)
	defer shutdownCancel()

	var shutdownErrors []error
	for name, srv := range servers {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("%s server shutdown: %w", name, err))
		}
	}

	if err := group.Wait(); err != nil {
		shutdownErrors = append([]error{err}, shutdownErrors...)
	}

	return errors.Join(shutdownErrors...)
}
