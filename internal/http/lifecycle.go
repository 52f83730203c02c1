package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"
)

// lifecycle runs one named *http.Server and logs its start and shutdown.
type lifecycle struct {
	name   string
	server *http.Server
	logger *slog.Logger
}

func newLifecycle(name, host string, port int, logger *slog.Logger) lifecycle {
	return lifecycle{
		name:   name,
		logger: logger,
		server: &http.Server{
			Addr:              net.JoinHostPort(host, strconv.Itoa(port)),
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      15 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
	}
}

// serve blocks until the server is shut down. A clean shutdown returns nil.
func (l *lifecycle) serve(handler http.Handler) error {
	l.server.Handler = handler
	l.logger.Info("starting "+l.name+" server", slog.String("addr", l.server.Addr))

	if err := l.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start %s server: %w", l.name, err)
	}
	return nil
}

func (l *lifecycle) shutdown(ctx context.Context) error {
	l.logger.Info("shutting down " + l.name + " server")
	return l.server.Shutdown(ctx)
}
