package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/startupheroes/package-events/internal/metrics"
)

// MetricsServer exposes the Prometheus registry on its own port, away from the
// rate-limited publish routes.
type MetricsServer struct {
	lifecycle
	router *gin.Engine
}

// NewMetricsServer serves /metrics from provider and a liveness route on /health.
func NewMetricsServer(host string, port int, logger *slog.Logger, provider *metrics.Provider) *MetricsServer {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(CustomLoggerMiddleware(logger))

	router.GET("/metrics", gin.WrapH(provider.Handler()))
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	return &MetricsServer{
		lifecycle: newLifecycle("metrics", host, port, logger),
		router:    router,
	}
}

// GetHandler returns the metrics router.
func (s *MetricsServer) GetHandler() http.Handler {
	return s.router
}

// Start serves until Shutdown.
func (s *MetricsServer) Start(context.Context) error {
	return s.serve(s.router)
}

// Shutdown gracefully stops the server.
func (s *MetricsServer) Shutdown(ctx context.Context) error {
	return s.shutdown(ctx)
}
