// Package http provides the HTTP server, its router and cross-cutting middleware.
package http

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/startupheroes/package-events/internal/config"
	eventsHTTP "github.com/startupheroes/package-events/internal/events/http"
	"github.com/startupheroes/package-events/internal/httputil"
	"github.com/startupheroes/package-events/internal/metrics"
)

// readinessTimeout bounds each dependency check of the readiness probe.
const readinessTimeout = 2 * time.Second

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server represents the API HTTP server.
type Server struct {
	lifecycle
	router   *gin.Engine
	db       *sql.DB
	producer Pinger
	logger   *slog.Logger
}

// NewServer creates a new HTTP server. db and producer back the readiness probe.
func NewServer(
	db *sql.DB,
	producer Pinger,
	host string,
	port int,
	logger *slog.Logger,
) *Server {
	return &Server{
		lifecycle: newLifecycle("http", host, port, logger),
		db:        db,
		producer:  producer,
		logger:    logger,
	}
}

// SetupRouter registers middleware, probes and the publish routes. ctx bounds the
// background work of the rate limiter.
func (s *Server) SetupRouter(
	ctx context.Context,
	cfg *config.Config,
	packageEventHandler *eventsHTTP.PackageEventHandler,
	metricsProvider *metrics.Provider,
) {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(newRequestID)))
	router.Use(CustomLoggerMiddleware(s.logger))

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSOrigins(), s.logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	if metricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(metricsProvider))
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, httputil.NewErrorResponse("Resource not found"))
	})

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	v1 := router.Group("/v1")
	events := v1.Group("/events")
	if cfg.RateLimitEnabled {
		events.Use(eventsHTTP.RateLimitMiddleware(
			ctx,
			cfg.RateLimitRequestsPerSec,
			cfg.RateLimitBurst,
			s.logger,
		))
	}
	events.POST("/send/:packageId", packageEventHandler.SendPackageHandler)
	events.POST("/bootstrap", packageEventHandler.BootstrapHandler)

	s.router = router
}

// newRequestID returns a UUIDv7, or a base36 timestamp when no UUID can be generated.
func newRequestID() string {
	if id, err := uuid.NewV7(); err == nil {
		return id.String()
	}
	return strconv.FormatInt(time.Now().UnixNano(), 36)
}

// GetHandler returns the configured router, or nil before SetupRouter.
func (s *Server) GetHandler() http.Handler {
	if s.router == nil {
		return nil
	}
	return s.router
}

// Start starts the HTTP server. SetupRouter must have been called.
func (s *Server) Start(ctx context.Context) error {
	if s.router == nil {
		return errors.New("router not configured")
	}
	return s.serve(s.router)
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.shutdown(ctx)
}

// healthHandler reports that the process is alive.
func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports whether the database and the broker are reachable.
func (s *Server) readinessHandler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
	defer cancel()

	components := gin.H{"database": "ok", "broker": "ok"}
	ready := true

	if s.db == nil || s.db.PingContext(ctx) != nil {
		components["database"] = "error"
		ready = false
	}

	if s.producer == nil || s.producer.Ping(ctx) != nil {
		components["broker"] = "error"
		ready = false
	}

	if !ready {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "components": components})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ready", "components": components})
}
