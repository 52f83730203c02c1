package http

import (
	"log/slog"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// createCORSMiddleware creates a CORS middleware for the publish API.
// Returns nil if CORS is disabled or no origins are configured.
//
// CORS is disabled by default since the publish endpoints are called by back-office
// jobs. Enable it only when a browser dashboard triggers publication directly.
func createCORSMiddleware(enabled bool, origins []string, logger *slog.Logger) gin.HandlerFunc {
	if !enabled {
		return nil
	}

	if len(origins) == 0 {
		logger.Warn("CORS enabled but no origins configured - CORS will not be applied")
		return nil
	}

	logger.Info("CORS enabled",
		slog.Int("origin_count", len(origins)),
		slog.Any("origins", origins))

	return cors.New(cors.Config{
		AllowOrigins: origins,
		AllowMethods: []string{
			"GET",
			"POST",
		},
		AllowHeaders: []string{
			"Content-Type",
			"X-Request-Id",
		},
		ExposeHeaders: []string{
			"X-Request-Id",
			"Retry-After",
		},
		MaxAge: 12 * time.Hour,
	})
}
