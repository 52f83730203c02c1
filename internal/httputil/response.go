// Package httputil provides HTTP utility functions for request and response handling.
package httputil

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/startupheroes/package-events/internal/errors"
)

// Messages returned for failures that must not leak internals.
const (
	unexpectedErrorMessage = "An unexpected error occurred"
)

// APIResponse is the uniform envelope for every API response.
type APIResponse struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	Data      any       `json:"data,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewSuccessResponse builds a successful envelope carrying data.
func NewSuccessResponse(message string, data any) APIResponse {
	return APIResponse{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: time.Now().UTC(),
	}
}

// NewErrorResponse builds a failed envelope without data.
func NewErrorResponse(message string) APIResponse {
	return APIResponse{
		Success:   false,
		Message:   message,
		Timestamp: time.Now().UTC(),
	}
}

// SuccessGin writes a 200 OK envelope.
func SuccessGin(c *gin.Context, message string, data any) {
	c.JSON(http.StatusOK, NewSuccessResponse(message, data))
}

// HandleErrorGin maps domain errors to HTTP status codes and writes the error envelope.
// Classified errors carry their own message; anything else gets a generic one.
func HandleErrorGin(c *gin.Context, err error, logger *slog.Logger) {
	if err == nil {
		return
	}

	var statusCode int
	var message string

	switch {
	case apperrors.Is(err, apperrors.ErrNotFound):
		statusCode = http.StatusNotFound
		message = err.Error()

	case apperrors.Is(err, apperrors.ErrRejected), apperrors.Is(err, apperrors.ErrInvalidInput):
		statusCode = http.StatusBadRequest
		message = err.Error()

	case apperrors.Is(err, apperrors.ErrSerialization):
		statusCode = http.StatusInternalServerError
		message = err.Error()

	default:
		statusCode = http.StatusInternalServerError
		message = unexpectedErrorMessage
	}

	if logger != nil {
		if statusCode >= http.StatusInternalServerError {
			logger.Error("request failed",
				slog.Int("status_code", statusCode),
				slog.Any("error", err),
			)
		} else {
			logger.Warn("request rejected",
				slog.Int("status_code", statusCode),
				slog.Any("error", err),
			)
		}
	}

	c.JSON(statusCode, NewErrorResponse(message))
}

// HandleBadRequestGin writes a 400 Bad Request envelope for malformed parameters.
func HandleBadRequestGin(c *gin.Context, err error, logger *slog.Logger) {
	if logger != nil {
		logger.Warn("bad request", slog.Any("error", err))
	}

	c.JSON(http.StatusBadRequest, NewErrorResponse(err.Error()))
}

// HandleValidationErrorGin writes a 400 Bad Request envelope for validation errors.
func HandleValidationErrorGin(c *gin.Context, err error, logger *slog.Logger) {
	if logger != nil {
		logger.Warn("validation failed", slog.Any("error", err))
	}

	c.JSON(http.StatusBadRequest, NewErrorResponse(err.Error()))
}
