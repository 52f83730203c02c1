// Package http provides HTTP handlers that trigger package event publication.
package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/startupheroes/package-events/internal/events/http/dto"
	eventsUseCase "github.com/startupheroes/package-events/internal/events/usecase"
	"github.com/startupheroes/package-events/internal/httputil"
	customValidation "github.com/startupheroes/package-events/internal/validation"
)

// Response messages of the publish endpoints.
const (
	MessagePackageSent     = "Package sent successfully"
	MessageAllPackagesSent = "All packages sent successfully"
)

// PackageEventHandler handles HTTP requests that publish package events.
type PackageEventHandler struct {
	packageEventUseCase eventsUseCase.PackageEventUseCase
	logger              *slog.Logger
}

// NewPackageEventHandler creates a new package event handler.
func NewPackageEventHandler(
	packageEventUseCase eventsUseCase.PackageEventUseCase,
	logger *slog.Logger,
) *PackageEventHandler {
	return &PackageEventHandler{
		packageEventUseCase: packageEventUseCase,
		logger:              logger,
	}
}

// SendPackageHandler publishes the event of one package.
// POST /v1/events/send/:packageId
// Returns 200 with the package id once the event is handed to the broker.
func (h *PackageEventHandler) SendPackageHandler(c *gin.Context) {
	var req dto.SendPackageRequest

	if err := c.ShouldBindUri(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	packageID, err := h.packageEventUseCase.SendOne(c.Request.Context(), req.PackageID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	httputil.SuccessGin(c, MessagePackageSent, packageID)
}

// BootstrapHandler publishes the events of every non-cancelled package.
// POST /v1/events/bootstrap
// Returns 200 with the number of events handed to the broker.
func (h *PackageEventHandler) BootstrapHandler(c *gin.Context) {
	count, err := h.packageEventUseCase.SendAll(c.Request.Context())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	httputil.SuccessGin(c, MessageAllPackagesSent, count)
}
