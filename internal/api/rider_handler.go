package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"profast-backend-go/internal/core"
	"profast-backend-go/internal/metrics"
	"profast-backend-go/internal/models"
)

// RiderHandler handles rider applications and their review.
type RiderHandler struct {
	riderService core.RiderService
	logger       *zap.Logger
}

// NewRiderHandler creates a new RiderHandler.
func NewRiderHandler(rs core.RiderService, logger *zap.Logger) *RiderHandler {
	return &RiderHandler{riderService: rs, logger: logger}
}

func mapRiderErrorToStatus(c *gin.Context, logger *zap.Logger, operation string, err error) {
	switch {
	case errors.Is(err, core.ErrInvalidID), errors.Is(err, core.ErrInvalidApplication):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid rider application", Details: err.Error()})
	case errors.Is(err, core.ErrEmailMismatch):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "Applicant email does not match the signed-in user"})
	case errors.Is(err, core.ErrRiderNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Rider application not found"})
	case errors.Is(err, core.ErrRiderExists):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "An open rider application already exists"})
	case errors.Is(err, core.ErrInvalidTransition):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "Rider status cannot change", Details: err.Error()})
	default:
		metrics.OperationErrorsTotal.WithLabelValues(operation).Inc()
		logger.Error("Internal Server Error in RiderHandler", zap.String("operation", operation), zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "An unexpected internal server error occurred."})
	}
}

// Apply handles POST /riders.
func (h *RiderHandler) Apply(c *gin.Context) {
	var req models.RiderApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	app, err := h.riderService.Apply(c.Request.Context(), callerFrom(c), req)
	if err != nil {
		mapRiderErrorToStatus(c, h.logger, "apply_rider", err)
		return
	}
	c.JSON(http.StatusCreated, app)
}

// listByStatus serves GET /riders/pending and GET /riders/active (admin).
func (h *RiderHandler) listByStatus(status models.RiderStatus) gin.HandlerFunc {
	return func(c *gin.Context) {
		apps, err := h.riderService.ListByStatus(c.Request.Context(), status)
		if err != nil {
			mapRiderErrorToStatus(c, h.logger, "list_riders", err)
			return
		}
		c.JSON(http.StatusOK, apps)
	}
}

// SetStatus handles PATCH /riders/:id/status (admin).
func (h *RiderHandler) SetStatus(c *gin.Context) {
	var req models.RiderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	app, err := h.riderService.SetStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		mapRiderErrorToStatus(c, h.logger, "set_rider_status", err)
		return
	}
	c.JSON(http.StatusOK, app)
}
