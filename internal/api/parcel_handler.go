package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"profast-backend-go/internal/core"
	"profast-backend-go/internal/metrics"
	"profast-backend-go/internal/models"
)

// ParcelHandler handles parcel booking, editing and tracking endpoints.
type ParcelHandler struct {
	parcelService core.ParcelService
	logger        *zap.Logger
}

// NewParcelHandler creates a new ParcelHandler.
func NewParcelHandler(ps core.ParcelService, logger *zap.Logger) *ParcelHandler {
	return &ParcelHandler{parcelService: ps, logger: logger}
}

// mapParcelErrorToStatus maps errors from core.ParcelService to HTTP status codes and ErrorResponse.
func mapParcelErrorToStatus(c *gin.Context, logger *zap.Logger, operation string, err error) {
	var statusCode int
	var errResponse ErrorResponse

	switch {
	case errors.Is(err, core.ErrInvalidID), errors.Is(err, core.ErrInvalidParcel):
		statusCode = http.StatusBadRequest
		errResponse = ErrorResponse{Error: "Invalid parcel request", Details: err.Error()}
	case errors.Is(err, core.ErrParcelNotFound):
		statusCode = http.StatusNotFound
		errResponse = ErrorResponse{Error: "Parcel not found"}
	case errors.Is(err, core.ErrForbidden):
		statusCode = http.StatusForbidden
		errResponse = ErrorResponse{Error: "Access denied to this parcel"}
	case errors.Is(err, core.ErrParcelNotEditable):
		statusCode = http.StatusConflict
		errResponse = ErrorResponse{Error: "Paid parcels cannot be changed", Details: err.Error()}
	case errors.Is(err, core.ErrParcelNotPaid), errors.Is(err, core.ErrInvalidTransition):
		statusCode = http.StatusConflict
		errResponse = ErrorResponse{Error: "Delivery status cannot change", Details: err.Error()}
	default:
		metrics.OperationErrorsTotal.WithLabelValues(operation).Inc()
		logger.Error("Internal Server Error in ParcelHandler", zap.String("operation", operation), zap.Error(err))
		statusCode = http.StatusInternalServerError
		errResponse = ErrorResponse{Error: "An unexpected internal server error occurred."}
	}
	c.JSON(statusCode, errResponse)
}

// BookParcel handles POST /parcels.
func (h *ParcelHandler) BookParcel(c *gin.Context) {
	var req models.ParcelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	parcel, err := h.parcelService.Book(c.Request.Context(), callerFrom(c), req.Details())
	if err != nil {
		mapParcelErrorToStatus(c, h.logger, "book_parcel", err)
		return
	}
	metrics.ParcelsBookedTotal.Inc()

	c.JSON(http.StatusCreated, BookParcelResponse{
		InsertedID:    parcel.ID.Hex(),
		TrackingID:    parcel.TrackingID,
		Cost:          parcel.Cost,
		CostBreakdown: parcel.CostBreakdown,
	})
}

// QuoteParcel handles POST /parcels/quote.
func (h *ParcelHandler) QuoteParcel(c *gin.Context) {
	var req models.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	breakdown, err := core.CalculateCost(req.ParcelType, req.ParcelWeight, req.SenderRegion, req.ReceiverRegion)
	if err != nil {
		mapParcelErrorToStatus(c, h.logger, "quote_parcel", err)
		return
	}
	c.JSON(http.StatusOK, QuoteResponse{
		Cost:          breakdown.Total,
		CostBreakdown: breakdown,
		SameRegion:    core.SameRegion(req.SenderRegion, req.ReceiverRegion),
	})
}

// ListParcels handles GET /parcels (admin). Optional filters: email, status, deliveryStatus.
func (h *ParcelHandler) ListParcels(c *gin.Context) {
	filter := models.ParcelFilter{
		UserEmail:      c.Query("email"),
		Status:         models.PaymentStatus(c.Query("status")),
		DeliveryStatus: models.DeliveryStatus(c.Query("deliveryStatus")),
	}
	if filter.Status != "" && filter.Status != models.PaymentStatusPaid && filter.Status != models.PaymentStatusUnpaid {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid status filter", Details: string(filter.Status)})
		return
	}
	if filter.DeliveryStatus != "" && !filter.DeliveryStatus.Valid() {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid deliveryStatus filter", Details: string(filter.DeliveryStatus)})
		return
	}

	parcels, err := h.parcelService.List(c.Request.Context(), filter)
	if err != nil {
		mapParcelErrorToStatus(c, h.logger, "list_parcels", err)
		return
	}
	c.JSON(http.StatusOK, parcels)
}

// ListUserParcels handles GET /parcels/user/:email.
func (h *ParcelHandler) ListUserParcels(c *gin.Context) {
	parcels, err := h.parcelService.ListByUser(c.Request.Context(), callerFrom(c), c.Param("email"))
	if err != nil {
		mapParcelErrorToStatus(c, h.logger, "list_user_parcels", err)
		return
	}
	c.JSON(http.StatusOK, parcels)
}

// GetParcel handles GET /parcels/:id.
func (h *ParcelHandler) GetParcel(c *gin.Context) {
	parcel, err := h.parcelService.Get(c.Request.Context(), callerFrom(c), c.Param("id"))
	if err != nil {
		mapParcelErrorToStatus(c, h.logger, "get_parcel", err)
		return
	}
	c.JSON(http.StatusOK, parcel)
}

// UpdateParcel handles PUT /parcels/:id. Only unpaid parcels can be edited.
func (h *ParcelHandler) UpdateParcel(c *gin.Context) {
	var req models.ParcelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	parcel, err := h.parcelService.Update(c.Request.Context(), callerFrom(c), c.Param("id"), req.Details())
	if err != nil {
		mapParcelErrorToStatus(c, h.logger, "update_parcel", err)
		return
	}
	c.JSON(http.StatusOK, UpdateParcelResponse{ModifiedCount: 1, Parcel: parcel})
}

// CancelParcel handles DELETE /parcels/:id. Only unpaid parcels can be cancelled.
func (h *ParcelHandler) CancelParcel(c *gin.Context) {
	if err := h.parcelService.Cancel(c.Request.Context(), callerFrom(c), c.Param("id")); err != nil {
		mapParcelErrorToStatus(c, h.logger, "cancel_parcel", err)
		return
	}
	metrics.ParcelsCancelledTotal.Inc()
	c.JSON(http.StatusOK, DeleteParcelResponse{DeletedCount: 1})
}

// AdvanceDelivery handles PATCH /parcels/:id (admin). An empty body moves the
// parcel to the next delivery stage.
func (h *ParcelHandler) AdvanceDelivery(c *gin.Context) {
	var req models.DeliveryStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	parcel, err := h.parcelService.AdvanceDelivery(c.Request.Context(), callerFrom(c), c.Param("id"), req.DeliveryStatus)
	if err != nil {
		mapParcelErrorToStatus(c, h.logger, "advance_delivery", err)
		return
	}
	metrics.DeliveryTransitionsTotal.WithLabelValues(string(parcel.DeliveryStatus)).Inc()
	c.JSON(http.StatusOK, parcel)
}

// ParcelHistory handles GET /parcels/:id/history.
func (h *ParcelHandler) ParcelHistory(c *gin.Context) {
	events, err := h.parcelService.History(c.Request.Context(), callerFrom(c), c.Param("id"))
	if err != nil {
		mapParcelErrorToStatus(c, h.logger, "parcel_history", err)
		return
	}
	c.JSON(http.StatusOK, events)
}

// TrackParcel handles GET /track/:trackingId. It is public.
func (h *ParcelHandler) TrackParcel(c *gin.Context) {
	info, err := h.parcelService.Track(c.Request.Context(), c.Param("trackingId"))
	if err != nil {
		mapParcelErrorToStatus(c, h.logger, "track_parcel", err)
		return
	}
	c.JSON(http.StatusOK, info)
}
