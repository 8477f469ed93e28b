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

// Stripe caps event payloads well below this.
const maxWebhookBodyBytes = 64 << 10

// PaymentHandler handles payment intent, capture and history endpoints.
type PaymentHandler struct {
	paymentService core.PaymentService
	logger         *zap.Logger
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(ps core.PaymentService, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{paymentService: ps, logger: logger}
}

// mapPaymentErrorToStatus maps errors from core.PaymentService to HTTP status codes and ErrorResponse.
func mapPaymentErrorToStatus(c *gin.Context, logger *zap.Logger, operation string, err error) {
	var statusCode int
	var errResponse ErrorResponse

	switch {
	case errors.Is(err, core.ErrInvalidID), errors.Is(err, core.ErrInvalidPayment):
		statusCode = http.StatusBadRequest
		errResponse = ErrorResponse{Error: "Invalid payment request", Details: err.Error()}
	case errors.Is(err, core.ErrAmountMismatch):
		statusCode = http.StatusBadRequest
		errResponse = ErrorResponse{Error: "Amount does not match the parcel cost", Details: err.Error()}
	case errors.Is(err, core.ErrParcelNotFound):
		statusCode = http.StatusNotFound
		errResponse = ErrorResponse{Error: "Parcel not found"}
	case errors.Is(err, core.ErrForbidden), errors.Is(err, core.ErrEmailMismatch):
		statusCode = http.StatusForbidden
		errResponse = ErrorResponse{Error: "Access denied", Details: err.Error()}
	case errors.Is(err, core.ErrAlreadyPaid), errors.Is(err, core.ErrParcelNotEditable):
		statusCode = http.StatusConflict
		errResponse = ErrorResponse{Error: "Parcel is already paid"}
	case errors.Is(err, core.ErrPaymentNotConfirmed):
		statusCode = http.StatusPaymentRequired
		errResponse = ErrorResponse{Error: "Payment has not been confirmed", Details: err.Error()}
	case errors.Is(err, core.ErrWebhookSignature):
		statusCode = http.StatusBadRequest
		errResponse = ErrorResponse{Error: "Webhook signature verification failed"}
	case errors.Is(err, core.ErrGatewayUnavailable):
		statusCode = http.StatusServiceUnavailable
		errResponse = ErrorResponse{Error: "Card payments are not configured"}
	case errors.Is(err, core.ErrGateway):
		metrics.OperationErrorsTotal.WithLabelValues(operation).Inc()
		logger.Error("Payment provider error", zap.String("operation", operation), zap.Error(err))
		statusCode = http.StatusBadGateway
		errResponse = ErrorResponse{Error: "Payment provider error", Details: "Could not complete the operation with the payment provider."}
	default:
		metrics.OperationErrorsTotal.WithLabelValues(operation).Inc()
		logger.Error("Internal Server Error in PaymentHandler", zap.String("operation", operation), zap.Error(err))
		statusCode = http.StatusInternalServerError
		errResponse = ErrorResponse{Error: "An unexpected internal server error occurred."}
	}
	c.JSON(statusCode, errResponse)
}

// CreatePaymentIntent handles POST /create-payment-intent.
func (h *PaymentHandler) CreatePaymentIntent(c *gin.Context) {
	var req models.PaymentIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	secret, err := h.paymentService.CreateIntent(c.Request.Context(), callerFrom(c), req)
	if err != nil {
		mapPaymentErrorToStatus(c, h.logger, "create_payment_intent", err)
		return
	}
	c.JSON(http.StatusOK, PaymentIntentResponse{ClientSecret: secret})
}

// RecordPayment handles POST /payments.
func (h *PaymentHandler) RecordPayment(c *gin.Context) {
	var req models.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	receipt, err := h.paymentService.Record(c.Request.Context(), callerFrom(c), req)
	if err != nil {
		mapPaymentErrorToStatus(c, h.logger, "record_payment", err)
		return
	}
	c.JSON(http.StatusCreated, RecordPaymentResponse{
		InsertedID:     receipt.Payment.ID.Hex(),
		ParcelModified: receipt.ParcelModified,
	})
}

// ListUserPayments handles GET /payments/user/:email.
func (h *PaymentHandler) ListUserPayments(c *gin.Context) {
	payments, err := h.paymentService.ListByUser(c.Request.Context(), callerFrom(c), c.Param("email"))
	if err != nil {
		mapPaymentErrorToStatus(c, h.logger, "list_user_payments", err)
		return
	}
	c.JSON(http.StatusOK, payments)
}

// ListPayments handles GET /payments (admin).
func (h *PaymentHandler) ListPayments(c *gin.Context) {
	payments, err := h.paymentService.List(c.Request.Context())
	if err != nil {
		mapPaymentErrorToStatus(c, h.logger, "list_payments", err)
		return
	}
	c.JSON(http.StatusOK, payments)
}

// HandleStripeWebhook handles POST /webhooks/stripe.
// This endpoint is public and does not require token authentication.
// Stripe authenticates webhooks using the 'Stripe-Signature' header.
func (h *PaymentHandler) HandleStripeWebhook(c *gin.Context) {
	signature := c.GetHeader("Stripe-Signature")
	if signature == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Missing Stripe-Signature header"})
		return
	}

	payload, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBodyBytes))
	if err != nil {
		c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{Error: "Failed to read webhook payload", Details: err.Error()})
		return
	}

	if err := h.paymentService.HandleWebhook(c.Request.Context(), payload, signature); err != nil {
		mapPaymentErrorToStatus(c, h.logger, "stripe_webhook", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"received": true})
}
