package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"profast-backend-go/internal/core"
	"profast-backend-go/internal/middleware"
	"profast-backend-go/internal/models"
)

// Services bundles the core services the routes dispatch to.
type Services struct {
	Users    core.UserService
	Parcels  core.ParcelService
	Payments core.PaymentService
	Riders   core.RiderService
	Coverage core.CoverageService
}

// SetupRoutes configures all the application routes with their handlers and middleware.
// Global middleware (logging, recovery, CORS) is applied to router before this is called.
func SetupRoutes(router *gin.Engine, logger *zap.Logger, authMW *middleware.AuthMiddleware, services Services) {
	userHandler := NewUserHandler(services.Users, logger)
	parcelHandler := NewParcelHandler(services.Parcels, logger)
	paymentHandler := NewPaymentHandler(services.Payments, logger)
	riderHandler := NewRiderHandler(services.Riders, logger)
	coverageHandler := NewCoverageHandler(services.Coverage)

	verify := authMW.VerifyToken()
	admin := authMW.RequireAdmin()

	// --- Public endpoints ---
	router.GET("/data/division.json", coverageHandler.Divisions)
	router.GET("/data/warehouses.json", coverageHandler.Warehouses)
	router.GET("/coverage", coverageHandler.Search)
	router.GET("/track/:trackingId", parcelHandler.TrackParcel)
	// Stripe authenticates webhooks via signature, checked by the payment service.
	router.POST("/webhooks/stripe", paymentHandler.HandleStripeWebhook)

	// --- Users ---
	users := router.Group("/users", verify)
	{
		users.POST("", userHandler.CreateUser)
		users.GET("/admin/:email", userHandler.CheckAdmin)
		users.GET("", admin, userHandler.ListUsers)
		users.PATCH("/:email/role", admin, userHandler.SetRole)
	}

	// --- Parcels ---
	parcels := router.Group("/parcels", verify)
	{
		parcels.POST("", parcelHandler.BookParcel)
		parcels.POST("/quote", parcelHandler.QuoteParcel)
		parcels.GET("", admin, parcelHandler.ListParcels)
		parcels.GET("/user/:email", parcelHandler.ListUserParcels)
		parcels.GET("/:id", parcelHandler.GetParcel)
		parcels.PUT("/:id", parcelHandler.UpdateParcel)
		parcels.DELETE("/:id", parcelHandler.CancelParcel)
		parcels.PATCH("/:id", admin, parcelHandler.AdvanceDelivery)
		parcels.GET("/:id/history", parcelHandler.ParcelHistory)
	}

	// --- Payments ---
	router.POST("/create-payment-intent", verify, paymentHandler.CreatePaymentIntent)
	payments := router.Group("/payments", verify)
	{
		payments.POST("", paymentHandler.RecordPayment)
		payments.GET("/user/:email", paymentHandler.ListUserPayments)
		payments.GET("", admin, paymentHandler.ListPayments)
	}

	// --- Riders ---
	riders := router.Group("/riders", verify)
	{
		riders.POST("", riderHandler.Apply)
		riders.GET("/pending", admin, riderHandler.listByStatus(models.RiderStatusPending))
		riders.GET("/active", admin, riderHandler.listByStatus(models.RiderStatusActive))
		riders.PATCH("/:id/status", admin, riderHandler.SetStatus)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP", "message": "Profast backend is healthy."})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	logger.Info("API routes configured successfully.")
}
