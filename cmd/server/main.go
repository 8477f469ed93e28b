package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"profast-backend-go/internal/api"
	"profast-backend-go/internal/assets"
	"profast-backend-go/internal/auth"
	"profast-backend-go/internal/config"
	"profast-backend-go/internal/core"
	"profast-backend-go/internal/firebase"
	"profast-backend-go/internal/logging"
	"profast-backend-go/internal/middleware"
	"profast-backend-go/internal/payments"
	"profast-backend-go/internal/storage"
)

func main() {
	// --- 1. Load .env for local runs ---
	if !strings.EqualFold(os.Getenv("GIN_MODE"), "release") {
		if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Printf("WARNING: failed to load .env file: %v", err)
		}
	}

	// --- 2. Load Application Configuration ---
	appConfig, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("CRITICAL_ERROR: Failed to load application configuration: %v", err)
	}

	// --- 3. Initialize Logger (Zap) ---
	zapLogger, err := logging.New(appConfig.LogLevel, appConfig.IsRelease())
	if err != nil {
		log.Fatalf("CRITICAL_ERROR: Failed to initialize Zap logger: %v", err)
	}
	defer zapLogger.Sync()
	zapLogger.Info("Application configuration loaded",
		zap.String("storage", appConfig.StorageDriver),
		zap.String("auth", appConfig.AuthMode),
	)

	// --- 4. Open storage ---
	initCtx, cancelInitCtx := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelInitCtx()
	repos, err := storage.Open(initCtx, appConfig, zapLogger)
	if err != nil {
		zapLogger.Fatal("CRITICAL_ERROR: Failed to open storage", zap.Error(err))
	}

	// --- 5. Token verifier ---
	verifier, err := newVerifier(initCtx, appConfig, zapLogger)
	if err != nil {
		zapLogger.Fatal("CRITICAL_ERROR: Failed to initialize token verifier", zap.Error(err))
	}

	// --- 6. Coverage data and payment gateway ---
	divisions, warehouses, err := assets.Coverage(appConfig.DataDir)
	if err != nil {
		zapLogger.Fatal("CRITICAL_ERROR: Failed to load coverage data", zap.Error(err))
	}
	coverage, err := core.NewCoverageService(divisions, warehouses)
	if err != nil {
		zapLogger.Fatal("CRITICAL_ERROR: Invalid coverage data", zap.Error(err))
	}

	var gateway core.PaymentGateway
	if appConfig.StripeSecretKey != "" {
		stripeGateway, err := payments.NewStripeGateway(appConfig.StripeSecretKey, appConfig.StripeWebhookSecret, zapLogger)
		if err != nil {
			zapLogger.Fatal("CRITICAL_ERROR: Failed to initialize Stripe", zap.Error(err))
		}
		gateway = stripeGateway
	} else {
		zapLogger.Warn("STRIPE_SECRET_KEY is not set; payment intents are disabled and payments are not re-verified")
	}

	// --- 7. Initialize Services ---
	events := core.NewEventRecorder(repos.ParcelEvents, zapLogger)
	userService := core.NewUserService(repos.Users)
	services := api.Services{
		Users:    userService,
		Parcels:  core.NewParcelService(repos.Parcels, events, coverage, zapLogger),
		Payments: core.NewPaymentService(repos.Payments, repos.Parcels, gateway, events, appConfig.PaymentCurrency, zapLogger),
		Riders:   core.NewRiderService(repos.Riders, repos.Users, coverage, zapLogger),
		Coverage: coverage,
	}

	// --- 8. Setup Gin HTTP Engine ---
	if appConfig.IsRelease() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}
	router := gin.New()
	router.Use(middleware.RequestLogger(zapLogger))
	router.Use(middleware.RecoveryMiddleware(zapLogger))
	router.Use(middleware.CORSMiddleware(appConfig))

	authMW := middleware.NewAuthMiddleware(verifier, userService, zapLogger)
	api.SetupRoutes(router, zapLogger, authMW, services)

	// --- 9. Configure and Start HTTP Server ---
	serverAddr := fmt.Sprintf(":%s", appConfig.Port)
	httpServer := &http.Server{
		Addr:              serverAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	zapLogger.Info("Starting HTTP server...", zap.String("address", serverAddr), zap.String("ginMode", gin.Mode()))
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	// --- 10. Graceful Shutdown Handling ---
	quitChannel := make(chan os.Signal, 1)
	signal.Notify(quitChannel, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quitChannel
	zapLogger.Info("Received shutdown signal", zap.String("signal", sig.String()))

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := repos.Close(shutdownCtx); err != nil {
		zapLogger.Error("Failed to close storage", zap.Error(err))
	}
	zapLogger.Info("Server exiting gracefully.")
}

// newVerifier builds the bearer token verifier named by AUTH_MODE.
func newVerifier(ctx context.Context, cfg *config.Config, logger *zap.Logger) (auth.TokenVerifier, error) {
	switch cfg.AuthMode {
	case config.AuthHMAC:
		logger.Warn("AUTH_MODE=hmac accepts locally signed tokens; do not use in production")
		return auth.NewHMACVerifier(cfg.JWTSecret)
	case config.AuthFirebase:
		app, err := firebase.InitFirebase(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		client, err := app.Auth(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get Firebase Auth client: %w", err)
		}
		return auth.NewFirebaseVerifier(client), nil
	}
	return nil, fmt.Errorf("unknown AUTH_MODE %q", cfg.AuthMode)
}
