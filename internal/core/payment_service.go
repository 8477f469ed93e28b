package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"profast-backend-go/internal/db"
	"profast-backend-go/internal/metrics"
	"profast-backend-go/internal/models"
)

// Gateway amounts are in the smallest currency unit (poisha for taka).
const minorUnits = 100

// EventPaymentIntentSucceeded is the webhook type that captures a parcel payment.
const EventPaymentIntentSucceeded = "payment_intent.succeeded"

// Payment sources, used for logging and metrics labels.
const (
	SourceAPI     = "api"
	SourceWebhook = "webhook"
)

// paymentService implements the PaymentService interface.
type paymentService struct {
	paymentRepo db.PaymentRepository
	parcelRepo  db.ParcelRepository
	gateway     PaymentGateway // nil when no gateway is configured
	events      EventRecorder
	currency    string
	logger      *zap.Logger
	now         func() time.Time
}

// NewPaymentService creates a new PaymentService. gateway may be nil, in which
// case intents cannot be created and recorded payments are not re-verified.
func NewPaymentService(paymentRepo db.PaymentRepository, parcelRepo db.ParcelRepository, gateway PaymentGateway,
	events EventRecorder, currency string, logger *zap.Logger) PaymentService {
	return &paymentService{
		paymentRepo: paymentRepo,
		parcelRepo:  parcelRepo,
		gateway:     gateway,
		events:      events,
		currency:    strings.ToLower(currency),
		logger:      logger,
		now:         time.Now,
	}
}

func (s *paymentService) getParcel(ctx context.Context, hexID string) (*models.Parcel, error) {
	id, err := parseID(hexID)
	if err != nil {
		return nil, err
	}
	parcel, err := s.parcelRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrParcelNotFound, hexID)
		}
		return nil, fmt.Errorf("failed to get parcel %s: %w", hexID, err)
	}
	return parcel, nil
}

// CreateIntent opens a gateway payment intent and returns its client secret.
// With a parcel id the amount comes from the stored cost; otherwise the
// request amount (in minor units) is used as is.
func (s *paymentService) CreateIntent(ctx context.Context, caller Caller, req models.PaymentIntentRequest) (string, error) {
	if s.gateway == nil {
		return "", ErrGatewayUnavailable
	}

	amount := req.Amount
	currency := strings.ToLower(strings.TrimSpace(req.Currency))
	metadata := map[string]string{"userEmail": caller.Email}

	if req.ParcelID != "" {
		parcel, err := s.getParcel(ctx, req.ParcelID)
		if err != nil {
			return "", err
		}
		if !caller.CanAccess(parcel.UserEmail) {
			return "", fmt.Errorf("%w: parcel %s belongs to another user", ErrForbidden, req.ParcelID)
		}
		if parcel.Status != models.PaymentStatusUnpaid {
			return "", fmt.Errorf("%w: %s", ErrAlreadyPaid, req.ParcelID)
		}
		amount = int64(parcel.Cost) * minorUnits
		currency = s.currency
		metadata["parcelId"] = parcel.ID.Hex()
		metadata["trackingId"] = parcel.TrackingID
		metadata["userEmail"] = parcel.UserEmail
	}
	if amount <= 0 {
		return "", fmt.Errorf("%w: amount must be positive", ErrInvalidPayment)
	}
	if currency == "" {
		currency = s.currency
	}
	if currency != s.currency {
		return "", fmt.Errorf("%w: currency %q, expected %q", ErrInvalidPayment, currency, s.currency)
	}

	intent, err := s.gateway.CreateIntent(ctx, amount, currency, metadata)
	if err != nil {
		return "", fmt.Errorf("%w: create intent: %v", ErrGateway, err)
	}
	return intent.ClientSecret, nil
}

// Record stores the payment confirmed by the client and marks the parcel
// paid. At most one payment per parcel and per transaction is ever stored.
func (s *paymentService) Record(ctx context.Context, caller Caller, req models.RecordPaymentRequest) (*PaymentReceipt, error) {
	parcel, err := s.getParcel(ctx, req.ParcelID)
	if err != nil {
		return nil, err
	}
	if !caller.CanAccess(parcel.UserEmail) {
		return nil, fmt.Errorf("%w: parcel %s belongs to another user", ErrForbidden, req.ParcelID)
	}
	if !strings.EqualFold(req.UserEmail, parcel.UserEmail) {
		return nil, fmt.Errorf("%w: payment email '%s'", ErrEmailMismatch, req.UserEmail)
	}
	if parcel.Status != models.PaymentStatusUnpaid {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyPaid, req.ParcelID)
	}
	if req.Amount != parcel.Cost {
		return nil, fmt.Errorf("%w: got %d, cost is %d", ErrAmountMismatch, req.Amount, parcel.Cost)
	}
	if !strings.EqualFold(req.Currency, s.currency) {
		return nil, fmt.Errorf("%w: currency %q, expected %q", ErrInvalidPayment, req.Currency, s.currency)
	}

	method := req.PaymentMethod
	if s.gateway != nil {
		intent, err := s.gateway.GetIntent(ctx, req.TransactionID)
		if err != nil {
			return nil, fmt.Errorf("%w: get intent %s: %v", ErrGateway, req.TransactionID, err)
		}
		if err := s.checkIntent(intent, parcel); err != nil {
			return nil, err
		}
		if method == "" {
			method = intent.PaymentMethod
		}
	}

	payment := &models.Payment{
		TransactionID: req.TransactionID,
		ParcelID:      parcel.ID,
		UserEmail:     parcel.UserEmail,
		Amount:        parcel.Cost,
		Currency:      s.currency,
		PaymentMethod: method,
	}
	return s.capture(ctx, parcel, payment, caller.Email, SourceAPI)
}

// checkIntent verifies that intent was opened for parcel and paid exactly its
// cost in the service currency. Intents opened without a parcel id never pay
// for a parcel.
func (s *paymentService) checkIntent(intent *Intent, parcel *models.Parcel) error {
	if intent.Status != IntentSucceeded {
		return fmt.Errorf("%w: intent %s is %s", ErrPaymentNotConfirmed, intent.ID, intent.Status)
	}
	if pid := intent.Metadata["parcelId"]; pid != parcel.ID.Hex() {
		return fmt.Errorf("%w: intent %s was opened for parcel %q", ErrPaymentNotConfirmed, intent.ID, pid)
	}
	if !strings.EqualFold(intent.Currency, s.currency) {
		return fmt.Errorf("%w: intent %s paid in %q, expected %q", ErrAmountMismatch, intent.ID, intent.Currency, s.currency)
	}
	if want := int64(parcel.Cost) * minorUnits; intent.Amount != want {
		return fmt.Errorf("%w: intent %s captured %d, expected %d", ErrAmountMismatch, intent.ID, intent.Amount, want)
	}
	return nil
}

// capture inserts payment and then flips the parcel to paid. The unique
// indexes on the payments collection make the insert the point of no return.
func (s *paymentService) capture(ctx context.Context, parcel *models.Parcel, payment *models.Payment, actor, source string) (*PaymentReceipt, error) {
	now := s.now().UTC()
	payment.PaidAt = now

	if _, err := s.paymentRepo.Create(ctx, payment); err != nil {
		if errors.Is(err, db.ErrDuplicate) {
			return nil, fmt.Errorf("%w: %s", ErrAlreadyPaid, parcel.ID.Hex())
		}
		return nil, fmt.Errorf("failed to record payment %s: %w", payment.TransactionID, err)
	}
	metrics.PaymentsRecordedTotal.WithLabelValues(source).Inc()

	receipt := &PaymentReceipt{Payment: payment}
	switch err := s.parcelRepo.MarkPaid(ctx, parcel.ID, now); {
	case err == nil:
		receipt.ParcelModified = true
	case errors.Is(err, db.ErrNotFound):
		s.logger.Warn("Payment recorded but parcel was no longer unpaid",
			zap.String("parcelId", parcel.ID.Hex()),
			zap.String("transactionId", payment.TransactionID),
		)
	default:
		s.logger.Error("Payment recorded but parcel could not be marked paid",
			zap.String("parcelId", parcel.ID.Hex()),
			zap.String("transactionId", payment.TransactionID),
			zap.Error(err),
		)
	}

	s.events.Record(ctx, models.ParcelEvent{
		ParcelID:   parcel.ID,
		TrackingID: parcel.TrackingID,
		Type:       models.EventParcelPaid,
		Actor:      actor,
		Details: map[string]interface{}{
			"transactionId": payment.TransactionID,
			"amount":        payment.Amount,
			"source":        source,
		},
		Timestamp: now,
	})
	return receipt, nil
}

// HandleWebhook processes a signed gateway notification. Events that do not
// concern a known unpaid parcel are acknowledged without effect.
func (s *paymentService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	if s.gateway == nil {
		return ErrGatewayUnavailable
	}
	event, err := s.gateway.ParseWebhook(payload, signature)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWebhookSignature, err)
	}
	if event.Type != EventPaymentIntentSucceeded || event.Intent == nil {
		s.logger.Debug("Ignoring webhook event", zap.String("eventId", event.ID), zap.String("type", event.Type))
		return nil
	}

	intent := event.Intent
	parcelID := intent.Metadata["parcelId"]
	if parcelID == "" {
		s.logger.Info("Succeeded intent carries no parcel", zap.String("intentId", intent.ID))
		return nil
	}
	parcel, err := s.getParcel(ctx, parcelID)
	if err != nil {
		if errors.Is(err, ErrParcelNotFound) || errors.Is(err, ErrInvalidID) {
			s.logger.Warn("Webhook for unknown parcel", zap.String("parcelId", parcelID), zap.String("intentId", intent.ID))
			return nil
		}
		return err
	}
	if err := s.checkIntent(intent, parcel); err != nil {
		s.logger.Error("Webhook intent does not match parcel", zap.String("parcelId", parcelID), zap.Error(err))
		return nil
	}

	if parcel.Status == models.PaymentStatusPaid {
		return nil
	}
	payment := &models.Payment{
		TransactionID: intent.ID,
		ParcelID:      parcel.ID,
		UserEmail:     parcel.UserEmail,
		Amount:        parcel.Cost,
		Currency:      s.currency,
		PaymentMethod: intent.PaymentMethod,
	}
	if _, err := s.capture(ctx, parcel, payment, parcel.UserEmail, SourceWebhook); err != nil {
		if errors.Is(err, ErrAlreadyPaid) {
			return s.repair(ctx, parcel, intent.ID)
		}
		return err
	}
	return nil
}

// repair finishes a capture whose payment row exists but whose parcel was
// left unpaid.
func (s *paymentService) repair(ctx context.Context, parcel *models.Parcel, transactionID string) error {
	existing, err := s.paymentRepo.GetByTransactionID(ctx, transactionID)
	if err != nil || existing.ParcelID != parcel.ID {
		return nil
	}
	if err := s.parcelRepo.MarkPaid(ctx, parcel.ID, existing.PaidAt); err != nil && !errors.Is(err, db.ErrNotFound) {
		return fmt.Errorf("failed to mark parcel %s paid: %w", parcel.ID.Hex(), err)
	}
	return nil
}

func (s *paymentService) ListByUser(ctx context.Context, caller Caller, email string) ([]*models.Payment, error) {
	email = models.NormalizeEmail(email)
	if !caller.CanAccess(email) {
		return nil, fmt.Errorf("%w: cannot list payments of '%s'", ErrForbidden, email)
	}
	payments, err := s.paymentRepo.List(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments of '%s': %w", email, err)
	}
	return payments, nil
}

func (s *paymentService) List(ctx context.Context) ([]*models.Payment, error) {
	payments, err := s.paymentRepo.List(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	return payments, nil
}
