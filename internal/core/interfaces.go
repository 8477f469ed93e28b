package core

import (
	"context"
	"time"

	"profast-backend-go/internal/models"
)

// UserService defines the interface for user-related operations.
type UserService interface {
	// Register creates the caller's user record, or refreshes its sign-in time
	// when it already exists. The bool reports whether a record was created.
	Register(ctx context.Context, caller Caller, req models.CreateUserRequest) (*models.User, bool, error)
	List(ctx context.Context) ([]*models.User, error)
	// RoleOf returns the stored role, or RoleUser for unknown emails.
	RoleOf(ctx context.Context, email string) (models.Role, error)
	SetRole(ctx context.Context, email string, role models.Role) (*models.User, error)
}

// ParcelService defines the booking, editing and delivery operations.
type ParcelService interface {
	Book(ctx context.Context, caller Caller, details models.ParcelDetails) (*models.Parcel, error)
	Get(ctx context.Context, caller Caller, id string) (*models.Parcel, error)
	ListByUser(ctx context.Context, caller Caller, email string) ([]*models.Parcel, error)
	List(ctx context.Context, filter models.ParcelFilter) ([]*models.Parcel, error)
	Update(ctx context.Context, caller Caller, id string, details models.ParcelDetails) (*models.Parcel, error)
	Cancel(ctx context.Context, caller Caller, id string) error
	AdvanceDelivery(ctx context.Context, caller Caller, id string, target models.DeliveryStatus) (*models.Parcel, error)
	History(ctx context.Context, caller Caller, id string) ([]*models.ParcelEvent, error)
	Track(ctx context.Context, trackingID string) (*TrackingInfo, error)
}

// PaymentService defines the payment capture operations.
type PaymentService interface {
	CreateIntent(ctx context.Context, caller Caller, req models.PaymentIntentRequest) (string, error)
	Record(ctx context.Context, caller Caller, req models.RecordPaymentRequest) (*PaymentReceipt, error)
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
	ListByUser(ctx context.Context, caller Caller, email string) ([]*models.Payment, error)
	List(ctx context.Context) ([]*models.Payment, error)
}

// RiderService defines rider application operations.
type RiderService interface {
	Apply(ctx context.Context, caller Caller, req models.RiderApplicationRequest) (*models.RiderApplication, error)
	ListByStatus(ctx context.Context, status models.RiderStatus) ([]*models.RiderApplication, error)
	SetStatus(ctx context.Context, id string, status models.RiderStatus) (*models.RiderApplication, error)
}

// CoverageService answers questions about the served regions and districts.
type CoverageService interface {
	DivisionsJSON() []byte
	WarehousesJSON() []byte
	Divisions() []string
	Search(query string) []models.Warehouse
	HasRegion(region string) bool
	// HasWarehouse reports whether district is a served warehouse in region.
	HasWarehouse(region, district string) bool
}

// EventRecorder keeps the parcel history trail. Recording is best effort.
type EventRecorder interface {
	Record(ctx context.Context, event models.ParcelEvent)
	List(ctx context.Context, parcel *models.Parcel) ([]*models.ParcelEvent, error)
}

// PaymentGateway is the card processor. The Stripe adapter lives in
// internal/payments.
type PaymentGateway interface {
	CreateIntent(ctx context.Context, amount int64, currency string, metadata map[string]string) (*Intent, error)
	GetIntent(ctx context.Context, id string) (*Intent, error)
	ParseWebhook(payload []byte, signature string) (*WebhookEvent, error)
}

// Intent is the subset of a payment intent the services need.
type Intent struct {
	ID            string
	ClientSecret  string
	Status        string
	Amount        int64
	Currency      string
	PaymentMethod string // gateway payment method id, when known
	Metadata      map[string]string
}

// IntentSucceeded is the gateway status of a captured intent.
const IntentSucceeded = "succeeded"

// WebhookEvent is a verified gateway notification.
type WebhookEvent struct {
	ID     string
	Type   string
	Intent *Intent // set for payment_intent.* events
}

// PaymentReceipt is the outcome of recording a payment.
type PaymentReceipt struct {
	Payment        *models.Payment
	ParcelModified bool
}

// TrackingInfo is the public view of a parcel. It carries no personal data.
type TrackingInfo struct {
	TrackingID     string                `json:"trackingId"`
	ParcelType     models.ParcelType     `json:"parcelType"`
	SenderRegion   string                `json:"senderRegion"`
	ReceiverRegion string                `json:"receiverRegion"`
	Status         models.PaymentStatus  `json:"status"`
	DeliveryStatus models.DeliveryStatus `json:"deliveryStatus"`
	BookingDate    time.Time             `json:"bookingDate"`
	Events         []TrackingEvent       `json:"events"`
}

// TrackingEvent is one public history entry.
type TrackingEvent struct {
	Type      models.EventType `json:"type"`
	Status    string           `json:"status,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
}
