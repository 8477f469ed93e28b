package db

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"profast-backend-go/internal/models"
)

// Conditional writes (UpdateUnpaid, DeleteUnpaid, MarkPaid, AdvanceDelivery,
// UpdateStatus) return ErrNotFound when no document satisfied the condition.
// Callers re-read the document to tell a missing one from one in the wrong state.

// UserRepository defines the interface for user data storage operations.
type UserRepository interface {
	// Create inserts a user. ErrDuplicate means the email is already registered.
	Create(ctx context.Context, user *models.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	TouchSignIn(ctx context.Context, email string, at time.Time) error
	List(ctx context.Context) ([]*models.User, error)
	SetRole(ctx context.Context, email string, role models.Role) (*models.User, error)
}

// ParcelRepository defines the interface for parcel data storage operations.
type ParcelRepository interface {
	Create(ctx context.Context, parcel *models.Parcel) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Parcel, error)
	GetByTrackingID(ctx context.Context, trackingID string) (*models.Parcel, error)
	// List returns matching parcels, newest booking first.
	List(ctx context.Context, filter models.ParcelFilter) ([]*models.Parcel, error)
	UpdateUnpaid(ctx context.Context, id primitive.ObjectID, details models.ParcelDetails, cost models.CostBreakdown, at time.Time) (*models.Parcel, error)
	DeleteUnpaid(ctx context.Context, id primitive.ObjectID) error
	MarkPaid(ctx context.Context, id primitive.ObjectID, at time.Time) error
	AdvanceDelivery(ctx context.Context, id primitive.ObjectID, from, to models.DeliveryStatus, at time.Time) (*models.Parcel, error)
}

// PaymentRepository defines the interface for payment data storage operations.
type PaymentRepository interface {
	// Create inserts a payment. ErrDuplicate means the transaction or the parcel
	// already has a payment.
	Create(ctx context.Context, payment *models.Payment) (primitive.ObjectID, error)
	GetByTransactionID(ctx context.Context, transactionID string) (*models.Payment, error)
	// List returns payments newest first. An empty email lists everything.
	List(ctx context.Context, userEmail string) ([]*models.Payment, error)
}

// ParcelEventRepository stores the parcel history trail.
type ParcelEventRepository interface {
	Create(ctx context.Context, event models.ParcelEvent) error
	// ListByParcel returns events oldest first.
	ListByParcel(ctx context.Context, parcelID primitive.ObjectID) ([]*models.ParcelEvent, error)
}

// RiderRepository defines the interface for rider application storage operations.
type RiderRepository interface {
	// Create inserts an application. ErrDuplicate means the applicant already
	// has an open (pending or active) application.
	Create(ctx context.Context, app *models.RiderApplication) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.RiderApplication, error)
	ListByStatus(ctx context.Context, status models.RiderStatus) ([]*models.RiderApplication, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, from, to models.RiderStatus, at time.Time) (*models.RiderApplication, error)
}
