package api

import "profast-backend-go/internal/models"

// ErrorResponse is a generic structure for returning errors via API.
type ErrorResponse struct {
	Error   string `json:"error"`             // A high-level error message or code
	Details string `json:"details,omitempty"` // More specific details about the error, if available
}

// SuccessResponse is a generic structure for simple success messages.
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// BookParcelResponse is returned by POST /parcels.
type BookParcelResponse struct {
	InsertedID    string               `json:"insertedId"`
	TrackingID    string               `json:"trackingId"`
	Cost          int                  `json:"cost"`
	CostBreakdown models.CostBreakdown `json:"costBreakdown"`
}

// QuoteResponse is returned by POST /parcels/quote.
type QuoteResponse struct {
	Cost          int                  `json:"cost"`
	CostBreakdown models.CostBreakdown `json:"costBreakdown"`
	SameRegion    bool                 `json:"sameRegion"`
}

// UpdateParcelResponse is returned by PUT /parcels/:id.
type UpdateParcelResponse struct {
	ModifiedCount int            `json:"modifiedCount"`
	Parcel        *models.Parcel `json:"parcel"`
}

// DeleteParcelResponse is returned by DELETE /parcels/:id.
type DeleteParcelResponse struct {
	DeletedCount int `json:"deletedCount"`
}

// CreateUserResponse is returned by POST /users. InsertedID is empty when the
// user already existed.
type CreateUserResponse struct {
	InsertedID string `json:"insertedId,omitempty"`
	Inserted   bool   `json:"inserted"`
	Message    string `json:"message,omitempty"`
}

// AdminCheckResponse is returned by GET /users/admin/:email.
type AdminCheckResponse struct {
	Admin bool `json:"admin"`
}

// PaymentIntentResponse is returned by POST /create-payment-intent.
type PaymentIntentResponse struct {
	ClientSecret string `json:"clientSecret"`
}

// RecordPaymentResponse is returned by POST /payments.
type RecordPaymentResponse struct {
	InsertedID     string `json:"insertedId"`
	ParcelModified bool   `json:"parcelModified"`
}
