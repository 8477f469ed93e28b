package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Payment is the record of one successful card confirmation. Never updated.
type Payment struct {
	ID            primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	TransactionID string             `json:"transactionId" bson:"transactionId"`
	ParcelID      primitive.ObjectID `json:"parcelId" bson:"parcelId"`
	UserEmail     string             `json:"userEmail" bson:"userEmail"`
	Amount        int                `json:"amount" bson:"amount"`
	Currency      string             `json:"currency" bson:"currency"`
	PaymentMethod string             `json:"paymentMethod" bson:"paymentMethod"`
	PaidAt        time.Time          `json:"paidAt" bson:"paidAt"`
}
