package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EventType names a step in a parcel's life.
type EventType string

const (
	EventParcelBooked          EventType = "booked"
	EventParcelUpdated         EventType = "updated"
	EventParcelPaid            EventType = "paid"
	EventParcelCancelled       EventType = "cancelled"
	EventDeliveryStatusChanged EventType = "delivery_status_changed"
)

// ParcelEvent is an append-only trail entry for a parcel.
type ParcelEvent struct {
	ID         primitive.ObjectID     `json:"_id" bson:"_id,omitempty"`
	ParcelID   primitive.ObjectID     `json:"parcelId" bson:"parcelId"`
	TrackingID string                 `json:"trackingId" bson:"trackingId"`
	Type       EventType              `json:"type" bson:"type"`
	Actor      string                 `json:"actor,omitempty" bson:"actor,omitempty"` // email of whoever caused it
	Details    map[string]interface{} `json:"details,omitempty" bson:"details,omitempty"`
	Timestamp  time.Time              `json:"timestamp" bson:"timestamp"`
}
