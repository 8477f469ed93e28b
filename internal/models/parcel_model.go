package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ParcelType decides which pricing row applies.
type ParcelType string

const (
	ParcelTypeDocument    ParcelType = "Document"
	ParcelTypeNonDocument ParcelType = "Non-Document"
)

// PaymentStatus is the payment state of a parcel. It only moves unpaid -> paid.
type PaymentStatus string

const (
	PaymentStatusUnpaid PaymentStatus = "unpaid"
	PaymentStatusPaid   PaymentStatus = "paid"
)

// DeliveryStatus is the operational fulfillment stage, independent of payment.
type DeliveryStatus string

const (
	DeliveryStatusPending       DeliveryStatus = "pending"
	DeliveryStatusReadyToPickup DeliveryStatus = "ready-to-pickup"
	DeliveryStatusInTransit     DeliveryStatus = "in-transit"
	DeliveryStatusDelivered     DeliveryStatus = "delivered"
)

// deliveryOrder lists delivery stages in the only order they may be visited.
var deliveryOrder = []DeliveryStatus{
	DeliveryStatusPending,
	DeliveryStatusReadyToPickup,
	DeliveryStatusInTransit,
	DeliveryStatusDelivered,
}

// Next returns the stage that follows s, or false when s is terminal or unknown.
func (s DeliveryStatus) Next() (DeliveryStatus, bool) {
	for i, st := range deliveryOrder {
		if st == s && i+1 < len(deliveryOrder) {
			return deliveryOrder[i+1], true
		}
	}
	return "", false
}

// Valid reports whether s is a known delivery stage.
func (s DeliveryStatus) Valid() bool {
	for _, st := range deliveryOrder {
		if st == s {
			return true
		}
	}
	return false
}

// CostBreakdown is the itemized price of a parcel, in whole taka.
type CostBreakdown struct {
	BaseFare          int `json:"baseFare" bson:"baseFare"`
	WeightCharge      int `json:"weightCharge" bson:"weightCharge"`
	OutsideCityCharge int `json:"outsideCityCharge" bson:"outsideCityCharge"`
	Total             int `json:"total" bson:"total"`
}

// Parcel is a delivery booking.
type Parcel struct {
	ID           primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	ParcelName   string             `json:"parcelName" bson:"parcelName"`
	ParcelType   ParcelType         `json:"parcelType" bson:"parcelType"`
	ParcelWeight float64            `json:"parcelWeight,omitempty" bson:"parcelWeight,omitempty"`

	SenderName        string `json:"senderName" bson:"senderName"`
	SenderContact     string `json:"senderContact" bson:"senderContact"`
	SenderRegion      string `json:"senderRegion" bson:"senderRegion"`
	SenderWarehouse   string `json:"senderWarehouse" bson:"senderWarehouse"`
	SenderAddress     string `json:"senderAddress" bson:"senderAddress"`
	PickupInstruction string `json:"pickupInstruction,omitempty" bson:"pickupInstruction,omitempty"`

	ReceiverName        string `json:"receiverName" bson:"receiverName"`
	ReceiverContact     string `json:"receiverContact" bson:"receiverContact"`
	ReceiverRegion      string `json:"receiverRegion" bson:"receiverRegion"`
	ReceiverWarehouse   string `json:"receiverWarehouse" bson:"receiverWarehouse"`
	ReceiverAddress     string `json:"receiverAddress" bson:"receiverAddress"`
	DeliveryInstruction string `json:"deliveryInstruction,omitempty" bson:"deliveryInstruction,omitempty"`

	Cost           int            `json:"cost" bson:"cost"`
	CostBreakdown  CostBreakdown  `json:"costBreakdown" bson:"costBreakdown"`
	Status         PaymentStatus  `json:"status" bson:"status"`
	DeliveryStatus DeliveryStatus `json:"deliveryStatus" bson:"deliveryStatus"`
	TrackingID     string         `json:"trackingId" bson:"trackingId"`
	UserEmail      string         `json:"userEmail" bson:"userEmail"`
	BookingDate    time.Time      `json:"bookingDate" bson:"bookingDate"`
	UpdatedAt      time.Time      `json:"updatedAt" bson:"updatedAt"`
	PaidAt         *time.Time     `json:"paidAt,omitempty" bson:"paidAt,omitempty"`
}

// ParcelDetails holds the booking fields a user controls. They are the only
// fields an edit may touch, and only while the parcel is unpaid.
type ParcelDetails struct {
	ParcelName          string
	ParcelType          ParcelType
	ParcelWeight        float64
	SenderName          string
	SenderContact       string
	SenderRegion        string
	SenderWarehouse     string
	SenderAddress       string
	PickupInstruction   string
	ReceiverName        string
	ReceiverContact     string
	ReceiverRegion      string
	ReceiverWarehouse   string
	ReceiverAddress     string
	DeliveryInstruction string
}

// Apply copies d onto p.
func (d ParcelDetails) Apply(p *Parcel) {
	p.ParcelName = d.ParcelName
	p.ParcelType = d.ParcelType
	p.ParcelWeight = d.ParcelWeight
	p.SenderName = d.SenderName
	p.SenderContact = d.SenderContact
	p.SenderRegion = d.SenderRegion
	p.SenderWarehouse = d.SenderWarehouse
	p.SenderAddress = d.SenderAddress
	p.PickupInstruction = d.PickupInstruction
	p.ReceiverName = d.ReceiverName
	p.ReceiverContact = d.ReceiverContact
	p.ReceiverRegion = d.ReceiverRegion
	p.ReceiverWarehouse = d.ReceiverWarehouse
	p.ReceiverAddress = d.ReceiverAddress
	p.DeliveryInstruction = d.DeliveryInstruction
}

// ParcelFilter narrows parcel listings. Zero values match everything.
type ParcelFilter struct {
	UserEmail      string
	Status         PaymentStatus
	DeliveryStatus DeliveryStatus
}
