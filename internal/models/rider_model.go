package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RiderStatus is the review state of a rider application.
type RiderStatus string

const (
	RiderStatusPending     RiderStatus = "pending"
	RiderStatusActive      RiderStatus = "active"
	RiderStatusRejected    RiderStatus = "rejected"
	RiderStatusDeactivated RiderStatus = "deactivated"
)

// riderTransitions lists the moves an admin may make from each state.
var riderTransitions = map[RiderStatus][]RiderStatus{
	RiderStatusPending: {RiderStatusActive, RiderStatusRejected},
	RiderStatusActive:  {RiderStatusDeactivated},
}

// CanBecome reports whether an application in state s may move to next.
func (s RiderStatus) CanBecome(next RiderStatus) bool {
	for _, allowed := range riderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Open reports whether an application in state s still blocks a new one
// from the same applicant.
func (s RiderStatus) Open() bool {
	return s == RiderStatusPending || s == RiderStatusActive
}

// RiderApplication is a request to work as a courier.
type RiderApplication struct {
	ID             primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	ApplicantName  string             `json:"applicantName" bson:"applicantName"`
	ApplicantEmail string             `json:"applicantEmail" bson:"applicantEmail"`
	Age            int                `json:"age" bson:"age"`
	Region         string             `json:"region" bson:"region"`
	Warehouse      string             `json:"warehouse" bson:"warehouse"`
	Contact        string             `json:"contact" bson:"contact"`
	NID            string             `json:"nid" bson:"nid"`
	BikeBrand      string             `json:"bikeBrand" bson:"bikeBrand"`
	BikeRegNo      string             `json:"bikeRegNo" bson:"bikeRegNo"`
	Status         RiderStatus        `json:"status" bson:"status"`
	Open           bool               `json:"-" bson:"open"` // mirrors Status.Open for the unique index
	CreatedAt      time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt      time.Time          `json:"updatedAt" bson:"updatedAt"`
}
