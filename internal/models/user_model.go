package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NormalizeEmail returns the stored form of an email address. Every email
// that reaches a repository goes through it first.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Role is the authorization level of a user.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
	RoleRider Role = "rider"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin, RoleRider:
		return true
	}
	return false
}

// User represents a registered account. Email is the natural key.
type User struct {
	ID           primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Email        string             `json:"email" bson:"email"`
	Name         string             `json:"name,omitempty" bson:"name,omitempty"`
	PhotoURL     string             `json:"photoURL,omitempty" bson:"photoURL,omitempty"`
	Role         Role               `json:"role" bson:"role"`
	CreatedAt    time.Time          `json:"createdAt" bson:"createdAt"`
	LastSignInAt time.Time          `json:"lastSignInAt" bson:"lastSignInAt"`
}
