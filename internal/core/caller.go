package core

import (
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"profast-backend-go/internal/models"
)

// Caller is the authenticated principal behind a request.
type Caller struct {
	UID   string
	Email string
	Role  models.Role
}

// IsAdmin reports whether the caller holds the admin role.
func (c Caller) IsAdmin() bool { return c.Role == models.RoleAdmin }

// Owns reports whether email belongs to the caller.
func (c Caller) Owns(email string) bool {
	return c.Email != "" && strings.EqualFold(c.Email, email)
}

// CanAccess reports whether the caller may read records owned by email.
func (c Caller) CanAccess(email string) bool { return c.IsAdmin() || c.Owns(email) }

func parseID(hex string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", ErrInvalidID, hex)
	}
	return id, nil
}
