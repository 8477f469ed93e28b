// Package auth verifies bearer tokens and turns them into identities.
package auth

import (
	"context"
	"errors"
)

// ErrInvalidToken is returned for any token that fails verification.
var ErrInvalidToken = errors.New("invalid or expired authentication token")

// Identity is what a verified token says about its holder.
type Identity struct {
	UID     string
	Email   string
	Name    string
	Picture string
}

// TokenVerifier checks a bearer token.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}
