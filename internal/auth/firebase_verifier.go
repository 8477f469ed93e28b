package auth

import (
	"context"
	"fmt"

	fbauth "firebase.google.com/go/v4/auth"
)

// IDTokenVerifier is the part of the Firebase auth client used here.
// *auth.Client implements it.
type IDTokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*fbauth.Token, error)
}

// FirebaseVerifier accepts Firebase ID tokens.
type FirebaseVerifier struct {
	client IDTokenVerifier
}

// NewFirebaseVerifier wraps a Firebase auth client.
func NewFirebaseVerifier(client IDTokenVerifier) *FirebaseVerifier {
	return &FirebaseVerifier{client: client}
}

func (v *FirebaseVerifier) Verify(ctx context.Context, token string) (*Identity, error) {
	t, err := v.client.VerifyIDToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	id := &Identity{UID: t.UID}
	// email, name and picture are standard Firebase ID token claims.
	if email, ok := t.Claims["email"].(string); ok {
		id.Email = email
	}
	if name, ok := t.Claims["name"].(string); ok {
		id.Name = name
	}
	if picture, ok := t.Claims["picture"].(string); ok {
		id.Picture = picture
	}
	return id, nil
}
