package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const hmacIssuer = "profast"

// Claims is the payload of a locally signed token.
type Claims struct {
	Email   string `json:"email"`
	Name    string `json:"name,omitempty"`
	Picture string `json:"picture,omitempty"`
	jwt.RegisteredClaims
}

// HMACVerifier signs and verifies HS256 tokens with a shared secret. It
// stands in for Firebase in development and tests.
type HMACVerifier struct {
	secret []byte
	now    func() time.Time
}

// NewHMACVerifier returns a verifier keyed with secret.
func NewHMACVerifier(secret string) (*HMACVerifier, error) {
	if len(secret) < 16 {
		return nil, errors.New("hmac secret must be at least 16 bytes")
	}
	return &HMACVerifier{secret: []byte(secret), now: time.Now}, nil
}

// Issue mints a token for id that expires after ttl.
func (v *HMACVerifier) Issue(id Identity, ttl time.Duration) (string, error) {
	now := v.now()
	claims := Claims{
		Email:   id.Email,
		Name:    id.Name,
		Picture: id.Picture,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    hmacIssuer,
			Subject:   id.UID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (v *HMACVerifier) Verify(_ context.Context, token string) (*Identity, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims,
		func(*jwt.Token) (interface{}, error) { return v.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(hmacIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(v.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return &Identity{
		UID:     claims.Subject,
		Email:   claims.Email,
		Name:    claims.Name,
		Picture: claims.Picture,
	}, nil
}
