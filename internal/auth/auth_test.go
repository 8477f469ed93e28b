package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	fbauth "firebase.google.com/go/v4/auth"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-0123456789"

func TestHMACVerifier_RoundTrip(t *testing.T) {
	v, err := NewHMACVerifier(testSecret)
	require.NoError(t, err)

	token, err := v.Issue(Identity{UID: "u1", Email: "a@example.com", Name: "A"}, time.Hour)
	require.NoError(t, err)

	id, err := v.Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, &Identity{UID: "u1", Email: "a@example.com", Name: "A"}, id)
}

func TestHMACVerifier_Rejects(t *testing.T) {
	v, err := NewHMACVerifier(testSecret)
	require.NoError(t, err)
	other, err := NewHMACVerifier("another-secret-abcdefgh")
	require.NoError(t, err)

	expired, err := v.Issue(Identity{UID: "u1"}, -time.Minute)
	require.NoError(t, err)
	foreign, err := other.Issue(Identity{UID: "u1"}, time.Hour)
	require.NoError(t, err)
	noneAlg, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "u1", "iss": hmacIssuer}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	for name, token := range map[string]string{
		"expired":      expired,
		"wrong secret": foreign,
		"unsigned":     noneAlg,
		"garbage":      "not.a.jwt",
		"empty":        "",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := v.Verify(context.Background(), token)
			assert.True(t, errors.Is(err, ErrInvalidToken))
		})
	}
}

func TestNewHMACVerifier_ShortSecret(t *testing.T) {
	_, err := NewHMACVerifier("short")
	assert.Error(t, err)
}

type stubIDTokenVerifier struct {
	token *fbauth.Token
	err   error
}

func (s stubIDTokenVerifier) VerifyIDToken(context.Context, string) (*fbauth.Token, error) {
	return s.token, s.err
}

func TestFirebaseVerifier(t *testing.T) {
	v := NewFirebaseVerifier(stubIDTokenVerifier{token: &fbauth.Token{
		UID:    "fb-uid",
		Claims: map[string]interface{}{"email": "a@example.com", "picture": "https://img"},
	}})
	id, err := v.Verify(context.Background(), "id-token")
	require.NoError(t, err)
	assert.Equal(t, "fb-uid", id.UID)
	assert.Equal(t, "a@example.com", id.Email)
	assert.Equal(t, "https://img", id.Picture)

	v = NewFirebaseVerifier(stubIDTokenVerifier{err: errors.New("token expired")})
	_, err = v.Verify(context.Background(), "id-token")
	assert.True(t, errors.Is(err, ErrInvalidToken))
}
