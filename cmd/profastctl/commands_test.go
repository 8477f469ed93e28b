package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"profast-backend-go/internal/auth"
	"profast-backend-go/internal/core"
	"profast-backend-go/internal/db/memstore"
	"profast-backend-go/internal/models"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestQuoteCommand(t *testing.T) {
	out, err := run(t, "quote", "--type", "Non-Document", "--weight", "5", "--from", "Dhaka", "--to", "Sylhet")
	require.NoError(t, err)
	assert.Contains(t, out, "Total:          270")

	_, err = run(t, "quote", "--type", "Crate")
	assert.ErrorIs(t, err, core.ErrInvalidParcel)
}

func TestTokenCommand(t *testing.T) {
	const secret = "cli-test-secret-0123456789"
	out, err := run(t, "token", "ops@example.com", "--secret", secret)
	require.NoError(t, err)

	verifier, err := auth.NewHMACVerifier(secret)
	require.NoError(t, err)
	id, err := verifier.Verify(context.Background(), strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, "ops@example.com", id.Email)
	assert.Equal(t, "local-ops@example.com", id.UID)

	_, err = run(t, "token", "ops@example.com", "--secret", "short")
	assert.Error(t, err)
}

func TestRoleCommand_RejectsUnknownRole(t *testing.T) {
	_, err := run(t, "role", "ops@example.com", "owner")
	assert.ErrorIs(t, err, core.ErrInvalidRole)
}

func TestSetRole(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	_, err := store.Users().Create(ctx, &models.User{Email: "ops@example.com", Role: models.RoleUser})
	require.NoError(t, err)

	user, err := setRole(ctx, store.Users(), "ops@example.com", models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, user.Role)

	_, err = setRole(ctx, store.Users(), "ghost@example.com", models.RoleAdmin)
	assert.ErrorIs(t, err, core.ErrUserNotFound)
}
