package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"profast-backend-go/internal/auth"
	"profast-backend-go/internal/metrics"
	"profast-backend-go/internal/models"
)

type staticRoles map[string]models.Role

func (r staticRoles) RoleOf(_ context.Context, email string) (models.Role, error) {
	if email == "broken@example.com" {
		return "", errors.New("db down")
	}
	if role, ok := r[email]; ok {
		return role, nil
	}
	return models.RoleUser, nil
}

func newTestRouter(t *testing.T) (*gin.Engine, *auth.HMACVerifier) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	verifier, err := auth.NewHMACVerifier("middleware-test-secret")
	require.NoError(t, err)

	m := NewAuthMiddleware(verifier, staticRoles{"admin@example.com": models.RoleAdmin}, zap.NewNop())
	r := gin.New()
	r.Use(RecoveryMiddleware(zap.NewNop()), RequestLogger(zap.NewNop()))
	r.GET("/me", m.VerifyToken(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"email": c.GetString(ContextUserEmail), "uid": c.GetString(ContextUserID)})
	})
	r.GET("/admin", m.VerifyToken(), m.RequireAdmin(), func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.GET("/panic", func(c *gin.Context) { panic("boom") })
	return r, verifier
}

func do(r http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestVerifyToken(t *testing.T) {
	r, verifier := newTestRouter(t)
	good, err := verifier.Issue(auth.Identity{UID: "u1", Email: "a@example.com"}, time.Hour)
	require.NoError(t, err)
	noEmail, err := verifier.Issue(auth.Identity{UID: "u2"}, time.Hour)
	require.NoError(t, err)
	broken, err := verifier.Issue(auth.Identity{UID: "u3", Email: "broken@example.com"}, time.Hour)
	require.NoError(t, err)

	w := do(r, "/me", good)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"email":"a@example.com","uid":"u1"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))

	assert.Equal(t, http.StatusUnauthorized, do(r, "/me", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, "/me", "garbage").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, "/me", noEmail).Code)
	assert.Equal(t, http.StatusInternalServerError, do(r, "/me", broken).Code)

	mixed, err := verifier.Issue(auth.Identity{UID: "u4", Email: " A@Example.COM "}, time.Hour)
	require.NoError(t, err)
	w = do(r, "/me", mixed)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"email":"a@example.com","uid":"u4"}`, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Token "+good)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAdmin(t *testing.T) {
	r, verifier := newTestRouter(t)
	user, err := verifier.Issue(auth.Identity{UID: "u1", Email: "a@example.com"}, time.Hour)
	require.NoError(t, err)
	admin, err := verifier.Issue(auth.Identity{UID: "u9", Email: "admin@example.com"}, time.Hour)
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, do(r, "/admin", "").Code)
	assert.Equal(t, http.StatusForbidden, do(r, "/admin", user).Code)
	assert.Equal(t, http.StatusNoContent, do(r, "/admin", admin).Code)

	shouting, err := verifier.Issue(auth.Identity{UID: "u9", Email: "ADMIN@EXAMPLE.COM"}, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, do(r, "/admin", shouting).Code)
}

func panicCount(t *testing.T) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, metrics.OperationErrorsTotal.WithLabelValues(panicOperation).Write(&m))
	return m.GetCounter().GetValue()
}

func TestRecoveryMiddleware(t *testing.T) {
	r, _ := newTestRouter(t)
	before := panicCount(t)

	w := do(r, "/panic", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Internal Server Error"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
	assert.Equal(t, before+1, panicCount(t))

	assert.Equal(t, http.StatusUnauthorized, do(r, "/me", "").Code)
	assert.Equal(t, before+1, panicCount(t), "only panics are counted")
}
