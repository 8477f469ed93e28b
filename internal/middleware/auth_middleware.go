package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"profast-backend-go/internal/auth"
	"profast-backend-go/internal/models"
)

// Context keys set by VerifyToken.
const (
	ContextUserID          = "userID"
	ContextUserEmail       = "userEmail"
	ContextUserDisplayName = "userDisplayName"
	ContextUserPhotoURL    = "userPhotoURL"
	ContextUserRole        = "userRole"
)

// ErrorResponse is a local definition for sending standardized error messages.
// It mirrors the one in internal/api/dto_models.go to avoid import cycles.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// RoleResolver returns the stored role of a user.
type RoleResolver interface {
	RoleOf(ctx context.Context, email string) (models.Role, error)
}

// AuthMiddleware provides Gin middleware for bearer token authentication.
type AuthMiddleware struct {
	verifier auth.TokenVerifier
	roles    RoleResolver
	logger   *zap.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware instance.
func NewAuthMiddleware(verifier auth.TokenVerifier, roles RoleResolver, logger *zap.Logger) *AuthMiddleware {
	if verifier == nil || roles == nil {
		panic("AuthMiddleware requires a token verifier and a role resolver")
	}
	return &AuthMiddleware{verifier: verifier, roles: roles, logger: logger}
}

// VerifyToken verifies the bearer token in the Authorization header and puts
// the caller's identity and role in the Gin context.
func (m *AuthMiddleware) VerifyToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Authorization header is required"})
			return
		}

		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Authorization header format must be 'Bearer {token}'"})
			return
		}

		identity, err := m.verifier.Verify(c.Request.Context(), parts[1])
		if err != nil {
			m.logger.Debug("Rejected bearer token", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid or expired authentication token"})
			return
		}
		email := models.NormalizeEmail(identity.Email)
		if email == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Authentication token carries no email"})
			return
		}

		role, err := m.roles.RoleOf(c.Request.Context(), email)
		if err != nil {
			m.logger.Error("Failed to resolve user role", zap.String("email", email), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to resolve user role"})
			return
		}

		c.Set(ContextUserID, identity.UID)
		c.Set(ContextUserEmail, email)
		c.Set(ContextUserDisplayName, identity.Name)
		c.Set(ContextUserPhotoURL, identity.Picture)
		c.Set(ContextUserRole, role)

		c.Next()
	}
}

// RequireAdmin lets only admins through. It must run after VerifyToken.
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, _ := c.Get(ContextUserRole)
		if role != models.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{Error: "Admin access required"})
			return
		}
		c.Next()
	}
}
