package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"profast-backend-go/internal/core"
	"profast-backend-go/internal/metrics"
	"profast-backend-go/internal/models"
)

// UserHandler handles user registration and role endpoints.
type UserHandler struct {
	userService core.UserService
	logger      *zap.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(us core.UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{userService: us, logger: logger}
}

func mapUserErrorToStatus(c *gin.Context, logger *zap.Logger, operation string, err error) {
	switch {
	case errors.Is(err, core.ErrEmailMismatch):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "Email does not match the signed-in user"})
	case errors.Is(err, core.ErrInvalidRole):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid role", Details: err.Error()})
	case errors.Is(err, core.ErrUserNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "User not found"})
	default:
		metrics.OperationErrorsTotal.WithLabelValues(operation).Inc()
		logger.Error("Internal Server Error in UserHandler", zap.String("operation", operation), zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "An unexpected internal server error occurred."})
	}
}

// CreateUser handles POST /users. It is called by the client after every
// sign-in; existing users only get their sign-in time refreshed.
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req models.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	user, created, err := h.userService.Register(c.Request.Context(), callerFrom(c), req)
	if err != nil {
		mapUserErrorToStatus(c, h.logger, "create_user", err)
		return
	}
	if !created {
		c.JSON(http.StatusOK, CreateUserResponse{Inserted: false, Message: "User already exists"})
		return
	}
	c.JSON(http.StatusCreated, CreateUserResponse{InsertedID: user.ID.Hex(), Inserted: true})
}

// ListUsers handles GET /users (admin).
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.userService.List(c.Request.Context())
	if err != nil {
		mapUserErrorToStatus(c, h.logger, "list_users", err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// CheckAdmin handles GET /users/admin/:email.
func (h *UserHandler) CheckAdmin(c *gin.Context) {
	role, err := h.userService.RoleOf(c.Request.Context(), c.Param("email"))
	if err != nil {
		mapUserErrorToStatus(c, h.logger, "check_admin", err)
		return
	}
	c.JSON(http.StatusOK, AdminCheckResponse{Admin: role == models.RoleAdmin})
}

// SetRole handles PATCH /users/:email/role (admin).
func (h *UserHandler) SetRole(c *gin.Context) {
	var req models.UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	user, err := h.userService.SetRole(c.Request.Context(), c.Param("email"), req.Role)
	if err != nil {
		mapUserErrorToStatus(c, h.logger, "set_role", err)
		return
	}
	h.logger.Info("User role changed",
		zap.String("email", user.Email),
		zap.String("role", string(user.Role)),
		zap.String("by", callerFrom(c).Email),
	)
	c.JSON(http.StatusOK, user)
}
