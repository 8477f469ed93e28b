package api

import (
	"github.com/gin-gonic/gin"

	"profast-backend-go/internal/core"
	"profast-backend-go/internal/middleware"
	"profast-backend-go/internal/models"
)

// callerFrom builds the principal that VerifyToken stored in the context.
func callerFrom(c *gin.Context) core.Caller {
	caller := core.Caller{
		UID:   c.GetString(middleware.ContextUserID),
		Email: c.GetString(middleware.ContextUserEmail),
		Role:  models.RoleUser,
	}
	if role, ok := c.Get(middleware.ContextUserRole); ok {
		if r, ok := role.(models.Role); ok {
			caller.Role = r
		}
	}
	return caller
}
