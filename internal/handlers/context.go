package handlers

import (
	"github.com/GunarsK-portfolio/timetracker-service/internal/models"
	"github.com/gin-gonic/gin"
)

// ContextUserKey is the gin context key under which the auth middleware
// stores the authenticated user.
const ContextUserKey = "current_user"

// CurrentUser returns the authenticated user for the request, or nil
// when the route was reached without the auth middleware.
func CurrentUser(c *gin.Context) *models.User {
	value, exists := c.Get(ContextUserKey)
	if !exists {
		return nil
	}
	user, ok := value.(*models.User)
	if !ok {
		return nil
	}
	return user
}
