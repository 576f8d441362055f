// Package middleware contains gin middleware for the time-tracker service.
package middleware

import (
	"net/http"
	"strings"

	"github.com/GunarsK-portfolio/timetracker-service/internal/handlers"
	"github.com/GunarsK-portfolio/timetracker-service/internal/models"
	"github.com/GunarsK-portfolio/timetracker-service/internal/repository"
	"github.com/GunarsK-portfolio/timetracker-service/internal/service"
	"github.com/gin-gonic/gin"
)

// Auth validates the Bearer token, loads the account and rejects
// inactive users. The loaded user is stored in the request context.
func Auth(jwtService service.JWTService, userRepo repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractBearerToken(c)
		if token == "" {
			handlers.RespondError(c, http.StatusUnauthorized, handlers.CodeUnauthorized, "missing or malformed authorization header")
			c.Abort()
			return
		}

		claims, err := jwtService.ValidateToken(token)
		if err != nil {
			handlers.RespondError(c, http.StatusUnauthorized, handlers.CodeUnauthorized, "invalid or expired token")
			c.Abort()
			return
		}

		user, err := userRepo.FindByID(c.Request.Context(), claims.UserID)
		if err != nil {
			handlers.RespondError(c, http.StatusInternalServerError, handlers.CodeInternalError, "internal server error")
			c.Abort()
			return
		}
		if user == nil || !user.IsActive {
			handlers.RespondError(c, http.StatusUnauthorized, handlers.CodeUnauthorized, "account is not active")
			c.Abort()
			return
		}

		c.Set(handlers.ContextUserKey, user)
		c.Next()
	}
}

// RequireRole rejects requests whose user sits below the required role
// in the hierarchy.
func RequireRole(required string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := handlers.CurrentUser(c)
		if user == nil || !models.HasRole(user.Role, required) {
			handlers.RespondError(c, http.StatusForbidden, handlers.CodeUnauthorized, "insufficient permissions")
			c.Abort()
			return
		}
		c.Next()
	}
}

func extractBearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}
