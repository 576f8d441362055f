package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// SecurityMiddleware applies CORS validation and baseline security
// headers.
type SecurityMiddleware struct {
	allowedOrigins   []string
	allowedMethods   string
	allowedHeaders   string
	allowCredentials bool
}

// NewSecurityMiddleware creates a new SecurityMiddleware instance.
func NewSecurityMiddleware(allowedOrigins []string, allowedMethods, allowedHeaders string, allowCredentials bool) *SecurityMiddleware {
	return &SecurityMiddleware{
		allowedOrigins:   allowedOrigins,
		allowedMethods:   allowedMethods,
		allowedHeaders:   allowedHeaders,
		allowCredentials: allowCredentials,
	}
}

// Apply returns the gin handler enforcing the configured policy.
func (m *SecurityMiddleware) Apply() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" && m.originAllowed(origin) {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Methods", m.allowedMethods)
			c.Header("Access-Control-Allow-Headers", m.allowedHeaders)
			if m.allowCredentials {
				c.Header("Access-Control-Allow-Credentials", "true")
			}
		}

		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func (m *SecurityMiddleware) originAllowed(origin string) bool {
	for _, allowed := range m.allowedOrigins {
		if allowed == "*" || strings.EqualFold(allowed, origin) {
			return true
		}
	}
	return false
}
