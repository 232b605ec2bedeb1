package middleware

import (
	"net/http"
	"strings"

	"github.com/arriendo-app/api/internal/auth"
	"github.com/arriendo-app/api/internal/models"
	"github.com/gin-gonic/gin"
)

const (
	// SessionKey is the context key for the authenticated session
	SessionKey = "session"
)

// Auth creates a middleware that validates the Authorization bearer token
// and stores the resulting session in the Gin context. Requests without a
// valid token are rejected with 401.
func Auth(tokens *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			unauthorized(c, "Missing authorization header")
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			unauthorized(c, "Authorization header must be a bearer token")
			return
		}

		session, err := tokens.Validate(parts[1])
		if err != nil {
			unauthorized(c, "Invalid or expired token")
			return
		}

		c.Set(SessionKey, session)
		c.Next()
	}
}

// RequireRole creates a middleware that rejects requests whose session does
// not carry the given role. Must run after Auth.
func RequireRole(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := GetSession(c)
		if !ok {
			unauthorized(c, "Authentication required")
			return
		}

		if session.Role != role {
			requestID := GetRequestID(c)
			if log := GetLogger(c); log != nil {
				log.Warn("Role check failed", map[string]interface{}{
					"required": role,
					"actual":   session.Role,
					"path":     c.Request.URL.Path,
				})
			}
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": gin.H{
					"code":       "FORBIDDEN",
					"message":    "You do not have permission to perform this action",
					"request_id": requestID,
				},
			})
			return
		}

		c.Next()
	}
}

// GetSession retrieves the authenticated session from the Gin context.
func GetSession(c *gin.Context) (auth.Session, bool) {
	if value, exists := c.Get(SessionKey); exists {
		if session, ok := value.(auth.Session); ok {
			return session, true
		}
	}
	return auth.Session{}, false
}

func unauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error": gin.H{
			"code":       "UNAUTHORIZED",
			"message":    message,
			"request_id": GetRequestID(c),
		},
	})
}
