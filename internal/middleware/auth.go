package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pageza/recipebox/backend/internal/types"
)

const (
	// ContextUsernameKey holds the signed-in username in the gin context
	ContextUsernameKey = "username"
	// SessionCookieName is the cookie set on login
	SessionCookieName = "session_token"
)

// TokenValidator is an interface for validating JWT tokens
type TokenValidator interface {
	ValidateToken(token string) (*types.TokenClaims, error)
}

// AuthMiddleware creates a middleware that validates JWT tokens taken from the
// Authorization header or, failing that, the session cookie.
func AuthMiddleware(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := extractToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		claims, err := validator.ValidateToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		// Store user info in context
		c.Set(ContextUsernameKey, claims.Username)
		c.Next()
	}
}

func extractToken(c *gin.Context) (string, bool) {
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return "", false
		}
		return parts[1], true
	}

	if cookie, err := c.Cookie(SessionCookieName); err == nil && cookie != "" {
		return cookie, true
	}
	return "", false
}
