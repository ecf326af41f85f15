package mw

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"movie-catalog-backend/internal/auth"
)

const userIDKey = "userID"

// RequireAuth rejects requests without a valid bearer token and stores the
// token's user id in the context.
func RequireAuth(tokens auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization header required"})
			return
		}

		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization format, use 'Bearer <token>'"})
			return
		}

		claims, err := tokens.Validate(strings.TrimSpace(token))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		c.Set(userIDKey, claims.UserID())
		c.Next()
	}
}

// UserID returns the authenticated user's id set by RequireAuth.
func UserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}
