package middleware

import (
	"context"  // Request context for authentication
	"errors"   // Error kind matching
	"net/http" // HTTP status codes
	"strings"  // String manipulation

	"github.com/sb141/personal-finance-project/internal/domain"  // Importing domain models
	"github.com/sb141/personal-finance-project/internal/service" // Error kinds

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// UserIDKey is the gin context key holding the authenticated user's ID
const UserIDKey = "userID"

// TokenAuthenticator resolves a bearer token to its user
type TokenAuthenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.User, error)
}

// BearerAuthMiddleware validates opaque bearer tokens and stores the acting user ID
func BearerAuthMiddleware(auth TokenAuthenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization") // Get Authorization header
		// Check if the Authorization header is present and properly formatted
		scheme, token, ok := strings.Cut(authHeader, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			// If not, abort with unauthorized status
			c.Header("WWW-Authenticate", "Bearer")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}
		user, err := auth.Authenticate(c.Request.Context(), strings.TrimSpace(token)) // Look up the token owner
		if errors.Is(err, service.ErrUnauthorized) {
			// Unknown token, abort with unauthorized status
			c.Header("WWW-Authenticate", "Bearer")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		if err != nil {
			// Lookup failed, the token may well be valid
			logrus.WithFields(logrus.Fields{
				"method": c.Request.Method,
				"path":   c.FullPath(),
				"error":  err,
			}).Error("Authentication lookup failed")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
		c.Set(UserIDKey, user.ID) // Store userID in context
		c.Next()                  // Proceed to the next handler
	}
}

// UserID returns the authenticated user's ID set by BearerAuthMiddleware
func UserID(c *gin.Context) (uint, bool) {
	v, exists := c.Get(UserIDKey) // Get userID from context
	if !exists {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}
