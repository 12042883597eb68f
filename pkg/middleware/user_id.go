package middleware

import (
	"github.com/gin-gonic/gin"
)

const (
	// UserIDHeader carries the opaque caller identity. The service trusts the
	// edge (gateway or test client) to set it; there is no session layer here.
	UserIDHeader = "X-User-ID"
	// UserIDKey is the context key for the caller identity
	UserIDKey = "user_id"
)

// UserIdentity middleware extracts the caller identity from the request
// header and stores it in the context. Handlers that require identity reject
// requests where it is absent.
func UserIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID := c.GetHeader(UserIDHeader); userID != "" {
			c.Set(UserIDKey, userID)
		}
		c.Next()
	}
}

// GetUserID returns the caller identity from context
func GetUserID(c *gin.Context) (string, bool) {
	id, exists := c.Get(UserIDKey)
	if !exists {
		return "", false
	}
	userID, ok := id.(string)
	return userID, ok
}
