package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const userIDKey = "userID"

// authMiddleware verifies the x-access-token header and stores the caller's
// user id in the request context. Missing or invalid tokens are rejected
// before any handler runs.
func authMiddleware(auth AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader("x-access-token")
		if token == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Access token missing"})
			return
		}
		userID, err := auth.VerifyAccess(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Invalid or expired access token"})
			return
		}
		c.Set(userIDKey, userID)
		c.Next()
	}
}
