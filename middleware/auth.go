package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const accessTokenKey = "accessToken"

// BearerTokenMiddleware requires an "Authorization: Bearer <token>" header
// and stores the token for handlers. The token is the caller's calendar
// access token; it is forwarded, not verified, here.
func BearerTokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		c.Set(accessTokenKey, token)
		c.Next()
	}
}

// AccessToken returns the token stored by BearerTokenMiddleware.
func AccessToken(c *gin.Context) string {
	return c.GetString(accessTokenKey)
}
