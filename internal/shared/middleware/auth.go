package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"edunews-backend/internal/shared/response"
	"edunews-backend/pkg/jwt"
)

// Auth verifies the bearer token and places the principal's user_id and
// user_name into the request context. The coordinator derives a post's
// author and userId from these, once, at creation.
func Auth(manager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "missing authorization header")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, "invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := manager.ValidateToken(parts[1])
		if err != nil {
			response.Unauthorized(c, "invalid token")
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("user_name", claims.Name)
		c.Next()
	}
}
