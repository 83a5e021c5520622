package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/arasfeld/rent-app/internal/domain/services"
	"github.com/arasfeld/rent-app/internal/error/response"
)

// Context keys set by Authentication
const (
	ContextUserID = "userID"
	ContextEmail  = "email"
)

// extractToken returns the bearer token, or "" when the header is not "Bearer <token>"
func extractToken(authHeader string) string {
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// Authentication verifies the bearer JWT and stores the user id and email on the context
func Authentication(jwtService services.InterfaceJWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "Authorization header is required")
			return
		}

		tokenString := extractToken(authHeader)
		if tokenString == "" {
			response.Unauthorized(c, "Authorization header format must be Bearer {token}")
			return
		}

		claims, err := jwtService.ValidateToken(tokenString)
		if err != nil || claims.Subject == "" {
			response.Unauthorized(c, "Invalid or expired token")
			return
		}

		c.Set(ContextUserID, claims.Subject)
		c.Set(ContextEmail, claims.Email)
		c.Next()
	}
}

// UserID returns the authenticated user's id
func UserID(c *gin.Context) string {
	return c.GetString(ContextUserID)
}
