package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/huddle-ai/huddle/internal/api/response"
	"github.com/huddle-ai/huddle/internal/domain"
	"go.uber.org/zap"
)

// Auth returns an API key authentication middleware
func Auth(apiKey string, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Skip auth if no API key configured
		if apiKey == "" {
			c.Next()
			return
		}

		key := c.GetHeader("X-API-Key")
		if key == "" {
			// Also try Authorization header
			auth := c.GetHeader("Authorization")
			if strings.HasPrefix(auth, "Bearer ") {
				key = strings.TrimPrefix(auth, "Bearer ")
			}
		}

		if subtle.ConstantTimeCompare([]byte(key), []byte(apiKey)) != 1 {
			response.Error(c, logger, domain.NewUnauthorizedError())
			return
		}

		c.Next()
	}
}
