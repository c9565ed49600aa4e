// Package response writes the JSON error envelope shared by every handler.
package response

import (
	"github.com/gin-gonic/gin"
	"github.com/huddle-ai/huddle/internal/domain"
	"go.uber.org/zap"
)

// RequestIDKey is the gin context key holding the request id
const RequestIDKey = "request_id"

type errorBody struct {
	Code       domain.ErrorCode `json:"code"`
	Message    string           `json:"message"`
	StatusCode int              `json:"statusCode"`
}

// Error normalizes err and writes {"error": {code, message, statusCode}}.
// Internal failures are logged with their cause; the body keeps only the
// generic message.
func Error(c *gin.Context, logger *zap.Logger, err error) {
	appErr := domain.AsAppError(err)

	fields := []zap.Field{
		zap.String("code", string(appErr.Code)),
		zap.String("path", c.Request.URL.Path),
		zap.String("request_id", c.GetString(RequestIDKey)),
		zap.Error(err),
	}
	if appErr.Service != "" {
		fields = append(fields, zap.String("service", appErr.Service))
	}
	if appErr.StatusCode >= 500 {
		logger.Error("Request failed", fields...)
	} else {
		logger.Info("Request rejected", fields...)
	}

	c.AbortWithStatusJSON(appErr.StatusCode, gin.H{"error": errorBody{
		Code:       appErr.Code,
		Message:    appErr.Message,
		StatusCode: appErr.StatusCode,
	}})
}

// BindError turns a gin binding failure into a validation error
func BindError(err error) error {
	return domain.NewValidationError("invalid request body: %v", err)
}
