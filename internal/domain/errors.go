package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode is the machine-readable code returned to API callers
type ErrorCode string

const (
	CodeValidation  ErrorCode = "VALIDATION_ERROR"
	CodeNotFound    ErrorCode = "NOT_FOUND"
	CodeExternalAPI ErrorCode = "EXTERNAL_API_ERROR"
	CodeInternal    ErrorCode = "INTERNAL_SERVER_ERROR"
	// CodeUnauthorized guards the admin routes only
	CodeUnauthorized ErrorCode = "UNAUTHORIZED"
)

// Upstream service tags carried by external API errors
const (
	ServiceSleeper = "Sleeper"
	ServiceClaude  = "Claude"
)

var (
	// ErrNotFound indicates resource not found
	ErrNotFound = errors.New("resource not found")
	// ErrInvalidRequest indicates invalid request
	ErrInvalidRequest = errors.New("invalid request")
	// ErrUnauthorized indicates unauthorized access
	ErrUnauthorized = errors.New("unauthorized")
	// ErrRosterNotFound means the user owns no roster in the league
	ErrRosterNotFound = NewNotFoundError("Roster not found for user in this league")
	// ErrPlayerNotFound means the player id is not in the directory
	ErrPlayerNotFound = NewNotFoundError("Player not found")
)

// AppError is an error with an API code and an HTTP status
type AppError struct {
	Code       ErrorCode
	Message    string
	StatusCode int
	// Service names the upstream for external API errors
	Service string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches sentinel AppErrors by code and message
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

// NewValidationError reports bad caller input
func NewValidationError(format string, args ...any) *AppError {
	return &AppError{
		Code:       CodeValidation,
		Message:    fmt.Sprintf(format, args...),
		StatusCode: http.StatusBadRequest,
		Err:        ErrInvalidRequest,
	}
}

// NewNotFoundError reports a missing resource
func NewNotFoundError(message string) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    message,
		StatusCode: http.StatusNotFound,
		Err:        ErrNotFound,
	}
}

// NewExternalAPIError wraps an upstream failure tagged with its service
func NewExternalAPIError(service, message string, err error) *AppError {
	return &AppError{
		Code:       CodeExternalAPI,
		Message:    message,
		StatusCode: http.StatusBadGateway,
		Service:    service,
		Err:        err,
	}
}

// NewUnauthorizedError reports a missing or wrong API key
func NewUnauthorizedError() *AppError {
	return &AppError{
		Code:       CodeUnauthorized,
		Message:    "Invalid or missing API key",
		StatusCode: http.StatusUnauthorized,
		Err:        ErrUnauthorized,
	}
}

// NewInternalError wraps an unexpected failure
func NewInternalError(err error) *AppError {
	return &AppError{
		Code:       CodeInternal,
		Message:    "An unexpected error occurred",
		StatusCode: http.StatusInternalServerError,
		Err:        err,
	}
}

// AsAppError normalizes any error into an AppError
func AsAppError(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	if errors.Is(err, ErrNotFound) {
		return NewNotFoundError(err.Error())
	}
	if errors.Is(err, ErrInvalidRequest) {
		return &AppError{Code: CodeValidation, Message: err.Error(), StatusCode: http.StatusBadRequest, Err: err}
	}
	return NewInternalError(err)
}
