package domain

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotFoundErrorWrapsSentinel(t *testing.T) {
	err := NewNotFoundError("League not found")

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrInvalidRequest))
	assert.True(t, errors.Is(fmt.Errorf("lineup: %w", ErrRosterNotFound), ErrNotFound))
	assert.True(t, errors.Is(fmt.Errorf("lineup: %w", ErrRosterNotFound), ErrRosterNotFound))
	assert.False(t, errors.Is(ErrRosterNotFound, ErrPlayerNotFound))
}

func TestAsAppError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		code    ErrorCode
		status  int
		message string
	}{
		{name: "app error passes through", err: fmt.Errorf("wrap: %w", NewValidationError("week must be >= 1")), code: CodeValidation, status: http.StatusBadRequest, message: "week must be >= 1"},
		{name: "wrapped not found sentinel", err: fmt.Errorf("league L1: %w", ErrNotFound), code: CodeNotFound, status: http.StatusNotFound, message: "league L1: resource not found"},
		{name: "wrapped invalid request", err: fmt.Errorf("bad week: %w", ErrInvalidRequest), code: CodeValidation, status: http.StatusBadRequest, message: "bad week: invalid request"},
		{name: "unknown error", err: errors.New("disk full"), code: CodeInternal, status: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appErr := AsAppError(tt.err)
			assert.Equal(t, tt.code, appErr.Code)
			assert.Equal(t, tt.status, appErr.StatusCode)
			if tt.message != "" {
				assert.Equal(t, tt.message, appErr.Message)
			}
		})
	}

	assert.Nil(t, AsAppError(nil))
}
