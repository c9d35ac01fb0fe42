package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError(t *testing.T) {
	cause := errors.New("dial tcp: refused")

	tests := []struct {
		name    string
		err     *AppError
		code    string
		status  int
		message string
		text    string
		target  error
	}{
		{"not found", NotFound("order"), "NOT_FOUND", http.StatusNotFound, "order not found", "order not found: resource not found", ErrNotFound},
		{"unauthorized default", Unauthorized(""), "UNAUTHORIZED", http.StatusUnauthorized, "authentication required", "authentication required: unauthorized", ErrUnauthorized},
		{"bad request", BadRequest("invalid store"), "BAD_REQUEST", http.StatusBadRequest, "invalid store", "invalid store: bad request", ErrBadRequest},
		{"validation", ValidationError("bad mode", cause), "VALIDATION_ERROR", http.StatusUnprocessableEntity, "bad mode", "bad mode: dial tcp: refused", cause},
		{"internal", Internal("failed", cause), "INTERNAL_ERROR", http.StatusInternalServerError, "failed", "failed: dial tcp: refused", cause},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.status, tt.err.StatusCode)
			assert.Equal(t, tt.message, tt.err.Message)
			assert.Equal(t, tt.text, tt.err.Error())
			assert.ErrorIs(t, tt.err, tt.target)

			resp := tt.err.ToResponse()
			assert.Equal(t, tt.code, resp.Error.Code)
			assert.Equal(t, tt.message, resp.Error.Message)
		})
	}
}

func TestAppError_WithoutCause(t *testing.T) {
	err := &AppError{Code: "CONFLICT", Message: "already paid", StatusCode: http.StatusConflict}
	assert.Equal(t, "already paid", err.Error())
	assert.Nil(t, err.Unwrap())
}

func TestTooEarly(t *testing.T) {
	err := TooEarly("retry in 5 seconds")
	assert.Equal(t, "TOO_EARLY", err.Code)
	assert.Equal(t, http.StatusTooEarly, err.StatusCode)
	assert.Equal(t, "retry in 5 seconds", err.Error())
}

func TestAppError_As(t *testing.T) {
	wrapped := fmt.Errorf("load settings: %w", NotFound("store"))

	var appErr *AppError
	assert.True(t, errors.As(wrapped, &appErr))
	assert.Equal(t, http.StatusNotFound, appErr.StatusCode)
}
