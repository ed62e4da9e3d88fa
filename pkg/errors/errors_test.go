package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "not_found error: gone", New(ErrorTypeNotFound, "gone").Error())
	assert.Equal(t, "server_error error (code 502): bad gateway",
		(&Error{Type: ErrorTypeServerError, Message: "bad gateway", Code: 502}).Error())
}

func TestTypeOfWrapped(t *testing.T) {
	cause := New(ErrorTypeValidation, "required field missing")
	err := Wrap(ErrorTypeScraperFailure, "Bad response", cause)
	wrapped := fmt.Errorf("fetch media: %w", err)

	assert.Equal(t, ErrorTypeScraperFailure, TypeOf(wrapped))
	assert.True(t, IsType(wrapped, ErrorTypeScraperFailure))
	assert.False(t, IsNotFound(wrapped))

	var inner *Error
	assert.True(t, stderrors.As(err.Unwrap(), &inner))
	assert.Equal(t, ErrorTypeValidation, inner.Type)
}

func TestTypeOfPlainError(t *testing.T) {
	assert.Equal(t, ErrorTypeUnknown, TypeOf(stderrors.New("boom")))
	assert.False(t, IsType(nil, ErrorTypeUnknown))
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		errorType ErrorType
		want      bool
	}{
		{ErrorTypeNetwork, true},
		{ErrorTypeRateLimit, true},
		{ErrorTypeServerError, true},
		{ErrorTypeNotFound, false},
		{ErrorTypeValidation, false},
		{ErrorTypeScraperFailure, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.errorType), func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryable(tt.errorType))
		})
	}
}

func TestStatusHelpers(t *testing.T) {
	assert.True(t, IsRetryableStatusCode(0))
	assert.True(t, IsRetryableStatusCode(503))
	assert.False(t, IsRetryableStatusCode(404))
	assert.False(t, IsRetryableStatusCode(400))

	assert.Equal(t, ErrorTypeNetwork, TypeForStatus(0))
	assert.Equal(t, ErrorTypeNotFound, TypeForStatus(404))
	assert.Equal(t, ErrorTypeRateLimit, TypeForStatus(429))
	assert.Equal(t, ErrorTypeServerError, TypeForStatus(500))
	assert.Equal(t, ErrorTypeUnknown, TypeForStatus(400))
}
