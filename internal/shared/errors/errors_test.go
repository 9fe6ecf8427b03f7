package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Codes(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		code int
		typ  ErrorType
	}{
		{"limit reached", NewLimitReachedError("lead limit reached"), http.StatusForbidden, ErrorTypeLimitReached},
		{"payment required", NewPaymentRequiredError("subscription expired"), http.StatusPaymentRequired, ErrorTypePaymentRequired},
		{"precondition", NewPreconditionFailedError("no subscription"), http.StatusPreconditionFailed, ErrorTypePrecondition},
		{"unavailable", NewServiceUnavailableError("try again"), http.StatusServiceUnavailable, ErrorTypeServiceUnavailable},
		{"not found", NewNotFoundError("plan not found"), http.StatusNotFound, ErrorTypeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.typ, tt.err.Type)
		})
	}
}

func TestGetAppError_Wrapped(t *testing.T) {
	base := NewConflictError("stale version", "subscription 7")
	wrapped := fmt.Errorf("update failed: %w", base)

	got := GetAppError(wrapped)
	assert.Same(t, base, got)
	assert.True(t, IsConflictError(wrapped))
	assert.False(t, IsNotFoundError(wrapped))
	assert.Equal(t, "conflict: stale version (subscription 7)", base.Error())
}

func TestIsDuplicateError(t *testing.T) {
	assert.True(t, IsDuplicateError(fmt.Errorf("UNIQUE constraint failed: companies.slug")))
	assert.True(t, IsDuplicateError(fmt.Errorf("ERROR: duplicate key value violates unique constraint")))
	assert.False(t, IsDuplicateError(fmt.Errorf("connection refused")))
	assert.False(t, IsDuplicateError(nil))
}
