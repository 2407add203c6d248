package error

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorCode(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		expected int
	}{
		{"invalid amount", ErrInvalidAmount, CodeInvalidAmount},
		{"invalid currency", ErrInvalidCurrency, CodeInvalidCurrency},
		{"invalid address", ErrInvalidAddress, CodeInvalidAddress},
		{"invalid player name", ErrInvalidPlayerName, CodeInvalidAddress},
		{"invalid status", ErrInvalidStatus, CodeInvalidStatus},
		{"invalid transition", ErrInvalidTransition, CodeInvalidTransition},
		{"duplicate request", ErrDuplicateRequest, CodeDuplicateRequest},
		{"not found", ErrRequestNotFound, CodeRequestNotFound},
		{"wallet config", ErrWalletConfig, CodeWalletConfig},
		{"store inconsistent", ErrStoreInconsistent, CodeStoreInconsistent},
		{"wrapped error keeps its code", fmt.Errorf("context: %w", ErrInvalidAmount), CodeInvalidAmount},
		{"unknown error", errors.New("boom"), CodeInternalServer},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ErrorCode(tc.err))
		})
	}
}

func TestTransitionError(t *testing.T) {
	err := NewTransitionError("req-42", "approved", "approve")

	assert.True(t, errors.Is(err, ErrInvalidTransition))
	assert.True(t, IsInvalidTransitionError(err))
	assert.Contains(t, err.Error(), "req-42")
	assert.Contains(t, err.Error(), "approved")

	var transitionErr *TransitionError
	assert.True(t, errors.As(err, &transitionErr))
	assert.Equal(t, "approve", transitionErr.Action)

	fields := transitionErr.LogFields()
	assert.Equal(t, "invalid_transition", fields["error_type"])
	assert.Equal(t, CodeInvalidTransition, fields["error_code"])
}

func TestConsistencyError(t *testing.T) {
	cause := errors.New("row vanished")
	err := NewConsistencyError("req-7", "processing", cause)

	assert.True(t, errors.Is(err, ErrStoreInconsistent))
	assert.True(t, IsConsistencyError(err))
	assert.True(t, errors.Is(err, cause))
	assert.Contains(t, err.Error(), "processing")
}

func TestValidationErrorHelpers(t *testing.T) {
	assert.True(t, IsValidationError(ErrInvalidAmount))
	assert.True(t, IsValidationError(fmt.Errorf("create: %w", ErrInvalidCurrency)))
	assert.False(t, IsValidationError(ErrRequestNotFound))

	assert.True(t, IsNotFoundError(ErrRequestNotFound))
	assert.False(t, IsNotFoundError(ErrInvalidTransition))

	assert.True(t, IsStaleStateError(ErrStaleState))
	assert.False(t, IsStaleStateError(ErrInvalidTransition))
}
