package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		expected string
	}{
		{
			name: "error with cause",
			err: &AppError{
				Code:       ErrCodeValidation,
				Message:    "validation failed",
				StatusCode: http.StatusBadRequest,
				Cause:      errors.New("field x is required"),
			},
			expected: "validation failed: field x is required",
		},
		{
			name: "error without cause",
			err: &AppError{
				Code:       ErrCodeValidation,
				Message:    "Path /nope does not exist!",
				StatusCode: http.StatusBadRequest,
			},
			expected: "Path /nope does not exist!",
		},
		{
			name: "execution error keeps the diagnostic verbatim",
			err: &AppError{
				Code:       ErrCodeExecution,
				Message:    "ERROR: the playbook could not be found",
				StatusCode: http.StatusBadGateway,
				Cause:      errors.New("exit status 1"),
				Output:     &Output{Stderr: "ERROR: the playbook could not be found", ExitCode: 1},
			},
			expected: "ERROR: the playbook could not be found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := ErrInternalError("something went wrong", cause)

	assert.Equal(t, cause, err.Unwrap())
	assert.True(t, errors.Is(err, cause))
}

func TestAppError_Is(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		target   error
		expected bool
	}{
		{
			name:     "same error code matches",
			err:      ErrValidationf("bad vars"),
			target:   ErrValidationKind,
			expected: true,
		},
		{
			name:     "different error code does not match",
			err:      ErrCleanup("remove failed", nil),
			target:   ErrValidationKind,
			expected: false,
		},
		{
			name:     "empty code never matches",
			err:      &AppError{Message: "no code"},
			target:   &AppError{},
			expected: false,
		},
		{
			name:     "non AppError target",
			err:      ErrValidationf("bad vars"),
			target:   errors.New("bad vars"),
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Is(tt.target))
		})
	}
}

func TestNewClientError_PanicsOnServerStatus(t *testing.T) {
	assert.Panics(t, func() {
		NewClientError(http.StatusInternalServerError, ErrCodeValidation, "x", nil)
	})
}

func TestNewServerError_PanicsOnClientStatus(t *testing.T) {
	assert.Panics(t, func() {
		NewServerError(http.StatusBadRequest, ErrCodeExecution, "x", nil)
	})
}

func TestErrExecution(t *testing.T) {
	cause := errors.New("exit status 2")
	err := ErrExecution("boom", Output{Stdout: "out", Stderr: "boom", ExitCode: 2}, cause)

	assert.Equal(t, http.StatusBadGateway, err.StatusCode)
	assert.Equal(t, ErrCodeExecution, err.Code)
	assert.True(t, IsExecution(err))
	assert.False(t, IsValidation(err))

	out, ok := GetOutput(fmt.Errorf("wrapped: %w", err))
	require.True(t, ok)
	assert.Equal(t, "out", out.Stdout)
	assert.Equal(t, "boom", out.Stderr)
	assert.Equal(t, 2, out.ExitCode)
}

func TestHelpers(t *testing.T) {
	plain := errors.New("plain")
	wrapped := fmt.Errorf("context: %w", ErrValidation("Unsupported format of Vars parameter", errors.New("got number")))

	t.Run("GetStatusCode", func(t *testing.T) {
		assert.Equal(t, http.StatusBadRequest, GetStatusCode(wrapped))
		assert.Equal(t, http.StatusInternalServerError, GetStatusCode(plain))
	})

	t.Run("GetErrorCode", func(t *testing.T) {
		assert.Equal(t, ErrCodeValidation, GetErrorCode(wrapped))
		assert.Empty(t, GetErrorCode(plain))
	})

	t.Run("GetErrorMessage", func(t *testing.T) {
		assert.Equal(t, "Unsupported format of Vars parameter", GetErrorMessage(wrapped))
		assert.Equal(t, "plain", GetErrorMessage(plain))
	})

	t.Run("GetErrorDetails", func(t *testing.T) {
		assert.Equal(t, "got number", GetErrorDetails(wrapped))
		assert.Equal(t, "no cause", GetErrorDetails(ErrValidationf("no cause")))
		assert.Equal(t, "plain", GetErrorDetails(plain))
	})

	t.Run("GetOutput without output", func(t *testing.T) {
		_, ok := GetOutput(wrapped)
		assert.False(t, ok)
	})
}
