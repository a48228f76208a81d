// Package errors provides error types and handling for kansible.
// It includes custom error types with error codes, HTTP status codes and
// captured subprocess output.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Output is the subprocess output captured before a failure.
type Output struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// AppError represents an application error with an associated HTTP status code.
type AppError struct {
	// Code is an optional error code string for programmatic handling
	Code string
	// Message is a user-friendly error message
	Message string
	// StatusCode is the HTTP status code to return
	StatusCode int
	// Cause is the underlying error (for error wrapping)
	Cause error
	// Output is the partial output captured from the child process, if any
	Output *Output
}

// Error implements the error interface.
// Errors carrying subprocess output already hold the best available
// diagnostic in Message, so the cause is not appended.
func (e *AppError) Error() string {
	if e.Cause != nil && e.Output == nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying error for error unwrapping.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is allows errors.Is to work with AppError.
func (e *AppError) Is(target error) bool {
	if t, ok := target.(*AppError); ok {
		return e.Code != "" && e.Code == t.Code
	}
	return false
}

// Predefined error codes.
const (
	// ErrCodeValidation marks missing or invalid parameters.
	ErrCodeValidation = "VALIDATION_ERROR"
	// ErrCodeExecution marks a non-zero exit or a spawn failure.
	ErrCodeExecution = "EXECUTION_ERROR"
	// ErrCodeCleanup marks a failure to remove a temporary resource.
	ErrCodeCleanup = "CLEANUP_ERROR"
	// ErrCodeInternalError marks unexpected failures.
	ErrCodeInternalError = "INTERNAL_ERROR"
)

// Sentinels usable with errors.Is.
var (
	ErrValidationKind = &AppError{Code: ErrCodeValidation}
	ErrExecutionKind  = &AppError{Code: ErrCodeExecution}
	ErrCleanupKind    = &AppError{Code: ErrCodeCleanup}
)

// NewClientError creates a new client error (4xx status codes).
func NewClientError(statusCode int, code, message string, cause error) *AppError {
	if statusCode < 400 || statusCode >= 500 {
		panic(fmt.Sprintf("NewClientError called with non-client status code: %d", statusCode))
	}
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
		Cause:      cause,
	}
}

// NewServerError creates a new server error (5xx status codes).
func NewServerError(statusCode int, code, message string, cause error) *AppError {
	if statusCode < 500 || statusCode >= 600 {
		panic(fmt.Sprintf("NewServerError called with non-server status code: %d", statusCode))
	}
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
		Cause:      cause,
	}
}

// ErrValidation creates a validation error (400). Validation errors are
// reported before anything is spawned and are never retried.
func ErrValidation(message string, cause error) *AppError {
	return NewClientError(http.StatusBadRequest, ErrCodeValidation, message, cause)
}

// ErrValidationf creates a validation error with a formatted message.
func ErrValidationf(format string, a ...any) *AppError {
	return ErrValidation(fmt.Sprintf(format, a...), nil)
}

// ErrExecution creates an execution error (502) carrying the captured output.
func ErrExecution(message string, output Output, cause error) *AppError {
	appErr := NewServerError(http.StatusBadGateway, ErrCodeExecution, message, cause)
	appErr.Output = &output
	return appErr
}

// ErrCleanup creates a cleanup error (500). Callers log it; it never replaces
// the primary result of an invocation.
func ErrCleanup(message string, cause error) *AppError {
	return NewServerError(http.StatusInternalServerError, ErrCodeCleanup, message, cause)
}

// ErrInternalError creates an internal server error (500).
func ErrInternalError(message string, cause error) *AppError {
	return NewServerError(http.StatusInternalServerError, ErrCodeInternalError, message, cause)
}

// GetStatusCode extracts the HTTP status code from an error.
// Returns 500 if the error is not an AppError.
func GetStatusCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}

// GetErrorCode extracts the error code from an error.
// Returns empty string if the error is not an AppError.
func GetErrorCode(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// GetErrorMessage extracts a user-friendly message from an error.
func GetErrorMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}

// GetErrorDetails extracts detailed error information including the underlying cause.
// Returns the underlying error message if available, otherwise returns the main error message.
func GetErrorDetails(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		if appErr.Cause != nil {
			return appErr.Cause.Error()
		}
		return appErr.Message
	}
	return err.Error()
}

// GetOutput extracts captured subprocess output from an error, if any.
func GetOutput(err error) (Output, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Output != nil {
		return *appErr.Output, true
	}
	return Output{}, false
}

// IsValidation reports whether err is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidationKind)
}

// IsExecution reports whether err is an execution error.
func IsExecution(err error) bool {
	return errors.Is(err, ErrExecutionKind)
}
