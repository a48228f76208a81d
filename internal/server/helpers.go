package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/kaholo/kansible/internal/api"
	apperrors "github.com/kaholo/kansible/internal/errors"
)

// errorResponse converts err into the wire error, including any output the
// child process produced before it failed.
func errorResponse(err error) *api.ErrorResponse {
	resp := &api.ErrorResponse{
		Error: apperrors.GetErrorMessage(err),
		Code:  apperrors.GetErrorCode(err),
	}
	if details := apperrors.GetErrorDetails(err); details != resp.Error {
		resp.Details = details
	}
	if out, ok := apperrors.GetOutput(err); ok {
		exitCode := out.ExitCode
		resp.Stdout = out.Stdout
		resp.Stderr = out.Stderr
		resp.ExitCode = &exitCode
	}
	return resp
}

// writeJSON writes v with the given status code.
func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes the error response for err with the status its kind maps to.
func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, apperrors.GetStatusCode(err), errorResponse(err))
}

// decodeRequestBody decodes JSON request body into the provided value.
// If decoding fails, writes an error response and returns the error.
func decodeRequestBody(w http.ResponseWriter, req *http.Request, v any) error {
	if err := json.NewDecoder(req.Body).Decode(v); err != nil {
		appErr := apperrors.ErrValidation("invalid request body", err)
		writeError(w, appErr)
		return fmt.Errorf("failed to decode request body: %w", err)
	}
	return nil
}

// handleAndLogError logs an error and writes a standardized error response.
func (r *Router) handleAndLogError(w http.ResponseWriter, req *http.Request, err error, operationName string) {
	r.GetLoggerFromContext(req.Context()).Error(
		"operation failed",
		"operation", operationName,
		"status_code", apperrors.GetStatusCode(err),
		"error_code", apperrors.GetErrorCode(err),
	)
	writeError(w, err)
}
