// Package api defines the API types and structures used across kansible.
// It contains the request and response structures shared by the CLI, the
// job files and the HTTP host surface.
package api

// ErrorResponse represents an error response.
// Stdout, Stderr and ExitCode carry the output captured before an execution failed.
type ErrorResponse struct {
	Error    string `json:"error"`
	Code     string `json:"code,omitempty"`
	Details  string `json:"details,omitempty"`
	Stdout   string `json:"stdout,omitempty"`
	Stderr   string `json:"stderr,omitempty"`
	ExitCode *int   `json:"exit_code,omitempty"`
}

// HealthResponse represents the response to a health check request
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// RunResponse is the captured output of a successful invocation.
type RunResponse struct {
	Stdout string `json:"stdout"`
	Stderr string `json:"stderr"`
}
