package constants

import "time"

// ContentTypeHeader is the HTTP Content-Type header name.
const ContentTypeHeader = "Content-Type"

// JSONContentType is the content type of every API response.
const JSONContentType = "application/json"

// RequestIDHeader is the HTTP header carrying a caller supplied request ID.
const RequestIDHeader = "X-Request-ID"

// APIPrefix is the path prefix of the HTTP API.
const APIPrefix = "/api/v1"

// ServerReadTimeout is the HTTP server read timeout
const ServerReadTimeout = 15 * time.Second

// ServerIdleTimeout is the HTTP server idle timeout
const ServerIdleTimeout = 60 * time.Second

// ServerShutdownTimeout is the timeout for graceful server shutdown
const ServerShutdownTimeout = 5 * time.Second
