package constants

import "time"

// DefaultCommandTimeout is the default timeout for one invocation.
const DefaultCommandTimeout = 30 * time.Minute

// DefaultRequestTimeout bounds a single HTTP request to the server.
const DefaultRequestTimeout = 30 * time.Minute

// ProcessWaitDelay is how long to wait for pipes to close after the child is killed.
const ProcessWaitDelay = 5 * time.Second

// ContainerKillTimeout bounds the docker kill issued on cancellation.
const ContainerKillTimeout = 15 * time.Second

// ServerReadHeaderTimeout bounds reading request headers.
const ServerReadHeaderTimeout = 10 * time.Second

// TestContextTimeout is the timeout for test contexts.
const TestContextTimeout = 5 * time.Second
