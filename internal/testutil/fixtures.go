// Package testutil provides shared testing utilities and helpers.
package testutil

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/kaholo/kansible/internal/api"
	"github.com/kaholo/kansible/internal/constants"

	"github.com/stretchr/testify/require"
)

// PlaybookRequestBuilder provides a fluent interface for building raw playbook requests.
type PlaybookRequestBuilder struct {
	req *api.RunPlaybookRequest
}

// NewPlaybookRequestBuilder creates a builder for the given playbook path.
func NewPlaybookRequestBuilder(playbookPath string) *PlaybookRequestBuilder {
	return &PlaybookRequestBuilder{req: &api.RunPlaybookRequest{PlaybookPath: playbookPath}}
}

// WithInventories sets the inventories.
func (b *PlaybookRequestBuilder) WithInventories(inventories ...string) *PlaybookRequestBuilder {
	b.req.Inventories = inventories
	return b
}

// WithLimit sets the limit entries.
func (b *PlaybookRequestBuilder) WithLimit(limit ...string) *PlaybookRequestBuilder {
	b.req.Limit = limit
	return b
}

// WithVars sets vars given as key=value pairs.
func (b *PlaybookRequestBuilder) WithVars(pairs ...string) *PlaybookRequestBuilder {
	b.req.Vars = api.PairVars(pairs...)
	return b
}

// WithSSH sets the SSH username and password.
func (b *PlaybookRequestBuilder) WithSSH(username, password string) *PlaybookRequestBuilder {
	b.req.SSHUsername = username
	b.req.SSHPassword = password
	return b
}

// WithPrivateKey sets the SSH private key content.
func (b *PlaybookRequestBuilder) WithPrivateKey(key string) *PlaybookRequestBuilder {
	b.req.SSHPrivateKey = key
	return b
}

// WithVaultPassword sets the vault password content.
func (b *PlaybookRequestBuilder) WithVaultPassword(password string) *PlaybookRequestBuilder {
	b.req.VaultPassword = password
	return b
}

// WithDocker selects container or local execution.
func (b *PlaybookRequestBuilder) WithDocker(enabled bool) *PlaybookRequestBuilder {
	b.req.Docker = &enabled
	return b
}

// WithArguments sets passthrough arguments.
func (b *PlaybookRequestBuilder) WithArguments(args ...string) *PlaybookRequestBuilder {
	b.req.AdditionalArguments = args
	return b
}

// Build returns the constructed request.
func (b *PlaybookRequestBuilder) Build() *api.RunPlaybookRequest {
	return b.req
}

// WritePlaybook creates a playbook file under a fresh temporary directory and
// returns its absolute path.
func WritePlaybook(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("- hosts: all\n  tasks: []\n"), 0o600))
	return path
}

// TestContext creates a test context with a reasonable timeout.
// Note: The cancel function is intentionally not returned since test contexts
// are expected to be short-lived and will be cleaned up when the test completes.
func TestContext() context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), constants.TestContextTimeout)
	_ = cancel // Silence unused warning - context will timeout automatically
	return ctx
}

// TestLogger creates a logger suitable for testing (outputs to stderr).
func TestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError, // Only show errors in tests
	}))
}

// SilentLogger creates a logger that discards all output.
func SilentLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.LevelError + 1, // Suppress all logs
	}))
}
