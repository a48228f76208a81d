package cmd

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	apperrors "github.com/kaholo/kansible/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeout(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{in: "10m", want: 10 * time.Minute},
		{in: "30s", want: 30 * time.Second},
		{in: "1h", want: time.Hour},
		{in: "600", want: 600 * time.Second},
		{in: "0", want: 0},
		{in: "soon", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseTimeout(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "invalid timeout format")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestErrorLine(t *testing.T) {
	failed := fmt.Errorf("playbook failed: %w",
		apperrors.ErrExecution("host down", apperrors.Output{ExitCode: 2}, nil))

	assert.True(t, strings.HasPrefix(errorLine(failed), failed.Error()))
	assert.Contains(t, errorLine(failed), "failed (2)")
	assert.Equal(t, "boom", errorLine(errors.New("boom")))
	assert.Equal(t, "no process",
		errorLine(apperrors.ErrExecution("no process", apperrors.Output{ExitCode: -1}, nil)))
}

func TestResolveTimeout(t *testing.T) {
	got, err := resolveTimeout("", 5*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 5*time.Minute, got)

	got, err = resolveTimeout("30s", 5*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, got)
}

func TestExitCode(t *testing.T) {
	execErr := apperrors.ErrExecution("unreachable", apperrors.Output{ExitCode: 4}, nil)
	spawnErr := apperrors.ErrExecution("command failed", apperrors.Output{ExitCode: -1}, nil)

	assert.Equal(t, 4, exitCode(execErr))
	assert.Equal(t, 4, exitCode(fmt.Errorf("playbook failed: %w", execErr)))
	assert.Equal(t, 1, exitCode(spawnErr))
	assert.Equal(t, 1, exitCode(apperrors.ErrValidationf("bad")))
	assert.Equal(t, 1, exitCode(errors.New("boom")))
}

func TestRootCommandTree(t *testing.T) {
	root := RootCmd()
	for _, path := range [][]string{
		{"playbook", "run"},
		{"command"},
		{"job", "list"},
		{"job", "show"},
		{"job", "run"},
		{"configure"},
		{"serve"},
		{"version"},
	} {
		found, _, err := root.Find(path)
		require.NoError(t, err, "command %v", path)
		assert.Equal(t, path[len(path)-1], found.Name())
	}
}
