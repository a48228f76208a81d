package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/kaholo/kansible/internal/constants"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func restoreDefault(t *testing.T) {
	t.Helper()
	previous := slog.Default()
	t.Cleanup(func() { slog.SetDefault(previous) })
}

func TestInitializeWriter_ProductionWritesJSON(t *testing.T) {
	restoreDefault(t)
	var buf bytes.Buffer

	log := InitializeWriter(&buf, constants.Production, slog.LevelInfo)
	log.Info("playbook finished", "exit_code", 0)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1, "the debug init line is below the level")

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "playbook finished", entry["msg"])
	assert.Equal(t, "INFO", entry["level"])
	assert.EqualValues(t, 0, entry["exit_code"])
	assert.Same(t, log, slog.Default())
}

func TestInitializeWriter_CLIUsesTextHandler(t *testing.T) {
	restoreDefault(t)
	t.Setenv("NO_COLOR", "1")
	var buf bytes.Buffer

	log := InitializeWriter(&buf, constants.CLI, slog.LevelDebug)
	log.Debug("assembled command", "workdir", "/srv/playbooks")

	out := buf.String()
	assert.Contains(t, out, "logger initialized")
	assert.Contains(t, out, "assembled command")
	assert.Contains(t, out, "workdir=/srv/playbooks")
	assert.NotContains(t, out, "\x1b[", "NO_COLOR disables escape sequences")
}

func TestInitializeWriter_RespectsLevel(t *testing.T) {
	restoreDefault(t)
	t.Setenv("NO_COLOR", "1")
	var buf bytes.Buffer

	log := InitializeWriter(&buf, constants.Development, slog.LevelWarn)
	log.Info("hidden")
	log.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestReplaceAttrForDev(t *testing.T) {
	tests := []struct {
		name string
		attr slog.Attr
		want string
	}{
		{
			name: "string map is flattened and sorted",
			attr: slog.Any("env", map[string]string{"B": "2", "A": "1"}),
			want: "env.A=1 env.B=2",
		},
		{
			name: "nested maps keep the full key path",
			attr: slog.Any("request", map[string]any{
				"path":   "/api/v1/health",
				"header": map[string]string{"X-Request-ID": "abc"},
			}),
			want: "request.header.X-Request-ID=abc request.path=/api/v1/health",
		},
		{
			name: "empty map",
			attr: slog.Any("env", map[string]string{}),
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := replaceAttrForDev(nil, tt.attr)
			assert.Equal(t, tt.attr.Key, got.Key)
			assert.Equal(t, slog.KindString, got.Value.Kind())
			assert.Equal(t, tt.want, got.Value.String())
		})
	}
}

func TestReplaceAttrForDev_LeavesOtherValues(t *testing.T) {
	for _, attr := range []slog.Attr{
		slog.String("stream", "stdout"),
		slog.Int("exit_code", 4),
		slog.Any("names", []string{"A", "B"}),
	} {
		got := replaceAttrForDev(nil, attr)
		assert.Equal(t, attr, got, "attr %s", attr.Key)
	}
}

func TestRequestIDRoundTrip(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetRequestID(ctx))

	ctx = WithRequestID(ctx, "req-42")
	assert.Equal(t, "req-42", GetRequestID(ctx))
}

func TestDeriveRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&buf, nil))

	t.Run("adds the request id", func(t *testing.T) {
		buf.Reset()
		DeriveRequestLogger(WithRequestID(context.Background(), "req-7"), base).Info("run")

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "req-7", entry[constants.RequestIDLogField])
	})

	t.Run("returns base without a request id", func(t *testing.T) {
		assert.Same(t, base, DeriveRequestLogger(context.Background(), base))
	})

	t.Run("falls back to the default logger", func(t *testing.T) {
		assert.Same(t, slog.Default(), DeriveRequestLogger(context.Background(), nil))
	})
}

func TestGetDeadlineInfo(t *testing.T) {
	assert.Equal(t,
		[]any{"deadline", "none", "deadline_remaining", "none"},
		GetDeadlineInfo(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), time.Hour)
	defer cancel()

	info := GetDeadlineInfo(ctx)
	require.Len(t, info, 4)
	assert.Equal(t, "deadline", info[0])
	_, err := time.Parse(time.RFC3339, info[1].(string))
	require.NoError(t, err)
	remaining, err := time.ParseDuration(info[3].(string))
	require.NoError(t, err)
	assert.Greater(t, remaining, 59*time.Minute)
}
