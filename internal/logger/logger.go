package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/kaholo/kansible/internal/constants"

	"github.com/lmittmann/tint"
)

// Initialize sets up the global slog logger based on the environment
func Initialize(env constants.Environment, level slog.Level) *slog.Logger {
	return InitializeWriter(os.Stderr, env, level)
}

// InitializeWriter is Initialize with an explicit destination.
func InitializeWriter(w io.Writer, env constants.Environment, level slog.Level) *slog.Logger {
	var handler slog.Handler

	if env == constants.Production {
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	} else {
		handler = tint.NewHandler(w, &tint.Options{
			Level:       level,
			TimeFormat:  time.TimeOnly,
			NoColor:     os.Getenv("NO_COLOR") != "",
			ReplaceAttr: replaceAttrForDev,
		})
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	slog.Debug("logger initialized", "env", env, "level", level)

	return logger
}

// replaceAttrForDev flattens map attributes into sorted key=value pairs so
// they stay readable on a single terminal line.
func replaceAttrForDev(_ []string, a slog.Attr) slog.Attr {
	if a.Value.Kind() != slog.KindAny {
		return a
	}
	switch a.Value.Any().(type) {
	case map[string]string, map[string]any:
		return slog.String(a.Key, flattenMapAttr(a.Key, a.Value.Any()))
	}
	return a
}

func flattenMapAttr(prefix string, value any) string {
	pairs := make([]string, 0)
	collect := func(key string, v any) {
		full := key
		if prefix != "" {
			full = prefix + "." + key
		}
		switch nested := v.(type) {
		case map[string]string, map[string]any:
			pairs = append(pairs, flattenMapAttr(full, nested))
		default:
			pairs = append(pairs, fmt.Sprintf("%s=%v", full, v))
		}
	}

	switch m := value.(type) {
	case map[string]string:
		for k, v := range m {
			collect(k, v)
		}
	case map[string]any:
		for k, v := range m {
			collect(k, v)
		}
	default:
		return fmt.Sprintf("%v", value)
	}

	sort.Strings(pairs)
	return strings.Join(pairs, " ")
}
