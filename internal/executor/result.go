package executor

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"

	apperrors "github.com/kaholo/kansible/internal/errors"
)

// Interpret classifies a finished run.
//
// A non-zero exit or a start failure is an execution error whose message is
// the captured stderr, else stdout, else the underlying error, else a generic
// message. A zero exit with only stderr output is also a failure. Otherwise
// the result is returned as is, including any stderr next to stdout.
func Interpret(ctx context.Context, res *Result, runErr error) (*Result, error) {
	if res == nil {
		res = &Result{ExitCode: -1}
	}
	output := apperrors.Output{Stdout: res.Stdout, Stderr: res.Stderr, ExitCode: res.ExitCode}
	stdout := strings.TrimSpace(res.Stdout)
	stderr := strings.TrimSpace(res.Stderr)

	if runErr != nil || res.ExitCode != 0 {
		cause := runErr
		if ctx != nil && ctx.Err() != nil {
			cause = ctx.Err()
		}

		var message string
		switch {
		case stderr != "":
			message = stderr
		case stdout != "":
			message = stdout
		case cause != nil:
			message = fmt.Sprintf("command failed: %v", cause)
		default:
			message = fmt.Sprintf("command failed with exit code %d", res.ExitCode)
		}
		return nil, apperrors.ErrExecution(message, output, cause)
	}

	if stdout == "" && stderr != "" {
		return nil, apperrors.ErrExecution(stderr, output, nil)
	}
	return res, nil
}

// MergeEnv returns base with extra applied on top, in KEY=VALUE form.
// Variables from extra replace any inherited value of the same name.
func MergeEnv(base []string, extra map[string]string) []string {
	out := make([]string, 0, len(base)+len(extra))
	for _, kv := range base {
		name, _, _ := strings.Cut(kv, "=")
		if _, overridden := extra[name]; overridden {
			continue
		}
		out = append(out, kv)
	}
	for _, name := range slices.Sorted(maps.Keys(extra)) {
		out = append(out, name+"="+extra[name])
	}
	return out
}
