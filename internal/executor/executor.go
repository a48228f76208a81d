// Package executor runs one child process per invocation and classifies its
// outcome.
package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"sync"
	"time"

	"github.com/kaholo/kansible/internal/constants"

	"golang.org/x/sync/errgroup"
)

// Stream identifies which output stream a chunk came from.
type Stream string

const (
	// Stdout is the standard output stream.
	Stdout Stream = "stdout"
	// Stderr is the standard error stream.
	Stderr Stream = "stderr"
)

// spawnFailureExitCode is reported when the process could not be started.
const spawnFailureExitCode = 127

// Chunk is a piece of output delivered to a progress callback.
type Chunk struct {
	Stream Stream
	Data   []byte
}

// ProgressFunc receives output as it is produced. Calls are serialized.
type ProgressFunc func(Chunk)

// Command describes the child process to run.
type Command struct {
	Path string
	Args []string
	Dir  string
	// Env is the complete child environment in KEY=VALUE form.
	Env      []string
	Progress ProgressFunc
	// OnCancel runs when ctx is done before the process exits, for example to
	// stop a container the process started.
	OnCancel func(context.Context) error
}

// Result is the captured outcome of a process.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Runner runs commands.
type Runner interface {
	Run(ctx context.Context, cmd Command) (*Result, error)
}

// ProcessRunner runs commands as local child processes.
type ProcessRunner struct {
	logger    *slog.Logger
	waitDelay time.Duration
}

// NewProcessRunner creates a ProcessRunner.
func NewProcessRunner(logger *slog.Logger) *ProcessRunner {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProcessRunner{logger: logger, waitDelay: constants.ProcessWaitDelay}
}

// Run starts the process, drains both output streams concurrently and waits
// for it to exit. Cancelling ctx kills the whole process group and runs
// OnCancel. The returned error is the raw start or wait error; the Result is
// always populated.
func (r *ProcessRunner) Run(ctx context.Context, c Command) (*Result, error) {
	cmd := exec.CommandContext(ctx, c.Path, c.Args...)
	cmd.Dir = c.Dir
	cmd.Env = c.Env
	cmd.WaitDelay = r.waitDelay
	configureProcessGroup(cmd)

	var mu sync.Mutex
	stdout := &captureWriter{stream: Stdout, progress: c.Progress, mu: &mu}
	stderr := &captureWriter{stream: Stderr, progress: c.Progress, mu: &mu}
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Start(); err != nil {
		return &Result{ExitCode: spawnFailureExitCode}, fmt.Errorf("failed to start %s: %w", c.Path, err)
	}
	r.logger.Debug("process started", "pid", cmd.Process.Pid, "path", c.Path)

	exited := make(chan struct{})
	var g errgroup.Group
	g.Go(func() error {
		defer close(exited)
		return cmd.Wait()
	})
	g.Go(func() error {
		select {
		case <-exited:
			if ctx.Err() == nil {
				return nil
			}
		case <-ctx.Done():
		}
		r.cancel(ctx, c)
		return nil
	})
	waitErr := g.Wait()

	res := &Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: -1,
	}
	if cmd.ProcessState != nil {
		res.ExitCode = cmd.ProcessState.ExitCode()
	}

	var exitErr *exec.ExitError
	if waitErr != nil && !errors.As(waitErr, &exitErr) && !errors.Is(waitErr, exec.ErrWaitDelay) {
		r.logger.Debug("process wait failed", "error", waitErr)
	}
	return res, waitErr
}

func (r *ProcessRunner) cancel(ctx context.Context, c Command) {
	r.logger.Warn("invocation cancelled, stopping process", "reason", ctx.Err())
	if c.OnCancel == nil {
		return
	}
	cleanupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), constants.ContainerKillTimeout)
	defer cancel()
	if err := c.OnCancel(cleanupCtx); err != nil {
		r.logger.Warn("cancellation hook failed", "error", err)
	}
}

type captureWriter struct {
	stream   Stream
	progress ProgressFunc
	mu       *sync.Mutex
	buf      bytes.Buffer
}

func (w *captureWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.buf.Write(p)
	if w.progress != nil {
		w.progress(Chunk{Stream: w.stream, Data: bytes.Clone(p)})
	}
	return len(p), nil
}

func (w *captureWriter) String() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.String()
}
