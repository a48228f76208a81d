package app

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/kaholo/kansible/internal/executor"
)

type fakeRunner struct {
	mu      sync.Mutex
	calls   []executor.Command
	result  *executor.Result
	err     error
	inspect func(executor.Command)
}

func (f *fakeRunner) Run(_ context.Context, cmd executor.Command) (*executor.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, cmd)
	if f.inspect != nil {
		f.inspect(cmd)
	}
	if f.result == nil {
		return &executor.Result{}, f.err
	}
	res := *f.result
	return &res, f.err
}

func (f *fakeRunner) lastCall() executor.Command {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[len(f.calls)-1]
}

func envValue(env []string, name string) (string, bool) {
	for _, kv := range env {
		if k, v, ok := strings.Cut(kv, "="); ok && k == name {
			return v, true
		}
	}
	return "", false
}

func sequentialIDs() func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("id%d", n)
	}
}
