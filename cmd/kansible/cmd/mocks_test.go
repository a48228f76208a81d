package cmd

import (
	"context"
	"fmt"

	"github.com/kaholo/kansible/internal/api"
	"github.com/kaholo/kansible/internal/app"
	"github.com/kaholo/kansible/internal/executor"
)

// mockOutputInterface is a manual mock for testing
type mockOutputInterface struct {
	calls []call
}

type call struct {
	method string
	args   []any
}

func (m *mockOutputInterface) Infof(format string, a ...any) {
	m.calls = append(m.calls, call{method: "Infof", args: []any{fmt.Sprintf(format, a...)}})
}
func (m *mockOutputInterface) Errorf(format string, a ...any) {
	m.calls = append(m.calls, call{method: "Errorf", args: []any{fmt.Sprintf(format, a...)}})
}
func (m *mockOutputInterface) Successf(format string, a ...any) {
	m.calls = append(m.calls, call{method: "Successf", args: []any{fmt.Sprintf(format, a...)}})
}
func (m *mockOutputInterface) Warningf(format string, a ...any) {
	m.calls = append(m.calls, call{method: "Warningf", args: []any{fmt.Sprintf(format, a...)}})
}
func (m *mockOutputInterface) Table(headers []string, rows [][]string) {
	m.calls = append(m.calls, call{method: "Table", args: []any{headers, rows}})
}
func (m *mockOutputInterface) Blank() {
	m.calls = append(m.calls, call{method: "Blank", args: []any{}})
}
func (m *mockOutputInterface) Bold(text string) string {
	return text
}
func (m *mockOutputInterface) Cyan(text string) string {
	return text
}
func (m *mockOutputInterface) KeyValue(key, value string) {
	m.calls = append(m.calls, call{method: "KeyValue", args: []any{key, value}})
}
func (m *mockOutputInterface) Box(text string) {
	m.calls = append(m.calls, call{method: "Box", args: []any{text}})
}
func (m *mockOutputInterface) List(items []string) {
	m.calls = append(m.calls, call{method: "List", args: []any{items}})
}
func (m *mockOutputInterface) Stream(stderr bool, data []byte) {
	m.calls = append(m.calls, call{method: "Stream", args: []any{stderr, string(data)}})
}

// byMethod returns the recorded calls of one method.
func (m *mockOutputInterface) byMethod(method string) []call {
	var out []call
	for _, c := range m.calls {
		if c.method == method {
			out = append(out, c)
		}
	}
	return out
}

// keyValues returns the recorded KeyValue calls as a map.
func (m *mockOutputInterface) keyValues() map[string]string {
	kv := make(map[string]string)
	for _, c := range m.byMethod("KeyValue") {
		kv[c.args[0].(string)] = c.args[1].(string)
	}
	return kv
}

type fakeAnsibleService struct {
	runPlaybookFunc func(ctx context.Context, req *api.RunPlaybookRequest, progress executor.ProgressFunc) (*api.RunResponse, error)
	runCommandFunc  func(ctx context.Context, req *api.RunCommandRequest, progress executor.ProgressFunc) (*api.RunResponse, error)
	dryRunFunc      func(ctx context.Context, req *api.RunPlaybookRequest) (*app.AssembledCommand, error)
}

func (f *fakeAnsibleService) RunPlaybook(
	ctx context.Context,
	req *api.RunPlaybookRequest,
	progress executor.ProgressFunc,
) (*api.RunResponse, error) {
	if f.runPlaybookFunc != nil {
		return f.runPlaybookFunc(ctx, req, progress)
	}
	return &api.RunResponse{}, nil
}

func (f *fakeAnsibleService) RunCommand(
	ctx context.Context,
	req *api.RunCommandRequest,
	progress executor.ProgressFunc,
) (*api.RunResponse, error) {
	if f.runCommandFunc != nil {
		return f.runCommandFunc(ctx, req, progress)
	}
	return &api.RunResponse{}, nil
}

func (f *fakeAnsibleService) DryRun(ctx context.Context, req *api.RunPlaybookRequest) (*app.AssembledCommand, error) {
	if f.dryRunFunc != nil {
		return f.dryRunFunc(ctx, req)
	}
	return &app.AssembledCommand{}, nil
}
