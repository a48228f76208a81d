package cmd

import (
	"context"
	"maps"
	"slices"
	"strconv"

	"github.com/kaholo/kansible/internal/api"
	"github.com/kaholo/kansible/internal/app"
	"github.com/kaholo/kansible/internal/executor"
)

// AnsibleService is the part of app.Service the commands use.
type AnsibleService interface {
	RunPlaybook(ctx context.Context, req *api.RunPlaybookRequest, progress executor.ProgressFunc) (*api.RunResponse, error)
	RunCommand(ctx context.Context, req *api.RunCommandRequest, progress executor.ProgressFunc) (*api.RunResponse, error)
	DryRun(ctx context.Context, req *api.RunPlaybookRequest) (*app.AssembledCommand, error)
}

// streamTo returns a progress callback printing child output as it arrives.
func streamTo(out OutputInterface) executor.ProgressFunc {
	return func(chunk executor.Chunk) {
		out.Stream(chunk.Stream == executor.Stderr, chunk.Data)
	}
}

// showAssembled prints a rendered command with secret values masked.
func showAssembled(out OutputInterface, assembled *app.AssembledCommand) {
	out.Blank()
	out.KeyValue("Working directory", assembled.WorkDir)
	if assembled.ContainerName != "" {
		out.KeyValue("Container", out.Cyan(assembled.ContainerName))
	}
	out.KeyValue("Command", out.Bold(assembled.Command))
	out.Box(assembled.ShellWrapped)

	if len(assembled.Mappings) > 0 {
		volumes := make([]string, 0, len(assembled.Mappings))
		for _, m := range assembled.Mappings {
			volumes = append(volumes, m.HostPath+" -> "+m.MountPoint)
		}
		out.Blank()
		out.KeyValue("Volumes", strconv.Itoa(len(volumes)))
		out.List(volumes)
	}

	env := assembled.MaskedEnvironment()
	rows := make([][]string, 0, len(env))
	for _, name := range slices.Sorted(maps.Keys(env)) {
		rows = append(rows, []string{name, env[name]})
	}
	if len(rows) > 0 {
		out.Blank()
		out.Table([]string{"Variable", "Value"}, rows)
	}
	out.Blank()
}
