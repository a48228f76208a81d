package app

import (
	"maps"
	"slices"

	"github.com/kaholo/kansible/internal/constants"
	"github.com/kaholo/kansible/internal/docker"
	"github.com/kaholo/kansible/internal/materializer"
	"github.com/kaholo/kansible/internal/secrets"
	"github.com/kaholo/kansible/internal/shell"
)

// AssembledCommand is the fully rendered invocation. It holds secret values
// in Environment and must not be displayed without masking.
type AssembledCommand struct {
	// Argv is the process argument list: shell, "-c", ShellWrapped.
	Argv []string
	// Command is the inner ansible command text.
	Command string
	// ShellWrapped is the text run by the host shell.
	ShellWrapped string
	// Environment holds every generated and injected variable.
	Environment map[string]string
	// Sensitive names the variables whose values must be masked.
	Sensitive []string
	// WorkDir is the host working directory of the process.
	WorkDir       string
	ContainerName string
	Mappings      []materializer.VolumeMapping
}

// MaskedEnvironment returns the environment with sensitive values masked.
func (a *AssembledCommand) MaskedEnvironment() map[string]string {
	return secrets.MaskValues(a.Environment, a.Sensitive)
}

// EnvNames returns the generated variable names in sorted order.
func (a *AssembledCommand) EnvNames() []string {
	return slices.Sorted(maps.Keys(a.Environment))
}

type plan struct {
	inner      shell.Line
	workDir    string
	mountedDir *materializer.VolumeMapping
	useDocker  bool
	image      string
	helperVars bool
}

// assemble renders p into the final command. In container mode the working
// directory must already be mounted so it can be passed to -w.
func (s *Service) assemble(m *materializer.Materializer, p plan) (*AssembledCommand, error) {
	if p.helperVars {
		injected := constants.InjectedAnsibleEnvironment()
		for _, name := range slices.Sorted(maps.Keys(injected)) {
			if err := m.SetFixed(name, injected[name]); err != nil {
				return nil, err
			}
		}
	}

	out := &AssembledCommand{Command: p.inner.String()}

	line := p.inner
	if p.useDocker {
		out.ContainerName = docker.ContainerName(s.newID())
		opts := docker.RunOptions{
			Binary:        s.opts.DockerBinary,
			Image:         p.image,
			ContainerName: out.ContainerName,
			EnvNames:      m.ForwardNames(),
			Mappings:      m.Mappings(),
			Shell:         constants.ContainerShell,
			Command:       p.inner,
		}
		if p.mountedDir != nil {
			opts.WorkDirEnvVar = p.mountedDir.MountPointEnvVar
		}
		var err error
		if line, err = docker.RunLine(opts); err != nil {
			return nil, err
		}
	} else {
		out.WorkDir = p.workDir
	}

	if err := line.Validate(); err != nil {
		return nil, err
	}
	out.ShellWrapped = line.String()
	out.Argv = []string{s.opts.Shell, "-c", out.ShellWrapped}
	out.Environment = m.Environment()
	out.Sensitive = m.SensitiveNames()
	out.Mappings = m.Mappings()
	return out, nil
}
