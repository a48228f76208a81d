// Package docker renders "docker run" invocations whose paths and values
// travel through environment variables.
package docker

import (
	"fmt"
	"regexp"

	"github.com/kaholo/kansible/internal/constants"
	"github.com/kaholo/kansible/internal/materializer"
	"github.com/kaholo/kansible/internal/shell"
)

var containerName = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_.-]*$`)

// RunOptions describes one containerized command.
type RunOptions struct {
	// Binary is the docker client executable.
	Binary string
	// Image runs the command.
	Image string
	// ContainerName names the container so it can be killed on cancellation.
	ContainerName string
	// EnvNames are forwarded with "-e NAME"; values come from the process environment.
	EnvNames []string
	// Mappings are mounted with -v "$HOST":"$MOUNT".
	Mappings []materializer.VolumeMapping
	// WorkDirEnvVar, when set, holds the container working directory.
	WorkDirEnvVar string
	// Shell runs Command inside the container.
	Shell string
	// Command is the inner command line.
	Command shell.Line
}

// RunLine renders the docker invocation:
//
//	docker run --rm --name N -e VAR... -v "$H":"$M"... -w "$W" IMAGE sh -c 'CMD'
func RunLine(opts RunOptions) (shell.Line, error) {
	if opts.Image == "" {
		return nil, fmt.Errorf("docker image is required")
	}
	if len(opts.Command) == 0 {
		return nil, fmt.Errorf("container command is required")
	}
	if opts.ContainerName != "" && !containerName.MatchString(opts.ContainerName) {
		return nil, fmt.Errorf("invalid container name %q", opts.ContainerName)
	}

	binary := opts.Binary
	if binary == "" {
		binary = constants.DefaultDockerBinary
	}
	sh := opts.Shell
	if sh == "" {
		sh = constants.DefaultShell
	}

	line := shell.Words(binary, "run", "--rm")
	if opts.ContainerName != "" {
		line = line.Append("--name", opts.ContainerName)
	}
	for _, name := range opts.EnvNames {
		if !shell.ValidEnvName(name) {
			return nil, fmt.Errorf("invalid environment variable name %q", name)
		}
		line = line.Append("-e", name)
	}
	for _, m := range opts.Mappings {
		line = line.Append("-v")
		line = append(line, shell.Concat(
			shell.EnvRef(m.HostPathEnvVar),
			shell.Literal(":"),
			shell.EnvRef(m.MountPointEnvVar),
		))
	}
	if opts.WorkDirEnvVar != "" {
		line = line.Append("-w")
		line = append(line, shell.EnvRef(opts.WorkDirEnvVar))
	}
	line = line.Append(opts.Image)
	line = append(line, shell.Wrap(sh, opts.Command)...)

	if err := line.Validate(); err != nil {
		return nil, err
	}
	return line, nil
}

// ContainerName returns the name used for the container of one invocation.
func ContainerName(id string) string {
	return constants.ContainerNamePrefix + id
}

// KillArgs returns the arguments that stop a running container.
func KillArgs(name string) []string {
	return []string{"kill", name}
}
