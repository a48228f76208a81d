// Package app runs ansible commands assembled from untrusted parameters.
//
// A Service normalizes the parameters, registers every path and secret with a
// per-invocation materializer, renders the command line (inside docker run
// when container mode is selected) and runs it through a Runner. Temporary
// files are removed when the invocation ends, whatever the outcome.
package app

import (
	"context"
	"log/slog"
	"os"
	"os/exec"

	"github.com/kaholo/kansible/internal/ansible"
	"github.com/kaholo/kansible/internal/config"
	"github.com/kaholo/kansible/internal/constants"
	"github.com/kaholo/kansible/internal/docker"
	"github.com/kaholo/kansible/internal/executor"
	"github.com/kaholo/kansible/internal/materializer"
)

// Options controls how commands are assembled and run.
type Options struct {
	UseDocker         bool
	DockerImage       string
	DockerBinary      string
	Shell             string
	TempDir           string
	BaseDir           string
	DisableHelperVars bool
	// BaseEnv is the inherited environment; the process environment is used when nil.
	BaseEnv []string
}

// OptionsFromConfig builds service options from the loaded configuration.
func OptionsFromConfig(cfg *config.Config) Options {
	if cfg == nil {
		return Options{}
	}
	return Options{
		UseDocker:         cfg.UseDocker,
		DockerImage:       cfg.DockerImage,
		DockerBinary:      cfg.DockerBinary,
		Shell:             cfg.Shell,
		TempDir:           cfg.TempDir,
		DisableHelperVars: cfg.DisableHelperVars,
	}
}

// Service provides the ansible invocation operations.
type Service struct {
	opts       Options
	runner     executor.Runner
	normalizer *ansible.Normalizer
	newID      func() string
	Logger     *slog.Logger
}

// NewService creates a new service instance.
// If runner is nil, commands run as local child processes.
func NewService(opts Options, runner executor.Runner, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if runner == nil {
		runner = executor.NewProcessRunner(logger)
	}
	if opts.DockerImage == "" {
		opts.DockerImage = constants.DefaultDockerImage
	}
	if opts.DockerBinary == "" {
		opts.DockerBinary = constants.DefaultDockerBinary
	}
	if opts.Shell == "" {
		opts.Shell = constants.DefaultShell
	}
	if opts.TempDir == "" {
		opts.TempDir = os.TempDir()
	}
	return &Service{
		opts:       opts,
		runner:     runner,
		normalizer: ansible.NewNormalizer(opts.BaseDir),
		newID:      materializer.RandomID,
		Logger:     logger,
	}
}

// Options returns the effective options.
func (s *Service) Options() Options {
	return s.opts
}

func (s *Service) newMaterializer(useDocker bool) *materializer.Materializer {
	mode := materializer.Local
	if useDocker {
		mode = materializer.Container
	}
	return materializer.New(mode,
		materializer.WithTempRoot(s.opts.TempDir),
		materializer.WithIDGenerator(s.newID),
	)
}

// cleanup removes the invocation's temporary files. Failures are logged and
// never replace the invocation result.
func (s *Service) cleanup(log *slog.Logger, m *materializer.Materializer) {
	if err := m.Cleanup(); err != nil {
		log.Error("failed to clean up temporary files", "error", err)
	}
}

func (s *Service) baseEnv() []string {
	if s.opts.BaseEnv != nil {
		return s.opts.BaseEnv
	}
	return os.Environ()
}

func (s *Service) killContainer(name string) func(context.Context) error {
	return func(ctx context.Context) error {
		return exec.CommandContext(ctx, s.opts.DockerBinary, docker.KillArgs(name)...).Run() //nolint:gosec // configured binary and generated name
	}
}
