package app

import (
	"context"
	"log/slog"
	"strings"

	"github.com/kaholo/kansible/internal/ansible"
	"github.com/kaholo/kansible/internal/api"
	"github.com/kaholo/kansible/internal/constants"
	apperrors "github.com/kaholo/kansible/internal/errors"
	"github.com/kaholo/kansible/internal/executor"
	"github.com/kaholo/kansible/internal/logger"
	"github.com/kaholo/kansible/internal/materializer"
	"github.com/kaholo/kansible/internal/secrets"
	"github.com/kaholo/kansible/internal/shell"
)

// RunPlaybook runs ansible-playbook with the given parameters.
func (s *Service) RunPlaybook(
	ctx context.Context,
	req *api.RunPlaybookRequest,
	progress executor.ProgressFunc,
) (*api.RunResponse, error) {
	return s.Execute(ctx, constants.AnsiblePlaybookCommand, req, nil, progress)
}

// Execute runs command, an ansible executable such as ansible-playbook, with
// the given parameters. additionalArgs are appended after the request's own
// passthrough arguments. Nothing is spawned when validation fails.
func (s *Service) Execute(
	ctx context.Context,
	command string,
	req *api.RunPlaybookRequest,
	additionalArgs []string,
	progress executor.ProgressFunc,
) (*api.RunResponse, error) {
	reqLogger := logger.DeriveRequestLogger(ctx, s.Logger)

	normalized, err := s.normalize(command, req, additionalArgs)
	if err != nil {
		return nil, err
	}

	m := s.newMaterializer(s.useDocker(req.Docker))
	defer s.cleanup(reqLogger, m)

	assembled, err := s.assemblePlaybook(m, command, req, normalized)
	if err != nil {
		return nil, err
	}
	return s.run(ctx, reqLogger, assembled, progress, normalized.Secrets())
}

// DryRun renders the command RunPlaybook would run without running it.
// Temporary secret files are removed before it returns.
func (s *Service) DryRun(_ context.Context, req *api.RunPlaybookRequest) (*AssembledCommand, error) {
	normalized, err := s.normalize(constants.AnsiblePlaybookCommand, req, nil)
	if err != nil {
		return nil, err
	}

	m := s.newMaterializer(s.useDocker(req.Docker))
	defer s.cleanup(s.Logger, m)

	return s.assemblePlaybook(m, constants.AnsiblePlaybookCommand, req, normalized)
}

func (s *Service) normalize(command string, req *api.RunPlaybookRequest, additionalArgs []string) (*ansible.PlaybookRequest, error) {
	if req == nil {
		return nil, apperrors.ErrValidationf("request is required")
	}
	if command != constants.AnsiblePlaybookCommand {
		if _, err := ansible.ParseCommand(command); err != nil {
			return nil, err
		}
		if strings.ContainsAny(command, " \t\n") {
			return nil, apperrors.ErrValidationf("command must be a single executable name, got %q", command)
		}
	}

	normalized, err := s.normalizer.Normalize(req)
	if err != nil {
		return nil, err
	}
	normalized.AdditionalArguments = append(normalized.AdditionalArguments, additionalArgs...)
	return normalized, nil
}

func (s *Service) assemblePlaybook(
	m *materializer.Materializer,
	command string,
	req *api.RunPlaybookRequest,
	normalized *ansible.PlaybookRequest,
) (*AssembledCommand, error) {
	p := plan{
		workDir:    normalized.WorkingDirectory,
		useDocker:  m.Mode() == materializer.Container,
		image:      s.image(req.Image),
		helperVars: s.helperVars(req.DisableHelperVars, m.Mode() == materializer.Container || normalized.SSHConfigured()),
	}

	if p.useDocker {
		mapping, err := m.Mount(normalized.WorkingDirectory)
		if err != nil {
			return nil, apperrors.ErrInternalError("failed to mount working directory", err)
		}
		p.mountedDir = &mapping
	}

	inner, err := ansible.PlaybookCommand(normalized, m)
	if err != nil {
		return nil, err
	}
	inner[0] = shell.Literal(command)
	p.inner = inner

	return s.assemble(m, p)
}

func (s *Service) run(
	ctx context.Context,
	reqLogger *slog.Logger,
	assembled *AssembledCommand,
	progress executor.ProgressFunc,
	secretValues []string,
) (*api.RunResponse, error) {
	reqLogger.Info("running command", "command", assembled.ShellWrapped, "docker", assembled.ContainerName != "")
	reqLogger.Debug("command environment", "environment", assembled.MaskedEnvironment())

	cmd := executor.Command{
		Path:     assembled.Argv[0],
		Args:     assembled.Argv[1:],
		Dir:      assembled.WorkDir,
		Env:      executor.MergeEnv(s.baseEnv(), assembled.Environment),
		Progress: progress,
	}
	if assembled.ContainerName != "" {
		cmd.OnCancel = s.killContainer(assembled.ContainerName)
	}

	raw, runErr := s.runner.Run(ctx, cmd)
	res, err := executor.Interpret(ctx, raw, runErr)
	if err != nil {
		if out, ok := apperrors.GetOutput(err); ok && out.ExitCode == constants.AnsibleUnreachableExitCode {
			reqLogger.Error("a host is not reachable: check the SSH key and network reachability, " +
				"and keep helper variables enabled to skip host key checking")
		}
		reqLogger.Error("command failed", append([]any{
			"error", secrets.Redact(err.Error(), secretValues...),
		}, logger.GetDeadlineInfo(ctx)...)...)
		return nil, err
	}

	if strings.TrimSpace(res.Stderr) != "" {
		reqLogger.Warn("command wrote to stderr", "stderr", secrets.Redact(res.Stderr, secretValues...))
	}
	reqLogger.Info("command completed", "exit_code", res.ExitCode)
	return &api.RunResponse{Stdout: res.Stdout, Stderr: res.Stderr}, nil
}

func (s *Service) useDocker(override *bool) bool {
	if override != nil {
		return *override
	}
	return s.opts.UseDocker
}

func (s *Service) image(override string) string {
	if override != "" {
		return override
	}
	return s.opts.DockerImage
}

func (s *Service) helperVars(disabled, active bool) bool {
	return active && !disabled && !s.opts.DisableHelperVars
}
