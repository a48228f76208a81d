package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kaholo/kansible/internal/ansible"
	"github.com/kaholo/kansible/internal/api"
	apperrors "github.com/kaholo/kansible/internal/errors"
	"github.com/kaholo/kansible/internal/executor"
	"github.com/kaholo/kansible/internal/logger"
	"github.com/kaholo/kansible/internal/shell"
)

// RunCommand runs an arbitrary ansible command line in a working directory.
// The command is split into words once and every word is passed literally,
// so shell syntax in it is never interpreted.
func (s *Service) RunCommand(
	ctx context.Context,
	req *api.RunCommandRequest,
	progress executor.ProgressFunc,
) (*api.RunResponse, error) {
	reqLogger := logger.DeriveRequestLogger(ctx, s.Logger)

	if req == nil {
		return nil, apperrors.ErrValidationf("request is required")
	}
	words, err := ansible.ParseCommand(req.Command)
	if err != nil {
		return nil, err
	}
	workDir, err := s.workingDirectory(req.WorkingDirectory)
	if err != nil {
		return nil, err
	}

	useDocker := s.useDocker(req.Docker)
	m := s.newMaterializer(useDocker)
	defer s.cleanup(reqLogger, m)

	p := plan{
		inner:      shell.Words(words...),
		workDir:    workDir,
		useDocker:  useDocker,
		image:      s.image(req.Image),
		helperVars: s.helperVars(false, useDocker),
	}
	if useDocker {
		mapping, mountErr := m.Mount(workDir)
		if mountErr != nil {
			return nil, apperrors.ErrInternalError("failed to mount working directory", mountErr)
		}
		p.mountedDir = &mapping
	}

	assembled, err := s.assemble(m, p)
	if err != nil {
		return nil, err
	}
	return s.run(ctx, reqLogger, assembled, progress, nil)
}

func (s *Service) workingDirectory(dir string) (string, error) {
	dir = strings.TrimSpace(dir)
	base := s.opts.BaseDir
	if base == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", apperrors.ErrInternalError("failed to determine working directory", err)
		}
		base = wd
	}
	if dir == "" {
		dir = base
	} else if !filepath.IsAbs(dir) {
		dir = filepath.Join(base, dir)
	}
	dir = filepath.Clean(dir)

	info, err := os.Stat(dir)
	if err != nil {
		return "", apperrors.ErrValidationf("Path %s does not exist!", dir)
	}
	if !info.IsDir() {
		return "", apperrors.ErrValidation(fmt.Sprintf("%s is not a directory", dir), nil)
	}
	return dir, nil
}
