// Package playbooks provides functionality for loading and running job presets:
// reusable ansible-playbook parameter sets stored as YAML files.
package playbooks

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/kaholo/kansible/internal/api"
	"github.com/kaholo/kansible/internal/constants"

	"gopkg.in/yaml.v3"
)

// JobLoader handles loading and discovery of job presets
type JobLoader struct {
	dir string
}

// NewJobLoader creates a new JobLoader. When dir is empty the job directory
// is discovered from the working directory and the home directory.
func NewJobLoader(dir string) *JobLoader {
	return &JobLoader{dir: dir}
}

// GetJobDir returns the path to the job directory.
// Checks current working directory first, falls back to home directory.
func (l *JobLoader) GetJobDir() (string, error) {
	if l.dir != "" {
		return l.dir, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current working directory: %w", err)
	}

	jobDir := filepath.Join(cwd, constants.ConfigDirName, constants.JobDirName)
	if _, statErr := os.Stat(jobDir); statErr == nil {
		return jobDir, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(homeDir, constants.ConfigDirName, constants.JobDirName), nil
}

// ListJobs scans the job directory for YAML files and returns job names in
// sorted order. Returns an empty list if the directory doesn't exist.
func (l *JobLoader) ListJobs() ([]string, error) {
	jobDir, err := l.GetJobDir()
	if err != nil {
		return []string{}, nil
	}

	entries, err := os.ReadDir(jobDir)
	if errors.Is(err, os.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read job directory: %w", err)
	}

	jobs := []string{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		ext := filepath.Ext(entry.Name())
		if slices.Contains(constants.JobFileExtensions, ext) {
			jobs = append(jobs, strings.TrimSuffix(entry.Name(), ext))
		}
	}

	slices.Sort(jobs)
	return slices.Compact(jobs), nil
}

// LoadJob loads and parses a job YAML file.
func (l *JobLoader) LoadJob(name string) (*api.Job, error) {
	if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return nil, fmt.Errorf("invalid job name: %q", name)
	}

	jobDir, err := l.GetJobDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get job directory: %w", err)
	}

	var jobPath string
	for _, ext := range constants.JobFileExtensions {
		candidatePath := filepath.Join(jobDir, name+ext)
		if _, statErr := os.Stat(candidatePath); statErr == nil {
			jobPath = candidatePath
			break
		}
	}

	if jobPath == "" {
		return nil, fmt.Errorf("job not found: %s", name)
	}

	data, err := os.ReadFile(jobPath) //nolint:gosec // path is built from the job directory
	if err != nil {
		return nil, fmt.Errorf("failed to read job file: %w", err)
	}

	job, err := ParseJob(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse job YAML in %s: %w", jobPath, err)
	}

	if err = l.validateJob(job); err != nil {
		return nil, fmt.Errorf("invalid job %s: %w", name, err)
	}

	return job, nil
}

// ParseJob decodes a job document. Unknown fields are rejected.
func ParseJob(data []byte) (*api.Job, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var job api.Job
	if err := dec.Decode(&job); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return &job, nil
}

// validateJob validates that a job has required fields
func (l *JobLoader) validateJob(job *api.Job) error {
	if strings.TrimSpace(job.PlaybookPath) == "" {
		return fmt.Errorf("playbook_path must not be empty")
	}
	return nil
}
