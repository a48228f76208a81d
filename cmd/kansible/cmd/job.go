package cmd

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/kaholo/kansible/internal/ansible"
	"github.com/kaholo/kansible/internal/api"
	"github.com/kaholo/kansible/internal/config"
	"github.com/kaholo/kansible/internal/constants"
	"github.com/kaholo/kansible/internal/playbooks"
	"github.com/kaholo/kansible/internal/secrets"

	"github.com/spf13/cobra"
)

var jobCmd = &cobra.Command{
	Use:   "job",
	Short: "Manage and run job presets",
	Long:  "Manage and run reusable playbook run presets defined in YAML files",
}

var jobListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all available jobs",
	Long:  fmt.Sprintf("List all jobs found in the %s/%s directory", constants.ConfigDirName, constants.JobDirName),
	RunE:  jobListRun,
}

var jobShowCmd = &cobra.Command{
	Use:     "show <name>",
	Short:   "Show job details",
	Long:    "Display the content of a job with secret values masked",
	Example: fmt.Sprintf(`  - %s job show deploy-web`, constants.ProjectName),
	RunE:    jobShowRun,
	Args:    cobra.ExactArgs(1),
}

var jobRunCmd = &cobra.Command{
	Use:   "run <name> [-- ansible-playbook arguments...]",
	Short: "Run a job",
	Long:  "Run a job with optional flag overrides",
	Example: fmt.Sprintf(`  - %s job run deploy-web
  - %s job run deploy-web -e version=1.2.3 -l web01 -- --check`,
		constants.ProjectName, constants.ProjectName),
	RunE: jobRunRun,
	Args: cobra.MinimumNArgs(1),
}

func init() {
	rootCmd.AddCommand(jobCmd)
	jobCmd.AddCommand(jobListCmd)
	jobCmd.AddCommand(jobShowCmd)
	jobCmd.AddCommand(jobRunCmd)

	jobRunCmd.Flags().StringArrayP("var", "e", nil, "Override an extra variable as key=value (repeatable)")
	jobRunCmd.Flags().StringArrayP("limit", "l", nil, "Replace the job's host limit (repeatable)")
	jobRunCmd.Flags().Bool("docker", false, "Override the docker mode")
	jobRunCmd.Flags().StringP("image", "i", "", "Override the ansible image")
	jobRunCmd.Flags().Bool("dry-run", false, "Print the command that would run without running it")
}

func newJobLoader(cmd *cobra.Command) *playbooks.JobLoader {
	cfg, _ := getConfigFromContext(cmd)
	return playbooks.NewJobLoader(jobDirFromConfig(cfg))
}

func jobListRun(cmd *cobra.Command, _ []string) error {
	service := NewJobService(newJobLoader(cmd), nil, nil, NewOutputWrapper())
	return service.ListJobs(cmd.Context())
}

func jobShowRun(cmd *cobra.Command, args []string) error {
	service := NewJobService(newJobLoader(cmd), nil, nil, NewOutputWrapper())
	return service.ShowJob(cmd.Context(), args[0])
}

func jobRunRun(cmd *cobra.Command, args []string) error {
	svc, _, err := newAppService(cmd)
	if err != nil {
		return err
	}

	vars, _ := cmd.Flags().GetStringArray("var")
	limit, _ := cmd.Flags().GetStringArray("limit")
	image, _ := cmd.Flags().GetString("image")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	overrides := playbooks.Overrides{
		Vars:                vars,
		Limit:               limit,
		Image:               image,
		AdditionalArguments: args[1:],
	}
	if cmd.Flags().Changed("docker") {
		docker, _ := cmd.Flags().GetBool("docker")
		overrides.Docker = &docker
	}

	service := NewJobService(newJobLoader(cmd), playbooks.NewJobExecutor(), svc, NewOutputWrapper())
	return service.RunJob(cmd.Context(), args[0], overrides, dryRun)
}

// JobService handles job operations
type JobService struct {
	loader   *playbooks.JobLoader
	executor *playbooks.JobExecutor
	svc      AnsibleService
	output   OutputInterface
}

// NewJobService creates a new JobService
func NewJobService(
	loader *playbooks.JobLoader,
	executor *playbooks.JobExecutor,
	svc AnsibleService,
	outputter OutputInterface,
) *JobService {
	return &JobService{
		loader:   loader,
		executor: executor,
		svc:      svc,
		output:   outputter,
	}
}

// ListJobs lists all available jobs
func (s *JobService) ListJobs(_ context.Context) error {
	s.output.Infof("Discovering jobs…")

	names, err := s.loader.ListJobs()
	if err != nil {
		return fmt.Errorf("failed to list jobs: %w", err)
	}

	if len(names) == 0 {
		s.output.Warningf("No jobs found in %s/%s directory", constants.ConfigDirName, constants.JobDirName)
		return nil
	}

	rows := make([][]string, 0, len(names))
	for _, name := range names {
		job, loadErr := s.loader.LoadJob(name)
		if loadErr != nil {
			s.output.Warningf("Failed to load job %s: %v", name, loadErr)
			continue
		}
		description := job.Description
		if description == "" {
			description = "-"
		}
		rows = append(rows, []string{s.output.Bold(name), job.PlaybookPath, description})
	}

	s.output.Blank()
	s.output.Table([]string{"Name", "Playbook", "Description"}, rows)
	s.output.Blank()
	s.output.Successf("Found %d job(s)", len(rows))
	return nil
}

// ShowJob displays a job. Secret parameters and secret-looking vars are masked.
func (s *JobService) ShowJob(_ context.Context, name string) error {
	job, err := s.loader.LoadJob(name)
	if err != nil {
		return fmt.Errorf("failed to load job: %w", err)
	}

	s.output.Blank()
	s.output.KeyValue("Name", s.output.Bold(name))
	if job.Description != "" {
		s.output.KeyValue("Description", job.Description)
	}
	s.output.KeyValue("Playbook", job.PlaybookPath)
	showList(s.output, "Inventories", job.Inventories)
	showList(s.output, "Inventory hosts", job.InventoryHosts)
	showList(s.output, "Limit", job.Limit)
	showList(s.output, "Modules", job.Modules)

	if !job.Vars.IsZero() {
		vars, varsErr := ansible.ParseVars(job.Vars)
		if varsErr != nil {
			return fmt.Errorf("failed to parse job vars: %w", varsErr)
		}
		s.output.KeyValue("Vars", formatVars(vars))
	}

	if job.SSHUsername != "" {
		s.output.KeyValue("SSH username", job.SSHUsername)
	}
	if job.SSHKeyPath != "" {
		s.output.KeyValue("SSH key path", job.SSHKeyPath)
	}
	if job.VaultPasswordFile != "" {
		s.output.KeyValue("Vault password file", job.VaultPasswordFile)
	}
	secretFields := job.SecretFields()
	for _, field := range slices.Sorted(maps.Keys(secretFields)) {
		s.output.KeyValue(field, constants.MaskedValue)
	}

	if len(job.AdditionalArguments) > 0 {
		s.output.KeyValue("Arguments", strings.Join(job.AdditionalArguments, " "))
	}
	if job.Docker != nil {
		s.output.KeyValue("Docker", strconv.FormatBool(*job.Docker))
	}
	if job.Image != "" {
		s.output.KeyValue("Image", s.output.Cyan(job.Image))
	}
	if job.DisableHelperVars {
		s.output.KeyValue("Helper vars", "disabled")
	}
	s.output.Blank()

	return nil
}

// RunJob runs a job with overrides applied
func (s *JobService) RunJob(ctx context.Context, name string, overrides playbooks.Overrides, dryRun bool) error {
	job, err := s.loader.LoadJob(name)
	if err != nil {
		return fmt.Errorf("failed to load job: %w", err)
	}

	req, err := s.executor.ToRunPlaybookRequest(job, overrides)
	if err != nil {
		return fmt.Errorf("failed to prepare job %s: %w", name, err)
	}

	s.output.Infof("Executing job: %s", s.output.Bold(name))
	return NewPlaybookService(s.svc, s.output).RunPlaybook(ctx, req, dryRun)
}

func showList(out OutputInterface, key string, values api.StringList) {
	if len(values) > 0 {
		out.KeyValue(key, strings.Join(ansible.CleanList(values), ", "))
	}
}

// formatVars renders vars as sorted key=value pairs, masking secret-looking keys.
func formatVars(vars map[string]string) string {
	masked := secrets.MaskValues(vars, nil)
	pairs := make([]string, 0, len(masked))
	for _, key := range slices.Sorted(maps.Keys(masked)) {
		pairs = append(pairs, key+constants.KeyValueSeparator+masked[key])
	}
	return strings.Join(pairs, ", ")
}

// jobDirFromConfig returns the configured job directory, if any.
func jobDirFromConfig(cfg *config.Config) string {
	if cfg == nil {
		return ""
	}
	return cfg.JobDir
}
