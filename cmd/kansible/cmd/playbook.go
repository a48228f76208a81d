package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/kaholo/kansible/internal/api"
	"github.com/kaholo/kansible/internal/constants"

	"github.com/spf13/cobra"
)

var playbookCmd = &cobra.Command{
	Use:   "playbook",
	Short: "Run ansible playbooks",
}

var playbookRunCmd = &cobra.Command{
	Use:   "run <playbook> [-- ansible-playbook arguments...]",
	Short: "Run a playbook",
	Long: `Run ansible-playbook with the given playbook, locally or in a container.

Paths and secrets never appear in the command text: they reach the command
through generated environment variables. Secrets are read from environment
variables named by the --*-env flags so they do not show up in the process list.`,
	Example: fmt.Sprintf(`  - %s playbook run site.yml -i hosts -l web
  - %s playbook run site.yml --inventory-host 10.0.0.5 -u deploy --ssh-key ~/.ssh/id_ed25519
  - DEPLOY_PASS=secret %s playbook run site.yml -u deploy --ssh-password-env DEPLOY_PASS --docker
  - %s playbook run site.yml --dry-run -- --check --diff`,
		constants.ProjectName, constants.ProjectName, constants.ProjectName, constants.ProjectName),
	Args: cobra.MinimumNArgs(1),
	RunE: playbookRunRun,
}

func init() {
	rootCmd.AddCommand(playbookCmd)
	playbookCmd.AddCommand(playbookRunCmd)
	addPlaybookRunFlags(playbookRunCmd)
}

func addPlaybookRunFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringArrayP("inventory", "i", nil, "Inventory file (repeatable)")
	flags.StringArray("inventory-host", nil, "Host or IP address to use as an inline inventory (repeatable)")
	flags.StringArrayP("limit", "l", nil, "Limit the run to a host pattern (repeatable)")
	flags.StringArrayP("module-path", "M", nil, "Module library path (repeatable)")
	flags.StringArrayP("var", "e", nil, "Extra variable as key=value (repeatable)")
	flags.StringP("ssh-user", "u", "", "SSH username")
	flags.String("ssh-password-env", "", "Name of the environment variable holding the SSH password")
	flags.String("ssh-key", "", "Path to the SSH private key")
	flags.String("ssh-private-key-env", "", "Name of the environment variable holding the SSH private key")
	flags.String("vault-password-file", "", "Path to the vault password file")
	flags.String("vault-password-env", "", "Name of the environment variable holding the vault password")
	flags.Bool("docker", false, "Run inside docker (defaults to the configured mode)")
	flags.String("image", "", "Ansible image used in docker mode")
	flags.Bool("disable-helper-vars", false, "Do not set ANSIBLE_HOST_KEY_CHECKING and ANSIBLE_FORCE_COLOR")
	flags.Bool("dry-run", false, "Print the command that would run without running it")
}

func playbookRunRun(cmd *cobra.Command, args []string) error {
	svc, _, err := newAppService(cmd)
	if err != nil {
		return err
	}

	req, err := playbookRequestFromFlags(cmd, args)
	if err != nil {
		return err
	}
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	service := NewPlaybookService(svc, NewOutputWrapper())
	return service.RunPlaybook(cmd.Context(), req, dryRun)
}

// playbookRequestFromFlags builds a request from the playbook argument, the
// flags and the passthrough arguments that follow the playbook.
func playbookRequestFromFlags(cmd *cobra.Command, args []string) (*api.RunPlaybookRequest, error) {
	flags := cmd.Flags()
	inventories, _ := flags.GetStringArray("inventory")
	hosts, _ := flags.GetStringArray("inventory-host")
	limit, _ := flags.GetStringArray("limit")
	modules, _ := flags.GetStringArray("module-path")
	vars, _ := flags.GetStringArray("var")
	user, _ := flags.GetString("ssh-user")
	keyPath, _ := flags.GetString("ssh-key")
	vaultFile, _ := flags.GetString("vault-password-file")
	image, _ := flags.GetString("image")
	disableHelperVars, _ := flags.GetBool("disable-helper-vars")

	req := &api.RunPlaybookRequest{
		PlaybookPath:        args[0],
		Inventories:         api.StringList(inventories),
		InventoryHosts:      api.StringList(hosts),
		Limit:               api.StringList(limit),
		Modules:             api.StringList(modules),
		SSHUsername:         user,
		SSHKeyPath:          keyPath,
		VaultPasswordFile:   vaultFile,
		Image:               image,
		DisableHelperVars:   disableHelperVars,
		AdditionalArguments: api.Arguments(args[1:]),
	}
	if len(vars) > 0 {
		req.Vars = api.PairVars(vars...)
	}
	if flags.Changed("docker") {
		docker, _ := flags.GetBool("docker")
		req.Docker = &docker
	}

	var err error
	if req.SSHPassword, err = secretFromEnv(cmd, "ssh-password-env"); err != nil {
		return nil, err
	}
	if req.SSHPrivateKey, err = secretFromEnv(cmd, "ssh-private-key-env"); err != nil {
		return nil, err
	}
	if req.VaultPassword, err = secretFromEnv(cmd, "vault-password-env"); err != nil {
		return nil, err
	}
	return req, nil
}

// secretFromEnv reads the value of the environment variable named by flag.
func secretFromEnv(cmd *cobra.Command, flag string) (string, error) {
	name, _ := cmd.Flags().GetString(flag)
	if name == "" {
		return "", nil
	}
	value, ok := os.LookupEnv(name)
	if !ok || value == "" {
		return "", fmt.Errorf("environment variable %s named by --%s is not set", name, flag)
	}
	return value, nil
}

// PlaybookService handles playbook runs for the CLI
type PlaybookService struct {
	svc    AnsibleService
	output OutputInterface
}

// NewPlaybookService creates a new PlaybookService
func NewPlaybookService(svc AnsibleService, outputter OutputInterface) *PlaybookService {
	return &PlaybookService{svc: svc, output: outputter}
}

// RunPlaybook runs req and streams its output, or only prints the rendered
// command when dryRun is set.
func (s *PlaybookService) RunPlaybook(ctx context.Context, req *api.RunPlaybookRequest, dryRun bool) error {
	if dryRun {
		assembled, err := s.svc.DryRun(ctx, req)
		if err != nil {
			return err
		}
		showAssembled(s.output, assembled)
		return nil
	}

	s.output.Infof("Running playbook: %s", s.output.Bold(req.PlaybookPath))
	if req.Docker != nil && *req.Docker && req.Image != "" {
		s.output.Infof("Image: %s", s.output.Cyan(req.Image))
	}

	if _, err := s.svc.RunPlaybook(ctx, req, streamTo(s.output)); err != nil {
		return fmt.Errorf("playbook failed: %w", err)
	}

	s.output.Successf("Playbook %s completed", s.output.Bold(req.PlaybookPath))
	return nil
}
