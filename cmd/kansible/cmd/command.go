package cmd

import (
	"context"
	"fmt"

	"github.com/kaholo/kansible/internal/api"
	"github.com/kaholo/kansible/internal/constants"

	"al.essio.dev/pkg/shellescape"
	"github.com/spf13/cobra"
)

var commandCmd = &cobra.Command{
	Use:   "command <ansible command> [args...]",
	Short: "Run an ansible command line",
	Long: `Run any ansible executable (ansible, ansible-galaxy, ansible-inventory, ...)
in a working directory, locally or in a container. Every argument is passed
literally: shell syntax in the arguments is never interpreted.`,
	Example: fmt.Sprintf(`  - %s command ansible all -i hosts -m ping
  - %s command --docker -w ./infra ansible-galaxy install -r requirements.yml`,
		constants.ProjectName, constants.ProjectName),
	Args: cobra.MinimumNArgs(1),
	RunE: commandRun,
}

func init() {
	rootCmd.AddCommand(commandCmd)
	// flags after the ansible executable belong to it
	commandCmd.Flags().SetInterspersed(false)
	commandCmd.Flags().StringP("workdir", "w", "", "Working directory (defaults to the current directory)")
	commandCmd.Flags().Bool("docker", false, "Run inside docker (defaults to the configured mode)")
	commandCmd.Flags().String("image", "", "Ansible image used in docker mode")
}

func commandRun(cmd *cobra.Command, args []string) error {
	svc, _, err := newAppService(cmd)
	if err != nil {
		return err
	}

	workDir, _ := cmd.Flags().GetString("workdir")
	image, _ := cmd.Flags().GetString("image")
	req := &api.RunCommandRequest{
		Command:          commandText(args),
		WorkingDirectory: workDir,
		Image:            image,
	}
	if cmd.Flags().Changed("docker") {
		docker, _ := cmd.Flags().GetBool("docker")
		req.Docker = &docker
	}

	service := NewCommandService(svc, NewOutputWrapper())
	return service.RunCommand(cmd.Context(), req)
}

// commandText joins args into a command line that splits back into the same words.
func commandText(args []string) string {
	return shellescape.QuoteCommand(args)
}

// CommandService runs ad-hoc ansible command lines for the CLI
type CommandService struct {
	svc    AnsibleService
	output OutputInterface
}

// NewCommandService creates a new CommandService
func NewCommandService(svc AnsibleService, outputter OutputInterface) *CommandService {
	return &CommandService{svc: svc, output: outputter}
}

// RunCommand runs req and streams its output.
func (s *CommandService) RunCommand(ctx context.Context, req *api.RunCommandRequest) error {
	s.output.Infof("Running command: %s", s.output.Bold(req.Command))

	if _, err := s.svc.RunCommand(ctx, req, streamTo(s.output)); err != nil {
		return fmt.Errorf("command failed: %w", err)
	}

	s.output.Successf("Command completed")
	return nil
}
