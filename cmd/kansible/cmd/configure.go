package cmd

import (
	"fmt"
	"strconv"

	"github.com/kaholo/kansible/internal/config"
	"github.com/kaholo/kansible/internal/constants"

	"github.com/spf13/cobra"
)

var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Write the kansible configuration file",
	Long: `Update ~/.kansible/config.yaml with the given values. Values that are not
given keep their current setting. KANSIBLE_* environment variables still take
precedence over the file when commands run.`,
	Example: fmt.Sprintf(`  - %s configure --use-docker --docker-image cytopia/ansible:latest-tools
  - %s configure --timeout 1h --job-dir /srv/kansible/jobs`,
		constants.ProjectName, constants.ProjectName),
	Args: cobra.NoArgs,
	RunE: configureRun,
}

func init() {
	rootCmd.AddCommand(configureCmd)
	addConfigureFlags(configureCmd)
}

func addConfigureFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.String("docker-image", "", "Default ansible image")
	flags.Bool("use-docker", false, "Run inside docker by default")
	flags.String("docker-binary", "", "Docker client executable")
	flags.String("shell", "", "Shell used to run command lines")
	flags.String("temp-dir", "", "Root directory for temporary secret files")
	flags.Duration("default-timeout", 0, "Default timeout of one run (0 disables it)")
	flags.Bool("disable-helper-vars", false, "Never set ANSIBLE_HOST_KEY_CHECKING and ANSIBLE_FORCE_COLOR")
	flags.String("log-level", "", "Log level (DEBUG, INFO, WARN, ERROR)")
	flags.String("server-address", "", "Listen address of kansible serve")
	flags.String("job-dir", "", "Directory holding job presets")
}

func configureRun(cmd *cobra.Command, _ []string) error {
	cfg, err := getConfigFromContext(cmd)
	if err != nil {
		return err
	}
	updated := *cfg
	if err = applyConfigFlags(cmd, &updated); err != nil {
		return err
	}

	if err = config.Save(&updated); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	out := NewOutputWrapper()
	if path, pathErr := config.GetConfigPath(); pathErr == nil {
		out.Successf("Configuration saved to %s", out.Bold(path))
	}
	showConfig(out, &updated)
	return nil
}

// applyConfigFlags copies the flags the user set onto cfg.
func applyConfigFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	stringFlags := map[string]*string{
		"docker-image":   &cfg.DockerImage,
		"docker-binary":  &cfg.DockerBinary,
		"shell":          &cfg.Shell,
		"temp-dir":       &cfg.TempDir,
		"log-level":      &cfg.LogLevel,
		"server-address": &cfg.ServerAddress,
		"job-dir":        &cfg.JobDir,
	}
	for name, target := range stringFlags {
		if flags.Changed(name) {
			value, err := flags.GetString(name)
			if err != nil {
				return err
			}
			*target = value
		}
	}

	boolFlags := map[string]*bool{
		"use-docker":          &cfg.UseDocker,
		"disable-helper-vars": &cfg.DisableHelperVars,
	}
	for name, target := range boolFlags {
		if flags.Changed(name) {
			value, err := flags.GetBool(name)
			if err != nil {
				return err
			}
			*target = value
		}
	}

	if flags.Changed("default-timeout") {
		value, err := flags.GetDuration("default-timeout")
		if err != nil {
			return err
		}
		cfg.Timeout = value
	}
	return nil
}

func showConfig(out OutputInterface, cfg *config.Config) {
	out.Blank()
	out.KeyValue("Docker image", out.Cyan(cfg.DockerImage))
	out.KeyValue("Use docker", strconv.FormatBool(cfg.UseDocker))
	out.KeyValue("Docker binary", cfg.DockerBinary)
	out.KeyValue("Shell", cfg.Shell)
	if cfg.TempDir != "" {
		out.KeyValue("Temp dir", cfg.TempDir)
	}
	out.KeyValue("Timeout", cfg.Timeout.String())
	out.KeyValue("Helper vars disabled", strconv.FormatBool(cfg.DisableHelperVars))
	out.KeyValue("Log level", cfg.LogLevel)
	out.KeyValue("Server address", cfg.ServerAddress)
	if cfg.JobDir != "" {
		out.KeyValue("Job dir", cfg.JobDir)
	}
	out.Blank()
}
