package cmd

import (
	"runtime"

	"github.com/kaholo/kansible/internal/constants"
	"github.com/kaholo/kansible/internal/output"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the version of the CLI",
	Run: func(cmd *cobra.Command, _ []string) {
		output.KeyValue("CLI version", *constants.GetVersion())
		output.KeyValue("Go version", runtime.Version())

		cfg, err := getConfigFromContext(cmd)
		if err != nil {
			output.Errorf("failed to load configuration: %v", err)
			return
		}
		output.KeyValue("Ansible image", cfg.DockerImage)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
