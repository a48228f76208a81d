package cmd

import (
	"fmt"
	"log/slog"

	"github.com/kaholo/kansible/internal/constants"
	"github.com/kaholo/kansible/internal/server"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the kansible operations over HTTP",
	Long: fmt.Sprintf(`Serve playbook and command runs over HTTP for a hosting runtime.

Endpoints:
  GET  %[1]s/health
  POST %[1]s/playbooks/run
  POST %[1]s/commands/run
  GET  %[1]s/playbooks/stream (websocket)`, constants.APIPrefix),
	Annotations: map[string]string{noTimeoutAnnotation: "true"},
	Args:        cobra.NoArgs,
	RunE:        serveRun,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("address", "a", "", "Listen address (defaults to the configured server address)")
}

func serveRun(cmd *cobra.Command, _ []string) error {
	svc, cfg, err := newAppService(cmd)
	if err != nil {
		return err
	}

	addr, _ := cmd.Flags().GetString("address")
	if addr == "" {
		addr = cfg.ServerAddress
	}
	requestTimeout := cfg.Timeout
	if requestTimeout == 0 {
		requestTimeout = constants.DefaultRequestTimeout
	}

	router := server.NewRouter(svc, slog.Default(), requestTimeout)
	NewOutputWrapper().Infof("Listening on %s (Ctrl+C to stop)", addr)
	return server.ListenAndServe(cmd.Context(), addr, router.Handler(), slog.Default())
}
