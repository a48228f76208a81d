// Package cmd implements the kansible command line interface.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/kaholo/kansible/internal/app"
	"github.com/kaholo/kansible/internal/config"
	"github.com/kaholo/kansible/internal/constants"
	apperrors "github.com/kaholo/kansible/internal/errors"
	"github.com/kaholo/kansible/internal/logger"
	"github.com/kaholo/kansible/internal/output"

	"github.com/spf13/cobra"
)

// noTimeoutAnnotation marks long-running commands the --timeout flag does not apply to.
const noTimeoutAnnotation = "kansible/no-timeout"

var (
	debug         bool
	timeout       string
	timeoutCancel context.CancelFunc
	verbose       bool
)

var rootCmd = &cobra.Command{
	Use:   constants.ProjectName,
	Short: constants.ProjectName,
	Long: fmt.Sprintf(`%s - %s
Run ansible and ansible-playbook safely, locally or in a container`,
		constants.ProjectName, *constants.GetVersion()),
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		startTime := time.Now().UTC()
		cmd.SetContext(context.WithValue(cmd.Context(), constants.StartTimeCtxKey, startTime))
		printHeader(cmd)

		if verbose {
			output.Infof("CLI build: %s", output.Bold(*constants.GetVersion()))
			output.Infof("Verbose output enabled")
		}

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		logLevel := cfg.GetLogLevel()
		if debug {
			logLevel = slog.LevelDebug
		}
		logger.Initialize(constants.CLI, logLevel)

		cmd.SetContext(context.WithValue(cmd.Context(), constants.ConfigCtxKey, cfg))
		if verbose {
			if configPath, pathErr := config.GetConfigPath(); pathErr == nil {
				output.Infof("Configuration file: %s", output.Bold(configPath))
			}
			output.Infof("Docker mode: %s", output.Bold(strconv.FormatBool(cfg.UseDocker)))
		}

		if cmd.Annotations[noTimeoutAnnotation] != "" {
			return nil
		}

		// NOTICE: this runs after flags are parsed but before the command runs
		timeoutDuration, err := resolveTimeout(timeout, cfg.Timeout)
		if err != nil {
			return fmt.Errorf("error parsing timeout: %w", err)
		}
		if timeoutDuration == 0 {
			if verbose {
				output.Infof("Timeout disabled")
			}
			return nil
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), timeoutDuration)
		timeoutCancel = cancel // Store for cleanup in Execute()
		cmd.SetContext(ctx)

		if verbose {
			output.Infof("Timeout: %s", timeoutDuration)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, _ []string) {
		if verbose {
			startTime := getStartTimeFromContext(cmd)
			if !startTime.IsZero() {
				output.Infof("Time elapsed: %s", output.Bold(output.Duration(time.Since(startTime))))
			}
		}
		if timeoutCancel != nil {
			timeoutCancel()
		}
	},
}

// Execute runs the root command and handles cleanup of timeout context.
// A failed ansible run exits with the exit code of the child process.
func Execute(ctx context.Context) {
	err := rootCmd.ExecuteContext(ctx)
	if timeoutCancel != nil {
		timeoutCancel()
	}

	if err != nil {
		output.Errorf("%s", errorLine(err))
		os.Exit(exitCode(err))
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&timeout, "timeout", "",
		"Timeout for command execution (e.g., 10m, 30s, 1h, 0 to disable; defaults to the configured timeout)")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Verbose output")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debugging logs")
}

// exitCode maps a command error to the process exit code.
func exitCode(err error) int {
	if out, ok := apperrors.GetOutput(err); ok && out.ExitCode > 0 {
		return out.ExitCode
	}
	return 1
}

// errorLine renders err for the terminal, with the child's exit status when it ran.
func errorLine(err error) string {
	if out, ok := apperrors.GetOutput(err); ok && out.ExitCode > 0 {
		return err.Error() + " " + output.ExitStatus(out.ExitCode)
	}
	return err.Error()
}

// resolveTimeout returns the flag timeout, or the configured one when the flag is empty.
func resolveTimeout(flag string, configured time.Duration) (time.Duration, error) {
	if flag == "" {
		return configured, nil
	}
	return parseTimeout(flag)
}

// parseTimeout parses timeout string to time.Duration
// Supports formats: "10m", "30s", "1h", "600" (number of seconds)
func parseTimeout(timeoutStr string) (time.Duration, error) {
	duration, err := time.ParseDuration(timeoutStr)
	if err == nil {
		return duration, nil
	}

	seconds, err := strconv.Atoi(timeoutStr)
	if err != nil {
		return 0, fmt.Errorf(
			"invalid timeout format: %s (use duration like '10m' or '30s', or seconds like '600')",
			timeoutStr)
	}

	return time.Duration(seconds) * time.Second, nil
}

func printHeader(cmd *cobra.Command) {
	output.Header(output.Bold("🚀 " + constants.ProjectName + " " + cmd.CalledAs()))
}

// getConfigFromContext retrieves the config from the command context
func getConfigFromContext(cmd *cobra.Command) (*config.Config, error) {
	cfg, ok := cmd.Context().Value(constants.ConfigCtxKey).(*config.Config)
	if !ok || cfg == nil {
		return nil, fmt.Errorf("config not found in context")
	}
	return cfg, nil
}

func getStartTimeFromContext(cmd *cobra.Command) time.Time {
	startTime, ok := cmd.Context().Value(constants.StartTimeCtxKey).(time.Time)
	if !ok {
		return time.Time{}
	}
	return startTime
}

// newAppService creates the ansible service from the configuration in context.
func newAppService(cmd *cobra.Command) (*app.Service, *config.Config, error) {
	cfg, err := getConfigFromContext(cmd)
	if err != nil {
		return nil, nil, err
	}
	return app.NewService(app.OptionsFromConfig(cfg), nil, slog.Default()), cfg, nil
}

// RootCmd returns the root command for use by tools like doc generators.
func RootCmd() *cobra.Command {
	return rootCmd
}
