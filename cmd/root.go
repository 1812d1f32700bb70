package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"

	"claw-manager/internal/config"
	"claw-manager/internal/logger"
)

var (
	// debug enables debug logging; toggled with --debug.
	debug bool
	// configPath is the manager's YAML configuration file.
	configPath string
	// jsonOutput prints results as JSON instead of colored text.
	jsonOutput bool
)

// errFailed is returned by commands whose result was already printed and
// reported a failure. Execute exits non-zero without logging it again.
var errFailed = errors.New("check failed")

// current holds the wiring built from the configuration before each command.
var current *app

// rootCmd is the base command for the CLI tool `claw-manager`.
var rootCmd = &cobra.Command{
	Use:           "claw-manager",
	Short:         "Manage and diagnose a local openclaw installation",
	SilenceUsage:  true,
	SilenceErrors: true,

	// PersistentPreRunE runs before any subcommand: set up logging, then load
	// the configuration and wire the services commands use.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger.Init(debug)

		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		logger.Debug("[DEBUG] Using configuration %s\n", configPath)
		current = newApp(cfg)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", defaultConfigPath(), "Path to configuration file")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Print results as JSON")

	rootCmd.AddCommand(parseCmd, channelCmd, doctorCmd, aiTestCmd, versionCmd, portCmd, runtimeCmd, envCmd)
}

// Execute runs the CLI and exits non-zero when the command failed.
// It's the entry point for the CLI when invoked by the user.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		if !errors.Is(err, errFailed) {
			logger.Error("[ERROR] %v\n", err)
		}
		os.Exit(1)
	}
}

// defaultConfigPath is claw-manager.yaml in the user's config directory.
func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "claw-manager.yaml"
	}
	return filepath.Join(dir, "claw-manager", "claw-manager.yaml")
}
