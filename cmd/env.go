package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"claw-manager/internal/logger"
)

// envCmd edits the CLI env file (~/.openclaw/env), where test targets and
// provider keys live.
var envCmd = &cobra.Command{
	Use:   "env",
	Short: "Read and edit the openclaw env file",
}

var envGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print a variable",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		value, ok := current.env.Get(args[0])
		v := struct {
			Key   string `json:"key"`
			Value string `json:"value"`
			Found bool   `json:"found"`
		}{args[0], value, ok}
		if err := report(cmd, v, func(w io.Writer) {
			if ok {
				fmt.Fprintln(w, value)
			}
		}); err != nil {
			return err
		}
		if !ok {
			if !jsonOutput {
				logger.Warn("[WARN] %s is not set in %s\n", args[0], current.env.Path)
			}
			return errFailed
		}
		return nil
	},
}

var envSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a variable, replacing any previous value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := current.env.Set(args[0], args[1]); err != nil {
			return err
		}
		logger.Info("[INFO] Set %s in %s\n", args[0], current.env.Path)
		return nil
	},
}

var envUnsetCmd = &cobra.Command{
	Use:   "unset <key>",
	Short: "Remove a variable",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := current.env.Remove(args[0]); err != nil {
			return err
		}
		logger.Info("[INFO] Removed %s from %s\n", args[0], current.env.Path)
		return nil
	},
}

func init() {
	envCmd.AddCommand(envGetCmd, envSetCmd, envUnsetCmd)
}
