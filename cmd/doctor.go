package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the CLI, Node.js and the configuration file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		checks := current.diag.Doctor(cmd.Context())
		err := report(cmd, checks, func(w io.Writer) {
			for _, c := range checks {
				fmt.Fprintf(w, "%s %s: %s\n", mark(c.Passed), c.Name, c.Message)
				printSuggestion(w, c.Suggestion)
			}
		})
		if err != nil {
			return err
		}
		for _, c := range checks {
			if !c.Passed {
				return errFailed
			}
		}
		return nil
	},
}

var aiTestCmd = &cobra.Command{
	Use:   "ai-test",
	Short: "Ask the local agent for a reply to test the AI provider",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := current.diag.TestAI(cmd.Context())
		if err != nil {
			return err
		}
		err = report(cmd, res, func(w io.Writer) {
			if res.Success {
				fmt.Fprintf(w, "%s AI replied in %dms: %s\n", mark(true), res.LatencyMs, res.Response)
				return
			}
			fmt.Fprintf(w, "%s AI test failed after %dms\n  %s\n", mark(false), res.LatencyMs, failMark(res.Error))
		})
		if err != nil {
			return err
		}
		if !res.Success {
			return errFailed
		}
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the installed CLI and Node.js versions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cli, cliOK := current.diag.Version(ctx)
		node, nodeOK := current.diag.NodeVersion(ctx)

		v := struct {
			CLI  string `json:"cli,omitempty"`
			Node string `json:"node,omitempty"`
		}{cli, node}
		err := report(cmd, v, func(w io.Writer) {
			fmt.Fprintf(w, "%s %s %s\n", mark(cliOK), current.cfg.CLI.Name, orMissing(cli))
			fmt.Fprintf(w, "%s node %s\n", mark(nodeOK), orMissing(node))
		})
		if err != nil {
			return err
		}
		if !cliOK {
			return errFailed
		}
		return nil
	},
}

var portCmd = &cobra.Command{
	Use:   "port <number>",
	Short: "Report whether a local port is in use",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		port, err := strconv.Atoi(args[0])
		if err != nil || port < 1 || port > 65535 {
			return fmt.Errorf("invalid port %q", args[0])
		}
		inUse := current.diag.PortInUse(cmd.Context(), port)

		v := struct {
			Port  int  `json:"port"`
			InUse bool `json:"inUse"`
		}{port, inUse}
		return report(cmd, v, func(w io.Writer) {
			if inUse {
				fmt.Fprintf(w, "port %d is in use\n", port)
			} else {
				fmt.Fprintf(w, "port %d is free\n", port)
			}
		})
	},
}

func orMissing(s string) string {
	if s == "" {
		return dim("not found")
	}
	return s
}
