package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"claw-manager/internal/channel"
	"claw-manager/internal/output"
)

// parseCmd runs the output parsers over text piped on stdin, which helps when
// a CLI release changes its output format.
var parseCmd = &cobra.Command{
	Use:   "parse",
	Short: "Parse captured openclaw output from stdin",
}

var parseStripCmd = &cobra.Command{
	Use:   "strip",
	Short: "Remove ANSI escape sequences",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := readStdin(cmd)
		if err != nil {
			return err
		}
		_, err = io.WriteString(cmd.OutOrStdout(), output.StripANSI(raw))
		return err
	},
}

var parseJSONCmd = &cobra.Command{
	Use:   "json",
	Short: "Extract the JSON document embedded in log output",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := readStdin(cmd)
		if err != nil {
			return err
		}
		doc, ok := output.ExtractJSON(raw)
		if !ok {
			return errors.New("no JSON document found")
		}
		fmt.Fprintln(cmd.OutOrStdout(), doc)
		return nil
	},
}

var parseStatusCmd = &cobra.Command{
	Use:   "status <channel>",
	Short: "Reconcile a channel from captured \"channels status\" output",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := readStdin(cmd)
		if err != nil {
			return err
		}
		st := channel.Reconcile(raw, args[0], nil)
		return report(cmd, st, func(w io.Writer) { printStatus(w, st) })
	},
}

var parseSendCmd = &cobra.Command{
	Use:   "send",
	Short: "Decide whether captured \"message send\" output reports a sent message",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := readStdin(cmd)
		if err != nil {
			return err
		}
		rep := output.EvaluateSend(raw)
		return report(cmd, rep, func(w io.Writer) {
			fmt.Fprintf(w, "%s sent=%t json=%t\n", mark(rep.Sent), rep.Sent, rep.JSON)
		})
	},
}

func readStdin(cmd *cobra.Command) (string, error) {
	b, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return string(b), nil
}

func init() {
	parseCmd.AddCommand(parseStripCmd, parseJSONCmd, parseStatusCmd, parseSendCmd)
}
