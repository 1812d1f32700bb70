package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"claw-manager/internal/channel"
)

// channelCmd groups the messaging channel checks.
var channelCmd = &cobra.Command{
	Use:   "channel",
	Short: "Check and test messaging channels",
}

var channelStatusCmd = &cobra.Command{
	Use:   "status <name>",
	Short: "Show whether a channel is enabled, configured and linked",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st := current.checker.Status(cmd.Context(), args[0])
		if err := report(cmd, st, func(w io.Writer) { printStatus(w, st) }); err != nil {
			return err
		}
		if !st.OK {
			return errFailed
		}
		return nil
	},
}

var channelTestCmd = &cobra.Command{
	Use:   "test <name>",
	Short: "Check a channel and send a test message where supported",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return printTestResult(cmd, current.checker.Test(cmd.Context(), args[0]))
	},
}

var channelSendCmd = &cobra.Command{
	Use:   "send <name> <target>",
	Short: "Send a test message to an explicit target",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return printTestResult(cmd, current.checker.Send(cmd.Context(), args[0], args[1]))
	},
}

func printStatus(w io.Writer, st channel.Status) {
	msg := st.Message
	if msg == "" {
		msg = st.Detail
	}
	fmt.Fprintf(w, "%s %s: %s\n", mark(st.OK), st.Channel, msg)
	if st.Message != "" && st.Detail != "" {
		fmt.Fprintf(w, "  %s\n", dim(st.Detail))
	}
	printSuggestion(w, st.Suggestion)
}

func printTestResult(cmd *cobra.Command, res channel.TestResult) error {
	err := report(cmd, res, func(w io.Writer) {
		fmt.Fprintf(w, "%s %s\n", mark(res.Success), res.Message)
		if res.Error != "" {
			fmt.Fprintf(w, "  %s\n", failMark(res.Error))
		}
	})
	if err != nil {
		return err
	}
	if !res.Success {
		return errFailed
	}
	return nil
}

func init() {
	channelCmd.AddCommand(channelStatusCmd, channelTestCmd, channelSendCmd)
}
