package cmd

import (
	"fmt"
	"io"
	"os"
	goruntime "runtime"

	"github.com/spf13/cobra"

	"claw-manager/internal/logger"
	"claw-manager/internal/offline"
	"claw-manager/internal/shell"
	"claw-manager/internal/state"
)

// runtimeCmd manages the bundled offline runtime.
var runtimeCmd = &cobra.Command{
	Use:   "runtime",
	Short: "Prepare the bundled offline Node.js runtime",
}

var runtimePrepareCmd = &cobra.Command{
	Use:   "prepare",
	Short: "Unpack bundled Node.js, Git and the CLI package",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := current.boot.Prepare()
		if err != nil {
			return err
		}
		logger.Info("[INFO] Offline runtime ready at %s\n", rt.Root)
		return report(cmd, rt, func(w io.Writer) { printRuntime(w, rt) })
	},
}

var runtimeInstallCmd = &cobra.Command{
	Use:   "install",
	Short: "Install the bundled CLI package with the bundled npm",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := current.boot.Prepare()
		if err != nil {
			return err
		}
		home, _ := os.UserHomeDir()
		runner := &shell.ExecRunner{
			Env:  current.runner.Env,
			Path: shell.ExtendedPath(home, rt.BinDirs(goruntime.GOOS)...),
		}
		if err := current.boot.Install(cmd.Context(), runner, rt); err != nil {
			return err
		}
		logger.Info("[INFO] %s installed at %s\n", current.cfg.CLI.Name, rt.CLICommand)
		return report(cmd, rt, func(w io.Writer) { printRuntime(w, rt) })
	},
}

var runtimeStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the offline runtime layout and prepared components",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt := current.boot.Layout()
		st := state.Load(current.cfg.Runtime.StateFile)

		v := struct {
			offline.Runtime
			Ready      bool                            `json:"ready"`
			Enabled    bool                            `json:"enabled"`
			Components map[string]state.ComponentState `json:"components"`
		}{rt, current.boot.Ready(), current.cfg.Runtime.Enabled, st.Components}
		return report(cmd, v, func(w io.Writer) {
			fmt.Fprintf(w, "%s Node.js runtime prepared\n", mark(v.Ready))
			fmt.Fprintf(w, "%s used for discovery (runtime.enabled)\n", mark(v.Enabled))
			printRuntime(w, rt)
			for name, c := range st.Components {
				fmt.Fprintf(w, "  %s: %s %s\n", name, c.InstallPath, dim(c.PreparedAt.Local().Format("2006-01-02 15:04")))
			}
		})
	},
}

func printRuntime(w io.Writer, rt offline.Runtime) {
	fmt.Fprintf(w, "  root:    %s\n", rt.Root)
	fmt.Fprintf(w, "  node:    %s\n", rt.NodeDir)
	fmt.Fprintf(w, "  prefix:  %s\n", rt.NpmPrefix)
	fmt.Fprintf(w, "  cli:     %s\n", rt.CLICommand)
	if rt.CLIPackage != "" {
		fmt.Fprintf(w, "  package: %s\n", rt.CLIPackage)
	}
	if rt.GitExe != "" {
		fmt.Fprintf(w, "  git:     %s\n", rt.GitExe)
	}
}

func init() {
	runtimeCmd.AddCommand(runtimePrepareCmd, runtimeInstallCmd, runtimeStatusCmd)
}
