package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"claw-manager/internal/channel"
	"claw-manager/internal/config"
	"claw-manager/internal/diagnostics"
	"claw-manager/internal/envfile"
	"claw-manager/internal/logger"
	"claw-manager/internal/offline"
	"claw-manager/internal/shell"
)

// gatewayTokenEnv carries the local gateway token to every CLI invocation.
const gatewayTokenEnv = "OPENCLAW_GATEWAY_TOKEN"

// pathCache dedups "found at" lines across every lookup in the process.
var pathCache logger.PathCache

// app is everything a command needs, built from the configuration.
type app struct {
	cfg     config.Config
	env     *envfile.File
	boot    *offline.Bootstrapper
	pathEnv string
	runner  *shell.ExecRunner
	cli     *shell.CLI
	checker *channel.Checker
	diag    *diagnostics.Diagnostics
}

func newApp(cfg config.Config) *app {
	home, _ := os.UserHomeDir()
	a := &app{
		cfg: cfg,
		env: envfile.New(cfg.CLI.EnvFile),
		boot: &offline.Bootstrapper{
			Root:         cfg.Runtime.Root,
			ResourceDirs: offline.DefaultResourceDirs(cfg.Runtime.ResourceDirs...),
			StateFile:    cfg.Runtime.StateFile,
			CLIName:      cfg.CLI.Name,
		},
	}

	var prepend []string
	var bundled string
	if cfg.Runtime.Enabled && a.boot.Ready() {
		rt := a.boot.Layout()
		prepend = rt.BinDirs(runtime.GOOS)
		bundled = rt.CLICommand
		logger.Debug("[DEBUG] Using offline runtime at %s\n", rt.Root)
	}
	a.pathEnv = shell.ExtendedPath(home, prepend...)

	env, err := a.env.Load()
	if err != nil {
		logger.Warn("[WARN] Ignoring env file: %v\n", err)
		env = map[string]string{}
	}
	env[gatewayTokenEnv] = cfg.CLI.GatewayToken
	a.runner = &shell.ExecRunner{Env: env, Path: a.pathEnv}

	a.cli = &shell.CLI{
		Locator: &shell.Locator{
			Name:        cfg.CLI.Name,
			Override:    cfg.CLI.Path,
			SearchPaths: cfg.CLI.SearchPaths,
			Home:        home,
			Bundled:     bundled,
			PathEnv:     a.pathEnv,
			Shell:       a.runner,
			Cache:       &pathCache,
		},
		Runner:  a.runner,
		Timeout: cfg.CLI.Timeout,
		Hint:    cfg.CLI.InstallHint,
	}
	a.checker = &channel.Checker{
		CLI:        a.cli,
		ConfigFile: cfg.CLI.ConfigFile,
		Targets:    a.env,
		TargetKeys: cfg.Channels,
	}
	a.diag = &diagnostics.Diagnostics{
		CLI:         a.cli,
		Runner:      a.runner,
		PathEnv:     a.pathEnv,
		ConfigFile:  cfg.CLI.ConfigFile,
		GatewayPort: cfg.CLI.GatewayPort,
		InstallHint: cfg.CLI.InstallHint,
	}
	return a
}

var (
	passMark = color.New(color.FgGreen).SprintFunc()
	failMark = color.New(color.FgRed).SprintFunc()
	dim      = color.New(color.Faint).SprintFunc()
)

// report prints v as JSON under --json, otherwise calls human.
func report(cmd *cobra.Command, v any, human func(w io.Writer)) error {
	w := cmd.OutOrStdout()
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	human(w)
	return nil
}

// mark renders a pass/fail prefix.
func mark(ok bool) string {
	if ok {
		return passMark("✔")
	}
	return failMark("✘")
}

func printSuggestion(w io.Writer, s string) {
	if s != "" {
		fmt.Fprintf(w, "  %s %s\n", dim("→"), s)
	}
}
