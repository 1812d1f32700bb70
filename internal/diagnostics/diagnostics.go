// Package diagnostics checks that openclaw and its dependencies are usable.
package diagnostics

import (
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"claw-manager/internal/logger"
	"claw-manager/internal/output"
	"claw-manager/internal/shell"
)

// CLI is the part of shell.CLI diagnostics need.
type CLI interface {
	Path(ctx context.Context) (string, error)
	Run(ctx context.Context, args ...string) (shell.Result, error)
	RunIn(ctx context.Context, dir string, args ...string) (shell.Result, error)
}

// Check is one doctor result line.
type Check struct {
	Name       string `json:"name"`
	Passed     bool   `json:"passed"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
}

// Diagnostics runs health checks for the CLI and its environment.
type Diagnostics struct {
	CLI         CLI
	Runner      shell.Runner // runs node and other helpers
	PathEnv     string       // PATH searched for helper programs
	ConfigFile  string       // the CLI's openclaw.json
	GatewayPort int
	InstallHint string
}

// Doctor runs every check concurrently and returns them in a fixed order:
// CLI installed, Node.js, configuration file.
func (d *Diagnostics) Doctor(ctx context.Context) []Check {
	logger.Info("[INFO] Running diagnostics...\n")

	checks := []func(context.Context) Check{d.checkCLI, d.checkNode, d.checkConfigFile}
	results := make([]Check, len(checks))

	g, gctx := errgroup.WithContext(ctx)
	for i, check := range checks {
		i, check := i, check // captured by the goroutine below
		g.Go(func() error {
			results[i] = check(gctx)
			logger.Debug("[DEBUG] %s: passed=%t %s\n", results[i].Name, results[i].Passed, results[i].Message)
			return nil
		})
	}
	_ = g.Wait() // checks report failures in their result, never as errors

	return results
}

func (d *Diagnostics) checkCLI(ctx context.Context) Check {
	c := Check{Name: "OpenClaw installed"}
	path, err := d.CLI.Path(ctx)
	if err != nil {
		c.Message = "OpenClaw is not installed"
		c.Suggestion = "run: " + d.InstallHint
		return c
	}
	c.Passed = true
	c.Message = "OpenClaw found at " + path
	return c
}

func (d *Diagnostics) checkNode(ctx context.Context) Check {
	c := Check{Name: "Node.js"}
	res, err := d.Runner.Run(ctx, shell.Command{Name: "node", Args: []string{"--version"}})
	switch {
	case err != nil:
		c.Message = "not installed"
	case !res.Success:
		c.Message = strings.TrimSpace(res.Stderr)
	default:
		c.Passed = true
		c.Message = strings.TrimSpace(res.Stdout)
	}
	if !c.Passed {
		c.Suggestion = "install Node.js 22 or newer"
	}
	return c
}

func (d *Diagnostics) checkConfigFile(context.Context) Check {
	c := Check{Name: "Configuration file"}
	if _, err := os.Stat(d.ConfigFile); err != nil {
		c.Message = "configuration file does not exist"
		c.Suggestion = "run openclaw once to initialize its configuration"
		return c
	}
	c.Passed = true
	c.Message = "configuration file exists: " + d.ConfigFile
	return c
}

// Version returns the output of "openclaw --version", or false when the CLI
// is missing or fails.
func (d *Diagnostics) Version(ctx context.Context) (string, bool) {
	res, err := d.CLI.Run(ctx, "--version")
	if err != nil || !res.Success {
		logger.Debug("[DEBUG] Failed to get openclaw version: %v %s\n", err, res.Combined())
		return "", false
	}
	return strings.TrimSpace(res.Stdout), true
}

// NodeVersion returns the output of "node --version" when node is on the PATH.
func (d *Diagnostics) NodeVersion(ctx context.Context) (string, bool) {
	if !shell.CommandExists("node", d.PathEnv) {
		return "", false
	}
	res, err := d.Runner.Run(ctx, shell.Command{Name: "node", Args: []string{"--version"}})
	if err != nil || !res.Success {
		return "", false
	}
	return strings.TrimSpace(res.Stdout), true
}

// PortInUse reports whether something listens on port. The gateway port is
// checked through "openclaw health", other ports with a TCP connect.
func (d *Diagnostics) PortInUse(ctx context.Context, port int) bool {
	if port == d.GatewayPort {
		res, err := d.CLI.Run(ctx, "health", "--timeout", "2000")
		return err == nil && res.Success
	}

	dialer := net.Dialer{Timeout: 500 * time.Millisecond}
	conn, err := dialer.DialContext(ctx, "tcp", net.JoinHostPort("127.0.0.1", strconv.Itoa(port)))
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}

// AITestResult is the outcome of a round trip through the configured model.
type AITestResult struct {
	Success   bool   `json:"success"`
	Provider  string `json:"provider"`
	Model     string `json:"model"`
	Response  string `json:"response,omitempty"`
	Error     string `json:"error,omitempty"`
	LatencyMs int64  `json:"latencyMs"`
}

// agentTemplates are the workspace files "openclaw agent" refuses to run without.
var agentTemplates = []string{
	"AGENTS.md", "SOUL.md", "TOOLS.md", "IDENTITY.md", "USER.md", "HEARTBEAT.md", "BOOTSTRAP.md",
}

// TestAI asks the local agent for a short reply in a throwaway workspace.
func (d *Diagnostics) TestAI(ctx context.Context) (AITestResult, error) {
	ws, err := CreateAgentWorkspace(os.TempDir())
	if err != nil {
		return AITestResult{}, err
	}
	defer os.RemoveAll(ws)

	result := AITestResult{Provider: "current", Model: "default"}
	start := time.Now()
	res, err := d.CLI.RunIn(ctx, ws, "agent", "--local", "--to", "+1234567890", "--message", "Reply with OK")
	result.LatencyMs = time.Since(start).Milliseconds()
	logger.Info("[INFO] Agent finished in %dms\n", result.LatencyMs)

	switch {
	case err != nil:
		result.Error = err.Error()
	case !res.Success:
		result.Error = res.Combined()
	default:
		reply := output.AgentReply(res.Stdout)
		if output.LooksSuccessful(res.Stdout) {
			result.Success = true
			result.Response = reply
		} else {
			logger.Warn("[WARN] AI connection test failed: %s\n", reply)
			result.Error = reply
		}
	}
	return result, nil
}

// CreateAgentWorkspace creates a workspace directory under parent with
// placeholder agent templates in docs/reference/templates.
func CreateAgentWorkspace(parent string) (string, error) {
	root, err := os.MkdirTemp(parent, "openclaw-manager-agent-test-")
	if err != nil {
		return "", fmt.Errorf("failed to create agent workspace: %w", err)
	}
	templates := filepath.Join(root, "docs", "reference", "templates")
	if err := os.MkdirAll(templates, 0755); err != nil {
		return "", fmt.Errorf("failed to create agent workspace: %w", err)
	}

	placeholder := []byte("# Placeholder\nMinimal template for the claw-manager AI connection test.\n")
	for _, name := range agentTemplates {
		if err := os.WriteFile(filepath.Join(templates, name), placeholder, 0644); err != nil {
			return "", fmt.Errorf("failed to write %s: %w", name, err)
		}
	}
	logger.Debug("[DEBUG] Agent workspace: %s\n", root)
	return root, nil
}
