// Package shell runs openclaw and the other programs the manager depends on.
package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"claw-manager/internal/logger"
)

// Result is the captured outcome of a finished process.
type Result struct {
	Success bool
	Stdout  string
	Stderr  string
}

// Combined joins stdout and stderr the way failed CLI runs are reported.
func (r Result) Combined() string {
	return strings.TrimSpace(r.Stdout + "\n" + r.Stderr)
}

// Output is stdout for a successful run and the combined streams otherwise.
func (r Result) Output() string {
	if r.Success {
		return r.Stdout
	}
	return r.Combined()
}

// waitDelay bounds how long Run waits for output pipes after the process was
// killed, since grandchildren may keep them open.
const waitDelay = 2 * time.Second

// Command is a program invocation.
type Command struct {
	Name string
	Args []string
	Dir  string            // working directory; empty means the current one
	Env  map[string]string // variables added on top of the runner's environment
}

// Runner runs an external program to completion.
// A non-zero exit is not an error: it is reported through Result.Success.
// Errors mean the program could not be started or was cancelled.
type Runner interface {
	Run(ctx context.Context, cmd Command) (Result, error)
}

// ExecRunner runs programs with os/exec.
type ExecRunner struct {
	Env  map[string]string // extra environment variables for every command
	Path string            // PATH for the child; empty keeps the inherited one
}

// Run starts the command and waits for it. Windows .cmd/.bat shims are
// started through "cmd /c".
func (r *ExecRunner) Run(ctx context.Context, c Command) (Result, error) {
	name := c.Name
	// exec resolves bare names against our own PATH, not the child's
	if r.Path != "" && !strings.ContainsAny(name, `/\`) {
		if p, ok := LookPath(name, r.Path); ok {
			name = p
		}
	}
	name, args := wrapScript(name, c.Args)

	env := make(map[string]string, len(r.Env)+len(c.Env))
	for k, v := range r.Env {
		env[k] = v
	}
	for k, v := range c.Env {
		env[k] = v
	}

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = c.Dir
	cmd.Env = buildEnv(env, r.Path)
	cmd.WaitDelay = waitDelay
	hideWindow(cmd)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	logger.Debug("[DEBUG] Running command: %s %s\n", name, strings.Join(args, " "))
	err := cmd.Run()
	res := Result{Stdout: stdout.String(), Stderr: stderr.String()}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		res.Success = true
	case ctx.Err() != nil:
		return res, fmt.Errorf("%s: %w", name, ctx.Err())
	case errors.As(err, &exitErr):
		logger.Debug("[DEBUG] %s exited with code %d\n", name, exitErr.ExitCode())
	default:
		return res, fmt.Errorf("failed to run %s: %w", name, err)
	}
	return res, nil
}

// wrapScript routes Windows batch shims through cmd.exe.
func wrapScript(name string, args []string) (string, []string) {
	lower := strings.ToLower(name)
	if !strings.HasSuffix(lower, ".cmd") && !strings.HasSuffix(lower, ".bat") {
		return name, args
	}
	return "cmd", append([]string{"/c", name}, args...)
}
