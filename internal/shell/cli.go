package shell

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrCLINotFound is returned when the openclaw executable cannot be located.
var ErrCLINotFound = errors.New("openclaw executable not found")

// CLI runs the openclaw command-line program.
type CLI struct {
	Locator *Locator
	Runner  Runner
	Timeout time.Duration // per invocation; zero means no limit
	Hint    string        // install hint appended to ErrCLINotFound
}

// Path returns the located executable.
func (c *CLI) Path(ctx context.Context) (string, error) {
	p, ok := c.Locator.Find(ctx)
	if !ok {
		if c.Hint != "" {
			return "", fmt.Errorf("%w, install it with: %s", ErrCLINotFound, c.Hint)
		}
		return "", ErrCLINotFound
	}
	return p, nil
}

// Run runs openclaw with args in the current directory.
func (c *CLI) Run(ctx context.Context, args ...string) (Result, error) {
	return c.RunIn(ctx, "", args...)
}

// RunIn runs openclaw with args in dir.
func (c *CLI) RunIn(ctx context.Context, dir string, args ...string) (Result, error) {
	path, err := c.Path(ctx)
	if err != nil {
		return Result{}, err
	}

	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	res, err := c.Runner.Run(ctx, Command{Name: path, Args: args, Dir: dir})
	if err != nil {
		return res, fmt.Errorf("failed to run openclaw: %w", err)
	}
	return res, nil
}
