package smoke

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"

	"github.com/kcaldas/star-shell/pkg/shell"
)

const (
	DefaultExecutable  = "star-shell"
	DefaultHelpTimeout = 10 * time.Second
)

// CLIHelpCheck runs `<executable> --help` and passes on exit status 0.
type CLIHelpCheck struct {
	Runner     shell.Runner
	Executable string
	Timeout    time.Duration
}

func (c *CLIHelpCheck) Name() string { return "cli help" }

func (c *CLIHelpCheck) Run(ctx context.Context, w io.Writer) bool {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultHelpTimeout
	}
	executable := c.Executable
	if executable == "" {
		executable = DefaultExecutable
	}
	runner := c.Runner
	if runner == nil {
		runner = &shell.RealRunner{}
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	out, err := runner.Run(ctx, executable, "--help")

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		fmt.Fprintln(w, "✅ CLI help command works!")
		return true
	case errors.As(err, &exitErr):
		fmt.Fprintf(w, "❌ CLI help failed: %s\n", strings.TrimRight(out.Stderr, "\r\n"))
	case errors.Is(err, context.DeadlineExceeded):
		fmt.Fprintf(w, "❌ CLI test error: %s --help timed out after %s\n", executable, timeout)
	default:
		fmt.Fprintf(w, "❌ CLI test error: %v\n", err)
	}
	return false
}
