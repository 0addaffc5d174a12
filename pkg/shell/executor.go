package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// ExitError reports a user command that ran but exited non-zero.
type ExitError struct {
	Command string
	Code    int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("command %q exited with status %d", e.Command, e.Code)
}

// Executor runs a command line through the user's shell with the given
// streams attached.
type Executor struct {
	Shell  string
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// NewExecutor returns an executor bound to the process's standard streams.
// An empty shell selects the platform default.
func NewExecutor(shell string) *Executor {
	return &Executor{
		Shell:  shell,
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// commandArgs builds the argv used to run line through shell.
func commandArgs(goos, shell, line string) (string, []string) {
	if goos == "windows" {
		if shell == "" || strings.EqualFold(shell, "cmd") || strings.EqualFold(shell, "cmd.exe") {
			return "cmd", []string{"/C", line}
		}
		if strings.Contains(strings.ToLower(shell), "powershell") || strings.Contains(strings.ToLower(shell), "pwsh") {
			return shell, []string{"-NoProfile", "-Command", line}
		}
	}
	if shell == "" {
		shell = "/bin/sh"
	}
	return shell, []string{"-c", line}
}

// Execute runs line and waits for it to finish.
func (e *Executor) Execute(ctx context.Context, line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return errors.New("empty command")
	}

	name, args := commandArgs(runtime.GOOS, e.Shell, line)
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = e.Stdin
	cmd.Stdout = e.Stdout
	cmd.Stderr = e.Stderr
	cmd.WaitDelay = waitDelay

	err := cmd.Run()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &ExitError{Command: line, Code: exitErr.ExitCode()}
	}
	if err != nil {
		return fmt.Errorf("running %s: %w", name, err)
	}
	return nil
}
