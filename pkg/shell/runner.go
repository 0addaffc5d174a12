// Package shell runs external processes: bounded probes with captured output
// (Runner) and user commands attached to the terminal (Executor).
package shell

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"time"
)

// waitDelay bounds how long Wait blocks on I/O after the process is killed,
// so a grandchild holding the pipes open can not hang the caller.
const waitDelay = 2 * time.Second

// Output holds the captured result of a finished process.
type Output struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Runner abstracts command execution for testability.
type Runner interface {
	LookPath(file string) (string, error)
	// Run executes name with args and waits for it. A non-zero exit status
	// is reported as an *exec.ExitError together with the captured Output.
	// When ctx expires the process is killed and ctx.Err() is returned.
	Run(ctx context.Context, name string, args ...string) (Output, error)
}

// RealRunner implements Runner using actual OS commands.
type RealRunner struct{}

// LookPath searches for an executable in PATH.
func (r *RealRunner) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

// Run executes a command and returns its output.
func (r *RealRunner) Run(ctx context.Context, name string, args ...string) (Output, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.WaitDelay = waitDelay

	var outBuf, errBuf bytes.Buffer
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf

	err := cmd.Run()
	out := Output{
		Stdout:   outBuf.String(),
		Stderr:   errBuf.String(),
		ExitCode: exitCode(cmd, err),
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return out, ctxErr
	}
	return out, err
}

func exitCode(cmd *exec.Cmd, err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	if cmd.ProcessState != nil {
		return cmd.ProcessState.ExitCode()
	}
	return -1
}

// MockRunner is a test double for Runner.
type MockRunner struct {
	LookPathFunc func(file string) (string, error)
	RunFunc      func(ctx context.Context, name string, args ...string) (Output, error)
}

// LookPath calls the mock function.
func (m *MockRunner) LookPath(file string) (string, error) {
	return m.LookPathFunc(file)
}

// Run calls the mock function.
func (m *MockRunner) Run(ctx context.Context, name string, args ...string) (Output, error) {
	return m.RunFunc(ctx, name, args...)
}
