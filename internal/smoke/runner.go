// Package smoke verifies an installed star-shell: its package surface
// resolves, `star-shell --help` exits cleanly and OS detection works.
package smoke

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/kcaldas/star-shell/pkg/logging"
	"github.com/kcaldas/star-shell/pkg/shell"
)

const (
	header   = "🧪 Testing star-shell package locally..."
	allPass  = "🎉 All tests passed! Package is ready for release!"
	somePass = "⚠️  Some tests failed. Check the issues above."
)

var rule = strings.Repeat("=", 50)

// Check is a single smoke check. Run prints its own result lines to w and
// reports whether the check passed.
type Check interface {
	Name() string
	Run(ctx context.Context, w io.Writer) bool
}

// Summary folds check results. Passed never exceeds Total.
type Summary struct {
	Passed int
	Total  int
}

// AllPassed reports whether every check passed.
func (s Summary) AllPassed() bool {
	return s.Passed == s.Total
}

// Runner runs checks in order and prints the transcript to Out.
type Runner struct {
	Out    io.Writer
	Checks []Check
	Logger logging.Logger
}

// NewRunner returns a runner over checks.
func NewRunner(out io.Writer, logger logging.Logger, checks ...Check) *Runner {
	return &Runner{Out: out, Checks: checks, Logger: logger}
}

// DefaultChecks returns the import, CLI help and OS info checks in the order
// they run.
func DefaultChecks(resolve Resolver, runner shell.Runner) []Check {
	return []Check{
		&ImportCheck{Resolve: resolve},
		&CLIHelpCheck{Runner: runner},
		&OSInfoCheck{Resolve: resolve},
	}
}

// RunAllChecks runs every check once, in order, and prints the summary.
// A failing check never stops the ones after it.
func (r *Runner) RunAllChecks(ctx context.Context) Summary {
	fmt.Fprintln(r.Out, header)
	fmt.Fprintln(r.Out, rule)

	var summary Summary
	for _, check := range r.Checks {
		passed := r.run(ctx, check)
		r.logger().Debug("check finished", "check", check.Name(), "passed", passed)
		if passed {
			summary.Passed++
		}
		summary.Total++
		fmt.Fprintln(r.Out)
	}

	fmt.Fprintln(r.Out, rule)
	fmt.Fprintf(r.Out, "📊 Tests passed: %d/%d\n", summary.Passed, summary.Total)
	if summary.AllPassed() {
		fmt.Fprintln(r.Out, allPass)
	} else {
		fmt.Fprintln(r.Out, somePass)
	}
	return summary
}

// run executes check, turning a panic into a failed result.
func (r *Runner) run(ctx context.Context, check Check) (passed bool) {
	defer func() {
		if p := recover(); p != nil {
			r.logger().Error("check panicked", "check", check.Name(), "panic", p)
			fmt.Fprintf(r.Out, "❌ %s failed: %v\n", check.Name(), p)
			passed = false
		}
	}()
	return check.Run(ctx, r.Out)
}

func (r *Runner) logger() logging.Logger {
	if r.Logger == nil {
		return logging.NewDisabledLogger()
	}
	return r.Logger
}
