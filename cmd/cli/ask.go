package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kcaldas/star-shell/pkg/backend"
	"github.com/kcaldas/star-shell/pkg/history"
	"github.com/kcaldas/star-shell/pkg/logging"
	"github.com/kcaldas/star-shell/pkg/shell"
	"github.com/spf13/cobra"
)

type askFlags struct {
	explain bool
	backend string
	yes     bool
	copy    bool
	dryRun  bool
}

func newAskCommand() *cobra.Command {
	var flags askFlags

	cmd := &cobra.Command{
		Use:   "ask <wish...>",
		Short: "Suggest a shell command for what you describe",
		Long: `Ask the configured backend for a command that fulfils your wish.

Input piped on stdin is sent along as context. On a terminal you are asked
before the command runs; otherwise it is only printed unless --yes is given.`,
		Example: `  star-shell ask list the 10 largest files in this directory
  star-shell ask -e find files changed in the last day
  git log --oneline | star-shell ask count the commits per author --dry-run`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAsk(cmd, strings.Join(args, " "), flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.explain, "explain", "e", false, "also describe what the command does")
	cmd.Flags().StringVarP(&flags.backend, "backend", "b", "", "backend to use ("+strings.Join(backend.Names(), ", ")+")")
	cmd.Flags().BoolVarP(&flags.yes, "yes", "y", false, "run the command without asking")
	cmd.Flags().BoolVarP(&flags.copy, "copy", "c", false, "copy the command to the clipboard")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "print the command but never run it")

	return cmd
}

func runAsk(cmd *cobra.Command, wish string, flags askFlags) error {
	ctx := cmd.Context()
	in, out, errOut := cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr()
	logger := logging.NewComponentLogger("cli.ask")

	var askOpts []backend.AskOption
	if hasStdinInput(in) {
		piped, err := readStdinInput(in)
		if err != nil {
			return err
		}
		if piped != "" {
			logger.Debug("forwarding piped input", "bytes", len(piped))
			askOpts = append(askOpts, backend.WithContext(piped))
		}
	}

	g, err := newGenie(flags.backend)
	if err != nil {
		return err
	}

	suggestion, err := g.Ask(ctx, wish, flags.explain, askOpts...)
	if err != nil {
		return err
	}

	colors := newPalette(out)
	fmt.Fprintf(out, "%s%s%s\n", colors.command, suggestion.Command, colors.reset)
	if suggestion.Description != "" {
		fmt.Fprintf(out, "%s%s%s\n", colors.muted, suggestion.Description, colors.reset)
	}

	if flags.copy {
		if err := copyToClipboard(suggestion.Command); err != nil {
			logger.Warn("could not copy to clipboard", "error", err)
		} else {
			fmt.Fprintln(errOut, "Copied to clipboard.")
		}
	}

	run := false
	switch {
	case flags.dryRun:
	case flags.yes:
		run = true
	case isTerminal(in) && isTerminal(out):
		run = promptConfirm(in, out, "Run this command?")
	default:
		fmt.Fprintln(errOut, "Not a terminal; re-run with --yes to execute.")
	}

	var runErr error
	if run {
		executor := shell.NewExecutor(userShell())
		executor.Stdin, executor.Stdout, executor.Stderr = in, out, errOut
		runErr = executor.Execute(ctx, suggestion.Command)
	}

	var exitErr *shell.ExitError
	executed := run && (runErr == nil || errors.As(runErr, &exitErr))
	recordHistory(logger, history.Entry{
		Wish:     wish,
		Command:  suggestion.Command,
		Backend:  g.Status().Backend,
		Executed: executed,
	})

	return runErr
}

// recordHistory appends entry; failures are logged, never returned.
func recordHistory(logger logging.Logger, entry history.Entry) {
	store, err := openHistory()
	if err != nil {
		logger.Warn("history unavailable", "error", err)
		return
	}
	if _, err := store.Append(entry); err != nil {
		logger.Warn("could not record history", "path", store.Path(), "error", err)
	}
}
