package cli

import (
	"log/slog"

	"github.com/kcaldas/star-shell/pkg/logging"
	"github.com/kcaldas/star-shell/pkg/version"
	"github.com/spf13/cobra"
)

// RootCmd is the star-shell command tree used by main.
var RootCmd = NewRootCommand()

// NewRootCommand builds the star-shell root command with all subcommands.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "star-shell",
		Short: "Turn natural language into shell commands",
		Long: `star-shell asks an LLM backend (OpenAI, Gemini or Anthropic) for the shell
command that does what you describe, shows it, optionally explains it and
runs it once you confirm.

Run 'star-shell init' once to pick a backend and store its API key.`,
		Version:           version.GetVersion(),
		SilenceUsage:      true,
		PersistentPreRunE: configureLogging,
	}
	cmd.SetVersionTemplate(version.GetInfo().String() + "\n")

	cmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output (debug level)")
	cmd.PersistentFlags().BoolP("quiet", "q", false, "quiet output (errors only)")

	cmd.AddCommand(
		newAskCommand(),
		newExplainCommand(),
		newInitCommand(),
		newStatusCommand(),
		newHistoryCommand(),
		newVersionCommand(),
		newUpdateCommand(),
	)
	return cmd
}

// configureLogging installs the global logger selected by --verbose/--quiet.
func configureLogging(cmd *cobra.Command, _ []string) error {
	verbose, _ := cmd.Flags().GetBool("verbose")
	quiet, _ := cmd.Flags().GetBool("quiet")

	level := slog.LevelInfo
	switch {
	case quiet:
		level = slog.LevelError
	case verbose:
		level = slog.LevelDebug
	}

	logging.SetGlobalLogger(logging.NewLogger(logging.Config{
		Level:   level,
		Format:  logging.FormatText,
		Output:  cmd.ErrOrStderr(),
		AddTime: false,
	}))
	return nil
}
