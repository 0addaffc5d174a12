package cli

import (
	"fmt"
	"strings"

	"github.com/kcaldas/star-shell/pkg/backend"
	"github.com/kcaldas/star-shell/pkg/logging"
	"github.com/spf13/cobra"
)

const explainWidth = 80

func newExplainCommand() *cobra.Command {
	var backendName string

	cmd := &cobra.Command{
		Use:     "explain <command...>",
		Short:   "Explain what a shell command does",
		Example: `  star-shell explain tar -xzvf archive.tar.gz -C /tmp`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := newGenie(backendName)
			if err != nil {
				return err
			}

			text, err := g.Explain(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if isTerminal(out) {
				rendered, err := renderMarkdown(text, explainWidth)
				if err == nil {
					fmt.Fprint(out, rendered)
					return nil
				}
				logging.NewComponentLogger("cli.explain").Debug("markdown rendering failed", "error", err)
			}
			fmt.Fprintln(out, text)
			return nil
		},
	}

	// Flags after the first argument belong to the explained command.
	cmd.Flags().SetInterspersed(false)
	cmd.Flags().StringVarP(&backendName, "backend", "b", "", "backend to use ("+strings.Join(backend.Names(), ", ")+")")
	return cmd
}
