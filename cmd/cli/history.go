package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newHistoryCommand() *cobra.Command {
	var (
		limit    int
		clearAll bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List previously suggested commands",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := openHistory()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if clearAll {
				if err := store.Clear(); err != nil {
					return err
				}
				fmt.Fprintln(out, "History cleared.")
				return nil
			}

			entries, err := store.List(limit)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintln(out, "No history yet.")
				return nil
			}

			// "*" marks commands that were run.
			for _, e := range entries {
				mark := " "
				if e.Executed {
					mark = "*"
				}
				fmt.Fprintf(out, "%s %s %-9s %s  # %s\n", e.Time.Local().Format("2006-01-02 15:04"), mark, e.Backend, e.Command, e.Wish)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of entries to show (0 for all)")
	cmd.Flags().BoolVar(&clearAll, "clear", false, "delete the history")
	return cmd
}
