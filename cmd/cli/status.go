package cli

import (
	"fmt"

	"github.com/kcaldas/star-shell/pkg/backend"
	"github.com/kcaldas/star-shell/pkg/config"
	"github.com/spf13/cobra"
)

func newStatusCommand() *cobra.Command {
	var backendName string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the backend configuration and detected environment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			g, err := newGenie(backendName)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			status := g.Status()
			state := "not configured"
			if status.Connected {
				state = "configured"
			}
			fmt.Fprintf(out, "Backend: %s (%s)\n", status.Backend, state)
			if status.Model != "" {
				fmt.Fprintf(out, "Model:   %s\n", status.Model)
			}
			if status.Message != "" {
				fmt.Fprintf(out, "Status:  %s\n", status.Message)
			}

			env := backend.DetectEnvironment(newConfigManager())
			fmt.Fprintf(out, "OS:      %s\n", env.OS)
			fmt.Fprintf(out, "Shell:   %s\n", env.Shell)

			if dir, err := config.Dir(); err == nil {
				fmt.Fprintf(out, "Config:  %s\n", dir)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&backendName, "backend", "b", "", "backend to report on")
	return cmd
}
