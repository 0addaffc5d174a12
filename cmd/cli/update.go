package cli

import (
	"context"
	"fmt"

	"github.com/kcaldas/star-shell/pkg/update"
	"github.com/kcaldas/star-shell/pkg/version"
	"github.com/spf13/cobra"
)

// selfUpdater is the part of *update.Updater used by the update command.
type selfUpdater interface {
	CheckForUpdates(ctx context.Context) (*update.UpdateInfo, error)
	Update(ctx context.Context, force bool) (*update.UpdateInfo, error)
}

var newUpdater = func() (selfUpdater, error) { return update.NewUpdater() }

// newUpdateCommand creates the update command
func newUpdateCommand() *cobra.Command {
	var checkOnly, force bool

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update star-shell to the latest version",
		Long: `Update star-shell to the latest version from GitHub releases.

Examples:
  star-shell update           # Update to latest version
  star-shell update --check   # Check for updates without updating
  star-shell update --force   # Reinstall even if already current`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			updater, err := newUpdater()
			if err != nil {
				return fmt.Errorf("failed to create updater: %w", err)
			}
			if checkOnly {
				return checkForUpdates(cmd, updater)
			}
			return performUpdate(cmd, updater, force)
		},
	}

	cmd.Flags().BoolVar(&checkOnly, "check", false, "Check for updates without updating")
	cmd.Flags().BoolVar(&force, "force", false, "Force update even if current version is latest")

	return cmd
}

func checkForUpdates(cmd *cobra.Command, updater selfUpdater) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Current version: %s\n", version.GetVersion())
	fmt.Fprintln(out, "Checking for updates...")

	info, err := updater.CheckForUpdates(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to check for updates: %w", err)
	}

	fmt.Fprintf(out, "Latest version: %s\n", info.LatestVersion)
	if !info.UpdateNeeded {
		fmt.Fprintln(out, "✅ You are already using the latest version.")
		return nil
	}

	fmt.Fprintln(out, "🎉 A new version is available!")
	fmt.Fprintf(out, "Current: %s → Latest: %s\n", info.CurrentVersion, info.LatestVersion)
	if info.ReleaseNotes != "" {
		fmt.Fprintf(out, "\nRelease Notes:\n%s\n", info.ReleaseNotes)
	}
	fmt.Fprintln(out, "\nRun 'star-shell update' to update to the latest version.")
	return nil
}

func performUpdate(cmd *cobra.Command, updater selfUpdater, force bool) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Current version: %s\n", version.GetVersion())
	if force {
		fmt.Fprintln(out, "🔄 Force updating...")
	}

	info, err := updater.Update(cmd.Context(), force)
	if err != nil {
		return fmt.Errorf("update failed: %w", err)
	}

	if !info.UpdateNeeded && !force {
		fmt.Fprintf(out, "✅ You are already using the latest version (%s).\n", info.LatestVersion)
		fmt.Fprintln(out, "Use --force to reinstall the current version.")
		return nil
	}

	fmt.Fprintf(out, "✅ Successfully updated to version %s!\n", info.LatestVersion)
	fmt.Fprintln(out, "\n🚀 Restart star-shell to use the new version.")
	return nil
}
