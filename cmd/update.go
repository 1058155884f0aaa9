package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/srtcast/srtcast/internal/logging"
	"github.com/srtcast/srtcast/internal/updater"
)

// CreateUpdateCmd creates the update command: check for a newer release
// on GitHub and optionally apply it in place.
func CreateUpdateCmd() *cobra.Command {
	var (
		repository string
		prerelease bool
		checkOnly  bool
		rollback   bool
	)

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update srtcast to the latest release",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			logging.Initialize(logging.Config{Level: "warn", Format: "text"})

			svc, err := updater.NewService(&updater.Options{
				Repository: repository,
				Prerelease: prerelease,
			})
			if err != nil {
				fmt.Fprintln(os.Stderr, "updater init failed:", err)
				os.Exit(1)
			}
			if !svc.IsEnabled() {
				fmt.Fprintln(os.Stderr, "updates disabled:", svc.DisabledReason())
				os.Exit(1)
			}

			ctx := cmd.Context()

			if rollback {
				if err := svc.Rollback(ctx); err != nil {
					fmt.Fprintln(os.Stderr, "rollback failed:", err)
					os.Exit(1)
				}
				status := svc.GetStatus(ctx)
				fmt.Println("rolled back to", status.BackupVersion)
				return
			}

			info, err := svc.CheckForUpdate(ctx)
			if err != nil {
				fmt.Fprintln(os.Stderr, "update check failed:", err)
				os.Exit(1)
			}

			if !info.UpdateAvailable {
				fmt.Printf("%s is up to date\n", info.CurrentVersion)
				return
			}

			fmt.Printf("update available: %s -> %s\n", info.CurrentVersion, info.LatestVersion)
			if info.ReleaseURL != "" {
				fmt.Println(info.ReleaseURL)
			}
			if checkOnly {
				return
			}

			if err := svc.ApplyUpdate(ctx); err != nil {
				fmt.Fprintln(os.Stderr, "update failed:", err)
				os.Exit(1)
			}
			fmt.Println("updated to", info.LatestVersion)
		},
	}

	cmd.Flags().StringVar(&repository, "repo", "srtcast/srtcast", "GitHub repository to update from")
	cmd.Flags().BoolVar(&prerelease, "prerelease", false, "Include prerelease versions")
	cmd.Flags().BoolVar(&checkOnly, "check-only", false, "Only check for updates, do not apply")
	cmd.Flags().BoolVar(&rollback, "rollback", false, "Restore the previous version from backup")

	return cmd
}
