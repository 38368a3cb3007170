package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kpauljoseph/invoice-renamer/pkg/updater"
	"github.com/kpauljoseph/invoice-renamer/pkg/version"
)

var (
	versionCheck bool
	releaseURL   = updater.DefaultReleaseURL
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprint(cmd.OutOrStdout(), version.GetDetailedVersionInfo())
		if !versionCheck {
			return nil
		}

		info, err := updater.NewChecker(appLog, updater.WithReleaseURL(releaseURL)).CheckForUpdates(cmd.Context())
		if errors.Is(err, updater.ErrNoRelease) {
			printf(cmd, "No release has been published yet.")
			return nil
		}
		if err != nil {
			return fmt.Errorf("checking for updates: %w", err)
		}

		if info.IsAvailable {
			printf(cmd, "Update available: %s -> %s", info.CurrentVersion, info.LatestVersion)
			printf(cmd, "Download: %s", info.DownloadURL)
			return nil
		}
		printf(cmd, "You are running the latest version (%s).", info.LatestVersion)
		return nil
	},
}

func init() {
	versionCmd.Flags().BoolVar(&versionCheck, "check", false, "check GitHub for a newer release")
	rootCmd.AddCommand(versionCmd)
}
