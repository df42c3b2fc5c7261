package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/CaptShanks/cratestack/internal/updater"
)

func newVersionCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version and check for a newer release",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(a.stdout, "cratestack v%s\n", version)
			if a.cfg.SkipUpdateCheck {
				return nil
			}
			latest, hasUpdate, err := a.checker().CheckLatestWithCache(version)
			if err != nil {
				a.log.Warn("update check failed", zap.Error(err))
				return nil
			}
			if hasUpdate {
				fmt.Fprintf(a.stdout, "\nUpdate available: v%s. Run 'cratestack upgrade' to update (or re-run the install script).\n", latest)
			}
			return nil
		},
	}
}

func newUpgradeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "upgrade",
		Short: "Replace this binary with the latest GitHub release",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := a.checker()
			_, hasUpdate, err := c.CheckLatest(version)
			if err != nil {
				fmt.Fprintln(a.stderr, updater.CurlFallbackMessage(err))
				return fmt.Errorf("failed to check for updates: %w", err)
			}
			if !hasUpdate {
				fmt.Fprintln(a.stdout, "Already up to date.")
				return nil
			}

			newVer, err := c.Upgrade(version)
			if err != nil {
				fmt.Fprintln(a.stderr, updater.CurlFallbackMessage(err))
				return fmt.Errorf("upgrade failed: %w", err)
			}
			fmt.Fprintf(a.stdout, "Upgraded to v%s. Restart cratestack to use the new version.\n", newVer)
			return nil
		},
	}
}
