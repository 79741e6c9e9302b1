package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wardenhq/warden/pkg/installer"
	"github.com/wardenhq/warden/pkg/presenter"
)

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Install warden hooks into the host settings document",
	Long: `Merges warden's hook entries into the assistant host's settings.json.
Unrelated settings and hooks from other tools are preserved, and running
install twice is a no-op.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := installerOptions(cmd)
		if err != nil {
			return err
		}

		result, err := installer.Install(opts)
		if err != nil {
			return err
		}

		if len(result.Installed) > 0 {
			presenter.Success(fmt.Sprintf("Installed hooks: %s", strings.Join(result.Installed, ", ")))
		}
		if len(result.Updated) > 0 {
			presenter.Success(fmt.Sprintf("Updated hooks: %s", strings.Join(result.Updated, ", ")))
		}
		if len(result.Installed) == 0 && len(result.Updated) == 0 {
			presenter.Info("Hooks already installed, nothing to do")
		}
		presenter.Info(fmt.Sprintf("Settings: %s", result.Path))
		return nil
	},
}

var uninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Remove warden hooks from the host settings document",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := installerOptions(cmd)
		if err != nil {
			return err
		}

		result, err := installer.Uninstall(opts)
		if err != nil {
			return err
		}

		if len(result.Removed) > 0 {
			presenter.Success(fmt.Sprintf("Removed hooks: %s", strings.Join(result.Removed, ", ")))
		} else {
			presenter.Info("No warden hooks found, nothing to do")
		}
		presenter.Info(fmt.Sprintf("Settings: %s", result.Path))
		return nil
	},
}

func installerOptions(cmd *cobra.Command) (installer.Options, error) {
	opts := installer.Options{}

	if path, _ := cmd.Flags().GetString("settings"); path != "" {
		opts.SettingsPath = path
	} else if project, _ := cmd.Flags().GetBool("project"); project {
		opts.SettingsPath = installer.ProjectSettingsPath()
	}

	return opts, nil
}

func init() {
	for _, cmd := range []*cobra.Command{installCmd, uninstallCmd} {
		cmd.Flags().Bool("project", false, "Target ./.claude/settings.json instead of the user-global settings")
		cmd.Flags().String("settings", "", "Explicit settings file path (overrides --project)")
	}
}
