package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/wardenhq/warden/pkg/presenter"
	"github.com/wardenhq/warden/pkg/prompts"
)

var promptCmd = &cobra.Command{
	Use:   "prompt",
	Short: "Browse discovered prompt assets (commands, agents, rules)",
}

var promptListCmd = &cobra.Command{
	Use:   "list",
	Short: "List discovered prompt assets",
	RunE: func(cmd *cobra.Command, args []string) error {
		discovery, err := prompts.NewDiscovery()
		if err != nil {
			return err
		}

		assets, err := discovery.DiscoverAssets()
		if err != nil {
			return err
		}
		if len(assets) == 0 {
			presenter.Info("No prompt assets found under ./.warden or ~/.warden")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "KIND\tNAME\tSOURCE\tDESCRIPTION")
		for _, asset := range assets {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", asset.Kind, asset.Name, asset.Source, asset.Description)
		}
		return w.Flush()
	},
}

var promptShowCmd = &cobra.Command{
	Use:   "show <kind> <name>",
	Short: "Show one prompt asset",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		discovery, err := prompts.NewDiscovery()
		if err != nil {
			return err
		}

		asset, err := discovery.GetAsset(args[0], args[1])
		if err != nil {
			return err
		}

		content, err := os.ReadFile(asset.Path)
		if err != nil {
			return err
		}
		fmt.Print(string(content))
		return nil
	},
}

func init() {
	promptCmd.AddCommand(promptListCmd)
	promptCmd.AddCommand(promptShowCmd)
}
