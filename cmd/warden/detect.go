package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/wardenhq/warden/pkg/detect"
	"github.com/wardenhq/warden/pkg/presenter"
)

var detectCmd = &cobra.Command{
	Use:   "detect [dir]",
	Short: "Detect the build and package tools a project uses",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "."
		if len(args) > 0 {
			dir = args[0]
		}

		tools, err := detect.Detect(dir)
		if err != nil {
			return err
		}
		if len(tools) == 0 {
			presenter.Info("No recognized build tool markers found")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "TOOL\tECOSYSTEM\tMARKER\tRUN")
		for _, tool := range tools {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", tool.Name, tool.Ecosystem, tool.Marker, tool.RunCommand)
		}
		return w.Flush()
	},
}
