package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var autosetupCmd = &cobra.Command{
	Use:   "autosetup",
	Short: "Create default config entries for every field that has none",
	Args:  cobra.NoArgs,
	// Startup autosetup is skipped so the count reports this run.
	Annotations: map[string]string{skipAutosetup: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		created, err := app.registry.Autosetup(appCtx)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), map[string]int{"created": created})
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created %d config entries\n", created)
		return nil
	},
}
