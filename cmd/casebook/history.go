package main

import (
	"github.com/spf13/cobra"

	"github.com/phrazzld/casebook/internal/domain"
)

var historyCmd = &cobra.Command{
	Use:       "history <config|practical_support> <id|key>",
	Short:     "Show the audit trail of a config entry or practical support entry",
	Args:      cobra.ExactArgs(2),
	ValidArgs: []string{domain.EntityConfig, domain.EntityPracticalSupport},
	RunE: func(cmd *cobra.Command, args []string) error {
		trail, err := app.history(appCtx, args[0], args[1])
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), trail)
		}
		return printHistoryTable(cmd.OutOrStdout(), trail)
	},
}
