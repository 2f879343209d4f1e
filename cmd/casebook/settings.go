package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show the derived settings the application runs with",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		startDay, err := app.registry.StartDay(appCtx)
		if err != nil {
			return err
		}
		budgetMax, err := app.registry.BudgetBarMax(appCtx)
		if err != nil {
			return err
		}
		hideSupport, err := app.registry.HidePracticalSupport(appCtx)
		if err != nil {
			return err
		}

		weekStart := startDay.WeekStart(time.Now()).Format(time.DateOnly)

		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), map[string]any{
				"start_day":              startDay.String(),
				"week_start":             weekStart,
				"budget_bar_max":         budgetMax,
				"hide_practical_support": hideSupport,
			})
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Start day:              %s\n", startDay)
		fmt.Fprintf(out, "Current week began:     %s\n", weekStart)
		fmt.Fprintf(out, "Budget bar max:         %d\n", budgetMax)
		fmt.Fprintf(out, "Hide practical support: %t\n", hideSupport)
		return nil
	},
}

var startDayCmd = &cobra.Command{
	Use:   "start-day",
	Short: "Print the day the reporting week starts on",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		day, err := app.registry.StartDay(appCtx)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), day)
		return nil
	},
}
