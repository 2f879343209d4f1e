package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/phrazzld/casebook/internal/domain"
	"github.com/phrazzld/casebook/internal/service"
)

var supportCmd = &cobra.Command{
	Use:   "support",
	Short: "Log practical support against patients",
}

// supportFailure renders a service error as the message a case manager sees.
func supportFailure(err error) error {
	if err == nil {
		return nil
	}
	return errors.New(service.FailureMessage(err))
}

func printSupport(cmd *cobra.Command, ps *domain.PracticalSupport) error {
	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), ps)
	}
	return printSupportTable(cmd.OutOrStdout(), []*domain.PracticalSupport{ps})
}

var supportListCmd = &cobra.Command{
	Use:   "list <patient-id>",
	Short: "List a patient's practical support, oldest first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		patientID, err := parseID(args[0])
		if err != nil {
			return err
		}
		entries, err := app.supportService.ListForPatient(appCtx, patientID)
		if err != nil {
			return supportFailure(err)
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), entries)
		}
		return printSupportTable(cmd.OutOrStdout(), entries)
	},
}

var supportAddCmd = &cobra.Command{
	Use:   "add <patient-id>",
	Short: "Log practical support for a patient",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		patientID, err := parseID(args[0])
		if err != nil {
			return err
		}

		supportType, _ := cmd.Flags().GetString("type")
		source, _ := cmd.Flags().GetString("source")
		confirmed, _ := cmd.Flags().GetBool("confirmed")

		ps, err := app.supportService.Create(appCtx, patientID, domain.PracticalSupportParams{
			SupportType: supportType,
			Source:      source,
			Confirmed:   confirmed,
		})
		if ps == nil {
			return supportFailure(err)
		}
		if perr := printSupport(cmd, ps); perr != nil {
			return perr
		}
		return err
	},
}

var supportUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Change a practical support entry",
	Long:  "Change a practical support entry. Fields whose flags are not given keep their value.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		current, err := app.supportService.Get(appCtx, id)
		if err != nil {
			return supportFailure(err)
		}
		params := domain.PracticalSupportParams{
			SupportType: current.SupportType,
			Source:      current.Source,
			Confirmed:   current.Confirmed,
		}
		if cmd.Flags().Changed("type") {
			params.SupportType, _ = cmd.Flags().GetString("type")
		}
		if cmd.Flags().Changed("source") {
			params.Source, _ = cmd.Flags().GetString("source")
		}
		if cmd.Flags().Changed("confirmed") {
			params.Confirmed, _ = cmd.Flags().GetBool("confirmed")
		}

		ps, err := app.supportService.Update(appCtx, id, params)
		if ps == nil {
			return supportFailure(err)
		}
		if perr := printSupport(cmd, ps); perr != nil {
			return perr
		}
		return err
	},
}

var supportDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a practical support entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if err := app.supportService.Delete(appCtx, id); err != nil {
			return supportFailure(err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", id)
		return nil
	},
}

var supportOptionsCmd = &cobra.Command{
	Use:   "options",
	Short: "List the selectable support types and sources",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		types, err := app.supportService.SupportTypes(appCtx)
		if err != nil {
			return err
		}
		sources, err := app.supportService.Sources(appCtx)
		if err != nil {
			return err
		}
		hidden, err := app.registry.HidePracticalSupport(appCtx)
		if err != nil {
			return err
		}

		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), map[string]any{
				"support_types": types,
				"sources":       sources,
				"hidden":        hidden,
			})
		}
		out := cmd.OutOrStdout()
		if hidden {
			fmt.Fprintln(out, "Practical support is hidden for this fund.")
		}
		fmt.Fprintln(out, "Support types:")
		for _, t := range types {
			fmt.Fprintf(out, "  %s\n", t)
		}
		fmt.Fprintln(out, "Sources:")
		for _, s := range sources {
			fmt.Fprintf(out, "  %s\n", s)
		}
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{supportAddCmd, supportUpdateCmd} {
		c.Flags().String("type", "", "support type, one of the configured practical_support options")
		c.Flags().String("source", "", "source, a configured pledge source or a fixed source")
		c.Flags().Bool("confirmed", false, "whether the support is confirmed")
	}

	supportCmd.AddCommand(supportListCmd)
	supportCmd.AddCommand(supportAddCmd)
	supportCmd.AddCommand(supportUpdateCmd)
	supportCmd.AddCommand(supportDeleteCmd)
	supportCmd.AddCommand(supportOptionsCmd)
}
