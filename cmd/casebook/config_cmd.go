package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/phrazzld/casebook/internal/domain"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Read and edit configured option lists",
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every field with its options",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rows, err := settingRows()
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), rows)
		}
		return printSettingsTable(cmd.OutOrStdout(), rows)
	},
}

// settingRows lists the field table in order, followed by any persisted
// entries whose key the table no longer defines.
func settingRows() ([]settingRow, error) {
	fields := app.registry.Fields()
	rows := make([]settingRow, 0, len(fields))
	known := make(map[string]bool, len(fields))
	for _, f := range fields {
		options, err := app.registry.Options(appCtx, f.Key)
		if err != nil {
			return nil, err
		}
		rows = append(rows, settingRow{Key: f.Key, Options: options, Help: f.HelpText})
		known[f.Key] = true
	}

	entries, err := app.registry.Entries(appCtx)
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		if !known[e.Key] {
			rows = append(rows, settingRow{Key: e.Key, Options: e.Options()})
		}
	}
	return rows, nil
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print the options of one field, one per line",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		options, err := app.registry.Options(appCtx, args[0])
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), options)
		}
		for _, o := range options {
			fmt.Fprintln(cmd.OutOrStdout(), o)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> [option...]",
	Short: "Replace the options of a field",
	Long: "Replace the options of a field. Options are stored in the order given;\n" +
		"blank options are dropped. With no options the list is emptied.",
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		entry, err := app.registry.SetOptions(appCtx, args[0], args[1:])
		if entry == nil {
			if ve, ok := domain.AsValidationError(err); ok {
				return fmt.Errorf("config failed to save: %s", strings.Join(ve.FullMessages(), ", "))
			}
			return err
		}
		if jsonOutput {
			if perr := printJSON(cmd.OutOrStdout(), entry); perr != nil {
				return perr
			}
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", entry.Key, strings.Join(entry.Options(), ", "))
		}
		// The entry was saved; a non-nil err reports a failed audit event.
		return err
	},
}

var configHelpCmd = &cobra.Command{
	Use:   "help <key>",
	Short: "Print the help text of a field",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, ok := app.registry.Definition(args[0]); !ok {
			return fmt.Errorf("no field named %q", args[0])
		}
		fmt.Fprintln(cmd.OutOrStdout(), app.registry.HelpText(args[0]))
		return nil
	},
}

func init() {
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configHelpCmd)
}
