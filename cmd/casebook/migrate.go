package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/phrazzld/casebook/internal/platform/postgres"
)

var migrateCmd = &cobra.Command{
	Use:         "migrate [up|down|status|reset]",
	Short:       "Manage the database schema",
	Long:        "Apply, roll back, or report the embedded schema migrations. Defaults to up.",
	Args:        cobra.MaximumNArgs(1),
	ValidArgs:   []string{postgres.MigrateUp, postgres.MigrateDown, postgres.MigrateStatus, postgres.MigrateReset},
	Annotations: map[string]string{skipMigrate: "true", skipAutosetup: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		command := postgres.MigrateUp
		if len(args) == 1 {
			command = args[0]
		}
		if app.backend.db == nil {
			return errors.New("migrate needs a database; it cannot run with --memory")
		}
		if err := postgres.Migrate(appCtx, app.backend.db, command, app.logger); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "migrate %s: done\n", command)
		return nil
	},
}
