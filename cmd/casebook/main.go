// Command casebook administers the casebook settings registry and the
// practical support log.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/phrazzld/casebook/internal/redact"
	"github.com/phrazzld/casebook/internal/store"
)

// Command annotations that turn off a startup step.
const (
	skipMigrate   = "skip-migrate"
	skipAutosetup = "skip-autosetup"
)

var (
	configPath string
	actor      string
	inMemory   bool
	jsonOutput bool

	app    *application
	appCtx context.Context
)

func defaultActor() string {
	if a := os.Getenv("CASEBOOK_ACTOR"); a != "" {
		return a
	}
	out, err := exec.Command("git", "config", "user.name").Output()
	if err == nil {
		name := strings.TrimSpace(string(out))
		if name != "" {
			return name
		}
	}
	return "system"
}

var rootCmd = &cobra.Command{
	Use:           "casebook",
	Short:         "Administer casebook settings and practical support",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		app, appCtx, err = newApplication(cmd.Context(), appOptions{
			configPath: configPath,
			actor:      actor,
			inMemory:   inMemory,
			migrate:    cmd.Annotations[skipMigrate] == "",
			autosetup:  cmd.Annotations[skipAutosetup] == "",
		})
		return err
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if app == nil {
			return nil
		}
		err := app.close()
		app = nil
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a config file")
	rootCmd.PersistentFlags().StringVar(&actor, "actor", defaultActor(), "actor name for created_by and updated_by fields")
	rootCmd.PersistentFlags().BoolVar(&inMemory, "memory", false, "use an in-memory store instead of PostgreSQL")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(autosetupCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(startDayCmd)
	rootCmd.AddCommand(supportCmd)
	rootCmd.AddCommand(historyCmd)
}

func parseID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid id %q: %w", s, err)
	}
	return id, nil
}

// errorMessage renders err for the terminal with credentials removed.
func errorMessage(err error) string {
	msg := "Error: " + redact.Error(err)
	if store.IsUnavailableError(err) {
		msg += "\nIs the database reachable? Check database.url."
	}
	return msg
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorMessage(err))
		if app != nil {
			_ = app.close()
		}
		os.Exit(1)
	}
}
