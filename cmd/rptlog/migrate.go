package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var migrateSkipSeed bool

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations and seed the default catalogue",
	Long: `Apply pending schema migrations, then seed the default exercises and
programmes into empty collections. Existing catalogue entries are never
overwritten.`,
	RunE: runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.Flags().BoolVar(&migrateSkipSeed, "no-seed", false, "Skip seeding the default catalogue")
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	a, err := setup(cmd, nil)
	if err != nil {
		return err
	}
	defer a.Close()
	a.log.Info("migrations applied", "driver", a.db.Driver())

	if migrateSkipSeed {
		return nil
	}
	res, err := a.db.SeedDefaults(cmd.Context())
	if err != nil {
		return fmt.Errorf("seeding defaults: %w", err)
	}
	a.log.Info("seeded defaults", "exercises", res.Exercises, "programmes", res.Programmes)
	return nil
}
