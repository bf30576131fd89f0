package main

import (
	"github.com/spf13/cobra"

	"insights-backend/internal/shared/config"
	"insights-backend/internal/shared/storage/db"
)

func newMigrateCmd(load func() config.Config) *cobra.Command {
	var down bool
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply (or with --down, roll back one of) the Postgres migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := load()
			sqlDB, err := db.Connect(cmd.Context(), cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultMigrateOptions()))
			if err != nil {
				return err
			}
			defer sqlDB.Close()
			if down {
				return db.RollbackMigration(cmd.Context(), sqlDB)
			}
			return db.RunMigrations(cmd.Context(), sqlDB)
		},
	}
	cmd.Flags().BoolVar(&down, "down", false, "roll back the most recent migration")
	return cmd
}
