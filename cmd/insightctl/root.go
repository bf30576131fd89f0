package main

import (
	"github.com/spf13/cobra"

	"insights-backend/internal/shared/config"
	"insights-backend/internal/shared/telemetry"
)

func newRootCmd() *cobra.Command {
	var cfg config.Config
	root := &cobra.Command{
		Use:           "insightctl",
		Short:         "Operate the insights backend from the command line",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg = config.Load()
			return telemetry.Init(cfg.LogLevel)
		},
	}
	load := func() config.Config { return cfg }

	root.AddCommand(
		newInspectCmd(),
		newImportCmd(load),
		newMigrateCmd(load),
		newTokenCmd(load),
	)
	return root
}
