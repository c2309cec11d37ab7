package main

import (
	"github.com/spf13/cobra"
	"github.com/wb-go/wbf/zlog"

	"artfoundation/cmd/buildCFG"
	"artfoundation/internal/repo"
)

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the Postgres schema",
	}
	cmd.AddCommand(
		migrateStep("up", "Apply all pending migrations", repo.Repository.MigrateUp),
		migrateStep("down", "Roll back the latest migration", repo.Repository.MigrateDown),
		migrateStep("status", "Print the migration status", repo.Repository.MigrateStatus),
	)
	return cmd
}

func migrateStep(use, short string, step func(repo.Repository, string) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := zlog.Logger
			cfg, err := loadConfig(&log)
			if err != nil {
				return err
			}
			repository, err := openRepository(cfg, &log)
			if err != nil {
				return err
			}
			return step(repository, buildCFG.MigrationsDir(cfg))
		},
	}
}
