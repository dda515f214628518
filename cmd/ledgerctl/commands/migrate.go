package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhoicas/co2-ledger/internal/infrastructure/postgres"
)

func newMigrateCommand() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Migraciones del esquema",
	}
	migrateCmd.AddCommand(
		migrationCmd("up", "Aplica las migraciones pendientes", (*postgres.Migrator).Up),
		migrationCmd("down", "Revierte todas las migraciones", (*postgres.Migrator).Down),
		&cobra.Command{
			Use:   "version",
			Short: "Versión actual del esquema",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				e, err := loadEnv(cmd, false)
				if err != nil {
					return err
				}
				mg, err := postgres.NewMigrator(e.cfg.DB.ConnectionString(), e.log)
				if err != nil {
					return err
				}
				defer mg.Close()
				v, dirty, err := mg.Version()
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "versión %d (dirty=%t)\n", v, dirty)
				return nil
			},
		},
	)
	return migrateCmd
}

func migrationCmd(use, short string, run func(*postgres.Migrator) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd, false)
			if err != nil {
				return err
			}
			mg, err := postgres.NewMigrator(e.cfg.DB.ConnectionString(), e.log)
			if err != nil {
				return err
			}
			defer mg.Close()
			return run(mg)
		},
	}
}
