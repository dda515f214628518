// Package commands comandos cobra de ledgerctl. Todos operan contra PostgreSQL.
package commands

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/jhoicas/co2-ledger/internal/infrastructure/postgres"
	"github.com/jhoicas/co2-ledger/pkg/config"
	"github.com/jhoicas/co2-ledger/pkg/logger"
)

// NewRootCommand arma el árbol de comandos.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "ledgerctl",
		Short:         "Administración del ledger de lotes y CO2",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("log-level", "info", "nivel de log (debug, info, warn, error)")

	root.AddCommand(newMigrateCommand())
	root.AddCommand(newThresholdsCommand())
	root.AddCommand(newCompaniesCommand())
	root.AddCommand(newUsersCommand())
	root.AddCommand(newLotsCommand())
	return root
}

// env configuración, logger y pool compartidos por los subcomandos.
type env struct {
	cfg  *config.Config
	log  *logger.Logger
	pool *pgxpool.Pool
}

func loadEnv(cmd *cobra.Command, withPool bool) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	level, _ := cmd.Flags().GetString("log-level")
	e := &env{cfg: cfg, log: logger.New(logger.Config{Env: "development", Level: level})}
	if withPool {
		e.pool, err = postgres.NewPool(cmd.Context(), cfg.DB)
		if err != nil {
			return nil, err
		}
	}
	return e, nil
}

func (e *env) close() {
	if e.pool != nil {
		e.pool.Close()
	}
}
