package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jhoicas/co2-ledger/internal/domain/entity"
	"github.com/jhoicas/co2-ledger/internal/infrastructure/postgres"
)

func newCompaniesCommand() *cobra.Command {
	companiesCmd := &cobra.Command{
		Use:   "companies",
		Short: "Empresas participantes",
	}
	companiesCmd.AddCommand(&cobra.Command{
		Use:   "add <id> <nombre> <rol>",
		Short: "Registra una empresa (rol: Agricola, Transportista, Transformador, Minorista)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			role := entity.Role(args[2])
			if !role.Valid() {
				return fmt.Errorf("rol desconocido: %q", args[2])
			}
			e, err := loadEnv(cmd, true)
			if err != nil {
				return err
			}
			defer e.close()
			err = postgres.NewCompanyRepository(e.pool).Create(cmd.Context(), &entity.Company{
				ID:        args[0],
				Name:      args[1],
				Role:      role,
				CreatedAt: time.Now().UTC(),
			})
			if err != nil {
				return err
			}
			e.log.Info().Str("company_id", args[0]).Str("role", args[2]).Msg("empresa registrada")
			return nil
		},
	})
	return companiesCmd
}
