package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhoicas/co2-ledger/internal/application/auth"
	"github.com/jhoicas/co2-ledger/internal/application/dto"
	"github.com/jhoicas/co2-ledger/internal/infrastructure/postgres"
)

func newUsersCommand() *cobra.Command {
	usersCmd := &cobra.Command{
		Use:   "users",
		Short: "Usuarios de las empresas",
	}
	addCmd := &cobra.Command{
		Use:   "add <email> <company_id>",
		Short: "Crea el primer usuario de una empresa; los siguientes se registran por la API",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			password, _ := cmd.Flags().GetString("password")
			name, _ := cmd.Flags().GetString("name")
			if len(password) < 8 {
				return fmt.Errorf("--password debe tener al menos 8 caracteres")
			}
			e, err := loadEnv(cmd, true)
			if err != nil {
				return err
			}
			defer e.close()

			uc := auth.NewAuthUseCase(postgres.NewUserRepository(e.pool), postgres.NewCompanyRepository(e.pool), auth.JWTConfig{
				Secret: e.cfg.JWT.Secret, ExpMinutes: e.cfg.JWT.Expiration, Issuer: e.cfg.JWT.Issuer,
			})
			user, err := uc.RegisterUser(cmd.Context(), dto.RegisterRequest{
				Email: args[0], Password: password, CompanyID: args[1], Name: name,
			})
			if err != nil {
				return err
			}
			e.log.Info().Str("user_id", user.ID).Str("company_id", user.CompanyID).Str("role", user.Role).Msg("usuario registrado")
			return nil
		},
	}
	addCmd.Flags().String("password", "", "contraseña inicial (mín. 8 caracteres)")
	addCmd.Flags().String("name", "", "nombre visible")
	usersCmd.AddCommand(addCmd)
	return usersCmd
}
