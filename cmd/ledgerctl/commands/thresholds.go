package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jhoicas/co2-ledger/internal/application/tokens"
	"github.com/jhoicas/co2-ledger/internal/domain/entity"
	"github.com/jhoicas/co2-ledger/internal/infrastructure/postgres"
	"github.com/jhoicas/co2-ledger/internal/infrastructure/seed"
)

func newThresholdsCommand() *cobra.Command {
	thresholdsCmd := &cobra.Command{
		Use:   "thresholds",
		Short: "Umbrales de CO2 firmados",
	}
	thresholdsCmd.AddCommand(newThresholdsSeedCmd(), newThresholdsVerifyCmd(), newThresholdsAuditCmd())
	return thresholdsCmd
}

func newThresholdsSeedCmd() *cobra.Command {
	seedCmd := &cobra.Command{
		Use:   "seed <archivo.csv>",
		Short: "Firma y guarda los umbrales de un CSV operation_type,product_id,max_co2",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			charset, err := cmd.Flags().GetString("charset")
			if err != nil {
				return err
			}
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("abrir csv: %w", err)
			}
			defer f.Close()
			rows, err := seed.ReadThresholds(f, charset)
			if err != nil {
				return err
			}

			e, err := loadEnv(cmd, true)
			if err != nil {
				return err
			}
			defer e.close()
			verifier, err := tokens.NewThresholdVerifier(postgres.NewThresholdRepository(e.pool), e.cfg.Threshold.SecretKey)
			if err != nil {
				return err
			}
			thresholds := make([]*entity.Threshold, 0, len(rows))
			for _, r := range rows {
				thresholds = append(thresholds, r.Threshold())
			}
			n, err := verifier.Seed(cmd.Context(), thresholds)
			if err != nil {
				return fmt.Errorf("fila %d: %w", rows[n].Line, err)
			}
			e.log.Info().Int("umbrales", n).Str("archivo", args[0]).Msg("umbrales firmados")
			return nil
		},
	}
	seedCmd.Flags().String("charset", "utf-8", "codificación del CSV (utf-8, latin1, windows-1252)")
	return seedCmd
}

func newThresholdsVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify <operation_type> <product_id>",
		Short: "Verifica la firma de un umbral e imprime su max_co2",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			op, err := entity.ParseOperationType(args[0])
			if err != nil {
				return err
			}
			e, err := loadEnv(cmd, true)
			if err != nil {
				return err
			}
			defer e.close()
			verifier, err := tokens.NewThresholdVerifier(postgres.NewThresholdRepository(e.pool), e.cfg.Threshold.SecretKey)
			if err != nil {
				return err
			}
			maxCO2, err := verifier.Verify(cmd.Context(), op, args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s/%s max_co2=%s firma válida\n", op, args[1], maxCO2)
			return nil
		},
	}
}

func newThresholdsAuditCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "audit",
		Short: "Lista los umbrales cuya firma no coincide con la clave actual",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd, true)
			if err != nil {
				return err
			}
			defer e.close()
			verifier, err := tokens.NewThresholdVerifier(postgres.NewThresholdRepository(e.pool), e.cfg.Threshold.SecretKey)
			if err != nil {
				return err
			}
			tampered, err := verifier.Audit(cmd.Context())
			if err != nil {
				return err
			}
			for _, t := range tampered {
				fmt.Fprintf(cmd.OutOrStdout(), "ALTERADO %s/%s max_co2=%s\n", t.OperationType, t.ProductID, t.MaxCO2)
			}
			if len(tampered) > 0 {
				return fmt.Errorf("%d umbrales con firma inválida", len(tampered))
			}
			fmt.Fprintln(cmd.OutOrStdout(), "todas las firmas son válidas")
			return nil
		},
	}
}
