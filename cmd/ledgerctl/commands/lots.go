package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jhoicas/co2-ledger/internal/application/ledger"
	"github.com/jhoicas/co2-ledger/internal/domain/provenance"
	"github.com/jhoicas/co2-ledger/internal/infrastructure/postgres"
)

func newLotsCommand() *cobra.Command {
	lotsCmd := &cobra.Command{
		Use:   "lots",
		Short: "Consulta de lotes",
	}
	unitCostCmd := &cobra.Command{
		Use:   "unit-cost <lot_id>",
		Short: "Costo unitario de CO2 de un lote; con --tree imprime la procedencia",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lotID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || lotID <= 0 {
				return fmt.Errorf("lot_id inválido: %q", args[0])
			}
			showTree, err := cmd.Flags().GetBool("tree")
			if err != nil {
				return err
			}
			e, err := loadEnv(cmd, true)
			if err != nil {
				return err
			}
			defer e.close()

			graph := ledger.NewCompositionGraph(postgres.NewOperationRepository(e.pool), postgres.NewCompositionRepository(e.pool))
			r, err := ledger.NewRollupCalculator(graph, nil).RollupTree(cmd.Context(), lotID)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			cost := r.Of(lotID)
			fmt.Fprintf(out, "lote %d: costo total %s, costo unitario %s\n", lotID, cost.Total, cost.Unit)
			if showTree {
				r.Tree.Walk(func(n *provenance.Node, depth int, qty int64) {
					indent := strings.Repeat("  ", depth)
					if n.Missing() {
						fmt.Fprintf(out, "%s- %d (sin registro) x%d\n", indent, n.LotID, qty)
						return
					}
					fmt.Fprintf(out, "%s- %d %s %s x%d unit=%s\n", indent, n.LotID, n.Lot.Type, n.Lot.ProductID, qty, r.Of(n.LotID).Unit)
				})
			}
			return nil
		},
	}
	unitCostCmd.Flags().Bool("tree", false, "imprime el árbol de procedencia")
	lotsCmd.AddCommand(unitCostCmd)
	return lotsCmd
}
