package ledger

import (
	"context"
	"fmt"

	"github.com/jhoicas/co2-ledger/internal/domain"
	"github.com/jhoicas/co2-ledger/internal/domain/entity"
	"github.com/jhoicas/co2-ledger/internal/domain/provenance"
	"github.com/jhoicas/co2-ledger/internal/domain/repository"
)

// CompositionGraph consultas sobre el DAG de consumo de lotes.
type CompositionGraph struct {
	ops   repository.OperationRepository
	edges repository.CompositionRepository
}

// NewCompositionGraph construye el grafo sobre repositorios de lectura (pool).
func NewCompositionGraph(ops repository.OperationRepository, edges repository.CompositionRepository) *CompositionGraph {
	return &CompositionGraph{ops: ops, edges: edges}
}

// GetLot devuelve el lote o ErrLotNotFound.
func (g *CompositionGraph) GetLot(ctx context.Context, lotID int64) (*entity.Lot, error) {
	lot, err := g.ops.GetByID(ctx, lotID)
	if err != nil {
		return nil, err
	}
	if lot == nil {
		return nil, fmt.Errorf("%w: %d", domain.ErrLotNotFound, lotID)
	}
	return lot, nil
}

// EdgesForOutput aristas de entrada de un lote en orden de inserción.
func (g *CompositionGraph) EdgesForOutput(ctx context.Context, lotID int64) ([]*entity.CompositionEdge, error) {
	return g.edges.ListByOutput(ctx, lotID)
}

// LoadSubtree carga el lote y su árbol de composición completo.
func (g *CompositionGraph) LoadSubtree(ctx context.Context, lotID int64) (*provenance.Tree, error) {
	return provenance.Build(ctx, lotID, g.fetch)
}

func (g *CompositionGraph) fetch(ctx context.Context, lotID int64) (*entity.Lot, []*entity.CompositionEdge, error) {
	lot, err := g.ops.GetByID(ctx, lotID)
	if err != nil || lot == nil {
		return nil, nil, err
	}
	edges, err := g.edges.ListByOutput(ctx, lotID)
	if err != nil {
		return nil, nil, err
	}
	return lot, edges, nil
}

// AddEdge inserta una arista dentro de la transacción de repos. El lote de salida y el de
// entrada deben existir ya en operations.
func AddEdge(ctx context.Context, repos repository.TxRepos, outputLotID, inputLotID, qty int64) error {
	if qty <= 0 {
		return fmt.Errorf("%w: quantity_used debe ser > 0", domain.ErrInvalidInput)
	}
	for _, id := range []int64{outputLotID, inputLotID} {
		lot, err := repos.Operations.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if lot == nil {
			return fmt.Errorf("%w: %d", domain.ErrLotNotFound, id)
		}
	}
	return repos.Composition.Create(ctx, &entity.CompositionEdge{
		OutputLotID:  outputLotID,
		InputLotID:   inputLotID,
		QuantityUsed: qty,
	})
}
