package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/co2-ledger/internal/domain"
	"github.com/jhoicas/co2-ledger/internal/domain/entity"
	"github.com/jhoicas/co2-ledger/internal/domain/repository"
)

var _ repository.CompositionRepository = (*CompositionRepo)(nil)

// CompositionRepo tabla composition_edges (append-only).
type CompositionRepo struct {
	q Querier
}

// NewCompositionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCompositionRepository(q Querier) *CompositionRepo {
	return &CompositionRepo{q: q}
}

// Create inserta la arista y asigna edge.ID. Las FK garantizan que ambos lotes existen.
func (r *CompositionRepo) Create(ctx context.Context, edge *entity.CompositionEdge) error {
	query := `
		INSERT INTO composition_edges (output_lot_id, input_lot_id, quantity_used)
		VALUES ($1, $2, $3)
		RETURNING id`
	err := r.q.QueryRow(ctx, query, edge.OutputLotID, edge.InputLotID, edge.QuantityUsed).Scan(&edge.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("insert composition edge %d<-%d: %w", edge.OutputLotID, edge.InputLotID, domain.ErrLotNotFound)
		}
		return wrapErr("insert composition edge", err)
	}
	return nil
}

// ListByOutput aristas de un lote en orden de inserción.
func (r *CompositionRepo) ListByOutput(ctx context.Context, outputLotID int64) ([]*entity.CompositionEdge, error) {
	query := `
		SELECT id, output_lot_id, input_lot_id, quantity_used
		FROM composition_edges
		WHERE output_lot_id = $1
		ORDER BY id`
	rows, err := r.q.Query(ctx, query, outputLotID)
	if err != nil {
		return nil, wrapErr("list composition edges", err)
	}
	defer rows.Close()

	var list []*entity.CompositionEdge
	for rows.Next() {
		var e entity.CompositionEdge
		if err := rows.Scan(&e.ID, &e.OutputLotID, &e.InputLotID, &e.QuantityUsed); err != nil {
			return nil, wrapErr("scan composition edge", err)
		}
		list = append(list, &e)
	}
	return list, wrapErr("list composition edges", rows.Err())
}
