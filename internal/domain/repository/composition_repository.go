package repository

import (
	"context"

	"github.com/jhoicas/co2-ledger/internal/domain/entity"
)

// CompositionRepository puerto append-only de aristas de composición.
type CompositionRepository interface {
	Create(ctx context.Context, edge *entity.CompositionEdge) error
	// ListByOutput devuelve las aristas en orden de inserción.
	ListByOutput(ctx context.Context, outputLotID int64) ([]*entity.CompositionEdge, error)
}
