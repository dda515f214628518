package repository

import (
	"context"

	"github.com/jhoicas/co2-ledger/internal/domain/entity"
)

// ThresholdRepository puerto de los umbrales de CO2 firmados (datos de referencia).
type ThresholdRepository interface {
	// Get devuelve nil, nil si no hay fila para el par.
	Get(ctx context.Context, op entity.OperationType, productID string) (*entity.Threshold, error)
	// Upsert solo lo usa la siembra de datos (ledgerctl).
	Upsert(ctx context.Context, t *entity.Threshold) error
	List(ctx context.Context) ([]*entity.Threshold, error)
}
