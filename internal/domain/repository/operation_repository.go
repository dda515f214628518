package repository

import (
	"context"

	"github.com/jhoicas/co2-ledger/internal/domain/entity"
)

// OperationRepository define el puerto de persistencia de lotes (tabla operations).
type OperationRepository interface {
	// NextLotID asigna un lot_id nuevo desde una secuencia atómica (nunca se reutiliza).
	NextLotID(ctx context.Context) (int64, error)
	Create(ctx context.Context, lot *entity.Lot) error
	// GetByID devuelve nil, nil si el lote no existe.
	GetByID(ctx context.Context, lotID int64) (*entity.Lot, error)
	// MarkBlockchainRegistered devuelve false si el flag ya estaba activo.
	MarkBlockchainRegistered(ctx context.Context, lotID int64) (bool, error)
	ListPendingBlockchain(ctx context.Context, companyID string, limit, offset int) ([]*entity.Lot, error)
}
