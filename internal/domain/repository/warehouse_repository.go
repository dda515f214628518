package repository

import (
	"context"

	"github.com/jhoicas/co2-ledger/internal/domain/entity"
)

// WarehouseRepository define el puerto para consultar/actualizar cantidades por empresa+lote.
// Usado dentro de transacciones para garantizar consistencia.
type WarehouseRepository interface {
	// Get devuelve una entrada con cantidad 0 si no existe fila.
	Get(ctx context.Context, companyID string, lotID int64) (*entity.WarehouseEntry, error)
	// GetForUpdate igual que Get pero bloquea la fila (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, companyID string, lotID int64) (*entity.WarehouseEntry, error)
	Upsert(ctx context.Context, entry *entity.WarehouseEntry) error
	ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.WarehouseEntry, error)
}
