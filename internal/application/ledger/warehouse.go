package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/co2-ledger/internal/domain"
	"github.com/jhoicas/co2-ledger/internal/domain/entity"
	"github.com/jhoicas/co2-ledger/internal/domain/repository"
)

// WarehouseLedger lectura de cantidades disponibles por (empresa, lote).
// Las escrituras van por Credit/Debit con el repositorio de la transacción en curso.
type WarehouseLedger struct {
	repo repository.WarehouseRepository
}

// NewWarehouseLedger construye el ledger de bodega.
func NewWarehouseLedger(repo repository.WarehouseRepository) *WarehouseLedger {
	return &WarehouseLedger{repo: repo}
}

// Balance cantidad disponible; 0 si la empresa nunca tuvo el lote.
func (w *WarehouseLedger) Balance(ctx context.Context, companyID string, lotID int64) (int64, error) {
	entry, err := w.repo.Get(ctx, companyID, lotID)
	if err != nil {
		return 0, err
	}
	return entry.Quantity, nil
}

// List entradas de bodega de una empresa. limit <= 0 usa 50.
func (w *WarehouseLedger) List(ctx context.Context, companyID string, limit, offset int) ([]*entity.WarehouseEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return w.repo.ListByCompany(ctx, companyID, limit, offset)
}

// Credit suma qty a la entrada (insert-or-increment).
func Credit(ctx context.Context, repo repository.WarehouseRepository, companyID string, lotID, qty int64, now time.Time) error {
	if qty <= 0 {
		return domain.ErrInvalidInput
	}
	entry, err := repo.GetForUpdate(ctx, companyID, lotID)
	if err != nil {
		return err
	}
	entry.Quantity += qty
	entry.UpdatedAt = now
	return repo.Upsert(ctx, entry)
}

// Debit bloquea la fila, verifica Disponible >= qty y resta. Debe ejecutarse en la misma
// transacción que el resto del registro.
func Debit(ctx context.Context, repo repository.WarehouseRepository, companyID string, lotID, qty int64, now time.Time) error {
	if qty <= 0 {
		return domain.ErrInvalidInput
	}
	entry, err := repo.GetForUpdate(ctx, companyID, lotID)
	if err != nil {
		return err
	}
	if entry.Quantity < qty {
		return fmt.Errorf("%w: lote %d disponible %d, solicitado %d", domain.ErrInsufficientQuantity, lotID, entry.Quantity, qty)
	}
	entry.Quantity -= qty
	entry.UpdatedAt = now
	return repo.Upsert(ctx, entry)
}
