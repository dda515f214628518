package postgres

import (
	"context"

	"github.com/jhoicas/co2-ledger/internal/domain/entity"
	"github.com/jhoicas/co2-ledger/internal/domain/repository"
)

var _ repository.WarehouseRepository = (*WarehouseRepo)(nil)

// WarehouseRepo cantidades por (empresa, lote). Usable con pool o tx.
type WarehouseRepo struct {
	q Querier
}

// NewWarehouseRepository construye el adaptador. Pasar pool o tx (Querier).
func NewWarehouseRepository(q Querier) *WarehouseRepo {
	return &WarehouseRepo{q: q}
}

// Get obtiene la cantidad disponible; cantidad 0 si no hay fila.
func (r *WarehouseRepo) Get(ctx context.Context, companyID string, lotID int64) (*entity.WarehouseEntry, error) {
	return r.get(ctx, companyID, lotID, "")
}

// GetForUpdate igual que Get y bloquea la fila (SELECT FOR UPDATE) hasta el fin de la tx.
func (r *WarehouseRepo) GetForUpdate(ctx context.Context, companyID string, lotID int64) (*entity.WarehouseEntry, error) {
	return r.get(ctx, companyID, lotID, " FOR UPDATE")
}

func (r *WarehouseRepo) get(ctx context.Context, companyID string, lotID int64, lock string) (*entity.WarehouseEntry, error) {
	query := `
		SELECT company_id, lot_id, quantity, updated_at
		FROM warehouse WHERE company_id = $1 AND lot_id = $2` + lock
	var e entity.WarehouseEntry
	err := r.q.QueryRow(ctx, query, companyID, lotID).Scan(&e.CompanyID, &e.LotID, &e.Quantity, &e.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return &entity.WarehouseEntry{CompanyID: companyID, LotID: lotID}, nil
		}
		return nil, wrapErr("get warehouse entry", err)
	}
	return &e, nil
}

// Upsert inserta o actualiza la cantidad. CHECK (quantity >= 0) respalda la verificación previa.
func (r *WarehouseRepo) Upsert(ctx context.Context, entry *entity.WarehouseEntry) error {
	query := `
		INSERT INTO warehouse (company_id, lot_id, quantity, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (company_id, lot_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(ctx, query, entry.CompanyID, entry.LotID, entry.Quantity, entry.UpdatedAt)
	return wrapErr("upsert warehouse entry", err)
}

// ListByCompany entradas de bodega de la empresa por lot_id.
func (r *WarehouseRepo) ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.WarehouseEntry, error) {
	query := `
		SELECT company_id, lot_id, quantity, updated_at
		FROM warehouse WHERE company_id = $1
		ORDER BY lot_id
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, companyID, limit, offset)
	if err != nil {
		return nil, wrapErr("list warehouse", err)
	}
	defer rows.Close()

	var list []*entity.WarehouseEntry
	for rows.Next() {
		var e entity.WarehouseEntry
		if err := rows.Scan(&e.CompanyID, &e.LotID, &e.Quantity, &e.UpdatedAt); err != nil {
			return nil, wrapErr("scan warehouse entry", err)
		}
		list = append(list, &e)
	}
	return list, wrapErr("list warehouse", rows.Err())
}
