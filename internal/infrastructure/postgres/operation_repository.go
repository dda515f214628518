package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/co2-ledger/internal/domain"
	"github.com/jhoicas/co2-ledger/internal/domain/entity"
	"github.com/jhoicas/co2-ledger/internal/domain/repository"
)

var _ repository.OperationRepository = (*OperationRepo)(nil)

// OperationRepo tabla operations (un lote por fila). Usable con pool o tx.
type OperationRepo struct {
	q Querier
}

// NewOperationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOperationRepository(q Querier) *OperationRepo {
	return &OperationRepo{q: q}
}

const operationColumns = `lot_id, transaction_id, company_id, product_id, operation_type,
	quantity, co2_emitted, created_at, blockchain_registered`

// NextLotID toma el siguiente valor de lot_id_seq.
func (r *OperationRepo) NextLotID(ctx context.Context) (int64, error) {
	var id int64
	if err := r.q.QueryRow(ctx, `SELECT nextval('lot_id_seq')`).Scan(&id); err != nil {
		return 0, wrapErr("next lot id", err)
	}
	return id, nil
}

// Create inserta la operación.
func (r *OperationRepo) Create(ctx context.Context, lot *entity.Lot) error {
	query := `
		INSERT INTO operations (` + operationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		lot.LotID, lot.TransactionID, lot.CompanyID, lot.ProductID, string(lot.Type),
		lot.Quantity, lot.CO2Emitted, lot.CreatedAt, lot.BlockchainRegistered,
	)
	if err != nil {
		return wrapErr("insert operation", err)
	}
	return nil
}

// GetByID devuelve nil, nil si el lote no existe.
func (r *OperationRepo) GetByID(ctx context.Context, lotID int64) (*entity.Lot, error) {
	query := `SELECT ` + operationColumns + ` FROM operations WHERE lot_id = $1`
	lot, err := scanLot(r.q.QueryRow(ctx, query, lotID))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, wrapErr("get operation", err)
	}
	return lot, nil
}

// MarkBlockchainRegistered false si el lote no existe o ya estaba marcado.
func (r *OperationRepo) MarkBlockchainRegistered(ctx context.Context, lotID int64) (bool, error) {
	tag, err := r.q.Exec(ctx, `
		UPDATE operations SET blockchain_registered = true
		WHERE lot_id = $1 AND NOT blockchain_registered`, lotID)
	if err != nil {
		return false, wrapErr("mark blockchain registered", err)
	}
	return tag.RowsAffected() == 1, nil
}

// ListPendingBlockchain lotes de la empresa sin reflejar on-chain, por lot_id.
func (r *OperationRepo) ListPendingBlockchain(ctx context.Context, companyID string, limit, offset int) ([]*entity.Lot, error) {
	query := `
		SELECT ` + operationColumns + `
		FROM operations
		WHERE company_id = $1 AND NOT blockchain_registered
		ORDER BY lot_id
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, companyID, limit, offset)
	if err != nil {
		return nil, wrapErr("list pending operations", err)
	}
	defer rows.Close()

	var list []*entity.Lot
	for rows.Next() {
		lot, err := scanLot(rows)
		if err != nil {
			return nil, wrapErr("scan operation", err)
		}
		list = append(list, lot)
	}
	return list, wrapErr("list pending operations", rows.Err())
}

// scanLot valida operation_type al leer: una columna desconocida es un error, no un lote válido.
func scanLot(row pgx.Row) (*entity.Lot, error) {
	var (
		l  entity.Lot
		op string
	)
	if err := row.Scan(
		&l.LotID, &l.TransactionID, &l.CompanyID, &l.ProductID, &op,
		&l.Quantity, &l.CO2Emitted, &l.CreatedAt, &l.BlockchainRegistered,
	); err != nil {
		return nil, err
	}
	t, err := entity.ParseOperationType(op)
	if err != nil {
		return nil, &domain.StorageError{Op: fmt.Sprintf("scan lote %d", l.LotID), Err: err}
	}
	l.Type = t
	return &l, nil
}
