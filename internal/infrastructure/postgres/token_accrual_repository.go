package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/co2-ledger/internal/domain"
	"github.com/jhoicas/co2-ledger/internal/domain/entity"
	"github.com/jhoicas/co2-ledger/internal/domain/repository"
)

var (
	_ repository.TokenAccrualRepository = (*TokenAccrualRepo)(nil)
	_ repository.CompensationRepository = (*CompensationRepo)(nil)
)

// TokenAccrualRepo tabla token_accruals (PK lot_id: una acreditación por lote).
type TokenAccrualRepo struct {
	q Querier
}

// NewTokenAccrualRepository construye el adaptador.
func NewTokenAccrualRepository(q Querier) *TokenAccrualRepo {
	return &TokenAccrualRepo{q: q}
}

// Create ErrAlreadyAccrued si el lote ya tiene fila.
func (r *TokenAccrualRepo) Create(ctx context.Context, a *entity.TokenAccrual) error {
	query := `
		INSERT INTO token_accruals (lot_id, company_id, threshold, actual_co2, delta, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query, a.LotID, a.CompanyID, a.Threshold, a.ActualCO2, a.Delta, a.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("lote %d: %w", a.LotID, domain.ErrAlreadyAccrued)
		}
		return wrapErr("insert token accrual", err)
	}
	return nil
}

// GetByLot nil, nil si el lote no tiene acreditación.
func (r *TokenAccrualRepo) GetByLot(ctx context.Context, lotID int64) (*entity.TokenAccrual, error) {
	query := `
		SELECT lot_id, company_id, threshold, actual_co2, delta, created_at
		FROM token_accruals WHERE lot_id = $1`
	var a entity.TokenAccrual
	err := r.q.QueryRow(ctx, query, lotID).Scan(&a.LotID, &a.CompanyID, &a.Threshold, &a.ActualCO2, &a.Delta, &a.CreatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, wrapErr("get token accrual", err)
	}
	return &a, nil
}

// CompensationRepo tabla compensations.
type CompensationRepo struct {
	q Querier
}

// NewCompensationRepository construye el adaptador.
func NewCompensationRepository(q Querier) *CompensationRepo {
	return &CompensationRepo{q: q}
}

func (r *CompensationRepo) Create(ctx context.Context, c *entity.Compensation) error {
	query := `
		INSERT INTO compensations (id, company_id, co2_compensated, description, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(ctx, query, c.ID, c.CompanyID, c.CO2Compensated, c.Description, c.CreatedAt)
	return wrapErr("insert compensation", err)
}

// ListByCompany más recientes primero.
func (r *CompensationRepo) ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Compensation, error) {
	query := `
		SELECT id, company_id, co2_compensated, description, created_at
		FROM compensations WHERE company_id = $1
		ORDER BY created_at DESC, id
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, companyID, limit, offset)
	if err != nil {
		return nil, wrapErr("list compensations", err)
	}
	defer rows.Close()

	var list []*entity.Compensation
	for rows.Next() {
		var c entity.Compensation
		if err := rows.Scan(&c.ID, &c.CompanyID, &c.CO2Compensated, &c.Description, &c.CreatedAt); err != nil {
			return nil, wrapErr("scan compensation", err)
		}
		list = append(list, &c)
	}
	return list, wrapErr("list compensations", rows.Err())
}
