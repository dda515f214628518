package repository

import (
	"context"

	"github.com/jhoicas/co2-ledger/internal/domain/entity"
)

// TokenAccrualRepository puerto de acreditaciones de tokens (una por lote).
type TokenAccrualRepository interface {
	// Create devuelve domain.ErrAlreadyAccrued si el lote ya tiene acreditación.
	Create(ctx context.Context, accrual *entity.TokenAccrual) error
	GetByLot(ctx context.Context, lotID int64) (*entity.TokenAccrual, error)
}

// CompensationRepository puerto de compensaciones de CO2.
type CompensationRepository interface {
	Create(ctx context.Context, c *entity.Compensation) error
	ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Compensation, error)
}
