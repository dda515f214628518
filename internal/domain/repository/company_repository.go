package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/co2-ledger/internal/domain/entity"
)

// CompanyRepository define el puerto de persistencia para Company (DIP).
// Los acumulados se modifican con incrementos atómicos, nunca con lectura+escritura.
type CompanyRepository interface {
	Create(ctx context.Context, company *entity.Company) error
	GetByID(ctx context.Context, id string) (*entity.Company, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Company, error)
	AddCO2Emitted(ctx context.Context, id string, delta decimal.Decimal) error
	AddCO2Compensated(ctx context.Context, id string, delta decimal.Decimal) error
	AddTokens(ctx context.Context, id string, delta decimal.Decimal) error
}
