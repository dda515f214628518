package tokens

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/co2-ledger/internal/application/ledger"
	"github.com/jhoicas/co2-ledger/internal/domain"
	"github.com/jhoicas/co2-ledger/internal/domain/entity"
	"github.com/jhoicas/co2-ledger/internal/domain/repository"
)

// CompensationService registra CO2 compensado por una empresa.
type CompensationService struct {
	txRunner ledger.TxRunner
	repo     repository.CompensationRepository
}

// NewCompensationService construye el servicio. repo se usa solo para lecturas.
func NewCompensationService(txRunner ledger.TxRunner, repo repository.CompensationRepository) *CompensationService {
	return &CompensationService{txRunner: txRunner, repo: repo}
}

// Compensate inserta la compensación e incrementa co2_compensated_total en la misma tx.
func (s *CompensationService) Compensate(ctx context.Context, companyID string, co2 decimal.Decimal, description string) (*entity.Compensation, error) {
	if strings.TrimSpace(companyID) == "" {
		return nil, fmt.Errorf("%w: company_id es obligatorio", domain.ErrInvalidInput)
	}
	if !co2.IsPositive() {
		return nil, fmt.Errorf("%w: el CO2 compensado debe ser > 0", domain.ErrInvalidInput)
	}
	if !entity.FitsCO2Scale(co2) {
		return nil, fmt.Errorf("%w: el CO2 compensado admite hasta %d decimales", domain.ErrInvalidInput, entity.CO2Scale)
	}
	c := &entity.Compensation{
		ID:             uuid.NewString(),
		CompanyID:      companyID,
		CO2Compensated: co2,
		Description:    strings.TrimSpace(description),
		CreatedAt:      time.Now().UTC(),
	}
	err := s.txRunner.Run(ctx, func(ctx context.Context, repos repository.TxRepos) error {
		company, err := repos.Companies.GetByID(ctx, companyID)
		if err != nil {
			return err
		}
		if company == nil {
			return fmt.Errorf("%w: empresa %s", domain.ErrNotFound, companyID)
		}
		if err := repos.Compensations.Create(ctx, c); err != nil {
			return err
		}
		return repos.Companies.AddCO2Compensated(ctx, companyID, co2)
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// List compensaciones de la empresa, más recientes primero.
func (s *CompensationService) List(ctx context.Context, companyID string, limit, offset int) ([]*entity.Compensation, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.repo.ListByCompany(ctx, companyID, limit, offset)
}
