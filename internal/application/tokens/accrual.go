package tokens

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/co2-ledger/internal/application/ledger"
	"github.com/jhoicas/co2-ledger/internal/domain"
	"github.com/jhoicas/co2-ledger/internal/domain/entity"
	"github.com/jhoicas/co2-ledger/internal/domain/provenance"
	"github.com/jhoicas/co2-ledger/internal/domain/repository"
	"github.com/jhoicas/co2-ledger/pkg/logger"
)

// AccrualService calcula y acredita tokens de sostenibilidad por lote.
type AccrualService struct {
	verifier *ThresholdVerifier
	ops      repository.OperationRepository
	txRunner ledger.TxRunner
	log      *logger.Logger
	now      func() time.Time
}

// NewAccrualService construye el servicio.
func NewAccrualService(verifier *ThresholdVerifier, ops repository.OperationRepository, txRunner ledger.TxRunner, log *logger.Logger) *AccrualService {
	if log == nil {
		log = logger.Nop()
	}
	return &AccrualService{
		verifier: verifier,
		ops:      ops,
		txRunner: txRunner,
		log:      log.Component("tokens"),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Delta umbral verificado menos CO2 real. Bloqueado si el umbral falta o fue alterado.
func (s *AccrualService) Delta(ctx context.Context, actualCO2 decimal.Decimal, op entity.OperationType, productID string) (decimal.Decimal, error) {
	threshold, err := s.verifier.Verify(ctx, op, productID)
	if err != nil {
		return decimal.Zero, err
	}
	return provenance.TokensDelta(threshold, actualCO2), nil
}

// AccrueForLot acredita (o descuenta) a la empresa dueña del lote los tokens de su operación.
// Solo la empresa dueña puede pedirla (ErrPermissionDenied si no). Cada lote se acredita una
// sola vez; la segunda llamada devuelve ErrAlreadyAccrued.
func (s *AccrualService) AccrueForLot(ctx context.Context, companyID string, lotID int64) (*entity.TokenAccrual, error) {
	lot, err := s.ops.GetByID(ctx, lotID)
	if err != nil {
		return nil, err
	}
	if lot == nil {
		return nil, fmt.Errorf("%w: %d", domain.ErrLotNotFound, lotID)
	}
	if lot.CompanyID != companyID {
		s.log.Warn().Int64("lot_id", lotID).Str("company_id", companyID).Msg("acreditación pedida por empresa ajena al lote")
		return nil, fmt.Errorf("%w: el lote %d no pertenece a %q", domain.ErrPermissionDenied, lotID, companyID)
	}
	threshold, err := s.verifier.Verify(ctx, lot.Type, lot.ProductID)
	if err != nil {
		s.log.Warn().Err(err).Int64("lot_id", lotID).Msg("acreditación de tokens bloqueada")
		return nil, err
	}

	accrual := &entity.TokenAccrual{
		LotID:     lot.LotID,
		CompanyID: lot.CompanyID,
		Threshold: threshold,
		ActualCO2: lot.CO2Emitted,
		Delta:     provenance.TokensDelta(threshold, lot.CO2Emitted),
		CreatedAt: s.now(),
	}
	err = s.txRunner.Run(ctx, func(ctx context.Context, repos repository.TxRepos) error {
		if err := repos.Accruals.Create(ctx, accrual); err != nil {
			return err
		}
		return repos.Companies.AddTokens(ctx, accrual.CompanyID, accrual.Delta)
	})
	if err != nil {
		return nil, err
	}
	s.log.Info().
		Int64("lot_id", lotID).
		Str("company_id", accrual.CompanyID).
		Str("delta", accrual.Delta.String()).
		Msg("tokens acreditados")
	return accrual, nil
}
