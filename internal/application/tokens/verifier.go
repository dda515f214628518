package tokens

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/co2-ledger/internal/domain"
	"github.com/jhoicas/co2-ledger/internal/domain/entity"
	"github.com/jhoicas/co2-ledger/internal/domain/provenance"
	"github.com/jhoicas/co2-ledger/internal/domain/repository"
)

// ThresholdVerifier valida la firma HMAC de los umbrales de CO2 antes de usarlos.
type ThresholdVerifier struct {
	repo   repository.ThresholdRepository
	secret []byte
}

// NewThresholdVerifier falla con ErrMissingSecretKey si la clave está vacía (nunca hay valor por defecto).
func NewThresholdVerifier(repo repository.ThresholdRepository, secret string) (*ThresholdVerifier, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, domain.ErrMissingSecretKey
	}
	return &ThresholdVerifier{repo: repo, secret: []byte(secret)}, nil
}

// Verify devuelve max_co2 del par si la firma almacenada coincide.
func (v *ThresholdVerifier) Verify(ctx context.Context, op entity.OperationType, productID string) (decimal.Decimal, error) {
	if !op.Valid() {
		return decimal.Zero, fmt.Errorf("%w: tipo de operación %q", domain.ErrInvalidInput, op)
	}
	t, err := v.repo.Get(ctx, op, productID)
	if err != nil {
		return decimal.Zero, err
	}
	if t == nil {
		return decimal.Zero, fmt.Errorf("%w: %s/%s", domain.ErrThresholdNotFound, op, productID)
	}
	if !provenance.ValidThresholdSignature(v.secret, t) {
		return decimal.Zero, fmt.Errorf("%w: %s/%s", domain.ErrThresholdTampered, op, productID)
	}
	return t.MaxCO2, nil
}

// Sign firma un umbral con la clave del proceso (siembra de datos).
func (v *ThresholdVerifier) Sign(t *entity.Threshold) {
	t.Signature = provenance.SignThreshold(v.secret, t.OperationType, t.ProductID, t.MaxCO2)
}

// Seed firma y guarda cada umbral. Reemplaza el par si ya existía.
func (v *ThresholdVerifier) Seed(ctx context.Context, thresholds []*entity.Threshold) (int, error) {
	for i, t := range thresholds {
		if !t.OperationType.Valid() || strings.TrimSpace(t.ProductID) == "" || t.MaxCO2.IsNegative() {
			return i, fmt.Errorf("%w: umbral %s/%s", domain.ErrInvalidInput, t.OperationType, t.ProductID)
		}
		if !entity.FitsCO2Scale(t.MaxCO2) {
			return i, fmt.Errorf("%w: umbral %s/%s con más de %d decimales", domain.ErrInvalidInput, t.OperationType, t.ProductID, entity.CO2Scale)
		}
		v.Sign(t)
		if err := v.repo.Upsert(ctx, t); err != nil {
			return i, fmt.Errorf("guardar umbral %s/%s: %w", t.OperationType, t.ProductID, err)
		}
	}
	return len(thresholds), nil
}

// Audit devuelve los umbrales almacenados cuya firma no coincide con la clave actual.
func (v *ThresholdVerifier) Audit(ctx context.Context) ([]*entity.Threshold, error) {
	all, err := v.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	var tampered []*entity.Threshold
	for _, t := range all {
		if !provenance.ValidThresholdSignature(v.secret, t) {
			tampered = append(tampered, t)
		}
	}
	return tampered, nil
}
