package postgres

import (
	"context"

	"github.com/jhoicas/co2-ledger/internal/domain/entity"
	"github.com/jhoicas/co2-ledger/internal/domain/repository"
)

var _ repository.ThresholdRepository = (*ThresholdRepo)(nil)

// ThresholdRepo tabla thresholds (datos de referencia firmados).
type ThresholdRepo struct {
	q Querier
}

// NewThresholdRepository construye el adaptador.
func NewThresholdRepository(q Querier) *ThresholdRepo {
	return &ThresholdRepo{q: q}
}

// Get devuelve nil, nil si no hay umbral para el par.
func (r *ThresholdRepo) Get(ctx context.Context, op entity.OperationType, productID string) (*entity.Threshold, error) {
	query := `
		SELECT operation_type, product_id, max_co2, signature
		FROM thresholds WHERE operation_type = $1 AND product_id = $2`
	var (
		t   entity.Threshold
		raw string
	)
	err := r.q.QueryRow(ctx, query, string(op), productID).Scan(&raw, &t.ProductID, &t.MaxCO2, &t.Signature)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, wrapErr("get threshold", err)
	}
	t.OperationType = entity.OperationType(raw)
	return &t, nil
}

// Upsert inserta o reemplaza el umbral (solo siembra de datos).
func (r *ThresholdRepo) Upsert(ctx context.Context, t *entity.Threshold) error {
	query := `
		INSERT INTO thresholds (operation_type, product_id, max_co2, signature)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (operation_type, product_id)
		DO UPDATE SET max_co2 = EXCLUDED.max_co2, signature = EXCLUDED.signature`
	_, err := r.q.Exec(ctx, query, string(t.OperationType), t.ProductID, t.MaxCO2, t.Signature)
	return wrapErr("upsert threshold", err)
}

// List todos los umbrales ordenados por tipo y producto.
func (r *ThresholdRepo) List(ctx context.Context) ([]*entity.Threshold, error) {
	rows, err := r.q.Query(ctx, `
		SELECT operation_type, product_id, max_co2, signature
		FROM thresholds ORDER BY operation_type, product_id`)
	if err != nil {
		return nil, wrapErr("list thresholds", err)
	}
	defer rows.Close()

	var list []*entity.Threshold
	for rows.Next() {
		var (
			t   entity.Threshold
			raw string
		)
		if err := rows.Scan(&raw, &t.ProductID, &t.MaxCO2, &t.Signature); err != nil {
			return nil, wrapErr("scan threshold", err)
		}
		t.OperationType = entity.OperationType(raw)
		list = append(list, &t)
	}
	return list, wrapErr("list thresholds", rows.Err())
}
