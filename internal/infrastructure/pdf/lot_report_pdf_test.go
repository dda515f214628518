package pdf_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/co2-ledger/internal/application/report"
	"github.com/jhoicas/co2-ledger/internal/domain/entity"
	"github.com/jhoicas/co2-ledger/internal/infrastructure/pdf"
)

func TestGenerateLotReport_GeneraPDF(t *testing.T) {
	lot := &entity.Lot{
		LotID: 1100, TransactionID: "tx-1", CompanyID: "molinos", ProductID: "harina",
		Type: entity.OperationTransformation, Quantity: 10, CO2Emitted: decimal.NewFromInt(10),
		CreatedAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}
	data := &report.LotReport{
		Lot:   lot,
		Owner: &entity.Company{ID: "molinos", Name: "Molinos del Valle", Role: entity.RoleTransformer},
		Lines: []report.Line{
			{Depth: 0, LotID: 1100, Lot: lot, UnitCost: decimal.NewFromInt(1)},
			{Depth: 1, LotID: 1001, QuantityUsed: 20},
		},
		TotalCost:   decimal.NewFromInt(10),
		UnitCost:    decimal.NewFromInt(1),
		GeneratedAt: time.Now(),
	}

	b, err := pdf.NewMarotoReportGenerator().GenerateLotReport(context.Background(), data)
	require.NoError(t, err)
	require.NotEmpty(t, b)
	assert.Equal(t, "%PDF", string(b[:4]))
}

func TestGenerateLotReport_SinLote(t *testing.T) {
	_, err := pdf.NewMarotoReportGenerator().GenerateLotReport(context.Background(), &report.LotReport{})
	assert.Error(t, err)
}
