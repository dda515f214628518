package report

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/co2-ledger/internal/application/ledger"
	"github.com/jhoicas/co2-ledger/internal/domain/entity"
	"github.com/jhoicas/co2-ledger/internal/domain/provenance"
	"github.com/jhoicas/co2-ledger/internal/domain/repository"
)

// LotReportGenerator puerto de salida para renderizar el reporte de procedencia.
type LotReportGenerator interface {
	GenerateLotReport(ctx context.Context, data *LotReport) ([]byte, error)
}

// LotReport datos ya resueltos del reporte de procedencia de un lote.
type LotReport struct {
	Lot         *entity.Lot
	Owner       *entity.Company // nil si la empresa no existe
	Lines       []Line
	TotalCost   decimal.Decimal
	UnitCost    decimal.Decimal
	GeneratedAt time.Time
}

// Line una fila del árbol de composición, en pre-orden.
type Line struct {
	Depth        int
	LotID        int64
	Lot          *entity.Lot // nil si el lote no tiene registro
	QuantityUsed int64
	UnitCost     decimal.Decimal
}

// ReportUseCase genera el PDF de procedencia y huella de CO2 de un lote.
type ReportUseCase struct {
	rollup    *ledger.RollupCalculator
	companies repository.CompanyRepository
	generator LotReportGenerator
}

// NewReportUseCase construye el caso de uso.
func NewReportUseCase(rollup *ledger.RollupCalculator, companies repository.CompanyRepository, generator LotReportGenerator) *ReportUseCase {
	return &ReportUseCase{rollup: rollup, companies: companies, generator: generator}
}

// Build resuelve los datos del reporte sin renderizar.
func (uc *ReportUseCase) Build(ctx context.Context, lotID int64) (*LotReport, error) {
	r, err := uc.rollup.RollupTree(ctx, lotID)
	if err != nil {
		return nil, err
	}
	root := r.Tree.Root
	owner, err := uc.companies.GetByID(ctx, root.Lot.CompanyID)
	if err != nil {
		return nil, err
	}
	data := &LotReport{
		Lot:         root.Lot,
		Owner:       owner,
		TotalCost:   r.Of(lotID).Total,
		UnitCost:    r.Of(lotID).Unit,
		GeneratedAt: time.Now().UTC(),
	}
	r.Tree.Walk(func(n *provenance.Node, depth int, qtyUsed int64) {
		data.Lines = append(data.Lines, Line{
			Depth:        depth,
			LotID:        n.LotID,
			Lot:          n.Lot,
			QuantityUsed: qtyUsed,
			UnitCost:     r.Of(n.LotID).Unit,
		})
	})
	return data, nil
}

// DownloadLotReport genera el PDF y devuelve sus bytes y un nombre de archivo.
func (uc *ReportUseCase) DownloadLotReport(ctx context.Context, lotID int64) ([]byte, string, error) {
	data, err := uc.Build(ctx, lotID)
	if err != nil {
		return nil, "", err
	}
	pdfBytes, err := uc.generator.GenerateLotReport(ctx, data)
	if err != nil {
		return nil, "", fmt.Errorf("reporte: generar pdf: %w", err)
	}
	return pdfBytes, fmt.Sprintf("lote-%d.pdf", lotID), nil
}
