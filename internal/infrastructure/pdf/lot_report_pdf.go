// Package pdf genera el reporte de procedencia y huella de CO2 de un lote.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Empresa dueña + rol  │  N° Lote + Fecha            │
//	│  ─────────────────────────────────────────────────────────  │
//	│  LOTE: producto / tipo / cantidad / CO2 propio / tx         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  ÁRBOL: Lote | Producto (sangría) | Tipo | Usado | CO2/u    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: CO2 total / CO2 por unidad                        │
//	│  FOOTER: QR de trazabilidad + leyenda                       │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/co2-ledger/internal/application/report"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 27, Green: 94, Blue: 32}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWarn    = &props.Color{Red: 183, Green: 28, Blue: 28}
)

// ── Generator ─────────────────────────────────────────────────────────────────

var _ report.LotReportGenerator = (*MarotoReportGenerator)(nil)

// MarotoReportGenerator implementa report.LotReportGenerator usando Maroto v2.
type MarotoReportGenerator struct{}

// NewMarotoReportGenerator construye el generador.
func NewMarotoReportGenerator() *MarotoReportGenerator { return &MarotoReportGenerator{} }

// GenerateLotReport genera el PDF y devuelve sus bytes.
func (g *MarotoReportGenerator) GenerateLotReport(_ context.Context, data *report.LotReport) ([]byte, error) {
	if data == nil || data.Lot == nil {
		return nil, fmt.Errorf("pdf: reporte sin lote")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(fmt.Sprintf("Procedencia lote %d", data.Lot.LotID), true).
		WithAuthor(ownerName(data), true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(data))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(lotRow(data))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(treeRows(data.Lines)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(data))
	m.AddRows(line.NewRow(3))
	m.AddRows(footerRow(data))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(data *report.LotReport) core.Row {
	role := "—"
	if data.Owner != nil {
		role = string(data.Owner.Role)
	}
	return row.New(18).Add(
		col.New(7).Add(
			text.New(ownerName(data), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Rol: "+role, props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
		col.New(5).Add(
			text.New("REPORTE DE PROCEDENCIA", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Lote %d", data.Lot.LotID), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Fecha: "+data.Lot.CreatedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

func lotRow(data *report.LotReport) core.Row {
	l := data.Lot
	return row.New(14).Add(
		col.New(12).Add(
			text.New("DATOS DEL LOTE", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Producto: %s   |   Operación: %s   |   Cantidad: %d   |   CO2 propio: %s",
				l.ProductID, l.Type, l.Quantity, l.CO2Emitted.String(),
			), props.Text{Size: 8, Top: 6}),
			text.New("Transacción: "+nonEmpty(l.TransactionID, "—"), props.Text{Size: 7, Top: 11, Color: colorGray}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Lote", 2, align.Left),
		h("Producto", 4, align.Left),
		h("Operación", 2, align.Left),
		h("Usado", 2, align.Right),
		h("CO2/u", 2, align.Right),
	)
}

// treeRows una fila por nodo; la sangría del producto refleja la profundidad.
func treeRows(lines []report.Line) []core.Row {
	rows := make([]core.Row, 0, len(lines))
	for _, ln := range lines {
		product, op := "(sin registro)", "—"
		color := colorWarn
		if ln.Lot != nil {
			product, op, color = ln.Lot.ProductID, ln.Lot.Type.String(), nil
		}
		used := "—"
		if ln.Depth > 0 {
			used = fmt.Sprintf("%d", ln.QuantityUsed)
		}
		rows = append(rows, row.New(6).Add(
			col.New(2).Add(text.New(fmt.Sprintf("%d", ln.LotID), props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(4).Add(text.New(strings.Repeat("   ", ln.Depth)+product, props.Text{Size: 8, Top: 1, Left: 1, Color: color})),
			col.New(2).Add(text.New(op, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(used, props.Text{Size: 8, Top: 1, Align: align.Right, Right: 1})),
			col.New(2).Add(text.New(ln.UnitCost.String(), props.Text{Size: 8, Top: 1, Align: align.Right, Right: 1})),
		))
	}
	return rows
}

func totalsRow(data *report.LotReport) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 1, Color: colorPrimary})
	}
	return row.New(14).Add(
		col.New(6),
		col.New(3).Add(label("CO2 total:"), label("CO2 por unidad:")),
		col.New(3).Add(value(data.TotalCost.String()), value(data.UnitCost.String())),
	)
}

func footerRow(data *report.LotReport) core.Row {
	qr := fmt.Sprintf("lot:%d|tx:%s", data.Lot.LotID, data.Lot.TransactionID)
	return row.New(40).Add(
		col.New(3).Add(code.NewQr(qr, props.Rect{Percent: 95, Center: true})),
		col.New(9).Add(
			text.New("El costo por unidad incluye la emisión propia del lote más la de todos los lotes consumidos, "+
				"truncado a entero en cada etapa.", props.Text{Size: 8, Top: 4, Left: 3, Color: colorGray}),
			text.New("Generado: "+data.GeneratedAt.Format("02/01/2006 15:04 MST"), props.Text{
				Size: 7, Top: 20, Left: 3, Color: colorGray,
			}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func ownerName(data *report.LotReport) string {
	if data.Owner != nil && data.Owner.Name != "" {
		return data.Owner.Name
	}
	return data.Lot.CompanyID
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
