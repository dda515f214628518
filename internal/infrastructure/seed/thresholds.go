// Package seed lee los archivos de carga inicial (umbrales de CO2) que consume ledgerctl.
package seed

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/co2-ledger/internal/domain/entity"
)

// ThresholdRow fila del CSV de umbrales, aún sin firmar.
type ThresholdRow struct {
	Line          int
	OperationType entity.OperationType
	ProductID     string
	MaxCO2        decimal.Decimal
}

// decoderFor envuelve r según el charset declarado. Vacío o utf-8 no transforma.
func decoderFor(r io.Reader, charset string) (io.Reader, error) {
	switch strings.ToLower(strings.TrimSpace(charset)) {
	case "", "utf-8", "utf8":
		return r, nil
	case "iso-8859-1", "iso8859-1", "latin1":
		return transform.NewReader(r, charmap.ISO8859_1.NewDecoder()), nil
	case "windows-1252", "cp1252":
		return transform.NewReader(r, charmap.Windows1252.NewDecoder()), nil
	default:
		return nil, fmt.Errorf("charset no soportado: %q", charset)
	}
}

// ReadThresholds parsea filas operation_type,product_id,max_co2. Una primera fila cuyo
// tipo de operación sea "operation_type" se toma como encabezado. Líneas vacías se ignoran.
func ReadThresholds(r io.Reader, charset string) ([]ThresholdRow, error) {
	in, err := decoderFor(r, charset)
	if err != nil {
		return nil, err
	}
	cr := csv.NewReader(in)
	cr.FieldsPerRecord = 3
	cr.TrimLeadingSpace = true
	cr.Comment = '#'

	var rows []ThresholdRow
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv umbrales: %w", err)
		}
		line, _ := cr.FieldPos(0)
		if len(rows) == 0 && strings.EqualFold(strings.TrimSpace(rec[0]), "operation_type") {
			continue
		}
		op, err := entity.ParseOperationType(strings.ToLower(strings.TrimSpace(rec[0])))
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", line, err)
		}
		product := strings.TrimSpace(rec[1])
		if product == "" {
			return nil, fmt.Errorf("línea %d: product_id vacío", line)
		}
		maxCO2, err := decimal.NewFromString(strings.TrimSpace(rec[2]))
		if err != nil || maxCO2.IsNegative() {
			return nil, fmt.Errorf("línea %d: max_co2 inválido %q", line, rec[2])
		}
		if !entity.FitsCO2Scale(maxCO2) {
			return nil, fmt.Errorf("línea %d: max_co2 %q admite hasta %d decimales", line, rec[2], entity.CO2Scale)
		}
		rows = append(rows, ThresholdRow{Line: line, OperationType: op, ProductID: product, MaxCO2: maxCO2})
	}
	return rows, nil
}

// Threshold convierte la fila a entidad sin firma.
func (r ThresholdRow) Threshold() *entity.Threshold {
	return &entity.Threshold{OperationType: r.OperationType, ProductID: r.ProductID, MaxCO2: r.MaxCO2}
}
