package entity

import "github.com/shopspring/decimal"

// CO2Scale decimales que persiste el almacenamiento para montos de CO2 y tokens (NUMERIC(20, 6)).
const CO2Scale int32 = 6

// FitsCO2Scale indica si d se guarda sin redondeo. Un umbral firmado con más decimales
// dejaría de verificar tras persistirse.
func FitsCO2Scale(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(CO2Scale))
}

// Threshold CO2 máximo permitido para (tipo de operación, producto), firmado con HMAC.
type Threshold struct {
	OperationType OperationType
	ProductID     string
	MaxCO2        decimal.Decimal
	Signature     string // hex HMAC-SHA256
}
