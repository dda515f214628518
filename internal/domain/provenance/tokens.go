package provenance

import "github.com/shopspring/decimal"

// TokensDelta tokens ganados (positivo) o perdidos (negativo) por una operación:
// umbral verificado menos CO2 real.
func TokensDelta(verifiedThreshold, actualCO2 decimal.Decimal) decimal.Decimal {
	return verifiedThreshold.Sub(actualCO2)
}
