package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Company empresa participante de la cadena con sus acumulados de CO2 y tokens.
// Los acumulados solo los modifican el registrador (CO2) y los flujos de compensación/tokens.
type Company struct {
	ID                  string
	Name                string
	Role                Role
	CO2EmittedTotal     decimal.Decimal
	CO2CompensatedTotal decimal.Decimal
	TokenBalance        decimal.Decimal
	CreatedAt           time.Time
}
