package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// TokenAccrual registro de tokens acreditados (o descontados) por un lote. Uno por lote.
type TokenAccrual struct {
	LotID     int64
	CompanyID string
	Threshold decimal.Decimal
	ActualCO2 decimal.Decimal
	Delta     decimal.Decimal
	CreatedAt time.Time
}

// Compensation CO2 compensado por una empresa (reforestación, créditos, etc.).
type Compensation struct {
	ID             string
	CompanyID      string
	CO2Compensated decimal.Decimal
	Description    string
	CreatedAt      time.Time
}
