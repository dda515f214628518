package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CompanyResponse empresa con sus acumulados de CO2 y tokens.
type CompanyResponse struct {
	ID                  string          `json:"id"`
	Name                string          `json:"name"`
	Role                string          `json:"role"`
	CO2EmittedTotal     decimal.Decimal `json:"co2_emitted_total"`
	CO2CompensatedTotal decimal.Decimal `json:"co2_compensated_total"`
	TokenBalance        decimal.Decimal `json:"token_balance"`
	CreatedAt           time.Time       `json:"created_at"`
}

// CompensationRequest registro de CO2 compensado por la empresa del token.
type CompensationRequest struct {
	CO2         decimal.Decimal `json:"co2"`
	Description string          `json:"description" validate:"omitempty,max=500"`
}

// CompensationResponse compensación registrada.
type CompensationResponse struct {
	ID             string          `json:"id"`
	CompanyID      string          `json:"company_id"`
	CO2Compensated decimal.Decimal `json:"co2_compensated"`
	Description    string          `json:"description"`
	CreatedAt      time.Time       `json:"created_at"`
}
