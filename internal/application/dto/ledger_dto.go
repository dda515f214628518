package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductionRequest registro de materia prima. La empresa sale del token.
type ProductionRequest struct {
	ProductID string          `json:"product_id" validate:"required,max=100"`
	Quantity  int64           `json:"quantity" validate:"gt=0"`
	CO2       decimal.Decimal `json:"co2"`
}

// LotQuantityRequest cantidad consumida de un lote.
type LotQuantityRequest struct {
	LotID    int64 `json:"lot_id" validate:"gt=0"`
	Quantity int64 `json:"quantity" validate:"gt=0"`
}

// TransformationRequest producto elaborado a partir de lotes de la bodega propia.
type TransformationRequest struct {
	ProductID string               `json:"product_id" validate:"required,max=100"`
	Quantity  int64                `json:"quantity" validate:"gt=0"`
	CO2       decimal.Decimal      `json:"co2"`
	Inputs    []LotQuantityRequest `json:"inputs" validate:"required,min=1,dive"`
}

// TransportRequest traslado registrado por el transportista del token.
type TransportRequest struct {
	InputLotID  int64           `json:"input_lot_id" validate:"gt=0"`
	RequesterID string          `json:"requester_id" validate:"required,max=64"`
	RecipientID string          `json:"recipient_id" validate:"required,max=64"`
	Quantity    int64           `json:"quantity" validate:"gt=0"`
	CO2         decimal.Decimal `json:"co2"`
}

// SaleRequest venta final de un lote de la bodega propia.
type SaleRequest struct {
	InputLotID int64           `json:"input_lot_id" validate:"gt=0"`
	Quantity   int64           `json:"quantity" validate:"gt=0"`
	CO2        decimal.Decimal `json:"co2"`
}

// LotResponse lote registrado.
type LotResponse struct {
	LotID                int64           `json:"lot_id"`
	TransactionID        string          `json:"transaction_id"`
	CompanyID            string          `json:"company_id"`
	ProductID            string          `json:"product_id"`
	OperationType        string          `json:"operation_type"`
	Quantity             int64           `json:"quantity"`
	CO2Emitted           decimal.Decimal `json:"co2_emitted"`
	CreatedAt            time.Time       `json:"created_at"`
	BlockchainRegistered bool            `json:"blockchain_registered"`
}

// TransportResponse los dos lotes creados por un transporte.
type TransportResponse struct {
	SaleLot      LotResponse `json:"sale_lot"`
	TransportLot LotResponse `json:"transport_lot"`
}

// ProvenanceNode nodo del árbol de procedencia. Lot es nil si el lote no tiene registro.
type ProvenanceNode struct {
	LotID        int64            `json:"lot_id"`
	QuantityUsed int64            `json:"quantity_used,omitempty"`
	Missing      bool             `json:"missing,omitempty"`
	Lot          *LotResponse     `json:"lot,omitempty"`
	TotalCost    decimal.Decimal  `json:"total_cost"`
	UnitCost     decimal.Decimal  `json:"unit_cost"`
	Inputs       []ProvenanceNode `json:"inputs,omitempty"`
}

// UnitCostResponse costo de CO2 de un lote.
type UnitCostResponse struct {
	LotID     int64           `json:"lot_id"`
	TotalCost decimal.Decimal `json:"total_cost"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
}

// CompositionResponse lo que la sincronización blockchain necesita de un lote.
type CompositionResponse struct {
	Lot       LotResponse          `json:"lot"`
	ChainCode uint8                `json:"chain_code"`
	Inputs    []LotQuantityRequest `json:"inputs"`
}

// LotListResponse lista paginada de lotes.
type LotListResponse struct {
	Items []LotResponse `json:"items"`
	Page  PageResponse  `json:"page"`
}

// TokenDeltaQuery parámetros de GET /tokens/delta.
type TokenDeltaQuery struct {
	OperationType string `query:"operation_type" validate:"required,oneof=production transport transformation sale"`
	ProductID     string `query:"product_id" validate:"required"`
	ActualCO2     string `query:"actual_co2" validate:"required,numeric"`
}

// TokenDeltaResponse umbral verificado menos CO2 real.
type TokenDeltaResponse struct {
	OperationType string          `json:"operation_type"`
	ProductID     string          `json:"product_id"`
	ActualCO2     decimal.Decimal `json:"actual_co2"`
	Delta         decimal.Decimal `json:"delta"`
}

// TokenAccrualResponse acreditación registrada para un lote.
type TokenAccrualResponse struct {
	LotID     int64           `json:"lot_id"`
	CompanyID string          `json:"company_id"`
	Threshold decimal.Decimal `json:"threshold"`
	ActualCO2 decimal.Decimal `json:"actual_co2"`
	Delta     decimal.Decimal `json:"delta"`
	CreatedAt time.Time       `json:"created_at"`
}
