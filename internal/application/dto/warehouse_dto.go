package dto

import "time"

// WarehouseEntryResponse cantidad disponible de un lote en la bodega de la empresa.
type WarehouseEntryResponse struct {
	CompanyID string    `json:"company_id"`
	LotID     int64     `json:"lot_id"`
	Quantity  int64     `json:"quantity"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// WarehouseListResponse lista paginada de entradas de bodega.
type WarehouseListResponse struct {
	Items []WarehouseEntryResponse `json:"items"`
	Page  PageResponse             `json:"page"`
}
