package entity

import "time"

// WarehouseEntry cantidad disponible de un lote en poder de una empresa.
type WarehouseEntry struct {
	CompanyID string
	LotID     int64
	Quantity  int64 // nunca negativa
	UpdatedAt time.Time
}
