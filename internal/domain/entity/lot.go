package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Lot representa un lote físico en una etapa de la cadena (fila de la tabla operations).
// Inmutable una vez creado, salvo BlockchainRegistered.
type Lot struct {
	LotID                int64
	TransactionID        string // agrupa los lotes creados por un mismo registro
	CompanyID            string
	ProductID            string
	Type                 OperationType
	Quantity             int64           // > 0
	CO2Emitted           decimal.Decimal // >= 0, emisión propia de la operación
	CreatedAt            time.Time
	BlockchainRegistered bool
}
