package entity

// CompositionEdge indica que OutputLotID consumió QuantityUsed unidades de InputLotID.
// Solo se insertan (procedencia append-only).
type CompositionEdge struct {
	ID           int64
	OutputLotID  int64
	InputLotID   int64
	QuantityUsed int64 // > 0
}
