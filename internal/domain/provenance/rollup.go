package provenance

import "github.com/shopspring/decimal"

// Cost costo de CO2 acumulado de un lote.
type Cost struct {
	Total decimal.Decimal // emisión propia + costo amortizado de las entradas
	Unit  decimal.Decimal // floor(Total / Quantity)
}

// UnitCost división entera (truncada) del costo total entre la cantidad del lote.
// Con valores no negativos equivale a floor. Cantidad <= 0 devuelve 0.
func UnitCost(total decimal.Decimal, quantity int64) decimal.Decimal {
	if quantity <= 0 {
		return decimal.Zero
	}
	q, _ := total.QuoRem(decimal.NewFromInt(quantity), 0)
	return q
}

// Rollup calcula el costo de cada lote del árbol recorriendo PostOrder:
//
//	cost(L) = e(L) + Σ unit_cost(i) * u_i
//	unit_cost(L) = floor(cost(L) / q(L))
//
// Un lote faltante aporta 0.
func Rollup(t *Tree) map[int64]Cost {
	costs := make(map[int64]Cost, len(t.PostOrder))
	for _, n := range t.PostOrder {
		if n.Missing() {
			costs[n.LotID] = Cost{Total: decimal.Zero, Unit: decimal.Zero}
			continue
		}
		total := n.Lot.CO2Emitted
		for _, in := range n.Inputs {
			total = total.Add(costs[in.LotID].Unit.Mul(decimal.NewFromInt(in.QuantityUsed)))
		}
		costs[n.LotID] = Cost{Total: total, Unit: UnitCost(total, n.Lot.Quantity)}
	}
	return costs
}
