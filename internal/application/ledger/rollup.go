package ledger

import (
	"context"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"

	"github.com/jhoicas/co2-ledger/internal/domain/provenance"
)

// sharedRollupTimeout límite del cálculo compartido, que no hereda la cancelación de quien lo inició.
const sharedRollupTimeout = 30 * time.Second

// RollupCalculator calcula el costo unitario de CO2 de un lote incluyendo sus entradas.
type RollupCalculator struct {
	graph *CompositionGraph
	cache CostCache
	group singleflight.Group
}

// NewRollupCalculator construye la calculadora. cache puede ser nil.
func NewRollupCalculator(graph *CompositionGraph, cache CostCache) *RollupCalculator {
	if cache == nil {
		cache = nopCache{}
	}
	return &RollupCalculator{graph: graph, cache: cache}
}

// Rollup árbol de procedencia con el costo de cada lote.
type Rollup struct {
	Tree  *provenance.Tree
	Costs map[int64]provenance.Cost
}

// Of costo de un lote del árbol; cero si no pertenece a él.
func (r *Rollup) Of(lotID int64) provenance.Cost { return r.Costs[lotID] }

// UnitCost floor(cost(L) / q(L)).
func (r *RollupCalculator) UnitCost(ctx context.Context, lotID int64) (decimal.Decimal, error) {
	c, err := r.Cost(ctx, lotID)
	if err != nil {
		return decimal.Zero, err
	}
	return c.Unit, nil
}

// Cost costo total y unitario del lote; usa la caché y colapsa llamadas concurrentes.
// Cada llamador espera con su propio ctx: si uno cancela, los demás siguen recibiendo el resultado.
func (r *RollupCalculator) Cost(ctx context.Context, lotID int64) (provenance.Cost, error) {
	if c, ok := r.cache.Get(ctx, lotID); ok {
		return c, nil
	}
	ch := r.group.DoChan(strconv.FormatInt(lotID, 10), func() (interface{}, error) {
		shared, cancel := context.WithTimeout(context.WithoutCancel(ctx), sharedRollupTimeout)
		defer cancel()
		res, err := r.RollupTree(shared, lotID)
		if err != nil {
			return nil, err
		}
		return res.Of(lotID), nil
	})
	select {
	case <-ctx.Done():
		return provenance.Cost{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return provenance.Cost{}, res.Err
		}
		return res.Val.(provenance.Cost), nil
	}
}

// RollupTree carga el sub-árbol una sola vez y calcula todos sus costos.
func (r *RollupCalculator) RollupTree(ctx context.Context, lotID int64) (*Rollup, error) {
	tree, err := r.graph.LoadSubtree(ctx, lotID)
	if err != nil {
		return nil, err
	}
	costs := provenance.Rollup(tree)
	for _, n := range tree.PostOrder {
		if !n.Missing() {
			r.cache.Set(ctx, n.LotID, costs[n.LotID])
		}
	}
	return &Rollup{Tree: tree, Costs: costs}, nil
}
