// Package provenance contiene los servicios de dominio del grafo de composición de lotes:
// construcción del árbol de procedencia, cálculo de costo unitario de CO2, firma de umbrales
// y cálculo de tokens. No realiza I/O propio; la carga de datos entra como Fetcher.
package provenance

import (
	"context"
	"fmt"

	"github.com/jhoicas/co2-ledger/internal/domain"
	"github.com/jhoicas/co2-ledger/internal/domain/entity"
)

// Node nodo del árbol de composición. Lot es nil cuando el lote no tiene fila en operations.
type Node struct {
	LotID  int64
	Lot    *entity.Lot
	Inputs []Input
}

// Missing indica que el lote referenciado no existe (dato faltante).
func (n *Node) Missing() bool { return n.Lot == nil }

// Input arista resuelta hacia un lote de entrada.
type Input struct {
	LotID        int64
	QuantityUsed int64
	Node         *Node
}

// Tree árbol de procedencia de un lote. Los sub-grafos compartidos apuntan al mismo Node.
// PostOrder lista cada lote una sola vez, entradas antes que salidas.
type Tree struct {
	Root      *Node
	PostOrder []*Node
}

// Size número de lotes distintos en el árbol.
func (t *Tree) Size() int { return len(t.PostOrder) }

// Fetcher carga un lote y sus aristas de composición. Devuelve lot nil si no existe.
type Fetcher func(ctx context.Context, lotID int64) (*entity.Lot, []*entity.CompositionEdge, error)

const (
	unvisited uint8 = iota
	inProgress
	done
)

type frame struct {
	node *Node
	next int
}

// Build expande el árbol de composición de rootID con un DFS iterativo.
// Cada lote se carga una sola vez por llamada. Un lote faltante queda como nodo vacío y no
// interrumpe a sus hermanos; la raíz faltante es ErrLotNotFound y una arista de retorno es
// ErrCycleDetected.
func Build(ctx context.Context, rootID int64, fetch Fetcher) (*Tree, error) {
	arena := make(map[int64]*Node)
	state := make(map[int64]uint8)

	load := func(lotID int64) (*Node, error) {
		lot, edges, err := fetch(ctx, lotID)
		if err != nil {
			return nil, fmt.Errorf("cargar lote %d: %w", lotID, err)
		}
		n := &Node{LotID: lotID, Lot: lot}
		if lot != nil {
			n.Inputs = make([]Input, 0, len(edges))
			for _, e := range edges {
				n.Inputs = append(n.Inputs, Input{LotID: e.InputLotID, QuantityUsed: e.QuantityUsed})
			}
		}
		arena[lotID] = n
		return n, nil
	}

	root, err := load(rootID)
	if err != nil {
		return nil, err
	}
	if root.Missing() {
		return nil, fmt.Errorf("%w: %d", domain.ErrLotNotFound, rootID)
	}

	order := make([]*Node, 0, 8)
	state[rootID] = inProgress
	stack := []frame{{node: root}}
	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		top := &stack[len(stack)-1]
		if top.next == len(top.node.Inputs) {
			state[top.node.LotID] = done
			order = append(order, top.node)
			stack = stack[:len(stack)-1]
			continue
		}
		in := &top.node.Inputs[top.next]
		top.next++

		switch state[in.LotID] {
		case inProgress:
			return nil, fmt.Errorf("%w: lote %d -> %d", domain.ErrCycleDetected, top.node.LotID, in.LotID)
		case done:
			in.Node = arena[in.LotID]
			continue
		}
		child, err := load(in.LotID)
		if err != nil {
			return nil, err
		}
		in.Node = child
		state[in.LotID] = inProgress
		stack = append(stack, frame{node: child})
	}
	return &Tree{Root: root, PostOrder: order}, nil
}

// Walk recorre el árbol desde la raíz en profundidad (pre-orden). Los nodos compartidos se
// visitan una vez por cada camino. quantityUsed es 0 para la raíz.
func (t *Tree) Walk(fn func(n *Node, depth int, quantityUsed int64)) {
	type item struct {
		node  *Node
		depth int
		qty   int64
	}
	stack := []item{{node: t.Root}}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		fn(it.node, it.depth, it.qty)
		for i := len(it.node.Inputs) - 1; i >= 0; i-- {
			in := it.node.Inputs[i]
			if in.Node != nil {
				stack = append(stack, item{node: in.Node, depth: it.depth + 1, qty: in.QuantityUsed})
			}
		}
	}
}
