package ledger_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/co2-ledger/internal/application/ledger"
	"github.com/jhoicas/co2-ledger/internal/domain"
	"github.com/jhoicas/co2-ledger/internal/domain/entity"
	"github.com/jhoicas/co2-ledger/internal/domain/provenance"
	"github.com/jhoicas/co2-ledger/internal/domain/repository"
)

func TestAddEdge_Validaciones(t *testing.T) {
	f := newFixture(t)
	src := f.produce(t, farmer, "trigo", 10, 1)

	err := f.store.Run(context.Background(), func(ctx context.Context, repos repository.TxRepos) error {
		return ledger.AddEdge(ctx, repos, 9999, src.LotID, 1)
	})
	assert.ErrorIs(t, err, domain.ErrLotNotFound, "la salida debe existir")

	err = f.store.Run(context.Background(), func(ctx context.Context, repos repository.TxRepos) error {
		return ledger.AddEdge(ctx, repos, src.LotID, src.LotID, 0)
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLoadSubtree_CadenaCompleta(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	src := f.produce(t, farmer, "cacao", 10, 20)
	res, err := f.registrar.RegisterTransport(ctx, ledger.TransportInput{
		CarrierID: carrier, RequesterID: farmer, RecipientID: retailer,
		InputLotID: src.LotID, Quantity: 10, CO2: dec(5),
	})
	require.NoError(t, err)

	tree, err := f.graph.LoadSubtree(ctx, res.TransportLot.LotID)
	require.NoError(t, err)
	assert.Equal(t, 3, tree.Size())

	var depths []int
	tree.Walk(func(n *provenance.Node, depth int, _ int64) { depths = append(depths, depth) })
	assert.Equal(t, []int{0, 1, 2}, depths)
}

func TestLoadSubtree_LoteInexistente(t *testing.T) {
	f := newFixture(t)
	_, err := f.graph.LoadSubtree(context.Background(), 777)
	assert.ErrorIs(t, err, domain.ErrLotNotFound)
}

type countingCache struct {
	data map[int64]provenance.Cost
	sets int
}

func (c *countingCache) Get(_ context.Context, id int64) (provenance.Cost, bool) {
	v, ok := c.data[id]
	return v, ok
}

func (c *countingCache) Set(_ context.Context, id int64, cost provenance.Cost) {
	c.data[id] = cost
	c.sets++
}

func TestRollupCalculator_UsaCache(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	src := f.produce(t, farmer, "cacao", 10, 20)
	cache := &countingCache{data: map[int64]provenance.Cost{}}
	calc := ledger.NewRollupCalculator(f.graph, cache)

	first, err := calc.Cost(ctx, src.LotID)
	require.NoError(t, err)
	assert.True(t, first.Unit.Equal(dec(2)))
	assert.Equal(t, 1, cache.sets)

	second, err := calc.Cost(ctx, src.LotID)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, cache.sets, "la segunda lectura sale de la caché")
}

func TestRollupTree_CostosPorNodo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	src := f.produce(t, farmer, "cacao", 10, 20)
	res, err := f.registrar.RegisterTransport(ctx, ledger.TransportInput{
		CarrierID: carrier, RequesterID: farmer, RecipientID: retailer,
		InputLotID: src.LotID, Quantity: 10, CO2: dec(10),
	})
	require.NoError(t, err)

	r, err := f.rollup.RollupTree(ctx, res.TransportLot.LotID)
	require.NoError(t, err)
	assert.True(t, r.Of(src.LotID).Unit.Equal(dec(2)))
	assert.True(t, r.Of(res.SaleLot.LotID).Unit.Equal(dec(2)))
	// (10 + 2*10) / 10 = 3
	assert.True(t, r.Of(res.TransportLot.LotID).Unit.Equal(dec(3)))
}

// gatedOps detiene la primera lectura de lote hasta que el test libera release.
type gatedOps struct {
	repository.OperationRepository
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func (g *gatedOps) GetByID(ctx context.Context, lotID int64) (*entity.Lot, error) {
	g.once.Do(func() {
		close(g.entered)
		<-g.release
	})
	return g.OperationRepository.GetByID(ctx, lotID)
}

func TestRollupCalculator_CancelarUnLlamadorNoAfectaAOtros(t *testing.T) {
	f := newFixture(t)
	src := f.produce(t, farmer, "cacao", 10, 20)
	ops := &gatedOps{OperationRepository: f.store.Operations(), entered: make(chan struct{}), release: make(chan struct{})}
	calc := ledger.NewRollupCalculator(ledger.NewCompositionGraph(ops, f.store.Composition()), nil)

	ctx1, cancel1 := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := calc.Cost(ctx1, src.LotID)
		firstErr <- err
	}()
	<-ops.entered

	type result struct {
		cost provenance.Cost
		err  error
	}
	second := make(chan result, 1)
	go func() {
		c, err := calc.Cost(context.Background(), src.LotID)
		second <- result{c, err}
	}()
	time.Sleep(20 * time.Millisecond)

	cancel1()
	assert.ErrorIs(t, <-firstErr, context.Canceled)
	close(ops.release)

	select {
	case got := <-second:
		require.NoError(t, got.err)
		assert.True(t, got.cost.Unit.Equal(dec(2)))
	case <-time.After(5 * time.Second):
		t.Fatal("el segundo llamador no recibió el resultado")
	}
}
