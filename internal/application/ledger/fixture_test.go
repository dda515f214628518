package ledger_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/co2-ledger/internal/application/ledger"
	"github.com/jhoicas/co2-ledger/internal/domain/entity"
	"github.com/jhoicas/co2-ledger/internal/domain/repository"
	"github.com/jhoicas/co2-ledger/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fixture: store en memoria con una empresa por rol
// ──────────────────────────────────────────────────────────────────────────────

const (
	farmer      = "finca-la-esperanza"
	farmer2     = "finca-el-roble"
	carrier     = "transportes-andinos"
	transformer = "molinos-del-valle"
	retailer    = "mercado-central"
)

type fixture struct {
	store     *memory.Store
	registrar *ledger.Registrar
	graph     *ledger.CompositionGraph
	rollup    *ledger.RollupCalculator
	warehouse *ledger.WarehouseLedger
	sync      *ledger.SyncService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	s := memory.NewStore(memory.WithFirstLotID(1001))
	for id, role := range map[string]entity.Role{
		farmer:      entity.RoleFarmer,
		farmer2:     entity.RoleFarmer,
		carrier:     entity.RoleCarrier,
		transformer: entity.RoleTransformer,
		retailer:    entity.RoleRetailer,
	} {
		require.NoError(t, s.Companies().Create(context.Background(), &entity.Company{ID: id, Name: id, Role: role}))
	}
	graph := ledger.NewCompositionGraph(s.Operations(), s.Composition())
	return &fixture{
		store:     s,
		registrar: ledger.NewRegistrar(s, ledger.NewCompanyRoleAuthorizer(s.Companies()), nil),
		graph:     graph,
		rollup:    ledger.NewRollupCalculator(graph, nil),
		warehouse: ledger.NewWarehouseLedger(s.Warehouse()),
		sync:      ledger.NewSyncService(s.Operations(), graph, nil),
	}
}

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func (f *fixture) produce(t *testing.T, company, product string, qty, co2 int64) *entity.Lot {
	t.Helper()
	lot, err := f.registrar.RegisterProduction(context.Background(), ledger.ProductionInput{
		CompanyID: company, ProductID: product, Quantity: qty, CO2: dec(co2),
	})
	require.NoError(t, err)
	return lot
}

// stock acredita directamente un lote en la bodega de otra empresa (atajo de fixture).
func (f *fixture) stock(t *testing.T, company string, lotID, qty int64) {
	t.Helper()
	err := f.store.Run(context.Background(), func(ctx context.Context, repos repository.TxRepos) error {
		return ledger.Credit(ctx, repos.Warehouse, company, lotID, qty, time.Now())
	})
	require.NoError(t, err)
}

func (f *fixture) balance(t *testing.T, company string, lotID int64) int64 {
	t.Helper()
	q, err := f.warehouse.Balance(context.Background(), company, lotID)
	require.NoError(t, err)
	return q
}

func (f *fixture) company(t *testing.T, id string) *entity.Company {
	t.Helper()
	c, err := f.store.Companies().GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, c)
	return c
}
