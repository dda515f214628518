package memory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/co2-ledger/internal/domain"
	"github.com/jhoicas/co2-ledger/internal/domain/entity"
	"github.com/jhoicas/co2-ledger/internal/domain/repository"
	"github.com/jhoicas/co2-ledger/internal/infrastructure/memory"
)

func seedCompany(t *testing.T, s *memory.Store, id string, role entity.Role) {
	t.Helper()
	require.NoError(t, s.Companies().Create(context.Background(), &entity.Company{ID: id, Name: id, Role: role}))
}

func TestRun_CommitPublicaCambios(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore(memory.WithFirstLotID(1001))
	seedCompany(t, s, "c1", entity.RoleFarmer)

	err := s.Run(ctx, func(ctx context.Context, repos repository.TxRepos) error {
		id, err := repos.Operations.NextLotID(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1001), id)
		return repos.Operations.Create(ctx, &entity.Lot{LotID: id, CompanyID: "c1", ProductID: "trigo", Type: entity.OperationProduction, Quantity: 5})
	})
	require.NoError(t, err)

	lot, err := s.Operations().GetByID(ctx, 1001)
	require.NoError(t, err)
	require.NotNil(t, lot, "el lote confirmado debe ser visible")
}

func TestRun_ErrorDescartaCambios(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	seedCompany(t, s, "c1", entity.RoleFarmer)
	boom := errors.New("boom")

	var id int64
	err := s.Run(ctx, func(ctx context.Context, repos repository.TxRepos) error {
		id, _ = repos.Operations.NextLotID(ctx)
		require.NoError(t, repos.Operations.Create(ctx, &entity.Lot{LotID: id, CompanyID: "c1", ProductID: "trigo", Type: entity.OperationProduction, Quantity: 5}))
		require.NoError(t, repos.Companies.AddCO2Emitted(ctx, "c1", decimal.NewFromInt(7)))
		return boom
	})
	require.ErrorIs(t, err, boom)

	lot, err := s.Operations().GetByID(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, lot, "rollback: el lote no debe existir")
	c, err := s.Companies().GetByID(ctx, "c1")
	require.NoError(t, err)
	assert.True(t, c.CO2EmittedTotal.IsZero(), "rollback: el acumulado de CO2 no cambia")

	// La secuencia no retrocede.
	next, err := s.Operations().NextLotID(ctx)
	require.NoError(t, err)
	assert.Greater(t, next, id)
}

func TestRun_ContextoCancelado_Reintentable(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := memory.NewStore()
	err := s.Run(ctx, func(context.Context, repository.TxRepos) error { return nil })
	require.Error(t, err)
	assert.True(t, domain.IsRetryable(err))
	assert.ErrorIs(t, err, domain.ErrStorageTransaction)
}

func TestComposition_LotesDebenExistir(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	err := s.Composition().Create(ctx, &entity.CompositionEdge{OutputLotID: 1, InputLotID: 2, QuantityUsed: 1})
	assert.ErrorIs(t, err, domain.ErrLotNotFound)
}

func TestWarehouse_GetSinFila_CantidadCero(t *testing.T) {
	s := memory.NewStore()
	e, err := s.Warehouse().Get(context.Background(), "c1", 99)
	require.NoError(t, err)
	assert.Equal(t, int64(0), e.Quantity)
}

func TestAccruals_UnoPorLote(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	seedCompany(t, s, "c1", entity.RoleFarmer)
	require.NoError(t, s.Operations().Create(ctx, &entity.Lot{LotID: 1, CompanyID: "c1", ProductID: "p", Type: entity.OperationProduction, Quantity: 1}))

	require.NoError(t, s.Accruals().Create(ctx, &entity.TokenAccrual{LotID: 1, CompanyID: "c1"}))
	err := s.Accruals().Create(ctx, &entity.TokenAccrual{LotID: 1, CompanyID: "c1"})
	assert.ErrorIs(t, err, domain.ErrAlreadyAccrued)
}

func TestUsers_EmailUnicoSinMayusculas(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	seedCompany(t, s, "c1", entity.RoleFarmer)
	require.NoError(t, s.Users().Create(ctx, &entity.User{ID: "u1", CompanyID: "c1", Email: "Ana@Finca.co"}))

	u, err := s.Users().FindByEmail(ctx, "ana@finca.co")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "u1", u.ID)

	err = s.Users().Create(ctx, &entity.User{ID: "u2", CompanyID: "c1", Email: "ana@finca.co"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}
