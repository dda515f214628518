package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/jhoicas/co2-ledger/internal/application/ledger"
	"github.com/jhoicas/co2-ledger/internal/application/tokens"
	"github.com/jhoicas/co2-ledger/internal/domain"
	"github.com/jhoicas/co2-ledger/internal/domain/entity"
	"github.com/jhoicas/co2-ledger/internal/domain/repository"
	"github.com/jhoicas/co2-ledger/internal/infrastructure/postgres"
	"github.com/jhoicas/co2-ledger/pkg/config"
)

// ──────────────────────────────────────────────────────────────────────────────
// Contenedor PostgreSQL (se omite con -short o sin Docker)
// ──────────────────────────────────────────────────────────────────────────────

func startPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("integración omitida con -short")
	}
	ctx := context.Background()
	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("co2"),
		tcpostgres.WithUsername("ledger"),
		tcpostgres.WithPassword("ledger"),
		tcpostgres.BasicWaitStrategies(),
	)
	if err != nil {
		t.Skipf("no se pudo iniciar postgres (¿Docker disponible?): %v", err)
	}
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			t.Logf("terminar contenedor: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	mg, err := postgres.NewMigrator(dsn, nil)
	require.NoError(t, err)
	require.NoError(t, mg.Up())
	require.NoError(t, mg.Up(), "repetir Up no es error")
	mg.Close()

	pool, err := postgres.NewPool(ctx, config.DBConfig{DatabaseURL: dsn, MaxConns: 5})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	for id, role := range map[string]entity.Role{
		"finca": entity.RoleFarmer, "molino": entity.RoleTransformer,
		"trans": entity.RoleCarrier, "tienda": entity.RoleRetailer,
	} {
		require.NoError(t, postgres.NewCompanyRepository(pool).Create(ctx, &entity.Company{
			ID: id, Name: id, Role: role, CreatedAt: time.Now(),
		}))
	}
	return pool
}

func TestPostgres_FlujoCompleto(t *testing.T) {
	pool := startPostgres(t)
	ctx := context.Background()

	runner := postgres.NewTxRunner(pool, 500*time.Millisecond)
	companies := postgres.NewCompanyRepository(pool)
	reg := ledger.NewRegistrar(runner, ledger.NewCompanyRoleAuthorizer(companies), nil)
	graph := ledger.NewCompositionGraph(postgres.NewOperationRepository(pool), postgres.NewCompositionRepository(pool))
	calc := ledger.NewRollupCalculator(graph, nil)

	l1, err := reg.RegisterProduction(ctx, ledger.ProductionInput{CompanyID: "finca", ProductID: "trigo", Quantity: 100, CO2: decimal.NewFromInt(50)})
	require.NoError(t, err)
	assert.Equal(t, int64(1001), l1.LotID, "la secuencia arranca en 1001")
	l2, err := reg.RegisterProduction(ctx, ledger.ProductionInput{CompanyID: "finca", ProductID: "cebada", Quantity: 50, CO2: decimal.NewFromInt(25)})
	require.NoError(t, err)

	res, err := reg.RegisterTransport(ctx, ledger.TransportInput{
		CarrierID: "trans", RequesterID: "finca", RecipientID: "molino", InputLotID: l1.LotID, Quantity: 20, CO2: decimal.Zero,
	})
	require.NoError(t, err)
	res2, err := reg.RegisterTransport(ctx, ledger.TransportInput{
		CarrierID: "trans", RequesterID: "finca", RecipientID: "molino", InputLotID: l2.LotID, Quantity: 20, CO2: decimal.Zero,
	})
	require.NoError(t, err)

	out, err := reg.RegisterTransformation(ctx, ledger.TransformationInput{
		CompanyID: "molino", ProductID: "harina", Quantity: 10, CO2: decimal.NewFromInt(10),
		Inputs: []ledger.LotQuantity{
			{LotID: res.TransportLot.LotID, Quantity: 20},
			{LotID: res2.TransportLot.LotID, Quantity: 20},
		},
	})
	require.NoError(t, err)

	unit, err := calc.UnitCost(ctx, out.LotID)
	require.NoError(t, err)
	assert.True(t, unit.Equal(decimal.NewFromInt(1)), "unit_cost = %s", unit)

	c, err := companies.GetByID(ctx, "molino")
	require.NoError(t, err)
	assert.True(t, c.CO2EmittedTotal.Equal(decimal.NewFromInt(10)))

	// Atomicidad: la segunda entrada no alcanza.
	_, err = reg.RegisterTransformation(ctx, ledger.TransformationInput{
		CompanyID: "molino", ProductID: "pan", Quantity: 5, CO2: decimal.NewFromInt(1),
		Inputs: []ledger.LotQuantity{{LotID: out.LotID, Quantity: 5}, {LotID: res.TransportLot.LotID, Quantity: 1}},
	})
	require.ErrorIs(t, err, domain.ErrInsufficientQuantity)
	bal, err := postgres.NewWarehouseRepository(pool).Get(ctx, "molino", out.LotID)
	require.NoError(t, err)
	assert.Equal(t, int64(10), bal.Quantity)

	sync := ledger.NewSyncService(postgres.NewOperationRepository(pool), graph, nil)
	assert.ErrorIs(t, sync.MarkBlockchainRegistered(ctx, "tienda", out.LotID), domain.ErrPermissionDenied)
	require.NoError(t, sync.MarkBlockchainRegistered(ctx, "molino", out.LotID))
	require.NoError(t, sync.MarkBlockchainRegistered(ctx, "molino", out.LotID))
	assert.ErrorIs(t, sync.MarkBlockchainRegistered(ctx, "molino", 99999), domain.ErrLotNotFound)
}

func TestPostgres_LockTimeoutReintentable(t *testing.T) {
	pool := startPostgres(t)
	ctx := context.Background()
	runner := postgres.NewTxRunner(pool, 100*time.Millisecond)
	reg := ledger.NewRegistrar(runner, ledger.NewCompanyRoleAuthorizer(postgres.NewCompanyRepository(pool)), nil)
	lot, err := reg.RegisterProduction(ctx, ledger.ProductionInput{CompanyID: "finca", ProductID: "maiz", Quantity: 10, CO2: decimal.Zero})
	require.NoError(t, err)

	holder, err := pool.Begin(ctx)
	require.NoError(t, err)
	defer func() { _ = holder.Rollback(ctx) }()
	_, err = postgres.NewWarehouseRepository(holder).GetForUpdate(ctx, "finca", lot.LotID)
	require.NoError(t, err)

	err = runner.Run(ctx, func(ctx context.Context, repos repository.TxRepos) error {
		return ledger.Debit(ctx, repos.Warehouse, "finca", lot.LotID, 1, time.Now())
	})
	require.Error(t, err)
	assert.True(t, domain.IsRetryable(err), "lock_timeout debe ser reintentable: %v", err)
	assert.ErrorIs(t, err, domain.ErrStorageTransaction)
}

func TestPostgres_ThresholdsYTokens(t *testing.T) {
	pool := startPostgres(t)
	ctx := context.Background()
	thresholds := postgres.NewThresholdRepository(pool)
	verifier, err := tokens.NewThresholdVerifier(thresholds, "clave-integracion")
	require.NoError(t, err)

	th := &entity.Threshold{OperationType: entity.OperationProduction, ProductID: "trigo", MaxCO2: decimal.RequireFromString("60.5")}
	verifier.Sign(th)
	require.NoError(t, thresholds.Upsert(ctx, th))

	runner := postgres.NewTxRunner(pool, 0)
	reg := ledger.NewRegistrar(runner, ledger.NewCompanyRoleAuthorizer(postgres.NewCompanyRepository(pool)), nil)
	lot, err := reg.RegisterProduction(ctx, ledger.ProductionInput{CompanyID: "finca", ProductID: "trigo", Quantity: 10, CO2: decimal.NewFromInt(50)})
	require.NoError(t, err)

	accrual := tokens.NewAccrualService(verifier, postgres.NewOperationRepository(pool), runner, nil)
	_, err = accrual.AccrueForLot(ctx, "tienda", lot.LotID)
	require.ErrorIs(t, err, domain.ErrPermissionDenied)
	a, err := accrual.AccrueForLot(ctx, "finca", lot.LotID)
	require.NoError(t, err)
	assert.True(t, a.Delta.Equal(decimal.RequireFromString("10.5")))
	_, err = accrual.AccrueForLot(ctx, "finca", lot.LotID)
	assert.ErrorIs(t, err, domain.ErrAlreadyAccrued)

	// La columna guarda 6 decimales: lo que se siembra debe verificar tal como vuelve.
	n, err := verifier.Seed(ctx, []*entity.Threshold{
		{OperationType: entity.OperationSale, ProductID: "pan", MaxCO2: decimal.RequireFromString("1.234567")},
		{OperationType: entity.OperationSale, ProductID: "torta", MaxCO2: decimal.RequireFromString("1.2345678")},
	})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, 1, n)
	maxCO2, err := verifier.Verify(ctx, entity.OperationSale, "pan")
	require.NoError(t, err)
	assert.Equal(t, "1.234567", maxCO2.String())
	_, err = verifier.Verify(ctx, entity.OperationSale, "torta")
	assert.ErrorIs(t, err, domain.ErrThresholdNotFound)
	tampered, err := verifier.Audit(ctx)
	require.NoError(t, err)
	assert.Empty(t, tampered)

	_, err = pool.Exec(ctx, `UPDATE thresholds SET max_co2 = 600.5 WHERE product_id = 'trigo'`)
	require.NoError(t, err)
	_, err = verifier.Verify(ctx, entity.OperationProduction, "trigo")
	assert.ErrorIs(t, err, domain.ErrThresholdTampered)
}
