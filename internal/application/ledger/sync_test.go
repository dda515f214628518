package ledger_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/co2-ledger/internal/application/ledger"
	"github.com/jhoicas/co2-ledger/internal/domain"
)

func TestSync_ComposicionYCodigoOnChain(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.produce(t, farmer, "trigo", 10, 1)
	b := f.produce(t, farmer2, "cebada", 10, 1)
	f.stock(t, transformer, a.LotID, 4)
	f.stock(t, transformer, b.LotID, 6)
	out, err := f.registrar.RegisterTransformation(ctx, ledger.TransformationInput{
		CompanyID: transformer, ProductID: "malta", Quantity: 5, CO2: dec(2),
		Inputs: []ledger.LotQuantity{{LotID: a.LotID, Quantity: 4}, {LotID: b.LotID, Quantity: 6}},
	})
	require.NoError(t, err)

	comp, err := f.sync.CompositionForLot(ctx, out.LotID)
	require.NoError(t, err)
	assert.Equal(t, uint8(2), comp.ChainCode)
	assert.Equal(t, []ledger.LotQuantity{{LotID: a.LotID, Quantity: 4}, {LotID: b.LotID, Quantity: 6}}, comp.Inputs)

	_, err = f.sync.CompositionForLot(ctx, 31337)
	assert.ErrorIs(t, err, domain.ErrLotNotFound)
}

func TestSync_MarcarRegistradoIdempotente(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	lot := f.produce(t, farmer, "trigo", 10, 1)

	pending, err := f.sync.PendingForCompany(ctx, farmer, 0, 0)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	require.NoError(t, f.sync.MarkBlockchainRegistered(ctx, farmer, lot.LotID))
	require.NoError(t, f.sync.MarkBlockchainRegistered(ctx, farmer, lot.LotID), "repetir no es error")

	pending, err = f.sync.PendingForCompany(ctx, farmer, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, pending)

	assert.ErrorIs(t, f.sync.MarkBlockchainRegistered(ctx, farmer, 5555), domain.ErrLotNotFound)
}

func TestSync_MarcarRegistrado_EmpresaAjena(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	lot := f.produce(t, farmer, "trigo", 10, 1)

	err := f.sync.MarkBlockchainRegistered(ctx, retailer, lot.LotID)
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)

	pending, err := f.sync.PendingForCompany(ctx, farmer, 0, 0)
	require.NoError(t, err)
	require.Len(t, pending, 1, "el lote sigue pendiente para su dueña")
	assert.Equal(t, lot.LotID, pending[0].LotID)
}
