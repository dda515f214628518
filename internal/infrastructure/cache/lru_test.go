package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/co2-ledger/internal/domain/provenance"
	"github.com/jhoicas/co2-ledger/internal/infrastructure/cache"
)

func TestLRUCostCache_GetSet(t *testing.T) {
	ctx := context.Background()
	c := cache.NewLRUCostCache(2, time.Minute)

	_, ok := c.Get(ctx, 1)
	assert.False(t, ok)

	c.Set(ctx, 1, provenance.Cost{Total: decimal.NewFromInt(10), Unit: decimal.NewFromInt(1)})
	got, ok := c.Get(ctx, 1)
	assert.True(t, ok)
	assert.True(t, got.Unit.Equal(decimal.NewFromInt(1)))
}

func TestLRUCostCache_ExpulsaMenosReciente(t *testing.T) {
	ctx := context.Background()
	c := cache.NewLRUCostCache(2, time.Minute)
	for id := int64(1); id <= 3; id++ {
		c.Set(ctx, id, provenance.Cost{})
	}
	assert.Equal(t, 2, c.Len())
	_, ok := c.Get(ctx, 1)
	assert.False(t, ok, "el lote 1 fue expulsado")
}

func TestLRUCostCache_Expira(t *testing.T) {
	ctx := context.Background()
	c := cache.NewLRUCostCache(10, 20*time.Millisecond)
	c.Set(ctx, 7, provenance.Cost{})
	assert.Eventually(t, func() bool {
		_, ok := c.Get(ctx, 7)
		return !ok
	}, time.Second, 10*time.Millisecond)
}
