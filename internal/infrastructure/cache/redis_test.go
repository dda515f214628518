package cache_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/jhoicas/co2-ledger/internal/domain/provenance"
	"github.com/jhoicas/co2-ledger/internal/infrastructure/cache"
)

func TestNewRedisCostCache_SinDireccion(t *testing.T) {
	_, err := cache.NewRedisCostCache(context.Background(), cache.RedisConfig{}, nil)
	assert.Error(t, err)
}

func TestNewRedisCostCache_ServidorInalcanzable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := cache.NewRedisCostCache(ctx, cache.RedisConfig{Addr: "127.0.0.1:1"}, nil)
	assert.Error(t, err, "el PING debe fallar y la app cae al LRU")
}

func TestRedisCostCache_GetSet(t *testing.T) {
	if testing.Short() {
		t.Skip("integración omitida con -short")
	}
	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	if err != nil {
		t.Skipf("no se pudo iniciar redis (¿Docker disponible?): %v", err)
	}
	t.Cleanup(func() { _ = testcontainers.TerminateContainer(container) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379/tcp")
	require.NoError(t, err)

	c, err := cache.NewRedisCostCache(ctx, cache.RedisConfig{
		Addr: fmt.Sprintf("%s:%s", host, port.Port()),
		TTL:  time.Minute,
	}, nil)
	require.NoError(t, err)
	defer c.Close()

	_, ok := c.Get(ctx, 1001)
	assert.False(t, ok)

	c.Set(ctx, 1001, provenance.Cost{Total: decimal.RequireFromString("70.25"), Unit: decimal.NewFromInt(7)})
	got, ok := c.Get(ctx, 1001)
	require.True(t, ok)
	assert.True(t, got.Total.Equal(decimal.RequireFromString("70.25")))
	assert.True(t, got.Unit.Equal(decimal.NewFromInt(7)))
}
