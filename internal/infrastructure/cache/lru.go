// Package cache implementa ledger.CostCache en proceso (LRU con expiración) y en Redis.
package cache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/jhoicas/co2-ledger/internal/application/ledger"
	"github.com/jhoicas/co2-ledger/internal/domain/provenance"
)

var _ ledger.CostCache = (*LRUCostCache)(nil)

// LRUCostCache caché local de costos por lote.
type LRUCostCache struct {
	lru *expirable.LRU[int64, provenance.Cost]
}

// NewLRUCostCache size <= 0 desactiva el límite de entradas; ttl <= 0 desactiva la expiración.
func NewLRUCostCache(size int, ttl time.Duration) *LRUCostCache {
	return &LRUCostCache{lru: expirable.NewLRU[int64, provenance.Cost](size, nil, ttl)}
}

func (c *LRUCostCache) Get(_ context.Context, lotID int64) (provenance.Cost, bool) {
	return c.lru.Get(lotID)
}

func (c *LRUCostCache) Set(_ context.Context, lotID int64, cost provenance.Cost) {
	c.lru.Add(lotID, cost)
}

// Len número de entradas vigentes.
func (c *LRUCostCache) Len() int { return c.lru.Len() }
