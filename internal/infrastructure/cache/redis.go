package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/co2-ledger/internal/application/ledger"
	"github.com/jhoicas/co2-ledger/internal/domain/provenance"
	"github.com/jhoicas/co2-ledger/pkg/logger"
)

var _ ledger.CostCache = (*RedisCostCache)(nil)

const redisKeyPrefix = "co2:cost:"

// RedisConfig conexión al Redis compartido entre réplicas.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// RedisCostCache caché compartida de costos. Los fallos de Redis se registran y se tratan
// como miss: la caché nunca rompe un cálculo.
type RedisCostCache struct {
	rdb *goredis.Client
	ttl time.Duration
	log *logger.Logger
}

// NewRedisCostCache conecta y verifica con PING.
func NewRedisCostCache(ctx context.Context, cfg RedisConfig, log *logger.Logger) (*RedisCostCache, error) {
	if cfg.Addr == "" {
		return nil, fmt.Errorf("redis: falta REDIS_ADDR")
	}
	if log == nil {
		log = logger.Nop()
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: 5 * time.Second,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &RedisCostCache{rdb: rdb, ttl: cfg.TTL, log: log.Component("cost-cache")}, nil
}

type cachedCost struct {
	Total string `json:"total"`
	Unit  string `json:"unit"`
}

func (c *RedisCostCache) Get(ctx context.Context, lotID int64) (provenance.Cost, bool) {
	raw, err := c.rdb.Get(ctx, key(lotID)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return provenance.Cost{}, false
	}
	if err != nil {
		c.log.Warn().Err(err).Int64("lot_id", lotID).Msg("redis get falló")
		return provenance.Cost{}, false
	}
	var cc cachedCost
	if err := json.Unmarshal(raw, &cc); err != nil {
		return provenance.Cost{}, false
	}
	cost, err := decodeCost(cc)
	if err != nil {
		return provenance.Cost{}, false
	}
	return cost, true
}

func (c *RedisCostCache) Set(ctx context.Context, lotID int64, cost provenance.Cost) {
	raw, err := json.Marshal(cachedCost{Total: cost.Total.String(), Unit: cost.Unit.String()})
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key(lotID), raw, c.ttl).Err(); err != nil {
		c.log.Warn().Err(err).Int64("lot_id", lotID).Msg("redis set falló")
	}
}

// Close cierra el cliente.
func (c *RedisCostCache) Close() error { return c.rdb.Close() }

func key(lotID int64) string { return redisKeyPrefix + strconv.FormatInt(lotID, 10) }

func decodeCost(cc cachedCost) (provenance.Cost, error) {
	total, err := decimal.NewFromString(cc.Total)
	if err != nil {
		return provenance.Cost{}, err
	}
	unit, err := decimal.NewFromString(cc.Unit)
	if err != nil {
		return provenance.Cost{}, err
	}
	return provenance.Cost{Total: total, Unit: unit}, nil
}
