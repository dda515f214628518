package main

import (
	"context"

	"github.com/jhoicas/co2-ledger/internal/application/ledger"
	"github.com/jhoicas/co2-ledger/internal/domain/repository"
	"github.com/jhoicas/co2-ledger/internal/infrastructure/cache"
	"github.com/jhoicas/co2-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/co2-ledger/internal/infrastructure/postgres"
	"github.com/jhoicas/co2-ledger/pkg/config"
	"github.com/jhoicas/co2-ledger/pkg/logger"
)

// backend repositorios de lectura y runner transaccional del driver configurado.
type backend struct {
	txRunner      ledger.TxRunner
	operations    repository.OperationRepository
	composition   repository.CompositionRepository
	warehouse     repository.WarehouseRepository
	companies     repository.CompanyRepository
	thresholds    repository.ThresholdRepository
	users         repository.UserRepository
	compensations repository.CompensationRepository
	close         func()
}

func openBackend(ctx context.Context, cfg *config.Config, log *logger.Logger) (*backend, error) {
	if cfg.DB.Driver == "memory" {
		log.Warn().Msg("DB_DRIVER=memory: los datos no se persisten")
		s := memory.NewStore()
		return &backend{
			txRunner:      s,
			operations:    s.Operations(),
			composition:   s.Composition(),
			warehouse:     s.Warehouse(),
			companies:     s.Companies(),
			thresholds:    s.Thresholds(),
			users:         s.Users(),
			compensations: s.Compensations(),
			close:         func() {},
		}, nil
	}

	dsn := cfg.DB.ConnectionString()
	mg, err := postgres.NewMigrator(dsn, log)
	if err != nil {
		return nil, err
	}
	err = mg.Up()
	mg.Close()
	if err != nil {
		return nil, err
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	return &backend{
		txRunner:      postgres.NewTxRunner(pool, cfg.DB.LockTimeout()),
		operations:    postgres.NewOperationRepository(pool),
		composition:   postgres.NewCompositionRepository(pool),
		warehouse:     postgres.NewWarehouseRepository(pool),
		companies:     postgres.NewCompanyRepository(pool),
		thresholds:    postgres.NewThresholdRepository(pool),
		users:         postgres.NewUserRepository(pool),
		compensations: postgres.NewCompensationRepository(pool),
		close:         pool.Close,
	}, nil
}

// openCostCache Redis si REDIS_ADDR está definido y responde; si no, LRU en proceso.
func openCostCache(ctx context.Context, cfg config.CacheConfig, log *logger.Logger) (ledger.CostCache, func()) {
	if cfg.RedisAddr != "" {
		rc, err := cache.NewRedisCostCache(ctx, cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			TTL:      cfg.TTL(),
		}, log)
		if err == nil {
			log.Info().Str("addr", cfg.RedisAddr).Msg("caché de costos en Redis")
			return rc, func() { _ = rc.Close() }
		}
		log.Warn().Err(err).Msg("Redis no disponible, se usa caché LRU en proceso")
	}
	return cache.NewLRUCostCache(cfg.Size, cfg.TTL()), func() {}
}
