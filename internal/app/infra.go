// Package app assembles the service's dependencies from configuration.
// The HTTP server and the userctl CLI both build on it.
package app

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"frontuser/internal/config"
	"frontuser/internal/domain/auth"
	"frontuser/internal/infrastructure/cache"
	"frontuser/internal/infrastructure/http/v1/handlers"
	"frontuser/internal/infrastructure/storage/postgres"
	"frontuser/internal/infrastructure/storage/redis"
	"frontuser/pkg/logger"
)

// Infra holds connections to external systems.
type Infra struct {
	Pool      *postgres.Pool
	TxManager *postgres.TxManager
	Sessions  auth.SessionStore

	redis    *goredis.Client
	memStore *cache.SessionStore
}

func setupInfra(ctx context.Context, cfg config.Config) (*Infra, error) {
	poolCfg := postgres.DefaultPoolConfig(cfg.Database.URL)
	if cfg.Database.MaxConns > 0 {
		poolCfg.MaxConns = cfg.Database.MaxConns
		if poolCfg.MinConns > poolCfg.MaxConns {
			poolCfg.MinConns = poolCfg.MaxConns
		}
	}

	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		return nil, err
	}
	infra := &Infra{Pool: pool, TxManager: postgres.NewTxManager(pool)}
	logger.Info(ctx, "database ready", "max_conns", poolCfg.MaxConns)

	if cfg.Database.Migrate {
		if err := postgres.Migrate(ctx, infra.TxManager); err != nil {
			infra.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}

	if cfg.Redis.Addr != "" {
		client, err := redis.NewClient(ctx, redis.ClientConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			infra.Close()
			return nil, err
		}
		infra.redis = client
		infra.Sessions = redis.NewSessionStore(client)
		logger.Info(ctx, "redis session store ready", "addr", cfg.Redis.Addr)
	} else {
		infra.memStore = cache.NewSessionStore()
		infra.memStore.Start(context.WithoutCancel(ctx), time.Minute)
		infra.Sessions = infra.memStore
		logger.Warn(ctx, "REDIS_ADDR not set; sessions are kept in process memory")
	}

	return infra, nil
}

// HealthChecks returns the readiness probes of the configured backends.
func (i *Infra) HealthChecks() map[string]handlers.Check {
	checks := map[string]handlers.Check{
		"database": i.Pool.Ping,
	}
	if i.redis != nil {
		client := i.redis
		checks["sessions"] = func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		}
	}
	return checks
}

// Close releases every connection. Safe to call on a partially built Infra.
func (i *Infra) Close() {
	if i.memStore != nil {
		i.memStore.Stop()
	}
	if i.redis != nil {
		_ = i.redis.Close()
	}
	if i.Pool != nil {
		i.Pool.Close()
	}
}
