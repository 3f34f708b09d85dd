package infrastructure

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"dataset-registry-service/internal/config"
	redisclient "dataset-registry-service/pkg/redis"
)

// NewRedisClient creates a new Redis client with configuration
func NewRedisClient(ctx context.Context, cfg *config.Config, l *zap.Logger) (*redisclient.Client, error) {
	redisConfig := redisclient.Config{
		Addr:        cfg.Redis.Addr(),
		Password:    cfg.Redis.Password,
		DB:          cfg.Redis.DB,
		MaxRetries:  cfg.Redis.MaxRetries,
		PoolSize:    cfg.Redis.PoolSize,
		MinIdleConn: cfg.Redis.MinIdleConn,
		Namespace:   cacheNamespace(cfg),
	}

	rdb, err := redisclient.NewClient(ctx, redisConfig, l)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return rdb, nil
}

// cacheNamespace scopes cached datasets to this process when the store does
// not survive a restart; a durable store shares one namespace per service.
func cacheNamespace(cfg *config.Config) string {
	if cfg.Store.Driver == config.StoreMemory {
		return redisclient.NewInstanceNamespace(cfg.Logger.ServiceName)
	}
	return cfg.Logger.ServiceName
}
