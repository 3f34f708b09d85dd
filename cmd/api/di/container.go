package di

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"dataset-registry-service/cmd/api/infrastructure"
	"dataset-registry-service/internal/adapter/cache"
	"dataset-registry-service/internal/adapter/db/sqlstore"
	ginhandler "dataset-registry-service/internal/adapter/gin/handler"
	grpcadapter "dataset-registry-service/internal/adapter/grpc"
	"dataset-registry-service/internal/adapter/grpc/middleware"
	"dataset-registry-service/internal/adapter/repository/cached"
	"dataset-registry-service/internal/adapter/repository/memory"
	"dataset-registry-service/internal/config"
	"dataset-registry-service/internal/usecase/registry"
	redisclient "dataset-registry-service/pkg/redis"
)

// Container holds all application dependencies
type Container struct {
	Config      *config.Config
	Logger      *zap.Logger
	DB          *gorm.DB
	RedisClient *redisclient.Client
	RegistryUC  registry.Usecase
	RateLimiter *middleware.RateLimiter
	GinHandler  *ginhandler.RegistryHandler
	GRPCService *grpcadapter.RegistryServiceServer
}

// NewContainer creates and initializes all application dependencies
func NewContainer(ctx context.Context, cfg *config.Config, l *zap.Logger) (*Container, error) {
	// Validate configuration before initializing any dependencies
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	c := &Container{Config: cfg, Logger: l}

	repo, err := c.newRepository(ctx)
	if err != nil {
		_ = c.Close()
		return nil, err
	}

	// Redis is optional; without it there is no cache and no rate limiting
	if cfg.Redis.Enabled {
		rdb, err := infrastructure.NewRedisClient(ctx, cfg, l)
		if err != nil {
			_ = c.Close()
			return nil, fmt.Errorf("failed to initialize Redis: %w", err)
		}
		c.RedisClient = rdb

		datasetCache := cache.NewRedisDatasetCache(
			rdb.Client,
			rdb.Namespace(),
			time.Duration(cfg.Redis.CacheTTL)*time.Second,
			l,
		)
		repo = cached.NewDatasetRepository(repo, datasetCache, l)

		c.RateLimiter = middleware.NewRateLimiter(
			rdb.Client,
			middleware.RateLimiterConfig{
				RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
				BurstCapacity:     cfg.RateLimit.BurstCapacity,
				Enabled:           cfg.RateLimit.Enabled,
			},
			l,
		)
	}

	c.RegistryUC = registry.New(repo, l)
	c.GinHandler = ginhandler.NewRegistryHandler(c.RegistryUC, cfg.Upload.MaxBytes, l)
	c.GRPCService = grpcadapter.NewRegistryServiceServer(c.RegistryUC, cfg.Upload.MaxBytes, l)

	l.Info("container initialized",
		zap.String("store_driver", cfg.Store.Driver),
		zap.Bool("redis_enabled", cfg.Redis.Enabled),
		zap.Bool("rate_limit_enabled", c.RateLimiter.Enabled()),
	)

	return c, nil
}

// newRepository builds the registry store selected by STORE_DRIVER.
func (c *Container) newRepository(ctx context.Context) (registry.Repository, error) {
	switch c.Config.Store.Driver {
	case config.StoreSQLite:
		db, err := infrastructure.NewDatabase(ctx, c.Config, c.Logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		c.DB = db
		return sqlstore.NewStore(db, c.Logger), nil
	default:
		return memory.NewStore(c.Logger), nil
	}
}

// Close closes all resources held by the container
func (c *Container) Close() error {
	var errs []error

	// Close Redis connection
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close Redis: %w", err))
		}
	}

	// Close database connection
	if c.DB != nil {
		if err := infrastructure.CloseDatabase(c.DB); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}

	return errors.Join(errs...)
}
