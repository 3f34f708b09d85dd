package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	domain "dataset-registry-service/internal/domain/user"
	"dataset-registry-service/internal/metrics"
	redisclient "dataset-registry-service/pkg/redis"
)

// DatasetCache defines the caching operations for dataset contents.
type DatasetCache interface {
	// Get retrieves the records of a dataset.
	// Returns nil records and false on a cache miss.
	Get(ctx context.Context, userName, datasetName string) ([]domain.Record, bool, error)

	// Set stores the records of a dataset with the configured TTL.
	Set(ctx context.Context, userName, datasetName string, records []domain.Record) error

	// Delete removes a cached dataset.
	Delete(ctx context.Context, userName, datasetName string) error
}

// RedisDatasetCache implements DatasetCache using Redis as the backing store.
type RedisDatasetCache struct {
	client    *redis.Client
	namespace string
	ttl       time.Duration
	log       *zap.Logger
}

// NewRedisDatasetCache creates a new Redis-backed dataset cache. Entries are
// stored under namespace, see redisclient.JoinKey.
func NewRedisDatasetCache(client *redis.Client, namespace string, ttl time.Duration, log *zap.Logger) *RedisDatasetCache {
	return &RedisDatasetCache{
		client:    client,
		namespace: namespace,
		ttl:       ttl,
		log:       log,
	}
}

// Key returns the Redis key of a dataset. Names are path-escaped so that a
// colon inside a user or dataset name cannot collide with another pair.
func Key(userName, datasetName string) string {
	return fmt.Sprintf("dataset:%s:%s", url.PathEscape(userName), url.PathEscape(datasetName))
}

func (c *RedisDatasetCache) key(userName, datasetName string) string {
	return redisclient.JoinKey(c.namespace, Key(userName, datasetName))
}

// Get retrieves dataset records from Redis.
func (c *RedisDatasetCache) Get(ctx context.Context, userName, datasetName string) ([]domain.Record, bool, error) {
	key := c.key(userName, datasetName)

	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.CacheLookupsTotal.WithLabelValues("miss").Inc()
		c.log.Debug("cache miss", zap.String("key", key))
		return nil, false, nil
	}
	if err != nil {
		metrics.CacheLookupsTotal.WithLabelValues("error").Inc()
		c.log.Error("failed to get from cache", zap.String("key", key), zap.Error(err))
		return nil, false, err
	}

	var records []domain.Record
	if err := json.Unmarshal(data, &records); err != nil {
		metrics.CacheLookupsTotal.WithLabelValues("error").Inc()
		c.log.Error("failed to unmarshal cached dataset", zap.String("key", key), zap.Error(err))
		return nil, false, err
	}
	if records == nil {
		records = []domain.Record{}
	}

	metrics.CacheLookupsTotal.WithLabelValues("hit").Inc()
	c.log.Debug("cache hit", zap.String("key", key), zap.Int("rows", len(records)))
	return records, true, nil
}

// Set stores dataset records in Redis with TTL.
func (c *RedisDatasetCache) Set(ctx context.Context, userName, datasetName string, records []domain.Record) error {
	key := c.key(userName, datasetName)
	if records == nil {
		records = []domain.Record{}
	}

	data, err := json.Marshal(records)
	if err != nil {
		c.log.Error("failed to marshal dataset for cache", zap.String("key", key), zap.Error(err))
		return err
	}

	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.log.Error("failed to set cache", zap.String("key", key), zap.Error(err))
		return err
	}

	c.log.Debug("cached dataset", zap.String("key", key), zap.Duration("ttl", c.ttl))
	return nil
}

// Delete removes a dataset from Redis.
func (c *RedisDatasetCache) Delete(ctx context.Context, userName, datasetName string) error {
	key := c.key(userName, datasetName)

	if err := c.client.Del(ctx, key).Err(); err != nil {
		c.log.Error("failed to delete from cache", zap.String("key", key), zap.Error(err))
		return err
	}

	c.log.Debug("deleted from cache", zap.String("key", key))
	return nil
}
