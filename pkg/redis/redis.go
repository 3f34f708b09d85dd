package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Config holds Redis connection configuration.
//
// Namespace is prepended to the keys of data that must not outlive the
// process or leak between deployments. Leave it empty to share keys.
type Config struct {
	Addr        string
	Password    string
	DB          int
	MaxRetries  int
	PoolSize    int
	MinIdleConn int
	Namespace   string
}

// Client is a connected redis.Client carrying the key namespace of this process.
type Client struct {
	*redis.Client
	namespace string
	log       *zap.Logger
}

// NewInstanceNamespace returns a namespace unique to one process of service.
// Keys written under it are unreachable after a restart, so a cache in front
// of a volatile store cannot resurrect data the store no longer has.
func NewInstanceNamespace(service string) string {
	return fmt.Sprintf("%s:%s", service, uuid.NewString())
}

// JoinKey prefixes key with namespace.
func JoinKey(namespace, key string) string {
	if namespace == "" {
		return key
	}
	return namespace + ":" + key
}

// NewClient dials Redis and pings it within ctx, giving up after five seconds.
func NewClient(ctx context.Context, cfg Config, log *zap.Logger) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		MaxRetries:   cfg.MaxRetries,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConn,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolTimeout:  4 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.Addr, err)
	}

	log.Info("Redis connected",
		zap.String("addr", cfg.Addr),
		zap.Int("db", cfg.DB),
		zap.String("namespace", cfg.Namespace),
	)
	return &Client{Client: rdb, namespace: cfg.Namespace, log: log}, nil
}

// Namespace returns the key namespace the client was configured with.
func (c *Client) Namespace() string {
	return c.namespace
}

// Ping checks if the Redis connection is alive.
func (c *Client) Ping(ctx context.Context) error {
	return c.Client.Ping(ctx).Err()
}

// Close closes the connection pool.
func (c *Client) Close() error {
	c.log.Info("Closing Redis connection", zap.String("namespace", c.namespace))
	return c.Client.Close()
}
