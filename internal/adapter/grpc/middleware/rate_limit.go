package middleware

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"

	"dataset-registry-service/internal/metrics"
)

// KeyPrefix prefixes every token bucket key in Redis.
const KeyPrefix = "ratelimit:tb:"

// bucketTTL is how long an idle bucket is kept.
const bucketTTL = 60

// tokenBucket refills at rate tokens per second up to capacity and consumes
// one token per request. State is {last_refill_ms, tokens} in a hash.
var tokenBucket = redis.NewScript(`
local key = KEYS[1]
local rate = tonumber(ARGV[1])
local capacity = tonumber(ARGV[2])
local now = tonumber(ARGV[3])
local ttl = tonumber(ARGV[4])

local bucket = redis.call('HMGET', key, 'last_refill', 'tokens')
local last_refill = tonumber(bucket[1]) or now
local tokens = tonumber(bucket[2]) or capacity

local elapsed = math.max(0, now - last_refill)
tokens = math.min(capacity, tokens + (elapsed / 1000) * rate)

local allowed = 0
if tokens >= 1 then
	tokens = tokens - 1
	allowed = 1
end

redis.call('HSET', key, 'last_refill', now, 'tokens', tostring(tokens))
redis.call('EXPIRE', key, ttl)
return allowed
`)

// RateLimiterConfig holds configuration for the rate limiter.
type RateLimiterConfig struct {
	RequestsPerSecond float64
	BurstCapacity     int
	Enabled           bool
}

// RateLimiter is a Redis-backed token bucket shared by the gRPC and HTTP
// transports. Redis errors fail open.
type RateLimiter struct {
	client *redis.Client
	config RateLimiterConfig
	log    *zap.Logger
	now    func() time.Time
}

// NewRateLimiter creates a new rate limiter.
func NewRateLimiter(client *redis.Client, config RateLimiterConfig, log *zap.Logger) *RateLimiter {
	if config.BurstCapacity <= 0 {
		config.BurstCapacity = int(config.RequestsPerSecond)
	}
	return &RateLimiter{
		client: client,
		config: config,
		log:    log,
		now:    time.Now,
	}
}

// Enabled reports whether requests are actually limited.
func (rl *RateLimiter) Enabled() bool {
	return rl != nil && rl.config.Enabled && rl.client != nil
}

// Config returns the limiter settings.
func (rl *RateLimiter) Config() RateLimiterConfig {
	return rl.config
}

// Allow takes one token from the bucket stored under KeyPrefix+key.
func (rl *RateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	if !rl.Enabled() {
		return true, nil
	}

	allowed, err := tokenBucket.Run(ctx, rl.client, []string{KeyPrefix + key},
		rl.config.RequestsPerSecond,
		rl.config.BurstCapacity,
		rl.now().UnixMilli(),
		bucketTTL,
	).Int64()
	if err != nil {
		rl.log.Warn("rate limiter redis error, allowing request", zap.String("key", key), zap.Error(err))
		return true, err
	}
	return allowed == 1, nil
}

// UnaryInterceptor returns a gRPC unary interceptor for rate limiting.
// Buckets are kept per method and client address.
func (rl *RateLimiter) UnaryInterceptor() grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req any,
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (any, error) {
		if !rl.Enabled() {
			return handler(ctx, req)
		}

		clientIP := getClientIP(ctx)

		allowed, err := rl.Allow(ctx, fmt.Sprintf("%s:%s", info.FullMethod, clientIP))
		if err != nil || allowed {
			return handler(ctx, req)
		}

		metrics.RateLimitedTotal.WithLabelValues("grpc").Inc()
		rl.log.Warn("rate limit exceeded",
			zap.String("client_ip", clientIP),
			zap.String("method", info.FullMethod),
			zap.Float64("limit", rl.config.RequestsPerSecond),
		)
		return nil, status.Errorf(codes.ResourceExhausted,
			"rate limit exceeded: %.2f requests/second (burst capacity: %d)",
			rl.config.RequestsPerSecond, rl.config.BurstCapacity)
	}
}

// getClientIP extracts the client IP address from the gRPC context. Proxy
// headers win over the peer address; only the first forwarded hop counts.
func getClientIP(ctx context.Context) string {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if xff := md.Get("x-forwarded-for"); len(xff) > 0 {
			first, _, _ := strings.Cut(xff[0], ",")
			return strings.TrimSpace(first)
		}
		if xri := md.Get("x-real-ip"); len(xri) > 0 {
			return xri[0]
		}
	}

	if p, ok := peer.FromContext(ctx); ok && p.Addr != nil {
		addr := p.Addr.String()
		if host, _, err := net.SplitHostPort(addr); err == nil {
			return host
		}
		return addr
	}

	return "unknown"
}
