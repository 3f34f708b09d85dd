package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	grpcmiddleware "dataset-registry-service/internal/adapter/grpc/middleware"
	"dataset-registry-service/internal/metrics"
)

// RateLimiter returns a Gin middleware for rate limiting using the token
// bucket shared with the gRPC server. A nil or disabled limiter passes all
// requests through.
func RateLimiter(limiter *grpcmiddleware.RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Enabled() {
			c.Next()
			return
		}

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		key := fmt.Sprintf("http:%s:%s:%s", c.Request.Method, route, c.ClientIP())

		allowed, err := limiter.Allow(c.Request.Context(), key)
		if err != nil || allowed {
			c.Next()
			return
		}

		metrics.RateLimitedTotal.WithLabelValues("http").Inc()
		cfg := limiter.Config()
		msg := fmt.Sprintf("Rate limit exceeded: %.2f requests/second (burst capacity: %d)", cfg.RequestsPerSecond, cfg.BurstCapacity)
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"error":   "rate_limit_exceeded",
			"message": msg,
			"detail":  msg,
		})
	}
}
