// Package metrics holds the Prometheus collectors exported by the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "dataset_registry"

var (
	// HTTPRequestsTotal counts HTTP requests by method, route template and status.
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total HTTP requests handled",
	}, []string{"method", "route", "status"})

	// HTTPRequestDuration observes HTTP handler latency.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	// GRPCRequestsTotal counts unary gRPC calls by method and status code.
	GRPCRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "grpc_requests_total",
		Help:      "Total gRPC requests handled",
	}, []string{"method", "code"})

	// UsersRegisteredTotal counts successful registrations.
	UsersRegisteredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_registered_total",
		Help:      "Users registered since start",
	})

	// DatasetUploadsTotal counts upload attempts by outcome.
	DatasetUploadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "dataset_uploads_total",
		Help:      "Dataset uploads by result",
	}, []string{"result"})

	// RowsIngestedTotal counts CSV rows stored.
	RowsIngestedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rows_ingested_total",
		Help:      "CSV rows parsed and stored",
	})

	// CacheLookupsTotal counts dataset cache lookups by result (hit, miss, error).
	CacheLookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_lookups_total",
		Help:      "Dataset cache lookups",
	}, []string{"result"})

	// RateLimitedTotal counts rejected requests per transport.
	RateLimitedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limited_total",
		Help:      "Requests rejected by the rate limiter",
	}, []string{"transport"})
)
