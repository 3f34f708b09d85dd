package server

import (
	"go.uber.org/zap"
	grpc "google.golang.org/grpc"

	registryv1 "dataset-registry-service/api/registry/v1"
	grpcadapter "dataset-registry-service/internal/adapter/grpc"
	"dataset-registry-service/internal/adapter/grpc/middleware"
	"dataset-registry-service/internal/metrics"
	"dataset-registry-service/pkg/logger"
)

// grpcMessageOverhead leaves room for the JSON envelope around an upload,
// whose content is base64 encoded.
const grpcMessageOverhead = 1 << 20

// SetupGRPC creates and configures the gRPC server
func SetupGRPC(
	svc *grpcadapter.RegistryServiceServer,
	rateLimiter *middleware.RateLimiter,
	maxUploadBytes int64,
	l *zap.Logger,
) *grpc.Server {
	opts := []grpc.ServerOption{
		grpc.ChainUnaryInterceptor(
			logger.RequestIDInterceptor(),
			logger.LoggingInterceptor(l, func(method, code string) {
				metrics.GRPCRequestsTotal.WithLabelValues(method, code).Inc()
			}),
			rateLimiter.UnaryInterceptor(),
		),
	}
	if maxUploadBytes > 0 {
		// base64 grows content by 4/3
		opts = append(opts, grpc.MaxRecvMsgSize(int(maxUploadBytes*4/3)+grpcMessageOverhead))
	}

	grpcServer := grpc.NewServer(opts...)
	registryv1.RegisterRegistryServiceServer(grpcServer, svc)

	return grpcServer
}
