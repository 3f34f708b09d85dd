package server

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	ginhandler "dataset-registry-service/internal/adapter/gin/handler"
	ginrouter "dataset-registry-service/internal/adapter/gin/router"
	grpcmiddleware "dataset-registry-service/internal/adapter/grpc/middleware"
)

// SetupGinServer creates and configures the Gin REST API server
func SetupGinServer(
	handler *ginhandler.RegistryHandler,
	rateLimiter *grpcmiddleware.RateLimiter,
	serviceName string,
	ginAddr string,
	l *zap.Logger,
) *http.Server {
	router := ginrouter.SetupRouter(handler, rateLimiter, serviceName, l)

	l.Info("Gin REST API configured",
		zap.String("address", ginAddr),
		zap.String("docs", "http://localhost"+ginAddr+"/docs/index.html"),
	)

	return &http.Server{
		Addr:              ginAddr,
		Handler:           router,
		ReadHeaderTimeout: 2 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}
