package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"

	"dataset-registry-service/api/swagger"
	"dataset-registry-service/internal/adapter/gin/handler"
	"dataset-registry-service/internal/adapter/gin/middleware"
	grpcmiddleware "dataset-registry-service/internal/adapter/grpc/middleware"
)

// OpenAPIPath is where the OpenAPI document is served.
const OpenAPIPath = "/openapi.json"

// SetupRouter configures and returns a Gin router with all routes and middleware
func SetupRouter(
	registryHandler *handler.RegistryHandler,
	rateLimiter *grpcmiddleware.RateLimiter,
	serviceName string,
	log *zap.Logger,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware
	router.Use(middleware.Recovery(log))
	router.Use(middleware.Logger(log))
	router.Use(middleware.Metrics())

	// Operational endpoints are not rate limited
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": serviceName,
		})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET(OpenAPIPath, func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json", swagger.RegistrySpec)
	})
	router.GET("/docs/*any", gin.WrapH(httpSwagger.Handler(httpSwagger.URL(OpenAPIPath))))

	api := router.Group("/", middleware.RateLimiter(rateLimiter))
	{
		api.GET("", registryHandler.Welcome)

		users := api.Group("/users")
		{
			users.POST("/register", registryHandler.RegisterUser)
			users.GET("/all", registryHandler.ListUsers)
			users.GET("/:username/datasets", registryHandler.ListDatasets)
			users.POST("/:username/data/:dataset_name", registryHandler.UploadDataset)
			users.GET("/:username/data/:dataset_name", registryHandler.GetDataset)
		}
	}

	return router
}
