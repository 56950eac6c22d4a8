package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pickup-address/app/controllers"
	"github.com/pickup-address/app/responses"
	"github.com/pickup-address/internal/metrics"
)

// SetupAPIRoutes thiết lập tất cả API routes
func SetupAPIRoutes(router *gin.Engine, addressController *controllers.AddressController, adminController *controllers.AdminController) {
	v1 := router.Group("/v1")
	{
		addresses := v1.Group("/addresses")
		{
			addresses.POST("/parse", addressController.ParseAddress)
			addresses.POST("/jobs", addressController.BatchParse)
			addresses.GET("/jobs/:jobID/status", addressController.GetJobStatus)
			addresses.GET("/jobs/:jobID/results", addressController.GetJobResults)
		}

		v1.GET("/roads/check", addressController.CheckRoad)

		admin := v1.Group("/admin")
		{
			admin.GET("/stats", adminController.GetStats)
			admin.POST("/cache/clear", adminController.ClearCache)
		}

		v1.GET("/health", addressController.HealthCheck)
	}
}

// SetupHealthRoutes thiết lập health check routes
func SetupHealthRoutes(router *gin.Engine, addressController *controllers.AddressController) {
	router.GET("/health", addressController.HealthCheck)
	router.GET("/ready", addressController.HealthCheck)
	router.GET("/live", addressController.HealthCheck)
}

// SetupMetricsRoutes thiết lập metrics routes (cho Prometheus)
func SetupMetricsRoutes(router *gin.Engine) {
	router.GET("/metrics", metrics.Handler())
}

// SetupAllRoutes thiết lập tất cả routes
func SetupAllRoutes(router *gin.Engine, addressController *controllers.AddressController, adminController *controllers.AdminController) {
	setupMiddleware(router)

	SetupWebRoutes(router)
	SetupHealthRoutes(router, addressController)
	SetupAPIRoutes(router, addressController, adminController)
	SetupMetricsRoutes(router)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, responses.ErrorResponse{
			Error:     "NOT_FOUND",
			Message:   "Route not found: " + c.Request.Method + " " + c.Request.URL.Path,
			Timestamp: time.Now().Format(time.RFC3339),
		})
	})
}

// setupMiddleware thiết lập middleware cho router
func setupMiddleware(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(metrics.GinMiddleware())
}
