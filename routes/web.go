package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pickup-address/app/controllers"
)

// SetupWebRoutes thông tin service và danh sách endpoint
func SetupWebRoutes(router *gin.Engine) {
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Pickup Address Parser Service",
			"version": controllers.Version,
			"docs":    "/docs",
		})
	})

	router.GET("/docs", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"api": "Pickup Address Parser API v1",
			"endpoints": map[string]string{
				"parse":       "POST /v1/addresses/parse",
				"batch":       "POST /v1/addresses/jobs",
				"job_status":  "GET /v1/addresses/jobs/:jobID/status",
				"job_results": "GET /v1/addresses/jobs/:jobID/results?format=json|ndjson&gzip=true",
				"road_check":  "GET /v1/roads/check?token=...",
				"stats":       "GET /v1/admin/stats",
				"cache_clear": "POST /v1/admin/cache/clear",
				"health":      "GET /v1/health",
				"metrics":     "GET /metrics",
			},
		})
	})
}
