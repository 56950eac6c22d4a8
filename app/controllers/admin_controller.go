package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pickup-address/app/responses"
	"github.com/pickup-address/app/services"
	"go.uber.org/zap"
)

// AdminController controller xử lý các request admin
type AdminController struct {
	adminService *services.AdminService
	logger       *zap.Logger
}

// NewAdminController tạo mới AdminController
func NewAdminController(adminService *services.AdminService, logger *zap.Logger) *AdminController {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdminController{
		adminService: adminService,
		logger:       logger,
	}
}

// GetStats lấy thống kê hệ thống
func (ac *AdminController) GetStats(c *gin.Context) {
	stats := ac.adminService.GetSystemStats()

	response := responses.AdminStatsResponse{
		UptimeSeconds: stats.UptimeSeconds,
		StartTime:     stats.StartTime,
		JusoEnabled:   stats.JusoEnabled,
		JusoMode:      stats.JusoMode,
		Jobs:          stats.Jobs,
	}
	if stats.Cache != nil {
		response.Cache = stats.Cache
	}
	c.JSON(http.StatusOK, response)
}

// ClearCache xóa toàn bộ juso cache
func (ac *AdminController) ClearCache(c *gin.Context) {
	startTime := time.Now()

	if err := ac.adminService.ClearCache(c.Request.Context()); err != nil {
		respondError(c, ac.logger, err)
		return
	}

	ac.logger.Info("Clear cache thành công",
		zap.String("backend", ac.adminService.Backend()),
		zap.Duration("duration", time.Since(startTime)))

	c.JSON(http.StatusOK, responses.CacheClearResponse{
		Success: true,
		Backend: ac.adminService.Backend(),
		Message: "Đã xóa juso cache",
	})
}
