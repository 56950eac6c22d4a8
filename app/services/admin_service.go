package services

import (
	"context"
	"fmt"
	"runtime"
	"time"

	apperrors "github.com/pickup-address/internal/errors"
	"go.uber.org/zap"
)

// AdminService service quản lý admin functions: thống kê, xóa cache
type AdminService struct {
	addressService *AddressService
	store          KeyValueStore
	backend        string
	logger         *zap.Logger
}

// SystemStats thống kê hệ thống
type SystemStats struct {
	UptimeSeconds int64                  `json:"uptime_seconds"`
	StartTime     string                 `json:"start_time"`
	JusoEnabled   bool                   `json:"juso_enabled"`
	JusoMode      string                 `json:"juso_mode"`
	Jobs          map[string]int         `json:"jobs"`
	Cache         *CacheStats            `json:"cache,omitempty"`
	MemoryUsage   map[string]interface{} `json:"memory_usage"`
}

// NewAdminService tạo mới AdminService; store có thể nil khi resolver tắt
func NewAdminService(addressService *AddressService, store KeyValueStore, backend string, logger *zap.Logger) *AdminService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdminService{
		addressService: addressService,
		store:          store,
		backend:        backend,
		logger:         logger,
	}
}

// Backend tên backend cache đang dùng
func (as *AdminService) Backend() string {
	return as.backend
}

// GetSystemStats lấy thống kê hệ thống
func (as *AdminService) GetSystemStats() *SystemStats {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	startTime := as.addressService.GetStartTime()
	stats := &SystemStats{
		UptimeSeconds: int64(time.Since(startTime).Seconds()),
		StartTime:     startTime.Format(time.RFC3339),
		JusoEnabled:   as.addressService.JusoEnabled(),
		JusoMode:      as.addressService.JusoMode(),
		Jobs:          as.addressService.JobCounts(),
		MemoryUsage: map[string]interface{}{
			"alloc_mb":       bToMb(m.Alloc),
			"total_alloc_mb": bToMb(m.TotalAlloc),
			"sys_mb":         bToMb(m.Sys),
			"num_gc":         m.NumGC,
		},
	}

	if reporter, ok := as.store.(StatsReporter); ok {
		cacheStats := reporter.Stats()
		stats.Cache = &cacheStats
	}
	return stats
}

// ClearCache xóa cache juso nếu backend hỗ trợ
func (as *AdminService) ClearCache(ctx context.Context) error {
	if as.store == nil {
		return apperrors.NewInvalidRequest("juso cache is not configured")
	}
	clearer, ok := as.store.(Clearer)
	if !ok {
		return apperrors.NewInvalidRequest(fmt.Sprintf("cache backend %q does not support clear", as.backend))
	}
	if err := clearer.Clear(ctx); err != nil {
		as.logger.Error("Lỗi clear cache", zap.String("backend", as.backend), zap.Error(err))
		return apperrors.NewInternal(err)
	}
	as.logger.Info("Đã clear juso cache", zap.String("backend", as.backend))
	return nil
}

func bToMb(b uint64) uint64 {
	return b / 1024 / 1024
}
