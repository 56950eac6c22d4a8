package responses

import (
	"time"

	"github.com/pickup-address/app/models"
)

// ParseAddressResponse response parse địa chỉ đơn lẻ
type ParseAddressResponse struct {
	Result           *models.ResolvedAddressRecord `json:"result"`             // Kết quả parse
	JusoMode         string                        `json:"juso_mode"`          // always | if_needed
	RuleOnly         bool                          `json:"rule_only"`          // Có bỏ qua juso API không
	ProcessingTimeMs int64                         `json:"processing_time_ms"` // Thời gian xử lý (ms)
}

// BatchParseResponse response parse hàng loạt địa chỉ
type BatchParseResponse struct {
	JobID            string `json:"job_id"`            // ID của job
	EstimatedSeconds int    `json:"estimated_seconds"` // Thời gian ước tính (giây)
	TotalAddresses   int    `json:"total_addresses"`   // Tổng số địa chỉ
	Message          string `json:"message"`           // Thông báo
}

// JobStatusResponse response trạng thái job
type JobStatusResponse struct {
	JobID              string    `json:"job_id"`              // ID của job
	Status             string    `json:"status"`              // Trạng thái job
	Progress           float64   `json:"progress"`            // Tiến độ (0.0 - 1.0)
	Processed          int       `json:"processed"`           // Số địa chỉ đã xử lý
	Total              int       `json:"total"`               // Tổng số địa chỉ
	Failed             int       `json:"failed"`              // Số địa chỉ lỗi (EMPTY_INPUT)
	EstimatedRemaining int       `json:"estimated_remaining"` // Thời gian còn lại ước tính (giây)
	Message            string    `json:"message"`             // Thông báo
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// JobResultsResponse response kết quả job (format json)
type JobResultsResponse struct {
	JobID   string      `json:"job_id"`
	Total   int         `json:"total"`
	Results interface{} `json:"results"`
}

// RoadCheckResponse response kiểm tra token đường
type RoadCheckResponse struct {
	Token    string `json:"token"`     // Token gốc
	Compact  string `json:"compact"`   // Token đã bỏ khoảng trắng
	RoadLike bool   `json:"road_like"` // Đúng dạng tên đường + số nhà
}

// AdminStatsResponse response thống kê admin
type AdminStatsResponse struct {
	UptimeSeconds int64          `json:"uptime_seconds"` // Thời gian chạy
	StartTime     string         `json:"start_time"`     // Thời điểm khởi động
	JusoEnabled   bool           `json:"juso_enabled"`   // juso API có bật không
	JusoMode      string         `json:"juso_mode"`      // always | if_needed
	Jobs          map[string]int `json:"jobs"`           // Số job theo trạng thái
	Cache         interface{}    `json:"cache"`          // Thống kê cache (nếu có)
}

// CacheClearResponse response xóa cache
type CacheClearResponse struct {
	Success bool   `json:"success"`
	Backend string `json:"backend"`
	Message string `json:"message"`
}

// HealthResponse response health check
type HealthResponse struct {
	Status        string `json:"status"`
	Version       string `json:"version"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	JusoEnabled   bool   `json:"juso_enabled"`
}

// ErrorResponse response lỗi
type ErrorResponse struct {
	Error     string         `json:"error"`             // Mã lỗi
	Message   string         `json:"message"`           // Thông điệp
	Details   map[string]any `json:"details,omitempty"` // Chi tiết
	Timestamp string         `json:"timestamp"`         // Thời điểm (RFC3339)
}

// JobStatus constants
const (
	JobStatusPending = "pending"
	JobStatusRunning = "running"
	JobStatusDone    = "done"
	JobStatusFailed  = "failed"
)
