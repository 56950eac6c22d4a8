package controllers

import (
	"compress/gzip"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pickup-address/app/requests"
	"github.com/pickup-address/app/responses"
	"github.com/pickup-address/app/services"
	"github.com/pickup-address/helpers/utils"
	apperrors "github.com/pickup-address/internal/errors"
	"github.com/pickup-address/internal/normalizer"
	"go.uber.org/zap"
)

// Version phiên bản API trả về trong health check
const Version = "1.0.0"

// AddressController controller xử lý các request liên quan đến địa chỉ
type AddressController struct {
	addressService *services.AddressService
	logger         *zap.Logger
}

// NewAddressController tạo mới AddressController
func NewAddressController(addressService *services.AddressService, logger *zap.Logger) *AddressController {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AddressController{
		addressService: addressService,
		logger:         logger,
	}
}

// ParseAddress parse địa chỉ đơn lẻ
func (ac *AddressController) ParseAddress(c *gin.Context) {
	var req requests.ParseAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, ac.logger, err)
		return
	}

	startTime := time.Now()

	parse := ac.addressService.ParseAddress
	if req.Options.RuleOnly {
		parse = ac.addressService.ParseAddressRuleOnly
	}
	result, err := parse(c.Request.Context(), req.Address)
	if err != nil {
		respondError(c, ac.logger, err)
		return
	}

	c.JSON(http.StatusOK, responses.ParseAddressResponse{
		Result:           result,
		JusoMode:         ac.addressService.JusoMode(),
		RuleOnly:         req.Options.RuleOnly || !ac.addressService.JusoEnabled(),
		ProcessingTimeMs: time.Since(startTime).Milliseconds(),
	})
}

// BatchParse parse hàng loạt địa chỉ
func (ac *AddressController) BatchParse(c *gin.Context) {
	var req requests.BatchParseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, ac.logger, err)
		return
	}

	// Khởi chạy job trong background
	jobID := ac.addressService.StartBatchJob(req.Addresses, req.Options.RuleOnly)

	c.JSON(http.StatusAccepted, responses.BatchParseResponse{
		JobID:            jobID,
		EstimatedSeconds: ac.addressService.EstimateBatchProcessingTime(len(req.Addresses), req.Options.RuleOnly),
		TotalAddresses:   len(req.Addresses),
		Message:          "Job đã được tạo và đang xử lý",
	})
}

// GetJobStatus lấy trạng thái job
func (ac *AddressController) GetJobStatus(c *gin.Context) {
	jobID, ok := ac.jobIDParam(c)
	if !ok {
		return
	}

	status, err := ac.addressService.GetJobStatus(jobID)
	if err != nil {
		respondError(c, ac.logger, err)
		return
	}

	c.JSON(http.StatusOK, responses.JobStatusResponse{
		JobID:              jobID,
		Status:             status.Status,
		Progress:           status.Progress,
		Processed:          status.Processed,
		Total:              status.Total,
		Failed:             status.Failed,
		EstimatedRemaining: ac.addressService.EstimateBatchProcessingTime(status.Total-status.Processed, status.RuleOnly),
		Message:            status.Message,
		CreatedAt:          status.CreatedAt,
		UpdatedAt:          status.UpdatedAt,
	})
}

// GetJobResults lấy kết quả job với hỗ trợ NDJSON + gzip streaming
func (ac *AddressController) GetJobResults(c *gin.Context) {
	jobID, ok := ac.jobIDParam(c)
	if !ok {
		return
	}

	var query requests.JobResultsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondBindError(c, ac.logger, err)
		return
	}

	switch strings.ToLower(query.Format) {
	case "ndjson":
		ac.streamNDJSONResults(c, jobID, query.Gzip)
		return
	case "", "json":
	default:
		respondError(c, ac.logger, apperrors.NewInvalidRequest("format phải là json hoặc ndjson"))
		return
	}

	results, err := ac.addressService.GetJobResults(jobID)
	if err != nil {
		respondError(c, ac.logger, err)
		return
	}

	c.JSON(http.StatusOK, responses.JobResultsResponse{
		JobID:   jobID,
		Total:   len(results),
		Results: results,
	})
}

// CheckRoad kiểm tra token có dạng tên đường + số nhà không
func (ac *AddressController) CheckRoad(c *gin.Context) {
	var query requests.RoadCheckQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondBindError(c, ac.logger, err)
		return
	}

	c.JSON(http.StatusOK, responses.RoadCheckResponse{
		Token:    query.Token,
		Compact:  normalizer.CompactSpaces(query.Token),
		RoadLike: ac.addressService.LooksLikeRoadToken(query.Token),
	})
}

// HealthCheck kiểm tra sức khỏe service
func (ac *AddressController) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, responses.HealthResponse{
		Status:        "healthy",
		Version:       Version,
		UptimeSeconds: int64(time.Since(ac.addressService.GetStartTime()).Seconds()),
		JusoEnabled:   ac.addressService.JusoEnabled(),
	})
}

func (ac *AddressController) jobIDParam(c *gin.Context) (string, bool) {
	jobID := c.Param("jobID")
	if !utils.IsValidUUID(jobID) {
		respondError(c, ac.logger, apperrors.NewInvalidRequest("Job ID không hợp lệ: "+jobID))
		return "", false
	}
	return jobID, true
}

// streamNDJSONResults stream kết quả theo format NDJSON với hỗ trợ gzip
func (ac *AddressController) streamNDJSONResults(c *gin.Context, jobID string, gzipEnabled bool) {
	// lấy stream trước khi ghi header để còn trả 404
	resultChannel, err := ac.addressService.GetJobResultsStream(jobID)
	if err != nil {
		respondError(c, ac.logger, err)
		return
	}

	c.Header("Content-Type", "application/x-ndjson")
	var writer gin.ResponseWriter = c.Writer
	if gzipEnabled {
		c.Header("Content-Encoding", "gzip")
		gzWriter := gzip.NewWriter(c.Writer)
		defer gzWriter.Close()
		writer = &gzipResponseWriter{
			ResponseWriter: c.Writer,
			gzWriter:       gzWriter,
		}
	}
	c.Status(http.StatusOK)

	encoder := json.NewEncoder(writer)
	for result := range resultChannel {
		if err := encoder.Encode(result); err != nil {
			ac.logger.Error("Lỗi encode NDJSON", zap.Error(err))
			// drain để goroutine gửi kết thúc
			for range resultChannel {
			}
			return
		}
		writer.Flush()
	}
}

// gzipResponseWriter wrapper cho gzip writer
type gzipResponseWriter struct {
	gin.ResponseWriter
	gzWriter *gzip.Writer
}

func (w *gzipResponseWriter) Write(data []byte) (int, error) {
	return w.gzWriter.Write(data)
}

func (w *gzipResponseWriter) WriteString(s string) (int, error) {
	return w.gzWriter.Write([]byte(s))
}

func (w *gzipResponseWriter) Flush() {
	w.gzWriter.Flush()
	w.ResponseWriter.Flush()
}
