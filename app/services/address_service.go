package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/pickup-address/app/config"
	"github.com/pickup-address/app/models"
	"github.com/pickup-address/app/responses"
	"github.com/pickup-address/helpers/utils"
	apperrors "github.com/pickup-address/internal/errors"
	"github.com/pickup-address/internal/metrics"
	"github.com/pickup-address/internal/parser"
	"go.uber.org/zap"
)

// Resolver tra cứu keyword qua juso API (juso.Client)
type Resolver interface {
	Enabled() bool
	Mode() string
	Resolve(ctx context.Context, keyword string) (*models.JusoCandidate, error)
}

// AddressService pipeline: tách bằng luật rồi hiệu chỉnh bằng juso API
type AddressService struct {
	parser    *parser.AddressParser
	resolver  Resolver
	logger    *zap.Logger
	startTime time.Time
	mu        sync.RWMutex

	// Job management
	jobs       map[string]*JobStatus
	jobResults map[string][]*JobResultItem
}

// JobStatus trạng thái của job
type JobStatus struct {
	JobID     string
	Status    string
	Progress  float64
	Processed int
	Failed    int
	Total     int
	RuleOnly  bool
	Message   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// JobResultItem kết quả một địa chỉ trong job
type JobResultItem struct {
	Index  int                           `json:"index"`
	Input  string                        `json:"input"`
	Record *models.ResolvedAddressRecord `json:"record,omitempty"`
	Error  *string                       `json:"error,omitempty"`
}

// NewAddressService tạo mới AddressService; resolver có thể nil (chỉ dùng luật)
func NewAddressService(addressParser *parser.AddressParser, resolver Resolver, logger *zap.Logger) *AddressService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if addressParser == nil {
		addressParser = parser.NewAddressParser(logger)
	}
	return &AddressService{
		parser:     addressParser,
		resolver:   resolver,
		logger:     logger,
		startTime:  time.Now(),
		jobs:       make(map[string]*JobStatus),
		jobResults: make(map[string][]*JobResultItem),
	}
}

// ParseRule chỉ tách bằng luật
func (as *AddressService) ParseRule(rawAddress string) (*models.ParsedAddressRule, error) {
	return as.parser.ParseRule(rawAddress)
}

// LooksLikeRoadToken token đã đúng dạng tên đường + số nhà
func (as *AddressService) LooksLikeRoadToken(token string) bool {
	return as.parser.LooksLikeRoadToken(token)
}

// JusoEnabled resolver có bật không
func (as *AddressService) JusoEnabled() bool {
	return as.resolver != nil && as.resolver.Enabled()
}

// JusoMode chế độ gọi resolver hiện tại
func (as *AddressService) JusoMode() string {
	if as.resolver == nil {
		return config.JusoModeIfNeeded
	}
	return as.resolver.Mode()
}

// ParseAddress chạy toàn bộ pipeline. Chỉ lỗi EMPTY_INPUT được trả về;
// lỗi của resolver nằm trong api_error.
func (as *AddressService) ParseAddress(ctx context.Context, rawAddress string) (*models.ResolvedAddressRecord, error) {
	return as.parse(ctx, rawAddress, false)
}

// ParseAddressRuleOnly như ParseAddress nhưng không gọi resolver
func (as *AddressService) ParseAddressRuleOnly(ctx context.Context, rawAddress string) (*models.ResolvedAddressRecord, error) {
	return as.parse(ctx, rawAddress, true)
}

func (as *AddressService) parse(ctx context.Context, rawAddress string, ruleOnly bool) (*models.ResolvedAddressRecord, error) {
	rule, err := as.parser.ParseRule(rawAddress)
	if err != nil {
		metrics.RecordParse("empty_input")
		return nil, err
	}

	record := &models.ResolvedAddressRecord{ParsedAddressRule: *rule}
	defer metrics.RecordParse("ok")

	// resolver tắt vẫn được gọi và trả nil: api_checked=true, api_hit=false
	if ruleOnly || as.resolver == nil {
		return record, nil
	}

	// if_needed: token đã đúng dạng thì không cần gọi API
	if as.resolver.Mode() != config.JusoModeAlways && as.parser.LooksLikeRoadToken(rule.ResultTextContains) {
		return record, nil
	}

	query := rule.Keyword
	if query == "" {
		query = rule.Raw
	}
	if strings.TrimSpace(query) == "" {
		return record, nil
	}

	record.APIChecked = true
	candidate, err := as.resolver.Resolve(ctx, query)
	if err != nil {
		msg := err.Error()
		record.APIError = &msg
		as.logger.Warn("Juso resolver lỗi, dùng kết quả luật",
			zap.String("keyword", query),
			zap.Error(err))
		return record, nil
	}
	if candidate == nil {
		return record, nil
	}

	record.APIHit = true
	beforeKeyword, beforeToken := record.Keyword, record.ResultTextContains
	if candidate.RoadAddrPart1 != "" {
		record.Keyword = candidate.RoadAddrPart1
	}
	if candidate.ResultTextContains != "" {
		record.ResultTextContains = candidate.ResultTextContains
	}
	record.APIAdjusted = record.Keyword != beforeKeyword || record.ResultTextContains != beforeToken

	return record, nil
}

// EstimateBatchProcessingTime ước tính thời gian xử lý batch (giây)
func (as *AddressService) EstimateBatchProcessingTime(addressCount int, ruleOnly bool) int {
	// luật: ~1ms/địa chỉ; có API: ~200ms/địa chỉ (cache miss)
	perAddressMs := 1
	if !ruleOnly && as.JusoEnabled() {
		perAddressMs = 200
	}
	return addressCount * perAddressMs / 1000
}

// StartBatchJob tạo job và xử lý trong background, trả về job id
func (as *AddressService) StartBatchJob(addresses []string, ruleOnly bool) string {
	jobID := utils.GenerateUUID()
	as.registerJob(jobID, len(addresses), ruleOnly)
	go as.ProcessBatchJob(context.Background(), jobID, addresses, ruleOnly)
	return jobID
}

func (as *AddressService) registerJob(jobID string, total int, ruleOnly bool) {
	now := time.Now()
	as.mu.Lock()
	defer as.mu.Unlock()
	as.jobs[jobID] = &JobStatus{
		JobID:     jobID,
		Status:    responses.JobStatusPending,
		Total:     total,
		RuleOnly:  ruleOnly,
		Message:   "Đang chờ xử lý",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// ProcessBatchJob xử lý job batch; địa chỉ rỗng được đánh dấu lỗi, không dừng job
func (as *AddressService) ProcessBatchJob(ctx context.Context, jobID string, addresses []string, ruleOnly bool) {
	as.mu.Lock()
	if _, exists := as.jobs[jobID]; !exists {
		as.mu.Unlock()
		as.registerJob(jobID, len(addresses), ruleOnly)
		as.mu.Lock()
	}
	job := as.jobs[jobID]
	job.Status = responses.JobStatusRunning
	job.Message = "Đang xử lý..."
	job.UpdatedAt = time.Now()
	as.mu.Unlock()

	results := make([]*JobResultItem, len(addresses))
	failed := 0

	for i, address := range addresses {
		if err := ctx.Err(); err != nil {
			as.finishJob(jobID, results[:i], failed, responses.JobStatusFailed, "Job bị hủy: "+err.Error())
			return
		}

		item := &JobResultItem{Index: i, Input: address}
		record, err := as.parse(ctx, address, ruleOnly)
		if err != nil {
			msg := err.Error()
			if aErr, ok := apperrors.As(err); ok {
				msg = string(aErr.Code)
			}
			item.Error = &msg
			failed++
		} else {
			item.Record = record
		}
		results[i] = item

		// Cập nhật progress
		as.mu.Lock()
		job.Processed = i + 1
		job.Failed = failed
		job.Progress = float64(i+1) / float64(len(addresses))
		job.UpdatedAt = time.Now()
		as.mu.Unlock()
	}

	as.finishJob(jobID, results, failed, responses.JobStatusDone, "Hoàn thành xử lý")

	as.logger.Info("Batch job completed",
		zap.String("job_id", jobID),
		zap.Int("total_addresses", len(addresses)),
		zap.Int("failed", failed))
}

func (as *AddressService) finishJob(jobID string, results []*JobResultItem, failed int, status, message string) {
	as.mu.Lock()
	defer as.mu.Unlock()

	as.jobResults[jobID] = results
	if job, exists := as.jobs[jobID]; exists {
		job.Status = status
		job.Failed = failed
		job.Message = message
		job.UpdatedAt = time.Now()
	}
}

// GetJobStatus lấy trạng thái job (bản sao)
func (as *AddressService) GetJobStatus(jobID string) (*JobStatus, error) {
	as.mu.RLock()
	defer as.mu.RUnlock()

	job, exists := as.jobs[jobID]
	if !exists {
		return nil, apperrors.NewNotFound("job", jobID)
	}

	snapshot := *job
	return &snapshot, nil
}

// GetJobResults lấy kết quả job; job chưa xong trả NOT_FOUND
func (as *AddressService) GetJobResults(jobID string) ([]*JobResultItem, error) {
	as.mu.RLock()
	defer as.mu.RUnlock()

	results, exists := as.jobResults[jobID]
	if !exists {
		return nil, apperrors.NewNotFound("job results", jobID)
	}

	return results, nil
}

// GetJobResultsStream lấy kết quả job dưới dạng channel để stream
func (as *AddressService) GetJobResultsStream(jobID string) (<-chan *JobResultItem, error) {
	results, err := as.GetJobResults(jobID)
	if err != nil {
		return nil, err
	}

	resultChannel := make(chan *JobResultItem, 100)

	go func() {
		defer close(resultChannel)
		for _, result := range results {
			resultChannel <- result
		}
	}()

	return resultChannel, nil
}

// GetStartTime lấy thời gian khởi động service
func (as *AddressService) GetStartTime() time.Time {
	return as.startTime
}

// JobCounts số job theo trạng thái
func (as *AddressService) JobCounts() map[string]int {
	as.mu.RLock()
	defer as.mu.RUnlock()

	counts := map[string]int{
		responses.JobStatusPending: 0,
		responses.JobStatusRunning: 0,
		responses.JobStatusDone:    0,
		responses.JobStatusFailed:  0,
	}
	for _, job := range as.jobs {
		counts[job.Status]++
	}
	return counts
}

// GetStats lấy thống kê service
func (as *AddressService) GetStats() map[string]interface{} {
	uptime := time.Since(as.startTime)

	return map[string]interface{}{
		"uptime_seconds": int64(uptime.Seconds()),
		"start_time":     as.startTime.Format(time.RFC3339),
		"status":         "running",
		"juso_enabled":   as.JusoEnabled(),
		"juso_mode":      as.JusoMode(),
		"jobs":           as.JobCounts(),
	}
}
