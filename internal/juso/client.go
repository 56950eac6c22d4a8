package juso

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/pickup-address/app/config"
	"github.com/pickup-address/app/models"
	apperrors "github.com/pickup-address/internal/errors"
	"github.com/pickup-address/internal/metrics"
	"github.com/pickup-address/internal/normalizer"
	"go.uber.org/zap"
)

const defaultTimeout = 15 * time.Second

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// ký tự có nghĩa đặc biệt trong query của juso API
var reReservedChars = regexp.MustCompile(`[%=<>]`)

// Store cache cho resolver; app/services cung cấp các backend
type Store interface {
	Get(ctx context.Context, key string) (map[string]string, bool, error)
	Put(ctx context.Context, key string, value map[string]string) error
}

// Client resolver địa chỉ đường qua juso API, có cache
type Client struct {
	cfg         config.JusoConfig
	approvalKey string
	store       Store
	httpClient  *http.Client
	logger      *zap.Logger
	now         func() time.Time
}

// Option tùy chọn cho Client
type Option func(*Client)

// WithHTTPClient dùng http.Client khác (test, proxy)
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithClock thay nguồn thời gian (test TTL)
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// NewClient tạo resolver. Khi bật mà thiếu base_url hoặc approval key thì trả lỗi CONFIGURATION.
// store có thể nil (không cache).
func NewClient(cfg config.JusoConfig, store Store, logger *zap.Logger, opts ...Option) (*Client, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Client{
		cfg:        cfg,
		store:      store,
		httpClient: &http.Client{},
		logger:     logger,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	if !cfg.Enabled {
		return c, nil
	}
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, apperrors.NewConfiguration("epost.script.juso_api.base_url", "required when juso api is enabled")
	}
	c.approvalKey = ResolveApprovalKey(cfg.ApprovalKeyEnv, cfg.ApprovalKeyFile)
	if c.approvalKey == "" {
		return nil, apperrors.NewConfiguration("epost.script.juso_api.approval_key_env",
			fmt.Sprintf("approval key not found in env %q or file %q", cfg.ApprovalKeyEnv, cfg.ApprovalKeyFile))
	}
	return c, nil
}

// Enabled resolver có được bật không
func (c *Client) Enabled() bool {
	return c.cfg.Enabled
}

// Mode chế độ gọi: always | if_needed
func (c *Client) Mode() string {
	if c.cfg.Mode == config.JusoModeAlways {
		return config.JusoModeAlways
	}
	return config.JusoModeIfNeeded
}

// SanitizeKeyword bỏ phần trong ngoặc và ký tự % = < >, chuẩn hóa khoảng trắng
func SanitizeKeyword(keyword string) string {
	s := normalizer.StripParenthesizedText(keyword)
	s = reReservedChars.ReplaceAllString(s, "")
	return normalizer.NormalizeSpaces(s)
}

// CacheKey key cache của keyword: keyword đã sanitize và bỏ hết khoảng trắng
func CacheKey(keyword string) string {
	return normalizer.CompactSpaces(SanitizeKeyword(keyword))
}

// Resolve tra cứu keyword. Trả về nil, nil khi resolver tắt, keyword rỗng sau
// sanitize, hoặc API không có kết quả.
func (c *Client) Resolve(ctx context.Context, keyword string) (*models.JusoCandidate, error) {
	if !c.cfg.Enabled {
		metrics.RecordJusoOutcome(metrics.OutcomeDisabled)
		return nil, nil
	}

	sanitized := SanitizeKeyword(keyword)
	if sanitized == "" {
		return nil, nil
	}
	cacheKey := normalizer.CompactSpaces(sanitized)

	if cached := c.lookupCache(ctx, cacheKey); cached != nil {
		metrics.RecordJusoOutcome(metrics.OutcomeCacheHit)
		c.logger.Debug("Juso cache hit", zap.String("key", cacheKey))
		return cached, nil
	}

	item, err := c.request(ctx, sanitized)
	if err != nil {
		metrics.RecordJusoOutcome(metrics.OutcomeError)
		c.logger.Debug("Juso request failed", zap.String("keyword", sanitized), zap.Error(err))
		return nil, err
	}
	if item == nil {
		metrics.RecordJusoOutcome(metrics.OutcomeMiss)
		c.logger.Debug("Juso không có kết quả", zap.String("keyword", sanitized))
		return nil, nil
	}

	candidate := candidateFromItem(item)
	candidate.CachedAt = c.now().UTC().Format(time.RFC3339)

	if c.store != nil {
		if err := c.store.Put(ctx, cacheKey, candidate.ToMap()); err != nil {
			c.logger.Warn("Không ghi được juso cache", zap.String("key", cacheKey), zap.Error(err))
		}
	}

	metrics.RecordJusoOutcome(metrics.OutcomeHit)
	c.logger.Debug("Juso hit",
		zap.String("keyword", sanitized),
		zap.String("road_addr_part1", candidate.RoadAddrPart1),
		zap.String("result_text_contains", candidate.ResultTextContains))
	return candidate, nil
}

// lookupCache đọc cache; lỗi store coi như miss. cache_ttl > 0 thì bản ghi cũ hơn là miss,
// bản ghi không có cached_at được coi là còn hạn.
func (c *Client) lookupCache(ctx context.Context, key string) *models.JusoCandidate {
	if c.store == nil {
		return nil
	}
	value, found, err := c.store.Get(ctx, key)
	if err != nil {
		c.logger.Warn("Lỗi đọc juso cache", zap.String("key", key), zap.Error(err))
		return nil
	}
	if !found {
		return nil
	}

	candidate := models.JusoCandidateFromMap(value)
	if c.cfg.CacheTTL > 0 {
		if cachedAt, ok := candidate.CachedTime(); ok && c.now().Sub(cachedAt) > c.cfg.CacheTTL {
			return nil
		}
	}
	return candidate
}

// request gọi API một lần, không retry
func (c *Client) request(ctx context.Context, keyword string) (*jusoItem, error) {
	timeout := c.cfg.Timeout()
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	params := url.Values{}
	params.Set("confmKey", c.approvalKey)
	params.Set("keyword", keyword)
	params.Set("currentPage", "1")
	params.Set("countPerPage", strconv.Itoa(clampCountPerPage(c.cfg.CountPerPage)))
	params.Set("resultType", resultTypeOrDefault(c.cfg.ResultType))

	reqURL := c.cfg.BaseURL
	if strings.Contains(reqURL, "?") {
		reqURL += "&" + params.Encode()
	} else {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("tạo request juso: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.RecordJusoResponseTime(time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("gọi juso api: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("đọc response juso: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.NewExternalService(strconv.Itoa(resp.StatusCode), http.StatusText(resp.StatusCode))
	}

	var payload apiResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("parse response juso: %w", err)
	}

	common := payload.Results.Common
	if code := common.ErrorCode.String(); code != "" && code != "0" {
		return nil, apperrors.NewExternalService(code, common.ErrorMessage)
	}

	if len(payload.Results.Juso) == 0 {
		return nil, nil
	}
	return &payload.Results.Juso[0], nil
}

// candidateFromItem làm phẳng kết quả và tính token đường
func candidateFromItem(item *jusoItem) *models.JusoCandidate {
	return &models.JusoCandidate{
		RoadAddr:           strings.TrimSpace(item.RoadAddr),
		RoadAddrPart1:      strings.TrimSpace(item.RoadAddrPart1),
		RoadAddrPart2:      strings.TrimSpace(item.RoadAddrPart2),
		JibunAddr:          strings.TrimSpace(item.JibunAddr),
		ZipNo:              item.ZipNo.String(),
		Rn:                 strings.TrimSpace(item.Rn),
		BuldMnnm:           item.BuldMnnm.String(),
		BuldSlno:           item.BuldSlno.String(),
		BdNm:               strings.TrimSpace(item.BdNm),
		SiNm:               strings.TrimSpace(item.SiNm),
		SggNm:              strings.TrimSpace(item.SggNm),
		EmdNm:              strings.TrimSpace(item.EmdNm),
		ResultTextContains: candidateToken(item),
	}
}

// candidateToken rn + buldMnnm [+ "-" + buldSlno], fallback roadAddr rồi roadAddrPart1
func candidateToken(item *jusoItem) string {
	rn := strings.TrimSpace(item.Rn)
	mainNo := item.BuldMnnm.String()
	if rn != "" && mainNo != "" {
		token := rn + mainNo
		if sub := item.BuldSlno.String(); sub != "" && !isZero(sub) {
			token += "-" + sub
		}
		return normalizer.CompactSpaces(token)
	}
	if item.RoadAddr != "" {
		return normalizer.CompactSpaces(item.RoadAddr)
	}
	return normalizer.CompactSpaces(item.RoadAddrPart1)
}

func isZero(s string) bool {
	n, err := strconv.Atoi(s)
	return err == nil && n == 0
}

func clampCountPerPage(n int) int {
	switch {
	case n <= 0:
		return 10
	case n > 100:
		return 100
	default:
		return n
	}
}

func resultTypeOrDefault(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return "json"
	}
	return s
}
