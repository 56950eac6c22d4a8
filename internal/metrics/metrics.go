package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Kết quả một lần gọi resolver juso
const (
	OutcomeDisabled = "disabled"
	OutcomeCacheHit = "cache_hit"
	OutcomeHit      = "hit"
	OutcomeMiss     = "miss"
	OutcomeError    = "error"
)

// Metrics của pipeline và HTTP, đăng ký trong InitMetrics
var (
	// JusoRequests số lần gọi resolver theo kết quả
	JusoRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pickup_juso_requests_total",
		Help: "Số lần gọi juso resolver theo kết quả",
	}, []string{"outcome"})

	// JusoResponseTime thời gian gọi HTTP tới juso API
	JusoResponseTime = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "pickup_juso_response_time_seconds",
		Help:    "Thời gian phản hồi của juso API (giây)",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 15, 20},
	})

	// AddressParses số địa chỉ đã xử lý qua pipeline
	AddressParses = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pickup_address_parses_total",
		Help: "Số địa chỉ đã xử lý",
	}, []string{"result"})

	// RequestCounter tổng số HTTP request
	RequestCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pickup_http_requests_total",
		Help: "Tổng số HTTP request",
	}, []string{"method", "path", "status"})

	// ResponseTime thời gian xử lý HTTP request
	ResponseTime = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pickup_http_response_time_seconds",
		Help:    "Thời gian xử lý HTTP request (giây)",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 15},
	}, []string{"method", "path", "status"})
)

var registerOnce sync.Once

// InitMetrics đăng ký toàn bộ metrics vào registry mặc định; gọi nhiều lần vẫn an toàn
func InitMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(JusoRequests)
		prometheus.MustRegister(JusoResponseTime)
		prometheus.MustRegister(AddressParses)
		prometheus.MustRegister(RequestCounter)
		prometheus.MustRegister(ResponseTime)
	})
}

// RecordJusoOutcome ghi nhận kết quả một lần gọi resolver
func RecordJusoOutcome(outcome string) {
	JusoRequests.WithLabelValues(outcome).Inc()
}

// RecordJusoResponseTime ghi nhận thời gian gọi HTTP
func RecordJusoResponseTime(d time.Duration) {
	JusoResponseTime.Observe(d.Seconds())
}

// RecordParse ghi nhận kết quả pipeline: ok, empty_input, ...
func RecordParse(result string) {
	AddressParses.WithLabelValues(result).Inc()
}

// GinMiddleware đo số request và thời gian phản hồi theo route
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		RequestCounter.WithLabelValues(c.Request.Method, path, status).Inc()
		ResponseTime.WithLabelValues(c.Request.Method, path, status).Observe(time.Since(start).Seconds())
	}
}

// Handler handler /metrics cho gin
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
