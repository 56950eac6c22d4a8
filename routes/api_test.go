package routes

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pickup-address/app/config"
	"github.com/pickup-address/app/controllers"
	"github.com/pickup-address/app/models"
	"github.com/pickup-address/app/responses"
	"github.com/pickup-address/app/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubResolver luôn trả về một ứng viên cố định
type stubResolver struct {
	candidate *models.JusoCandidate
	calls     int
}

func (s *stubResolver) Enabled() bool { return true }
func (s *stubResolver) Mode() string  { return config.JusoModeIfNeeded }
func (s *stubResolver) Resolve(ctx context.Context, keyword string) (*models.JusoCandidate, error) {
	s.calls++
	return s.candidate, nil
}

type testServer struct {
	router         *gin.Engine
	addressService *services.AddressService
	store          *services.FileStore
}

func newTestServer(t *testing.T, resolver services.Resolver) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := services.NewFileStore(filepath.Join(t.TempDir(), "juso_cache.json"), nil)
	addressService := services.NewAddressService(nil, resolver, nil)
	adminService := services.NewAdminService(addressService, store, config.CacheBackendFile, nil)

	router := gin.New()
	SetupAllRoutes(router,
		controllers.NewAddressController(addressService, nil),
		controllers.NewAdminController(adminService, nil))

	return &testServer{router: router, addressService: addressService, store: store}
}

func (s *testServer) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func TestParseAddressRoute(t *testing.T) {
	resolver := &stubResolver{candidate: &models.JusoCandidate{
		RoadAddrPart1:      "서울특별시 중구 세종대로 110",
		ResultTextContains: "세종대로110",
	}}
	server := newTestServer(t, resolver)

	tests := []struct {
		name           string
		body           string
		expectedStatus int
		expectedError  string
		check          func(t *testing.T, resp responses.ParseAddressResponse)
	}{
		{
			name:           "missing address",
			body:           `{}`,
			expectedStatus: http.StatusBadRequest,
			expectedError:  "INVALID_REQUEST",
		},
		{
			name:           "address empty after normalization",
			body:           `{"address": "(1층)"}`,
			expectedStatus: http.StatusBadRequest,
			expectedError:  "EMPTY_INPUT",
		},
		{
			name:           "resolved through juso",
			body:           `{"address": "서울특별시 중구 태평로1가 31, 101동 502호"}`,
			expectedStatus: http.StatusOK,
			check: func(t *testing.T, resp responses.ParseAddressResponse) {
				require.NotNil(t, resp.Result)
				assert.Equal(t, "서울특별시 중구 세종대로 110", resp.Result.Keyword)
				assert.Equal(t, "세종대로110", resp.Result.ResultTextContains)
				assert.Equal(t, "101", models.StringValue(resp.Result.Building))
				assert.Equal(t, "502", models.StringValue(resp.Result.Unit))
				assert.True(t, resp.Result.APIChecked)
				assert.True(t, resp.Result.APIAdjusted)
				assert.Equal(t, config.JusoModeIfNeeded, resp.JusoMode)
				assert.False(t, resp.RuleOnly)
			},
		},
		{
			name:           "rule only",
			body:           `{"address": "서울특별시 중구 태평로1가 31, 101동 502호", "options": {"rule_only": true}}`,
			expectedStatus: http.StatusOK,
			check: func(t *testing.T, resp responses.ParseAddressResponse) {
				require.NotNil(t, resp.Result)
				assert.Equal(t, "서울특별시 중구 태평로1가 31", resp.Result.Keyword)
				assert.False(t, resp.Result.APIChecked)
				assert.True(t, resp.RuleOnly)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := server.do(http.MethodPost, "/v1/addresses/parse", tt.body)
			assert.Equal(t, tt.expectedStatus, w.Code)

			if tt.expectedError != "" {
				var errResp responses.ErrorResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errResp))
				assert.Equal(t, tt.expectedError, errResp.Error)
				assert.NotEmpty(t, errResp.Timestamp)
				return
			}

			var resp responses.ParseAddressResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			tt.check(t, resp)
		})
	}
}

func TestBatchJobRoutes(t *testing.T) {
	server := newTestServer(t, nil)

	w := server.do(http.MethodPost, "/v1/addresses/jobs", `{"addresses": ["향군로 74번길 26", "", "세종대로 110, 3층"]}`)
	require.Equal(t, http.StatusAccepted, w.Code)

	var batch responses.BatchParseResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &batch))
	assert.Equal(t, 3, batch.TotalAddresses)
	require.NotEmpty(t, batch.JobID)

	assert.Eventually(t, func() bool {
		w := server.do(http.MethodGet, "/v1/addresses/jobs/"+batch.JobID+"/status", "")
		var status responses.JobStatusResponse
		if err := json.Unmarshal(w.Body.Bytes(), &status); err != nil {
			return false
		}
		return status.Status == responses.JobStatusDone
	}, 2*time.Second, 10*time.Millisecond)

	w = server.do(http.MethodGet, "/v1/addresses/jobs/"+batch.JobID+"/status", "")
	var status responses.JobStatusResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.Equal(t, 3, status.Processed)
	assert.Equal(t, 1, status.Failed)
	assert.Equal(t, 1.0, status.Progress)

	// json
	w = server.do(http.MethodGet, "/v1/addresses/jobs/"+batch.JobID+"/results", "")
	require.Equal(t, http.StatusOK, w.Code)
	var results struct {
		JobID   string                    `json:"job_id"`
		Total   int                       `json:"total"`
		Results []services.JobResultItem `json:"results"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &results))
	assert.Equal(t, 3, results.Total)
	require.NotNil(t, results.Results[0].Record)
	assert.Equal(t, "향군로74번길26", results.Results[0].Record.ResultTextContains)
	require.NotNil(t, results.Results[1].Error)
	assert.Equal(t, "EMPTY_INPUT", *results.Results[1].Error)

	// ndjson + gzip
	w = server.do(http.MethodGet, "/v1/addresses/jobs/"+batch.JobID+"/results?format=ndjson&gzip=true", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "gzip", w.Header().Get("Content-Encoding"))
	assert.Equal(t, "application/x-ndjson", w.Header().Get("Content-Type"))

	gz, err := gzip.NewReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	scanner := bufio.NewScanner(gz)
	lines := 0
	for scanner.Scan() {
		var item services.JobResultItem
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &item))
		assert.Equal(t, lines, item.Index)
		lines++
	}
	require.NoError(t, scanner.Err())
	assert.Equal(t, 3, lines)
}

func TestJobRoutes_Errors(t *testing.T) {
	server := newTestServer(t, nil)

	tests := []struct {
		name           string
		path           string
		expectedStatus int
		expectedError  string
	}{
		{"invalid job id", "/v1/addresses/jobs/not-a-uuid/status", http.StatusBadRequest, "INVALID_REQUEST"},
		{"unknown job", "/v1/addresses/jobs/6f1c1f0e-3c1a-4d9a-9d0b-2f6f6c7b1a11/status", http.StatusNotFound, "NOT_FOUND"},
		{"unknown job results", "/v1/addresses/jobs/6f1c1f0e-3c1a-4d9a-9d0b-2f6f6c7b1a11/results?format=ndjson", http.StatusNotFound, "NOT_FOUND"},
		{"bad format", "/v1/addresses/jobs/6f1c1f0e-3c1a-4d9a-9d0b-2f6f6c7b1a11/results?format=xml", http.StatusBadRequest, "INVALID_REQUEST"},
		{"unknown route", "/v1/nothing", http.StatusNotFound, "NOT_FOUND"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := server.do(http.MethodGet, tt.path, "")
			assert.Equal(t, tt.expectedStatus, w.Code)

			var errResp responses.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errResp))
			assert.Equal(t, tt.expectedError, errResp.Error)
		})
	}

	w := server.do(http.MethodPost, "/v1/addresses/jobs", `{"addresses": []}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRoadCheckRoute(t *testing.T) {
	server := newTestServer(t, nil)

	tests := []struct {
		token    string
		roadLike bool
	}{
		{"향군로 74번길 26", true},
		{"세종대로110", true},
		{"태평로1가31", false},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/v1/roads/check", nil)
			q := req.URL.Query()
			q.Set("token", tt.token)
			req.URL.RawQuery = q.Encode()
			w := httptest.NewRecorder()
			server.router.ServeHTTP(w, req)

			require.Equal(t, http.StatusOK, w.Code)
			var resp responses.RoadCheckResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.roadLike, resp.RoadLike)
			assert.Equal(t, strings.ReplaceAll(tt.token, " ", ""), resp.Compact)
		})
	}

	w := server.do(http.MethodGet, "/v1/roads/check", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminRoutes(t *testing.T) {
	server := newTestServer(t, &stubResolver{})
	require.NoError(t, server.store.Put(context.Background(), "세종대로110", map[string]string{"rn": "세종대로"}))

	w := server.do(http.MethodGet, "/v1/admin/stats", "")
	require.Equal(t, http.StatusOK, w.Code)
	var stats map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, true, stats["juso_enabled"])
	cache, ok := stats["cache"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "file", cache["backend"])
	assert.Equal(t, float64(1), cache["total_items"])

	w = server.do(http.MethodPost, "/v1/admin/cache/clear", "")
	require.Equal(t, http.StatusOK, w.Code)
	var clear responses.CacheClearResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &clear))
	assert.True(t, clear.Success)
	assert.Equal(t, config.CacheBackendFile, clear.Backend)
	assert.Equal(t, int64(0), server.store.Stats().TotalItems)
}

func TestHealthAndWebRoutes(t *testing.T) {
	server := newTestServer(t, nil)

	for _, path := range []string{"/health", "/ready", "/live", "/v1/health"} {
		w := server.do(http.MethodGet, path, "")
		require.Equal(t, http.StatusOK, w.Code, path)
		var health responses.HealthResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
		assert.Equal(t, "healthy", health.Status)
		assert.False(t, health.JusoEnabled)
	}

	w := server.do(http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Pickup Address Parser Service")

	w = server.do(http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)
}
