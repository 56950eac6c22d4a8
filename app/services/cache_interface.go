package services

import (
	"context"
	"sync/atomic"
)

// KeyValueStore kho key → bản ghi chuỗi dùng làm cache cho juso resolver.
// Get trả về bản sao; sửa giá trị trả về không ảnh hưởng cache.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (map[string]string, bool, error)
	Put(ctx context.Context, key string, value map[string]string) error
}

// Clearer store hỗ trợ xóa toàn bộ (admin endpoint)
type Clearer interface {
	Clear(ctx context.Context) error
}

// StatsReporter store có thống kê hit/miss
type StatsReporter interface {
	Stats() CacheStats
}

// CacheStats thống kê cache
type CacheStats struct {
	Backend    string  `json:"backend"`
	HitRate    float64 `json:"hit_rate"`
	TotalHits  int64   `json:"total_hits"`
	TotalMiss  int64   `json:"total_miss"`
	TotalItems int64   `json:"total_items"`
}

// hitCounter bộ đếm hit/miss dùng chung cho các store
type hitCounter struct {
	hits   atomic.Int64
	misses atomic.Int64
}

func (h *hitCounter) record(found bool) {
	if found {
		h.hits.Add(1)
	} else {
		h.misses.Add(1)
	}
}

func (h *hitCounter) reset() {
	h.hits.Store(0)
	h.misses.Store(0)
}

func (h *hitCounter) stats(backend string, items int64) CacheStats {
	hits, misses := h.hits.Load(), h.misses.Load()
	hitRate := float64(0)
	if total := hits + misses; total > 0 {
		hitRate = float64(hits) / float64(total)
	}
	return CacheStats{
		Backend:    backend,
		HitRate:    hitRate,
		TotalHits:  hits,
		TotalMiss:  misses,
		TotalItems: items,
	}
}

func copyValue(value map[string]string) map[string]string {
	if value == nil {
		return nil
	}
	out := make(map[string]string, len(value))
	for k, v := range value {
		out[k] = v
	}
	return out
}
