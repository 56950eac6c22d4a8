package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// LayeredStore ghép L1 (nhanh, thường là MemoryStore) với L2 (persistent)
type LayeredStore struct {
	l1     KeyValueStore
	l2     KeyValueStore
	logger *zap.Logger
}

// NewLayeredStore tạo mới LayeredStore
func NewLayeredStore(l1, l2 KeyValueStore, logger *zap.Logger) *LayeredStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LayeredStore{l1: l1, l2: l2, logger: logger}
}

// Get thử L1 trước, miss thì đọc L2 và đồng bộ lên L1
func (ls *LayeredStore) Get(ctx context.Context, key string) (map[string]string, bool, error) {
	value, found, err := ls.l1.Get(ctx, key)
	if err != nil {
		ls.logger.Warn("Lỗi L1 cache, fallback L2", zap.Error(err))
	} else if found {
		return value, true, nil
	}

	value, found, err = ls.l2.Get(ctx, key)
	if err != nil || !found {
		return nil, false, err
	}

	if err := ls.l1.Put(ctx, key, value); err != nil {
		ls.logger.Warn("Lỗi sync L2->L1", zap.Error(err), zap.String("key", key))
	}
	return value, true, nil
}

// Put ghi vào cả L1 và L2; lỗi L2 được trả về
func (ls *LayeredStore) Put(ctx context.Context, key string, value map[string]string) error {
	if err := ls.l1.Put(ctx, key, value); err != nil {
		ls.logger.Warn("Lỗi lưu vào L1", zap.Error(err), zap.String("key", key))
	}
	return ls.l2.Put(ctx, key, value)
}

// Clear xóa cả hai tầng nếu hỗ trợ
func (ls *LayeredStore) Clear(ctx context.Context) error {
	var errs []error
	for _, store := range []KeyValueStore{ls.l1, ls.l2} {
		clearer, ok := store.(Clearer)
		if !ok {
			continue
		}
		if err := clearer.Clear(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("cache errors: %w", errors.Join(errs...))
	}
	return nil
}

// Stats thống kê của L2 (nguồn chính); hit của L1 tính như hit
func (ls *LayeredStore) Stats() CacheStats {
	var l1, l2 CacheStats
	if r, ok := ls.l1.(StatsReporter); ok {
		l1 = r.Stats()
	}
	if r, ok := ls.l2.(StatsReporter); ok {
		l2 = r.Stats()
	}

	hits := l1.TotalHits + l2.TotalHits
	misses := l2.TotalMiss
	hitRate := float64(0)
	if total := hits + misses; total > 0 {
		hitRate = float64(hits) / float64(total)
	}
	return CacheStats{
		Backend:    l1.Backend + "+" + l2.Backend,
		HitRate:    hitRate,
		TotalHits:  hits,
		TotalMiss:  misses,
		TotalItems: l2.TotalItems,
	}
}

// Close đóng các tầng có Close
func (ls *LayeredStore) Close() error {
	for _, store := range []KeyValueStore{ls.l1, ls.l2} {
		if closer, ok := store.(interface{ Close() error }); ok {
			closer.Close()
		}
	}
	return nil
}
