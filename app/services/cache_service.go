package services

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// MemoryStore cache in-memory dạng LRU, dùng một mình hoặc làm L1
type MemoryStore struct {
	cache *lru.Cache[string, map[string]string]
	hitCounter
}

// NewMemoryStore tạo MemoryStore với số phần tử tối đa
func NewMemoryStore(size int) (*MemoryStore, error) {
	if size <= 0 {
		size = 1000
	}
	cache, err := lru.New[string, map[string]string](size)
	if err != nil {
		return nil, fmt.Errorf("không thể tạo LRU cache: %w", err)
	}
	return &MemoryStore{cache: cache}, nil
}

// Get lấy bản ghi theo key
func (ms *MemoryStore) Get(ctx context.Context, key string) (map[string]string, bool, error) {
	value, found := ms.cache.Get(key)
	ms.record(found)
	if !found {
		return nil, false, nil
	}
	return copyValue(value), true, nil
}

// Put lưu bản ghi
func (ms *MemoryStore) Put(ctx context.Context, key string, value map[string]string) error {
	ms.cache.Add(key, copyValue(value))
	return nil
}

// Clear xóa toàn bộ cache
func (ms *MemoryStore) Clear(ctx context.Context) error {
	ms.cache.Purge()
	ms.reset()
	return nil
}

// Stats thống kê cache
func (ms *MemoryStore) Stats() CacheStats {
	return ms.stats("memory", int64(ms.cache.Len()))
}
