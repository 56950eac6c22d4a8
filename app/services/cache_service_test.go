package services

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_PutGetPersist(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "juso_cache.json")

	store := NewFileStore(path, nil)
	_, found, err := store.Get(ctx, "향군로74번길26")
	require.NoError(t, err)
	assert.False(t, found)

	value := map[string]string{"roadAddrPart1": "충청북도 청주시 청원구 향군로74번길 26", "result_text_contains": "향군로74번길26"}
	require.NoError(t, store.Put(ctx, "향군로74번길26", value))

	// sửa map gốc không ảnh hưởng cache
	value["roadAddrPart1"] = "changed"

	got, found, err := store.Get(ctx, "향군로74번길26")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "충청북도 청주시 청원구 향군로74번길 26", got["roadAddrPart1"])

	// process mới đọc lại file
	reopened := NewFileStore(path, nil)
	got, found, err = reopened.Get(ctx, "향군로74번길26")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "향군로74번길26", got["result_text_contains"])

	// không còn file tạm
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	stats := reopened.Stats()
	assert.Equal(t, "file", stats.Backend)
	assert.Equal(t, int64(1), stats.TotalHits)
	assert.Equal(t, int64(1), stats.TotalItems)
}

func TestFileStore_CorruptFile(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	corrupt := filepath.Join(dir, "corrupt.json")
	require.NoError(t, os.WriteFile(corrupt, []byte("{not json"), 0o644))
	store := NewFileStore(corrupt, nil)
	_, found, err := store.Get(ctx, "x")
	require.NoError(t, err)
	assert.False(t, found)

	// bản ghi sai kiểu bị bỏ qua, bản ghi đúng vẫn đọc được
	mixed := filepath.Join(dir, "mixed.json")
	require.NoError(t, os.WriteFile(mixed, []byte(`{"ok": {"rn": "세종대로"}, "bad": [1, 2], "num": {"rn": 3}}`), 0o644))
	store = NewFileStore(mixed, nil)
	got, found, err := store.Get(ctx, "ok")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "세종대로", got["rn"])
	_, found, _ = store.Get(ctx, "bad")
	assert.False(t, found)
	_, found, _ = store.Get(ctx, "num")
	assert.False(t, found)
}

func TestFileStore_PutKeepsEntriesFromOtherWriters(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "juso_cache.json")

	// hai process mở cùng file khi file còn rỗng
	first := NewFileStore(path, nil)
	second := NewFileStore(path, nil)

	require.NoError(t, first.Put(ctx, "세종대로110", map[string]string{"rn": "세종대로"}))
	require.NoError(t, second.Put(ctx, "향군로74번길26", map[string]string{"rn": "향군로74번길"}))

	reopened := NewFileStore(path, nil)
	for _, key := range []string{"세종대로110", "향군로74번길26"} {
		_, found, err := reopened.Get(ctx, key)
		require.NoError(t, err)
		assert.True(t, found, key)
	}

	require.NoError(t, first.Put(ctx, "모라로3가길12", map[string]string{"rn": "모라로3가길"}))
	_, found, err := first.Get(ctx, "향군로74번길26")
	require.NoError(t, err)
	assert.True(t, found, "Put phải gộp bản ghi process khác đã ghi")
	assert.Equal(t, int64(3), NewFileStore(path, nil).Stats().TotalItems)
}

func TestFileStore_ClearAndConcurrentPut(t *testing.T) {
	ctx := context.Background()
	store := NewFileStore(filepath.Join(t.TempDir(), "cache.json"), nil)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := string(rune('가' + i))
			assert.NoError(t, store.Put(ctx, key, map[string]string{"rn": key}))
		}(i)
	}
	wg.Wait()
	assert.Equal(t, int64(20), store.Stats().TotalItems)

	require.NoError(t, store.Clear(ctx))
	assert.Equal(t, int64(0), store.Stats().TotalItems)

	reopened := NewFileStore(store.path, nil)
	assert.Equal(t, int64(0), reopened.Stats().TotalItems)
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store, err := NewMemoryStore(2)
	require.NoError(t, err)

	require.NoError(t, store.Put(ctx, "a", map[string]string{"v": "1"}))
	require.NoError(t, store.Put(ctx, "b", map[string]string{"v": "2"}))
	require.NoError(t, store.Put(ctx, "c", map[string]string{"v": "3"}))

	_, found, _ := store.Get(ctx, "a")
	assert.False(t, found, "LRU phải loại phần tử cũ nhất")

	got, found, _ := store.Get(ctx, "c")
	require.True(t, found)
	assert.Equal(t, "3", got["v"])

	stats := store.Stats()
	assert.Equal(t, int64(1), stats.TotalHits)
	assert.Equal(t, int64(1), stats.TotalMiss)
	assert.InDelta(t, 0.5, stats.HitRate, 1e-9)

	require.NoError(t, store.Clear(ctx))
	assert.Equal(t, int64(0), store.Stats().TotalItems)
}

func TestLayeredStore_Backfill(t *testing.T) {
	ctx := context.Background()
	l1, err := NewMemoryStore(10)
	require.NoError(t, err)
	l2 := NewFileStore(filepath.Join(t.TempDir(), "cache.json"), nil)
	require.NoError(t, l2.Put(ctx, "세종대로110", map[string]string{"rn": "세종대로"}))

	layered := NewLayeredStore(l1, l2, nil)

	got, found, err := layered.Get(ctx, "세종대로110")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "세종대로", got["rn"])

	// đã đồng bộ lên L1
	_, found, _ = l1.Get(ctx, "세종대로110")
	assert.True(t, found)

	require.NoError(t, layered.Put(ctx, "향군로74번길26", map[string]string{"rn": "향군로74번길"}))
	_, found, _ = l2.Get(ctx, "향군로74번길26")
	assert.True(t, found)

	stats := layered.Stats()
	assert.Equal(t, "memory+file", stats.Backend)
	assert.Equal(t, int64(2), stats.TotalItems)

	require.NoError(t, layered.Clear(ctx))
	_, found, _ = layered.Get(ctx, "세종대로110")
	assert.False(t, found)
}
