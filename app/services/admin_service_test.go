package services

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/pickup-address/app/config"
	apperrors "github.com/pickup-address/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// plainStore store không hỗ trợ Clear/Stats
type plainStore struct{}

func (plainStore) Get(ctx context.Context, key string) (map[string]string, bool, error) {
	return nil, false, nil
}

func (plainStore) Put(ctx context.Context, key string, value map[string]string) error {
	return nil
}

func TestAdminService_StatsAndClear(t *testing.T) {
	ctx := context.Background()
	store := NewFileStore(filepath.Join(t.TempDir(), "cache.json"), nil)
	require.NoError(t, store.Put(ctx, "k", map[string]string{"rn": "세종대로"}))

	addressService := NewAddressService(nil, &MockResolver{enabled: true, mode: config.JusoModeAlways}, nil)
	admin := NewAdminService(addressService, store, config.CacheBackendFile, nil)

	stats := admin.GetSystemStats()
	assert.True(t, stats.JusoEnabled)
	assert.Equal(t, config.JusoModeAlways, stats.JusoMode)
	require.NotNil(t, stats.Cache)
	assert.Equal(t, int64(1), stats.Cache.TotalItems)
	assert.Contains(t, stats.MemoryUsage, "alloc_mb")

	require.NoError(t, admin.ClearCache(ctx))
	assert.Equal(t, int64(0), store.Stats().TotalItems)
}

func TestAdminService_ClearUnsupported(t *testing.T) {
	addressService := NewAddressService(nil, nil, nil)

	admin := NewAdminService(addressService, plainStore{}, "custom", nil)
	err := admin.ClearCache(context.Background())
	assert.True(t, apperrors.Is(err, apperrors.ErrInvalidRequest))
	assert.Nil(t, admin.GetSystemStats().Cache)

	none := NewAdminService(addressService, nil, "", nil)
	assert.True(t, apperrors.Is(none.ClearCache(context.Background()), apperrors.ErrInvalidRequest))
}
