package services

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Chạy khi có PICKUP_TEST_REDIS_URL, vd redis://localhost:6379/15
func TestRedisStore(t *testing.T) {
	redisURL := os.Getenv("PICKUP_TEST_REDIS_URL")
	if redisURL == "" {
		t.Skip("PICKUP_TEST_REDIS_URL not set")
	}
	ctx := context.Background()

	store, err := NewRedisStore(redisURL, time.Minute, nil)
	require.NoError(t, err)
	defer store.Close()
	require.NoError(t, store.Clear(ctx))

	_, found, err := store.Get(ctx, "세종대로110")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.Put(ctx, "세종대로110", map[string]string{"rn": "세종대로", "buldMnnm": "110"}))
	got, found, err := store.Get(ctx, "세종대로110")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "110", got["buldMnnm"])

	require.NoError(t, store.Clear(ctx))
	_, found, _ = store.Get(ctx, "세종대로110")
	assert.False(t, found)
}

// Chạy khi có PICKUP_TEST_MONGO_URL, vd mongodb://localhost:27017
func TestMongoStore(t *testing.T) {
	mongoURL := os.Getenv("PICKUP_TEST_MONGO_URL")
	if mongoURL == "" {
		t.Skip("PICKUP_TEST_MONGO_URL not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURL))
	require.NoError(t, err)
	defer client.Disconnect(context.Background())

	db := client.Database("pickup_address_test")
	defer db.Drop(context.Background())

	store, err := NewMongoStore(db, 0, nil)
	require.NoError(t, err)

	require.NoError(t, store.Put(ctx, "향군로74번길26", map[string]string{"rn": "향군로74번길"}))
	require.NoError(t, store.Put(ctx, "향군로74번길26", map[string]string{"rn": "향군로74번길", "buldMnnm": "26"}))

	got, found, err := store.Get(ctx, "향군로74번길26")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "26", got["buldMnnm"])
	assert.Equal(t, int64(1), store.Stats().TotalItems)

	require.NoError(t, store.Clear(ctx))
	assert.Equal(t, int64(0), store.Stats().TotalItems)
}
