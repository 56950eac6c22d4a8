package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const redisKeyPrefix = "pickup_juso:"

// RedisStore cache juso trên Redis, giá trị lưu dạng JSON
type RedisStore struct {
	client *redis.Client
	logger *zap.Logger
	prefix string
	ttl    time.Duration
	hitCounter
}

// NewRedisStore kết nối Redis; ttl = 0 là không hết hạn
func NewRedisStore(redisURL string, ttl time.Duration, logger *zap.Logger) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("lỗi parse Redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		client.Close()
		return nil, fmt.Errorf("không thể kết nối Redis: %w", err)
	}

	return NewRedisStoreWithClient(client, ttl, logger), nil
}

// NewRedisStoreWithClient dùng client có sẵn
func NewRedisStoreWithClient(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisStore{
		client: client,
		logger: logger,
		prefix: redisKeyPrefix,
		ttl:    ttl,
	}
}

// Get lấy bản ghi theo key
func (rs *RedisStore) Get(ctx context.Context, key string) (map[string]string, bool, error) {
	cacheKey := rs.prefix + key

	val, err := rs.client.Get(ctx, cacheKey).Result()
	if errors.Is(err, redis.Nil) {
		rs.record(false)
		return nil, false, nil
	}
	if err != nil {
		rs.logger.Error("Lỗi get từ Redis", zap.Error(err), zap.String("key", cacheKey))
		return nil, false, err
	}

	var value map[string]string
	if err := json.Unmarshal([]byte(val), &value); err != nil {
		rs.logger.Warn("Bản ghi Redis sai định dạng, coi như miss", zap.Error(err), zap.String("key", cacheKey))
		rs.record(false)
		return nil, false, nil
	}

	rs.record(true)
	return value, true, nil
}

// Put lưu bản ghi
func (rs *RedisStore) Put(ctx context.Context, key string, value map[string]string) error {
	cacheKey := rs.prefix + key

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("lỗi marshal cache data: %w", err)
	}

	if err := rs.client.Set(ctx, cacheKey, data, rs.ttl).Err(); err != nil {
		rs.logger.Error("Lỗi set vào Redis", zap.Error(err), zap.String("key", cacheKey))
		return err
	}
	return nil
}

// Clear xóa mọi key có prefix của store
func (rs *RedisStore) Clear(ctx context.Context) error {
	deleted := 0
	iter := rs.client.Scan(ctx, 0, rs.prefix+"*", 500).Iterator()
	for iter.Next(ctx) {
		if err := rs.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("lỗi xóa key %s: %w", iter.Val(), err)
		}
		deleted++
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("lỗi scan keys: %w", err)
	}

	rs.reset()
	rs.logger.Info("Đã clear Redis cache", zap.Int("keys_deleted", deleted))
	return nil
}

// Stats thống kê cache; số phần tử không đếm để tránh scan
func (rs *RedisStore) Stats() CacheStats {
	return rs.stats("redis", -1)
}

// Close đóng kết nối
func (rs *RedisStore) Close() error {
	return rs.client.Close()
}
