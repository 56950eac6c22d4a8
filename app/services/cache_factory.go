package services

import (
	"context"
	"fmt"
	"time"

	"github.com/pickup-address/app/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// NewStoreFromConfig tạo KeyValueStore theo cache.backend. Với redis/mongo,
// l1_size > 0 thì đặt thêm LRU phía trước. Hàm close giải phóng kết nối.
func NewStoreFromConfig(ctx context.Context, cfg *config.Config, logger *zap.Logger) (KeyValueStore, func() error, error) {
	noop := func() error { return nil }
	juso := cfg.Juso()

	switch cfg.Cache.Backend {
	case config.CacheBackendMemory:
		store, err := NewMemoryStore(cfg.Cache.L1Size)
		if err != nil {
			return nil, noop, err
		}
		return store, noop, nil

	case config.CacheBackendRedis:
		store, err := NewRedisStore(cfg.Cache.RedisURL, juso.CacheTTL, logger)
		if err != nil {
			return nil, noop, err
		}
		layered, err := withL1(store, cfg.Cache.L1Size, logger)
		if err != nil {
			store.Close()
			return nil, noop, err
		}
		return layered, store.Close, nil

	case config.CacheBackendMongo:
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.Cache.MongoURL))
		if err != nil {
			return nil, noop, fmt.Errorf("kết nối MongoDB: %w", err)
		}
		if err := client.Ping(connectCtx, nil); err != nil {
			client.Disconnect(context.Background())
			return nil, noop, fmt.Errorf("ping MongoDB: %w", err)
		}
		closeFn := func() error { return client.Disconnect(context.Background()) }

		store, err := NewMongoStore(client.Database(cfg.Cache.MongoDatabase), juso.CacheTTL, logger)
		if err != nil {
			closeFn()
			return nil, noop, err
		}
		layered, err := withL1(store, cfg.Cache.L1Size, logger)
		if err != nil {
			closeFn()
			return nil, noop, err
		}
		return layered, closeFn, nil

	default:
		return NewFileStore(juso.CachePath, logger), noop, nil
	}
}

func withL1(l2 KeyValueStore, l1Size int, logger *zap.Logger) (KeyValueStore, error) {
	if l1Size <= 0 {
		return l2, nil
	}
	l1, err := NewMemoryStore(l1Size)
	if err != nil {
		return nil, err
	}
	return NewLayeredStore(l1, l2, logger), nil
}
