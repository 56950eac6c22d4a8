package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pickup-address/app/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const mongoCacheCollection = "juso_cache"

// MongoStore cache juso persistent trên MongoDB
type MongoStore struct {
	collection *mongo.Collection
	ttl        time.Duration
	logger     *zap.Logger
	hitCounter
}

// NewMongoStore tạo MongoStore và index cho collection juso_cache
func NewMongoStore(db *mongo.Database, ttl time.Duration, logger *zap.Logger) (*MongoStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	collection := db.Collection(mongoCacheCollection)

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{bson.E{Key: "key", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{bson.E{Key: "created_at", Value: 1}},
		},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := collection.Indexes().CreateMany(ctx, indexModels); err != nil {
		logger.Warn("Không thể tạo indexes cho juso_cache", zap.Error(err))
	}

	return &MongoStore{
		collection: collection,
		ttl:        ttl,
		logger:     logger,
	}, nil
}

// Get lấy bản ghi theo key
func (ms *MongoStore) Get(ctx context.Context, key string) (map[string]string, bool, error) {
	var entry models.AddressCache
	err := ms.collection.FindOne(ctx, bson.M{"key": key}).Decode(&entry)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			ms.record(false)
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("lỗi query MongoDB cache: %w", err)
	}

	if entry.IsExpired(ms.ttl) {
		ms.record(false)
		return nil, false, nil
	}

	ms.record(true)
	go ms.updateAccessStats(entry.ID)
	return entry.Value, true, nil
}

// Put upsert bản ghi
func (ms *MongoStore) Put(ctx context.Context, key string, value map[string]string) error {
	entry := models.NewAddressCache(key, copyValue(value))

	opts := options.Replace().SetUpsert(true)
	if _, err := ms.collection.ReplaceOne(ctx, bson.M{"key": key}, entry, opts); err != nil {
		ms.logger.Error("Lỗi lưu vào MongoDB cache", zap.Error(err), zap.String("key", key))
		return fmt.Errorf("lỗi lưu vào MongoDB cache: %w", err)
	}
	return nil
}

// Clear xóa toàn bộ collection cache
func (ms *MongoStore) Clear(ctx context.Context) error {
	if _, err := ms.collection.DeleteMany(ctx, bson.M{}); err != nil {
		return fmt.Errorf("lỗi clear MongoDB cache: %w", err)
	}
	ms.reset()
	return nil
}

// Stats thống kê cache
func (ms *MongoStore) Stats() CacheStats {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	items, err := ms.collection.EstimatedDocumentCount(ctx)
	if err != nil {
		ms.logger.Warn("Không đếm được juso_cache", zap.Error(err))
		items = -1
	}
	return ms.stats("mongo", items)
}

// updateAccessStats cập nhật last_accessed và access_count
func (ms *MongoStore) updateAccessStats(id primitive.ObjectID) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	update := bson.M{
		"$set": bson.M{"last_accessed": time.Now()},
		"$inc": bson.M{"access_count": 1},
	}
	if _, err := ms.collection.UpdateByID(ctx, id, update); err != nil {
		ms.logger.Debug("Không cập nhật được access stats", zap.Error(err))
	}
}
