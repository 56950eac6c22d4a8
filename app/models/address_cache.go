package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AddressCache document cache kết quả juso API trong MongoDB
type AddressCache struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Key          string             `bson:"key" json:"key"`                     // keyword đã compact
	Value        map[string]string  `bson:"value" json:"value"`                 // JusoCandidate.ToMap()
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`       // Thời gian tạo
	LastAccessed time.Time          `bson:"last_accessed" json:"last_accessed"` // Lần truy cập cuối
	AccessCount  int                `bson:"access_count" json:"access_count"`   // Số lần truy cập
}

// NewAddressCache tạo mới một AddressCache
func NewAddressCache(key string, value map[string]string) *AddressCache {
	now := time.Now()
	return &AddressCache{
		Key:          key,
		Value:        value,
		CreatedAt:    now,
		LastAccessed: now,
		AccessCount:  1,
	}
}

// IsExpired kiểm tra cache có hết hạn không (dựa trên thời gian tạo); ttl <= 0 là không hết hạn
func (ac *AddressCache) IsExpired(ttl time.Duration) bool {
	return ttl > 0 && time.Since(ac.CreatedAt) > ttl
}
