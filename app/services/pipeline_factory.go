package services

import (
	"context"
	"fmt"

	"github.com/pickup-address/app/config"
	"github.com/pickup-address/internal/juso"
	"github.com/pickup-address/internal/parser"
	"go.uber.org/zap"
)

// Pipeline các thành phần dùng chung giữa API server và worker
type Pipeline struct {
	AddressService *AddressService
	Store          KeyValueStore
	Backend        string
	close          func() error
}

// Close giải phóng kết nối cache
func (p *Pipeline) Close() error {
	if p.close == nil {
		return nil
	}
	return p.close()
}

// NewPipeline dựng parser, cache store và juso client từ cấu hình.
// Resolver tắt thì client không có store (không cần Redis/Mongo, không cần approval key).
func NewPipeline(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Pipeline, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	jusoCfg := cfg.Juso()
	addressParser := parser.NewAddressParser(logger)

	if !jusoCfg.Enabled {
		logger.Info("Juso API tắt, chỉ dùng luật")
		client, err := juso.NewClient(jusoCfg, nil, logger)
		if err != nil {
			return nil, err
		}
		return &Pipeline{AddressService: NewAddressService(addressParser, client, logger)}, nil
	}

	store, closeFn, err := NewStoreFromConfig(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("khởi tạo juso cache (%s): %w", cfg.Cache.Backend, err)
	}

	client, err := juso.NewClient(jusoCfg, store, logger)
	if err != nil {
		closeFn()
		return nil, err
	}

	logger.Info("Juso API bật",
		zap.String("mode", client.Mode()),
		zap.String("cache_backend", cfg.Cache.Backend))

	return &Pipeline{
		AddressService: NewAddressService(addressParser, client, logger),
		Store:          store,
		Backend:        cfg.Cache.Backend,
		close:          closeFn,
	}, nil
}
