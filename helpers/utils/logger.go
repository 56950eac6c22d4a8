package utils

import (
	"go.uber.org/zap"
)

// NewLogger khởi tạo structured logger: production JSON, development console
func NewLogger(production bool) (*zap.Logger, error) {
	var cfg zap.Config
	if production {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}
	return cfg.Build()
}
