package parser

import (
	"github.com/pickup-address/app/models"
	"go.uber.org/zap"
)

// AddressParser bọc ParseRule với logging cho tầng service
type AddressParser struct {
	logger *zap.Logger
}

// NewAddressParser tạo mới AddressParser
func NewAddressParser(logger *zap.Logger) *AddressParser {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AddressParser{logger: logger}
}

// ParseRule parse một địa chỉ bằng luật
func (ap *AddressParser) ParseRule(address string) (*models.ParsedAddressRule, error) {
	result, err := ParseRule(address)
	if err != nil {
		ap.logger.Debug("Không tách được địa chỉ", zap.String("address", address), zap.Error(err))
		return nil, err
	}

	ap.logger.Debug("Đã tách địa chỉ",
		zap.String("keyword", result.Keyword),
		zap.String("result_text_contains", result.ResultTextContains),
		zap.Stringp("unit", result.Unit),
		zap.Stringp("building", result.Building),
	)
	return result, nil
}

// LooksLikeRoadToken xem LooksLikeRoadToken của package
func (ap *AddressParser) LooksLikeRoadToken(token string) bool {
	return LooksLikeRoadToken(token)
}
