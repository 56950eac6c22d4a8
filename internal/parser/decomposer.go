package parser

import (
	"strings"

	"github.com/pickup-address/app/models"
	apperrors "github.com/pickup-address/internal/errors"
	"github.com/pickup-address/internal/normalizer"
)

// markerMatch một lần khớp 동/호: vị trí bắt đầu và giá trị group 1
type markerMatch struct {
	start int
	value string
}

// ParseRule tách địa chỉ nhận hàng thành keyword, token đường, phần chi tiết,
// tòa nhà (동) và căn hộ (호). Hàm thuần, không I/O.
func ParseRule(address string) (*models.ParsedAddressRule, error) {
	raw := normalizer.Clean(address)
	if raw == "" {
		return nil, apperrors.NewEmptyInput()
	}

	result := &models.ParsedAddressRule{Raw: raw}

	// Pass 1: đoạn đường
	road := findRoad(raw)
	var detail string
	switch {
	case road != nil:
		keyword := strings.TrimSpace(raw[:road.end])
		result.Keyword = strings.TrimSpace(strings.TrimSuffix(keyword, ","))
		detail = strings.TrimSpace(strings.TrimLeft(raw[road.end:], ", "))
	case strings.Contains(raw, ","):
		idx := strings.Index(raw, ",")
		result.Keyword = strings.TrimSpace(raw[:idx])
		detail = strings.TrimSpace(raw[idx+1:])
	default:
		result.Keyword = raw
	}
	result.DetailAddress = models.StringPtr(detail)

	// Pass 2, 3: 호 rồi 동, trong phần chi tiết nếu có
	scope := raw
	if detail != "" {
		scope = detail
	}
	unit := findUnit(scope)
	if unit != nil {
		result.Unit = models.StringPtr(unit.value)
	}
	if building := findBuilding(scope, unit); building != nil {
		result.Building = models.StringPtr(building.value)
	}

	result.ResultTextContains = roadTextContains(road, result.Keyword, raw)
	return result, nil
}

// findUnit lấy lần khớp 호 cuối cùng
func findUnit(scope string) *markerMatch {
	matches := patterns.unit.FindAllStringSubmatchIndex(scope, -1)
	if len(matches) == 0 {
		return nil
	}
	m := matches[len(matches)-1]
	return &markerMatch{start: m[0], value: scope[m[2]:m[3]]}
}

// findBuilding có 호: lấy 동 gần nhất đứng trước 호; không có 호: lấy 동 đầu tiên
func findBuilding(scope string, unit *markerMatch) *markerMatch {
	matches := patterns.building.FindAllStringSubmatchIndex(scope, -1)
	if len(matches) == 0 {
		return nil
	}
	if unit == nil {
		m := matches[0]
		return &markerMatch{start: m[0], value: scope[m[2]:m[3]]}
	}

	var best *markerMatch
	for _, m := range matches {
		if m[0] >= unit.start {
			break
		}
		best = &markerMatch{start: m[0], value: scope[m[2]:m[3]]}
	}
	return best
}
