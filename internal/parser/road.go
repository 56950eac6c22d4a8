package parser

import (
	"github.com/pickup-address/internal/normalizer"
)

// roadSpan vị trí đoạn đường tìm được trong chuỗi
type roadSpan struct {
	start int
	end   int
	text  string
}

// findRoad tìm đoạn đường đầu tiên (leftmost) trong s; nil nếu không có
func findRoad(s string) *roadSpan {
	loc := patterns.roadSearch.FindStringSubmatchIndex(s)
	if loc == nil || loc[2] < 0 {
		return nil
	}
	return &roadSpan{start: loc[2], end: loc[3], text: s[loc[2]:loc[3]]}
}

// LooksLikeRoadToken kiểm tra token (sau khi bỏ hết khoảng trắng) có đúng dạng
// tên đường + số nhà không, vd 향군로74번길26, 세종대로110, 올림픽로300-1.
func LooksLikeRoadToken(token string) bool {
	compact := normalizer.CompactSpaces(token)
	if compact == "" {
		return false
	}
	return patterns.roadToken.MatchString(compact)
}

// roadTextContains chọn token đường: ưu tiên đoạn đã tìm trong raw,
// sau đó tìm lại trong keyword rồi raw, cuối cùng compact nguyên keyword.
func roadTextContains(match *roadSpan, keyword, raw string) string {
	if match == nil {
		match = findRoad(keyword)
	}
	if match == nil {
		match = findRoad(raw)
	}
	if match != nil {
		return normalizer.CompactSpaces(match.text)
	}
	if keyword != "" {
		return normalizer.CompactSpaces(keyword)
	}
	return normalizer.CompactSpaces(raw)
}
