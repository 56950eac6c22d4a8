package normalizer

import (
	"regexp"
	"strings"
)

// \s của RE2 chỉ là ASCII nên thêm \p{Z} để bắt NBSP, ideographic space...
var reSpaces = regexp.MustCompile(`[\s\p{Z}\x{FEFF}]+`)

// chỉ một cấp ngoặc, non-greedy
var reParenthesized = regexp.MustCompile(`\(.*?\)`)

// NormalizeSpaces gộp mọi chuỗi khoảng trắng thành một dấu cách ASCII và trim hai đầu.
func NormalizeSpaces(s string) string {
	return strings.TrimSpace(reSpaces.ReplaceAllString(s, " "))
}

// CompactSpaces xóa toàn bộ khoảng trắng. Dùng cho token so khớp "contains"
// khi khoảng trắng bên trong HTML nguồn không đoán trước được.
func CompactSpaces(s string) string {
	return strings.TrimSpace(reSpaces.ReplaceAllString(s, ""))
}

// StripParenthesizedText thay mọi đoạn (...) bằng một dấu cách rồi trim.
// Ngoặc lồng nhau không được xử lý.
func StripParenthesizedText(s string) string {
	return strings.TrimSpace(reParenthesized.ReplaceAllString(s, " "))
}

// Clean chuẩn hóa đầu vào trước khi tách địa chỉ:
// fold width → gộp khoảng trắng → bỏ ngoặc → gộp khoảng trắng lần nữa.
func Clean(s string) string {
	return NormalizeSpaces(StripParenthesizedText(NormalizeSpaces(FoldWidth(s))))
}
