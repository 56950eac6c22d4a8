package normalizer

import (
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// FoldWidth đưa ký tự full-width (１０１동, （１층）, ，) về dạng hẹp và
// ghép jamo rời thành âm tiết Hangul (NFC). Âm tiết Hangul giữ nguyên.
func FoldWidth(s string) string {
	t := transform.Chain(width.Fold, norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
