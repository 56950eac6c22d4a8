package juso

import (
	"os"
	"regexp"
	"strings"
)

var reApprovalKey = regexp.MustCompile(`(?s)<승인키>(.*?)</승인키>`)

// ResolveApprovalKey lấy approval key: biến môi trường trước, sau đó file tài liệu
// chứa đoạn <승인키>...</승인키>. Trả về "" nếu không tìm thấy.
func ResolveApprovalKey(envName, docPath string) string {
	if envName != "" {
		if key := strings.TrimSpace(os.Getenv(envName)); key != "" {
			return key
		}
	}
	if docPath == "" {
		return ""
	}
	data, err := os.ReadFile(docPath)
	if err != nil {
		return ""
	}
	m := reApprovalKey.FindSubmatch(data)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(string(m[1]))
}
