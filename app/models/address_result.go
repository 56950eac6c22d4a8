package models

// ParsedAddressRule kết quả tách địa chỉ bằng luật (không gọi API)
type ParsedAddressRule struct {
	Raw                string  `json:"raw" bson:"raw"`                                   // Địa chỉ đã chuẩn hóa
	Keyword            string  `json:"keyword" bson:"keyword"`                           // Phần địa chỉ chính dùng để tra cứu
	ResultTextContains string  `json:"result_text_contains" bson:"result_text_contains"` // Token đường đã compact, vd 향군로74번길26
	DetailAddress      *string `json:"detail_address" bson:"detail_address,omitempty"`   // Phần chi tiết sau địa chỉ chính
	Building           *string `json:"building" bson:"building,omitempty"`               // Tòa nhà (동)
	Unit               *string `json:"unit" bson:"unit,omitempty"`                       // Căn hộ (호)
}

// ResolvedAddressRecord kết quả cuối cùng sau pipeline: luật + juso API
type ResolvedAddressRecord struct {
	ParsedAddressRule `bson:",inline"`
	APIChecked  bool    `json:"api_checked" bson:"api_checked"`       // Đã gọi resolver chưa
	APIHit      bool    `json:"api_hit" bson:"api_hit"`               // Resolver trả về ứng viên
	APIAdjusted bool    `json:"api_adjusted" bson:"api_adjusted"`     // keyword hoặc token bị thay đổi
	APIError    *string `json:"api_error" bson:"api_error,omitempty"` // Lỗi resolver (không fatal)
}

// StringValue trả về "" nếu con trỏ nil
func StringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// StringPtr trả về nil cho chuỗi rỗng
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
