package requests

// ParseAddressRequest request parse địa chỉ đơn lẻ
type ParseAddressRequest struct {
	Address string       `json:"address" binding:"required"` // Địa chỉ cần parse
	Options ParseOptions `json:"options,omitempty"`          // Tùy chọn parse
}

// ParseOptions tùy chọn parse
type ParseOptions struct {
	RuleOnly bool `json:"rule_only,omitempty"` // Chỉ dùng luật, không gọi juso API
}

// BatchParseRequest request parse hàng loạt địa chỉ
type BatchParseRequest struct {
	Addresses []string     `json:"addresses" binding:"required,min=1,max=20000"` // Danh sách địa chỉ (tối đa 20k)
	Options   ParseOptions `json:"options,omitempty"`                            // Tùy chọn parse
}

// JobResultsQuery query của GET /jobs/:jobID/results
type JobResultsQuery struct {
	Format string `form:"format"` // json | ndjson
	Gzip   bool   `form:"gzip"`   // nén gzip (chỉ với ndjson)
}

// RoadCheckQuery query của GET /roads/check
type RoadCheckQuery struct {
	Token string `form:"token" binding:"required"`
}
