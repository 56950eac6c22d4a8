package models

import "time"

// JusoCandidate ứng viên đầu tiên trả về từ juso API, đã làm phẳng thành chuỗi
type JusoCandidate struct {
	RoadAddr           string `json:"roadAddr"`             // Địa chỉ đường đầy đủ
	RoadAddrPart1      string `json:"roadAddrPart1"`        // Phần chính của địa chỉ đường
	RoadAddrPart2      string `json:"roadAddrPart2"`        // Phần tham chiếu (동, tên tòa nhà)
	JibunAddr          string `json:"jibunAddr"`            // Địa chỉ theo số lô
	ZipNo              string `json:"zipNo"`                // Mã bưu chính
	Rn                 string `json:"rn"`                   // Tên đường
	BuldMnnm           string `json:"buldMnnm"`             // Số nhà chính
	BuldSlno           string `json:"buldSlno"`             // Số nhà phụ
	BdNm               string `json:"bdNm"`                 // Tên tòa nhà
	SiNm               string `json:"siNm"`                 // Tỉnh/thành phố
	SggNm              string `json:"sggNm"`                // Quận/huyện
	EmdNm              string `json:"emdNm"`                // Phường/xã
	ResultTextContains string `json:"result_text_contains"` // Token đường compact, vd 향군로74번길26
	CachedAt           string `json:"cached_at,omitempty"`  // Thời điểm ghi cache (RFC3339)
}

// ToMap chuyển ứng viên thành map chuỗi để ghi cache
func (c *JusoCandidate) ToMap() map[string]string {
	m := map[string]string{
		"roadAddr":             c.RoadAddr,
		"roadAddrPart1":        c.RoadAddrPart1,
		"roadAddrPart2":        c.RoadAddrPart2,
		"jibunAddr":            c.JibunAddr,
		"zipNo":                c.ZipNo,
		"rn":                   c.Rn,
		"buldMnnm":             c.BuldMnnm,
		"buldSlno":             c.BuldSlno,
		"bdNm":                 c.BdNm,
		"siNm":                 c.SiNm,
		"sggNm":                c.SggNm,
		"emdNm":                c.EmdNm,
		"result_text_contains": c.ResultTextContains,
	}
	if c.CachedAt != "" {
		m["cached_at"] = c.CachedAt
	}
	return m
}

// JusoCandidateFromMap đọc ứng viên từ bản ghi cache; key thiếu thành chuỗi rỗng
func JusoCandidateFromMap(m map[string]string) *JusoCandidate {
	return &JusoCandidate{
		RoadAddr:           m["roadAddr"],
		RoadAddrPart1:      m["roadAddrPart1"],
		RoadAddrPart2:      m["roadAddrPart2"],
		JibunAddr:          m["jibunAddr"],
		ZipNo:              m["zipNo"],
		Rn:                 m["rn"],
		BuldMnnm:           m["buldMnnm"],
		BuldSlno:           m["buldSlno"],
		BdNm:               m["bdNm"],
		SiNm:               m["siNm"],
		SggNm:              m["sggNm"],
		EmdNm:              m["emdNm"],
		ResultTextContains: m["result_text_contains"],
		CachedAt:           m["cached_at"],
	}
}

// CachedTime parse cached_at; false nếu thiếu hoặc sai định dạng
func (c *JusoCandidate) CachedTime() (time.Time, bool) {
	if c.CachedAt == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, c.CachedAt)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
