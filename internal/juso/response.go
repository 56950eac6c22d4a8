package juso

import (
	"bytes"
	"encoding/json"
	"strings"
)

// flexString nhận cả chuỗi lẫn số JSON (errorCode, buldMnnm, buldSlno có lúc là số)
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

func (f flexString) String() string {
	return string(f)
}

// apiResponse envelope của juso API
type apiResponse struct {
	Results struct {
		Common struct {
			ErrorCode    flexString `json:"errorCode"`
			ErrorMessage string     `json:"errorMessage"`
			TotalCount   flexString `json:"totalCount"`
		} `json:"common"`
		Juso []jusoItem `json:"juso"`
	} `json:"results"`
}

// jusoItem một kết quả tra cứu
type jusoItem struct {
	RoadAddr      string     `json:"roadAddr"`
	RoadAddrPart1 string     `json:"roadAddrPart1"`
	RoadAddrPart2 string     `json:"roadAddrPart2"`
	JibunAddr     string     `json:"jibunAddr"`
	ZipNo         flexString `json:"zipNo"`
	Rn            string     `json:"rn"`
	BuldMnnm      flexString `json:"buldMnnm"`
	BuldSlno      flexString `json:"buldSlno"`
	BdNm          string     `json:"bdNm"`
	SiNm          string     `json:"siNm"`
	SggNm         string     `json:"sggNm"`
	EmdNm         string     `json:"emdNm"`
}
