package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLooksLikeRoadToken(t *testing.T) {
	tests := []struct {
		name     string
		token    string
		expected bool
	}{
		{name: "sub road", token: "향군로74번길26", expected: true},
		{name: "sub road with spaces", token: "향군로 74번길 26", expected: true},
		{name: "daero", token: "세종대로110", expected: true},
		{name: "gil", token: "모라로3가길12", expected: true},
		{name: "sub number", token: "올림픽로300-1", expected: true},
		{name: "sub road sub number", token: "향군로74번길26-3", expected: true},
		{name: "lot address", token: "태평로1가31", expected: false},
		{name: "no number", token: "향군로", expected: false},
		{name: "trailing text", token: "향군로74번길26 101동", expected: false},
		{name: "region prefix", token: "서울특별시중구세종대로110", expected: true},
		{name: "parenthesis", token: "세종대로110(태평로)", expected: false},
		{name: "empty", token: "", expected: false},
		{name: "spaces only", token: "   ", expected: false},
		{name: "latin", token: "Sejong-daero 110", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, LooksLikeRoadToken(tt.token))
		})
	}
}

func TestFindRoad(t *testing.T) {
	tests := []struct {
		name  string
		input string
		text  string
	}{
		{name: "end of string", input: "향군로 74번길 26", text: "향군로 74번길 26"},
		{name: "comma terminator", input: "세종대로 110, 3층", text: "세종대로 110"},
		{name: "space terminator", input: "테헤란로 152 빌딩", text: "테헤란로 152"},
		{name: "paren terminator", input: "테헤란로 152(역삼동)", text: "테헤란로 152"},
		{name: "leftmost wins", input: "중앙로 1 그리고 시청로 2", text: "중앙로 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			span := findRoad(tt.input)
			require.NotNil(t, span)
			assert.Equal(t, tt.text, span.text)
			assert.Equal(t, tt.text, tt.input[span.start:span.end])
		})
	}

	assert.Nil(t, findRoad("서울특별시 중구 태평로1가 31"))
	assert.Nil(t, findRoad("향군로74층"))
}

func TestRoadTextContains_Fallbacks(t *testing.T) {
	// không tìm thấy đường: compact keyword
	assert.Equal(t, "경기도광명시", roadTextContains(nil, "경기도 광명시", "경기도 광명시, 1층"))
	// keyword rỗng: compact raw
	assert.Equal(t, ",1층", roadTextContains(nil, "", ", 1층"))
	// tìm lại trong keyword
	assert.Equal(t, "중앙로12", roadTextContains(nil, "중앙로 12", "중앙로 12"))
}

func TestLoadRulesConfig(t *testing.T) {
	rc, err := LoadRulesConfig()
	require.NoError(t, err)

	assert.Equal(t, []string{"로", "길", "대로"}, rc.Road.Suffixes)
	assert.Equal(t, "번길", rc.Road.SubRoadSuffix)
	assert.Equal(t, "호", rc.Unit.Marker)
	assert.Equal(t, "동", rc.Building.Marker)
	assert.Equal(t, 4, rc.Unit.MaxDigits)

	ps, err := compilePatterns(rc)
	require.NoError(t, err)
	assert.NotNil(t, ps.roadSearch)
	assert.NotNil(t, ps.building)
}
