package parser

import (
	_ "embed"
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed data/rules.yaml
var rulesYAML []byte

// RulesConfig quy tắc tách địa chỉ được load từ YAML embed
type RulesConfig struct {
	Road struct {
		NameChars     string   `yaml:"name_chars"`
		Suffixes      []string `yaml:"suffixes"`
		SubRoadSuffix string   `yaml:"sub_road_suffix"`
	} `yaml:"road"`
	Unit struct {
		Marker    string `yaml:"marker"`
		MaxDigits int    `yaml:"max_digits"`
	} `yaml:"unit"`
	Building struct {
		Marker            string   `yaml:"marker"`
		MaxDigits         int      `yaml:"max_digits"`
		SingleCharClasses []string `yaml:"single_char_classes"`
	} `yaml:"building"`
}

// LoadRulesConfig load quy tắc từ file YAML embed
func LoadRulesConfig() (*RulesConfig, error) {
	config := &RulesConfig{}
	if err := yaml.Unmarshal(rulesYAML, config); err != nil {
		return nil, fmt.Errorf("parse rules.yaml: %w", err)
	}
	if config.Road.NameChars == "" || len(config.Road.Suffixes) == 0 {
		return nil, fmt.Errorf("rules.yaml: road.name_chars and road.suffixes are required")
	}
	if config.Unit.Marker == "" || config.Building.Marker == "" {
		return nil, fmt.Errorf("rules.yaml: unit.marker and building.marker are required")
	}
	if config.Unit.MaxDigits <= 0 || config.Building.MaxDigits <= 0 {
		return nil, fmt.Errorf("rules.yaml: max_digits must be positive")
	}
	return config, nil
}

// patternSet các regex đã compile, theo thứ tự ưu tiên của decomposer
type patternSet struct {
	// road search: group 1 là đoạn đường; ký tự kết thúc (, khoảng trắng, "(" hoặc hết chuỗi)
	// bị tiêu thụ bởi group không bắt vì RE2 không có look-ahead
	roadSearch *regexp.Regexp
	// road token: khớp toàn chuỗi đã compact
	roadToken *regexp.Regexp
	unit      *regexp.Regexp
	building  *regexp.Regexp
}

func compilePatterns(rc *RulesConfig) (*patternSet, error) {
	suffixes := make([]string, len(rc.Road.Suffixes))
	for i, s := range rc.Road.Suffixes {
		suffixes[i] = regexp.QuoteMeta(s)
	}
	suffixAlt := strings.Join(suffixes, "|")
	subRoad := regexp.QuoteMeta(rc.Road.SubRoadSuffix)

	roadCore := fmt.Sprintf(`[%s]+(?:%s)\s*\d+(?:-\d+)?`, rc.Road.NameChars, suffixAlt)
	tokenCore := fmt.Sprintf(`[%s]+(?:%s)\d+(?:-\d+)?`, rc.Road.NameChars, suffixAlt)
	if subRoad != "" {
		roadCore += fmt.Sprintf(`(?:\s*%s\s*\d+(?:-\d+)?)?`, subRoad)
		tokenCore += fmt.Sprintf(`(?:%s\d+(?:-\d+)?)?`, subRoad)
	}

	buildingAlts := []string{fmt.Sprintf(`\d{1,%d}`, rc.Building.MaxDigits)}
	for _, class := range rc.Building.SingleCharClasses {
		buildingAlts = append(buildingAlts, "["+class+"]")
	}

	exprs := map[string]string{
		"road_search": `(` + roadCore + `)(?:$|[,\s(])`,
		"road_token":  `^` + tokenCore + `$`,
		"unit":        fmt.Sprintf(`(\d{1,%d})\s*%s`, rc.Unit.MaxDigits, regexp.QuoteMeta(rc.Unit.Marker)),
		"building":    fmt.Sprintf(`(%s)\s*%s`, strings.Join(buildingAlts, "|"), regexp.QuoteMeta(rc.Building.Marker)),
	}

	compiled := make(map[string]*regexp.Regexp, len(exprs))
	for name, expr := range exprs {
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("compile %s pattern %q: %w", name, expr, err)
		}
		compiled[name] = re
	}

	return &patternSet{
		roadSearch: compiled["road_search"],
		roadToken:  compiled["road_token"],
		unit:       compiled["unit"],
		building:   compiled["building"],
	}, nil
}

// patterns dùng chung, chỉ đọc sau init nên an toàn cho nhiều goroutine
var patterns = mustLoadPatterns()

func mustLoadPatterns() *patternSet {
	rc, err := LoadRulesConfig()
	if err != nil {
		panic(err)
	}
	ps, err := compilePatterns(rc)
	if err != nil {
		panic(err)
	}
	return ps
}
