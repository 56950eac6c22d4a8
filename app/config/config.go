package config

import (
	"strings"
	"time"

	apperrors "github.com/pickup-address/internal/errors"
	"github.com/spf13/viper"
)

// Các chế độ gọi juso API
const (
	JusoModeAlways   = "always"
	JusoModeIfNeeded = "if_needed"
)

// Các backend cache cho juso API
const (
	CacheBackendFile   = "file"
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
	CacheBackendMongo  = "mongo"
)

const (
	defaultCountPerPage = 10
	maxCountPerPage     = 100
	defaultTimeoutMs    = 15000
	defaultResultType   = "json"
)

type AppCfg struct {
	Env  string `mapstructure:"env" yaml:"env" json:"env"`
	Port string `mapstructure:"port" yaml:"port" json:"port"`
}

type ColumnsCfg struct {
	ManagementNo  string `mapstructure:"management_no" yaml:"management_no" json:"management_no"`
	SubjectName   string `mapstructure:"subject_name" yaml:"subject_name" json:"subject_name"`
	PickupAddress string `mapstructure:"pickup_address" yaml:"pickup_address" json:"pickup_address"`
}

type InputExcelCfg struct {
	Path    string     `mapstructure:"path" yaml:"path" json:"path"`
	Sheet   string     `mapstructure:"sheet" yaml:"sheet" json:"sheet"`
	Columns ColumnsCfg `mapstructure:"columns" yaml:"columns" json:"columns"`
}

// JusoConfig cấu hình resolver juso API
type JusoConfig struct {
	Enabled         bool          `mapstructure:"enabled" yaml:"enabled" json:"enabled"`
	BaseURL         string        `mapstructure:"base_url" yaml:"base_url" json:"base_url"`
	ApprovalKeyEnv  string        `mapstructure:"approval_key_env" yaml:"approval_key_env" json:"approval_key_env"`
	ApprovalKeyFile string        `mapstructure:"approval_key_file" yaml:"approval_key_file" json:"approval_key_file"`
	CachePath       string        `mapstructure:"cache_path" yaml:"cache_path" json:"cache_path"`
	Mode            string        `mapstructure:"mode" yaml:"mode" json:"mode"`
	CountPerPage    int           `mapstructure:"count_per_page" yaml:"count_per_page" json:"count_per_page"`
	TimeoutMs       int           `mapstructure:"timeout_ms" yaml:"timeout_ms" json:"timeout_ms"`
	ResultType      string        `mapstructure:"result_type" yaml:"result_type" json:"result_type"`
	CacheTTL        time.Duration `mapstructure:"cache_ttl" yaml:"cache_ttl" json:"cache_ttl"`
}

// Timeout trả về timeout dạng time.Duration
func (j JusoConfig) Timeout() time.Duration {
	return time.Duration(j.TimeoutMs) * time.Millisecond
}

type EpostCfg struct {
	Script struct {
		Paths struct {
			ProgressDir string `mapstructure:"progress_dir" yaml:"progress_dir" json:"progress_dir"`
		} `mapstructure:"paths" yaml:"paths" json:"paths"`
		JusoAPI JusoConfig `mapstructure:"juso_api" yaml:"juso_api" json:"juso_api"`
	} `mapstructure:"script" yaml:"script" json:"script"`
}

type CacheCfg struct {
	Backend       string `mapstructure:"backend" yaml:"backend" json:"backend"`
	L1Size        int    `mapstructure:"l1_size" yaml:"l1_size" json:"l1_size"`
	RedisURL      string `mapstructure:"redis_url" yaml:"redis_url" json:"redis_url"`
	MongoURL      string `mapstructure:"mongo_url" yaml:"mongo_url" json:"mongo_url"`
	MongoDatabase string `mapstructure:"mongo_database" yaml:"mongo_database" json:"mongo_database"`
}

// Config cấu hình toàn bộ service
type Config struct {
	App        AppCfg        `mapstructure:"app" yaml:"app" json:"app"`
	InputExcel InputExcelCfg `mapstructure:"input_excel" yaml:"input_excel" json:"input_excel"`
	Epost      EpostCfg      `mapstructure:"epost" yaml:"epost" json:"epost"`
	Cache      CacheCfg      `mapstructure:"cache" yaml:"cache" json:"cache"`
}

// Juso lối tắt tới epost.script.juso_api
func (c *Config) Juso() JusoConfig {
	return c.Epost.Script.JusoAPI
}

// ProgressDir lối tắt tới epost.script.paths.progress_dir
func (c *Config) ProgressDir() string {
	return c.Epost.Script.Paths.ProgressDir
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")

	v.SetDefault("input_excel.path", "data/subjects.xlsx")
	v.SetDefault("input_excel.sheet", "")
	v.SetDefault("input_excel.columns.management_no", "관리번호")
	v.SetDefault("input_excel.columns.subject_name", "성명")
	v.SetDefault("input_excel.columns.pickup_address", "방문접수주소")

	v.SetDefault("epost.script.paths.progress_dir", "progress")
	v.SetDefault("epost.script.juso_api.enabled", false)
	v.SetDefault("epost.script.juso_api.base_url", "https://business.juso.go.kr/addrlink/addrLinkApi.do")
	v.SetDefault("epost.script.juso_api.approval_key_env", "JUSO_CONFM_KEY")
	v.SetDefault("epost.script.juso_api.approval_key_file", "docs/juso_api.md")
	v.SetDefault("epost.script.juso_api.cache_path", "progress/juso_cache.json")
	v.SetDefault("epost.script.juso_api.mode", JusoModeIfNeeded)
	v.SetDefault("epost.script.juso_api.count_per_page", defaultCountPerPage)
	v.SetDefault("epost.script.juso_api.timeout_ms", defaultTimeoutMs)
	v.SetDefault("epost.script.juso_api.result_type", defaultResultType)
	v.SetDefault("epost.script.juso_api.cache_ttl", "0s")

	v.SetDefault("cache.backend", CacheBackendFile)
	v.SetDefault("cache.l1_size", 1000)
	v.SetDefault("cache.redis_url", "redis://localhost:6379/0")
	v.SetDefault("cache.mongo_url", "mongodb://localhost:27017")
	v.SetDefault("cache.mongo_database", "pickup_address")
}

// Load đọc cấu hình: defaults → file YAML → biến môi trường (EPOST_SCRIPT_JUSO_API_MODE, ...).
// path rỗng thì tìm config/app.yaml rồi ./app.yaml; không có file thì chỉ dùng defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("app")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// file chỉ định rõ mà không đọc được là lỗi; tìm mặc định thì bỏ qua
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound || path != "" {
			cfgErr := apperrors.NewConfiguration("config", "cannot read config file "+v.ConfigFileUsed())
			cfgErr.Err = err
			return nil, cfgErr
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, apperrors.NewConfiguration("config", err.Error())
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate chuẩn hóa giá trị và kiểm tra key bắt buộc
func (c *Config) Validate() error {
	j := &c.Epost.Script.JusoAPI

	j.Mode = strings.ToLower(strings.TrimSpace(j.Mode))
	if j.Mode != JusoModeAlways {
		j.Mode = JusoModeIfNeeded
	}
	if j.CountPerPage <= 0 {
		j.CountPerPage = defaultCountPerPage
	}
	if j.CountPerPage > maxCountPerPage {
		j.CountPerPage = maxCountPerPage
	}
	if j.TimeoutMs <= 0 {
		j.TimeoutMs = defaultTimeoutMs
	}
	if strings.TrimSpace(j.ResultType) == "" {
		j.ResultType = defaultResultType
	}
	if j.CacheTTL < 0 {
		j.CacheTTL = 0
	}
	if j.Enabled && strings.TrimSpace(j.BaseURL) == "" {
		return apperrors.NewConfiguration("epost.script.juso_api.base_url", "required when juso api is enabled")
	}

	c.Cache.Backend = strings.ToLower(strings.TrimSpace(c.Cache.Backend))
	switch c.Cache.Backend {
	case "":
		c.Cache.Backend = CacheBackendFile
	case CacheBackendFile, CacheBackendMemory, CacheBackendRedis, CacheBackendMongo:
	default:
		return apperrors.NewConfiguration("cache.backend", "unsupported backend "+c.Cache.Backend)
	}
	if c.Cache.Backend == CacheBackendFile && j.Enabled && strings.TrimSpace(j.CachePath) == "" {
		return apperrors.NewConfiguration("epost.script.juso_api.cache_path", "required for file cache backend")
	}
	if c.Cache.L1Size < 0 {
		c.Cache.L1Size = 0
	}

	if strings.TrimSpace(c.App.Port) == "" {
		c.App.Port = "8080"
	}
	return nil
}

// IsProduction dùng để chọn cấu hình logger
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.App.Env, "production")
}
