package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/rushteam/tripkit/core"
	"github.com/rushteam/tripkit/pkg/logging"
	"github.com/rushteam/tripkit/store"
)

// EnvPrefix 是环境变量前缀：TRIPKIT_SERVER_PORT -> server.port。
const EnvPrefix = "TRIPKIT_"

// AppConfig 是进程级配置。
//
// 优先级（高到低）：
//  1. 环境变量（TRIPKIT_SERVER_PORT、TRIPKIT_STORE_REDIS_ADDR 等）
//  2. YAML 配置文件
//  3. 默认值
type AppConfig struct {
	Server  ServerConfig   `koanf:"server"`
	Log     logging.Config `koanf:"log"`
	Store   store.Config   `koanf:"store"`
	Ranking RankingConfig  `koanf:"ranking"`
}

// ServerConfig 是 HTTP 服务配置。
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// Addr 返回监听地址。
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// RankingConfig 是排序相关配置，实现 core.RankConfig。
type RankingConfig struct {
	TopN           int           `koanf:"top_n"`
	Preset         string        `koanf:"preset"`
	Timeout        time.Duration `koanf:"timeout"`
	PresetsFile    string        `koanf:"presets_file"`    // 额外的预设 YAML，可选
	FlightPipeline string        `koanf:"flight_pipeline"` // 航班过滤/重排阶段的 Pipeline 配置，可选
	HotelPipeline  string        `koanf:"hotel_pipeline"`  // 酒店过滤/重排阶段的 Pipeline 配置，可选
}

func (c RankingConfig) DefaultTopN() int              { return c.TopN }
func (c RankingConfig) DefaultPreset() string         { return c.Preset }
func (c RankingConfig) DefaultTimeout() time.Duration { return c.Timeout }

var _ core.RankConfig = RankingConfig{}

// DefaultAppConfig 返回默认配置。
func DefaultAppConfig() *AppConfig {
	def := &core.DefaultRankConfig{}
	return &AppConfig{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Log:   logging.DefaultConfig(),
		Store: store.Config{Backend: store.BackendMemory},
		Ranking: RankingConfig{
			TopN:    def.DefaultTopN(),
			Preset:  def.DefaultPreset(),
			Timeout: def.DefaultTimeout(),
		},
	}
}

// Load 从 YAML 文件（path 为空则跳过）与环境变量加载配置，并补齐默认值、校验。
func Load(path string) (*AppConfig, error) {
	k := koanf.New(".")

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file %s: %w", path, err)
		}
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load environment variables: %w", err)
	}

	cfg := DefaultAppConfig()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	applyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// nestedSections 是二级配置段，环境变量中需要多切一次：
// TRIPKIT_STORE_REDIS_ADDR -> store.redis.addr
var nestedSections = map[string][]string{
	"store": {"redis", "breaker"},
}

// envKey 把 TRIPKIT_SECTION_FIELD_NAME 映射为 section.field_name。
func envKey(s string) string {
	lower := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	section, field, ok := strings.Cut(lower, "_")
	if !ok {
		return lower
	}
	for _, sub := range nestedSections[section] {
		if rest, ok := strings.CutPrefix(field, sub+"_"); ok {
			return section + "." + sub + "." + rest
		}
	}
	return section + "." + field
}

func applyDefaults(cfg *AppConfig) {
	def := DefaultAppConfig()
	if cfg.Server.Port == 0 {
		cfg.Server.Port = def.Server.Port
	}
	if cfg.Server.ShutdownTimeout <= 0 {
		cfg.Server.ShutdownTimeout = def.Server.ShutdownTimeout
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = def.Log.Level
	}
	if cfg.Store.Backend == "" {
		cfg.Store.Backend = store.BackendMemory
	}
	if cfg.Ranking.TopN <= 0 {
		cfg.Ranking.TopN = def.Ranking.TopN
	}
	if cfg.Ranking.Preset == "" {
		cfg.Ranking.Preset = def.Ranking.Preset
	}
	if cfg.Ranking.Timeout <= 0 {
		cfg.Ranking.Timeout = def.Ranking.Timeout
	}
}

// Validate 校验配置。
func (c *AppConfig) Validate() error {
	var errs []error
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}
	if err := c.Log.Validate(); err != nil {
		errs = append(errs, err)
	}
	switch c.Store.Backend {
	case store.BackendMemory:
	case store.BackendRedis:
		if c.Store.Redis.Addr == "" {
			errs = append(errs, errors.New("store.redis.addr is required for redis backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown store.backend %q", c.Store.Backend))
	}
	if err := errors.Join(errs...); err != nil {
		return core.WrapDomainError(core.ModuleConfig, core.ErrorCodeInvalidInput, "invalid config", err)
	}
	return nil
}
