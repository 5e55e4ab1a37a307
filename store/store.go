// Package store 提供 core.Store / core.SetStore 的实现：内存、Redis，以及熔断包装。
//
// 注意：此包只包含实现，接口定义在 core 包。
//
// 示例：
//
//	var s core.SetStore = store.NewMemoryStore()
//	s = store.NewBreakerStore(s, store.BreakerConfig{}, logger)
package store

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/rushteam/tripkit/core"
)

// 后端类型。
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Config 是存储后端配置（koanf 的 store 段）。
type Config struct {
	Backend string        `koanf:"backend"`
	Redis   RedisConfig   `koanf:"redis"`
	Breaker BreakerConfig `koanf:"breaker"`
}

// New 按配置创建存储；Breaker.Enabled 时包一层熔断。
func New(cfg Config, logger *zap.Logger) (core.SetStore, error) {
	var s core.SetStore
	switch cfg.Backend {
	case "", BackendMemory:
		s = NewMemoryStore()
	case BackendRedis:
		rs, err := NewRedisStore(cfg.Redis)
		if err != nil {
			return nil, err
		}
		s = rs
	default:
		return nil, core.NewDomainError(core.ModuleConfig, core.ErrorCodeNotSupported,
			fmt.Sprintf("unknown store backend %q (supported: [%s %s])", cfg.Backend, BackendMemory, BackendRedis))
	}

	if cfg.Breaker.Enabled {
		s = NewBreakerStore(s, cfg.Breaker, logger)
	}
	return s, nil
}
