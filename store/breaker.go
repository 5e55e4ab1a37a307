package store

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"github.com/rushteam/tripkit/core"
)

// BreakerConfig 是熔断配置。
type BreakerConfig struct {
	Enabled bool `koanf:"enabled"`

	// MaxRequests 是半开状态允许通过的请求数
	MaxRequests uint32 `koanf:"max_requests"`

	// Interval 是闭合状态下计数清零的周期
	Interval time.Duration `koanf:"interval"`

	// Timeout 是打开状态持续的时间，之后进入半开
	Timeout time.Duration `koanf:"timeout"`

	// FailureThreshold 是连续失败多少次后打开熔断，默认 5
	FailureThreshold uint32 `koanf:"failure_threshold"`
}

// BreakerStore 为任意 SetStore 加熔断：连续失败达到阈值后快速失败，返回 ErrStoreUnavailable。
// key 不存在（ErrStoreNotFound）不计为失败。
type BreakerStore struct {
	next core.SetStore
	cb   *gobreaker.CircuitBreaker[any]
}

// NewBreakerStore 创建熔断包装。
func NewBreakerStore(next core.SetStore, cfg BreakerConfig, logger *zap.Logger) *BreakerStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	threshold := cfg.FailureThreshold
	if threshold == 0 {
		threshold = 5
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	settings := gobreaker.Settings{
		Name:        "store." + next.Name(),
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		IsSuccessful: func(err error) bool {
			return err == nil || core.IsStoreNotFound(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	}
	return &BreakerStore{
		next: next,
		cb:   gobreaker.NewCircuitBreaker[any](settings),
	}
}

// State 返回当前熔断状态。
func (b *BreakerStore) State() gobreaker.State {
	return b.cb.State()
}

func (b *BreakerStore) Name() string { return b.next.Name() }

func (b *BreakerStore) Get(ctx context.Context, key string) ([]byte, error) {
	v, err := b.execute(func() (any, error) { return b.next.Get(ctx, key) })
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

func (b *BreakerStore) Set(ctx context.Context, key string, value []byte, ttl ...int) error {
	_, err := b.execute(func() (any, error) { return nil, b.next.Set(ctx, key, value, ttl...) })
	return err
}

func (b *BreakerStore) Delete(ctx context.Context, key string) error {
	_, err := b.execute(func() (any, error) { return nil, b.next.Delete(ctx, key) })
	return err
}

func (b *BreakerStore) BatchGet(ctx context.Context, keys []string) (map[string][]byte, error) {
	v, err := b.execute(func() (any, error) { return b.next.BatchGet(ctx, keys) })
	if err != nil {
		return nil, err
	}
	return v.(map[string][]byte), nil
}

func (b *BreakerStore) BatchSet(ctx context.Context, kvs map[string][]byte, ttl ...int) error {
	_, err := b.execute(func() (any, error) { return nil, b.next.BatchSet(ctx, kvs, ttl...) })
	return err
}

func (b *BreakerStore) SAdd(ctx context.Context, key string, members ...string) error {
	_, err := b.execute(func() (any, error) { return nil, b.next.SAdd(ctx, key, members...) })
	return err
}

func (b *BreakerStore) SRem(ctx context.Context, key string, members ...string) error {
	_, err := b.execute(func() (any, error) { return nil, b.next.SRem(ctx, key, members...) })
	return err
}

func (b *BreakerStore) SMembers(ctx context.Context, key string) ([]string, error) {
	v, err := b.execute(func() (any, error) { return b.next.SMembers(ctx, key) })
	if err != nil {
		return nil, err
	}
	return v.([]string), nil
}

func (b *BreakerStore) Close() error {
	return b.next.Close()
}

func (b *BreakerStore) execute(fn func() (any, error)) (any, error) {
	v, err := b.cb.Execute(fn)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, core.WrapDomainError(core.ModuleStore, core.ErrorCodeUnavailable, "store: circuit open", err)
	}
	return v, err
}

var _ core.SetStore = (*BreakerStore)(nil)
