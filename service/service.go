// Package service 把排序算法、过滤/重排 Pipeline 与用户偏好存储组合成排序服务。
package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/rushteam/tripkit/core"
	"github.com/rushteam/tripkit/filter"
	"github.com/rushteam/tripkit/pipeline"
	"github.com/rushteam/tripkit/rank"
)

// 领域名，用于指标与日志。
const (
	DomainFlight = "flight"
	DomainHotel  = "hotel"
	DomainTrip   = "trip"
)

// Store 中的 key 前缀。
const (
	PrefsKeyPrefix = "user:prefs"
	BlockKeyPrefix = filter.DefaultBlockKeyPrefix
)

// RankingService 是排序服务，并发安全。
type RankingService struct {
	store   core.SetStore
	presets *rank.PresetBook
	cfg     core.RankConfig
	logger  *zap.Logger
	metrics *Metrics
	hooks   []pipeline.PipelineHook

	flightStages *pipeline.Pipeline
	hotelStages  *pipeline.Pipeline
}

// Option 配置 RankingService。
type Option func(*RankingService)

// WithLogger 设置 Logger。
func WithLogger(logger *zap.Logger) Option {
	return func(s *RankingService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics 设置指标，同时为 Pipeline 加上 Node 耗时 Hook。
func WithMetrics(m *Metrics) Option {
	return func(s *RankingService) {
		s.metrics = m
	}
}

// WithPresets 设置权重预设集合。
func WithPresets(book *rank.PresetBook) Option {
	return func(s *RankingService) {
		if book != nil {
			s.presets = book
		}
	}
}

// WithRankConfig 设置默认 TopN / preset / 超时。
func WithRankConfig(cfg core.RankConfig) Option {
	return func(s *RankingService) {
		if cfg != nil {
			s.cfg = cfg
		}
	}
}

// WithFlightStages 设置航班的额外过滤/重排阶段（其中的 rank 阶段 Node 被忽略）。
func WithFlightStages(p *pipeline.Pipeline) Option {
	return func(s *RankingService) {
		s.flightStages = p
	}
}

// WithHotelStages 设置酒店的额外过滤/重排阶段（其中的 rank 阶段 Node 被忽略）。
func WithHotelStages(p *pipeline.Pipeline) Option {
	return func(s *RankingService) {
		s.hotelStages = p
	}
}

// New 创建排序服务。store 为 nil 时偏好与屏蔽列表功能不可用（NOT_SUPPORTED），排序照常工作。
func New(store core.SetStore, opts ...Option) *RankingService {
	s := &RankingService{
		store:   store,
		presets: rank.DefaultPresetBook(),
		cfg:     &core.DefaultRankConfig{},
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.hooks = []pipeline.PipelineHook{pipeline.NewLoggingHook(s.logger)}
	if s.metrics != nil {
		s.hooks = append(s.hooks, s.metrics.Hook())
	}
	s.flightStages = s.prepareStages(s.flightStages)
	s.hotelStages = s.prepareStages(s.hotelStages)
	return s
}

// Presets 返回当前使用的预设集合。
func (s *RankingService) Presets() *rank.PresetBook {
	return s.presets
}

// prepareStages 为配置构建的屏蔽过滤器注入 Store，并统一 Hooks。
func (s *RankingService) prepareStages(p *pipeline.Pipeline) *pipeline.Pipeline {
	if p == nil {
		return &pipeline.Pipeline{Hooks: s.hooks}
	}
	var adapter *filter.StoreAdapter
	if s.store != nil {
		adapter = filter.NewStoreAdapter(s.store)
	}
	for _, n := range p.Nodes {
		if fn, ok := n.(*filter.FilterNode); ok {
			fn.BindStore(adapter)
			if fn.Logger == nil {
				fn.Logger = s.logger
			}
		}
	}
	return &pipeline.Pipeline{Nodes: p.Nodes, Hooks: s.hooks}
}

func (s *RankingService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if d := s.cfg.DefaultTimeout(); d > 0 {
		return context.WithTimeout(ctx, d)
	}
	return context.WithCancel(ctx)
}

func (s *RankingService) topN(n int) int {
	if n > 0 {
		return n
	}
	return s.cfg.DefaultTopN()
}

func (s *RankingService) requireStore(userID string) error {
	if userID == "" {
		return core.InvalidInput(core.ModuleService, "user id is required")
	}
	if s.store == nil {
		return core.NewDomainError(core.ModuleService, core.ErrorCodeNotSupported, "no store configured")
	}
	return nil
}
