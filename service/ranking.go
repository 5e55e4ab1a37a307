package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rushteam/tripkit/core"
	"github.com/rushteam/tripkit/filter"
	"github.com/rushteam/tripkit/pipeline"
	"github.com/rushteam/tripkit/rank"
)

// RankFlights 对航班排序并提取推荐切片。
//
// 选项合并顺序：preset（请求 > 用户偏好 > 默认）-> 用户保存的选项 -> 请求选项，逐字段覆盖。
// 用户偏好/屏蔽列表读取失败时忽略并记录日志。
func (s *RankingService) RankFlights(ctx context.Context, req *FlightRequest) (*FlightResult, error) {
	start := time.Now()
	res, err := s.rankFlights(ctx, req, uuid.NewString())
	s.observe(DomainFlight, start, res.size(), err)
	return res, err
}

// RankHotels 对酒店排序并提取推荐切片。
func (s *RankingService) RankHotels(ctx context.Context, req *HotelRequest) (*HotelResult, error) {
	start := time.Now()
	res, err := s.rankHotels(ctx, req, uuid.NewString())
	s.observe(DomainHotel, start, res.size(), err)
	return res, err
}

// RankTrip 并发排序航班与酒店，任一失败则整体失败。
func (s *RankingService) RankTrip(ctx context.Context, req *TripRequest) (*TripResult, error) {
	start := time.Now()
	res, err := s.rankTrip(ctx, req)
	size := 0
	if res != nil {
		size = res.Flights.size() + res.Hotels.size()
	}
	s.observe(DomainTrip, start, size, err)
	return res, err
}

func (s *RankingService) rankTrip(ctx context.Context, req *TripRequest) (*TripResult, error) {
	if req == nil || (req.Flights == nil && req.Hotels == nil) {
		return nil, core.InvalidInput(core.ModuleService, "trip request needs flights or hotels")
	}

	rankID := uuid.NewString()
	out := &TripResult{RankID: rankID}
	g, gctx := errgroup.WithContext(ctx)

	if req.Flights != nil {
		fr := *req.Flights
		if fr.UserID == "" {
			fr.UserID = req.UserID
		}
		g.Go(func() error {
			res, err := s.rankFlights(gctx, &fr, rankID)
			if err != nil {
				return err
			}
			out.Flights = res
			return nil
		})
	}
	if req.Hotels != nil {
		hr := *req.Hotels
		if hr.UserID == "" {
			hr.UserID = req.UserID
		}
		g.Go(func() error {
			res, err := s.rankHotels(gctx, &hr, rankID)
			if err != nil {
				return err
			}
			out.Hotels = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *RankingService) rankFlights(ctx context.Context, req *FlightRequest, rankID string) (*FlightResult, error) {
	if req == nil {
		return nil, core.InvalidInput(core.ModuleService, "request is required")
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	prefs := s.loadPreferences(ctx, req.UserID)
	saved := prefs.Preset
	if _, ok := s.presets.Flights[saved]; !ok {
		saved = ""
	}
	preset := firstNonEmpty(req.Preset, saved, s.cfg.DefaultPreset())
	base, err := s.presets.Flight(preset)
	if err != nil {
		return nil, err
	}
	opts := base.Merge(prefs.Flight).Merge(req.Options)
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	rctx := newRankContext(req.UserID, core.SceneFlight, req.Params)
	items := core.FlightItems(req.Flights)
	candidates, ranked, err := s.run(ctx, rctx, items, req.Filter, core.TagAirline, s.flightStages, &rank.FlightNode{Options: opts})
	if err != nil {
		return nil, err
	}

	s.logger.Info("flights ranked",
		zap.String("rank_id", rankID),
		zap.String("user_id", req.UserID),
		zap.String("preset", preset),
		zap.Int("input", len(items)),
		zap.Int("candidates", len(candidates)),
		zap.Int("ranked", len(ranked)),
	)
	return &FlightResult{
		RankID:          rankID,
		Preset:          preset,
		Options:         opts,
		Total:           len(items),
		Items:           ranked,
		Recommendations: rank.RecommendFlights(candidates, ranked, s.topN(req.TopN)),
	}, nil
}

func (s *RankingService) rankHotels(ctx context.Context, req *HotelRequest, rankID string) (*HotelResult, error) {
	if req == nil {
		return nil, core.InvalidInput(core.ModuleService, "request is required")
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	prefs := s.loadPreferences(ctx, req.UserID)
	// 保存的 preset 可能只属于航班（如 fastest），此时忽略
	saved := prefs.Preset
	if _, ok := s.presets.Hotels[saved]; !ok {
		saved = ""
	}
	preset := firstNonEmpty(req.Preset, saved, s.cfg.DefaultPreset())
	base, err := s.presets.Hotel(preset)
	if err != nil {
		return nil, err
	}
	opts := base.Merge(prefs.Hotel).Merge(req.Options)
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	rctx := newRankContext(req.UserID, core.SceneHotel, req.Params)
	items := core.HotelItems(req.Hotels)
	candidates, ranked, err := s.run(ctx, rctx, items, req.Filter, core.TagChain, s.hotelStages, &rank.HotelNode{Options: opts})
	if err != nil {
		return nil, err
	}

	s.logger.Info("hotels ranked",
		zap.String("rank_id", rankID),
		zap.String("user_id", req.UserID),
		zap.String("preset", preset),
		zap.Int("input", len(items)),
		zap.Int("candidates", len(candidates)),
		zap.Int("ranked", len(ranked)),
	)
	return &HotelResult{
		RankID:          rankID,
		Preset:          preset,
		Options:         opts,
		Total:           len(items),
		Items:           ranked,
		Recommendations: rank.RecommendHotels(candidates, ranked, s.topN(req.TopN)),
	}, nil
}

// run 执行 filter 阶段得到候选集（未打分），再执行 rank + rerank 阶段。
// 推荐切片基于候选集计算，与综合排序结果无关。
func (s *RankingService) run(
	ctx context.Context,
	rctx *core.RankContext,
	items []*core.Item,
	expr string,
	blockTag string,
	stages *pipeline.Pipeline,
	ranker pipeline.Node,
) (candidates, ranked []*core.Item, err error) {
	filters := make([]filter.Filter, 0, 2)
	if s.store != nil && rctx.UserID != "" {
		filters = append(filters, filter.NewBlocklistFilter(blockTag, nil, filter.NewStoreAdapter(s.store), BlockKeyPrefix))
	}
	if expr != "" {
		f, err := filter.NewExprFilter(expr)
		if err != nil {
			return nil, nil, err
		}
		filters = append(filters, f)
	}

	pre := &pipeline.Pipeline{
		Nodes: []pipeline.Node{&filter.FilterNode{Filters: filters, Logger: s.logger}},
		Hooks: s.hooks,
	}
	pre = pre.Append(stages.Only(pipeline.KindFilter).Nodes...)

	candidates, err = pre.Run(ctx, rctx, items)
	if err != nil {
		return nil, nil, wrapRunErr(err)
	}

	post := &pipeline.Pipeline{Nodes: []pipeline.Node{ranker}, Hooks: s.hooks}
	post = post.Append(stages.Only(pipeline.KindReRank, pipeline.KindPostProcess).Nodes...)

	ranked, err = post.Run(ctx, rctx, candidates)
	if err != nil {
		return nil, nil, wrapRunErr(err)
	}
	return candidates, ranked, nil
}

func wrapRunErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return core.WrapDomainError(core.ModuleService, core.ErrorCodeUnavailable, "ranking aborted", err)
	}
	return err
}

func newRankContext(userID, scene string, params map[string]any) *core.RankContext {
	p := make(map[string]any, len(params))
	for k, v := range params {
		p[k] = v
	}
	// 排序选项只能通过 options 字段传入
	delete(p, rank.ParamFlightOptions)
	delete(p, rank.ParamHotelOptions)
	return &core.RankContext{UserID: userID, Scene: scene, Params: p}
}

func (s *RankingService) observe(domain string, start time.Time, items int, err error) {
	s.metrics.ObserveRank(domain, time.Since(start), items, err)
	if err != nil {
		s.logger.Warn("ranking failed", zap.String("domain", domain), zap.Error(err))
	}
}

func (r *FlightResult) size() int {
	if r == nil {
		return 0
	}
	return len(r.Items)
}

func (r *HotelResult) size() int {
	if r == nil {
		return 0
	}
	return len(r.Items)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
