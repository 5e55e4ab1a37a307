package rank

import (
	"context"

	"github.com/rushteam/tripkit/core"
	"github.com/rushteam/tripkit/model"
	"github.com/rushteam/tripkit/pipeline"
	"github.com/rushteam/tripkit/pkg/utils"
)

// FlightNode 是航班排序 Node。
// Options 为节点默认选项；RankContext.Params[ParamFlightOptions]（FlightOptions）逐字段覆盖。
type FlightNode struct {
	Options FlightOptions
}

func (n *FlightNode) Name() string        { return "rank.flight" }
func (n *FlightNode) Kind() pipeline.Kind { return pipeline.KindRank }

func (n *FlightNode) Process(
	_ context.Context,
	rctx *core.RankContext,
	items []*core.Item,
) ([]*core.Item, error) {
	opts := n.Options
	if v, ok := rctx.Param(ParamFlightOptions); ok {
		if override, ok := v.(FlightOptions); ok {
			opts = opts.Merge(override)
		}
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return RankFlights(items, opts), nil
}

// HotelNode 是酒店排序 Node。
// Options 为节点默认选项；RankContext.Params[ParamHotelOptions]（HotelOptions）逐字段覆盖。
type HotelNode struct {
	Options HotelOptions
}

func (n *HotelNode) Name() string        { return "rank.hotel" }
func (n *HotelNode) Kind() pipeline.Kind { return pipeline.KindRank }

func (n *HotelNode) Process(
	_ context.Context,
	rctx *core.RankContext,
	items []*core.Item,
) ([]*core.Item, error) {
	opts := n.Options
	if v, ok := rctx.Param(ParamHotelOptions); ok {
		if override, ok := v.(HotelOptions); ok {
			opts = opts.Merge(override)
		}
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return RankHotels(items, opts), nil
}

// ModelNode 直接用 RankModel 对 item 的原始特征打分（例如离线训练得到的 LR 权重）。
// - 写入 labels：rank_model
// - 在克隆上更新 Score 并按分数降序排序
type ModelNode struct {
	Model model.RankModel
}

func (n *ModelNode) Name() string        { return "rank.model" }
func (n *ModelNode) Kind() pipeline.Kind { return pipeline.KindRank }

func (n *ModelNode) Process(
	_ context.Context,
	_ *core.RankContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if n.Model == nil || len(items) == 0 {
		return items, nil
	}

	out := make([]*core.Item, 0, len(items))
	for _, src := range items {
		if src == nil {
			continue
		}
		it := src.Clone()
		score, err := n.Model.Predict(it.Features)
		if err != nil {
			return nil, err
		}
		it.Score = score
		it.PutLabel("rank_model", utils.Label{Value: n.Model.Name(), Source: "rank"})
		out = append(out, it)
	}

	SortByScore(out)
	return out, nil
}
