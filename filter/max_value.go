package filter

import (
	"context"

	"github.com/rushteam/tripkit/core"
	"github.com/rushteam/tripkit/pkg/conv"
)

// MaxValueFilter 移除某个数值特征超过上限的 Item（例如预算过滤）。
// 上限优先取 rctx.Params[Param]，其次取 Max；两者都没有（Max <= 0）时不过滤。
// 缺少该特征的 Item 保留。
type MaxValueFilter struct {
	Feature string
	Max     float64
	Param   string
}

func (f *MaxValueFilter) Name() string {
	return "filter.max_" + f.Feature
}

func (f *MaxValueFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RankContext,
	item *core.Item,
) (bool, error) {
	limit := f.Max
	if f.Param != "" {
		if v, ok := rctx.Param(f.Param); ok {
			if p, ok := conv.ToFloat64(v); ok {
				limit = p
			}
		}
	}
	if limit <= 0 {
		return false, nil
	}

	v, ok := item.Feature(f.Feature)
	if !ok {
		return false, nil
	}
	return v > limit, nil
}
