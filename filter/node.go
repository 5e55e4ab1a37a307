package filter

import (
	"context"

	"go.uber.org/zap"

	"github.com/rushteam/tripkit/core"
	"github.com/rushteam/tripkit/pipeline"
)

// FilterNode 是过滤 Node，可以组合多个过滤器进行过滤。
// 如果任何一个过滤器返回 true，该物品就会被过滤掉。
// 过滤器出错（包括 Prepare 出错）时记录日志并视为不过滤。
type FilterNode struct {
	Filters []Filter
	Logger  *zap.Logger
}

func (n *FilterNode) Name() string {
	return "filter.node"
}

func (n *FilterNode) Kind() pipeline.Kind {
	return pipeline.KindFilter
}

func (n *FilterNode) Process(
	ctx context.Context,
	rctx *core.RankContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(n.Filters) == 0 || len(items) == 0 {
		return items, nil
	}

	filters := n.prepare(ctx, rctx)
	out := make([]*core.Item, 0, len(items))
	dropped := make(map[string]int)

	for _, item := range items {
		if item == nil {
			continue
		}

		reason := ""
		for _, f := range filters {
			ok, err := f.ShouldFilter(ctx, rctx, item)
			if err != nil {
				n.logger().Warn("filter failed", zap.String("filter", f.Name()), zap.String("item", item.ID), zap.Error(err))
				continue
			}
			if ok {
				reason = f.Name()
				break
			}
		}

		if reason != "" {
			dropped[reason]++
			continue
		}
		out = append(out, item)
	}

	if len(dropped) > 0 {
		n.logger().Debug("items filtered", zap.Any("by_filter", dropped), zap.Int("kept", len(out)))
	}
	return out, nil
}

func (n *FilterNode) prepare(ctx context.Context, rctx *core.RankContext) []Filter {
	filters := make([]Filter, 0, len(n.Filters))
	for _, f := range n.Filters {
		p, ok := f.(Preparer)
		if !ok {
			filters = append(filters, f)
			continue
		}
		bound, err := p.Prepare(ctx, rctx)
		if err != nil {
			n.logger().Warn("filter prepare failed", zap.String("filter", f.Name()), zap.Error(err))
		}
		if bound != nil {
			filters = append(filters, bound)
		}
	}
	return filters
}

func (n *FilterNode) logger() *zap.Logger {
	if n.Logger == nil {
		return zap.NewNop()
	}
	return n.Logger
}

// BindStore 为未配置 Store 的屏蔽过滤器注入用户屏蔽列表存储（配置构建的过滤器只含静态值）。
func (n *FilterNode) BindStore(a *StoreAdapter) {
	if a == nil {
		return
	}
	for _, f := range n.Filters {
		if bf, ok := f.(*BlocklistFilter); ok && bf.Store == nil {
			bf.Store = a
		}
	}
}
