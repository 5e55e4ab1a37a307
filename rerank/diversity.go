package rerank

import (
	"context"
	"strings"

	"github.com/rushteam/tripkit/core"
	"github.com/rushteam/tripkit/pipeline"
)

// Diversity 按分组限制每组最多保留 MaxPerGroup 个候选，保持原有顺序（例如同一航司最多 2 个航班）。
// 分组来源优先级：
// - tags[TagKey] 的第一个值（大小写不敏感）
// - label[TagKey].Value
// 取不到分组的候选不受限制。
type Diversity struct {
	TagKey      string // 默认 "airline"
	MaxPerGroup int    // 默认 1
}

func (n *Diversity) Name() string {
	return "rerank.diversity"
}

func (n *Diversity) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *Diversity) Process(
	_ context.Context,
	_ *core.RankContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) == 0 {
		return items, nil
	}

	key := n.TagKey
	if key == "" {
		key = core.TagAirline
	}
	limit := n.MaxPerGroup
	if limit <= 0 {
		limit = 1
	}

	seen := make(map[string]int, 32)
	out := make([]*core.Item, 0, len(items))

	for _, it := range items {
		if it == nil {
			continue
		}

		group := groupOf(it, key)
		if group == "" {
			out = append(out, it)
			continue
		}
		if seen[group] >= limit {
			continue
		}
		seen[group]++
		out = append(out, it)
	}

	return out, nil
}

func groupOf(it *core.Item, key string) string {
	if vals := it.Tag(key); len(vals) > 0 {
		return strings.ToLower(vals[0])
	}
	if it.Labels != nil {
		if lbl, ok := it.Labels[key]; ok {
			return strings.ToLower(lbl.Value)
		}
	}
	return ""
}
