package rerank

import (
	"context"

	"github.com/rushteam/tripkit/core"
	"github.com/rushteam/tripkit/pipeline"
)

// TopNNode 是一个 Top-N 截断节点，用于在排序后截取前 N 个候选。
// 通常在排序（Rank）节点之后使用，用于限制返回结果数量。
//
// 示例：
//
//	pipeline := &pipeline.Pipeline{
//	    Nodes: []pipeline.Node{
//	        &rank.FlightNode{},                              // 排序
//	        &rerank.Diversity{TagKey: "airline", MaxPerGroup: 2}, // 每家航司最多 2 个
//	        &rerank.TopNNode{N: 20},                         // 截取 Top 20
//	    },
//	}
type TopNNode struct {
	// N 要保留的数量
	// 如果 N <= 0，则返回全部（不截断）
	// 如果 N > len(items)，则返回全部
	N int
}

func (n *TopNNode) Name() string {
	return "rerank.topn"
}

func (n *TopNNode) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *TopNNode) Process(
	_ context.Context,
	_ *core.RankContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if n.N <= 0 || len(items) <= n.N {
		return items, nil
	}
	return items[:n.N], nil
}
