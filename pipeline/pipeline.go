package pipeline

import (
	"context"
	"fmt"
	"slices"

	"github.com/rushteam/tripkit/core"
)

// PipelineHook 在每个 Node 执行前后被调用，可用于日志、打点或改写 items。
// BeforeNode 返回的 items 作为该 Node 的输入；AfterNode 返回的 (items, err) 作为该 Node 的输出。
type PipelineHook interface {
	BeforeNode(ctx context.Context, rctx *core.RankContext, node Node, items []*core.Item) ([]*core.Item, error)
	AfterNode(ctx context.Context, rctx *core.RankContext, node Node, items []*core.Item, err error) ([]*core.Item, error)
}

// Pipeline 把排序逻辑拆成可组合的 Node 链：filter -> rank -> rerank -> postprocess。
type Pipeline struct {
	Nodes []Node
	Hooks []PipelineHook
}

// Run 依次执行各 Node。ctx 被取消时在下一个 Node 开始前返回 ctx.Err()。
func (p *Pipeline) Run(
	ctx context.Context,
	rctx *core.RankContext,
	items []*core.Item,
) ([]*core.Item, error) {
	cur := items
	for _, node := range p.Nodes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		in := cur
		for i, h := range p.Hooks {
			var err error
			in, err = h.BeforeNode(ctx, rctx, node, in)
			if err != nil {
				err = fmt.Errorf("hook before %s: %w", node.Name(), err)
				// 已执行 BeforeNode 的 Hook 同样收到 AfterNode
				for _, done := range p.Hooks[:i] {
					_, _ = done.AfterNode(ctx, rctx, node, nil, err)
				}
				return nil, err
			}
		}

		next, err := node.Process(ctx, rctx, in)
		for _, h := range p.Hooks {
			next, err = h.AfterNode(ctx, rctx, node, next, err)
		}
		if err != nil {
			return nil, fmt.Errorf("node %s: %w", node.Name(), err)
		}
		cur = next
	}
	return cur, nil
}

// Only 返回只包含指定阶段 Node 的子 Pipeline（共享 Hooks）。
func (p *Pipeline) Only(kinds ...Kind) *Pipeline {
	nodes := make([]Node, 0, len(p.Nodes))
	for _, n := range p.Nodes {
		if slices.Contains(kinds, n.Kind()) {
			nodes = append(nodes, n)
		}
	}
	return &Pipeline{Nodes: nodes, Hooks: p.Hooks}
}

// Append 返回在末尾追加 nodes 后的新 Pipeline，不修改 p。
func (p *Pipeline) Append(nodes ...Node) *Pipeline {
	all := make([]Node, 0, len(p.Nodes)+len(nodes))
	all = append(all, p.Nodes...)
	all = append(all, nodes...)
	return &Pipeline{Nodes: all, Hooks: p.Hooks}
}
