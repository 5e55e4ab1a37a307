package filter

import (
	"context"

	"github.com/rushteam/tripkit/core"
	"github.com/rushteam/tripkit/pkg/dsl"
)

// ExprFilter 用 CEL 表达式过滤，表达式为 true 时移除该 Item。
//
// 示例：
//   - `item.features.price > 800.0`
//   - `item.features.stops >= 2.0 && item.features.duration > 720.0`
//   - `has(rctx.params.budget) && item.features.price > rctx.params.budget`
type ExprFilter struct {
	program *dsl.Program
}

// NewExprFilter 编译表达式，语法错误时返回 INVALID_INPUT。
func NewExprFilter(expr string) (*ExprFilter, error) {
	p, err := dsl.Compile(expr)
	if err != nil {
		return nil, core.WrapDomainError(core.ModuleConfig, core.ErrorCodeInvalidInput, "invalid filter expression", err)
	}
	return &ExprFilter{program: p}, nil
}

func (f *ExprFilter) Name() string {
	return "filter.expr"
}

// Expr 返回原始表达式。
func (f *ExprFilter) Expr() string {
	return f.program.Expr()
}

func (f *ExprFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RankContext,
	item *core.Item,
) (bool, error) {
	return f.program.Match(item, rctx)
}
