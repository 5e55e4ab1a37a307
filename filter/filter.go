package filter

import (
	"context"

	"github.com/rushteam/tripkit/core"
)

// Filter 是过滤器的抽象接口，用于判断一个 Item 是否应该被过滤掉。
// 返回 true 表示应该过滤（移除），false 表示保留。
type Filter interface {
	// Name 返回过滤器名称
	Name() string

	// ShouldFilter 判断 item 是否应该被过滤
	ShouldFilter(ctx context.Context, rctx *core.RankContext, item *core.Item) (bool, error)
}

// Preparer 是可选接口：需要按请求加载外部数据的过滤器（例如用户屏蔽列表）
// 在处理一批 items 之前被调用一次，返回绑定了本次请求数据的 Filter。
// 返回 error 时若 Filter 非 nil，仍以降级后的 Filter 参与过滤。
type Preparer interface {
	Prepare(ctx context.Context, rctx *core.RankContext) (Filter, error)
}
