package filter

import (
	"context"
	"strings"

	"github.com/rushteam/tripkit/core"
)

// DefaultBlockKeyPrefix 是用户屏蔽列表在 Store 中的默认 key 前缀，实际 key 为 {prefix}:{userID}。
const DefaultBlockKeyPrefix = "user:block"

// BlocklistFilter 过滤掉 ID 或指定标签值命中屏蔽列表的 Item（大小写不敏感）。
// 屏蔽列表由两部分组成：静态配置 Values，以及 Store 中的用户屏蔽集合。
type BlocklistFilter struct {
	// TagKey 是参与匹配的标签，例如 airline / chain；为空时只匹配 Item.ID
	TagKey string

	// Values 是静态屏蔽值
	Values []string

	// Store 用于读取用户屏蔽列表（可选）
	Store BlocklistStore

	// KeyPrefix 是 Store 中的 key 前缀，默认 DefaultBlockKeyPrefix
	KeyPrefix string

	blocked map[string]struct{}
}

// BlocklistStore 是用户屏蔽列表存储接口。
type BlocklistStore interface {
	// GetUserBlocks 获取用户屏蔽的值列表
	GetUserBlocks(ctx context.Context, userID string, keyPrefix string) ([]string, error)
}

// NewBlocklistFilter 创建一个屏蔽过滤器；storeAdapter 为 nil 时只使用静态 values。
func NewBlocklistFilter(tagKey string, values []string, storeAdapter *StoreAdapter, keyPrefix string) *BlocklistFilter {
	var store BlocklistStore
	if storeAdapter != nil {
		store = storeAdapter
	}
	return &BlocklistFilter{
		TagKey:    tagKey,
		Values:    values,
		Store:     store,
		KeyPrefix: keyPrefix,
	}
}

func (f *BlocklistFilter) Name() string {
	return "filter.blocklist"
}

// Prepare 读取一次用户屏蔽列表，返回绑定了本次请求屏蔽集合的过滤器。
// 读取失败时返回只含静态 Values 的过滤器和该错误。
func (f *BlocklistFilter) Prepare(ctx context.Context, rctx *core.RankContext) (Filter, error) {
	values := append([]string(nil), f.Values...)
	var loadErr error
	if f.Store != nil && rctx != nil && rctx.UserID != "" {
		userValues, err := f.Store.GetUserBlocks(ctx, rctx.UserID, f.keyPrefix())
		switch {
		case err == nil:
			values = append(values, userValues...)
		case !core.IsStoreNotFound(err):
			loadErr = err
		}
	}

	bound := *f
	bound.Store = nil
	bound.blocked = make(map[string]struct{}, len(values))
	for _, v := range values {
		bound.blocked[strings.ToLower(v)] = struct{}{}
	}
	return &bound, loadErr
}

func (f *BlocklistFilter) ShouldFilter(
	ctx context.Context,
	rctx *core.RankContext,
	item *core.Item,
) (bool, error) {
	if item == nil {
		return true, nil
	}

	blocked := f.blocked
	if blocked == nil {
		bound, err := f.Prepare(ctx, rctx)
		if err != nil {
			return false, err
		}
		blocked = bound.(*BlocklistFilter).blocked
	}
	if len(blocked) == 0 {
		return false, nil
	}

	if _, ok := blocked[strings.ToLower(item.ID)]; ok {
		return true, nil
	}
	if f.TagKey == "" {
		return false, nil
	}
	for _, v := range item.Tag(f.TagKey) {
		if _, ok := blocked[strings.ToLower(v)]; ok {
			return true, nil
		}
	}
	return false, nil
}

func (f *BlocklistFilter) keyPrefix() string {
	if f.KeyPrefix == "" {
		return DefaultBlockKeyPrefix
	}
	return f.KeyPrefix
}
