package filter

import (
	"context"
	"encoding/json"

	"github.com/rushteam/tripkit/core"
)

// StoreAdapter 将 core.Store 适配为过滤器所需的存储接口。
// 底层实现 core.SetStore 时使用集合读取，否则按 JSON 字符串数组读取单个 key。
type StoreAdapter struct {
	store core.Store
}

// NewStoreAdapter 创建一个 core.Store 适配器。
func NewStoreAdapter(s core.Store) *StoreAdapter {
	return &StoreAdapter{store: s}
}

// GetList 读取 key 对应的值列表。
func (a *StoreAdapter) GetList(ctx context.Context, key string) ([]string, error) {
	if ss, ok := a.store.(core.SetStore); ok {
		return ss.SMembers(ctx, key)
	}

	data, err := a.store.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	var values []string
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, core.WrapDomainError(core.ModuleStore, core.ErrorCodeInternalError, "decode list "+key, err)
	}
	return values, nil
}

// GetUserBlocks 从 Store 读取用户屏蔽列表。
func (a *StoreAdapter) GetUserBlocks(ctx context.Context, userID string, keyPrefix string) ([]string, error) {
	return a.GetList(ctx, keyPrefix+":"+userID)
}
