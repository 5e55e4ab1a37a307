package core

import "github.com/rushteam/tripkit/pkg/utils"

// 场景（Scene）取值。
const (
	SceneFlight = "flight"
	SceneHotel  = "hotel"
)

// RankContext 承载用户/场景/请求参数，贯穿整个 Pipeline 透传。
type RankContext struct {
	UserID string
	Scene  string // flight / hotel

	// Labels 是用户级标签，可驱动整个 Pipeline 行为
	// 例如：商务出行、价格敏感等
	Labels map[string]utils.Label

	// Params 请求级上下文参数，例如：
	// - flight_options / hotel_options：本次请求的排序选项（覆盖节点默认值）
	// - budget、currency 等业务参数，可在 CEL 过滤表达式中通过 rctx.params 访问
	Params map[string]any
}

// Param 读取请求参数。
func (rctx *RankContext) Param(key string) (any, bool) {
	if rctx == nil || rctx.Params == nil {
		return nil, false
	}
	v, ok := rctx.Params[key]
	return v, ok
}

// PutLabel 写入用户级 Label。
func (rctx *RankContext) PutLabel(key string, lbl utils.Label) {
	if rctx.Labels == nil {
		rctx.Labels = make(map[string]utils.Label)
	}
	if old, ok := rctx.Labels[key]; ok {
		rctx.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	rctx.Labels[key] = lbl
}

// GetLabel 获取用户级 Label。
func (rctx *RankContext) GetLabel(key string) (utils.Label, bool) {
	if rctx.Labels == nil {
		return utils.Label{}, false
	}
	lbl, ok := rctx.Labels[key]
	return lbl, ok
}
