package core

import "github.com/rushteam/tripkit/pkg/utils"

// 常用特征 key。Flight/Hotel 转换为 Item 时写入 Features，打分器按 key 读取。
const (
	FeaturePrice            = "price"             // 价格（机票总价 / 酒店每晚价格）
	FeatureDuration         = "duration"          // 飞行时长（分钟）
	FeatureStops            = "stops"             // 经停次数
	FeatureDepartureHour    = "departure_hour"    // 起飞时刻（小时，含小数）
	FeatureSeats            = "seats"             // 可订座位数
	FeatureDistance         = "distance"          // 距目标位置距离（公里）
	FeatureRating           = "rating"            // 星级（0-5）
	FeatureAmenityCount     = "amenity_count"     // 设施数量
	FeatureFreeCancellation = "free_cancellation" // 是否可免费取消（1/0）
)

// 常用标签（类别属性）key。
const (
	TagAirline   = "airline"
	TagAmenities = "amenities"
	TagChain     = "chain"
)

// Item 是排序链路中的统一承载结构：数值特征、类别标签、分数、分项得分、元信息。
// Features/Tags 由调用方提供，打分器只读；Score/Breakdown 由排序阶段写入克隆后的 Item。
type Item struct {
	ID        string                 `json:"id"`
	Score     float64                `json:"score"`
	Features  map[string]float64     `json:"features"`
	Tags      map[string][]string    `json:"tags,omitempty"`
	Breakdown map[string]float64     `json:"scoreBreakdown,omitempty"`
	Meta      map[string]any         `json:"meta,omitempty"`
	Labels    map[string]utils.Label `json:"labels,omitempty"`
}

func NewItem(id string) *Item {
	return &Item{
		ID:       id,
		Features: make(map[string]float64),
		Tags:     make(map[string][]string),
		Meta:     make(map[string]any),
		Labels:   make(map[string]utils.Label),
	}
}

// Feature 读取数值特征，不存在时返回 (0, false)。
func (it *Item) Feature(key string) (float64, bool) {
	if it == nil || it.Features == nil {
		return 0, false
	}
	v, ok := it.Features[key]
	return v, ok
}

// Tag 读取类别标签值列表。
func (it *Item) Tag(key string) []string {
	if it == nil || it.Tags == nil {
		return nil
	}
	return it.Tags[key]
}

// PutLabel 写入 Label；若已存在同名 key，则按默认 Merge 规则累积。
func (it *Item) PutLabel(key string, lbl utils.Label) {
	if it.Labels == nil {
		it.Labels = make(map[string]utils.Label)
	}
	if old, ok := it.Labels[key]; ok {
		it.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	it.Labels[key] = lbl
}

// Clone 深拷贝 Item 的 map 字段（Meta 的 value 为浅拷贝）。
// 排序阶段在克隆上写分数，保证调用方传入的 Item 不被修改。
func (it *Item) Clone() *Item {
	if it == nil {
		return nil
	}
	out := &Item{
		ID:    it.ID,
		Score: it.Score,
	}
	if it.Features != nil {
		out.Features = make(map[string]float64, len(it.Features))
		for k, v := range it.Features {
			out.Features[k] = v
		}
	}
	if it.Tags != nil {
		out.Tags = make(map[string][]string, len(it.Tags))
		for k, v := range it.Tags {
			out.Tags[k] = append([]string(nil), v...)
		}
	}
	if it.Breakdown != nil {
		out.Breakdown = make(map[string]float64, len(it.Breakdown))
		for k, v := range it.Breakdown {
			out.Breakdown[k] = v
		}
	}
	if it.Meta != nil {
		out.Meta = make(map[string]any, len(it.Meta))
		for k, v := range it.Meta {
			out.Meta[k] = v
		}
	}
	if it.Labels != nil {
		out.Labels = make(map[string]utils.Label, len(it.Labels))
		for k, v := range it.Labels {
			out.Labels[k] = v
		}
	}
	return out
}
