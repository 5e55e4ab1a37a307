package rank

import (
	"math"
	"sort"
	"strings"

	"github.com/rushteam/tripkit/core"
)

const (
	// MaxRating 是星级满分
	MaxRating = 5.0
	// SeatCapacity 是可订座位数的封顶值（GDS 最多报 9 个座位）
	SeatCapacity = 9.0
	// TimeFalloffHours 是时间窗外得分从 1 线性衰减到 0 的小时数
	TimeFalloffHours = 12.0

	// AirlineBonus 是命中偏好航司时的加分
	AirlineBonus = 0.1
	// AmenityBonusMax 是偏好设施全部命中时的加分上限
	AmenityBonusMax = 0.15
)

// 经停得分表：0 经停 1.0，1 经停 0.6，2 经停及以上 0.3。
const (
	nonStopScore   = 1.0
	oneStopScore   = 0.6
	multiStopScore = 0.3
)

// Bounds 是某个维度在当前结果集上的取值范围。
type Bounds struct {
	Min float64
	Max float64
}

// Degenerate 表示 min==max（单条结果或取值完全相同）。
func (b Bounds) Degenerate() bool {
	return b.Min == b.Max
}

// BoundsOf 计算 items 在 key 维度上的 [min,max]；缺失该特征的 item 按 0 计，空集合返回零值。
func BoundsOf(items []*core.Item, key string) Bounds {
	b := Bounds{Min: math.Inf(1), Max: math.Inf(-1)}
	seen := false
	for _, it := range items {
		if it == nil {
			continue
		}
		v, _ := it.Feature(key)
		if v < b.Min {
			b.Min = v
		}
		if v > b.Max {
			b.Max = v
		}
		seen = true
	}
	if !seen {
		return Bounds{}
	}
	return b
}

// InverseNormalize 用于“越小越好”的维度（价格、时长、距离）。
// min==max 时返回 1，否则返回 1 - (v-min)/(max-min)。
func InverseNormalize(v float64, b Bounds) float64 {
	if b.Degenerate() {
		return 1
	}
	return 1 - (v-b.Min)/(b.Max-b.Min)
}

// DirectNormalize 用于“越大越好”且无固定满分的维度（设施数量）。
// min==max 时返回 1，否则返回 (v-min)/(max-min)。
func DirectNormalize(v float64, b Bounds) float64 {
	if b.Degenerate() {
		return 1
	}
	return (v - b.Min) / (b.Max - b.Min)
}

// RatingScore 把星级映射到 [0,1]：rating / maxRating。
func RatingScore(rating, maxRating float64) float64 {
	if maxRating <= 0 {
		return 0
	}
	return clamp01(rating / maxRating)
}

// StopsScore 是经停次数的阶梯得分；maxStops 非空且 stops 超过上限时得 0。
func StopsScore(stops int, maxStops *int) float64 {
	if maxStops != nil && stops > *maxStops {
		return 0
	}
	switch {
	case stops <= 0:
		return nonStopScore
	case stops == 1:
		return oneStopScore
	default:
		return multiStopScore
	}
}

// TimeWindowScore 在 [Start,End] 小时窗口内返回 1；窗口外按距最近边界的小时数
// 在 TimeFalloffHours 内线性衰减到 0。Start > End 表示跨零点窗口（如 22 点到 6 点）。
func TimeWindowScore(hour float64, w TimeWindow) float64 {
	var distance float64
	if w.Start <= w.End {
		switch {
		case hour < w.Start:
			distance = w.Start - hour
		case hour > w.End:
			distance = hour - w.End
		default:
			return 1
		}
	} else {
		if hour >= w.Start || hour <= w.End {
			return 1
		}
		distance = math.Min(w.Start-hour, hour-w.End)
	}
	return math.Max(0, 1-distance/TimeFalloffHours)
}

// AvailabilityScore 是可订数量相对封顶值的线性比例，截断到 1。
func AvailabilityScore(available, capacity float64) float64 {
	if capacity <= 0 {
		return 0
	}
	return clamp01(available / capacity)
}

// CancellationScore 免费取消得 1，否则得 0。
func CancellationScore(free bool) float64 {
	if free {
		return 1
	}
	return 0
}

// MatchFraction 返回 preferred 中被 values 命中的比例（大小写不敏感）；preferred 为空时返回 0。
func MatchFraction(values, preferred []string) float64 {
	if len(preferred) == 0 {
		return 0
	}
	have := toSet(values)
	matched := 0
	for _, p := range preferred {
		if _, ok := have[strings.ToLower(p)]; ok {
			matched++
		}
	}
	return float64(matched) / float64(len(preferred))
}

// AnyMatch 判断 values 与 preferred 是否有交集（大小写不敏感）。
func AnyMatch(values, preferred []string) bool {
	if len(values) == 0 || len(preferred) == 0 {
		return false
	}
	want := toSet(preferred)
	for _, v := range values {
		if _, ok := want[strings.ToLower(v)]; ok {
			return true
		}
	}
	return false
}

// SortByScore 按 Score 降序稳定排序，同分保持输入顺序。
func SortByScore(items []*core.Item) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i] == nil {
			return false
		}
		if items[j] == nil {
			return true
		}
		return items[i].Score > items[j].Score
	})
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[strings.ToLower(v)] = struct{}{}
	}
	return set
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
