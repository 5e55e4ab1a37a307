package rank

import (
	"sort"

	"github.com/rushteam/tripkit/core"
)

// DefaultTopN 是推荐切片的默认长度。
const DefaultTopN = 3

// LuxuryRating 是 luxury 切片的最低星级。
const LuxuryRating = 4.0

// FlightRecommendations 是航班的具名推荐切片。
// 除 Best 取自排序结果外，其余切片都基于原始（未打分）集合独立计算，与综合排序无关。
type FlightRecommendations struct {
	Cheapest []*core.Item `json:"cheapest"` // 价格升序
	Fastest  []*core.Item `json:"fastest"`  // 时长升序
	Best     []*core.Item `json:"best"`     // 综合分数最高
	NonStop  []*core.Item `json:"nonStop"`  // 直飞，保持输入顺序
}

// HotelRecommendations 是酒店的具名推荐切片。
type HotelRecommendations struct {
	Cheapest []*core.Item `json:"cheapest"` // 价格升序
	Closest  []*core.Item `json:"closest"`  // 距离升序
	TopRated []*core.Item `json:"topRated"` // 星级降序
	Best     []*core.Item `json:"best"`     // 综合分数最高
	Luxury   []*core.Item `json:"luxury"`   // 星级 >= 4，保持输入顺序
}

// RecommendFlights 从原始集合 original 与排序结果 ranked 中提取推荐切片，n <= 0 时取 DefaultTopN。
func RecommendFlights(original, ranked []*core.Item, n int) FlightRecommendations {
	if n <= 0 {
		n = DefaultTopN
	}
	return FlightRecommendations{
		Cheapest: topBy(original, ascending(core.FeaturePrice), n),
		Fastest:  topBy(original, ascending(core.FeatureDuration), n),
		Best:     head(ranked, n),
		NonStop: filterTop(original, func(it *core.Item) bool {
			stops, _ := it.Feature(core.FeatureStops)
			return stops == 0
		}, n),
	}
}

// RecommendHotels 从原始集合 original 与排序结果 ranked 中提取推荐切片，n <= 0 时取 DefaultTopN。
func RecommendHotels(original, ranked []*core.Item, n int) HotelRecommendations {
	if n <= 0 {
		n = DefaultTopN
	}
	return HotelRecommendations{
		Cheapest: topBy(original, ascending(core.FeaturePrice), n),
		Closest:  topBy(original, ascending(core.FeatureDistance), n),
		TopRated: topBy(original, descending(core.FeatureRating), n),
		Best:     head(ranked, n),
		Luxury: filterTop(original, func(it *core.Item) bool {
			rating, _ := it.Feature(core.FeatureRating)
			return rating >= LuxuryRating
		}, n),
	}
}

type lessFunc func(a, b *core.Item) bool

func ascending(key string) lessFunc {
	return func(a, b *core.Item) bool {
		av, _ := a.Feature(key)
		bv, _ := b.Feature(key)
		return av < bv
	}
}

func descending(key string) lessFunc {
	return func(a, b *core.Item) bool {
		av, _ := a.Feature(key)
		bv, _ := b.Feature(key)
		return av > bv
	}
}

// topBy 在副本上稳定排序后取前 n 个，不改变 items 本身的顺序。
func topBy(items []*core.Item, less lessFunc, n int) []*core.Item {
	sorted := make([]*core.Item, 0, len(items))
	for _, it := range items {
		if it != nil {
			sorted = append(sorted, it)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return less(sorted[i], sorted[j])
	})
	return head(sorted, n)
}

func filterTop(items []*core.Item, keep func(*core.Item) bool, n int) []*core.Item {
	out := make([]*core.Item, 0, n)
	for _, it := range items {
		if it == nil || !keep(it) {
			continue
		}
		out = append(out, it)
		if len(out) == n {
			break
		}
	}
	return out
}

func head(items []*core.Item, n int) []*core.Item {
	if len(items) <= n {
		return append([]*core.Item{}, items...)
	}
	return append([]*core.Item{}, items[:n]...)
}
