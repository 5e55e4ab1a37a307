package rank

import (
	"github.com/rushteam/tripkit/core"
	"github.com/rushteam/tripkit/model"
	"github.com/rushteam/tripkit/pkg/utils"
)

// RankFlights 对航班打分并按分数降序稳定排序。
//
// 每个维度先映射到 [0,1]：
//   - priceScore / durationScore：在本次结果集的 [min,max] 上反向归一化
//   - stopsScore：阶梯得分，超过 maxStops 得 0
//   - departureTimeScore：起飞时间窗内 1，窗外 12 小时线性衰减
//   - availabilityScore：可订座位数 / 9
//
// 再由 LinearModel 按权重求和，最后加上 airlineBonus（命中偏好航司 +0.1）。
//
// 返回的是输入的克隆（带 Score 与 Breakdown），输入 items 不会被修改；空输入返回空切片。
func RankFlights(items []*core.Item, opts FlightOptions) []*core.Item {
	out := make([]*core.Item, 0, len(items))
	if len(items) == 0 {
		return out
	}

	cfg := opts.Resolve()
	priceBounds := BoundsOf(items, core.FeaturePrice)
	durationBounds := BoundsOf(items, core.FeatureDuration)
	m := &model.LinearModel{Weights: cfg.Weights.asMap()}

	for _, src := range items {
		if src == nil {
			continue
		}
		it := src.Clone()

		price, _ := it.Feature(core.FeaturePrice)
		duration, _ := it.Feature(core.FeatureDuration)
		stops, _ := it.Feature(core.FeatureStops)
		hour, _ := it.Feature(core.FeatureDepartureHour)
		seats, _ := it.Feature(core.FeatureSeats)

		breakdown := map[string]float64{
			ScorePrice:         InverseNormalize(price, priceBounds),
			ScoreDuration:      InverseNormalize(duration, durationBounds),
			ScoreStops:         StopsScore(int(stops), cfg.MaxStops),
			ScoreDepartureTime: TimeWindowScore(hour, cfg.DepartureWindow),
			ScoreAvailability:  AvailabilityScore(seats, SeatCapacity),
		}
		weighted, _ := m.Predict(breakdown)

		bonus := 0.0
		if AnyMatch(it.Tag(core.TagAirline), cfg.PreferredAirlines) {
			bonus = AirlineBonus
		}
		breakdown[BonusAirline] = bonus

		it.Score = weighted + bonus
		it.Breakdown = breakdown
		if it.Labels == nil {
			it.Labels = make(map[string]utils.Label)
		}
		it.Labels["rank_model"] = utils.Label{Value: "flight." + m.Name(), Source: "rank"}
		it.Labels["rank_score"] = utils.ScoreLabel(it.Score, "rank.flight")
		out = append(out, it)
	}

	SortByScore(out)
	return out
}
