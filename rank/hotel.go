package rank

import (
	"github.com/rushteam/tripkit/core"
	"github.com/rushteam/tripkit/model"
	"github.com/rushteam/tripkit/pkg/utils"
)

// RankHotels 对酒店打分并按分数降序稳定排序。
//
// 维度：
//   - priceScore / distanceScore：反向归一化；距离超过 maxDistance 得 0
//   - ratingScore：星级 / 5
//   - amenitiesScore：设施数量在结果集上正向归一化
//   - cancellationScore：免费取消 1，否则 0
//
// 加分：amenityBonus = 命中偏好设施的比例 × 0.15。
func RankHotels(items []*core.Item, opts HotelOptions) []*core.Item {
	out := make([]*core.Item, 0, len(items))
	if len(items) == 0 {
		return out
	}

	cfg := opts.Resolve()
	priceBounds := BoundsOf(items, core.FeaturePrice)
	distanceBounds := BoundsOf(items, core.FeatureDistance)
	amenityBounds := BoundsOf(items, core.FeatureAmenityCount)
	m := &model.LinearModel{Weights: cfg.Weights.asMap()}

	for _, src := range items {
		if src == nil {
			continue
		}
		it := src.Clone()

		price, _ := it.Feature(core.FeaturePrice)
		distance, _ := it.Feature(core.FeatureDistance)
		rating, _ := it.Feature(core.FeatureRating)
		amenities, _ := it.Feature(core.FeatureAmenityCount)
		freeCancel, _ := it.Feature(core.FeatureFreeCancellation)

		distanceScore := InverseNormalize(distance, distanceBounds)
		if cfg.MaxDistance != nil && distance > *cfg.MaxDistance {
			distanceScore = 0
		}

		breakdown := map[string]float64{
			ScorePrice:        InverseNormalize(price, priceBounds),
			ScoreDistance:     distanceScore,
			ScoreRating:       RatingScore(rating, MaxRating),
			ScoreAmenities:    DirectNormalize(amenities, amenityBounds),
			ScoreCancellation: CancellationScore(freeCancel > 0),
		}
		weighted, _ := m.Predict(breakdown)

		bonus := MatchFraction(it.Tag(core.TagAmenities), cfg.PreferredAmenities) * AmenityBonusMax
		breakdown[BonusAmenity] = bonus

		it.Score = weighted + bonus
		it.Breakdown = breakdown
		if it.Labels == nil {
			it.Labels = make(map[string]utils.Label)
		}
		it.Labels["rank_model"] = utils.Label{Value: "hotel." + m.Name(), Source: "rank"}
		it.Labels["rank_score"] = utils.ScoreLabel(it.Score, "rank.hotel")
		out = append(out, it)
	}

	SortByScore(out)
	return out
}
