package rank

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/tripkit/core"
	"github.com/rushteam/tripkit/pkg/utils"
)

func sampleHotels() []*core.Item {
	return core.HotelItems([]core.Hotel{
		{ID: "h1", Name: "Harbour Inn", PricePerNight: 120, DistanceKm: 2.5, Rating: 3, Amenities: []string{"wifi"}},
		{ID: "h2", Name: "Grand Plaza", PricePerNight: 340, DistanceKm: 0.4, Rating: 5, Amenities: []string{"wifi", "pool", "spa", "gym"}, FreeCancellation: true},
		{ID: "h3", Name: "City Lodge", PricePerNight: 95, DistanceKm: 6.1, Rating: 2, FreeCancellation: true},
		{ID: "h4", Name: "Park Suites", PricePerNight: 210, DistanceKm: 1.2, Rating: 4, Amenities: []string{"wifi", "gym"}, Chain: "marriott"},
	})
}

func TestRankHotels_OutputShape(t *testing.T) {
	items := sampleHotels()
	ranked := RankHotels(items, HotelOptions{})

	require.Len(t, ranked, len(items))
	for i, it := range ranked {
		for _, key := range []string{ScorePrice, ScoreDistance, ScoreRating, ScoreAmenities, ScoreCancellation, BonusAmenity} {
			assert.Contains(t, it.Breakdown, key)
		}
		if i > 0 {
			assert.GreaterOrEqual(t, ranked[i-1].Score, it.Score)
		}
	}
}

func TestRankHotels_Empty(t *testing.T) {
	assert.Empty(t, RankHotels(nil, HotelOptions{}))
}

func TestRankHotels_SingleItemDegenerate(t *testing.T) {
	items := core.HotelItems([]core.Hotel{{ID: "only", PricePerNight: 500, DistanceKm: 9, Rating: 3, Amenities: []string{"wifi"}}})
	ranked := RankHotels(items, HotelOptions{})

	bd := ranked[0].Breakdown
	assert.Equal(t, 1.0, bd[ScorePrice])
	assert.Equal(t, 1.0, bd[ScoreDistance])
	assert.Equal(t, 1.0, bd[ScoreAmenities])
	// fixed-scale dimensions keep their formula
	assert.InDelta(t, 0.6, bd[ScoreRating], 1e-9)
	assert.Equal(t, 0.0, bd[ScoreCancellation])
}

func TestRankHotels_AmenityBonus(t *testing.T) {
	items := core.HotelItems([]core.Hotel{
		{ID: "none", PricePerNight: 100, DistanceKm: 1, Rating: 4, Amenities: []string{"parking"}},
		{ID: "all", PricePerNight: 100, DistanceKm: 1, Rating: 4, Amenities: []string{"pool", "spa", "parking"}},
		{ID: "half", PricePerNight: 100, DistanceKm: 1, Rating: 4, Amenities: []string{"pool", "parking"}},
	})
	ranked := RankHotels(items, HotelOptions{PreferredAmenities: []string{"pool", "spa"}})

	byID := map[string]*core.Item{}
	for _, it := range ranked {
		byID[it.ID] = it
	}
	assert.Equal(t, AmenityBonusMax, byID["all"].Breakdown[BonusAmenity])
	assert.InDelta(t, AmenityBonusMax/2, byID["half"].Breakdown[BonusAmenity], 1e-9)
	assert.Equal(t, 0.0, byID["none"].Breakdown[BonusAmenity])
	assert.Greater(t, byID["all"].Breakdown[BonusAmenity], byID["none"].Breakdown[BonusAmenity])
	assert.Equal(t, "all", ranked[0].ID)
}

func TestRankHotels_MaxDistanceZeroesDistanceScore(t *testing.T) {
	items := sampleHotels()
	ranked := RankHotels(items, HotelOptions{MaxDistance: Float(3)})

	for _, it := range ranked {
		d, _ := it.Feature(core.FeatureDistance)
		if d > 3 {
			assert.Equal(t, 0.0, it.Breakdown[ScoreDistance], it.ID)
		} else {
			assert.Greater(t, it.Breakdown[ScoreDistance], 0.0, it.ID)
		}
	}
}

func TestRankHotels_RatingOnly(t *testing.T) {
	opts := HotelOptions{
		PriceWeight:        Float(0),
		DistanceWeight:     Float(0),
		RatingWeight:       Float(1),
		AmenitiesWeight:    Float(0),
		CancellationWeight: Float(0),
	}
	ranked := RankHotels(sampleHotels(), opts)
	assert.Equal(t, []string{"h2", "h4", "h1", "h3"}, ids(ranked))
	assert.InDelta(t, 1.0, ranked[0].Score, 1e-9)
}

func TestRankHotels_TiesKeepInputOrder(t *testing.T) {
	hotels := []core.Hotel{
		{ID: "x", PricePerNight: 180, DistanceKm: 3.3, Rating: 3, Amenities: []string{"wifi"}},
		{ID: "a", PricePerNight: 215, DistanceKm: 1.7, Rating: 4, Amenities: []string{"wifi", "pool"}, FreeCancellation: true},
		{ID: "y", PricePerNight: 90, DistanceKm: 7.9, Rating: 2},
		{ID: "b", PricePerNight: 215, DistanceKm: 1.7, Rating: 4, Amenities: []string{"wifi", "pool"}, FreeCancellation: true},
	}
	opts := HotelOptions{PriceWeight: Float(0.31), RatingWeight: Float(0.17), PreferredAmenities: []string{"pool", "spa", "gym"}}

	for run := 0; run < 200; run++ {
		ranked := RankHotels(core.HotelItems(hotels), opts)

		a, b := indexOf(ranked, "a"), indexOf(ranked, "b")
		require.Equal(t, ranked[a].Score, ranked[b].Score, "run %d", run)
		require.Less(t, a, b, "run %d: tie must keep input order", run)

		again := RankHotels(ranked, opts)
		require.Equal(t, ids(ranked), ids(again), "run %d", run)
	}
}

func TestRankHotels_ScoreLabel(t *testing.T) {
	for _, it := range RankHotels(sampleHotels(), HotelOptions{}) {
		assert.Equal(t, utils.ScoreLabel(it.Score, "rank.hotel"), it.Labels["rank_score"])
	}
}
