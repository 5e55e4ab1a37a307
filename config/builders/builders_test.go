package builders

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/tripkit/config"
	"github.com/rushteam/tripkit/core"
	"github.com/rushteam/tripkit/filter"
	"github.com/rushteam/tripkit/pipeline"
	"github.com/rushteam/tripkit/rank"
	"github.com/rushteam/tripkit/rerank"
)

func TestRegistered(t *testing.T) {
	types := config.SupportedTypes()
	for _, want := range []string{"filter", "rank.flight", "rank.hotel", "rank.linear", "rerank.topn", "rerank.diversity"} {
		assert.Contains(t, types, want)
	}
}

func TestBuildFlightNode(t *testing.T) {
	node, err := BuildFlightNode(map[string]any{
		"preset":             "budget",
		"stops_weight":       0.5,
		"max_stops":          1,
		"preferred_airlines": []any{"CA"},
		"departure_window":   map[string]any{"start": 8, "end": 20},
	})
	require.NoError(t, err)

	fn, ok := node.(*rank.FlightNode)
	require.True(t, ok)
	assert.Equal(t, 0.6, *fn.Options.PriceWeight)
	assert.Equal(t, 0.5, *fn.Options.StopsWeight)
	assert.Equal(t, 1, *fn.Options.MaxStops)
	assert.Equal(t, []string{"CA"}, fn.Options.PreferredAirlines)
	assert.Equal(t, rank.TimeWindow{Start: 8, End: 20}, *fn.Options.DepartureWindow)

	_, err = BuildFlightNode(map[string]any{"preset": "nope"})
	assert.True(t, core.IsInvalidInput(err))

	_, err = BuildFlightNode(map[string]any{"price_weight": -1})
	assert.True(t, core.IsInvalidInput(err))
}

func TestBuildHotelNode(t *testing.T) {
	node, err := BuildHotelNode(map[string]any{"max_distance": 5, "preferred_amenities": []any{"pool"}})
	require.NoError(t, err)
	hn := node.(*rank.HotelNode)
	assert.Equal(t, 5.0, *hn.Options.MaxDistance)
	assert.Equal(t, 0.35, *hn.Options.PriceWeight)
}

func TestBuildFilterNode(t *testing.T) {
	node, err := BuildFilterNode(map[string]any{
		"filters": []any{
			map[string]any{"type": "expr", "expr": "item.features.stops > 1.0"},
			map[string]any{"type": "blocklist", "tag_key": "airline", "values": []any{"MU"}},
			map[string]any{"type": "max_price", "max": 500},
		},
	})
	require.NoError(t, err)
	fn := node.(*filter.FilterNode)
	require.Len(t, fn.Filters, 3)

	items := core.FlightItems([]core.Flight{
		{ID: "a", Airline: "CA", Price: 300},
		{ID: "b", Airline: "MU", Price: 300},
		{ID: "c", Airline: "CA", Price: 300, Stops: 2},
		{ID: "d", Airline: "CA", Price: 900},
	})
	out, err := fn.Process(context.Background(), nil, items)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "a", out[0].ID)

	_, err = BuildFilterNode(map[string]any{"filters": []any{map[string]any{"type": "exposed"}}})
	assert.Error(t, err)
	_, err = BuildFilterNode(map[string]any{"filters": []any{map[string]any{"type": "expr", "expr": "price >"}}})
	assert.True(t, core.IsInvalidInput(err))
	_, err = BuildFilterNode(map[string]any{})
	assert.Error(t, err)
}

func TestBuildLinearAndRerank(t *testing.T) {
	node, err := BuildLinearNode(map[string]any{"weights": map[string]any{"rating": 1}, "bias": 0.5})
	require.NoError(t, err)
	assert.Equal(t, "rank.model", node.Name())

	_, err = BuildLinearNode(map[string]any{})
	assert.Error(t, err)

	topn, err := BuildTopNNode(map[string]any{"n": 5})
	require.NoError(t, err)
	assert.Equal(t, 5, topn.(*rerank.TopNNode).N)

	div, err := BuildDiversityNode(map[string]any{"max_per_group": 2})
	require.NoError(t, err)
	assert.Equal(t, core.TagAirline, div.(*rerank.Diversity).TagKey)
	assert.Equal(t, 2, div.(*rerank.Diversity).MaxPerGroup)
}

func TestBuildPipelineFromConfig(t *testing.T) {
	cfg := &pipeline.Config{}
	cfg.Pipeline.Nodes = []pipeline.NodeConfig{
		{Type: "rank.flight", Config: map[string]any{"preset": "fastest"}},
		{Type: "rerank.topn", Config: map[string]any{"n": 1}},
	}
	require.NoError(t, config.ValidatePipelineConfig(cfg))

	p, err := cfg.BuildPipeline(config.DefaultFactory())
	require.NoError(t, err)

	items := core.FlightItems([]core.Flight{
		{ID: "slow", DurationMinutes: 600, Price: 100, SeatsAvailable: 9},
		{ID: "fast", DurationMinutes: 90, Price: 100, SeatsAvailable: 9},
	})
	out, err := p.Run(context.Background(), &core.RankContext{Scene: core.SceneFlight}, items)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "fast", out[0].ID)

	cfg.Pipeline.Nodes = append(cfg.Pipeline.Nodes, pipeline.NodeConfig{Type: "recall.hot"})
	err = config.ValidatePipelineConfig(cfg)
	require.Error(t, err)
	assert.True(t, core.IsNotSupported(err))
}
