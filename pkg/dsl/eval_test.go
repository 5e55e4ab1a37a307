package dsl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/tripkit/core"
	"github.com/rushteam/tripkit/pkg/utils"
)

func testItem() *core.Item {
	it := core.NewItem("f1")
	it.Features[core.FeaturePrice] = 420
	it.Features[core.FeatureStops] = 1
	it.Tags[core.TagAirline] = []string{"CA"}
	it.PutLabel("source", utils.Label{Value: "gds", Source: "test"})
	return it
}

func TestEvaluate(t *testing.T) {
	rctx := &core.RankContext{UserID: "u1", Scene: core.SceneFlight, Params: map[string]any{
		"budget": 400,
		"opts":   struct{ X int }{1},
	}}

	tests := []struct {
		expr string
		want bool
	}{
		{expr: "", want: true},
		{expr: `item.features.price > 400.0`, want: true},
		{expr: `item.features.stops >= 2.0`, want: false},
		{expr: `"CA" in item.tags.airline`, want: true},
		{expr: `label.source == "gds"`, want: true},
		{expr: `rctx.user_id == "u1" && rctx.scene == "flight"`, want: true},
		{expr: `item.features.price > double(rctx.params.budget)`, want: true},
		{expr: `has(rctx.params.opts)`, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := Evaluate(tt.expr, testItem(), rctx)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCompile_Cached(t *testing.T) {
	a, err := Compile(`item.score > 0.5`)
	require.NoError(t, err)
	b, err := Compile(`item.score > 0.5`)
	require.NoError(t, err)
	assert.Same(t, a, b)
	assert.Equal(t, `item.score > 0.5`, a.Expr())
}

func TestEvaluate_Errors(t *testing.T) {
	_, err := Compile(`item.features.price >`)
	assert.Error(t, err)

	_, err = Evaluate(`item.features.price`, testItem(), nil)
	assert.ErrorContains(t, err, "boolean")

	_, err = Evaluate(`item.features.missing > 1.0`, testItem(), nil)
	assert.Error(t, err)

	ok, err := Evaluate(`item.id == ""`, nil, nil)
	require.NoError(t, err)
	assert.True(t, ok)
}
