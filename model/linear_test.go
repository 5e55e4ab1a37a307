package model

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinearModel_Predict(t *testing.T) {
	tests := []struct {
		name     string
		model    *LinearModel
		features map[string]float64
		want     float64
	}{
		{
			name:     "weighted sum",
			model:    &LinearModel{Weights: map[string]float64{"price": 0.5, "duration": 0.5}},
			features: map[string]float64{"price": 1, "duration": 0.5},
			want:     0.75,
		},
		{
			name:     "missing feature contributes nothing",
			model:    &LinearModel{Weights: map[string]float64{"price": 1, "stops": 2}},
			features: map[string]float64{"price": 0.4},
			want:     0.4,
		},
		{
			name:     "unnormalized weights are not clamped",
			model:    &LinearModel{Weights: map[string]float64{"price": 2, "duration": 3}},
			features: map[string]float64{"price": 1, "duration": 1},
			want:     5,
		},
		{
			name:     "bias",
			model:    &LinearModel{Bias: 0.1},
			features: nil,
			want:     0.1,
		},
		{
			name:     "logistic at zero",
			model:    &LinearModel{Logistic: true},
			features: map[string]float64{},
			want:     0.5,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.model.Predict(tt.features)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestLinearModel_Name(t *testing.T) {
	assert.Equal(t, "linear", (&LinearModel{}).Name())
	assert.Equal(t, "lr", (&LinearModel{Logistic: true}).Name())
}

func TestLoadLinearModel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"bias":0.2,"weights":{"price":0.8}}`), 0o600))

	m, err := LoadLinearModel(path)
	require.NoError(t, err)
	assert.Equal(t, 0.2, m.Bias)
	assert.Equal(t, map[string]float64{"price": 0.8}, m.Weights)
	assert.False(t, m.Logistic)

	_, err = LoadLinearModel(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestLinearModel_PredictDeterministic(t *testing.T) {
	// 量级差异大的权重，累加顺序不同会产生不同的舍入
	m := &LinearModel{Weights: map[string]float64{
		"a": 0.1, "b": 1e-17, "c": 0.3, "d": 1e16, "e": 0.7, "f": 1e-3, "g": 0.2,
	}}
	features := map[string]float64{"a": 0.3, "b": 0.9, "c": 0.7, "d": 1e-16, "e": 0.1, "f": 0.33, "g": 0.6}

	first, err := m.Predict(features)
	require.NoError(t, err)
	for i := 0; i < 500; i++ {
		got, err := m.Predict(features)
		require.NoError(t, err)
		require.Equal(t, first, got, "run %d", i)
	}
}
