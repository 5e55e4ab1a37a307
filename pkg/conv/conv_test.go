package conv

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToFloat64(t *testing.T) {
	tests := []struct {
		in   any
		want float64
		ok   bool
	}{
		{in: 1.5, want: 1.5, ok: true},
		{in: float32(2), want: 2, ok: true},
		{in: 3, want: 3, ok: true},
		{in: int64(4), want: 4, ok: true},
		{in: true, want: 1, ok: true},
		{in: "5", ok: false},
		{in: nil, ok: false},
	}
	for _, tt := range tests {
		got, ok := ToFloat64(tt.in)
		assert.Equal(t, tt.ok, ok, "%v", tt.in)
		assert.Equal(t, tt.want, got, "%v", tt.in)
	}
}

func TestToInt(t *testing.T) {
	v, ok := ToInt(2.9)
	assert.True(t, ok)
	assert.Equal(t, 2, v)

	_, ok = ToInt("2")
	assert.False(t, ok)
}

func TestSliceAnyToString(t *testing.T) {
	assert.Equal(t, []string{"CA", "3"}, SliceAnyToString([]any{"CA", 3, struct{}{}}))
	assert.Equal(t, []string{"MU"}, SliceAnyToString([]string{"MU"}))
	assert.Nil(t, SliceAnyToString("CA"))
	assert.Nil(t, SliceAnyToString(nil))
}

func TestConfigGetters(t *testing.T) {
	cfg := map[string]any{
		"name":   "rank.flight",
		"n":      10,
		"weight": 0.4,
		"int_w":  1,
		"bad":    "x",
	}

	assert.Equal(t, "rank.flight", ConfigGet(cfg, "name", ""))
	assert.Equal(t, "def", ConfigGet(cfg, "missing", "def"))
	assert.Equal(t, "def", ConfigGet(cfg, "n", "def"))
	assert.Equal(t, "def", ConfigGet[string](nil, "name", "def"))

	assert.Equal(t, int64(10), ConfigGetInt64(cfg, "n", 0))
	assert.Equal(t, int64(7), ConfigGetInt64(cfg, "bad", 7))

	assert.Equal(t, 0.4, ConfigGetFloat64(cfg, "weight", 0))
	assert.Equal(t, 1.0, ConfigGetFloat64(cfg, "int_w", 0))
	assert.Equal(t, 9.0, ConfigGetFloat64(cfg, "bad", 9))

	if p := ConfigGetFloat64Ptr(cfg, "weight"); assert.NotNil(t, p) {
		assert.Equal(t, 0.4, *p)
	}
	assert.Nil(t, ConfigGetFloat64Ptr(cfg, "missing"))
	assert.Nil(t, ConfigGetFloat64Ptr(cfg, "bad"))
}

func TestMapToFloat64(t *testing.T) {
	got := MapToFloat64(map[string]any{"a": 1, "b": 0.5, "c": "x"})
	assert.Equal(t, map[string]float64{"a": 1, "b": 0.5}, got)
	assert.Nil(t, MapToFloat64(nil))
}
