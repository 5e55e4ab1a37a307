package rank

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/tripkit/core"
)

func TestFlightOptions_Merge(t *testing.T) {
	base := FlightOptions{PriceWeight: Float(0.5), PreferredAirlines: []string{"CA"}, MaxStops: Int(1)}
	merged := base.Merge(FlightOptions{PriceWeight: Float(0.9), DurationWeight: Float(0.1)})

	assert.Equal(t, 0.9, *merged.PriceWeight)
	assert.Equal(t, 0.1, *merged.DurationWeight)
	assert.Equal(t, []string{"CA"}, merged.PreferredAirlines)
	assert.Equal(t, 1, *merged.MaxStops)
	assert.Equal(t, 0.5, *base.PriceWeight)
}

func TestFlightOptions_Resolve(t *testing.T) {
	r := FlightOptions{}.Resolve()
	assert.Equal(t, DefaultFlightWeights(), r.Weights)
	assert.Equal(t, DefaultDepartureWindow, r.DepartureWindow)
	assert.Nil(t, r.MaxStops)

	r = FlightOptions{StopsWeight: Float(0), DepartureWindow: &TimeWindow{Start: 1, End: 3}}.Resolve()
	assert.Equal(t, 0.0, r.Weights.Stops)
	assert.Equal(t, 0.4, r.Weights.Price)
	assert.Equal(t, TimeWindow{Start: 1, End: 3}, r.DepartureWindow)
}

func TestFlightOptions_Validate(t *testing.T) {
	tests := []struct {
		name    string
		opts    FlightOptions
		wantErr bool
	}{
		{name: "empty", opts: FlightOptions{}},
		{name: "zero weights", opts: FlightOptions{PriceWeight: Float(0), StopsWeight: Float(0)}},
		{name: "large weights", opts: FlightOptions{PriceWeight: Float(7)}},
		{name: "negative weight", opts: FlightOptions{AvailabilityWeight: Float(-0.1)}, wantErr: true},
		{name: "negative max stops", opts: FlightOptions{MaxStops: Int(-1)}, wantErr: true},
		{name: "window out of range", opts: FlightOptions{DepartureWindow: &TimeWindow{Start: 5, End: 25}}, wantErr: true},
		{name: "overnight window", opts: FlightOptions{DepartureWindow: &TimeWindow{Start: 22, End: 4}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, core.IsInvalidInput(err))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestHotelOptions_MergeResolveValidate(t *testing.T) {
	merged := HotelOptions{RatingWeight: Float(0.3)}.Merge(HotelOptions{PreferredAmenities: []string{"pool"}, MaxDistance: Float(5)})
	assert.Equal(t, 0.3, *merged.RatingWeight)
	assert.Equal(t, []string{"pool"}, merged.PreferredAmenities)

	r := merged.Resolve()
	assert.Equal(t, 0.3, r.Weights.Rating)
	assert.Equal(t, DefaultHotelWeights().Price, r.Weights.Price)
	assert.Equal(t, 5.0, *r.MaxDistance)

	assert.NoError(t, merged.Validate())
	assert.True(t, core.IsInvalidInput(HotelOptions{CancellationWeight: Float(-1)}.Validate()))
	assert.True(t, core.IsInvalidInput(HotelOptions{MaxDistance: Float(-1)}.Validate()))
}

func TestPresetBook(t *testing.T) {
	book := DefaultPresetBook()

	balanced, err := book.Flight("")
	require.NoError(t, err)
	assert.Equal(t, DefaultFlightWeights(), balanced.Resolve().Weights)

	budget, err := book.Hotel("budget")
	require.NoError(t, err)
	assert.Equal(t, 0.6, *budget.PriceWeight)

	_, err = book.Flight("luxury")
	require.Error(t, err)
	assert.True(t, core.IsInvalidInput(err))
	assert.Contains(t, err.Error(), "balanced")

	_, err = book.Hotel("nope")
	assert.True(t, core.IsInvalidInput(err))
}

func TestLoadPresetBook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
flights:
  budget:
    priceWeight: 0.9
  redeye:
    departureWindow:
      start: 22
      end: 5
hotels:
  family:
    amenitiesWeight: 0.5
    preferredAmenities: [pool, kids-club]
`), 0o644))

	book, err := LoadPresetBook(path)
	require.NoError(t, err)

	budget, err := book.Flight("budget")
	require.NoError(t, err)
	assert.Equal(t, 0.9, *budget.PriceWeight)
	assert.Equal(t, 0.15, *budget.DurationWeight)

	redeye, err := book.Flight("redeye")
	require.NoError(t, err)
	assert.Equal(t, TimeWindow{Start: 22, End: 5}, *redeye.DepartureWindow)

	family, err := book.Hotel("family")
	require.NoError(t, err)
	assert.Equal(t, []string{"pool", "kids-club"}, family.PreferredAmenities)

	_, err = book.Hotel(PresetBalanced)
	assert.NoError(t, err)
}

func TestLoadPresetBook_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("flights:\n  broken:\n    priceWeight: -1\n"), 0o644))

	_, err := LoadPresetBook(path)
	require.Error(t, err)
	assert.True(t, core.IsInvalidInput(err))

	_, err = LoadPresetBook(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
