package rank

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/rushteam/tripkit/core"
)

// PresetBalanced 是默认预设名。
const PresetBalanced = "balanced"

// DefaultDepartureWindow 是未指定偏好时的起飞时间窗（6 点到 22 点）。
var DefaultDepartureWindow = TimeWindow{Start: 6, End: 22}

// DefaultFlightWeights 返回 balanced 预设的航班权重。
//
// score = price*0.4 + duration*0.25 + stops*0.2 + departureTime*0.1 + availability*0.05 (+ airlineBonus)
func DefaultFlightWeights() FlightWeights {
	return FlightWeights{
		Price:         0.4,
		Duration:      0.25,
		Stops:         0.2,
		DepartureTime: 0.1,
		Availability:  0.05,
	}
}

// DefaultHotelWeights 返回 balanced 预设的酒店权重。
//
// score = price*0.35 + distance*0.25 + rating*0.2 + amenities*0.1 + cancellation*0.1 (+ amenityBonus)
func DefaultHotelWeights() HotelWeights {
	return HotelWeights{
		Price:        0.35,
		Distance:     0.25,
		Rating:       0.2,
		Amenities:    0.1,
		Cancellation: 0.1,
	}
}

// PresetBook 是具名权重预设集合，可从 YAML 加载：
//
//	flights:
//	  budget:
//	    priceWeight: 0.6
//	    durationWeight: 0.15
//	hotels:
//	  comfort:
//	    ratingWeight: 0.4
type PresetBook struct {
	Flights map[string]FlightOptions `yaml:"flights"`
	Hotels  map[string]HotelOptions  `yaml:"hotels"`
}

// DefaultPresetBook 返回内置预设：balanced / budget / fastest|closest / comfort。
func DefaultPresetBook() *PresetBook {
	fw := DefaultFlightWeights()
	hw := DefaultHotelWeights()
	return &PresetBook{
		Flights: map[string]FlightOptions{
			PresetBalanced: {
				PriceWeight:         Float(fw.Price),
				DurationWeight:      Float(fw.Duration),
				StopsWeight:         Float(fw.Stops),
				DepartureTimeWeight: Float(fw.DepartureTime),
				AvailabilityWeight:  Float(fw.Availability),
			},
			"budget": {
				PriceWeight:         Float(0.6),
				DurationWeight:      Float(0.15),
				StopsWeight:         Float(0.15),
				DepartureTimeWeight: Float(0.05),
				AvailabilityWeight:  Float(0.05),
			},
			"fastest": {
				PriceWeight:         Float(0.2),
				DurationWeight:      Float(0.45),
				StopsWeight:         Float(0.25),
				DepartureTimeWeight: Float(0.05),
				AvailabilityWeight:  Float(0.05),
			},
			"comfort": {
				PriceWeight:         Float(0.2),
				DurationWeight:      Float(0.2),
				StopsWeight:         Float(0.3),
				DepartureTimeWeight: Float(0.2),
				AvailabilityWeight:  Float(0.1),
			},
		},
		Hotels: map[string]HotelOptions{
			PresetBalanced: {
				PriceWeight:        Float(hw.Price),
				DistanceWeight:     Float(hw.Distance),
				RatingWeight:       Float(hw.Rating),
				AmenitiesWeight:    Float(hw.Amenities),
				CancellationWeight: Float(hw.Cancellation),
			},
			"budget": {
				PriceWeight:        Float(0.6),
				DistanceWeight:     Float(0.15),
				RatingWeight:       Float(0.1),
				AmenitiesWeight:    Float(0.05),
				CancellationWeight: Float(0.1),
			},
			"closest": {
				PriceWeight:        Float(0.2),
				DistanceWeight:     Float(0.5),
				RatingWeight:       Float(0.15),
				AmenitiesWeight:    Float(0.05),
				CancellationWeight: Float(0.1),
			},
			"comfort": {
				PriceWeight:        Float(0.15),
				DistanceWeight:     Float(0.15),
				RatingWeight:       Float(0.4),
				AmenitiesWeight:    Float(0.2),
				CancellationWeight: Float(0.1),
			},
		},
	}
}

// LoadPresetBook 从 YAML 加载预设，并与内置预设合并（同名时文件中的字段覆盖内置字段）。
func LoadPresetBook(path string) (*PresetBook, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var loaded PresetBook
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}

	book := DefaultPresetBook()
	for name, opts := range loaded.Flights {
		if err := opts.Validate(); err != nil {
			return nil, fmt.Errorf("flight preset %s: %w", name, err)
		}
		book.Flights[name] = book.Flights[name].Merge(opts)
	}
	for name, opts := range loaded.Hotels {
		if err := opts.Validate(); err != nil {
			return nil, fmt.Errorf("hotel preset %s: %w", name, err)
		}
		book.Hotels[name] = book.Hotels[name].Merge(opts)
	}
	return book, nil
}

// Flight 按名称取航班预设；空名称取 balanced，未知名称返回 INVALID_INPUT。
func (b *PresetBook) Flight(name string) (FlightOptions, error) {
	if name == "" {
		name = PresetBalanced
	}
	opts, ok := b.Flights[name]
	if !ok {
		return FlightOptions{}, core.InvalidInput(core.ModuleRank,
			fmt.Sprintf("unknown flight preset %q (supported: %v)", name, sortedKeys(b.Flights)))
	}
	return opts, nil
}

// Hotel 按名称取酒店预设；空名称取 balanced，未知名称返回 INVALID_INPUT。
func (b *PresetBook) Hotel(name string) (HotelOptions, error) {
	if name == "" {
		name = PresetBalanced
	}
	opts, ok := b.Hotels[name]
	if !ok {
		return HotelOptions{}, core.InvalidInput(core.ModuleRank,
			fmt.Sprintf("unknown hotel preset %q (supported: %v)", name, sortedKeys(b.Hotels)))
	}
	return opts, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
