package rank

import (
	"fmt"

	"github.com/rushteam/tripkit/core"
)

// 请求级排序选项在 RankContext.Params 中的 key。
const (
	ParamFlightOptions = "flight_options"
	ParamHotelOptions  = "hotel_options"
)

// 分项得分 key（同时是 LinearModel 的特征名与 scoreBreakdown 的字段名）。
const (
	ScorePrice         = "priceScore"
	ScoreDuration      = "durationScore"
	ScoreStops         = "stopsScore"
	ScoreDepartureTime = "departureTimeScore"
	ScoreAvailability  = "availabilityScore"
	ScoreDistance      = "distanceScore"
	ScoreRating        = "ratingScore"
	ScoreAmenities     = "amenitiesScore"
	ScoreCancellation  = "cancellationScore"

	BonusAirline = "airlineBonus"
	BonusAmenity = "amenityBonus"
)

// TimeWindow 是一天内的小时区间 [Start, End]。
type TimeWindow struct {
	Start float64 `json:"start" yaml:"start"`
	End   float64 `json:"end" yaml:"end"`
}

// FlightWeights 是航班各维度的权重。不要求和为 1。
type FlightWeights struct {
	Price         float64 `json:"priceWeight"`
	Duration      float64 `json:"durationWeight"`
	Stops         float64 `json:"stopsWeight"`
	DepartureTime float64 `json:"departureTimeWeight"`
	Availability  float64 `json:"availabilityWeight"`
}

func (w FlightWeights) asMap() map[string]float64 {
	return map[string]float64{
		ScorePrice:         w.Price,
		ScoreDuration:      w.Duration,
		ScoreStops:         w.Stops,
		ScoreDepartureTime: w.DepartureTime,
		ScoreAvailability:  w.Availability,
	}
}

// HotelWeights 是酒店各维度的权重。不要求和为 1。
type HotelWeights struct {
	Price        float64 `json:"priceWeight"`
	Distance     float64 `json:"distanceWeight"`
	Rating       float64 `json:"ratingWeight"`
	Amenities    float64 `json:"amenitiesWeight"`
	Cancellation float64 `json:"cancellationWeight"`
}

func (w HotelWeights) asMap() map[string]float64 {
	return map[string]float64{
		ScorePrice:        w.Price,
		ScoreDistance:     w.Distance,
		ScoreRating:       w.Rating,
		ScoreAmenities:    w.Amenities,
		ScoreCancellation: w.Cancellation,
	}
}

// FlightOptions 是调用方传入的航班排序选项，所有字段可选；
// nil 字段在 Resolve 时取 balanced 预设的值。
type FlightOptions struct {
	PriceWeight         *float64    `json:"priceWeight,omitempty" yaml:"priceWeight,omitempty"`
	DurationWeight      *float64    `json:"durationWeight,omitempty" yaml:"durationWeight,omitempty"`
	StopsWeight         *float64    `json:"stopsWeight,omitempty" yaml:"stopsWeight,omitempty"`
	DepartureTimeWeight *float64    `json:"departureTimeWeight,omitempty" yaml:"departureTimeWeight,omitempty"`
	AvailabilityWeight  *float64    `json:"availabilityWeight,omitempty" yaml:"availabilityWeight,omitempty"`
	PreferredAirlines   []string    `json:"preferredAirlines,omitempty" yaml:"preferredAirlines,omitempty"`
	MaxStops            *int        `json:"maxStops,omitempty" yaml:"maxStops,omitempty"`
	DepartureWindow     *TimeWindow `json:"departureWindow,omitempty" yaml:"departureWindow,omitempty"`
}

// HotelOptions 是调用方传入的酒店排序选项，所有字段可选。
type HotelOptions struct {
	PriceWeight        *float64 `json:"priceWeight,omitempty" yaml:"priceWeight,omitempty"`
	DistanceWeight     *float64 `json:"distanceWeight,omitempty" yaml:"distanceWeight,omitempty"`
	RatingWeight       *float64 `json:"ratingWeight,omitempty" yaml:"ratingWeight,omitempty"`
	AmenitiesWeight    *float64 `json:"amenitiesWeight,omitempty" yaml:"amenitiesWeight,omitempty"`
	CancellationWeight *float64 `json:"cancellationWeight,omitempty" yaml:"cancellationWeight,omitempty"`
	PreferredAmenities []string `json:"preferredAmenities,omitempty" yaml:"preferredAmenities,omitempty"`
	MaxDistance        *float64 `json:"maxDistance,omitempty" yaml:"maxDistance,omitempty"`
}

// ResolvedFlightOptions 是合并默认值后的航班选项。
type ResolvedFlightOptions struct {
	Weights           FlightWeights
	PreferredAirlines []string
	MaxStops          *int
	DepartureWindow   TimeWindow
}

// ResolvedHotelOptions 是合并默认值后的酒店选项。
type ResolvedHotelOptions struct {
	Weights            HotelWeights
	PreferredAmenities []string
	MaxDistance        *float64
}

// Float 返回 v 的指针，便于构造可选权重。
func Float(v float64) *float64 { return &v }

// Int 返回 v 的指针。
func Int(v int) *int { return &v }

// Merge 逐字段合并：override 中非 nil 的字段覆盖 o。
func (o FlightOptions) Merge(override FlightOptions) FlightOptions {
	out := o
	if override.PriceWeight != nil {
		out.PriceWeight = override.PriceWeight
	}
	if override.DurationWeight != nil {
		out.DurationWeight = override.DurationWeight
	}
	if override.StopsWeight != nil {
		out.StopsWeight = override.StopsWeight
	}
	if override.DepartureTimeWeight != nil {
		out.DepartureTimeWeight = override.DepartureTimeWeight
	}
	if override.AvailabilityWeight != nil {
		out.AvailabilityWeight = override.AvailabilityWeight
	}
	if override.PreferredAirlines != nil {
		out.PreferredAirlines = override.PreferredAirlines
	}
	if override.MaxStops != nil {
		out.MaxStops = override.MaxStops
	}
	if override.DepartureWindow != nil {
		out.DepartureWindow = override.DepartureWindow
	}
	return out
}

// Validate 校验权重非负、经停上限非负、时间窗在 [0,24] 内。
func (o FlightOptions) Validate() error {
	weights := map[string]*float64{
		"priceWeight":         o.PriceWeight,
		"durationWeight":      o.DurationWeight,
		"stopsWeight":         o.StopsWeight,
		"departureTimeWeight": o.DepartureTimeWeight,
		"availabilityWeight":  o.AvailabilityWeight,
	}
	if err := validateWeights(weights); err != nil {
		return err
	}
	if o.MaxStops != nil && *o.MaxStops < 0 {
		return core.InvalidInput(core.ModuleRank, "maxStops must be non-negative")
	}
	if w := o.DepartureWindow; w != nil {
		if w.Start < 0 || w.Start > 24 || w.End < 0 || w.End > 24 {
			return core.InvalidInput(core.ModuleRank, "departureWindow hours must be within [0, 24]")
		}
	}
	return nil
}

// Resolve 用 balanced 预设补齐未指定的字段。
func (o FlightOptions) Resolve() ResolvedFlightOptions {
	def := DefaultFlightWeights()
	return ResolvedFlightOptions{
		Weights: FlightWeights{
			Price:         orDefault(o.PriceWeight, def.Price),
			Duration:      orDefault(o.DurationWeight, def.Duration),
			Stops:         orDefault(o.StopsWeight, def.Stops),
			DepartureTime: orDefault(o.DepartureTimeWeight, def.DepartureTime),
			Availability:  orDefault(o.AvailabilityWeight, def.Availability),
		},
		PreferredAirlines: o.PreferredAirlines,
		MaxStops:          o.MaxStops,
		DepartureWindow:   windowOrDefault(o.DepartureWindow),
	}
}

// Merge 逐字段合并：override 中非 nil 的字段覆盖 o。
func (o HotelOptions) Merge(override HotelOptions) HotelOptions {
	out := o
	if override.PriceWeight != nil {
		out.PriceWeight = override.PriceWeight
	}
	if override.DistanceWeight != nil {
		out.DistanceWeight = override.DistanceWeight
	}
	if override.RatingWeight != nil {
		out.RatingWeight = override.RatingWeight
	}
	if override.AmenitiesWeight != nil {
		out.AmenitiesWeight = override.AmenitiesWeight
	}
	if override.CancellationWeight != nil {
		out.CancellationWeight = override.CancellationWeight
	}
	if override.PreferredAmenities != nil {
		out.PreferredAmenities = override.PreferredAmenities
	}
	if override.MaxDistance != nil {
		out.MaxDistance = override.MaxDistance
	}
	return out
}

// Validate 校验权重与距离上限非负。
func (o HotelOptions) Validate() error {
	weights := map[string]*float64{
		"priceWeight":        o.PriceWeight,
		"distanceWeight":     o.DistanceWeight,
		"ratingWeight":       o.RatingWeight,
		"amenitiesWeight":    o.AmenitiesWeight,
		"cancellationWeight": o.CancellationWeight,
	}
	if err := validateWeights(weights); err != nil {
		return err
	}
	if o.MaxDistance != nil && *o.MaxDistance < 0 {
		return core.InvalidInput(core.ModuleRank, "maxDistance must be non-negative")
	}
	return nil
}

// Resolve 用 balanced 预设补齐未指定的字段。
func (o HotelOptions) Resolve() ResolvedHotelOptions {
	def := DefaultHotelWeights()
	return ResolvedHotelOptions{
		Weights: HotelWeights{
			Price:        orDefault(o.PriceWeight, def.Price),
			Distance:     orDefault(o.DistanceWeight, def.Distance),
			Rating:       orDefault(o.RatingWeight, def.Rating),
			Amenities:    orDefault(o.AmenitiesWeight, def.Amenities),
			Cancellation: orDefault(o.CancellationWeight, def.Cancellation),
		},
		PreferredAmenities: o.PreferredAmenities,
		MaxDistance:        o.MaxDistance,
	}
}

func validateWeights(weights map[string]*float64) error {
	for name, w := range weights {
		if w != nil && *w < 0 {
			return core.InvalidInput(core.ModuleRank, fmt.Sprintf("%s must be non-negative, got %v", name, *w))
		}
	}
	return nil
}

func orDefault(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}

func windowOrDefault(w *TimeWindow) TimeWindow {
	if w == nil {
		return DefaultDepartureWindow
	}
	return *w
}
