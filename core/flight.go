package core

import "time"

// MetaFlight 是 Item.Meta 中保存原始航班的 key。
const MetaFlight = "flight"

// Flight 是调用方（航班搜索聚合层）提供的一条航班报价。
// 字段在进入排序前应已由调用方校验。
type Flight struct {
	ID              string    `json:"id"`
	Airline         string    `json:"airline"` // IATA 航司代码，如 "CA"
	FlightNumber    string    `json:"flightNumber,omitempty"`
	Origin          string    `json:"origin,omitempty"`
	Destination     string    `json:"destination,omitempty"`
	DepartureAt     time.Time `json:"departureAt"`
	ArrivalAt       time.Time `json:"arrivalAt,omitzero"`
	DurationMinutes int       `json:"durationMinutes"`
	Stops           int       `json:"stops"`
	Price           float64   `json:"price"`
	Currency        string    `json:"currency,omitempty"`
	SeatsAvailable  int       `json:"seatsAvailable"`
}

// DepartureHour 返回起飞时刻的小时数（含分钟小数），按报价自带时区计算。
func (f Flight) DepartureHour() float64 {
	if f.DepartureAt.IsZero() {
		return 0
	}
	return float64(f.DepartureAt.Hour()) + float64(f.DepartureAt.Minute())/60
}

// FlightItem 把航班转换为可打分的 Item。
func FlightItem(f Flight) *Item {
	it := NewItem(f.ID)
	it.Features[FeaturePrice] = f.Price
	it.Features[FeatureDuration] = float64(f.DurationMinutes)
	it.Features[FeatureStops] = float64(f.Stops)
	it.Features[FeatureDepartureHour] = f.DepartureHour()
	it.Features[FeatureSeats] = float64(f.SeatsAvailable)
	if f.Airline != "" {
		it.Tags[TagAirline] = []string{f.Airline}
	}
	it.Meta[MetaFlight] = f
	return it
}

// FlightItems 批量转换，保持输入顺序。
func FlightItems(flights []Flight) []*Item {
	items := make([]*Item, 0, len(flights))
	for _, f := range flights {
		items = append(items, FlightItem(f))
	}
	return items
}
