package core

// MetaHotel 是 Item.Meta 中保存原始酒店报价的 key。
const MetaHotel = "hotel"

// Hotel 是调用方提供的一条酒店报价。
type Hotel struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Chain            string   `json:"chain,omitempty"`
	PricePerNight    float64  `json:"pricePerNight"`
	Currency         string   `json:"currency,omitempty"`
	DistanceKm       float64  `json:"distanceKm"` // 距目的地/会场的距离
	Rating           float64  `json:"rating"`     // 星级 0-5
	Amenities        []string `json:"amenities,omitempty"`
	FreeCancellation bool     `json:"freeCancellation"`
	Latitude         float64  `json:"latitude,omitempty"`
	Longitude        float64  `json:"longitude,omitempty"`
}

// HotelItem 把酒店报价转换为可打分的 Item。
func HotelItem(h Hotel) *Item {
	it := NewItem(h.ID)
	it.Features[FeaturePrice] = h.PricePerNight
	it.Features[FeatureDistance] = h.DistanceKm
	it.Features[FeatureRating] = h.Rating
	it.Features[FeatureAmenityCount] = float64(len(h.Amenities))
	if h.FreeCancellation {
		it.Features[FeatureFreeCancellation] = 1
	} else {
		it.Features[FeatureFreeCancellation] = 0
	}
	if len(h.Amenities) > 0 {
		it.Tags[TagAmenities] = append([]string(nil), h.Amenities...)
	}
	if h.Chain != "" {
		it.Tags[TagChain] = []string{h.Chain}
	}
	it.Meta[MetaHotel] = h
	return it
}

// HotelItems 批量转换，保持输入顺序。
func HotelItems(hotels []Hotel) []*Item {
	items := make([]*Item, 0, len(hotels))
	for _, h := range hotels {
		items = append(items, HotelItem(h))
	}
	return items
}
