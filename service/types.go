package service

import (
	"github.com/rushteam/tripkit/core"
	"github.com/rushteam/tripkit/rank"
)

// FlightRequest 是航班排序请求。
type FlightRequest struct {
	UserID  string             `json:"userId,omitempty"`
	Preset  string             `json:"preset,omitempty"`
	Options rank.FlightOptions `json:"options"`
	Filter  string             `json:"filter,omitempty"` // CEL 表达式，为 true 的航班被移除
	Params  map[string]any     `json:"params,omitempty"` // 表达式中通过 rctx.params 访问
	TopN    int                `json:"topN,omitempty"`
	Flights []core.Flight      `json:"flights"`
}

// FlightResult 是航班排序结果。
type FlightResult struct {
	RankID          string                     `json:"rankId"`
	Preset          string                     `json:"preset"`
	Options         rank.FlightOptions         `json:"options"` // 生效的选项
	Total           int                        `json:"total"`   // 过滤前数量
	Items           []*core.Item               `json:"items"`
	Recommendations rank.FlightRecommendations `json:"recommendations"`
}

// HotelRequest 是酒店排序请求。
type HotelRequest struct {
	UserID  string            `json:"userId,omitempty"`
	Preset  string            `json:"preset,omitempty"`
	Options rank.HotelOptions `json:"options"`
	Filter  string            `json:"filter,omitempty"`
	Params  map[string]any    `json:"params,omitempty"`
	TopN    int               `json:"topN,omitempty"`
	Hotels  []core.Hotel      `json:"hotels"`
}

// HotelResult 是酒店排序结果。
type HotelResult struct {
	RankID          string                    `json:"rankId"`
	Preset          string                    `json:"preset"`
	Options         rank.HotelOptions         `json:"options"`
	Total           int                       `json:"total"`
	Items           []*core.Item              `json:"items"`
	Recommendations rank.HotelRecommendations `json:"recommendations"`
}

// TripRequest 同时排序一次行程的航班与酒店，两者至少有一个。
// 顶层 UserID 在子请求未指定时向下传递。
type TripRequest struct {
	UserID  string         `json:"userId,omitempty"`
	Flights *FlightRequest `json:"flights,omitempty"`
	Hotels  *HotelRequest  `json:"hotels,omitempty"`
}

// TripResult 是行程排序结果。
type TripResult struct {
	RankID  string        `json:"rankId"`
	Flights *FlightResult `json:"flights,omitempty"`
	Hotels  *HotelResult  `json:"hotels,omitempty"`
}

// Preferences 是用户保存的排序偏好，在 preset 之上、请求选项之下生效。
type Preferences struct {
	Preset string             `json:"preset,omitempty"`
	Flight rank.FlightOptions `json:"flight"`
	Hotel  rank.HotelOptions  `json:"hotel"`
}
