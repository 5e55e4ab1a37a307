// Package builders 注册内置 Node 的配置构建逻辑。
// 入口处 import _ "github.com/rushteam/tripkit/config/builders" 即可启用。
package builders

import (
	"fmt"

	"github.com/rushteam/tripkit/config"
	"github.com/rushteam/tripkit/core"
	"github.com/rushteam/tripkit/filter"
	"github.com/rushteam/tripkit/model"
	"github.com/rushteam/tripkit/pipeline"
	"github.com/rushteam/tripkit/pkg/conv"
	"github.com/rushteam/tripkit/rank"
	"github.com/rushteam/tripkit/rerank"
)

func init() {
	config.Register("filter", BuildFilterNode)
	config.Register("rank.flight", BuildFlightNode)
	config.Register("rank.hotel", BuildHotelNode)
	config.Register("rank.linear", BuildLinearNode)
	config.Register("rerank.topn", BuildTopNNode)
	config.Register("rerank.diversity", BuildDiversityNode)
}

// BuildFilterNode 构建过滤 Node：
//
//	filters:
//	  - type: expr
//	    expr: item.features.price > 800.0
//	  - type: blocklist
//	    tag_key: airline
//	    values: [XX]
//	  - type: max_price
//	    max: 500
//	    param: budget
func BuildFilterNode(cfg map[string]any) (pipeline.Node, error) {
	filtersConfig, ok := cfg["filters"].([]any)
	if !ok {
		return nil, fmt.Errorf("filters not found or invalid")
	}
	filters := make([]filter.Filter, 0, len(filtersConfig))
	for _, fc := range filtersConfig {
		filterMap, ok := fc.(map[string]any)
		if !ok {
			continue
		}
		filterType := conv.ConfigGet(filterMap, "type", "")
		switch filterType {
		case "expr":
			expr := conv.ConfigGet(filterMap, "expr", "")
			if expr == "" {
				return nil, fmt.Errorf("expr filter: expr not found")
			}
			f, err := filter.NewExprFilter(expr)
			if err != nil {
				return nil, err
			}
			filters = append(filters, f)
		case "blocklist":
			filters = append(filters, filter.NewBlocklistFilter(
				conv.ConfigGet(filterMap, "tag_key", ""),
				conv.SliceAnyToString(filterMap["values"]),
				nil,
				conv.ConfigGet(filterMap, "key_prefix", ""),
			))
		case "max_price":
			filters = append(filters, &filter.MaxValueFilter{
				Feature: core.FeaturePrice,
				Max:     conv.ConfigGetFloat64(filterMap, "max", 0),
				Param:   conv.ConfigGet(filterMap, "param", ""),
			})
		default:
			return nil, fmt.Errorf("unknown filter type: %s (supported: expr, blocklist, max_price)", filterType)
		}
	}
	return &filter.FilterNode{Filters: filters}, nil
}

// BuildFlightNode 构建航班排序 Node，preset 为基础，再叠加显式配置的字段。
func BuildFlightNode(cfg map[string]any) (pipeline.Node, error) {
	opts, err := rank.DefaultPresetBook().Flight(conv.ConfigGet(cfg, "preset", ""))
	if err != nil {
		return nil, err
	}
	opts = opts.Merge(rank.FlightOptions{
		PriceWeight:         conv.ConfigGetFloat64Ptr(cfg, "price_weight"),
		DurationWeight:      conv.ConfigGetFloat64Ptr(cfg, "duration_weight"),
		StopsWeight:         conv.ConfigGetFloat64Ptr(cfg, "stops_weight"),
		DepartureTimeWeight: conv.ConfigGetFloat64Ptr(cfg, "departure_time_weight"),
		AvailabilityWeight:  conv.ConfigGetFloat64Ptr(cfg, "availability_weight"),
		PreferredAirlines:   conv.SliceAnyToString(cfg["preferred_airlines"]),
		MaxStops:            intPtr(cfg, "max_stops"),
		DepartureWindow:     windowFrom(cfg["departure_window"]),
	})
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &rank.FlightNode{Options: opts}, nil
}

// BuildHotelNode 构建酒店排序 Node。
func BuildHotelNode(cfg map[string]any) (pipeline.Node, error) {
	opts, err := rank.DefaultPresetBook().Hotel(conv.ConfigGet(cfg, "preset", ""))
	if err != nil {
		return nil, err
	}
	opts = opts.Merge(rank.HotelOptions{
		PriceWeight:        conv.ConfigGetFloat64Ptr(cfg, "price_weight"),
		DistanceWeight:     conv.ConfigGetFloat64Ptr(cfg, "distance_weight"),
		RatingWeight:       conv.ConfigGetFloat64Ptr(cfg, "rating_weight"),
		AmenitiesWeight:    conv.ConfigGetFloat64Ptr(cfg, "amenities_weight"),
		CancellationWeight: conv.ConfigGetFloat64Ptr(cfg, "cancellation_weight"),
		PreferredAmenities: conv.SliceAnyToString(cfg["preferred_amenities"]),
		MaxDistance:        conv.ConfigGetFloat64Ptr(cfg, "max_distance"),
	})
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &rank.HotelNode{Options: opts}, nil
}

// BuildLinearNode 构建基于原始特征的线性模型排序 Node：
// model_path 指向 JSON 模型文件；或直接配置 weights / bias / logistic。
func BuildLinearNode(cfg map[string]any) (pipeline.Node, error) {
	if path := conv.ConfigGet(cfg, "model_path", ""); path != "" {
		m, err := model.LoadLinearModel(path)
		if err != nil {
			return nil, err
		}
		return &rank.ModelNode{Model: m}, nil
	}

	weightsMap, ok := cfg["weights"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("weights not found")
	}
	return &rank.ModelNode{Model: &model.LinearModel{
		Bias:     conv.ConfigGetFloat64(cfg, "bias", 0),
		Weights:  conv.MapToFloat64(weightsMap),
		Logistic: conv.ConfigGet(cfg, "logistic", false),
	}}, nil
}

func BuildTopNNode(cfg map[string]any) (pipeline.Node, error) {
	return &rerank.TopNNode{N: int(conv.ConfigGetInt64(cfg, "n", 0))}, nil
}

func BuildDiversityNode(cfg map[string]any) (pipeline.Node, error) {
	return &rerank.Diversity{
		TagKey:      conv.ConfigGet(cfg, "tag_key", core.TagAirline),
		MaxPerGroup: int(conv.ConfigGetInt64(cfg, "max_per_group", 1)),
	}, nil
}

func intPtr(cfg map[string]any, key string) *int {
	v, ok := cfg[key]
	if !ok {
		return nil
	}
	i, ok := conv.ToInt(v)
	if !ok {
		return nil
	}
	return &i
}

func windowFrom(v any) *rank.TimeWindow {
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	return &rank.TimeWindow{
		Start: conv.ConfigGetFloat64(m, "start", rank.DefaultDepartureWindow.Start),
		End:   conv.ConfigGetFloat64(m, "end", rank.DefaultDepartureWindow.End),
	}
}
