package core

import "time"

// RankConfig 是排序相关的配置接口，用于提供默认值。
type RankConfig interface {
	// DefaultTopN 返回推荐切片（cheapest / fastest 等）的默认长度
	DefaultTopN() int

	// DefaultPreset 返回未指定 preset 时使用的权重预设名
	DefaultPreset() string

	// DefaultTimeout 返回单次排序请求（含存储读取）的默认超时时间
	DefaultTimeout() time.Duration
}

// DefaultRankConfig 是默认的排序配置实现。
type DefaultRankConfig struct{}

func (c *DefaultRankConfig) DefaultTopN() int {
	return 3
}

func (c *DefaultRankConfig) DefaultPreset() string {
	return "balanced"
}

func (c *DefaultRankConfig) DefaultTimeout() time.Duration {
	return 2 * time.Second
}
