package model

// RankModel 是排序阶段的最小抽象：输入特征（或分项得分），输出一个可比较的分数。
// 航班/酒店打分器用 LinearModel 把各维度得分按权重聚合。
type RankModel interface {
	Name() string
	Predict(features map[string]float64) (float64, error)
}
