package model

import (
	"encoding/json"
	"fmt"
	"maps"
	"math"
	"os"
	"slices"
)

// LinearModel 是线性加权模型：score = Bias + Σ(Weight_i * Feature_i)。
//
// 不对权重做归一化：调用方传入的权重之和不为 1 时，分数也不保证落在 [0,1]。
// Logistic 为 true 时对线性结果做 Sigmoid 变换（学习得到的 LR 权重使用该模式）。
type LinearModel struct {
	Bias     float64            // 偏置项
	Weights  map[string]float64 // 特征权重，未出现的特征贡献为 0
	Logistic bool               // 是否做 Sigmoid 变换
}

// LoadLinearModel 从 JSON 文件加载模型：{"bias": 0, "weights": {...}, "logistic": false}
func LoadLinearModel(path string) (*LinearModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model file: %w", err)
	}
	var raw struct {
		Bias     float64            `json:"bias"`
		Weights  map[string]float64 `json:"weights"`
		Logistic bool               `json:"logistic"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse model file: %w", err)
	}
	return &LinearModel{Bias: raw.Bias, Weights: raw.Weights, Logistic: raw.Logistic}, nil
}

func (m *LinearModel) Name() string {
	if m.Logistic {
		return "lr"
	}
	return "linear"
}

func (m *LinearModel) Predict(features map[string]float64) (float64, error) {
	score := m.Bias
	// 按特征名顺序累加：浮点加法与顺序有关，相同输入必须得到逐位相同的分数
	for _, k := range slices.Sorted(maps.Keys(m.Weights)) {
		score += m.Weights[k] * features[k]
	}
	if m.Logistic {
		return 1 / (1 + math.Exp(-score)), nil
	}
	return score, nil
}
