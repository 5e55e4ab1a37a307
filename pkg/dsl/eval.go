package dsl

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/rushteam/tripkit/core"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvErr  error
	celEnvOnce sync.Once

	// programs 缓存已编译的表达式：expr -> *Program
	programs sync.Map
)

// initCELEnv 初始化 CEL 环境，定义变量
func initCELEnv() (*cel.Env, error) {
	return cel.NewEnv(
		cel.Variable("item", cel.DynType),
		cel.Variable("label", cel.DynType),
		cel.Variable("rctx", cel.DynType),
	)
}

// getCELEnv 获取或创建 CEL 环境
func getCELEnv() (*cel.Env, error) {
	celEnvOnce.Do(func() {
		celEnv, celEnvErr = initCELEnv()
	})
	return celEnv, celEnvErr
}

// Program 是编译后的过滤表达式，使用 CEL (Common Expression Language)。
// 编译一次，可并发对多个 Item 求值。
//
// 可访问的变量：
//   - item.id / item.score
//   - item.features.price / item.features.stops / item.features.rating ...
//   - item.tags.airline / item.tags.amenities（字符串列表）
//   - label.<key>（label 的 value）
//   - rctx.user_id / rctx.scene / rctx.params.<key>（仅基础类型参数）
//
// 示例：
//   - `item.features.price > 800.0`
//   - `item.features.stops >= 2.0 && item.features.duration > 720.0`
//   - `"CA" in item.tags.airline`
//   - `"pool" in item.tags.amenities && item.features.rating >= 4.0`
//   - `item.features.price > rctx.params.budget`
type Program struct {
	expr string
	prg  cel.Program
}

// Compile 编译表达式并缓存；同一表达式多次编译返回同一个 Program。
func Compile(expr string) (*Program, error) {
	if cached, ok := programs.Load(expr); ok {
		return cached.(*Program), nil
	}

	env, err := getCELEnv()
	if err != nil {
		return nil, fmt.Errorf("cel env: %w", err)
	}

	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile error: %w", issues.Err())
	}

	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program error: %w", err)
	}

	p := &Program{expr: expr, prg: prg}
	actual, _ := programs.LoadOrStore(expr, p)
	return actual.(*Program), nil
}

// Expr 返回原始表达式。
func (p *Program) Expr() string { return p.expr }

// Match 对 item 求值，表达式必须返回 bool。空表达式恒为 true。
func (p *Program) Match(item *core.Item, rctx *core.RankContext) (bool, error) {
	if p == nil || p.expr == "" {
		return true, nil
	}

	out, _, err := p.prg.Eval(buildInput(item, rctx))
	if err != nil {
		// 访问不存在的 key 时 CEL 会返回错误，表达式应使用 has() 判断存在性
		return false, fmt.Errorf("eval error: %w", err)
	}

	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("expression must return boolean, got %T", out.Value())
	}
	return result, nil
}

// Evaluate 是 Compile + Match 的便捷形式。
func Evaluate(expr string, item *core.Item, rctx *core.RankContext) (bool, error) {
	if expr == "" {
		return true, nil
	}
	p, err := Compile(expr)
	if err != nil {
		return false, err
	}
	return p.Match(item, rctx)
}

// buildInput 构建 CEL 表达式的输入数据
func buildInput(item *core.Item, rctx *core.RankContext) map[string]any {
	labels := make(map[string]any)
	features := map[string]float64{}
	tags := map[string][]string{}
	itemMap := map[string]any{
		"id":       "",
		"score":    0.0,
		"features": features,
		"tags":     tags,
	}
	if item != nil {
		itemMap["id"] = item.ID
		itemMap["score"] = item.Score
		if item.Features != nil {
			itemMap["features"] = item.Features
		}
		if item.Tags != nil {
			itemMap["tags"] = item.Tags
		}
		for k, v := range item.Labels {
			labels[k] = v.Value
		}
	}

	rctxMap := map[string]any{
		"user_id": "",
		"scene":   "",
		"params":  map[string]any{},
	}
	if rctx != nil {
		rctxMap["user_id"] = rctx.UserID
		rctxMap["scene"] = rctx.Scene
		rctxMap["params"] = primitiveParams(rctx.Params)
	}

	return map[string]any{
		"item":  itemMap,
		"label": labels,
		"rctx":  rctxMap,
	}
}

// primitiveParams 只保留 CEL 可直接识别的基础类型参数（排序选项等结构体不暴露给表达式）。
func primitiveParams(params map[string]any) map[string]any {
	out := make(map[string]any, len(params))
	for k, v := range params {
		switch val := v.(type) {
		case string, bool, float64, int64:
			out[k] = val
		case int:
			out[k] = int64(val)
		case float32:
			out[k] = float64(val)
		case []string:
			out[k] = val
		}
	}
	return out
}
