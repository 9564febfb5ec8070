package dsl

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/rushteam/cinekit/core"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvOnce sync.Once
)

// initCELEnv 初始化 CEL 环境，定义变量和函数
func initCELEnv() (*cel.Env, error) {
	env, err := cel.NewEnv(
		// 定义变量类型
		cel.Variable("item", cel.DynType),
		cel.Variable("label", cel.DynType),
		cel.Variable("emotion", cel.DynType),
		cel.Variable("rctx", cel.DynType),
	)
	return env, err
}

// getCELEnv 获取或创建 CEL 环境
func getCELEnv() (*cel.Env, error) {
	var err error
	celEnvOnce.Do(func() {
		celEnv, err = initCELEnv()
	})
	return celEnv, err
}

// Eval 是规则 DSL 解释器，使用 CEL (Common Expression Language) 实现。
// 用于按规则过滤候选电影（filter.Expr），例如运营策略、场景化降权。
//
// 表达式语法（CEL 标准语法）：
//   - 基础：label.recall_source == "cf" / item.rating >= 6.0
//   - 情绪：emotion.thrill > 0.7 / item.dominant_emotion == "fear"
//   - 逻辑：emotion.joy > 0.5 && item.rating > 7.0
//   - 存在性：label.recall_source != null
//
// 示例：
//   - `item.rating >= 6.0 && emotion.fear < 0.3` → 高分非恐怖向
//   - `label.recall_source.contains("cf")` → 协同过滤召回的候选
type Eval struct {
	item *core.Item
	rctx *core.RecommendContext
	env  *cel.Env
}

// NewEval 创建一个新的 DSL 解释器。
func NewEval(item *core.Item, rctx *core.RecommendContext) *Eval {
	env, _ := getCELEnv()
	return &Eval{
		item: item,
		rctx: rctx,
		env:  env,
	}
}

// Evaluate 解析并执行 DSL 表达式，返回布尔结果。
// 空表达式恒为 true。
// 注意：has(label.key) 可以用 label.key != null 替代。
func (e *Eval) Evaluate(expr string) (bool, error) {
	if expr == "" {
		return true, nil
	}
	if e.env == nil {
		return false, fmt.Errorf("cel env not initialized")
	}

	// 编译表达式
	ast, issues := e.env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return false, fmt.Errorf("compile error: %v", issues.Err())
	}

	// 创建程序
	prg, err := e.env.Program(ast)
	if err != nil {
		return false, fmt.Errorf("program error: %v", err)
	}

	// 执行表达式
	out, _, err := prg.Eval(e.buildInput())
	if err != nil {
		// 对于不存在的 key，CEL 会返回错误
		// 用户应该使用 label.key != null 来检查存在性，而不是直接访问
		return false, fmt.Errorf("eval error: %v", err)
	}

	// 转换为布尔值
	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("expression must return boolean, got %T", out.Value())
	}

	return result, nil
}

// buildInput 构建 CEL 表达式的输入数据
func (e *Eval) buildInput() map[string]any {
	// 构建 label map
	labels := make(map[string]any)
	for k, v := range e.item.Labels {
		labels[k] = map[string]any{
			"value":  v.Value,
			"source": v.Source,
		}
	}

	// 情绪画像的全部可查询维度（基础 + 派生），缺画像时为空 map
	emotion := make(map[string]any)
	if e.item.Profile != nil {
		for _, dim := range core.BaseEmotions {
			emotion[dim] = e.item.Profile.Value(dim)
		}
		for _, dim := range core.DerivedEmotions {
			emotion[dim] = e.item.Profile.Value(dim)
		}
	}

	dominant := ""
	if e.item.Profile != nil {
		dominant = e.item.Profile.DominantEmotion
	}

	item := map[string]any{
		"id":               e.item.ID,
		"title":            e.item.Title,
		"score":            e.item.Score,
		"rating":           e.item.Rating,
		"genres":           e.item.Genres,
		"dominant_emotion": dominant,
		"meta":             e.item.Meta,
		"labels":           labels,
	}

	rctx := map[string]any{
		"user_id": e.rctx.UserID,
		"scene":   e.rctx.Scene,
		"mood":    e.rctx.Mood,
		"params":  e.rctx.Params,
	}

	// label 提供顶层访问：label.recall_source 直接取 value。
	// CEL 访问不存在的 key 会报错，用 label.key != null 检查存在性。
	labelAccessor := make(map[string]any)
	for k, v := range labels {
		labelAccessor[k] = v.(map[string]any)["value"]
	}

	return map[string]any{
		"item":    item,
		"label":   labelAccessor,
		"emotion": emotion,
		"rctx":    rctx,
	}
}
