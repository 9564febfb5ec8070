package filter

import (
	"context"

	"github.com/rushteam/cinekit/core"
	"github.com/rushteam/cinekit/pkg/dsl"
)

// ExprFilter 是基于 CEL 表达式的通用过滤器。
// 表达式返回 true 表示该电影被过滤掉。
//
// 使用示例：
//
//	f := &filter.ExprFilter{Expr: `item.rating < 6.0 || emotion.thrill < 0.3`}
type ExprFilter struct {
	Expr string
}

func (f *ExprFilter) Name() string {
	return "filter.expr"
}

func (f *ExprFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil {
		return true, nil
	}
	if f.Expr == "" {
		return false, nil
	}
	ok, err := dsl.NewEval(item, rctx).Evaluate(f.Expr)
	if err != nil {
		// 表达式错误时放行，避免配置失误清空结果集
		return false, nil
	}
	return ok, nil
}
