package filter

import (
	"context"

	"github.com/rushteam/cinekit/core"
	"github.com/rushteam/cinekit/pkg/conv"
)

// MinRatingFilter 按评分下限过滤，评分低于阈值的电影被移除。
// 阈值优先取 rctx.Params["min_rating"]，其次取静态配置。
type MinRatingFilter struct {
	// MinRating 静态评分下限，0 表示不过滤
	MinRating float64
}

func (f *MinRatingFilter) Name() string {
	return "filter.min_rating"
}

func (f *MinRatingFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil {
		return true, nil
	}
	min := f.MinRating
	if rctx != nil && rctx.Params != nil {
		if v, ok := rctx.Params["min_rating"]; ok {
			if f, ok := conv.ToFloat64(v); ok {
				min = f
			}
		}
	}
	if min <= 0 {
		return false, nil
	}
	return item.Rating < min, nil
}
