package filter

import (
	"context"

	"github.com/rushteam/cinekit/core"
)

// InteractedFilter 过滤掉用户已经交互过（看过或点过喜欢/不喜欢）的电影。
// 个性化推荐的标配：看过但不喜欢的也不要再推。
// 为了避免逐 item 查图，交互集合在一次请求内按用户懒加载并缓存。
type InteractedFilter struct {
	Graph core.LikeGraph

	cachedUserID string
	cached       map[string]struct{}
}

// NewInteractedFilter ..
func NewInteractedFilter(graph core.LikeGraph) *InteractedFilter {
	return &InteractedFilter{Graph: graph}
}

func (f *InteractedFilter) Name() string {
	return "filter.interacted"
}

func (f *InteractedFilter) ShouldFilter(
	ctx context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil {
		return true, nil
	}
	if f.Graph == nil || rctx == nil || rctx.UserID == "" {
		return false, nil
	}

	if f.cached == nil || f.cachedUserID != rctx.UserID {
		set, err := f.Graph.InteractedMovies(ctx, rctx.UserID)
		if err != nil {
			// 图存储不可用时放行，不因观测数据缺失毁掉推荐
			return false, nil
		}
		f.cached = set
		f.cachedUserID = rctx.UserID
	}

	_, ok := f.cached[item.ID]
	return ok, nil
}
