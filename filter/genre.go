package filter

import (
	"context"
	"strings"

	"github.com/rushteam/cinekit/core"
)

// GenreFilter 只保留带有目标 genre 的电影，大小写不敏感。
// 目标优先取 rctx.Params["genre"]，其次取静态配置；无目标时不过滤。
// 用在召回源不支持 genre 条件的路径上（如 zset 高分榜召回）。
type GenreFilter struct {
	Genre string
}

func (f *GenreFilter) Name() string {
	return "filter.genre"
}

func (f *GenreFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil {
		return true, nil
	}
	target := f.Genre
	if rctx != nil && rctx.Params != nil {
		if v, ok := rctx.Params["genre"].(string); ok && v != "" {
			target = v
		}
	}
	if target == "" {
		return false, nil
	}
	for _, g := range item.Genres {
		if strings.EqualFold(g, target) {
			return false, nil
		}
	}
	return true, nil
}
