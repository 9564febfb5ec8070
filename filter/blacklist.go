package filter

import (
	"context"
	"encoding/json"

	"github.com/rushteam/cinekit/core"
)

// BlacklistFilter 是黑名单过滤器，过滤掉下架/屏蔽的电影。
type BlacklistFilter struct {
	// MovieIDs 是内存中的黑名单电影 ID 列表
	MovieIDs []string

	// Store 用于从存储中读取黑名单（可选）
	Store core.Store

	// Key 是 Store 中的黑名单 key（可选）
	Key string
}

func (f *BlacklistFilter) Name() string {
	return "filter.blacklist"
}

func (f *BlacklistFilter) ShouldFilter(
	ctx context.Context,
	_ *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil {
		return true, nil
	}

	for _, id := range f.MovieIDs {
		if item.ID == id {
			return true, nil
		}
	}

	if f.Store != nil && f.Key != "" {
		data, err := f.Store.Get(ctx, f.Key)
		if err == nil {
			var ids []string
			if err := json.Unmarshal(data, &ids); err == nil {
				for _, id := range ids {
					if item.ID == id {
						return true, nil
					}
				}
			}
		}
	}
	return false, nil
}
