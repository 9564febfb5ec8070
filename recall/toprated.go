package recall

import (
	"context"
	"sort"

	"github.com/rushteam/cinekit/core"
	"github.com/rushteam/cinekit/pipeline"
)

// TopRated 是高分榜召回源，非个性化，常用作冷启动兜底。
// - 如果 Store 实现了 KeyValueStore，优先读有序集合（按评分降序的 zset）
// - 否则回落到扫片库按 Rating 降序排序
// 同时实现 Source 和 Node 接口，可以直接在 Pipeline 中使用。
type TopRated struct {
	Store   core.Store
	Key     string // zset key，例如 "movies:top_rated"
	Catalog core.MovieCatalog

	// TopK 返回数量，<=0 时取默认值 20
	TopK int
}

func (r *TopRated) Name() string        { return "recall.top_rated" }
func (r *TopRated) Kind() pipeline.Kind { return pipeline.KindRecall }

// Process 实现 Node 接口，直接调用 Recall
func (r *TopRated) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	return r.Recall(ctx, rctx)
}

// Recall 实现 Source 接口
func (r *TopRated) Recall(
	ctx context.Context,
	_ *core.RecommendContext,
) ([]*core.Item, error) {
	topK := r.TopK
	if topK <= 0 {
		topK = 20
	}

	// 优先走有序集合：分数即评分，倒序取 TopK
	if r.Store != nil && r.Key != "" {
		if kv, ok := r.Store.(core.KeyValueStore); ok {
			members, err := kv.ZRange(ctx, r.Key, 0, int64(topK-1))
			if err == nil && len(members) > 0 {
				out := make([]*core.Item, 0, len(members))
				for _, id := range members {
					out = append(out, core.NewItem(id))
				}
				return out, nil
			}
		}
	}

	// 回落：扫片库按评分降序
	if r.Catalog == nil {
		return nil, nil
	}
	items, err := r.Catalog.ListCandidates(ctx, core.CandidateFilter{})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Rating > items[j].Rating
	})
	if len(items) > topK {
		items = items[:topK]
	}
	return items, nil
}
