package recall

import (
	"context"

	"github.com/rushteam/cinekit/core"
	"github.com/rushteam/cinekit/pipeline"
	"github.com/rushteam/cinekit/pkg/utils"
)

// WatchlistRecall 从用户的想看清单召回。
// 典型场景："继续你想看的"模块，或给重排序提供加权信号。
type WatchlistRecall struct {
	Watchlist core.Watchlist

	// TopK 返回数量，<=0 表示全量
	TopK int
}

func (r *WatchlistRecall) Name() string        { return "recall.watchlist" }
func (r *WatchlistRecall) Kind() pipeline.Kind { return pipeline.KindRecall }

// Process 实现 Node 接口，直接调用 Recall
func (r *WatchlistRecall) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	return r.Recall(ctx, rctx)
}

// Recall 实现 Source 接口
func (r *WatchlistRecall) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
) ([]*core.Item, error) {
	if r.Watchlist == nil || rctx == nil || rctx.UserID == "" {
		return nil, nil
	}
	ids, err := r.Watchlist.GetWatchlist(ctx, rctx.UserID)
	if err != nil {
		return nil, err
	}
	if r.TopK > 0 && len(ids) > r.TopK {
		ids = ids[:r.TopK]
	}
	out := make([]*core.Item, 0, len(ids))
	for _, id := range ids {
		it := core.NewItem(id)
		it.PutLabel("recall_source", utils.Label{Value: "watchlist", Source: "recall"})
		out = append(out, it)
	}
	return out, nil
}
