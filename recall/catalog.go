package recall

import (
	"context"

	"github.com/rushteam/cinekit/core"
	"github.com/rushteam/cinekit/pipeline"
	"github.com/rushteam/cinekit/pkg/conv"
)

// Catalog 是片库全量召回源：按过滤条件从 MovieCatalog 拉取候选。
// 情绪匹配是全库打分排序，所以它是大多数管线的第一召回源。
// 同时实现 Source 和 Node 接口，可以直接在 Pipeline 中使用。
type Catalog struct {
	Catalog core.MovieCatalog

	// Filter 是静态过滤条件；请求级条件走 rctx.Params 覆盖：
	// min_rating / genre / dominant_emotion
	Filter core.CandidateFilter
}

func (r *Catalog) Name() string        { return "recall.catalog" }
func (r *Catalog) Kind() pipeline.Kind { return pipeline.KindRecall }

// Process 实现 Node 接口，直接调用 Recall
func (r *Catalog) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	return r.Recall(ctx, rctx)
}

// Recall 实现 Source 接口
func (r *Catalog) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
) ([]*core.Item, error) {
	if r.Catalog == nil {
		return nil, nil
	}
	filter := r.Filter
	if rctx != nil && rctx.Params != nil {
		if v, ok := rctx.Params["min_rating"]; ok {
			if f, ok := conv.ToFloat64(v); ok {
				filter.MinRating = f
			}
		}
		if v, ok := rctx.Params["genre"].(string); ok && v != "" {
			filter.Genre = v
		}
		if v, ok := rctx.Params["dominant_emotion"].(string); ok && v != "" {
			filter.DominantEmotion = v
		}
	}
	return r.Catalog.ListCandidates(ctx, filter)
}
