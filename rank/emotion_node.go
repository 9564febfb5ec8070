package rank

import (
	"context"
	"sort"

	"github.com/rushteam/cinekit/core"
	"github.com/rushteam/cinekit/emotion"
	"github.com/rushteam/cinekit/model"
	"github.com/rushteam/cinekit/pipeline"
	"github.com/rushteam/cinekit/pkg/utils"
)

// EmotionNode 是情绪匹配排序 Node：用 Scorer 对候选逐一打分并降序排序。
// - 候选缺电影数据（只有 ID 的召回结果）时先从 Catalog 补全
// - 没有影评画像的电影在查询期用 genre 表推导兜底画像，该画像不落库
// - 写入 labels：rank_model / profile_source
type EmotionNode struct {
	Model   model.Scorer
	Catalog core.MovieCatalog // 可选，用于补全只带 ID 的候选
}

func (n *EmotionNode) Name() string        { return "rank.emotion" }
func (n *EmotionNode) Kind() pipeline.Kind { return pipeline.KindRank }

func (n *EmotionNode) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if n.Model == nil || len(items) == 0 {
		return items, nil
	}
	var query core.EmotionVector
	if rctx != nil {
		query = rctx.Query
	}

	for _, it := range items {
		if it == nil {
			continue
		}
		n.hydrate(ctx, it)

		profile := it.Profile
		if profile == nil {
			// 查询期兜底：按 genre 推导，不写回存储
			profile = emotion.FromGenres(it.Genres)
		}
		score, err := n.Model.Score(query, profile)
		if err != nil {
			return nil, err
		}
		it.Score = score
		it.PutLabel("rank_model", utils.Label{Value: n.Model.Name(), Source: "rank"})
		it.PutLabel("profile_source", utils.Label{Value: profile.Source, Source: "rank"})
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i] == nil {
			return false
		}
		if items[j] == nil {
			return true
		}
		return items[i].Score > items[j].Score
	})
	return items, nil
}

// hydrate 为只带 ID 的候选补全片库数据；补全失败保持原样。
func (n *EmotionNode) hydrate(ctx context.Context, it *core.Item) {
	if n.Catalog == nil || it.Title != "" || it.Profile != nil {
		return
	}
	movie, err := n.Catalog.GetMovie(ctx, it.ID)
	if err != nil || movie == nil {
		return
	}
	it.Title = movie.Title
	it.Rating = movie.Rating
	it.Genres = movie.Genres
	it.Profile = movie.Profile
	if it.Meta == nil {
		it.Meta = movie.Meta
	}
}
