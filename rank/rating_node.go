package rank

import (
	"context"
	"sort"

	"github.com/rushteam/cinekit/core"
	"github.com/rushteam/cinekit/pipeline"
)

// RatingNode 按电影评分降序排序，不依赖情绪画像。
// 高分榜等非个性化结果用它兜底，Score 统一置 1.0 表示无匹配语义。
type RatingNode struct{}

func (n *RatingNode) Name() string        { return "rank.rating" }
func (n *RatingNode) Kind() pipeline.Kind { return pipeline.KindRank }

func (n *RatingNode) Process(
	_ context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) == 0 {
		return items, nil
	}
	for _, it := range items {
		if it == nil {
			continue
		}
		it.Score = 1.0
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i] == nil {
			return false
		}
		if items[j] == nil {
			return true
		}
		return items[i].Rating > items[j].Rating
	})
	return items, nil
}
