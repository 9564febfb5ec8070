package rerank

import (
	"context"

	"github.com/rushteam/cinekit/core"
	"github.com/rushteam/cinekit/pipeline"
)

// GenreDiversity 是一个简单的多样性 ReRank：限制同一 genre 的连续霸榜。
// 每个 genre 最多保留 MaxPerGenre 部（按排序先后计数），
// 多 genre 电影按其首个 genre 计数；没有 genre 的电影不受限。
type GenreDiversity struct {
	// MaxPerGenre 每个 genre 最多保留的数量，<=0 时取默认值 3
	MaxPerGenre int
}

func (n *GenreDiversity) Name() string {
	return "rerank.genre_diversity"
}

func (n *GenreDiversity) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *GenreDiversity) Process(
	_ context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) == 0 {
		return items, nil
	}

	max := n.MaxPerGenre
	if max <= 0 {
		max = 3
	}

	counts := make(map[string]int, 16)
	out := make([]*core.Item, 0, len(items))
	for _, it := range items {
		if it == nil {
			continue
		}
		if len(it.Genres) == 0 {
			out = append(out, it)
			continue
		}
		genre := it.Genres[0]
		if counts[genre] >= max {
			continue
		}
		counts[genre]++
		out = append(out, it)
	}
	return out, nil
}
