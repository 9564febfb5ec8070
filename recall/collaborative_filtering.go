package recall

import (
	"context"
	"sort"
	"strconv"

	"github.com/rushteam/cinekit/core"
	"github.com/rushteam/cinekit/pipeline"
	"github.com/rushteam/cinekit/pkg/utils"
)

// GraphCF 是基于喜欢关系图的协同过滤召回源（User-based CF 的图实现）。
//
// 核心思想："喜欢过同一批电影的用户，口味相似"
//
// 算法流程：
//  1. 取目标用户喜欢的电影集合 L
//  2. 沿 L 的反向边找邻居用户，按"共同喜欢数"给邻居打分
//  3. 取 TopK 邻居（默认 5）
//  4. 候选 = 邻居喜欢的电影 - 目标用户交互过的电影（含不喜欢的）
//  5. 按"推荐该片的邻居数"降序排序
//
// 工程特征：
//  - 相似度用重叠计数而不是余弦：喜欢边是布尔边，没有评分向量可归一化
//  - 排除集合是"交互过"而不是"喜欢过"：看过但不喜欢的也不要再推
//  - 可解释性强：score 直接是邻居票数，能直接回答"为什么推这部"
//
// 冷启动：没有任何喜欢记录的用户返回空结果，由上游兜底到非个性化召回。
type GraphCF struct {
	Graph core.LikeGraph

	// TopKNeighbors 参与投票的邻居数，<=0 时取默认值 5
	TopKNeighbors int

	// TopKItems 最终返回的候选数，<=0 表示不截断
	TopKItems int
}

const defaultTopKNeighbors = 5

func (r *GraphCF) Name() string        { return "recall.graph_cf" }
func (r *GraphCF) Kind() pipeline.Kind { return pipeline.KindRecall }

// Process 实现 Node 接口，直接调用 Recall
func (r *GraphCF) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	return r.Recall(ctx, rctx)
}

// Recall 实现 Source 接口
func (r *GraphCF) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
) ([]*core.Item, error) {
	if r.Graph == nil || rctx == nil || rctx.UserID == "" {
		return nil, nil
	}

	liked, err := r.Graph.LikedMovies(ctx, rctx.UserID)
	if err != nil {
		return nil, err
	}
	if len(liked) == 0 {
		return nil, nil
	}

	// 邻居打分：共同喜欢的电影数
	overlap := make(map[string]int)
	for movieID := range liked {
		users, err := r.Graph.UsersWhoLiked(ctx, movieID)
		if err != nil {
			return nil, err
		}
		for userID := range users {
			if userID == rctx.UserID {
				continue
			}
			overlap[userID]++
		}
	}
	if len(overlap) == 0 {
		return nil, nil
	}

	type neighbor struct {
		userID string
		common int
	}
	neighbors := make([]neighbor, 0, len(overlap))
	for userID, common := range overlap {
		neighbors = append(neighbors, neighbor{userID: userID, common: common})
	}
	// 重叠数降序，相同时按 ID 升序保证确定性
	sort.Slice(neighbors, func(i, j int) bool {
		if neighbors[i].common != neighbors[j].common {
			return neighbors[i].common > neighbors[j].common
		}
		return neighbors[i].userID < neighbors[j].userID
	})
	topK := r.TopKNeighbors
	if topK <= 0 {
		topK = defaultTopKNeighbors
	}
	if len(neighbors) > topK {
		neighbors = neighbors[:topK]
	}

	// 候选排除集：目标用户交互过的全部电影（不止喜欢的）
	interacted, err := r.Graph.InteractedMovies(ctx, rctx.UserID)
	if err != nil {
		return nil, err
	}

	// votes[movieID] = 喜欢该片的不同邻居数
	votes := make(map[string]int)
	for _, nb := range neighbors {
		nbLiked, err := r.Graph.LikedMovies(ctx, nb.userID)
		if err != nil {
			return nil, err
		}
		for movieID := range nbLiked {
			if _, ok := interacted[movieID]; ok {
				continue
			}
			votes[movieID]++
		}
	}

	type candidate struct {
		movieID string
		count   int
	}
	candidates := make([]candidate, 0, len(votes))
	for movieID, count := range votes {
		candidates = append(candidates, candidate{movieID: movieID, count: count})
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].count != candidates[j].count {
			return candidates[i].count > candidates[j].count
		}
		return candidates[i].movieID < candidates[j].movieID
	})
	if r.TopKItems > 0 && len(candidates) > r.TopKItems {
		candidates = candidates[:r.TopKItems]
	}

	out := make([]*core.Item, 0, len(candidates))
	for _, c := range candidates {
		it := core.NewItem(c.movieID)
		it.Score = float64(c.count)
		it.PutLabel("recall_source", utils.Label{Value: "graph_cf", Source: "recall"})
		it.PutLabel("cf_votes", utils.Label{Value: strconv.Itoa(c.count), Source: "recall"})
		out = append(out, it)
	}
	return out, nil
}
