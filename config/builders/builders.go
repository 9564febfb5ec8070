// Package builders 注册内置 Node 的配置构建器。
// 只有不依赖外部存储/服务的 Node 能纯配置构建；
// 需要 Catalog / Graph 等依赖的 Node 请用代码组装。
package builders

import (
	"fmt"
	"time"

	"github.com/rushteam/cinekit/config"
	"github.com/rushteam/cinekit/filter"
	"github.com/rushteam/cinekit/model"
	"github.com/rushteam/cinekit/pipeline"
	"github.com/rushteam/cinekit/pkg/conv"
	"github.com/rushteam/cinekit/rank"
	"github.com/rushteam/cinekit/recall"
	"github.com/rushteam/cinekit/rerank"
)

func init() {
	config.Register("recall.fanout", BuildFanoutNode)
	config.Register("filter", BuildFilterNode)
	config.Register("rank.emotion", BuildEmotionNode)
	config.Register("rank.rating", BuildRatingNode)
	config.Register("rerank.topn", BuildTopNNode)
	config.Register("rerank.genre_diversity", BuildGenreDiversityNode)
}

// BuildFanoutNode 构建召回 fan-out 节点。
// 召回源都依赖存储，不能纯配置构建；这里只构建 fan-out 骨架，
// 调用方需在构建后注入 Sources。
func BuildFanoutNode(cfg map[string]interface{}) (pipeline.Node, error) {
	fanout := &recall.Fanout{
		Dedup:         conv.ConfigGet(cfg, "dedup", true),
		MergeStrategy: conv.ConfigGet(cfg, "merge_strategy", "first"),
	}
	if sec := conv.ConfigGetInt64(cfg, "timeout", 0); sec > 0 {
		fanout.Timeout = time.Duration(sec) * time.Second
	}
	if n := conv.ConfigGetInt64(cfg, "max_concurrent", 0); n > 0 {
		fanout.MaxConcurrent = int(n)
	}
	return fanout, nil
}

// BuildFilterNode 构建组合过滤节点。
// 支持的 filter type：min_rating / dominant_emotion / has_profile / blacklist / expr
func BuildFilterNode(cfg map[string]interface{}) (pipeline.Node, error) {
	filtersConfig, ok := cfg["filters"].([]interface{})
	if !ok {
		return nil, fmt.Errorf("filters not found or invalid")
	}
	filters := make([]filter.Filter, 0, len(filtersConfig))
	for _, fc := range filtersConfig {
		filterMap, ok := fc.(map[string]interface{})
		if !ok {
			continue
		}
		filterType := conv.ConfigGet(filterMap, "type", "")
		switch filterType {
		case "min_rating":
			filters = append(filters, &filter.MinRatingFilter{
				MinRating: conv.ConfigGetFloat64(filterMap, "min_rating", 0),
			})
		case "dominant_emotion":
			filters = append(filters, &filter.DominantEmotionFilter{
				Emotion: conv.ConfigGet(filterMap, "emotion", ""),
			})
		case "genre":
			filters = append(filters, &filter.GenreFilter{
				Genre: conv.ConfigGet(filterMap, "genre", ""),
			})
		case "has_profile":
			filters = append(filters, &filter.HasProfileFilter{})
		case "blacklist":
			ids := conv.SliceAnyToString(filterMap["movie_ids"])
			if ids == nil {
				ids = []string{}
			}
			filters = append(filters, &filter.BlacklistFilter{MovieIDs: ids})
		case "expr":
			expr := conv.ConfigGet(filterMap, "expr", "")
			if expr == "" {
				return nil, fmt.Errorf("expr filter: expr not found")
			}
			filters = append(filters, &filter.ExprFilter{Expr: expr})
		default:
			return nil, fmt.Errorf("unknown filter type: %s", filterType)
		}
	}
	return &filter.FilterNode{Filters: filters}, nil
}

// BuildEmotionNode 构建情绪匹配排序节点（默认加权匹配模型）。
func BuildEmotionNode(cfg map[string]interface{}) (pipeline.Node, error) {
	return &rank.EmotionNode{Model: model.NewEmotionMatch()}, nil
}

// BuildRatingNode 构建评分排序节点。
func BuildRatingNode(cfg map[string]interface{}) (pipeline.Node, error) {
	return &rank.RatingNode{}, nil
}

// BuildTopNNode 构建 TopN 截断节点。
func BuildTopNNode(cfg map[string]interface{}) (pipeline.Node, error) {
	n := conv.ConfigGetInt64(cfg, "n", 0)
	return &rerank.TopNNode{N: int(n)}, nil
}

// BuildGenreDiversityNode 构建 genre 多样性重排节点。
func BuildGenreDiversityNode(cfg map[string]interface{}) (pipeline.Node, error) {
	max := conv.ConfigGetInt64(cfg, "max_per_genre", 0)
	return &rerank.GenreDiversity{MaxPerGenre: int(max)}, nil
}
