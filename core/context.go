package core

import "github.com/rushteam/cinekit/pkg/utils"

// RecommendContext 承载一次推荐请求的用户/场景/查询信息，贯穿整个 Pipeline 透传。
//
// 一次请求的查询来源四选一：
//   - Query：显式情绪向量
//   - Mood：心情关键词（由 emotion.MoodResolver 解析为向量）
//   - 参考电影 id（其画像的派生维度作为查询，service 层填充 Query）
//   - UserID：协同过滤路径，完全绕开情绪向量
type RecommendContext struct {
	UserID string
	Scene  string

	// Mood 是原始心情关键词（如 "happy" / "scary"），仅用于透传与 explain。
	Mood string

	// Query 是本次请求的目标情绪向量。
	// 维度权重表达"用户在乎的程度"，不要求和为 1（打分时归一化）。
	Query EmotionVector

	// Labels 是请求级标签，可驱动整个 Pipeline 行为。
	Labels map[string]utils.Label

	// Params 请求级上下文参数：limit、min_rating、genre 等。
	Params map[string]any
}

// PutLabel 写入请求级 Label。
func (rctx *RecommendContext) PutLabel(key string, lbl utils.Label) {
	if rctx.Labels == nil {
		rctx.Labels = make(map[string]utils.Label)
	}
	if old, ok := rctx.Labels[key]; ok {
		rctx.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	rctx.Labels[key] = lbl
}

// GetLabel 获取请求级 Label。
func (rctx *RecommendContext) GetLabel(key string) (utils.Label, bool) {
	if rctx.Labels == nil {
		return utils.Label{}, false
	}
	lbl, ok := rctx.Labels[key]
	return lbl, ok
}
