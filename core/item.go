package core

import "github.com/rushteam/cinekit/pkg/utils"

// Item 是推荐链路中的统一承载结构：一部候选电影及其分数、画像、标签。
// Profile 用于情绪匹配打分；Rating 用于评分过滤与兜底排序；
// Labels 用于解释与策略驱动；Score 用于最终排序决策。
type Item struct {
	ID      string
	Title   string
	Score   float64
	Rating  float64  // 外部评分（如 vote_average，0-10）
	Genres  []string // 无影评画像时用于 genre 兜底推导
	Profile *EmotionProfile
	Meta    map[string]any
	Labels  map[string]utils.Label
}

func NewItem(id string) *Item {
	return &Item{
		ID:     id,
		Score:  0,
		Meta:   make(map[string]any),
		Labels: make(map[string]utils.Label),
	}
}

// PutLabel 写入 Label；若已存在同名 key，则按默认 Merge 规则累积。
func (it *Item) PutLabel(key string, lbl utils.Label) {
	if it.Labels == nil {
		it.Labels = make(map[string]utils.Label)
	}
	if old, ok := it.Labels[key]; ok {
		it.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	it.Labels[key] = lbl
}
