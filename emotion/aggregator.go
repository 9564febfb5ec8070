package emotion

import (
	"github.com/rushteam/cinekit/core"
)

// Aggregator 把多条影评级的情绪分析聚合成一部电影的情绪画像。
// 无状态，可并发使用。
type Aggregator struct{}

// NewAggregator ..
func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// Aggregate 对一组逐条影评的情绪向量求基础维度均值，再推导派生维度与主导情绪。
// vectors 为空时返回 core.ErrNoAnalyses，由上游决定是否走 genre 兜底。
// 缺失维度按 0 计入均值（分母是向量条数，不是非零条数）。
func (a *Aggregator) Aggregate(vectors []core.EmotionVector) (*core.EmotionProfile, error) {
	if len(vectors) == 0 {
		return nil, core.ErrNoAnalyses
	}
	base := core.MeanVectors(vectors)
	return core.NewProfileFromBase(base, len(vectors)), nil
}

// FromGenres 按 genre 静态表合成兜底画像：逐维取各 genre 的最大值。
// 派生维度直接取表里的标定值，不走公式推导。
// 没有任何已知 genre 时返回固定的中性默认画像（dominant=joy）。
// 兜底画像只在查询期使用，永远不落库。
func FromGenres(genres []string) *core.EmotionProfile {
	combined := core.EmotionVector{}
	matched := false
	for _, g := range genres {
		v, ok := genreTable[g]
		if !ok {
			continue
		}
		matched = true
		for dim, val := range v {
			if val > combined[dim] {
				combined[dim] = val
			}
		}
	}
	if !matched {
		return neutralFallback()
	}

	base := core.EmotionVector{}
	for _, dim := range core.BaseEmotions {
		base[dim] = combined[dim]
	}
	return &core.EmotionProfile{
		BaseEmotions:    base,
		Thrill:          combined[core.EmotionThrill],
		Romance:         combined[core.EmotionRomance],
		Inspiration:     combined[core.EmotionInspiration],
		Humor:           combined[core.EmotionHumor],
		DominantEmotion: base.Dominant(),
		ReviewsAnalyzed: 0,
		Source:          core.ProfileSourceGenres,
	}
}
