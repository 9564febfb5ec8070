package core

// Profile 来源标记：影评分析 vs genre 兜底。
const (
	ProfileSourceReviews = "reviews"
	ProfileSourceGenres  = "genre-based"
)

// EmotionProfile 是一部电影的情绪画像：基础向量 + 4 个派生维度 + 元信息。
// 存储中的 canonical 形态为嵌套 base_emotions；旧的扁平形态在存储边界
// 用 NormalizeProfile 统一转换，Aggregator / Scorer 永远只见到嵌套形态。
type EmotionProfile struct {
	BaseEmotions EmotionVector `json:"base_emotions"`

	// CineFeels 派生维度（固定公式，不可按实例配置）
	Thrill      float64 `json:"thrill"`      // (fear + surprise) / 2
	Romance     float64 `json:"romance"`     // joy
	Inspiration float64 `json:"inspiration"` // (joy + surprise) / 2
	Humor       float64 `json:"humor"`       // joy

	DominantEmotion string `json:"dominant_emotion"`
	ReviewsAnalyzed int    `json:"reviews_analyzed"` // genre 兜底时为 0
	Source          string `json:"source"`           // "reviews" / "genre-based"
}

// NewProfileFromBase 由基础向量构建画像：推导 4 个派生维度并计算 dominant。
// dominant 只在基础维度上竞争，派生维度不参与。
func NewProfileFromBase(base EmotionVector, reviewsAnalyzed int) *EmotionProfile {
	base = base.Clone().Clamp01()
	return &EmotionProfile{
		BaseEmotions:    base,
		Thrill:          (base.Get(EmotionFear) + base.Get(EmotionSurprise)) / 2,
		Romance:         base.Get(EmotionJoy),
		Inspiration:     (base.Get(EmotionJoy) + base.Get(EmotionSurprise)) / 2,
		Humor:           base.Get(EmotionJoy),
		DominantEmotion: base.Dominant(),
		ReviewsAnalyzed: reviewsAnalyzed,
		Source:          ProfileSourceReviews,
	}
}

// Value 按查询维度读取画像强度，回退链：
// 派生维度读派生字段；其余维度读 BaseEmotions；nil 画像一律返回 0（不是错误）。
// 是否剔除完全无数据的候选由上层（Recommender）的策略决定。
func (p *EmotionProfile) Value(dim string) float64 {
	if p == nil {
		return 0
	}
	switch dim {
	case EmotionThrill:
		return p.Thrill
	case EmotionRomance:
		return p.Romance
	case EmotionInspiration:
		return p.Inspiration
	case EmotionHumor:
		return p.Humor
	}
	return p.BaseEmotions.Get(dim)
}

// DerivedVector 返回 4 个派生维度组成的查询向量。
// "找相似电影"（RecommendByMovieID）用参考电影的派生维度作为查询。
func (p *EmotionProfile) DerivedVector() EmotionVector {
	if p == nil {
		return nil
	}
	return EmotionVector{
		EmotionThrill:      p.Thrill,
		EmotionRomance:     p.Romance,
		EmotionInspiration: p.Inspiration,
		EmotionHumor:       p.Humor,
	}
}

// NormalizeProfile 将存储中任意形态的画像统一为 canonical 嵌套形态。
// 兼容两种历史形态：
//   - 嵌套：{"base_emotions": {...}, "thrill": ..., "dominant_emotion": ...}
//   - 扁平（legacy）：{"joy": ..., "fear": ..., "thrill": ...}
//
// 扁平形态下派生维度若缺失，按固定公式重新推导；dominant 缺失时重新计算。
func NormalizeProfile(raw map[string]any) *EmotionProfile {
	if raw == nil {
		return nil
	}

	base := make(EmotionVector, len(BaseEmotions))
	if nested, ok := raw["base_emotions"].(map[string]any); ok {
		for _, dim := range BaseEmotions {
			base[dim] = anyToFloat(nested[dim])
		}
	} else {
		// legacy 扁平形态：基础维度直接挂在顶层
		for _, dim := range BaseEmotions {
			base[dim] = anyToFloat(raw[dim])
		}
	}
	base.Clamp01()

	p := NewProfileFromBase(base, int(anyToFloat(raw["reviews_analyzed"])))

	// 显式存储的派生值 / dominant 优先于重新推导
	if v, ok := raw[EmotionThrill]; ok {
		p.Thrill = anyToFloat(v)
	}
	if v, ok := raw[EmotionRomance]; ok {
		p.Romance = anyToFloat(v)
	}
	if v, ok := raw[EmotionInspiration]; ok {
		p.Inspiration = anyToFloat(v)
	}
	if v, ok := raw[EmotionHumor]; ok {
		p.Humor = anyToFloat(v)
	}
	if s, ok := raw["dominant_emotion"].(string); ok && s != "" {
		p.DominantEmotion = s
	}
	if s, ok := raw["source"].(string); ok && s != "" {
		p.Source = s
	}
	return p
}

func anyToFloat(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case float32:
		return float64(val)
	case int:
		return float64(val)
	case int64:
		return float64(val)
	case int32:
		return float64(val)
	}
	return 0
}
