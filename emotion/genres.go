package emotion

import "github.com/rushteam/cinekit/core"

// genreTable 是 genre -> 部分情绪向量的静态兜底表。
// 没有影评画像的电影按此表推导；表中只列该 genre 影响的维度，
// 基础维度与派生维度混排（派生值是人工标定的，不走推导公式）。
//
// 只读静态数据：不可变、无 I/O。
var genreTable = map[string]core.EmotionVector{
	"Action":          {core.EmotionThrill: 0.8, core.EmotionFear: 0.4, core.EmotionSurprise: 0.6, core.EmotionAnger: 0.3, core.EmotionJoy: 0.5},
	"Adventure":       {core.EmotionJoy: 0.7, core.EmotionThrill: 0.7, core.EmotionSurprise: 0.6, core.EmotionInspiration: 0.5},
	"Animation":       {core.EmotionJoy: 0.8, core.EmotionHumor: 0.6, core.EmotionSurprise: 0.4},
	"Comedy":          {core.EmotionJoy: 0.9, core.EmotionHumor: 0.9, core.EmotionSurprise: 0.3},
	"Crime":           {core.EmotionFear: 0.5, core.EmotionAnger: 0.6, core.EmotionThrill: 0.6, core.EmotionSadness: 0.3},
	"Documentary":     {core.EmotionInspiration: 0.5, core.EmotionSurprise: 0.3, core.EmotionSadness: 0.2},
	"Drama":           {core.EmotionSadness: 0.6, core.EmotionJoy: 0.3, core.EmotionAnger: 0.3, core.EmotionInspiration: 0.4},
	"Family":          {core.EmotionJoy: 0.8, core.EmotionHumor: 0.5, core.EmotionRomance: 0.3},
	"Fantasy":         {core.EmotionJoy: 0.6, core.EmotionSurprise: 0.7, core.EmotionThrill: 0.5, core.EmotionInspiration: 0.5},
	"History":         {core.EmotionSadness: 0.4, core.EmotionInspiration: 0.5, core.EmotionAnger: 0.3},
	"Horror":          {core.EmotionFear: 0.9, core.EmotionDisgust: 0.5, core.EmotionSurprise: 0.6, core.EmotionThrill: 0.8},
	"Music":           {core.EmotionJoy: 0.8, core.EmotionRomance: 0.4, core.EmotionInspiration: 0.6},
	"Mystery":         {core.EmotionFear: 0.5, core.EmotionSurprise: 0.7, core.EmotionThrill: 0.6},
	"Romance":         {core.EmotionRomance: 0.9, core.EmotionJoy: 0.7, core.EmotionSadness: 0.3},
	"Science Fiction": {core.EmotionThrill: 0.6, core.EmotionSurprise: 0.7, core.EmotionFear: 0.4, core.EmotionInspiration: 0.5},
	"TV Movie":        {core.EmotionJoy: 0.4, core.EmotionSadness: 0.3},
	"Thriller":        {core.EmotionFear: 0.7, core.EmotionThrill: 0.9, core.EmotionSurprise: 0.6, core.EmotionAnger: 0.4},
	"War":             {core.EmotionAnger: 0.6, core.EmotionSadness: 0.7, core.EmotionFear: 0.5},
	"Western":         {core.EmotionThrill: 0.6, core.EmotionAnger: 0.4, core.EmotionJoy: 0.3},
}

// GenreVector 返回单个 genre 的情绪向量（拷贝），未知 genre 返回 (nil, false)。
func GenreVector(genre string) (core.EmotionVector, bool) {
	v, ok := genreTable[genre]
	if !ok {
		return nil, false
	}
	return v.Clone(), true
}

// neutralFallback 是没有任何已知 genre 时的固定默认画像。
// dominant 固定为 joy（与原始数据口径一致）。
func neutralFallback() *core.EmotionProfile {
	return &core.EmotionProfile{
		BaseEmotions: core.EmotionVector{
			core.EmotionJoy:      0.3,
			core.EmotionSadness:  0.2,
			core.EmotionFear:     0.2,
			core.EmotionAnger:    0.1,
			core.EmotionSurprise: 0.2,
			core.EmotionDisgust:  0.1,
			core.EmotionNeutral:  0,
		},
		Thrill:          0.2,
		Romance:         0.2,
		Inspiration:     0.2,
		Humor:           0.2,
		DominantEmotion: core.EmotionJoy,
		ReviewsAnalyzed: 0,
		Source:          core.ProfileSourceGenres,
	}
}
