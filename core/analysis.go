package core

import "time"

// Analysis 是一条用户情绪分析记录（用户画像的原材料）。
// 历史 append-only：核心层只追加、从不覆盖，用户画像由历史均值重算。
type Analysis struct {
	ID         string        `json:"id"`
	Emotions   EmotionVector `json:"emotions"` // 只含基础维度
	MovieCount int           `json:"movie_count"`
	CreatedAt  time.Time     `json:"created_at"`
}
