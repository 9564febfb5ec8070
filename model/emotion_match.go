package model

import "github.com/rushteam/cinekit/core"

// EmotionMatch 实现加权情绪匹配打分。
// 它是本工具包默认的排序模型：只看查询里出现的维度，不做余弦相似度。
//
// 打分原理：
// 1. 维度集合由查询向量的 key 决定，候选画像里多出来的维度不参与;
// 2. 每个维度的贡献 = 查询权重 * 候选在该维度上的值;
// 3. 权重归一化: score = sum(w_i * v_i) / sum(w_i)，再截断到 [0,1]。
//
// 之所以不用余弦：单维查询下余弦会把所有非零候选打成同一个分数，
// 丢掉强度信息；加权匹配保留"候选在该维度上有多强"这一语义。
//
// 候选维度取值走画像的回退链：派生维度（thrill/romance/inspiration/humor）
// 读画像上的显式字段，其余维度读 base_emotions，缺失按 0 计。
type EmotionMatch struct{}

// NewEmotionMatch ..
func NewEmotionMatch() *EmotionMatch {
	return &EmotionMatch{}
}

func (m *EmotionMatch) Name() string { return "emotion_match" }

// Score 计算加权匹配分。
// query 为空或权重和为 0 时返回 0；profile 为 nil 时按全 0 画像处理。
func (m *EmotionMatch) Score(query core.EmotionVector, profile *core.EmotionProfile) (float64, error) {
	var weightSum, scoreSum float64
	for dim, w := range query {
		weightSum += w
		scoreSum += w * profile.Value(dim)
	}
	if weightSum == 0 {
		return 0, nil
	}
	score := scoreSum / weightSum
	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}
	return score, nil
}
