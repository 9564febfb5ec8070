package core

// 基础情绪维度：由外部文本分类器直接产出。
const (
	EmotionJoy      = "joy"
	EmotionSadness  = "sadness"
	EmotionFear     = "fear"
	EmotionAnger    = "anger"
	EmotionSurprise = "surprise"
	EmotionDisgust  = "disgust"
	EmotionNeutral  = "neutral"
)

// 派生情绪维度：由基础维度按固定公式推导（见 NewProfileFromBase）。
const (
	EmotionThrill      = "thrill"
	EmotionRomance     = "romance"
	EmotionInspiration = "inspiration"
	EmotionHumor       = "humor"
)

// BaseEmotions 是 7 个基础维度的 canonical 顺序。
// Dominant 并列时取此顺序中先出现者，保证跨进程 / 跨语言结果确定
// （map 迭代顺序不可依赖）。
var BaseEmotions = []string{
	EmotionJoy,
	EmotionSadness,
	EmotionFear,
	EmotionAnger,
	EmotionSurprise,
	EmotionDisgust,
	EmotionNeutral,
}

// DerivedEmotions 是 4 个派生维度列表。
var DerivedEmotions = []string{
	EmotionThrill,
	EmotionRomance,
	EmotionInspiration,
	EmotionHumor,
}

// IsDerivedEmotion 判断维度名是否为派生维度。
func IsDerivedEmotion(dim string) bool {
	switch dim {
	case EmotionThrill, EmotionRomance, EmotionInspiration, EmotionHumor:
		return true
	}
	return false
}

// EmotionVector 是情绪向量：维度名 -> [0,1] 强度。
// 各维度相互独立，不要求和为 1（是强度集合，不是概率分布）。
type EmotionVector map[string]float64

// ZeroVector 返回所有基础维度为 0 的向量（用户无历史时的默认画像）。
func ZeroVector() EmotionVector {
	v := make(EmotionVector, len(BaseEmotions))
	for _, dim := range BaseEmotions {
		v[dim] = 0
	}
	return v
}

// Get 读取维度强度，缺失维度视为 0。
func (v EmotionVector) Get(dim string) float64 {
	if v == nil {
		return 0
	}
	return v[dim]
}

// Sum 返回所有维度强度之和（用于查询权重归一化）。
func (v EmotionVector) Sum() float64 {
	var s float64
	for _, val := range v {
		s += val
	}
	return s
}

// Clone 返回向量的拷贝。
func (v EmotionVector) Clone() EmotionVector {
	if v == nil {
		return nil
	}
	out := make(EmotionVector, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}

// Clamp01 将所有维度截断到 [0,1]，原地修改并返回自身。
func (v EmotionVector) Clamp01() EmotionVector {
	for k, val := range v {
		if val < 0 {
			v[k] = 0
		} else if val > 1 {
			v[k] = 1
		}
	}
	return v
}

// Dominant 返回基础维度中强度最大的维度名。
// 只在基础维度上比较（派生维度不参与），并列时按 BaseEmotions 顺序取先出现者。
// 空向量返回 "joy"（与 genre 兜底的默认 dominant 一致）。
func (v EmotionVector) Dominant() string {
	dominant := EmotionJoy
	best := -1.0
	for _, dim := range BaseEmotions {
		if score := v.Get(dim); score > best {
			best = score
			dominant = dim
		}
	}
	return dominant
}

// MeanVectors 按基础维度逐维求算术平均。
// 全零向量（空文本 / 不可分析文本）同样计入分母，保证 reviews_analyzed 口径准确。
// 空输入返回 nil，由调用方决定兜底策略（genre 推导）。
func MeanVectors(vectors []EmotionVector) EmotionVector {
	if len(vectors) == 0 {
		return nil
	}
	sum := ZeroVector()
	for _, v := range vectors {
		for _, dim := range BaseEmotions {
			sum[dim] += v.Get(dim)
		}
	}
	n := float64(len(vectors))
	for _, dim := range BaseEmotions {
		sum[dim] /= n
	}
	return sum
}
