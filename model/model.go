package model

import "github.com/rushteam/cinekit/core"

// Scorer 是排序阶段的最小抽象：输入查询情绪向量和候选画像，输出一个可比较的分数。
// 具体实现可以是本地的加权匹配，也可以是远程打分服务。
type Scorer interface {
	Name() string
	Score(query core.EmotionVector, profile *core.EmotionProfile) (float64, error)
}
