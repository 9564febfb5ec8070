package core

import "context"

// Classifier 是外部文本情绪分类器的领域接口（黑盒）。
//
// 契约：
//   - 输出覆盖 7 个基础维度，每维 [0,1]，各维之和不保证为 1
//   - 空文本 / 不可分析文本返回 neutral=1 其余为 0 的向量，而不是错误
//   - 推理可能很慢（秒级），调用方应使用 ClassifyBatch 批量提交
//   - 连接/服务故障返回 UNAVAILABLE 的 DomainError，由调用方决定重试
//
// 本包永不复现模型本身，只消费其输出。
type Classifier interface {
	// Name 返回分类器名称（用于日志/监控）
	Name() string

	// Classify 分析单条文本的情绪
	Classify(ctx context.Context, text string) (EmotionVector, error)

	// ClassifyBatch 批量分析，结果与输入一一对应
	ClassifyBatch(ctx context.Context, texts []string) ([]EmotionVector, error)
}
