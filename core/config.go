package core

import "time"

// RecommendConfig 是推荐相关的默认值配置接口。
type RecommendConfig interface {
	// DefaultLimit 返回默认的返回条数
	DefaultLimit() int

	// DefaultMoodMinRating 返回 mood 推荐路径的默认最低评分
	DefaultMoodMinRating() float64

	// DefaultTimeout 返回默认的单次召回超时时间
	DefaultTimeout() time.Duration
}

// DefaultRecommendConfig 是默认实现。
type DefaultRecommendConfig struct{}

func (c *DefaultRecommendConfig) DefaultLimit() int {
	return 10
}

func (c *DefaultRecommendConfig) DefaultMoodMinRating() float64 {
	return 6.0
}

func (c *DefaultRecommendConfig) DefaultTimeout() time.Duration {
	return 2 * time.Second
}
