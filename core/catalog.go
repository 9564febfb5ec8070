package core

import "context"

// CandidateFilter 是候选电影的获取条件。
// 零值表示"全部有画像或可推导画像的电影"。
type CandidateFilter struct {
	// MinRating > 0 时只返回 Rating >= MinRating 的电影
	MinRating float64

	// Genre 非空时只返回含该 genre 的电影（大小写不敏感）
	Genre string

	// DominantEmotion 非空时只返回画像 dominant 精确匹配的电影
	DominantEmotion string
}

// MovieCatalog 是电影目录（外部文档存储）的领域接口。
// 本包只定义需要的查询/写入契约，不关心存储引擎内部。
//
// 快照语义：一次推荐请求内的候选集来自单次 ListCandidates 调用，
// 不跨调用混用两个快照的结果。
type MovieCatalog interface {
	// ListCandidates 获取候选电影集（含元数据、genres、已存画像）
	ListCandidates(ctx context.Context, f CandidateFilter) ([]*Item, error)

	// GetMovie 按 id 获取单部电影；不存在时返回 ErrMovieNotFound
	GetMovie(ctx context.Context, movieID string) (*Item, error)

	// SaveProfile 持久化电影画像（按 movieID 幂等 upsert）。
	// 只有显式的分析写路径调用它；读路径的 genre 兜底推导永不落库。
	SaveProfile(ctx context.Context, movieID string, p *EmotionProfile) error
}
