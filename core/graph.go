package core

import (
	"context"
	"time"
)

// Interaction 是一条用户-电影交互记录（WATCHED 语义的边）。
// 边在交互事件发生时创建/更新，核心层从不清理（保留策略是外部关注点）。
type Interaction struct {
	MovieID   string    `json:"movie_id"`
	Liked     bool      `json:"liked"`
	Rating    float64   `json:"rating,omitempty"`
	WatchedAt time.Time `json:"watched_at"`
}

// LikeGraph 是用户-电影交互图（外部属性图存储）的领域接口。
// 协同过滤只依赖这几条读查询；写入是单条可序列化操作，
// 写顺序由存储仲裁，核心层不加锁。
type LikeGraph interface {
	// LikedMovies 获取用户点赞过的电影 id 集合
	LikedMovies(ctx context.Context, userID string) (map[string]struct{}, error)

	// UsersWhoLiked 获取点赞过某电影的用户 id 集合
	UsersWhoLiked(ctx context.Context, movieID string) (map[string]struct{}, error)

	// InteractedMovies 获取用户交互过（watched 或 liked）的电影 id 集合，
	// 用于把已看过的电影排除出推荐结果
	InteractedMovies(ctx context.Context, userID string) (map[string]struct{}, error)

	// AddInteraction 记录一次交互（按 (userID, movieID) 幂等 upsert）
	AddInteraction(ctx context.Context, userID string, in Interaction) error
}

// RecommendationRecord 是一次已下发推荐的记录。
type RecommendationRecord struct {
	MovieIDs  []string  `json:"movie_ids"`
	Path      string    `json:"path"` // vector / mood / similar / user ...
	CreatedAt time.Time `json:"created_at"`
}

// RecommendationLog 记录给用户下发过哪些推荐，追加写、只读不改。
type RecommendationLog interface {
	// AppendRecommendation 追加一次推荐下发记录
	AppendRecommendation(ctx context.Context, userID string, rec RecommendationRecord) error

	// RecommendationHistory 读取推荐历史（按时间先后），limit<=0 表示全量
	RecommendationHistory(ctx context.Context, userID string, limit int) ([]RecommendationRecord, error)
}

// Watchlist 是用户想看清单（WANTS_TO_WATCH 语义的边）的领域接口。
type Watchlist interface {
	// AddToWatchlist 添加到想看清单（重复添加幂等）
	AddToWatchlist(ctx context.Context, userID, movieID string) error

	// RemoveFromWatchlist 从想看清单移除
	RemoveFromWatchlist(ctx context.Context, userID, movieID string) error

	// GetWatchlist 获取想看清单（按添加先后）
	GetWatchlist(ctx context.Context, userID string) ([]string, error)

	// InWatchlist 检查电影是否在想看清单中
	InWatchlist(ctx context.Context, userID, movieID string) (bool, error)
}
