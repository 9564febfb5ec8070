package recall

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rushteam/cinekit/core"
)

// StoreGraphAdapter 是基于 core.Store 接口的交互图存储适配器，
// 实现 core.LikeGraph、core.Watchlist 和 core.RecommendationLog 接口。
// 邻接表以 JSON 存在普通 key 下，从 Redis/内存等存储读写。
//
// Key 布局：
//
//	用户喜欢的电影：   {KeyPrefix}:likes:user:{userID}   -> map[movieID]struct{}
//	喜欢电影的用户：   {KeyPrefix}:likes:movie:{movieID} -> map[userID]struct{}
//	用户交互记录：     {KeyPrefix}:interactions:{userID} -> map[movieID]Interaction
//	用户想看清单：     {KeyPrefix}:watchlist:{userID}    -> []movieID（保持添加顺序）
//	推荐下发历史：     {KeyPrefix}:rec_history:{userID}  -> []RecommendationRecord（追加）
//
// AddInteraction 写多个 key，不保证跨 key 原子；
// 单用户的写顺序由存储仲裁（见 core.LikeGraph 的约定）。
type StoreGraphAdapter struct {
	store core.Store

	// KeyPrefix 是存储 key 的前缀
	KeyPrefix string
}

// NewStoreGraphAdapter 创建一个基于 core.Store 的交互图适配器。
func NewStoreGraphAdapter(s core.Store, keyPrefix string) *StoreGraphAdapter {
	if keyPrefix == "" {
		keyPrefix = "graph"
	}
	return &StoreGraphAdapter{store: s, KeyPrefix: keyPrefix}
}

func (a *StoreGraphAdapter) userLikesKey(userID string) string {
	return a.KeyPrefix + ":likes:user:" + userID
}

func (a *StoreGraphAdapter) movieLikesKey(movieID string) string {
	return a.KeyPrefix + ":likes:movie:" + movieID
}

func (a *StoreGraphAdapter) interactionsKey(userID string) string {
	return a.KeyPrefix + ":interactions:" + userID
}

func (a *StoreGraphAdapter) watchlistKey(userID string) string {
	return a.KeyPrefix + ":watchlist:" + userID
}

// getIDSet 读取一个 JSON 字符串数组并转成集合，key 不存在视为空集。
func (a *StoreGraphAdapter) getIDSet(ctx context.Context, key string) (map[string]struct{}, error) {
	data, err := a.store.Get(ctx, key)
	if err != nil {
		if core.IsStoreNotFound(err) {
			return map[string]struct{}{}, nil
		}
		return nil, err
	}
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, err
	}
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set, nil
}

// putIDSet 把集合写回 JSON 数组；入集顺序不保证，消费方都按集合用。
func (a *StoreGraphAdapter) putIDSet(ctx context.Context, key string, set map[string]struct{}) error {
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	data, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	return a.store.Set(ctx, key, data, 0)
}

// LikedMovies 实现 core.LikeGraph 接口
func (a *StoreGraphAdapter) LikedMovies(ctx context.Context, userID string) (map[string]struct{}, error) {
	return a.getIDSet(ctx, a.userLikesKey(userID))
}

// UsersWhoLiked 实现 core.LikeGraph 接口
func (a *StoreGraphAdapter) UsersWhoLiked(ctx context.Context, movieID string) (map[string]struct{}, error) {
	return a.getIDSet(ctx, a.movieLikesKey(movieID))
}

// InteractedMovies 实现 core.LikeGraph 接口
func (a *StoreGraphAdapter) InteractedMovies(ctx context.Context, userID string) (map[string]struct{}, error) {
	interactions, err := a.getInteractions(ctx, userID)
	if err != nil {
		return nil, err
	}
	set := make(map[string]struct{}, len(interactions))
	for movieID := range interactions {
		set[movieID] = struct{}{}
	}
	return set, nil
}

func (a *StoreGraphAdapter) getInteractions(ctx context.Context, userID string) (map[string]core.Interaction, error) {
	data, err := a.store.Get(ctx, a.interactionsKey(userID))
	if err != nil {
		if core.IsStoreNotFound(err) {
			return map[string]core.Interaction{}, nil
		}
		return nil, err
	}
	var out map[string]core.Interaction
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AddInteraction 实现 core.LikeGraph 接口。
// 按 (userID, movieID) upsert：重复上报同一部电影只覆盖属性，不产生新边。
// liked 从 true 变 false 时同步从两张喜欢表里摘除。
func (a *StoreGraphAdapter) AddInteraction(ctx context.Context, userID string, in core.Interaction) error {
	if in.WatchedAt.IsZero() {
		in.WatchedAt = time.Now()
	}

	interactions, err := a.getInteractions(ctx, userID)
	if err != nil {
		return err
	}
	interactions[in.MovieID] = in
	data, err := json.Marshal(interactions)
	if err != nil {
		return err
	}
	if err := a.store.Set(ctx, a.interactionsKey(userID), data, 0); err != nil {
		return err
	}

	userLikes, err := a.getIDSet(ctx, a.userLikesKey(userID))
	if err != nil {
		return err
	}
	movieLikes, err := a.getIDSet(ctx, a.movieLikesKey(in.MovieID))
	if err != nil {
		return err
	}
	if in.Liked {
		userLikes[in.MovieID] = struct{}{}
		movieLikes[userID] = struct{}{}
	} else {
		delete(userLikes, in.MovieID)
		delete(movieLikes, userID)
	}
	if err := a.putIDSet(ctx, a.userLikesKey(userID), userLikes); err != nil {
		return err
	}
	return a.putIDSet(ctx, a.movieLikesKey(in.MovieID), movieLikes)
}

// AddToWatchlist 实现 core.Watchlist 接口
func (a *StoreGraphAdapter) AddToWatchlist(ctx context.Context, userID, movieID string) error {
	list, err := a.GetWatchlist(ctx, userID)
	if err != nil {
		return err
	}
	for _, id := range list {
		if id == movieID {
			return nil // 幂等
		}
	}
	list = append(list, movieID)
	return a.putWatchlist(ctx, userID, list)
}

// RemoveFromWatchlist 实现 core.Watchlist 接口
func (a *StoreGraphAdapter) RemoveFromWatchlist(ctx context.Context, userID, movieID string) error {
	list, err := a.GetWatchlist(ctx, userID)
	if err != nil {
		return err
	}
	out := list[:0]
	for _, id := range list {
		if id != movieID {
			out = append(out, id)
		}
	}
	return a.putWatchlist(ctx, userID, out)
}

// GetWatchlist 实现 core.Watchlist 接口
func (a *StoreGraphAdapter) GetWatchlist(ctx context.Context, userID string) ([]string, error) {
	data, err := a.store.Get(ctx, a.watchlistKey(userID))
	if err != nil {
		if core.IsStoreNotFound(err) {
			return []string{}, nil
		}
		return nil, err
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// InWatchlist 实现 core.Watchlist 接口
func (a *StoreGraphAdapter) InWatchlist(ctx context.Context, userID, movieID string) (bool, error) {
	list, err := a.GetWatchlist(ctx, userID)
	if err != nil {
		return false, err
	}
	for _, id := range list {
		if id == movieID {
			return true, nil
		}
	}
	return false, nil
}

func (a *StoreGraphAdapter) putWatchlist(ctx context.Context, userID string, list []string) error {
	data, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return a.store.Set(ctx, a.watchlistKey(userID), data, 0)
}

func (a *StoreGraphAdapter) recHistoryKey(userID string) string {
	return a.KeyPrefix + ":rec_history:" + userID
}

// AppendRecommendation 实现 core.RecommendationLog 接口
func (a *StoreGraphAdapter) AppendRecommendation(ctx context.Context, userID string, rec core.RecommendationRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	history, err := a.RecommendationHistory(ctx, userID, 0)
	if err != nil {
		return err
	}
	history = append(history, rec)
	data, err := json.Marshal(history)
	if err != nil {
		return err
	}
	return a.store.Set(ctx, a.recHistoryKey(userID), data, 0)
}

// RecommendationHistory 实现 core.RecommendationLog 接口
func (a *StoreGraphAdapter) RecommendationHistory(ctx context.Context, userID string, limit int) ([]core.RecommendationRecord, error) {
	data, err := a.store.Get(ctx, a.recHistoryKey(userID))
	if err != nil {
		if core.IsStoreNotFound(err) {
			return []core.RecommendationRecord{}, nil
		}
		return nil, err
	}
	var history []core.RecommendationRecord
	if err := json.Unmarshal(data, &history); err != nil {
		return nil, err
	}
	if limit > 0 && len(history) > limit {
		// 保留最近的 limit 条
		history = history[len(history)-limit:]
	}
	return history, nil
}

// SetupGraphTestData 向 Store 写入演示/测试用的交互图数据。
//
// 使用示例：
//
//	s := store.NewMemoryStore()
//	graph := recall.NewStoreGraphAdapter(s, "graph")
//	recall.SetupGraphTestData(ctx, graph,
//	    map[string][]string{"u1": {"m1", "m2"}, "u2": {"m1", "m3"}})
func SetupGraphTestData(ctx context.Context, graph *StoreGraphAdapter, likes map[string][]string) error {
	for userID, movieIDs := range likes {
		for _, movieID := range movieIDs {
			if err := graph.AddInteraction(ctx, userID, core.Interaction{
				MovieID: movieID,
				Liked:   true,
			}); err != nil {
				return err
			}
		}
	}
	return nil
}
