package store

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/rushteam/cinekit/core"
)

// movieRecord 是片库存储格式。Profile 用 map 落盘，
// 读取时经 core.NormalizeProfile 归一，兼容早期扁平格式的历史数据。
type movieRecord struct {
	ID      string         `json:"id"`
	Title   string         `json:"title"`
	Rating  float64        `json:"rating"`
	Genres  []string       `json:"genres,omitempty"`
	Profile map[string]any `json:"emotion_profile,omitempty"`
	Meta    map[string]any `json:"meta,omitempty"`
}

// Catalog 是基于 core.Store 的片库实现，实现 core.MovieCatalog 接口。
//
// Key 布局：
//
//	电影文档：   {KeyPrefix}:movie:{movieID} -> movieRecord JSON
//	全量索引：   {KeyPrefix}:index           -> []movieID
//	评分榜单：   {KeyPrefix}:top_rated       -> zset(movieID, rating)，仅 KeyValueStore
//
// ListCandidates 走 索引 + BatchGet，一次调用得到一个一致的候选快照。
type Catalog struct {
	store core.Store

	// KeyPrefix 是存储 key 的前缀
	KeyPrefix string
}

// NewCatalog 创建一个基于 core.Store 的片库。
func NewCatalog(s core.Store, keyPrefix string) *Catalog {
	if keyPrefix == "" {
		keyPrefix = "movies"
	}
	return &Catalog{store: s, KeyPrefix: keyPrefix}
}

func (c *Catalog) movieKey(movieID string) string {
	return c.KeyPrefix + ":movie:" + movieID
}

func (c *Catalog) indexKey() string {
	return c.KeyPrefix + ":index"
}

// TopRatedKey 返回评分榜单的 zset key，供 recall.TopRated 使用。
func (c *Catalog) TopRatedKey() string {
	return c.KeyPrefix + ":top_rated"
}

// ListCandidates 实现 core.MovieCatalog 接口
func (c *Catalog) ListCandidates(ctx context.Context, f core.CandidateFilter) ([]*core.Item, error) {
	ids, err := c.listIDs(ctx)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []*core.Item{}, nil
	}

	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, c.movieKey(id))
	}
	docs, err := c.store.BatchGet(ctx, keys)
	if err != nil {
		return nil, err
	}

	out := make([]*core.Item, 0, len(ids))
	for _, id := range ids {
		data, ok := docs[c.movieKey(id)]
		if !ok {
			continue // 索引先行于文档写入时可能短暂悬空
		}
		it, err := decodeMovie(data)
		if err != nil {
			return nil, err
		}
		if !matchFilter(it, f) {
			continue
		}
		out = append(out, it)
	}
	return out, nil
}

// GetMovie 实现 core.MovieCatalog 接口
func (c *Catalog) GetMovie(ctx context.Context, movieID string) (*core.Item, error) {
	data, err := c.store.Get(ctx, c.movieKey(movieID))
	if err != nil {
		if core.IsStoreNotFound(err) {
			return nil, core.ErrMovieNotFound
		}
		return nil, err
	}
	return decodeMovie(data)
}

// SaveProfile 实现 core.MovieCatalog 接口。
// 电影不存在时返回 ErrMovieNotFound；存在则覆盖画像字段重写文档。
func (c *Catalog) SaveProfile(ctx context.Context, movieID string, p *core.EmotionProfile) error {
	data, err := c.store.Get(ctx, c.movieKey(movieID))
	if err != nil {
		if core.IsStoreNotFound(err) {
			return core.ErrMovieNotFound
		}
		return err
	}
	var rec movieRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return err
	}
	rec.Profile = profileToMap(p)
	return c.putRecord(ctx, rec)
}

// SaveMovie 写入/覆盖一部电影（导入与测试数据铺底用）。
func (c *Catalog) SaveMovie(ctx context.Context, it *core.Item) error {
	rec := movieRecord{
		ID:      it.ID,
		Title:   it.Title,
		Rating:  it.Rating,
		Genres:  it.Genres,
		Profile: profileToMap(it.Profile),
		Meta:    it.Meta,
	}
	ids, err := c.listIDs(ctx)
	if err != nil {
		return err
	}
	found := false
	for _, id := range ids {
		if id == it.ID {
			found = true
			break
		}
	}
	if !found {
		ids = append(ids, it.ID)
		idxData, err := json.Marshal(ids)
		if err != nil {
			return err
		}
		if err := c.store.Set(ctx, c.indexKey(), idxData, 0); err != nil {
			return err
		}
	}
	return c.putRecord(ctx, rec)
}

func (c *Catalog) putRecord(ctx context.Context, rec movieRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	if err := c.store.Set(ctx, c.movieKey(rec.ID), data, 0); err != nil {
		return err
	}
	// 维护评分榜单，后端不支持 zset 时跳过
	if kv, ok := c.store.(core.KeyValueStore); ok {
		if err := kv.ZAdd(ctx, c.TopRatedKey(), rec.Rating, rec.ID); err != nil && !core.IsStoreNotSupported(err) {
			return err
		}
	}
	return nil
}

func (c *Catalog) listIDs(ctx context.Context) ([]string, error) {
	data, err := c.store.Get(ctx, c.indexKey())
	if err != nil {
		if core.IsStoreNotFound(err) {
			return []string{}, nil
		}
		return nil, err
	}
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

func decodeMovie(data []byte) (*core.Item, error) {
	var rec movieRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	it := core.NewItem(rec.ID)
	it.Title = rec.Title
	it.Rating = rec.Rating
	it.Genres = rec.Genres
	if rec.Meta != nil {
		it.Meta = rec.Meta
	}
	if rec.Profile != nil {
		it.Profile = core.NormalizeProfile(rec.Profile)
	}
	return it, nil
}

func matchFilter(it *core.Item, f core.CandidateFilter) bool {
	if f.MinRating > 0 && it.Rating < f.MinRating {
		return false
	}
	if f.Genre != "" {
		found := false
		for _, g := range it.Genres {
			if strings.EqualFold(g, f.Genre) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.DominantEmotion != "" {
		if it.Profile == nil || it.Profile.DominantEmotion != f.DominantEmotion {
			return false
		}
	}
	return true
}

func profileToMap(p *core.EmotionProfile) map[string]any {
	if p == nil {
		return nil
	}
	base := make(map[string]any, len(p.BaseEmotions))
	for k, v := range p.BaseEmotions {
		base[k] = v
	}
	return map[string]any{
		"base_emotions":    base,
		"thrill":           p.Thrill,
		"romance":          p.Romance,
		"inspiration":      p.Inspiration,
		"humor":            p.Humor,
		"dominant_emotion": p.DominantEmotion,
		"reviews_analyzed": p.ReviewsAnalyzed,
		"source":           p.Source,
	}
}
