package filter

import (
	"context"
	"testing"

	"github.com/rushteam/cinekit/core"
)

func movie(id string, rating float64) *core.Item {
	it := core.NewItem(id)
	it.Rating = rating
	return it
}

func TestMinRatingFilter(t *testing.T) {
	tests := []struct {
		name   string
		filter MinRatingFilter
		params map[string]any
		rating float64
		want   bool
	}{
		{"低于阈值被过滤", MinRatingFilter{MinRating: 6.0}, nil, 5.5, true},
		{"等于阈值放行", MinRatingFilter{MinRating: 6.0}, nil, 6.0, false},
		{"阈值为零不过滤", MinRatingFilter{}, nil, 1.0, false},
		{"Params 覆盖静态阈值", MinRatingFilter{MinRating: 6.0}, map[string]any{"min_rating": 8.0}, 7.0, true},
		{"Params 放宽阈值", MinRatingFilter{MinRating: 8.0}, map[string]any{"min_rating": 5.0}, 6.0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rctx := &core.RecommendContext{Params: tt.params}
			got, err := tt.filter.ShouldFilter(context.Background(), rctx, movie("m1", tt.rating))
			if err != nil {
				t.Fatalf("过滤失败: %v", err)
			}
			if got != tt.want {
				t.Errorf("ShouldFilter 期望 %v，得到 %v", tt.want, got)
			}
		})
	}
}

func TestDominantEmotionFilter(t *testing.T) {
	withDominant := movie("m1", 8.0)
	withDominant.Profile = &core.EmotionProfile{DominantEmotion: core.EmotionFear}

	tests := []struct {
		name   string
		filter DominantEmotionFilter
		params map[string]any
		item   *core.Item
		want   bool
	}{
		{"主导情绪一致放行", DominantEmotionFilter{Emotion: "fear"}, nil, withDominant, false},
		{"大小写不敏感", DominantEmotionFilter{Emotion: "FEAR"}, nil, withDominant, false},
		{"主导情绪不一致被过滤", DominantEmotionFilter{Emotion: "joy"}, nil, withDominant, true},
		{"无画像视为不匹配", DominantEmotionFilter{Emotion: "joy"}, nil, movie("m2", 8.0), true},
		{"无目标情绪不过滤", DominantEmotionFilter{}, nil, movie("m2", 8.0), false},
		{"Params 覆盖目标情绪", DominantEmotionFilter{Emotion: "joy"}, map[string]any{"dominant_emotion": "fear"}, withDominant, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rctx := &core.RecommendContext{Params: tt.params}
			got, err := tt.filter.ShouldFilter(context.Background(), rctx, tt.item)
			if err != nil {
				t.Fatalf("过滤失败: %v", err)
			}
			if got != tt.want {
				t.Errorf("ShouldFilter 期望 %v，得到 %v", tt.want, got)
			}
		})
	}
}

func TestGenreFilter(t *testing.T) {
	horror := movie("m1", 8.0)
	horror.Genres = []string{"Horror", "Thriller"}

	tests := []struct {
		name   string
		filter GenreFilter
		params map[string]any
		want   bool
	}{
		{"命中 genre 放行", GenreFilter{Genre: "Horror"}, nil, false},
		{"大小写不敏感", GenreFilter{Genre: "horror"}, nil, false},
		{"未命中被过滤", GenreFilter{Genre: "Comedy"}, nil, true},
		{"无目标不过滤", GenreFilter{}, nil, false},
		{"Params 覆盖目标", GenreFilter{Genre: "Comedy"}, map[string]any{"genre": "Thriller"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rctx := &core.RecommendContext{Params: tt.params}
			got, err := tt.filter.ShouldFilter(context.Background(), rctx, horror)
			if err != nil {
				t.Fatalf("过滤失败: %v", err)
			}
			if got != tt.want {
				t.Errorf("ShouldFilter 期望 %v，得到 %v", tt.want, got)
			}
		})
	}
}

func TestHasProfileFilter(t *testing.T) {
	reviewed := movie("m1", 8.0)
	reviewed.Profile = &core.EmotionProfile{Source: core.ProfileSourceReviews}
	genreOnly := movie("m2", 8.0)
	genreOnly.Profile = &core.EmotionProfile{Source: core.ProfileSourceGenres}

	f := &HasProfileFilter{}
	if got, _ := f.ShouldFilter(context.Background(), nil, reviewed); got {
		t.Error("影评画像不应被过滤")
	}
	if got, _ := f.ShouldFilter(context.Background(), nil, genreOnly); !got {
		t.Error("genre 兜底画像应被过滤")
	}
	if got, _ := f.ShouldFilter(context.Background(), nil, movie("m3", 8.0)); !got {
		t.Error("无画像应被过滤")
	}
}

func TestExprFilter(t *testing.T) {
	it := movie("m1", 5.0)
	it.Profile = &core.EmotionProfile{Thrill: 0.9}

	tests := []struct {
		name string
		expr string
		want bool
	}{
		{"评分条件命中", `item.rating < 6.0`, true},
		{"情绪条件不命中", `emotion.thrill < 0.3`, false},
		{"空表达式放行", ``, false},
		{"非法表达式放行", `this is not cel`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &ExprFilter{Expr: tt.expr}
			got, err := f.ShouldFilter(context.Background(), &core.RecommendContext{}, it)
			if err != nil {
				t.Fatalf("过滤失败: %v", err)
			}
			if got != tt.want {
				t.Errorf("表达式 %q 期望 %v，得到 %v", tt.expr, tt.want, got)
			}
		})
	}
}

func TestBlacklistFilter(t *testing.T) {
	f := &BlacklistFilter{MovieIDs: []string{"banned"}}
	if got, _ := f.ShouldFilter(context.Background(), nil, movie("banned", 9.0)); !got {
		t.Error("黑名单电影应被过滤")
	}
	if got, _ := f.ShouldFilter(context.Background(), nil, movie("ok", 9.0)); got {
		t.Error("普通电影不应被过滤")
	}
}

func TestFilterNode(t *testing.T) {
	node := &FilterNode{Filters: []Filter{
		&MinRatingFilter{MinRating: 6.0},
		&BlacklistFilter{MovieIDs: []string{"banned"}},
	}}

	items := []*core.Item{
		movie("keep", 7.0),
		movie("low", 5.0),
		movie("banned", 9.0),
		nil,
	}
	out, err := node.Process(context.Background(), &core.RecommendContext{}, items)
	if err != nil {
		t.Fatalf("过滤节点执行失败: %v", err)
	}
	if len(out) != 1 || out[0].ID != "keep" {
		t.Fatalf("期望只保留 keep，得到 %d 个", len(out))
	}

	// 被过滤的 item 带上原因标签
	low := items[1]
	label, ok := low.Labels["filtered"]
	if !ok || label.Value != "true" || label.Source != "filter.min_rating" {
		t.Errorf("low 应带有 filtered 标签及过滤器来源，得到 %+v", low.Labels)
	}
}

func TestInteractedFilter(t *testing.T) {
	ctx := context.Background()
	graph := newMemoryGraph()
	if err := graph.AddInteraction(ctx, "u1", core.Interaction{MovieID: "seen", Liked: true}); err != nil {
		t.Fatalf("记录交互失败: %v", err)
	}

	f := NewInteractedFilter(graph)
	rctx := &core.RecommendContext{UserID: "u1"}

	if got, _ := f.ShouldFilter(ctx, rctx, movie("seen", 8.0)); !got {
		t.Error("交互过的电影应被过滤")
	}
	if got, _ := f.ShouldFilter(ctx, rctx, movie("fresh", 8.0)); got {
		t.Error("未交互的电影不应被过滤")
	}
	// 无 UserID 时放行
	if got, _ := f.ShouldFilter(ctx, &core.RecommendContext{}, movie("seen", 8.0)); got {
		t.Error("匿名请求不应过滤")
	}
}

// memoryGraph 是测试用的最小交互图实现。
type memoryGraph struct {
	interacted map[string]map[string]struct{}
}

func newMemoryGraph() *memoryGraph {
	return &memoryGraph{interacted: map[string]map[string]struct{}{}}
}

func (g *memoryGraph) LikedMovies(_ context.Context, userID string) (map[string]struct{}, error) {
	return g.interacted[userID], nil
}

func (g *memoryGraph) UsersWhoLiked(_ context.Context, _ string) (map[string]struct{}, error) {
	return nil, nil
}

func (g *memoryGraph) InteractedMovies(_ context.Context, userID string) (map[string]struct{}, error) {
	return g.interacted[userID], nil
}

func (g *memoryGraph) AddInteraction(_ context.Context, userID string, in core.Interaction) error {
	if g.interacted[userID] == nil {
		g.interacted[userID] = map[string]struct{}{}
	}
	g.interacted[userID][in.MovieID] = struct{}{}
	return nil
}
