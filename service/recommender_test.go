package service

import (
	"context"
	"testing"

	"github.com/rushteam/cinekit/core"
	"github.com/rushteam/cinekit/recall"
	"github.com/rushteam/cinekit/store"
)

// fakeClassifier 按预置向量回放，替代真实的情绪分类服务。
type fakeClassifier struct {
	vector core.EmotionVector
	err    error
}

func (f *fakeClassifier) Name() string { return "classifier.fake" }

func (f *fakeClassifier) Classify(_ context.Context, _ string) (core.EmotionVector, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.vector.Clone(), nil
}

func (f *fakeClassifier) ClassifyBatch(ctx context.Context, texts []string) ([]core.EmotionVector, error) {
	out := make([]core.EmotionVector, 0, len(texts))
	for range texts {
		v, err := f.Classify(ctx, "")
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

type fixture struct {
	store   *store.MemoryStore
	catalog *store.Catalog
	graph   *recall.StoreGraphAdapter
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	s := store.NewMemoryStore()
	return &fixture{
		store:   s,
		catalog: store.NewCatalog(s, "movies"),
		graph:   recall.NewStoreGraphAdapter(s, "graph"),
	}
}

func (fx *fixture) addMovie(t *testing.T, id, title string, rating float64, genres []string, base core.EmotionVector) {
	t.Helper()
	it := core.NewItem(id)
	it.Title = title
	it.Rating = rating
	it.Genres = genres
	if base != nil {
		it.Profile = core.NewProfileFromBase(base, 5)
	}
	if err := fx.catalog.SaveMovie(context.Background(), it); err != nil {
		t.Fatalf("电影 %s 入库失败: %v", id, err)
	}
}

func TestRecommendByVector(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)
	fx.addMovie(t, "strong", "Strong Fear", 7.0, []string{"Horror"}, core.EmotionVector{core.EmotionFear: 0.9})
	fx.addMovie(t, "weak", "Weak Fear", 9.0, []string{"Horror"}, core.EmotionVector{core.EmotionFear: 0.3})

	r := NewRecommender(fx.catalog)
	items, err := r.RecommendByVector(ctx, core.EmotionVector{core.EmotionFear: 1.0}, Options{})
	if err != nil {
		t.Fatalf("推荐失败: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("期望 2 个结果，得到 %d", len(items))
	}
	// 匹配度优先于评分：fear 0.9 排在 0.3 前面
	if items[0].ID != "strong" {
		t.Errorf("期望 strong 排第一，得到 %s", items[0].ID)
	}
	if items[0].Score != 0.9 {
		t.Errorf("匹配分期望 0.9，得到 %v", items[0].Score)
	}
}

func TestRecommendByVectorLimit(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)
	for _, id := range []string{"a", "b", "c"} {
		fx.addMovie(t, id, id, 7.0, nil, core.EmotionVector{core.EmotionJoy: 0.5})
	}

	r := NewRecommender(fx.catalog)
	items, err := r.RecommendByVector(ctx, core.EmotionVector{core.EmotionJoy: 1.0}, Options{Limit: 2})
	if err != nil {
		t.Fatalf("推荐失败: %v", err)
	}
	if len(items) != 2 {
		t.Errorf("Limit=2 期望 2 个结果，得到 %d", len(items))
	}
}

func TestRecommendByMoodDefaultMinRating(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)
	fx.addMovie(t, "good", "Good Scary", 7.5, []string{"Horror"}, core.EmotionVector{core.EmotionFear: 0.8})
	fx.addMovie(t, "bad", "Bad Scary", 4.0, []string{"Horror"}, core.EmotionVector{core.EmotionFear: 0.9})

	r := NewRecommender(fx.catalog)
	items, err := r.RecommendByMood(ctx, "scary", Options{})
	if err != nil {
		t.Fatalf("推荐失败: %v", err)
	}
	// mood 路径默认评分下限 6.0：低分烂片即使情绪更匹配也不推
	if len(items) != 1 || items[0].ID != "good" {
		t.Fatalf("期望只剩 good，得到 %d 个", len(items))
	}
}

func TestRecommendByMoodUnknown(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)
	fx.addMovie(t, "happy", "Happy", 8.0, nil, core.EmotionVector{core.EmotionJoy: 0.9})

	r := NewRecommender(fx.catalog)
	// 未命中词表回落到温和的 joy 查询，不报错
	items, err := r.RecommendByMood(ctx, "nonexistent-mood", Options{})
	if err != nil {
		t.Fatalf("未知心情不应报错: %v", err)
	}
	if len(items) != 1 {
		t.Errorf("期望 1 个结果，得到 %d", len(items))
	}
}

func TestRecommendByMovieID(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)
	fx.addMovie(t, "ref", "Reference", 8.0, []string{"Horror"}, core.EmotionVector{
		core.EmotionFear: 0.8, core.EmotionSurprise: 0.6,
	})
	fx.addMovie(t, "similar", "Similar", 7.5, []string{"Horror"}, core.EmotionVector{
		core.EmotionFear: 0.7, core.EmotionSurprise: 0.5,
	})

	r := NewRecommender(fx.catalog)
	items, err := r.RecommendByMovieID(ctx, "ref", Options{})
	if err != nil {
		t.Fatalf("相似推荐失败: %v", err)
	}
	for _, it := range items {
		if it.ID == "ref" {
			t.Error("参考电影不应出现在自己的相似结果里")
		}
	}
	if len(items) != 1 || items[0].ID != "similar" {
		t.Fatalf("期望 similar，得到 %d 个", len(items))
	}

	if _, err := r.RecommendByMovieID(ctx, "missing", Options{}); !core.IsNotFound(err) {
		t.Errorf("参考电影不存在期望 NOT_FOUND，得到 %v", err)
	}
}

func TestRecommendByDominantEmotion(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)
	fx.addMovie(t, "scary", "Scary", 7.0, []string{"Horror"}, core.EmotionVector{core.EmotionFear: 0.9})
	fx.addMovie(t, "joyful", "Joyful", 9.0, []string{"Comedy"}, core.EmotionVector{core.EmotionJoy: 0.9})
	// 无画像但 genre 是 Horror：兜底画像主导情绪为 fear，也应命中
	fx.addMovie(t, "genre-only", "Unreviewed Horror", 8.0, []string{"Horror"}, nil)

	r := NewRecommender(fx.catalog)
	items, err := r.RecommendByDominantEmotion(ctx, core.EmotionFear, Options{})
	if err != nil {
		t.Fatalf("推荐失败: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("期望 scary 和 genre-only 两个结果，得到 %d", len(items))
	}
	// 按评分降序
	if items[0].ID != "genre-only" || items[1].ID != "scary" {
		t.Errorf("期望 [genre-only scary]，得到 [%s %s]", items[0].ID, items[1].ID)
	}
}

func TestRecommendForUser(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)
	for _, m := range []struct {
		id     string
		rating float64
	}{{"m1", 7.0}, {"m2", 7.5}, {"m3", 8.0}, {"m4", 8.5}} {
		fx.addMovie(t, m.id, m.id, m.rating, nil, nil)
	}
	if err := recall.SetupGraphTestData(ctx, fx.graph, map[string][]string{
		"u1": {"m1"},
		"n1": {"m1", "m3", "m4"},
	}); err != nil {
		t.Fatalf("铺底交互图失败: %v", err)
	}

	r := NewRecommender(fx.catalog, WithGraph(fx.graph), WithRecommendationLog(fx.graph))
	items, err := r.RecommendForUser(ctx, "u1", Options{})
	if err != nil {
		t.Fatalf("个性化推荐失败: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("期望 m3/m4 两个候选，得到 %d", len(items))
	}
	for _, it := range items {
		if it.ID == "m1" {
			t.Error("已喜欢的电影不应再推")
		}
		if it.Title == "" {
			t.Error("召回候选应补全片库数据")
		}
	}

	// 下发应记入推荐历史
	history, err := fx.graph.RecommendationHistory(ctx, "u1", 0)
	if err != nil {
		t.Fatalf("读取推荐历史失败: %v", err)
	}
	if len(history) != 1 || len(history[0].MovieIDs) != 2 {
		t.Fatalf("推荐历史期望 1 条含 2 部电影，得到 %+v", history)
	}
}

func TestRecommendForUserWithWatchlist(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)
	for _, id := range []string{"m1", "m2", "wanted"} {
		fx.addMovie(t, id, id, 7.0, nil, nil)
	}
	if err := recall.SetupGraphTestData(ctx, fx.graph, map[string][]string{
		"u1": {"m1"},
		"n1": {"m1", "m2"},
	}); err != nil {
		t.Fatalf("铺底交互图失败: %v", err)
	}
	if err := fx.graph.AddToWatchlist(ctx, "u1", "wanted"); err != nil {
		t.Fatalf("添加想看失败: %v", err)
	}

	r := NewRecommender(fx.catalog, WithGraph(fx.graph), WithWatchlist(fx.graph))
	items, err := r.RecommendForUser(ctx, "u1", Options{})
	if err != nil {
		t.Fatalf("个性化推荐失败: %v", err)
	}

	ids := map[string]bool{}
	for _, it := range items {
		ids[it.ID] = true
	}
	if !ids["m2"] {
		t.Error("协同过滤候选 m2 应在结果中")
	}
	if !ids["wanted"] {
		t.Error("想看清单候选 wanted 应在结果中")
	}
}

func TestRecommendForUserColdStart(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)
	fx.addMovie(t, "top", "Top", 9.0, nil, nil)
	fx.addMovie(t, "mid", "Mid", 7.0, nil, nil)

	r := NewRecommender(fx.catalog,
		WithGraph(fx.graph),
		WithTopRatedZSet(fx.store, fx.catalog.TopRatedKey()),
	)
	// 无任何喜欢记录：回落到高分榜
	items, err := r.RecommendForUser(ctx, "stranger", Options{})
	if err != nil {
		t.Fatalf("冷启动推荐失败: %v", err)
	}
	if len(items) != 2 || items[0].ID != "top" {
		t.Fatalf("冷启动应回落到高分榜，得到 %d 个", len(items))
	}
}

func TestTopRatedGenreFilter(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)
	fx.addMovie(t, "horror", "Horror Hit", 9.0, []string{"Horror"}, nil)
	fx.addMovie(t, "comedy", "Comedy Hit", 8.5, []string{"Comedy"}, nil)

	r := NewRecommender(fx.catalog, WithTopRatedZSet(fx.store, fx.catalog.TopRatedKey()))
	items, err := r.TopRated(ctx, Options{Genre: "Comedy"})
	if err != nil {
		t.Fatalf("高分榜失败: %v", err)
	}
	if len(items) != 1 || items[0].ID != "comedy" {
		t.Fatalf("genre 过滤后期望只剩 comedy，得到 %d 个", len(items))
	}
}

func TestAnalyzeMovie(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)
	fx.addMovie(t, "m1", "Movie", 7.0, []string{"Drama"}, nil)

	cls := &fakeClassifier{vector: core.EmotionVector{
		core.EmotionSadness: 0.8,
		core.EmotionJoy:     0.2,
	}}
	r := NewRecommender(fx.catalog, WithClassifier(cls))

	p, err := r.AnalyzeMovie(ctx, "m1", []string{"made me cry", "so moving"})
	if err != nil {
		t.Fatalf("分析失败: %v", err)
	}
	if p.Source != core.ProfileSourceReviews {
		t.Errorf("画像来源期望 reviews，得到 %s", p.Source)
	}
	if p.ReviewsAnalyzed != 2 {
		t.Errorf("分析条数期望 2，得到 %d", p.ReviewsAnalyzed)
	}
	if p.DominantEmotion != core.EmotionSadness {
		t.Errorf("主导情绪期望 sadness，得到 %s", p.DominantEmotion)
	}

	// 画像应已落库
	movie, err := fx.catalog.GetMovie(ctx, "m1")
	if err != nil {
		t.Fatalf("回读电影失败: %v", err)
	}
	if movie.Profile == nil || movie.Profile.ReviewsAnalyzed != 2 {
		t.Errorf("画像应持久化，得到 %+v", movie.Profile)
	}
}

func TestAnalyzeMovieNoReviews(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)
	fx.addMovie(t, "m1", "Movie", 7.0, []string{"Horror"}, nil)

	r := NewRecommender(fx.catalog, WithClassifier(&fakeClassifier{}))
	p, err := r.AnalyzeMovie(ctx, "m1", nil)
	if err != nil {
		t.Fatalf("无影评分析不应报错: %v", err)
	}
	if p.Source != core.ProfileSourceGenres {
		t.Errorf("无影评应返回 genre 兜底画像，得到来源 %s", p.Source)
	}

	// 兜底画像绝不落库
	movie, err := fx.catalog.GetMovie(ctx, "m1")
	if err != nil {
		t.Fatalf("回读电影失败: %v", err)
	}
	if movie.Profile != nil {
		t.Error("genre 兜底画像不应持久化")
	}

	if _, err := r.AnalyzeMovie(ctx, "missing", nil); !core.IsNotFound(err) {
		t.Errorf("电影不存在期望 NOT_FOUND，得到 %v", err)
	}
}

func TestRecordInteraction(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)
	fx.addMovie(t, "m1", "Movie", 7.0, nil, nil)

	r := NewRecommender(fx.catalog, WithGraph(fx.graph))
	if err := r.RecordInteraction(ctx, "u1", core.Interaction{MovieID: "m1", Liked: true}); err != nil {
		t.Fatalf("记录交互失败: %v", err)
	}
	liked, _ := fx.graph.LikedMovies(ctx, "u1")
	if _, ok := liked["m1"]; !ok {
		t.Error("交互应写入图存储")
	}

	if err := r.RecordInteraction(ctx, "u1", core.Interaction{MovieID: "missing", Liked: true}); !core.IsNotFound(err) {
		t.Errorf("电影不存在期望 NOT_FOUND，得到 %v", err)
	}

	noGraph := NewRecommender(fx.catalog)
	err := noGraph.RecordInteraction(ctx, "u1", core.Interaction{MovieID: "m1"})
	if !core.IsNotSupported(err) {
		t.Errorf("未配置交互图期望 NOT_SUPPORTED，得到 %v", err)
	}
}
