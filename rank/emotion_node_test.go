package rank

import (
	"context"
	"testing"

	"github.com/rushteam/cinekit/core"
	"github.com/rushteam/cinekit/model"
	"github.com/rushteam/cinekit/store"
)

func reviewedMovie(id string, base core.EmotionVector, rating float64) *core.Item {
	it := core.NewItem(id)
	it.Rating = rating
	it.Profile = core.NewProfileFromBase(base, 10)
	return it
}

func TestEmotionNodeOrdersByScore(t *testing.T) {
	ctx := context.Background()
	node := &EmotionNode{Model: model.NewEmotionMatch()}

	strong := reviewedMovie("strong", core.EmotionVector{core.EmotionFear: 0.9}, 8.0)
	weak := reviewedMovie("weak", core.EmotionVector{core.EmotionFear: 0.2}, 9.0)
	rctx := &core.RecommendContext{Query: core.EmotionVector{core.EmotionFear: 1.0}}

	out, err := node.Process(ctx, rctx, []*core.Item{weak, strong})
	if err != nil {
		t.Fatalf("排序失败: %v", err)
	}
	if out[0].ID != "strong" || out[1].ID != "weak" {
		t.Fatalf("期望 strong 在前，得到 [%s %s]", out[0].ID, out[1].ID)
	}
	if out[0].Score <= out[1].Score {
		t.Errorf("分数应降序: %v <= %v", out[0].Score, out[1].Score)
	}

	label, ok := out[0].Labels["rank_model"]
	if !ok || label.Value != "emotion_match" {
		t.Errorf("rank_model 标签期望 emotion_match，得到 %+v", label)
	}
}

func TestEmotionNodeGenreFallback(t *testing.T) {
	ctx := context.Background()
	node := &EmotionNode{Model: model.NewEmotionMatch()}

	// 只有 genre 没有画像的电影：查询期按 genre 表兜底打分，
	// 但 item.Profile 保持 nil，不把兜底画像当真实画像
	it := core.NewItem("horror-only")
	it.Genres = []string{"Horror"}

	rctx := &core.RecommendContext{Query: core.EmotionVector{core.EmotionFear: 1.0}}
	out, err := node.Process(ctx, rctx, []*core.Item{it})
	if err != nil {
		t.Fatalf("排序失败: %v", err)
	}
	if out[0].Score <= 0 {
		t.Errorf("genre 兜底后应有正分，得到 %v", out[0].Score)
	}
	if out[0].Profile != nil {
		t.Error("兜底画像不应写回 item.Profile")
	}
	label, ok := out[0].Labels["profile_source"]
	if !ok || label.Value != core.ProfileSourceGenres {
		t.Errorf("profile_source 标签期望 genre-based，得到 %+v", label)
	}
}

func TestEmotionNodeHydratesFromCatalog(t *testing.T) {
	ctx := context.Background()

	catalog := store.NewCatalog(store.NewMemoryStore(), "movies")
	full := reviewedMovie("m1", core.EmotionVector{core.EmotionJoy: 0.8}, 7.5)
	full.Title = "Feel Good"
	if err := catalog.SaveMovie(ctx, full); err != nil {
		t.Fatalf("入库失败: %v", err)
	}

	node := &EmotionNode{Model: model.NewEmotionMatch(), Catalog: catalog}

	// 协同过滤等召回只带 ID，排序前需要补全
	bare := core.NewItem("m1")
	bare.Score = 2 // 召回分数，补全后会被排序分覆盖

	rctx := &core.RecommendContext{Query: core.EmotionVector{core.EmotionJoy: 1.0}}
	out, err := node.Process(ctx, rctx, []*core.Item{bare})
	if err != nil {
		t.Fatalf("排序失败: %v", err)
	}
	if out[0].Title != "Feel Good" {
		t.Errorf("应从片库补全标题，得到 %q", out[0].Title)
	}
	if out[0].Profile == nil {
		t.Error("应从片库补全画像")
	}
	if out[0].Score <= 0.7 {
		t.Errorf("补全画像后 joy 匹配分应约为 0.8，得到 %v", out[0].Score)
	}
}

func TestRatingNode(t *testing.T) {
	low := core.NewItem("low")
	low.Rating = 6.0
	high := core.NewItem("high")
	high.Rating = 9.0

	node := &RatingNode{}
	out, err := node.Process(context.Background(), &core.RecommendContext{}, []*core.Item{low, high})
	if err != nil {
		t.Fatalf("排序失败: %v", err)
	}
	if out[0].ID != "high" || out[1].ID != "low" {
		t.Fatalf("期望按评分降序，得到 [%s %s]", out[0].ID, out[1].ID)
	}
}
