package rerank

import (
	"context"
	"testing"

	"github.com/rushteam/cinekit/core"
)

func items(ids ...string) []*core.Item {
	out := make([]*core.Item, 0, len(ids))
	for _, id := range ids {
		out = append(out, core.NewItem(id))
	}
	return out
}

func TestTopNNode(t *testing.T) {
	tests := []struct {
		name string
		n    int
		in   int
		want int
	}{
		{"正常截断", 2, 5, 2},
		{"数量不足不截断", 10, 3, 3},
		{"N 为零不截断", 0, 3, 3},
		{"N 为负不截断", -1, 3, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := make([]*core.Item, tt.in)
			for i := range in {
				in[i] = core.NewItem("m")
			}
			node := &TopNNode{N: tt.n}
			out, err := node.Process(context.Background(), nil, in)
			if err != nil {
				t.Fatalf("截断失败: %v", err)
			}
			if len(out) != tt.want {
				t.Errorf("期望 %d 个，得到 %d 个", tt.want, len(out))
			}
		})
	}
}

func TestGenreDiversity(t *testing.T) {
	withGenre := func(id, genre string) *core.Item {
		it := core.NewItem(id)
		if genre != "" {
			it.Genres = []string{genre}
		}
		return it
	}

	node := &GenreDiversity{MaxPerGenre: 2}
	in := []*core.Item{
		withGenre("h1", "Horror"),
		withGenre("h2", "Horror"),
		withGenre("h3", "Horror"), // 超额，被挤掉
		withGenre("c1", "Comedy"),
		withGenre("x1", ""), // 无 genre 不受限
	}
	out, err := node.Process(context.Background(), nil, in)
	if err != nil {
		t.Fatalf("重排失败: %v", err)
	}

	wantOrder := []string{"h1", "h2", "c1", "x1"}
	if len(out) != len(wantOrder) {
		t.Fatalf("期望 %d 个，得到 %d 个", len(wantOrder), len(out))
	}
	for i, want := range wantOrder {
		if out[i].ID != want {
			t.Errorf("第 %d 位期望 %s，得到 %s", i, want, out[i].ID)
		}
	}
}

func TestGenreDiversityDefault(t *testing.T) {
	node := &GenreDiversity{}
	in := items("a", "b", "c", "d")
	for _, it := range in {
		it.Genres = []string{"Drama"}
	}
	out, err := node.Process(context.Background(), nil, in)
	if err != nil {
		t.Fatalf("重排失败: %v", err)
	}
	if len(out) != 3 {
		t.Errorf("默认每个 genre 最多 3 部，得到 %d 部", len(out))
	}
}
