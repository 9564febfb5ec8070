package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rushteam/cinekit/core"
)

// appendNode 把自己的名字追加成一个候选，用于验证执行顺序。
type appendNode struct {
	name string
	kind Kind
}

func (n *appendNode) Name() string { return n.name }
func (n *appendNode) Kind() Kind   { return n.kind }

func (n *appendNode) Process(
	_ context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	return append(items, core.NewItem(n.name)), nil
}

type failNode struct{}

func (n *failNode) Name() string { return "fail" }
func (n *failNode) Kind() Kind   { return KindFilter }

func (n *failNode) Process(
	_ context.Context,
	_ *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	return nil, errors.New("node exploded")
}

func TestPipelineRunOrder(t *testing.T) {
	p := &Pipeline{Nodes: []Node{
		&appendNode{name: "recall", kind: KindRecall},
		&appendNode{name: "rank", kind: KindRank},
	}}

	items, err := p.Run(context.Background(), &core.RecommendContext{}, nil)
	if err != nil {
		t.Fatalf("执行失败: %v", err)
	}
	if len(items) != 2 || items[0].ID != "recall" || items[1].ID != "rank" {
		t.Fatalf("节点应按顺序执行，得到 %d 个", len(items))
	}
}

func TestPipelineRunError(t *testing.T) {
	p := &Pipeline{Nodes: []Node{
		&appendNode{name: "recall", kind: KindRecall},
		&failNode{},
		&appendNode{name: "never", kind: KindRank},
	}}

	if _, err := p.Run(context.Background(), &core.RecommendContext{}, nil); err == nil {
		t.Fatal("节点失败应中断 Pipeline 并返回错误")
	}
}

func TestLoadFromYAMLAndBuild(t *testing.T) {
	yamlContent := `
pipeline:
  name: mood_match
  nodes:
    - type: recall.stub
      config:
        source: catalog
    - type: rerank.stub
      config:
        n: 10
`
	path := filepath.Join(t.TempDir(), "pipeline.yaml")
	if err := os.WriteFile(path, []byte(yamlContent), 0o644); err != nil {
		t.Fatalf("写配置文件失败: %v", err)
	}

	cfg, err := LoadFromYAML(path)
	if err != nil {
		t.Fatalf("解析 YAML 失败: %v", err)
	}
	if cfg.Pipeline.Name != "mood_match" {
		t.Errorf("pipeline 名称期望 mood_match，得到 %q", cfg.Pipeline.Name)
	}
	if len(cfg.Pipeline.Nodes) != 2 {
		t.Fatalf("期望 2 个节点配置，得到 %d", len(cfg.Pipeline.Nodes))
	}
	if cfg.Pipeline.Nodes[1].Config["n"] != 10 {
		t.Errorf("节点配置应透传，得到 %v", cfg.Pipeline.Nodes[1].Config)
	}

	factory := NewNodeFactory()
	factory.Register("recall.stub", func(_ map[string]any) (Node, error) {
		return &appendNode{name: "recall.stub", kind: KindRecall}, nil
	})
	factory.Register("rerank.stub", func(_ map[string]any) (Node, error) {
		return &appendNode{name: "rerank.stub", kind: KindReRank}, nil
	})

	p, err := cfg.BuildPipeline(factory)
	if err != nil {
		t.Fatalf("构建 Pipeline 失败: %v", err)
	}
	if len(p.Nodes) != 2 {
		t.Fatalf("期望 2 个节点，得到 %d", len(p.Nodes))
	}
}

func TestBuildPipelineUnknownType(t *testing.T) {
	cfg := &Config{}
	cfg.Pipeline.Nodes = []NodeConfig{{Type: "does.not.exist"}}

	if _, err := cfg.BuildPipeline(NewNodeFactory()); err == nil {
		t.Fatal("未注册的节点类型应报错")
	}
}
