package model

import (
	"math"
	"testing"

	"github.com/rushteam/cinekit/core"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestEmotionMatchScore(t *testing.T) {
	m := NewEmotionMatch()
	profile := core.NewProfileFromBase(core.EmotionVector{
		core.EmotionJoy:      0.8,
		core.EmotionFear:     0.4,
		core.EmotionSurprise: 0.6,
	}, 10)

	tests := []struct {
		name  string
		query core.EmotionVector
		want  float64
	}{
		{"单维查询直接取候选强度", core.EmotionVector{core.EmotionJoy: 1.0}, 0.8},
		{"权重归一化", core.EmotionVector{core.EmotionJoy: 1.0, core.EmotionFear: 1.0}, 0.6},
		{"不等权重", core.EmotionVector{core.EmotionJoy: 3.0, core.EmotionFear: 1.0}, 0.7},
		{"派生维度走回退链", core.EmotionVector{core.EmotionThrill: 1.0}, 0.5}, // (0.4+0.6)/2
		{"空查询得 0", core.EmotionVector{}, 0},
		{"全零权重得 0", core.EmotionVector{core.EmotionJoy: 0}, 0},
		{"候选缺失维度按 0 计", core.EmotionVector{core.EmotionDisgust: 1.0}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := m.Score(tt.query, profile)
			if err != nil {
				t.Fatalf("打分失败: %v", err)
			}
			if !almostEqual(got, tt.want) {
				t.Errorf("Score = %v，期望 %v", got, tt.want)
			}
		})
	}
}

// TestEmotionMatchScaleInvariance 查询权重整体缩放不改变分数（归一化性质）。
func TestEmotionMatchScaleInvariance(t *testing.T) {
	m := NewEmotionMatch()
	profile := core.NewProfileFromBase(core.EmotionVector{
		core.EmotionJoy:  0.7,
		core.EmotionFear: 0.2,
	}, 5)

	q1 := core.EmotionVector{core.EmotionJoy: 0.5, core.EmotionFear: 0.25}
	q2 := core.EmotionVector{core.EmotionJoy: 2.0, core.EmotionFear: 1.0}

	s1, _ := m.Score(q1, profile)
	s2, _ := m.Score(q2, profile)
	if !almostEqual(s1, s2) {
		t.Errorf("缩放后的查询分数应一致：%v vs %v", s1, s2)
	}
}

// TestEmotionMatchNotCosine 单维查询下不同强度的候选必须得到不同分数。
// 余弦相似度在这种场景会把所有非零候选打成同一分，这是我们不用余弦的原因。
func TestEmotionMatchNotCosine(t *testing.T) {
	m := NewEmotionMatch()
	strong := core.NewProfileFromBase(core.EmotionVector{core.EmotionFear: 0.9}, 1)
	weak := core.NewProfileFromBase(core.EmotionVector{core.EmotionFear: 0.2}, 1)

	query := core.EmotionVector{core.EmotionFear: 1.0}
	sStrong, _ := m.Score(query, strong)
	sWeak, _ := m.Score(query, weak)

	if sStrong <= sWeak {
		t.Errorf("强候选应高于弱候选：strong=%v weak=%v", sStrong, sWeak)
	}
	if !almostEqual(sStrong, 0.9) || !almostEqual(sWeak, 0.2) {
		t.Errorf("分数应保留强度信息：strong=%v weak=%v", sStrong, sWeak)
	}
}

func TestEmotionMatchBounds(t *testing.T) {
	m := NewEmotionMatch()
	profile := core.NewProfileFromBase(core.EmotionVector{core.EmotionJoy: 1.0}, 1)

	score, err := m.Score(core.EmotionVector{core.EmotionJoy: 5.0}, profile)
	if err != nil {
		t.Fatalf("打分失败: %v", err)
	}
	if score < 0 || score > 1 {
		t.Errorf("分数应在 [0,1]，得到 %v", score)
	}
}

func TestEmotionMatchNilProfile(t *testing.T) {
	m := NewEmotionMatch()
	score, err := m.Score(core.EmotionVector{core.EmotionJoy: 1.0}, nil)
	if err != nil {
		t.Fatalf("nil 画像不应报错: %v", err)
	}
	if score != 0 {
		t.Errorf("nil 画像应得 0 分，得到 %v", score)
	}
}
