package core

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestEmotionVectorDominant(t *testing.T) {
	tests := []struct {
		name string
		v    EmotionVector
		want string
	}{
		{"单一最大值", EmotionVector{EmotionFear: 0.9, EmotionJoy: 0.3}, EmotionFear},
		{"空向量默认 joy", EmotionVector{}, EmotionJoy},
		{"nil 向量默认 joy", nil, EmotionJoy},
		{"并列时取 canonical 顺序先出现者", EmotionVector{EmotionSadness: 0.5, EmotionFear: 0.5}, EmotionSadness},
		{"全维并列取 joy", EmotionVector{EmotionJoy: 0.5, EmotionSadness: 0.5, EmotionDisgust: 0.5}, EmotionJoy},
		{"派生维度不参与", EmotionVector{EmotionThrill: 1.0, EmotionAnger: 0.2}, EmotionAnger},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.Dominant(); got != tt.want {
				t.Errorf("Dominant() = %q, 期望 %q", got, tt.want)
			}
		})
	}
}

func TestEmotionVectorClamp01(t *testing.T) {
	v := EmotionVector{EmotionJoy: 1.5, EmotionFear: -0.2, EmotionSadness: 0.5}
	v.Clamp01()
	if v[EmotionJoy] != 1.0 {
		t.Errorf("超界值应截断到 1.0，得到 %v", v[EmotionJoy])
	}
	if v[EmotionFear] != 0 {
		t.Errorf("负值应截断到 0，得到 %v", v[EmotionFear])
	}
	if v[EmotionSadness] != 0.5 {
		t.Errorf("正常值不应变化，得到 %v", v[EmotionSadness])
	}
}

func TestMeanVectors(t *testing.T) {
	t.Run("空输入返回 nil", func(t *testing.T) {
		if got := MeanVectors(nil); got != nil {
			t.Errorf("期望 nil，得到 %v", got)
		}
	})

	t.Run("逐维平均", func(t *testing.T) {
		vectors := []EmotionVector{
			{EmotionJoy: 0.8, EmotionFear: 0.2},
			{EmotionJoy: 0.4},
		}
		mean := MeanVectors(vectors)
		if !almostEqual(mean[EmotionJoy], 0.6) {
			t.Errorf("joy 均值期望 0.6，得到 %v", mean[EmotionJoy])
		}
		if !almostEqual(mean[EmotionFear], 0.1) {
			t.Errorf("缺失维度按 0 计入，fear 均值期望 0.1，得到 %v", mean[EmotionFear])
		}
	})

	t.Run("全零向量计入分母", func(t *testing.T) {
		vectors := []EmotionVector{
			{EmotionJoy: 1.0},
			ZeroVector(),
		}
		mean := MeanVectors(vectors)
		if !almostEqual(mean[EmotionJoy], 0.5) {
			t.Errorf("joy 均值期望 0.5，得到 %v", mean[EmotionJoy])
		}
	})
}

func TestIsDerivedEmotion(t *testing.T) {
	for _, dim := range DerivedEmotions {
		if !IsDerivedEmotion(dim) {
			t.Errorf("%q 应为派生维度", dim)
		}
	}
	for _, dim := range BaseEmotions {
		if IsDerivedEmotion(dim) {
			t.Errorf("%q 不应为派生维度", dim)
		}
	}
}
