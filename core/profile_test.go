package core

import "testing"

func TestNewProfileFromBase(t *testing.T) {
	base := EmotionVector{
		EmotionJoy:      0.6,
		EmotionFear:     0.8,
		EmotionSurprise: 0.4,
	}
	p := NewProfileFromBase(base, 42)

	if !almostEqual(p.Thrill, 0.6) {
		t.Errorf("thrill = (fear+surprise)/2 期望 0.6，得到 %v", p.Thrill)
	}
	if !almostEqual(p.Romance, 0.6) {
		t.Errorf("romance = joy 期望 0.6，得到 %v", p.Romance)
	}
	if !almostEqual(p.Inspiration, 0.5) {
		t.Errorf("inspiration = (joy+surprise)/2 期望 0.5，得到 %v", p.Inspiration)
	}
	if !almostEqual(p.Humor, 0.6) {
		t.Errorf("humor = joy 期望 0.6，得到 %v", p.Humor)
	}
	if p.DominantEmotion != EmotionFear {
		t.Errorf("dominant 期望 fear，得到 %q", p.DominantEmotion)
	}
	if p.ReviewsAnalyzed != 42 {
		t.Errorf("reviews_analyzed 期望 42，得到 %d", p.ReviewsAnalyzed)
	}
	if p.Source != ProfileSourceReviews {
		t.Errorf("source 期望 reviews，得到 %q", p.Source)
	}
}

func TestProfileValue(t *testing.T) {
	p := NewProfileFromBase(EmotionVector{EmotionJoy: 0.8, EmotionFear: 0.4}, 1)

	tests := []struct {
		dim  string
		want float64
	}{
		{EmotionJoy, 0.8},
		{EmotionFear, 0.4},
		{EmotionThrill, 0.2},  // (0.4 + 0) / 2
		{EmotionRomance, 0.8}, // = joy
		{EmotionSadness, 0},   // 缺失维度
	}
	for _, tt := range tests {
		if got := p.Value(tt.dim); !almostEqual(got, tt.want) {
			t.Errorf("Value(%q) = %v，期望 %v", tt.dim, got, tt.want)
		}
	}

	var nilProfile *EmotionProfile
	if got := nilProfile.Value(EmotionJoy); got != 0 {
		t.Errorf("nil 画像应返回 0，得到 %v", got)
	}
}

func TestNormalizeProfile(t *testing.T) {
	t.Run("嵌套形态", func(t *testing.T) {
		raw := map[string]any{
			"base_emotions": map[string]any{
				"joy":  0.7,
				"fear": 0.2,
			},
			"thrill":           0.55,
			"dominant_emotion": "joy",
			"reviews_analyzed": 10,
			"source":           "reviews",
		}
		p := NormalizeProfile(raw)
		if !almostEqual(p.BaseEmotions[EmotionJoy], 0.7) {
			t.Errorf("joy 期望 0.7，得到 %v", p.BaseEmotions[EmotionJoy])
		}
		// 显式存储的派生值优先于公式推导
		if !almostEqual(p.Thrill, 0.55) {
			t.Errorf("thrill 应取存储值 0.55，得到 %v", p.Thrill)
		}
		if p.ReviewsAnalyzed != 10 {
			t.Errorf("reviews_analyzed 期望 10，得到 %d", p.ReviewsAnalyzed)
		}
	})

	t.Run("legacy 扁平形态", func(t *testing.T) {
		raw := map[string]any{
			"joy":      0.3,
			"fear":     0.9,
			"surprise": 0.5,
		}
		p := NormalizeProfile(raw)
		if !almostEqual(p.BaseEmotions[EmotionFear], 0.9) {
			t.Errorf("fear 期望 0.9，得到 %v", p.BaseEmotions[EmotionFear])
		}
		// 派生维度缺失时按公式重新推导
		if !almostEqual(p.Thrill, 0.7) {
			t.Errorf("thrill 期望 (0.9+0.5)/2=0.7，得到 %v", p.Thrill)
		}
		if p.DominantEmotion != EmotionFear {
			t.Errorf("dominant 应重算为 fear，得到 %q", p.DominantEmotion)
		}
	})

	t.Run("nil 输入", func(t *testing.T) {
		if p := NormalizeProfile(nil); p != nil {
			t.Errorf("nil 输入应返回 nil，得到 %+v", p)
		}
	})
}
