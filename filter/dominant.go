package filter

import (
	"context"
	"strings"

	"github.com/rushteam/cinekit/core"
)

// DominantEmotionFilter 只保留主导情绪与目标一致的电影。
// 目标优先取 rctx.Params["dominant_emotion"]，其次取静态配置；
// 没有画像的电影视为不匹配。
type DominantEmotionFilter struct {
	Emotion string
}

func (f *DominantEmotionFilter) Name() string {
	return "filter.dominant_emotion"
}

func (f *DominantEmotionFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil {
		return true, nil
	}
	target := f.Emotion
	if rctx != nil && rctx.Params != nil {
		if v, ok := rctx.Params["dominant_emotion"].(string); ok && v != "" {
			target = v
		}
	}
	if target == "" {
		return false, nil
	}
	if item.Profile == nil {
		return true, nil
	}
	return !strings.EqualFold(item.Profile.DominantEmotion, target), nil
}

// HasProfileFilter 过滤掉没有影评级情绪画像的电影。
// 用于"只看真实影评口碑"的场景，genre 兜底画像不算数。
type HasProfileFilter struct{}

func (f *HasProfileFilter) Name() string {
	return "filter.has_profile"
}

func (f *HasProfileFilter) ShouldFilter(
	_ context.Context,
	_ *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil {
		return true, nil
	}
	return item.Profile == nil || item.Profile.Source != core.ProfileSourceReviews, nil
}
