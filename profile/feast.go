package profile

import (
	"context"

	"github.com/rushteam/cinekit/core"
	"github.com/rushteam/cinekit/feast"
	"github.com/rushteam/cinekit/pkg/conv"
)

// FeastProvider 从 Feast 在线特征库读取离线算好的用户情绪画像。
// 和 Accumulator 的区别：Accumulator 是在线累积（会话级实时），
// FeastProvider 读的是离线批处理产出（天级），适合做冷启动先验。
type FeastProvider struct {
	Client feast.Client

	// FeatureView 特征视图名称，默认 "user_emotion_profile"
	FeatureView string

	// EntityKey 实体字段名，默认 "user_id"
	EntityKey string
}

// NewFeastProvider ..
func NewFeastProvider(client feast.Client) *FeastProvider {
	return &FeastProvider{
		Client:      client,
		FeatureView: "user_emotion_profile",
		EntityKey:   "user_id",
	}
}

// UserProfile 读取用户的离线情绪画像。
// 特征名格式为 {FeatureView}:{dim}，只取基础维度，派生维度重新推导。
// 特征全部缺失（新用户未入库）时返回 core.ErrUserNotFound。
func (p *FeastProvider) UserProfile(ctx context.Context, userID string) (*core.EmotionProfile, error) {
	if p.Client == nil || userID == "" {
		return nil, core.ErrUserNotFound
	}
	view := p.FeatureView
	if view == "" {
		view = "user_emotion_profile"
	}
	entityKey := p.EntityKey
	if entityKey == "" {
		entityKey = "user_id"
	}

	features := make([]string, 0, len(core.BaseEmotions))
	for _, dim := range core.BaseEmotions {
		features = append(features, view+":"+dim)
	}

	resp, err := p.Client.GetOnlineFeatures(ctx, &feast.GetOnlineFeaturesRequest{
		Features:   features,
		EntityRows: []map[string]interface{}{{entityKey: userID}},
	})
	if err != nil {
		return nil, core.NewDomainError(core.ModuleService, core.ErrorCodeUnavailable, "feast online features: "+err.Error())
	}
	if len(resp.FeatureVectors) == 0 {
		return nil, core.ErrUserNotFound
	}

	values := resp.FeatureVectors[0].Values
	base := core.EmotionVector{}
	found := false
	for _, dim := range core.BaseEmotions {
		if v, ok := values[view+":"+dim]; ok && v != nil {
			if f, ok := conv.ToFloat64(v); ok {
				base[dim] = f
				found = true
			}
		}
	}
	if !found {
		return nil, core.ErrUserNotFound
	}
	return core.NewProfileFromBase(base, 0), nil
}
