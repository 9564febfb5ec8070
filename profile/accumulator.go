package profile

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/rushteam/cinekit/core"
)

// Accumulator 维护用户的情绪分析历史并由此计算用户画像。
//
// 语义：
//   - RecordAnalysis 追加一条分析记录（append-only，从不覆盖历史）
//   - CurrentProfile = 历史所有记录基础向量的均值 + 派生推导
//   - 没有任何历史时返回零向量画像，不返回错误（新用户不是异常）
//
// 历史以 JSON 数组存在 core.Store 的单 key 下，读改写不跨 key，
// 单用户写顺序由存储仲裁。
type Accumulator struct {
	store core.Store

	// KeyPrefix 是存储 key 的前缀，实际 key 为 {KeyPrefix}:{userID}
	KeyPrefix string

	// Prior 是冷启动先验（可选）：会话内没有任何分析历史时，
	// 用离线算好的画像代替零向量画像。查不到先验仍回落零向量。
	Prior Provider
}

// Provider 按用户 ID 提供一份现成的情绪画像（如 Feast 在线特征库）。
type Provider interface {
	UserProfile(ctx context.Context, userID string) (*core.EmotionProfile, error)
}

// NewAccumulator ..
func NewAccumulator(s core.Store, keyPrefix string) *Accumulator {
	if keyPrefix == "" {
		keyPrefix = "user:analyses"
	}
	return &Accumulator{store: s, KeyPrefix: keyPrefix}
}

func (a *Accumulator) key(userID string) string {
	return a.KeyPrefix + ":" + userID
}

// RecordAnalysis 追加一条分析记录并返回它（ID 与时间由本方法生成）。
func (a *Accumulator) RecordAnalysis(ctx context.Context, userID string, emotions core.EmotionVector, movieCount int) (*core.Analysis, error) {
	analysis := &core.Analysis{
		ID:         uuid.NewString(),
		Emotions:   emotions.Clone().Clamp01(),
		MovieCount: movieCount,
		CreatedAt:  time.Now().UTC(),
	}

	history, err := a.History(ctx, userID)
	if err != nil {
		return nil, err
	}
	history = append(history, *analysis)

	data, err := json.Marshal(history)
	if err != nil {
		return nil, err
	}
	if err := a.store.Set(ctx, a.key(userID), data, 0); err != nil {
		return nil, err
	}
	return analysis, nil
}

// CurrentProfile 返回用户当前画像：历史基础向量的均值。
// 没有任何历史时先查 Prior，再回落零向量画像（dominant 按 canonical 顺序落在 joy）。
func (a *Accumulator) CurrentProfile(ctx context.Context, userID string) (*core.EmotionProfile, error) {
	history, err := a.History(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(history) == 0 {
		if a.Prior != nil {
			if p, err := a.Prior.UserProfile(ctx, userID); err == nil && p != nil {
				return p, nil
			}
		}
		return core.NewProfileFromBase(core.ZeroVector(), 0), nil
	}
	vectors := make([]core.EmotionVector, 0, len(history))
	for _, rec := range history {
		vectors = append(vectors, rec.Emotions)
	}
	return core.NewProfileFromBase(core.MeanVectors(vectors), len(history)), nil
}

// History 返回用户全部分析记录，按时间先后排序。
func (a *Accumulator) History(ctx context.Context, userID string) ([]core.Analysis, error) {
	data, err := a.store.Get(ctx, a.key(userID))
	if err != nil {
		if core.IsStoreNotFound(err) {
			return []core.Analysis{}, nil
		}
		return nil, err
	}
	var history []core.Analysis
	if err := json.Unmarshal(data, &history); err != nil {
		return nil, err
	}
	sort.SliceStable(history, func(i, j int) bool {
		return history[i].CreatedAt.Before(history[j].CreatedAt)
	})
	return history, nil
}
