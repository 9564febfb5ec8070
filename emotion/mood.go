package emotion

import (
	"strings"

	"github.com/rushteam/cinekit/core"
)

// moodMap 把用户口语化的 mood 词映射成目标情绪向量。
// 值是权重不是概率，不要求归一化；匹配按小写精确匹配。
var moodMap = map[string]core.EmotionVector{
	"happy":        {core.EmotionJoy: 1.0},
	"joyful":       {core.EmotionJoy: 1.0},
	"cheerful":     {core.EmotionJoy: 1.0},
	"scary":        {core.EmotionFear: 1.0, core.EmotionThrill: 0.8},
	"terrifying":   {core.EmotionFear: 1.0},
	"horror":       {core.EmotionFear: 1.0},
	"thrilling":    {core.EmotionThrill: 1.0, core.EmotionSurprise: 0.6},
	"exciting":     {core.EmotionThrill: 0.8, core.EmotionSurprise: 0.7},
	"suspenseful":  {core.EmotionFear: 0.6, core.EmotionSurprise: 0.8},
	"sad":          {core.EmotionSadness: 1.0},
	"emotional":    {core.EmotionSadness: 0.7, core.EmotionJoy: 0.5},
	"tearjerker":   {core.EmotionSadness: 0.9},
	"romantic":     {core.EmotionRomance: 1.0, core.EmotionJoy: 0.6},
	"love":         {core.EmotionRomance: 1.0},
	"funny":        {core.EmotionHumor: 1.0, core.EmotionJoy: 0.8},
	"comedy":       {core.EmotionHumor: 1.0},
	"hilarious":    {core.EmotionHumor: 1.0},
	"inspiring":    {core.EmotionInspiration: 1.0, core.EmotionJoy: 0.6},
	"motivational": {core.EmotionInspiration: 1.0},
	"uplifting":    {core.EmotionInspiration: 0.8, core.EmotionJoy: 0.7},
	"angry":        {core.EmotionAnger: 1.0},
	"intense":      {core.EmotionAnger: 0.7, core.EmotionThrill: 0.7},
	"surprising":   {core.EmotionSurprise: 1.0},
	"mindblowing":  {core.EmotionSurprise: 1.0, core.EmotionInspiration: 0.5},
}

// MoodResolver 负责 mood 词到查询向量的解析。
type MoodResolver struct{}

// NewMoodResolver ..
func NewMoodResolver() *MoodResolver {
	return &MoodResolver{}
}

// Resolve 解析 mood 词：先 trim 再转小写后查表。
// 未命中返回温和的默认查询 {joy: 0.5}，并用 matched 标记是否命中，
// 调用方可据此打标签做可解释性。
func (r *MoodResolver) Resolve(mood string) (query core.EmotionVector, matched bool) {
	key := strings.ToLower(strings.TrimSpace(mood))
	if v, ok := moodMap[key]; ok {
		return v.Clone(), true
	}
	return core.EmotionVector{core.EmotionJoy: 0.5}, false
}

// KnownMoods 返回所有受支持的 mood 词，供接口层提示用。
func KnownMoods() []string {
	out := make([]string, 0, len(moodMap))
	for k := range moodMap {
		out = append(out, k)
	}
	return out
}
