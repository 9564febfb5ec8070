package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rushteam/cinekit/core"
)

// HTTPClassifier 是文本情绪分类服务的 HTTP 客户端实现（实现 core.Classifier）。
//
// 用于对接以 HTTP 暴露的推理服务（TF Serving / TorchServe / 自建分类服务）。
//
// 工程特征：
//   - 推理慢（transformer 模型秒级），批量接口一次网络往返提交多条文本
//   - 空文本在客户端侧短路为 neutral=1，不打扰推理服务
//   - 连接/非 200 响应统一映射为 UNAVAILABLE 的 DomainError
type HTTPClassifier struct {
	// Endpoint 服务端点，例如 "http://localhost:8501/v1/emotions:classify"
	Endpoint string

	// Timeout 超时时间
	Timeout time.Duration

	httpClient *http.Client
}

// NewHTTPClassifier 创建一个文本情绪分类客户端。
func NewHTTPClassifier(endpoint string, timeout time.Duration) *HTTPClassifier {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &HTTPClassifier{
		Endpoint:   endpoint,
		Timeout:    timeout,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClassifier) Name() string {
	return "classifier.http"
}

// Classify 分析单条文本（内部调用批量接口）。
func (c *HTTPClassifier) Classify(ctx context.Context, text string) (core.EmotionVector, error) {
	vectors, err := c.ClassifyBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 {
		return nil, core.NewDomainError(core.ModuleClassifier, core.ErrorCodeUnavailable, "classifier: empty response")
	}
	return vectors[0], nil
}

// ClassifyBatch 批量分析文本情绪。
// 请求格式（JSON）：
//
//	{"texts": ["great movie", "terrifying", ...]}
//
// 响应格式（JSON）：
//
//	{"emotions": [{"joy": 0.9, "surprise": 0.3, ...}, ...]}
func (c *HTTPClassifier) ClassifyBatch(ctx context.Context, texts []string) ([]core.EmotionVector, error) {
	if len(texts) == 0 {
		return []core.EmotionVector{}, nil
	}

	// 空文本不进推理服务，客户端侧直接给 neutral 向量；
	// 只把非空文本发出去，回来再按原位置拼装
	out := make([]core.EmotionVector, len(texts))
	sendIdx := make([]int, 0, len(texts))
	sendTexts := make([]string, 0, len(texts))
	for i, t := range texts {
		if t == "" {
			out[i] = neutralVector()
			continue
		}
		sendIdx = append(sendIdx, i)
		sendTexts = append(sendTexts, t)
	}
	if len(sendTexts) == 0 {
		return out, nil
	}

	jsonData, err := json.Marshal(map[string]any{"texts": sendTexts})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: c.Timeout}
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, core.NewDomainError(core.ModuleClassifier, core.ErrorCodeUnavailable, "classifier: "+err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, core.NewDomainError(core.ModuleClassifier, core.ErrorCodeUnavailable,
			fmt.Sprintf("classifier: status=%d, body=%s", resp.StatusCode, string(bodyBytes)))
	}

	var result struct {
		Emotions []map[string]float64 `json:"emotions"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(result.Emotions) != len(sendTexts) {
		return nil, core.NewDomainError(core.ModuleClassifier, core.ErrorCodeUnavailable,
			fmt.Sprintf("classifier: response count mismatch: expected %d, got %d", len(sendTexts), len(result.Emotions)))
	}

	for j, raw := range result.Emotions {
		vec := core.EmotionVector{}
		for _, dim := range core.BaseEmotions {
			vec[dim] = raw[dim]
		}
		out[sendIdx[j]] = vec.Clamp01()
	}
	return out, nil
}

func neutralVector() core.EmotionVector {
	v := core.ZeroVector()
	v[core.EmotionNeutral] = 1
	return v
}
