package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HumeClassifier implements EmotionClassifier against a Hume-style
// language emotion endpoint. All failures collapse into
// ErrClassifierUnavailable: callers always have a deterministic
// fallback and never retry the classifier.
type HumeClassifier struct {
	apiKey     string
	apiBase    string
	httpClient *http.Client
}

// NewHumeClassifier creates an emotion classifier client.
func NewHumeClassifier(apiKey, apiBase string) *HumeClassifier {
	if apiBase == "" {
		apiBase = "https://api.hume.ai/v0"
	}
	return &HumeClassifier{
		apiKey:  apiKey,
		apiBase: apiBase,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Classify scores the text and returns the top emotion label.
func (c *HumeClassifier) Classify(ctx context.Context, text string) (*ClassifyResponse, error) {
	body, err := json.Marshal(map[string]any{
		"models": map[string]any{"language": map[string]any{}},
		"text":   []string{text},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.apiBase+"/batch/jobs", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Hume-Api-Key", c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrClassifierUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrClassifierUnavailable, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d: %s", ErrClassifierUnavailable, resp.StatusCode, string(respBody))
	}

	var apiResp struct {
		Predictions []struct {
			Emotions []struct {
				Name  string  `json:"name"`
				Score float64 `json:"score"`
			} `json:"emotions"`
		} `json:"predictions"`
	}
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return nil, fmt.Errorf("%w: parse response: %v", ErrClassifierUnavailable, err)
	}
	if len(apiResp.Predictions) == 0 || len(apiResp.Predictions[0].Emotions) == 0 {
		return nil, fmt.Errorf("%w: empty prediction", ErrClassifierUnavailable)
	}

	top := apiResp.Predictions[0].Emotions[0]
	for _, e := range apiResp.Predictions[0].Emotions[1:] {
		if e.Score > top.Score {
			top = e
		}
	}
	return &ClassifyResponse{Emotion: top.Name, Score: top.Score}, nil
}
