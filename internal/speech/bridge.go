package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Bridge is a Synthesizer backed by a local TTS bridge process over
// HTTP. The bridge owns the audio device; this client only submits
// utterances and polls for completion.
type Bridge struct {
	baseURL    string
	httpClient *http.Client
	// pollEvery controls completion polling; shortened in tests.
	pollEvery time.Duration
}

// NewBridge creates a client for a local TTS bridge.
func NewBridge(baseURL string) *Bridge {
	if baseURL == "" {
		baseURL = "http://127.0.0.1:5002"
	}
	return &Bridge{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		pollEvery:  250 * time.Millisecond,
	}
}

// Speak submits the utterance and blocks until playback ends or ctx is
// done. onStart fires once the bridge accepts the job, onEnd when the
// bridge reports playback complete.
func (b *Bridge) Speak(ctx context.Context, req Request, onStart, onEnd func()) error {
	body, err := json.Marshal(map[string]any{
		"text":   req.Text,
		"agent":  req.AgentID,
		"rate":   req.Voice.Rate,
		"pitch":  req.Voice.Pitch,
		"volume": req.Voice.Volume,
	})
	if err != nil {
		return fmt.Errorf("marshal utterance: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", b.baseURL+"/speak", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := b.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSpeechUnavailable, err)
	}
	defer resp.Body.Close()
	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		return fmt.Errorf("%w: status %d: %s", ErrSpeechUnavailable, resp.StatusCode, string(respBody))
	}

	var job struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(respBody, &job); err != nil || job.ID == "" {
		return fmt.Errorf("%w: bad job response: %s", ErrSpeechUnavailable, string(respBody))
	}

	if onStart != nil {
		onStart()
	}

	ticker := time.NewTicker(b.pollEvery)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			done, err := b.jobDone(ctx, job.ID)
			if err != nil {
				return err
			}
			if done {
				if onEnd != nil {
					onEnd()
				}
				return nil
			}
		}
	}
}

func (b *Bridge) jobDone(ctx context.Context, id string) (bool, error) {
	httpReq, err := http.NewRequestWithContext(ctx, "GET", b.baseURL+"/jobs/"+id, nil)
	if err != nil {
		return false, err
	}
	resp, err := b.httpClient.Do(httpReq)
	if err != nil {
		// Cancellation during a poll is the caller's doing, not the
		// bridge's; report it as such.
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		return false, fmt.Errorf("%w: %v", ErrSpeechUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("%w: job poll status %d", ErrSpeechUnavailable, resp.StatusCode)
	}
	var status struct {
		State string `json:"state"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		return false, fmt.Errorf("%w: bad job status: %v", ErrSpeechUnavailable, err)
	}
	return status.State == "done", nil
}
