// Package provider implements the remote service clients used during
// negotiation: text generation and emotion classification.
package provider

import (
	"context"
	"errors"
)

// TextGenerator is the interface for dialogue generation backends.
type TextGenerator interface {
	// Generate sends a completion request and returns the response.
	Generate(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error)
	// DefaultModel returns the configured default model.
	DefaultModel() string
}

// EmotionClassifier scores free text against a closed emotion set.
type EmotionClassifier interface {
	Classify(ctx context.Context, text string) (*ClassifyResponse, error)
}

// Sentinel errors. Orchestration code branches on these to decide
// between retry, fallback text, and fallback emotion.
var (
	// ErrGenerationTimeout signals the backend did not answer within
	// its deadline.
	ErrGenerationTimeout = errors.New("generation timed out")
	// ErrGenerationRejected signals the backend answered with a
	// non-retryable refusal (bad key, bad request, moderation).
	ErrGenerationRejected = errors.New("generation rejected")
	// ErrClassifierUnavailable signals the emotion service could not
	// be reached or returned garbage.
	ErrClassifierUnavailable = errors.New("emotion classifier unavailable")
)

// GenerateRequest contains the parameters for a completion request.
type GenerateRequest struct {
	Messages    []Message
	Model       string
	MaxTokens   int
	Temperature float64
}

// GenerateResponse contains the response from a completion request.
type GenerateResponse struct {
	Content      string
	FinishReason string
	Usage        Usage
}

// Message represents a chat message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Usage contains token usage information.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ClassifyResponse is one classifier verdict.
type ClassifyResponse struct {
	// Emotion is the raw label from the service; callers normalize it
	// into their closed set.
	Emotion string
	// Score is the classifier's confidence in [0, 1].
	Score float64
}
