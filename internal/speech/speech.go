// Package speech abstracts text-to-speech playback for agent turns.
package speech

import (
	"context"
	"errors"

	"github.com/challengegame/negotiator/internal/emotion"
)

// ErrSpeechUnavailable signals the synthesizer cannot play this
// utterance. Callers fall back to a reading-time timer so the turn
// still completes.
var ErrSpeechUnavailable = errors.New("speech synthesis unavailable")

// Request is one utterance to synthesize.
type Request struct {
	Text    string
	AgentID string
	Voice   emotion.Voice
}

// Synthesizer plays an utterance, invoking onStart when audio begins
// and onEnd when it finishes. A non-nil error means playback will not
// complete and onEnd never fires; onStart may already have fired if
// audio began before the failure.
type Synthesizer interface {
	Speak(ctx context.Context, req Request, onStart, onEnd func()) error
}

// Noop is a Synthesizer that always reports unavailability, for
// headless play and tests of the timer fallback path.
type Noop struct{}

func (Noop) Speak(ctx context.Context, req Request, onStart, onEnd func()) error {
	return ErrSpeechUnavailable
}
