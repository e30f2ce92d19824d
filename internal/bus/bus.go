// Package bus provides the synchronous event bus carrying conversation
// events to observers: transcript persistence, stream publishing, UI.
package bus

import (
	"sync"
	"time"
)

// Event kinds.
const (
	EventMessageAppended = "message_appended"
	EventTurnStarted     = "turn_started"
	EventTurnEnded       = "turn_ended"
	EventPolicySwitched  = "policy_switched"
	EventPhaseChanged    = "phase_changed"
)

// Event is one conversation occurrence. Payload fields are set
// per-kind; unused fields stay zero.
type Event struct {
	Kind      string         `json:"kind"`
	SessionID string         `json:"session_id"`
	MessageID string         `json:"message_id,omitempty"`
	Sender    string         `json:"sender,omitempty"`
	Content   string         `json:"content,omitempty"`
	Emotion   string         `json:"emotion,omitempty"`
	IsUser    bool           `json:"is_user,omitempty"`
	AreaID    string         `json:"area_id,omitempty"`
	Phase     string         `json:"phase,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// Handler observes events. Handlers run synchronously on the
// publisher's goroutine; they must not block on the publisher.
type Handler func(Event)

// Bus fans events out to subscribers. Publish is synchronous so that
// persistence observers see every event before the next state change,
// keeping exported transcripts ordered.
type Bus struct {
	mu   sync.RWMutex
	subs []Handler
}

// New creates an empty bus.
func New() *Bus {
	return &Bus{}
}

// Subscribe registers a handler for all subsequent events.
func (b *Bus) Subscribe(h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs = append(b.subs, h)
}

// Publish delivers the event to every subscriber in registration
// order. The subscriber snapshot is taken under the lock; handlers run
// outside it so they may subscribe re-entrantly.
func (b *Bus) Publish(ev Event) {
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now()
	}
	b.mu.RLock()
	subs := make([]Handler, len(b.subs))
	copy(subs, b.subs)
	b.mu.RUnlock()

	for _, h := range subs {
		h(ev)
	}
}
