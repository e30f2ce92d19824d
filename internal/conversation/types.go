package conversation

import (
	"time"

	"github.com/challengegame/negotiator/internal/emotion"
)

// TurnPhase is where the table currently is in the speak/reply cycle.
type TurnPhase string

const (
	// TurnIdle: no turn scheduled, before the session starts.
	TurnIdle TurnPhase = "idle"
	// TurnAwaitingAgent: an agent turn is scheduled or generating.
	TurnAwaitingAgent TurnPhase = "awaiting-agent"
	// TurnAgentSpeaking: agent audio is playing.
	TurnAgentSpeaking TurnPhase = "agent-speaking"
	// TurnAwaitingUser: the floor is open for the participant.
	TurnAwaitingUser TurnPhase = "awaiting-user"
)

// Message is one transcript entry. The welcome message carries the
// participant's title and IsUser=true even though the participant
// never typed it; exports depend on that attribution.
type Message struct {
	ID           string          `json:"id"`
	Sender       string          `json:"sender"`
	Content      string          `json:"content"`
	Timestamp    time.Time       `json:"timestamp"`
	Emotion      emotion.Emotion `json:"emotion"`
	IsUser       bool            `json:"isUser"`
	RespondingTo string          `json:"respondingTo,omitempty"`
	AreaID       string          `json:"policyAreaId,omitempty"`
}

// Snapshot is a point-in-time copy of conversation state.
type Snapshot struct {
	Messages    []Message
	Phase       TurnPhase
	ActiveAgent string
	LastAgent   string
	AreaID      string
}
