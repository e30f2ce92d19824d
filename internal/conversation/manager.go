// Package conversation orchestrates turn-taking at the negotiation
// table: who speaks next, when, and how a turn completes when speech
// or generation backends fail.
package conversation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/challengegame/negotiator/internal/agents"
	"github.com/challengegame/negotiator/internal/bus"
	"github.com/challengegame/negotiator/internal/catalog"
	"github.com/challengegame/negotiator/internal/emotion"
	"github.com/challengegame/negotiator/internal/respond"
	"github.com/challengegame/negotiator/internal/speech"
)

// WelcomeText opens every session.
const WelcomeText = "Welcome to the stakeholder negotiation phase. The community leaders are ready to discuss your selected policies. Each stakeholder will speak in turn, and you can respond after each one."

// Sentinel errors for caller misuse. State is never mutated when one
// of these is returned.
var (
	ErrEmptyMessage = errors.New("message is empty")
	ErrTurnInFlight = errors.New("an agent turn is already in flight")
	ErrNotStarted   = errors.New("conversation not started")
)

// recentWindow is how many trailing messages the second-tier speaker
// rule inspects.
const recentWindow = 4

// Responder produces agent replies. *respond.Generator satisfies it.
type Responder interface {
	Generate(ctx context.Context, req respond.Request) respond.Reply
}

// Options configures a Manager. Roster, Responder and Bus are
// required; everything else has defaults.
type Options struct {
	SessionID  string
	UserTitle  string
	Roster     []agents.Profile
	Selections []catalog.PolicyOption
	Responder  Responder
	Synth      speech.Synthesizer
	Bus        *bus.Bus
	Logger     *slog.Logger
	Rand       *rand.Rand

	// FirstAgentDelay is the pause between the welcome message and
	// the opening agent turn.
	FirstAgentDelay time.Duration
	// ReplyDelay is the pause between a user message and the
	// responding agent turn.
	ReplyDelay time.Duration
	// SpeechFallbackMin/Max bound the reading-time timer armed when
	// speech synthesis fails.
	SpeechFallbackMin time.Duration
	SpeechFallbackMax time.Duration

	// AgentChatter lets agents answer each other without waiting for
	// the participant. Off by default; scripted sessions need the
	// floor handed back after every turn.
	AgentChatter    bool
	ChatterChance   float64
	ChatterMinDelay time.Duration
	ChatterMaxDelay time.Duration
}

// Manager owns the conversation state. All exported methods are safe
// for concurrent use; the mutex owns every field below it.
type Manager struct {
	opts Options

	mu          sync.Mutex
	ctx         context.Context
	started     bool
	messages    []Message
	phase       TurnPhase
	activeAgent string
	lastAgent   string
	inFlight    bool
	turnSeq     uint64
	sched       uint64
	areaID      string
	areaTitle   string
	discussed   map[string]bool
}

// NewManager creates a Manager. It does not speak until Start.
func NewManager(opts Options) (*Manager, error) {
	if len(opts.Roster) == 0 {
		return nil, fmt.Errorf("roster is empty")
	}
	if opts.Responder == nil {
		return nil, fmt.Errorf("responder is required")
	}
	if opts.Bus == nil {
		opts.Bus = bus.New()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.Synth == nil {
		opts.Synth = speech.Noop{}
	}
	if opts.SessionID == "" {
		opts.SessionID = uuid.NewString()
	}
	if opts.UserTitle == "" {
		opts.UserTitle = "Policy Advisor"
	}
	if opts.FirstAgentDelay == 0 {
		opts.FirstAgentDelay = 2 * time.Second
	}
	if opts.ReplyDelay == 0 {
		opts.ReplyDelay = time.Second
	}
	if opts.SpeechFallbackMin == 0 {
		opts.SpeechFallbackMin = 3 * time.Second
	}
	if opts.SpeechFallbackMax == 0 {
		opts.SpeechFallbackMax = 10 * time.Second
	}
	if opts.ChatterChance == 0 {
		opts.ChatterChance = 0.7
	}
	if opts.ChatterMinDelay == 0 {
		opts.ChatterMinDelay = time.Second
	}
	if opts.ChatterMaxDelay == 0 {
		opts.ChatterMaxDelay = 3 * time.Second
	}
	return &Manager{
		opts:      opts,
		phase:     TurnIdle,
		discussed: map[string]bool{},
	}, nil
}

// SessionID returns the session identifier.
func (m *Manager) SessionID() string { return m.opts.SessionID }

// Start appends the welcome message and schedules the opening agent
// turn. Calling Start twice is a no-op.
func (m *Manager) Start(ctx context.Context) {
	m.mu.Lock()
	if m.started {
		m.mu.Unlock()
		return
	}
	m.started = true
	m.ctx = ctx

	// The welcome is attributed to the participant's title with
	// IsUser set, matching the export format downstream tools expect.
	welcome := Message{
		ID:        "system-" + uuid.NewString(),
		Sender:    m.opts.UserTitle,
		Content:   WelcomeText,
		Timestamp: time.Now(),
		Emotion:   emotion.Neutral,
		IsUser:    true,
	}
	m.appendLocked(welcome)
	opening := m.opts.Roster[0]
	m.scheduleLocked(m.opts.FirstAgentDelay, opening, "")
	m.mu.Unlock()
}

// scheduleLocked arms a future agent turn. The turn is dropped if the
// schedule generation moves on before it fires (policy switch).
// Callers hold mu.
func (m *Manager) scheduleLocked(delay time.Duration, agent agents.Profile, respondToID string) {
	gen := m.sched
	time.AfterFunc(delay, func() {
		m.mu.Lock()
		stale := gen != m.sched
		m.mu.Unlock()
		if stale {
			return
		}
		m.runAgentTurn(agent, respondToID)
	})
}

// SwitchPolicy moves the table into per-policy discussion of the
// given area. A "System" banner announces the topic and a random
// agent opens after the reply delay.
func (m *Manager) SwitchPolicy(area catalog.PolicyArea) error {
	m.mu.Lock()
	if !m.started {
		m.mu.Unlock()
		return ErrNotStarted
	}
	m.areaID = area.ID
	m.areaTitle = area.Title

	// Invalidate scheduled and in-flight turns; their callbacks become
	// no-ops against the new topic.
	m.sched++
	m.turnSeq++
	m.inFlight = false
	m.activeAgent = ""
	m.phase = TurnAwaitingAgent

	banner := Message{
		ID:        uuid.NewString(),
		Sender:    "System",
		Content:   fmt.Sprintf("Let's discuss the %s policy.", area.Title),
		Timestamp: time.Now(),
		Emotion:   emotion.Neutral,
		AreaID:    area.ID,
	}
	m.appendLocked(banner)
	m.opts.Bus.Publish(bus.Event{
		Kind:      bus.EventPolicySwitched,
		SessionID: m.opts.SessionID,
		AreaID:    area.ID,
		Content:   area.Title,
	})

	// A random agent opens per-policy discussion; mark it as the last
	// speaker up front so it cannot also take the following turn.
	opening := m.opts.Roster[m.opts.Rand.Intn(len(m.opts.Roster))]
	m.lastAgent = opening.Name
	m.scheduleLocked(m.opts.ReplyDelay, opening, "")
	m.mu.Unlock()
	return nil
}

// MarkDiscussed records that an area's discussion is complete.
func (m *Manager) MarkDiscussed(areaID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.discussed[areaID] = true
}

// DiscussedAreas returns the IDs of areas marked complete.
func (m *Manager) DiscussedAreas() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.discussed))
	for id := range m.discussed {
		out = append(out, id)
	}
	return out
}

// SendMessage appends a participant message and schedules the
// responding agent. Empty or whitespace-only input is rejected with
// ErrEmptyMessage and no state change.
func (m *Manager) SendMessage(text string) (Message, error) {
	if strings.TrimSpace(text) == "" {
		return Message{}, ErrEmptyMessage
	}

	m.mu.Lock()
	if !m.started {
		m.mu.Unlock()
		return Message{}, ErrNotStarted
	}
	msg := Message{
		ID:           "user-" + uuid.NewString(),
		Sender:       m.opts.UserTitle,
		Content:      text,
		Timestamp:    time.Now(),
		Emotion:      emotion.DetectKeyword(text),
		IsUser:       true,
		RespondingTo: m.lastAgent,
		AreaID:       m.areaID,
	}
	m.appendLocked(msg)
	m.phase = TurnAwaitingAgent
	next := m.nextRespondingAgentLocked()
	m.scheduleLocked(m.opts.ReplyDelay, next, msg.ID)
	m.mu.Unlock()
	return msg, nil
}

// TriggerAgent forces an immediate turn for the named agent, for
// moderator tooling. Returns ErrTurnInFlight if a turn is running.
func (m *Manager) TriggerAgent(name string) error {
	m.mu.Lock()
	if !m.started {
		m.mu.Unlock()
		return ErrNotStarted
	}
	if m.inFlight {
		m.mu.Unlock()
		return ErrTurnInFlight
	}
	var agent *agents.Profile
	for i := range m.opts.Roster {
		if m.opts.Roster[i].Name == name {
			agent = &m.opts.Roster[i]
		}
	}
	m.mu.Unlock()
	if agent == nil {
		return fmt.Errorf("unknown agent %q", name)
	}
	go m.runAgentTurn(*agent, "")
	return nil
}

// NextRespondingAgent picks who speaks next:
//  1. an agent who has not spoken yet, in roster order;
//  2. otherwise an agent absent from the last 4 messages who is not
//     the immediately previous speaker;
//  3. otherwise uniform random excluding the previous speaker.
func (m *Manager) NextRespondingAgent() agents.Profile {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.nextRespondingAgentLocked()
}

func (m *Manager) nextRespondingAgentLocked() agents.Profile {
	// In per-policy mode the bookkeeping only sees the current area's
	// messages, so every agent gets a fresh chance per topic.
	scoped := m.messages
	if m.areaID != "" {
		scoped = nil
		for _, msg := range m.messages {
			if msg.AreaID == m.areaID {
				scoped = append(scoped, msg)
			}
		}
	}

	spoke := map[string]bool{}
	for _, msg := range scoped {
		if !msg.IsUser && m.isAgentLocked(msg.Sender) {
			spoke[msg.Sender] = true
		}
	}
	for _, a := range m.opts.Roster {
		if !spoke[a.Name] {
			return a
		}
	}

	recent := map[string]bool{}
	tail := scoped
	if len(tail) > recentWindow {
		tail = tail[len(tail)-recentWindow:]
	}
	for _, msg := range tail {
		if !msg.IsUser {
			recent[msg.Sender] = true
		}
	}

	var pool []agents.Profile
	for _, a := range m.opts.Roster {
		if a.Name != m.lastAgent && !recent[a.Name] {
			pool = append(pool, a)
		}
	}
	if len(pool) == 0 {
		for _, a := range m.opts.Roster {
			if a.Name != m.lastAgent {
				pool = append(pool, a)
			}
		}
	}
	if len(pool) == 0 {
		pool = m.opts.Roster
	}
	return pool[m.opts.Rand.Intn(len(pool))]
}

func (m *Manager) isAgentLocked(name string) bool {
	for _, a := range m.opts.Roster {
		if a.Name == name {
			return true
		}
	}
	return false
}

// runAgentTurn generates, appends and voices one agent reply. Only one
// turn runs at a time; a second trigger while one is in flight is
// dropped, matching the single-speaker rule.
func (m *Manager) runAgentTurn(agent agents.Profile, respondToID string) {
	m.mu.Lock()
	if m.inFlight {
		m.mu.Unlock()
		m.opts.Logger.Debug("agent turn already in flight, skipping", "agent", agent.Name)
		return
	}
	m.inFlight = true
	m.turnSeq++
	token := m.turnSeq
	m.phase = TurnAwaitingAgent
	m.activeAgent = agent.Name
	m.lastAgent = agent.Name
	ctx := m.ctx
	history := make([]respond.ContextMessage, len(m.messages))
	for i, msg := range m.messages {
		history[i] = respond.ContextMessage{Sender: msg.Sender, Content: msg.Content, IsUser: msg.IsUser}
	}
	respondTo := m.userContentLocked(respondToID)
	areaID, areaTitle := m.areaID, m.areaTitle
	m.mu.Unlock()

	m.opts.Bus.Publish(bus.Event{
		Kind:      bus.EventTurnStarted,
		SessionID: m.opts.SessionID,
		Sender:    agent.Name,
		AreaID:    areaID,
	})

	reply := m.opts.Responder.Generate(ctx, respond.Request{
		Agent:         agent,
		Policies:      m.opts.Selections,
		History:       history,
		RespondToUser: respondTo,
		AreaTitle:     areaTitle,
	})

	msg := Message{
		ID:           strings.ToLower(strings.ReplaceAll(agent.Name, " ", "-")) + "-" + uuid.NewString(),
		Sender:       agent.Name,
		Content:      reply.Message,
		Timestamp:    time.Now(),
		Emotion:      reply.Emotion,
		RespondingTo: respondToID,
		AreaID:       areaID,
	}

	m.mu.Lock()
	if token != m.turnSeq {
		// The topic changed while the reply was generating; it no
		// longer belongs to the conversation in front of the table.
		m.mu.Unlock()
		m.opts.Logger.Debug("discarding superseded agent reply", "agent", agent.Name)
		return
	}
	m.appendLocked(msg)
	m.mu.Unlock()

	err := m.opts.Synth.Speak(ctx, speech.Request{
		Text:    reply.Message,
		AgentID: agent.ID,
		Voice:   emotion.VoiceFor(reply.Emotion),
	}, func() {
		m.markSpeaking(token)
	}, func() {
		m.completeTurn(token)
	})
	if err != nil {
		// Speech is cosmetic; hold the floor for roughly the reading
		// time, then hand it to the participant.
		m.opts.Logger.Warn("speech synthesis failed, arming reading timer",
			"agent", agent.Name, "error", err)
		dur := m.readingTime(reply.Message)
		time.AfterFunc(dur, func() {
			m.completeTurn(token)
		})
	}
}

func (m *Manager) userContentLocked(id string) string {
	if id == "" {
		return ""
	}
	for i := len(m.messages) - 1; i >= 0; i-- {
		if m.messages[i].ID == id {
			return m.messages[i].Content
		}
	}
	return ""
}

// readingTime clamps len(text)*50ms into the configured window.
func (m *Manager) readingTime(text string) time.Duration {
	dur := time.Duration(len(text)) * 50 * time.Millisecond
	if dur < m.opts.SpeechFallbackMin {
		dur = m.opts.SpeechFallbackMin
	}
	if dur > m.opts.SpeechFallbackMax {
		dur = m.opts.SpeechFallbackMax
	}
	return dur
}

// markSpeaking flips the phase to AgentSpeaking unless the turn has
// already been superseded.
func (m *Manager) markSpeaking(token uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if token != m.turnSeq {
		return
	}
	m.phase = TurnAgentSpeaking
}

// completeTurn releases the floor. Stale completions from superseded
// turns are dropped so a late speech callback cannot end the wrong
// turn.
func (m *Manager) completeTurn(token uint64) {
	m.mu.Lock()
	if token != m.turnSeq || !m.inFlight {
		m.mu.Unlock()
		return
	}
	m.inFlight = false
	m.phase = TurnAwaitingUser
	agent := m.activeAgent
	m.activeAgent = ""
	areaID := m.areaID
	chatter := m.opts.AgentChatter && m.opts.Rand.Float64() < m.opts.ChatterChance
	var next agents.Profile
	if chatter {
		next = m.nextRespondingAgentLocked()
	}
	m.mu.Unlock()

	m.opts.Bus.Publish(bus.Event{
		Kind:      bus.EventTurnEnded,
		SessionID: m.opts.SessionID,
		Sender:    agent,
		AreaID:    areaID,
	})

	if chatter {
		m.mu.Lock()
		delay := m.opts.ChatterMinDelay
		if spread := m.opts.ChatterMaxDelay - m.opts.ChatterMinDelay; spread > 0 {
			delay += time.Duration(m.opts.Rand.Int63n(int64(spread)))
		}
		m.scheduleLocked(delay, next, "")
		m.mu.Unlock()
	}
}

// appendLocked adds the message and publishes it. Callers hold mu.
func (m *Manager) appendLocked(msg Message) {
	m.messages = append(m.messages, msg)
	m.opts.Bus.Publish(bus.Event{
		Kind:      bus.EventMessageAppended,
		SessionID: m.opts.SessionID,
		MessageID: msg.ID,
		Sender:    msg.Sender,
		Content:   msg.Content,
		Emotion:   string(msg.Emotion),
		IsUser:    msg.IsUser,
		AreaID:    msg.AreaID,
		Timestamp: msg.Timestamp,
	})
}

// UserMessageCount reports how many messages carry the user flag. The
// welcome message carries it and counts, so re-deriving the count from
// an exported transcript always yields the same number.
func (m *Manager) UserMessageCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, msg := range m.messages {
		if msg.IsUser {
			n++
		}
	}
	return n
}

// AreaUserMessageCount reports user-flagged messages scoped to one
// policy area.
func (m *Manager) AreaUserMessageCount(areaID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, msg := range m.messages {
		if msg.IsUser && msg.AreaID == areaID {
			n++
		}
	}
	return n
}

// Snapshot returns a copy of the current state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	msgs := make([]Message, len(m.messages))
	copy(msgs, m.messages)
	return Snapshot{
		Messages:    msgs,
		Phase:       m.phase,
		ActiveAgent: m.activeAgent,
		LastAgent:   m.lastAgent,
		AreaID:      m.areaID,
	}
}

// Export returns the transcript in log form: user entries carry the
// agent they were responding to in the Agent column.
func (m *Manager) Export() []ExportEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]ExportEntry, len(m.messages))
	for i, msg := range m.messages {
		agent := msg.Sender
		if msg.IsUser {
			agent = msg.RespondingTo
		}
		out[i] = ExportEntry{
			ID:        msg.ID,
			Agent:     agent,
			Content:   msg.Content,
			Timestamp: msg.Timestamp,
			Emotion:   string(msg.Emotion),
			IsUser:    msg.IsUser,
			AreaID:    msg.AreaID,
		}
	}
	return out
}

// ExportEntry is one transcript log row.
type ExportEntry struct {
	ID        string    `json:"id"`
	Agent     string    `json:"agent"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	Emotion   string    `json:"emotion"`
	IsUser    bool      `json:"isUser"`
	AreaID    string    `json:"policyAreaId,omitempty"`
}
