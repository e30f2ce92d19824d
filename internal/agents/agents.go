// Package agents defines the stakeholder roster and their canned
// response patterns. The patterns are the offline/fallback voice of
// each agent; live play prefers generated text but must always be able
// to fall back here.
package agents

import (
	"math/rand"
	"strconv"
	"strings"

	"github.com/challengegame/negotiator/internal/emotion"
)

// Profile is one stakeholder at the negotiation table.
type Profile struct {
	ID       string
	Name     string
	Role     string
	Age      int
	Stance   emotion.Stance
	Concerns []string

	// patterns holds three canned lines per sentiment, with
	// {POLICY_COUNT}, {POLICY_AREAS} and {AGENT_CONCERN} placeholders.
	patterns map[emotion.Sentiment][]string
}

// Roster returns the default four-stakeholder table. Callers get a
// fresh slice but the profiles themselves are shared and must be
// treated as read-only.
func Roster() []Profile {
	out := make([]Profile, len(roster))
	copy(out, roster)
	return out
}

// ByID finds a profile in the default roster.
func ByID(id string) (Profile, bool) {
	for _, p := range roster {
		if p.ID == id {
			return p, true
		}
	}
	return Profile{}, false
}

// PatternContext carries the substitution values for canned lines.
type PatternContext struct {
	PolicyCount int
	PolicyAreas []string
}

// CannedLine picks one of the profile's canned lines for the given
// sentiment and fills in the placeholders. Sentiments with no pattern
// row fall back to the neutral row. rng may not be nil.
func (p Profile) CannedLine(sentiment emotion.Sentiment, ctx PatternContext, rng *rand.Rand) string {
	lines, ok := p.patterns[sentiment]
	if !ok || len(lines) == 0 {
		lines = p.patterns[emotion.Balanced]
	}
	if len(lines) == 0 {
		return "I don't have a perspective on these policies."
	}
	line := lines[rng.Intn(len(lines))]

	concern := "education"
	if len(p.Concerns) > 0 {
		concern = p.Concerns[0]
	}
	line = strings.Replace(line, "{POLICY_COUNT}", strconv.Itoa(ctx.PolicyCount), 1)
	line = strings.Replace(line, "{POLICY_AREAS}", strings.Join(ctx.PolicyAreas, ", "), 1)
	line = strings.Replace(line, "{AGENT_CONCERN}", concern, 1)
	return line
}

var roster = []Profile{
	{
		ID:       "minister-santos",
		Name:     "Minister Santos",
		Role:     "Education Minister",
		Age:      52,
		Stance:   emotion.Neoliberal,
		Concerns: []string{"Budget constraints", "Educational standards", "Efficiency"},
		patterns: map[emotion.Sentiment][]string{
			emotion.Positive: {
				"I support these policies for {POLICY_AREAS}. They represent a fiscally responsible approach.",
				"These {POLICY_COUNT} policies align with our goal of efficient resource allocation.",
				"I'm pleased with this cost-effective approach to {AGENT_CONCERN}.",
			},
			emotion.Balanced: {
				"I have mixed feelings about these policies for {POLICY_AREAS}. We need to consider the fiscal implications.",
				"These {POLICY_COUNT} policies have potential, but I'm concerned about their cost-effectiveness.",
				"I'm neither opposed nor enthusiastic about this approach to {AGENT_CONCERN}. We need more data on outcomes.",
			},
			emotion.Negative: {
				"I cannot support these policies for {POLICY_AREAS}. They're fiscally irresponsible.",
				"These {POLICY_COUNT} policies don't align with our budget constraints.",
				"I'm concerned about this approach to {AGENT_CONCERN}. It lacks efficiency and cost-effectiveness.",
			},
		},
	},
	{
		ID:       "dr-chen",
		Name:     "Dr. Chen",
		Role:     "Education Researcher",
		Age:      45,
		Stance:   emotion.Progressive,
		Concerns: []string{"Educational equity", "Inclusive practices", "Systemic barriers"},
		patterns: map[emotion.Sentiment][]string{
			emotion.Positive: {
				"I strongly support these policies for {POLICY_AREAS}. They address systemic barriers in education.",
				"These {POLICY_COUNT} policies represent a transformative approach to educational equity.",
				"I'm enthusiastic about this approach to {AGENT_CONCERN}. It centers the needs of marginalized students.",
			},
			emotion.Balanced: {
				"I see potential in these policies for {POLICY_AREAS}, but they don't go far enough in addressing root causes.",
				"These {POLICY_COUNT} policies are a start, but we need more transformative approaches.",
				"I have reservations about this approach to {AGENT_CONCERN}. It doesn't fully address systemic inequities.",
			},
			emotion.Negative: {
				"I must oppose these policies for {POLICY_AREAS}. They perpetuate existing inequities.",
				"These {POLICY_COUNT} policies fail to address the systemic barriers facing refugee students.",
				"I'm disappointed with this approach to {AGENT_CONCERN}. It maintains the status quo rather than transforming it.",
			},
		},
	},
	{
		ID:       "mayor-okonjo",
		Name:     "Mayor Okonjo",
		Role:     "City Mayor",
		Age:      58,
		Stance:   emotion.Moderate,
		Concerns: []string{"Community integration", "Public perception", "Balanced approach"},
		patterns: map[emotion.Sentiment][]string{
			emotion.Positive: {
				"I can work with these policies for {POLICY_AREAS}. They strike a reasonable balance.",
				"These {POLICY_COUNT} policies represent a pragmatic approach that our community can support.",
				"I appreciate this balanced approach to {AGENT_CONCERN}. It considers multiple perspectives.",
			},
			emotion.Balanced: {
				"I'm considering these policies for {POLICY_AREAS}, but I need to consult with community stakeholders.",
				"These {POLICY_COUNT} policies have merits, but I'm not fully convinced they'll gain broad support.",
				"I'm reserving judgment on this approach to {AGENT_CONCERN}. We need to find common ground.",
			},
			emotion.Negative: {
				"I have concerns about these policies for {POLICY_AREAS}. They may divide our community.",
				"These {POLICY_COUNT} policies lack the balance needed to gain broad community support.",
				"I'm worried about this approach to {AGENT_CONCERN}. We need solutions that bring people together.",
			},
		},
	},
	{
		ID:       "ms-patel",
		Name:     "Ms. Patel",
		Role:     "Refugee Advocate",
		Age:      39,
		Stance:   emotion.Humanitarian,
		Concerns: []string{"Refugee wellbeing", "Trauma-informed approaches", "Cultural sensitivity"},
		patterns: map[emotion.Sentiment][]string{
			emotion.Positive: {
				"I wholeheartedly support these policies for {POLICY_AREAS}. They center refugee wellbeing.",
				"These {POLICY_COUNT} policies demonstrate a genuine commitment to supporting refugee students.",
				"I'm moved by this compassionate approach to {AGENT_CONCERN}. It recognizes the trauma many refugees have experienced.",
			},
			emotion.Balanced: {
				"I see good intentions in these policies for {POLICY_AREAS}, but they need stronger trauma-informed components.",
				"These {POLICY_COUNT} policies show promise, but I worry about implementation challenges.",
				"I have mixed feelings about this approach to {AGENT_CONCERN}. It needs more input from refugee communities.",
			},
			emotion.Negative: {
				"I must speak against these policies for {POLICY_AREAS}. They fail to center refugee wellbeing.",
				"These {POLICY_COUNT} policies lack the trauma-informed approach that refugee students desperately need.",
				"I'm deeply concerned about this approach to {AGENT_CONCERN}. It doesn't reflect the lived experiences of refugees.",
			},
		},
	},
}
