package agents

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/challengegame/negotiator/internal/emotion"
)

func TestRosterShape(t *testing.T) {
	r := Roster()
	if len(r) != 4 {
		t.Fatalf("roster size = %d, want 4", len(r))
	}
	stances := map[emotion.Stance]bool{}
	for _, p := range r {
		if p.ID == "" || p.Name == "" || p.Role == "" {
			t.Fatalf("incomplete profile: %+v", p)
		}
		if len(p.Concerns) == 0 {
			t.Fatalf("%s has no concerns", p.ID)
		}
		stances[p.Stance] = true
		for _, sent := range []emotion.Sentiment{emotion.Positive, emotion.Balanced, emotion.Negative} {
			if len(p.patterns[sent]) != 3 {
				t.Fatalf("%s has %d %s patterns, want 3", p.ID, len(p.patterns[sent]), sent)
			}
		}
	}
	if len(stances) != 4 {
		t.Fatalf("stances not distinct: %v", stances)
	}
}

func TestByID(t *testing.T) {
	p, ok := ByID("ms-patel")
	if !ok || p.Stance != emotion.Humanitarian {
		t.Fatalf("ms-patel lookup failed: %+v ok=%v", p, ok)
	}
	if _, ok := ByID("nobody"); ok {
		t.Fatal("unknown id should miss")
	}
}

func TestCannedLineSubstitution(t *testing.T) {
	p, _ := ByID("minister-santos")
	rng := rand.New(rand.NewSource(1))
	ctx := PatternContext{PolicyCount: 3, PolicyAreas: []string{"Access to Education", "Financial Support"}}
	for i := 0; i < 20; i++ {
		line := p.CannedLine(emotion.Negative, ctx, rng)
		if strings.Contains(line, "{POLICY_COUNT}") ||
			strings.Contains(line, "{POLICY_AREAS}") ||
			strings.Contains(line, "{AGENT_CONCERN}") {
			t.Fatalf("unsubstituted placeholder in %q", line)
		}
	}
}

func TestCannedLineUnknownSentimentFallsBackToNeutral(t *testing.T) {
	p, _ := ByID("dr-chen")
	rng := rand.New(rand.NewSource(7))
	line := p.CannedLine(emotion.Sentiment("confused"), PatternContext{PolicyCount: 1}, rng)
	if line == "" {
		t.Fatal("fallback line must not be empty")
	}
	found := false
	for _, pat := range p.patterns[emotion.Balanced] {
		head := strings.SplitN(pat, "{", 2)[0]
		if strings.HasPrefix(line, head) {
			found = true
		}
	}
	if !found {
		t.Fatalf("line %q not drawn from neutral patterns", line)
	}
}
