package emotion

import "testing"

func TestSentimentCutoffsNeoliberal(t *testing.T) {
	cases := []struct {
		tiers []int
		want  Sentiment
	}{
		{[]int{1, 2}, Positive},    // mean 1.5
		{[]int{3, 3, 2}, Negative}, // mean ~2.67
		{[]int{2, 2}, Balanced},    // mean 2.0
		{[]int{2, 3, 1, 3}, Balanced},
	}
	for _, c := range cases {
		if got := SentimentForTiers(Neoliberal, c.tiers); got != c.want {
			t.Fatalf("NEOLIBERAL tiers %v = %s, want %s", c.tiers, got, c.want)
		}
	}
}

func TestSentimentCutoffsProgressive(t *testing.T) {
	cases := []struct {
		tiers []int
		want  Sentiment
	}{
		{[]int{3, 3, 2}, Positive}, // mean ~2.67
		{[]int{1, 1, 2}, Negative}, // mean ~1.33
		{[]int{2, 2}, Balanced},
		{[]int{1, 2}, Balanced}, // mean 1.5, not strictly below
	}
	for _, c := range cases {
		if got := SentimentForTiers(Progressive, c.tiers); got != c.want {
			t.Fatalf("PROGRESSIVE tiers %v = %s, want %s", c.tiers, got, c.want)
		}
	}
}

func TestSentimentModerateNeverNegative(t *testing.T) {
	cases := []struct {
		tiers []int
		want  Sentiment
	}{
		{[]int{2, 2}, Positive},       // mean 2.0, inside band
		{[]int{1, 3, 2, 2}, Positive}, // mean 2.0
		{[]int{1, 1}, Balanced},
		{[]int{3, 3}, Balanced},
	}
	for _, c := range cases {
		got := SentimentForTiers(Moderate, c.tiers)
		if got != c.want {
			t.Fatalf("MODERATE tiers %v = %s, want %s", c.tiers, got, c.want)
		}
		if got == Negative {
			t.Fatalf("MODERATE must never be negative, tiers %v", c.tiers)
		}
	}
}

func TestSentimentHumanitarian(t *testing.T) {
	if got := SentimentForTiers(Humanitarian, []int{3, 3, 1}); got != Positive {
		t.Fatalf("mean ~2.33 should be positive, got %s", got)
	}
	if got := SentimentForTiers(Humanitarian, []int{2, 2}); got != Negative {
		t.Fatalf("mean 2.0 should be negative (strict cutoff), got %s", got)
	}
}

func TestEmptySelectionIsBalancedForEveryStance(t *testing.T) {
	for _, s := range []Stance{Neoliberal, Progressive, Moderate, Humanitarian} {
		if got := SentimentForTiers(s, nil); got != Balanced {
			t.Fatalf("%s with no selections = %s, want %s", s, got, Balanced)
		}
	}
}

func TestFallbackTableIsTotal(t *testing.T) {
	for _, s := range []Stance{Neoliberal, Progressive, Moderate, Humanitarian} {
		for _, sent := range []Sentiment{Positive, Balanced, Negative} {
			e := Fallback(s, sent)
			valid := false
			for _, known := range All {
				if e == known {
					valid = true
				}
			}
			if !valid {
				t.Fatalf("Fallback(%s, %s) = %q outside the closed set", s, sent, e)
			}
		}
	}
	if Fallback(Humanitarian, Balanced) != Concern {
		t.Fatal("humanitarian neutral fallback should be concern")
	}
	if Fallback(Moderate, Negative) != Concern {
		t.Fatal("moderate negative fallback should be concern")
	}
}

func TestParseNormalizesUnknownToNeutral(t *testing.T) {
	if got := Parse("  Enthusiasm "); got != Enthusiasm {
		t.Fatalf("Parse should trim and lowercase, got %s", got)
	}
	if got := Parse("ecstatic"); got != Neutral {
		t.Fatalf("unknown label should map to neutral, got %s", got)
	}
}

func TestDetectKeyword(t *testing.T) {
	cases := []struct {
		text string
		want Emotion
	}{
		{"This proposal is ridiculous and unfair", Anger},
		{"I am worried about the funding risk here", Concern},
		{"Excellent, this is a great step forward", Enthusiasm},
		{"It is unfortunate we could not do more", Frustration},
		{"We must support and care for these families", Compassion},
		{"The committee will reconvene on Tuesday", Neutral},
	}
	for _, c := range cases {
		if got := DetectKeyword(c.text); got != c.want {
			t.Fatalf("DetectKeyword(%q) = %s, want %s", c.text, got, c.want)
		}
	}
}

func TestForPolicyStancePreferences(t *testing.T) {
	if got := ForPolicy(Neoliberal, 1, "Financial Support"); got != Enthusiasm {
		t.Fatalf("neoliberal tier-1 in financial area = %s, want enthusiasm", got)
	}
	if got := ForPolicy(Neoliberal, 3, "Financial Support"); got != Frustration {
		t.Fatalf("neoliberal tier-3 in financial area = %s, want frustration", got)
	}
	if got := ForPolicy(Progressive, 3, "Access to Education"); got != Enthusiasm {
		t.Fatalf("progressive tier-3 access = %s, want enthusiasm", got)
	}
	if got := ForPolicy(Humanitarian, 1, "Psychosocial Support"); got != Anger {
		t.Fatalf("humanitarian tier-1 psychosocial = %s, want anger", got)
	}
	if got := ForPolicy(Moderate, 2, "anything"); got != Neutral {
		t.Fatalf("moderate tier-2 = %s, want neutral", got)
	}
}

func TestVoiceForDefaultsAndRanges(t *testing.T) {
	if v := VoiceFor(Neutral); v.Rate != 1.0 || v.Pitch != 1.0 || v.Volume != 1.0 {
		t.Fatalf("neutral voice should be unity, got %+v", v)
	}
	for _, e := range All {
		v := VoiceFor(e)
		if v.Rate < 0.5 || v.Rate > 2 || v.Volume <= 0 || v.Volume > 1 {
			t.Fatalf("voice for %s out of range: %+v", e, v)
		}
	}
}
