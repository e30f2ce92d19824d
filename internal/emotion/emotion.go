// Package emotion maps agent stances and policy packages to sentiments
// and display/voice emotions. Everything here is deterministic and
// synchronous: these tables are the error path for the remote emotion
// classifier, so they must work with no network dependency.
package emotion

import "strings"

// Emotion is the closed set of display/voice emotion tags.
type Emotion string

const (
	Neutral     Emotion = "neutral"
	Anger       Emotion = "anger"
	Compassion  Emotion = "compassion"
	Frustration Emotion = "frustration"
	Enthusiasm  Emotion = "enthusiasm"
	Concern     Emotion = "concern"
)

// All lists every valid emotion tag.
var All = []Emotion{Neutral, Anger, Compassion, Frustration, Enthusiasm, Concern}

// Parse normalizes a free-form label into the closed set. Unknown
// labels map to Neutral.
func Parse(label string) Emotion {
	switch Emotion(strings.ToLower(strings.TrimSpace(label))) {
	case Anger:
		return Anger
	case Compassion:
		return Compassion
	case Frustration:
		return Frustration
	case Enthusiasm:
		return Enthusiasm
	case Concern:
		return Concern
	default:
		return Neutral
	}
}

// Sentiment is an agent's derived judgment of the policy package.
type Sentiment string

const (
	Positive Sentiment = "positive"
	Negative Sentiment = "negative"
	Balanced Sentiment = "neutral"
)

// Stance is an agent's fixed ideological disposition.
type Stance string

const (
	Neoliberal   Stance = "NEOLIBERAL"
	Progressive  Stance = "PROGRESSIVE"
	Moderate     Stance = "MODERATE"
	Humanitarian Stance = "HUMANITARIAN"
)

// SentimentForTiers derives a stance's sentiment from the mean tier of
// the selected policies. The cutoffs are stance-specific and
// asymmetric on purpose; scenario scoring depends on them:
//
//	NEOLIBERAL    positive < 2,      negative > 2.5
//	PROGRESSIVE   positive > 2.5,    negative < 1.5
//	MODERATE      positive in [1.8, 2.2], otherwise neutral
//	HUMANITARIAN  positive > 2,      otherwise negative
//
// An empty tier list yields Balanced for every stance.
func SentimentForTiers(stance Stance, tiers []int) Sentiment {
	if len(tiers) == 0 {
		return Balanced
	}
	sum := 0
	for _, tier := range tiers {
		sum += tier
	}
	mean := float64(sum) / float64(len(tiers))

	switch stance {
	case Neoliberal:
		switch {
		case mean < 2:
			return Positive
		case mean > 2.5:
			return Negative
		default:
			return Balanced
		}
	case Progressive:
		switch {
		case mean > 2.5:
			return Positive
		case mean < 1.5:
			return Negative
		default:
			return Balanced
		}
	case Moderate:
		// Moderates are never negative; only a narrow balanced band
		// reads as positive.
		if mean >= 1.8 && mean <= 2.2 {
			return Positive
		}
		return Balanced
	case Humanitarian:
		if mean > 2 {
			return Positive
		}
		return Negative
	default:
		return Balanced
	}
}

// Fallback returns the deterministic emotion for a stance/sentiment
// pair. Used whenever the remote classifier is unavailable.
func Fallback(stance Stance, sentiment Sentiment) Emotion {
	if row, ok := fallbackTable[stance]; ok {
		if e, ok := row[sentiment]; ok {
			return e
		}
	}
	return Neutral
}

var fallbackTable = map[Stance]map[Sentiment]Emotion{
	Neoliberal: {
		Positive: Enthusiasm,
		Balanced: Neutral,
		Negative: Frustration,
	},
	Progressive: {
		Positive: Enthusiasm,
		Balanced: Neutral,
		Negative: Frustration,
	},
	Moderate: {
		Positive: Enthusiasm,
		Balanced: Neutral,
		Negative: Concern,
	},
	Humanitarian: {
		Positive: Compassion,
		Balanced: Concern,
		Negative: Frustration,
	},
}

// ForPolicy maps a single policy (tier + area) to an emotion for the
// given stance, weighting areas the stance cares about.
func ForPolicy(stance Stance, tier int, area string) Emotion {
	concernArea := isAreaOfConcern(stance, area)

	switch stance {
	case Neoliberal:
		// Neoliberals prefer lower tier (cost-effective) policies.
		if tier == 1 {
			if concernArea {
				return Enthusiasm
			}
			return Neutral
		}
		if tier == 3 {
			if concernArea {
				return Frustration
			}
			return Concern
		}
		return Neutral
	case Progressive:
		// Progressives prefer higher tier (transformative) policies.
		if tier == 3 {
			if concernArea {
				return Enthusiasm
			}
			return Neutral
		}
		if tier == 1 {
			if concernArea {
				return Frustration
			}
			return Concern
		}
		return Neutral
	case Moderate:
		if tier == 2 {
			return Neutral
		}
		if concernArea {
			return Concern
		}
		return Neutral
	case Humanitarian:
		if tier == 3 {
			if concernArea {
				return Enthusiasm
			}
			return Compassion
		}
		if tier == 1 {
			if concernArea {
				return Anger
			}
			return Frustration
		}
		return Concern
	default:
		return Neutral
	}
}

func isAreaOfConcern(stance Stance, area string) bool {
	lower := strings.ToLower(area)
	contains := func(keys ...string) bool {
		for _, k := range keys {
			if strings.Contains(lower, k) {
				return true
			}
		}
		return false
	}
	switch stance {
	case Neoliberal:
		return contains("economic", "cost", "efficiency", "financial")
	case Progressive:
		return contains("equity", "inclusion", "access")
	case Moderate:
		return contains("balance", "integration", "community")
	case Humanitarian:
		return contains("wellbeing", "support", "trauma", "psychosocial")
	default:
		return false
	}
}

// DetectKeyword is the rule-based text classifier used when the remote
// Emotion Classifier is unreachable, and for user input in offline
// play.
func DetectKeyword(text string) Emotion {
	lower := strings.ToLower(text)
	contains := func(keys ...string) bool {
		for _, k := range keys {
			if strings.Contains(lower, k) {
				return true
			}
		}
		return false
	}
	switch {
	case contains("angry", "upset", "unfair", "ridiculous"):
		return Anger
	case contains("worried", "concern", "afraid", "risk"):
		return Concern
	case contains("happy", "excited", "great", "excellent"):
		return Enthusiasm
	case contains("sad", "disappointed", "unfortunate"):
		return Frustration
	case contains("help", "support", "care", "understand"):
		return Compassion
	default:
		return Neutral
	}
}

// Voice describes speech characteristics for an emotion.
type Voice struct {
	Rate   float64
	Pitch  float64
	Volume float64
}

// VoiceFor returns the synthesis characteristics for an emotion.
func VoiceFor(e Emotion) Voice {
	switch e {
	case Anger:
		return Voice{Rate: 1.3, Pitch: 1.2, Volume: 1.0}
	case Compassion:
		return Voice{Rate: 0.9, Pitch: 0.9, Volume: 0.8}
	case Frustration:
		return Voice{Rate: 1.1, Pitch: 1.1, Volume: 0.9}
	case Enthusiasm:
		return Voice{Rate: 1.2, Pitch: 1.1, Volume: 1.0}
	case Concern:
		return Voice{Rate: 0.95, Pitch: 0.95, Volume: 0.9}
	default:
		return Voice{Rate: 1.0, Pitch: 1.0, Volume: 1.0}
	}
}
