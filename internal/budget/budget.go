// Package budget validates policy selections against the 14-unit tier
// budget and the tier-diversity rule.
package budget

import "github.com/challengegame/negotiator/internal/catalog"

// MaxUnits is the total tier budget available for a policy package.
const MaxUnits = 14

// nearlyExhaustedAt is the threshold above which the exhaustion
// warning is emitted.
const nearlyExhaustedAt = 12

const (
	WarnNearlyExhausted = "Budget nearly exhausted"
	WarnTierDiversity   = "Need diversity in policy tiers"
)

// Result is the outcome of validating a selection set. It is derived
// state: recompute it on every selection change, never cache it.
type Result struct {
	IsValid       bool     `json:"isValid"`
	Warnings      []string `json:"warnings"`
	TotalUnits    int      `json:"totalUnits"`
	TierDiversity bool     `json:"tierDiversity"`
}

// Validate checks a selection set against the unit cap and the
// diversity rule (at least 2 distinct tiers). An empty set is a valid
// call: it yields TotalUnits=0 and IsValid=false because diversity
// fails on fewer than two tiers.
func Validate(selections []catalog.PolicyOption) Result {
	totalUnits := 0
	tiers := map[int]bool{}
	for _, opt := range selections {
		totalUnits += opt.Tier
		tiers[opt.Tier] = true
	}
	tierDiversity := len(tiers) >= 2

	var warnings []string
	if totalUnits > nearlyExhaustedAt {
		warnings = append(warnings, WarnNearlyExhausted)
	}
	if !tierDiversity {
		warnings = append(warnings, WarnTierDiversity)
	}

	return Result{
		IsValid:       totalUnits <= MaxUnits && tierDiversity,
		Warnings:      warnings,
		TotalUnits:    totalUnits,
		TierDiversity: tierDiversity,
	}
}

// RemainingUnits returns the budget left after the given selections.
// Negative means over budget; callers must surface that, not clamp it.
func RemainingUnits(selections []catalog.PolicyOption) int {
	totalUnits := 0
	for _, opt := range selections {
		totalUnits += opt.Tier
	}
	return MaxUnits - totalUnits
}
