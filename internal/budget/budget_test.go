package budget

import (
	"testing"

	"github.com/challengegame/negotiator/internal/catalog"
)

func optionsWithTiers(tiers ...int) []catalog.PolicyOption {
	out := make([]catalog.PolicyOption, len(tiers))
	for i, tier := range tiers {
		out[i] = catalog.PolicyOption{ID: string(rune('a' + i)), Tier: tier}
	}
	return out
}

func TestValidDiverseSelection(t *testing.T) {
	res := Validate(optionsWithTiers(1, 2))
	if res.TotalUnits != 3 {
		t.Fatalf("total units = %d, want 3", res.TotalUnits)
	}
	if !res.TierDiversity {
		t.Fatal("tiers 1 and 2 should count as diverse")
	}
	if !res.IsValid {
		t.Fatal("selection should be valid")
	}
	if len(res.Warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", res.Warnings)
	}
}

func TestOverBudgetSingleTier(t *testing.T) {
	res := Validate(optionsWithTiers(3, 3, 3, 3, 3))
	if res.TotalUnits != 15 {
		t.Fatalf("total units = %d, want 15", res.TotalUnits)
	}
	if res.IsValid {
		t.Fatal("15 units must be invalid")
	}
	if res.TierDiversity {
		t.Fatal("single tier should not be diverse")
	}
	found := map[string]bool{}
	for _, w := range res.Warnings {
		found[w] = true
	}
	if !found[WarnNearlyExhausted] || !found[WarnTierDiversity] {
		t.Fatalf("both warnings expected, got %v", res.Warnings)
	}
}

func TestOverBudgetDespiteDiversity(t *testing.T) {
	res := Validate(optionsWithTiers(3, 3, 3, 3, 2, 1))
	if res.TotalUnits != 15 {
		t.Fatalf("total units = %d, want 15", res.TotalUnits)
	}
	if !res.TierDiversity {
		t.Fatal("tiers are diverse")
	}
	if res.IsValid {
		t.Fatal("over-budget selection must be invalid regardless of diversity")
	}
}

func TestEmptySelection(t *testing.T) {
	res := Validate(nil)
	if res.TotalUnits != 0 {
		t.Fatalf("total units = %d, want 0", res.TotalUnits)
	}
	if res.IsValid {
		t.Fatal("empty selection must be invalid (diversity fails)")
	}
	if res.TierDiversity {
		t.Fatal("empty selection has no tier diversity")
	}
}

func TestRemainingUnitsMatchesTotal(t *testing.T) {
	cases := [][]int{{}, {1}, {1, 2}, {3, 3, 3}, {3, 3, 3, 3, 3}}
	for _, tiers := range cases {
		sel := optionsWithTiers(tiers...)
		res := Validate(sel)
		if got := RemainingUnits(sel); got != MaxUnits-res.TotalUnits {
			t.Fatalf("remaining = %d, want %d for tiers %v", got, MaxUnits-res.TotalUnits, tiers)
		}
	}
}

func TestRemainingUnitsGoesNegative(t *testing.T) {
	if got := RemainingUnits(optionsWithTiers(3, 3, 3, 3, 3)); got != -1 {
		t.Fatalf("remaining = %d, want -1 (never clamped)", got)
	}
}

func TestNearlyExhaustedWarningOnly(t *testing.T) {
	res := Validate(optionsWithTiers(3, 3, 3, 3, 1))
	if res.TotalUnits != 13 {
		t.Fatalf("total units = %d, want 13", res.TotalUnits)
	}
	if !res.IsValid {
		t.Fatal("13 diverse units should be valid")
	}
	if len(res.Warnings) != 1 || res.Warnings[0] != WarnNearlyExhausted {
		t.Fatalf("want only exhaustion warning, got %v", res.Warnings)
	}
}
