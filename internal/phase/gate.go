// Package phase implements the forward-only phase gate controlling
// progression through the game: policy selection, negotiation,
// reflection.
package phase

import (
	"errors"
	"fmt"

	"github.com/challengegame/negotiator/internal/budget"
	"github.com/challengegame/negotiator/internal/catalog"
)

// Phase identifies one stage of a play session.
type Phase string

const (
	PolicySelection Phase = "policy-selection"
	Negotiation     Phase = "negotiation"
	Reflection      Phase = "reflection"
)

// MinUserReplies is the number of user-authored negotiation messages
// required before reflection unlocks.
const MinUserReplies = 4

// ErrInvalidTransition signals a forward jump that skips a phase.
// This is caller misuse, not a denied gate.
var ErrInvalidTransition = errors.New("invalid phase transition")

var order = map[Phase]int{
	PolicySelection: 0,
	Negotiation:     1,
	Reflection:      2,
}

// Valid reports whether p names a known phase.
func (p Phase) Valid() bool {
	_, ok := order[p]
	return ok
}

// Proof carries the evidence a transition is judged against. It is
// read at the moment CanProceed is called; gates never cache earlier
// evaluations.
type Proof struct {
	Selections       []catalog.PolicyOption
	UserMessageCount int
}

// Decision is the outcome of a gate evaluation. Reason is empty when
// the transition is allowed, otherwise it names the unmet condition.
type Decision struct {
	Allow  bool
	Reason string
}

// CanProceed evaluates whether moving from one phase to another is
// permitted. Backward and same-phase moves are always allowed. A
// forward move is checked against the target phase's gate; skipping a
// phase returns ErrInvalidTransition.
func CanProceed(from, to Phase, proof Proof) (Decision, error) {
	fromIdx, ok := order[from]
	if !ok {
		return Decision{}, fmt.Errorf("%w: unknown phase %q", ErrInvalidTransition, from)
	}
	toIdx, ok := order[to]
	if !ok {
		return Decision{}, fmt.Errorf("%w: unknown phase %q", ErrInvalidTransition, to)
	}

	// Navigating back or staying put is always permitted.
	if toIdx <= fromIdx {
		return Decision{Allow: true}, nil
	}
	if toIdx-fromIdx > 1 {
		return Decision{}, fmt.Errorf("%w: %s -> %s skips a phase", ErrInvalidTransition, from, to)
	}

	switch to {
	case Negotiation:
		res := budget.Validate(proof.Selections)
		if res.IsValid {
			return Decision{Allow: true}, nil
		}
		return Decision{Reason: selectionReason(res)}, nil
	case Reflection:
		if proof.UserMessageCount >= MinUserReplies {
			return Decision{Allow: true}, nil
		}
		missing := MinUserReplies - proof.UserMessageCount
		return Decision{Reason: fmt.Sprintf(
			"you have replied to stakeholders %d time(s); %d more reply(ies) needed before reflection",
			proof.UserMessageCount, missing)}, nil
	}
	return Decision{}, fmt.Errorf("%w: no gate for %s", ErrInvalidTransition, to)
}

func selectionReason(res budget.Result) string {
	switch {
	case res.TotalUnits > budget.MaxUnits && !res.TierDiversity:
		return fmt.Sprintf("selections use %d of %d budget units and all sit in one tier; trim the package and mix tiers before negotiating",
			res.TotalUnits, budget.MaxUnits)
	case res.TotalUnits > budget.MaxUnits:
		return fmt.Sprintf("selections use %d of %d budget units; remove %d unit(s) before negotiating",
			res.TotalUnits, budget.MaxUnits, res.TotalUnits-budget.MaxUnits)
	case !res.TierDiversity:
		return "selections must span at least two policy tiers before negotiating"
	default:
		return "selections are not valid yet"
	}
}
