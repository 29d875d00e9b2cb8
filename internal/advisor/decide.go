package advisor

import (
	"github.com/lox/holdem-advisor/internal/game"
	"github.com/lox/holdem-advisor/internal/randutil"
)

// deviation is how often an autonomous player takes the first alternative
// instead of the recommendation.
const deviation = 0.3

// Decision is the action an autonomous player submits.
type Decision struct {
	Kind        game.ActionKind
	Amount      int
	Alternative bool // taken from the recommendation's alternatives
	Fallback    bool // the recommendation was not legal
}

// Decide chooses an action for an autonomous player. It follows Recommend,
// falls back to check, then call, then fold when the recommendation is not
// legal, keeps amounts within the stack, and with probability 0.3 takes the
// first alternative instead.
func Decide(s *game.GameState, src randutil.Source) Decision {
	p := s.Actor()
	legal := game.LegalActions(s)
	if p == nil || len(legal) == 0 {
		return Decision{Kind: game.Fold, Fallback: true}
	}

	rec := Recommend(s)
	if !allowed(legal, rec.Action, rec.Amount) {
		return safest(legal)
	}

	d := Decision{Kind: rec.Action, Amount: min(rec.Amount, p.Chips)}
	if len(rec.Alternatives) > 0 && src.Float64() < deviation {
		alt := rec.Alternatives[0]
		d = Decision{Kind: alt.Kind, Amount: min(alt.Amount, p.Chips), Alternative: true}
	}
	return d
}

func allowed(legal []game.LegalAction, kind game.ActionKind, amount int) bool {
	for _, l := range legal {
		if l.Kind != kind {
			continue
		}
		if kind.Aggressive() {
			return amount >= l.Min && amount <= l.Max
		}
		return true
	}
	return false
}

func safest(legal []game.LegalAction) Decision {
	for _, kind := range []game.ActionKind{game.Check, game.Call} {
		for _, l := range legal {
			if l.Kind == kind {
				return Decision{Kind: kind, Amount: l.Min, Fallback: true}
			}
		}
	}
	return Decision{Kind: game.Fold, Fallback: true}
}
