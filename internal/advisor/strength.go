// Package advisor scores betting decisions. It estimates hand strength,
// assigns heuristic expected values to candidate actions, blends them into a
// regret-matched mixed strategy against three opponent styles, and turns all
// of that into an explained recommendation for a human or a decision for an
// autonomous seat.
//
// Nothing here modifies a game.GameState.
package advisor

import (
	"math"

	"github.com/lox/holdem-advisor/internal/deck"
	"github.com/lox/holdem-advisor/internal/evaluator"
)

// categoryStrength is the post-flop strength of each made hand.
var categoryStrength = map[evaluator.Category]float64{
	evaluator.RoyalFlush:    1.0,
	evaluator.StraightFlush: 0.95,
	evaluator.FourOfAKind:   0.9,
	evaluator.FullHouse:     0.8,
	evaluator.Flush:         0.7,
	evaluator.Straight:      0.6,
	evaluator.ThreeOfAKind:  0.5,
	evaluator.TwoPair:       0.4,
	evaluator.OnePair:       0.25,
}

// HandStrength rates hole cards against the board on a 0..1 scale. With no
// board it uses a pre-flop chart; afterwards it scores the made hand's
// category, so it measures hand class rather than win probability.
func HandStrength(hole, community []deck.Card) float64 {
	if len(hole) < 2 {
		return 0
	}
	if len(community) == 0 {
		return preFlopStrength(hole[0], hole[1])
	}

	ev, err := evaluator.EvaluateBest(hole, community)
	if err != nil {
		// Fewer than five cards in play.
		return preFlopStrength(hole[0], hole[1])
	}
	if s, ok := categoryStrength[ev.Category]; ok {
		return s
	}
	return 0.1 + float64(ev.Cards[0].Rank-deck.Two)/13*0.15
}

func preFlopStrength(a, b deck.Card) float64 {
	hi, lo := int(a.Rank), int(b.Rank)
	if lo > hi {
		hi, lo = lo, hi
	}
	suited := a.Suit == b.Suit
	gap := hi - lo

	bonus := func(s float64) float64 {
		if suited {
			return s + 0.05
		}
		return s
	}

	switch {
	case gap == 0 && hi >= 11:
		return 0.9 + float64(hi-11)*0.025
	case gap == 0 && hi >= 8:
		return 0.8 + float64(hi-8)*0.033
	case gap == 0:
		return 0.6 + float64(hi-2)*0.033
	case hi >= 11 && lo >= 10 && gap <= 3:
		return bonus(0.7 + float64(hi+lo-21)*0.02)
	case gap == 1:
		return bonus(0.5 + float64(hi+lo-3)*0.01)
	case hi >= 12:
		return bonus(0.4 + float64(hi-12)*0.05 + float64(lo-2)*0.01)
	}

	s := bonus(0.2 + float64(hi+lo-4)*0.005)
	if gap <= 2 {
		s += 0.05
	}
	return math.Max(0.1, math.Min(s, 0.5))
}
