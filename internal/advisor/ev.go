package advisor

import (
	"math"

	"github.com/lox/holdem-advisor/internal/game"
)

// multiwayDiscount shrinks equity for every extra opponent still betting.
const multiwayDiscount = 0.85

// ExpectedValue is a closed-form estimate of what kind (adding amount chips)
// is worth to the player to act, given their hand strength.
func ExpectedValue(s *game.GameState, kind game.ActionKind, amount int, strength float64) float64 {
	p := s.Actor()
	if p == nil {
		return 0
	}

	players := max(s.ActiveCount(), 1)
	adjusted := strength * math.Pow(multiwayDiscount, float64(players-1))
	pot := float64(s.Pot)
	amt := float64(amount)

	switch kind {
	case game.Fold:
		// Everything put in this hand is lost.
		return -float64(p.Committed)
	case game.Check:
		return pot * adjusted
	case game.Call:
		odds := 0.0
		if pot+amt > 0 {
			odds = amt / (pot + amt)
		}
		if adjusted > odds {
			return adjusted*(pot+amt) - amt
		}
		return -amt
	case game.Bet, game.Raise:
		foldEquity := 0.2 + amt/math.Max(pot, 1)*0.3 - adjusted*0.4
		foldEquity = math.Min(0.7, math.Max(0, foldEquity))
		return foldEquity*pot + (1-foldEquity)*adjusted*(pot+amt) - amt
	}
	return 0
}
