package session

import (
	"fmt"

	"github.com/lox/holdem-advisor/internal/advisor"
	"github.com/lox/holdem-advisor/internal/game"
	"github.com/lox/holdem-advisor/internal/randutil"
)

// Style selects how an AutoAgent plays.
type Style int

const (
	// FollowAdvice plays the recommendation, sometimes an alternative.
	FollowAdvice Style = iota
	// MixedStrategy samples the regret-matched strategy.
	MixedStrategy
	// CallingStation checks and calls down, giving up only to a big river bet.
	CallingStation
	// Maniac bets and raises big, rarely folds.
	Maniac
	// RandomPlay picks uniformly among legal actions.
	RandomPlay
)

var styleNames = [...]string{"advisor", "mixed", "calling", "maniac", "random"}

func (s Style) String() string {
	if s < 0 || int(s) >= len(styleNames) {
		return fmt.Sprintf("Style(%d)", int(s))
	}
	return styleNames[s]
}

// StyleNames lists the names ParseStyle accepts.
func StyleNames() []string {
	return styleNames[:]
}

// ParseStyle maps a style name; empty and unknown names follow the advice.
func ParseStyle(name string) Style {
	for i, n := range styleNames {
		if n == name {
			return Style(i)
		}
	}
	return FollowAdvice
}

// bigRiverBet is the pot fraction a calling station folds to on the river.
const bigRiverBet = 0.8

func callingStation(s *game.GameState) advisor.Decision {
	legal := game.LegalActions(s)
	if s.Street == game.River {
		if toCall := s.ToCall(); toCall > 0 && float64(toCall) > bigRiverBet*float64(s.Pot-toCall) {
			return advisor.Decision{Kind: game.Fold}
		}
	}
	for _, kind := range []game.ActionKind{game.Check, game.Call} {
		if l, ok := find(legal, kind); ok {
			return advisor.Decision{Kind: kind, Amount: l.Min}
		}
	}
	return advisor.Decision{Kind: game.Fold}
}

func maniac(s *game.GameState, src randutil.Source) advisor.Decision {
	legal := game.LegalActions(s)
	aggro, hasAggro := find(legal, game.Raise)
	if !hasAggro {
		aggro, hasAggro = find(legal, game.Bet)
	}

	if _, ok := find(legal, game.Check); ok {
		if hasAggro && src.Float64() < 0.85 {
			p := s.Actor()
			if p.Chips <= 20*s.Blinds.Big || src.Float64() < 0.3 {
				return advisor.Decision{Kind: aggro.Kind, Amount: aggro.Max}
			}
			return advisor.Decision{Kind: aggro.Kind, Amount: aggro.Min + (aggro.Max-aggro.Min)*3/4}
		}
		return advisor.Decision{Kind: game.Check}
	}

	r := src.Float64()
	if r < 0.4 && hasAggro {
		return advisor.Decision{Kind: aggro.Kind, Amount: aggro.Max}
	}
	if l, ok := find(legal, game.Call); ok && r < 0.8 {
		return advisor.Decision{Kind: game.Call, Amount: l.Min}
	}
	return advisor.Decision{Kind: game.Fold}
}

func randomPlay(s *game.GameState, src randutil.Source) advisor.Decision {
	legal := game.LegalActions(s)
	if len(legal) == 0 {
		return advisor.Decision{Kind: game.Fold, Fallback: true}
	}
	l := legal[src.IntN(len(legal))]
	amount := l.Min
	if l.Max > l.Min {
		amount += src.IntN(l.Max - l.Min + 1)
	}
	return advisor.Decision{Kind: l.Kind, Amount: amount}
}

func find(legal []game.LegalAction, kind game.ActionKind) (game.LegalAction, bool) {
	for _, l := range legal {
		if l.Kind == kind {
			return l, true
		}
	}
	return game.LegalAction{}, false
}
