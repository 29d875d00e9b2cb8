package advisor

import (
	"fmt"

	"github.com/lox/holdem-advisor/internal/game"
)

// Archetype is a fixed model of how the rest of the table plays.
type Archetype int

const (
	Aggressive Archetype = iota
	Passive
	Balanced
)

// Archetypes lists every opponent model in matrix column order.
var Archetypes = [...]Archetype{Aggressive, Passive, Balanced}

func (a Archetype) String() string {
	return [...]string{"aggressive", "passive", "balanced"}[a]
}

// scale adjusts a raw EV for an opponent style. Aggressive opponents punish
// passive lines and pay off aggression; passive opponents do the opposite.
func (a Archetype) scale(kind game.ActionKind, ev float64) float64 {
	switch {
	case a == Balanced:
		return ev
	case kind.Aggressive() == (a == Aggressive):
		return ev * 1.2
	default:
		return ev * 0.8
	}
}

// Candidate is an action at a concrete size.
type Candidate struct {
	Kind   game.ActionKind
	Amount int
}

func (c Candidate) String() string {
	if c.Amount > 0 {
		return fmt.Sprintf("%s-%d", c.Kind, c.Amount)
	}
	return c.Kind.String()
}

// CandidateActions expands the legal set into the sizes the advisor
// considers: one each for fold, check and call, and bets and raises at one,
// two and three times the minimum while the stack covers them.
func CandidateActions(s *game.GameState) []Candidate {
	var out []Candidate
	for _, l := range game.LegalActions(s) {
		switch l.Kind {
		case game.Bet, game.Raise:
			for mult := 1; mult <= 3; mult++ {
				if amount := l.Min * mult; mult == 1 || amount <= l.Max {
					out = append(out, Candidate{Kind: l.Kind, Amount: amount})
				}
			}
		default:
			out = append(out, Candidate{Kind: l.Kind, Amount: l.Min})
		}
	}
	return out
}

// Matrix holds the payoff of every candidate (rows) against every archetype
// (columns, in Archetypes order).
type Matrix struct {
	Candidates []Candidate
	Payoffs    [][len(Archetypes)]float64
}

// Len returns the number of candidate rows.
func (m Matrix) Len() int {
	return len(m.Candidates)
}

// Payoff returns the payoff of candidate i against a.
func (m Matrix) Payoff(i int, a Archetype) float64 {
	return m.Payoffs[i][a]
}

// PayoffMatrix scores each candidate for the player to act against each
// archetype.
func PayoffMatrix(s *game.GameState) Matrix {
	p := s.Actor()
	if p == nil {
		return Matrix{}
	}
	strength := HandStrength(p.Hole, s.Community)

	var m Matrix
	for _, c := range CandidateActions(s) {
		var row [len(Archetypes)]float64
		ev := ExpectedValue(s, c.Kind, c.Amount, strength)
		for _, a := range Archetypes {
			if c.Kind == game.Fold {
				row[a] = ev
				continue
			}
			row[a] = a.scale(c.Kind, ev)
		}
		m.Candidates = append(m.Candidates, c)
		m.Payoffs = append(m.Payoffs, row)
	}
	return m
}
