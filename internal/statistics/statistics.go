// Package statistics aggregates simulated hands: the tracked seat's results
// in big blinds and table-wide outcome counts.
package statistics

import (
	"fmt"
	"maps"
	"math"
	"slices"

	"github.com/lox/holdem-advisor/internal/evaluator"
	"github.com/lox/holdem-advisor/internal/game"
)

// HandResult is one hand as seen by the tracked seat.
type HandResult struct {
	NetBB          float64     // chips won or lost, in big blinds
	Position       int         // seats after the button, 0 is the button
	WentToShowdown bool        // the hand was decided by showdown
	Pot            int         // chips paid out
	BigBlind       int         // big blind the hand was played at
	StreetReached  game.Street // last street dealt
	Split          bool        // more than one winner
	// Category is the winning hand class for showdowns.
	Category evaluator.Category
}

// NewHandResult builds the result of a completed hand for seat, given that
// seat's stack when the hand began.
func NewHandResult(s *game.GameState, seat, startChips int) HandResult {
	n := len(s.Players)
	r := HandResult{
		NetBB:          float64(s.Players[seat].Chips-startChips) / float64(s.Blinds.Big),
		Position:       ((seat-s.DealerIndex)%n + n) % n,
		WentToShowdown: s.Street == game.Showdown,
		BigBlind:       s.Blinds.Big,
		StreetReached:  s.Street,
		Split:          len(s.Winners) > 1,
	}
	if r.WentToShowdown {
		r.StreetReached = game.River
		r.Category = s.Evaluations[s.Players[s.Winners[0]].ID].Category
	}
	for _, p := range s.Payouts {
		r.Pot += p
	}
	return r
}

// PositionStats tracks results from one position.
type PositionStats struct {
	Hands  int
	SumBB  float64
	SumBB2 float64
}

// Statistics accumulates HandResults.
type Statistics struct {
	Hands  int
	SumBB  float64
	SumBB2 float64
	Values []float64

	ShowdownWins    int
	NonShowdownWins int
	ShowdownBB      float64
	NonShowdownBB   float64
	AllBB           float64

	Showdowns int
	FoldWins  int
	SplitPots int
	// Streets counts hands by the last street dealt.
	Streets    [game.Showdown]int
	Categories map[evaluator.Category]int

	Positions []PositionStats

	MaxPotChips int
	MaxPotBB    float64
	BigPots     int // pots of at least 50 big blinds
	BigPotsBB   float64
}

// Add incorporates one hand.
func (s *Statistics) Add(r HandResult) {
	net := r.NetBB
	s.Hands++
	s.SumBB += net
	s.SumBB2 += net * net
	s.Values = append(s.Values, net)
	s.AllBB += net

	if r.WentToShowdown {
		s.Showdowns++
		s.ShowdownBB += net
		if net > 0 {
			s.ShowdownWins++
		}
		if s.Categories == nil {
			s.Categories = map[evaluator.Category]int{}
		}
		s.Categories[r.Category]++
	} else {
		s.FoldWins++
		s.NonShowdownBB += net
		if net > 0 {
			s.NonShowdownWins++
		}
	}
	if r.Split {
		s.SplitPots++
	}
	if r.StreetReached >= game.PreFlop && r.StreetReached < game.Showdown {
		s.Streets[r.StreetReached]++
	}

	if r.Position >= 0 {
		for len(s.Positions) <= r.Position {
			s.Positions = append(s.Positions, PositionStats{})
		}
		ps := &s.Positions[r.Position]
		ps.Hands++
		ps.SumBB += net
		ps.SumBB2 += net * net
	}

	potBB := 0.0
	if r.BigBlind > 0 {
		potBB = float64(r.Pot) / float64(r.BigBlind)
	}
	if r.Pot > s.MaxPotChips {
		s.MaxPotChips = r.Pot
		s.MaxPotBB = potBB
	}
	if potBB >= 50 {
		s.BigPots++
		s.BigPotsBB += net
	}
}

// Merge folds other into s.
func (s *Statistics) Merge(other *Statistics) {
	s.Hands += other.Hands
	s.SumBB += other.SumBB
	s.SumBB2 += other.SumBB2
	s.Values = append(s.Values, other.Values...)
	s.ShowdownWins += other.ShowdownWins
	s.NonShowdownWins += other.NonShowdownWins
	s.ShowdownBB += other.ShowdownBB
	s.NonShowdownBB += other.NonShowdownBB
	s.AllBB += other.AllBB
	s.Showdowns += other.Showdowns
	s.FoldWins += other.FoldWins
	s.SplitPots += other.SplitPots
	for i, n := range other.Streets {
		s.Streets[i] += n
	}
	if len(other.Categories) > 0 && s.Categories == nil {
		s.Categories = map[evaluator.Category]int{}
	}
	for c, n := range other.Categories {
		s.Categories[c] += n
	}
	for len(s.Positions) < len(other.Positions) {
		s.Positions = append(s.Positions, PositionStats{})
	}
	for i, ps := range other.Positions {
		s.Positions[i].Hands += ps.Hands
		s.Positions[i].SumBB += ps.SumBB
		s.Positions[i].SumBB2 += ps.SumBB2
	}
	if other.MaxPotChips > s.MaxPotChips {
		s.MaxPotChips = other.MaxPotChips
		s.MaxPotBB = other.MaxPotBB
	}
	s.BigPots += other.BigPots
	s.BigPotsBB += other.BigPotsBB
}

// Mean is the average result in big blinds per hand.
func (s *Statistics) Mean() float64 {
	if s.Hands == 0 {
		return 0
	}
	return s.SumBB / float64(s.Hands)
}

// Variance returns the sample variance of all results
func (s *Statistics) Variance() float64 {
	if s.Hands < 2 {
		return 0
	}
	mean := s.Mean()
	return (s.SumBB2 - float64(s.Hands)*mean*mean) / float64(s.Hands-1)
}

func (s *Statistics) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// StdError returns the standard error of the mean
func (s *Statistics) StdError() float64 {
	if s.Hands == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Hands))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	margin := 1.96 * s.StdError()
	return s.Mean() - margin, s.Mean() + margin
}

// Median returns the median value of all results
func (s *Statistics) Median() float64 {
	return s.Percentile(0.5)
}

// Percentile interpolates the value at p in [0, 1].
func (s *Statistics) Percentile(p float64) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := slices.Clone(s.Values)
	slices.Sort(sorted)

	index := p * float64(len(sorted)-1)
	lower := int(index)
	if lower+1 >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[lower+1]*weight
}

// PositionMean is the average result from a position, zero if unseen.
func (s *Statistics) PositionMean(position int) float64 {
	if position < 0 || position >= len(s.Positions) || s.Positions[position].Hands == 0 {
		return 0
	}
	ps := s.Positions[position]
	return ps.SumBB / float64(ps.Hands)
}

// TopCategories lists winning categories, most frequent first.
func (s *Statistics) TopCategories() []evaluator.Category {
	cats := slices.Collect(maps.Keys(s.Categories))
	slices.SortFunc(cats, func(a, b evaluator.Category) int {
		if d := s.Categories[b] - s.Categories[a]; d != 0 {
			return d
		}
		return int(b) - int(a)
	})
	return cats
}

// IsLedgerBalanced checks showdown and non-showdown totals add up.
func (s *Statistics) IsLedgerBalanced() bool {
	return math.Abs(s.AllBB-s.ShowdownBB-s.NonShowdownBB) <= 1e-6
}

// Validate checks the counters agree with each other.
func (s *Statistics) Validate() error {
	if !s.IsLedgerBalanced() {
		return fmt.Errorf("ledger mismatch: AllBB=%.6f, ShowdownBB=%.6f, NonShowdownBB=%.6f",
			s.AllBB, s.ShowdownBB, s.NonShowdownBB)
	}
	if s.Hands <= 0 {
		return fmt.Errorf("invalid hands count: %d", s.Hands)
	}
	if len(s.Values) != s.Hands {
		return fmt.Errorf("values array length (%d) does not match hands count (%d)", len(s.Values), s.Hands)
	}
	if s.Showdowns+s.FoldWins != s.Hands {
		return fmt.Errorf("showdowns (%d) and fold wins (%d) do not add up to %d hands", s.Showdowns, s.FoldWins, s.Hands)
	}
	if wins := s.ShowdownWins + s.NonShowdownWins; wins > s.Hands {
		return fmt.Errorf("total wins (%d) exceeds total hands (%d)", wins, s.Hands)
	}
	positioned := 0
	for _, ps := range s.Positions {
		positioned += ps.Hands
	}
	if positioned != s.Hands {
		return fmt.Errorf("position hands total (%d) does not match total hands (%d)", positioned, s.Hands)
	}
	return nil
}
