package advisor

import (
	"github.com/lox/holdem-advisor/internal/randutil"
)

// Strategy is a probability for each candidate of a Matrix.
type Strategy struct {
	Candidates    []Candidate
	Probabilities []float64
}

// Probability returns the weight of c, or zero if it is not a candidate.
func (s Strategy) Probability(c Candidate) float64 {
	for i, x := range s.Candidates {
		if x == c {
			return s.Probabilities[i]
		}
	}
	return 0
}

// Sample draws a candidate from the distribution. It returns false for an
// empty strategy.
func (s Strategy) Sample(src randutil.Source) (Candidate, bool) {
	if len(s.Candidates) == 0 {
		return Candidate{}, false
	}
	r := src.Float64()
	for i, p := range s.Probabilities {
		if r < p {
			return s.Candidates[i], true
		}
		r -= p
	}
	return s.Candidates[len(s.Candidates)-1], true
}

// RegretMatchedStrategy runs a single regret-matching step over the average
// payoff of each candidate across archetypes. Regret is measured against the
// best average, so when nothing beats it every regret is zero and the result
// is uniform. It is a heuristic blend, not an iterated solver.
func RegretMatchedStrategy(m Matrix) Strategy {
	n := m.Len()
	if n == 0 {
		return Strategy{}
	}

	avg := make([]float64, n)
	best := 0
	for i, row := range m.Payoffs {
		for _, v := range row {
			avg[i] += v
		}
		avg[i] /= float64(len(row))
		if avg[i] > avg[best] {
			best = i
		}
	}

	regrets := make([]float64, n)
	sum := 0.0
	for i := range avg {
		regrets[i] = max(0, avg[i]-avg[best])
		sum += regrets[i]
	}

	probs := make([]float64, n)
	for i := range probs {
		if sum > 0 {
			probs[i] = regrets[i] / sum
		} else {
			probs[i] = 1 / float64(n)
		}
	}
	return Strategy{Candidates: append([]Candidate(nil), m.Candidates...), Probabilities: probs}
}

// Solution pairs the mixed strategy with what it is expected to earn against
// each archetype.
type Solution struct {
	Strategy Strategy
	Payoffs  [len(Archetypes)]float64
}

// Equilibrium computes the regret-matched strategy for m and its expected
// payoff against every archetype.
func Equilibrium(m Matrix) Solution {
	sol := Solution{Strategy: RegretMatchedStrategy(m)}
	for i, p := range sol.Strategy.Probabilities {
		for _, a := range Archetypes {
			sol.Payoffs[a] += p * m.Payoff(i, a)
		}
	}
	return sol
}
