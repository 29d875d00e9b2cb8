// Package equity estimates how often each of several hands wins by dealing
// the rest of the board at random.
package equity

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/lox/holdem-advisor/internal/deck"
	"github.com/lox/holdem-advisor/internal/evaluator"
	"github.com/lox/holdem-advisor/internal/randutil"
)

// chunkSize is the number of boards dealt from one derived seed. Results
// depend on the seed and iteration count only, not on the worker count.
const chunkSize = 5000

// ErrInvalid wraps every input error.
var ErrInvalid = errors.New("invalid equity input")

// Result is one hand's outcome over every simulated board.
type Result struct {
	Hand       []deck.Card
	Wins       int // boards won outright
	Ties       int // boards split
	Total      int
	Categories map[evaluator.Category]int
}

// WinRate is the share of boards won outright.
func (r Result) WinRate() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Wins) / float64(r.Total)
}

// TieRate is the share of boards split.
func (r Result) TieRate() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Ties) / float64(r.Total)
}

// Config controls a calculation.
type Config struct {
	Iterations int
	Seed       int64
	Workers    int // defaults to GOMAXPROCS
}

// Calculate deals iterations boards completing board and evaluates every hand
// on each.
func Calculate(ctx context.Context, hands [][]deck.Card, board []deck.Card, cfg Config) ([]Result, error) {
	if err := validate(hands, board, cfg.Iterations); err != nil {
		return nil, err
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	stub := deckWithout(hands, board)
	chunks := (cfg.Iterations + chunkSize - 1) / chunkSize
	parts := make([][]Result, chunks)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range chunks {
		n := min(chunkSize, cfg.Iterations-i*chunkSize)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			parts[i] = run(hands, board, stub, n, randutil.New(randutil.Derive(cfg.Seed, i)))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	results := newResults(hands)
	for _, part := range parts {
		for i := range results {
			results[i].Wins += part[i].Wins
			results[i].Ties += part[i].Ties
			results[i].Total += part[i].Total
			for c, n := range part[i].Categories {
				results[i].Categories[c] += n
			}
		}
	}
	return results, nil
}

func validate(hands [][]deck.Card, board []deck.Card, iterations int) error {
	if len(hands) < 2 {
		return fmt.Errorf("%w: need at least two hands, got %d", ErrInvalid, len(hands))
	}
	if len(board) > 5 {
		return fmt.Errorf("%w: board cannot have more than 5 cards", ErrInvalid)
	}
	if iterations <= 0 {
		return fmt.Errorf("%w: iterations must be positive", ErrInvalid)
	}
	if 2*len(hands)+5 > deck.Size {
		return fmt.Errorf("%w: too many hands for one deck", ErrInvalid)
	}
	seen := make(map[deck.Card]bool)
	for _, c := range board {
		if seen[c] {
			return fmt.Errorf("%w: duplicate card %s", ErrInvalid, c)
		}
		seen[c] = true
	}
	for i, hand := range hands {
		if len(hand) != 2 {
			return fmt.Errorf("%w: hand %d must contain exactly 2 cards, got %d", ErrInvalid, i+1, len(hand))
		}
		for _, c := range hand {
			if seen[c] {
				return fmt.Errorf("%w: duplicate card in hand %d: %s", ErrInvalid, i+1, c)
			}
			seen[c] = true
		}
	}
	return nil
}

func newResults(hands [][]deck.Card) []Result {
	results := make([]Result, len(hands))
	for i := range results {
		results[i].Hand = hands[i]
		results[i].Categories = make(map[evaluator.Category]int)
	}
	return results
}

// deckWithout returns the cards no hand or board card uses.
func deckWithout(hands [][]deck.Card, board []deck.Card) []deck.Card {
	used := make(map[deck.Card]bool)
	for _, c := range board {
		used[c] = true
	}
	for _, hand := range hands {
		for _, c := range hand {
			used[c] = true
		}
	}
	var out []deck.Card
	for _, c := range deck.Ordered() {
		if !used[c] {
			out = append(out, c)
		}
	}
	return out
}

func run(hands [][]deck.Card, board, stub []deck.Card, iterations int, src randutil.Source) []Result {
	results := newResults(hands)
	stub = append([]deck.Card(nil), stub...)
	full := make([]deck.Card, 5)
	copy(full, board)
	need := 5 - len(board)
	evals := make([]evaluator.Evaluation, len(hands))

	for range iterations {
		// Partial Fisher-Yates: the first need cards of stub are a uniform draw.
		for j := range need {
			k := j + src.IntN(len(stub)-j)
			stub[j], stub[k] = stub[k], stub[j]
			full[len(board)+j] = stub[j]
		}

		best := 0
		for i, hand := range hands {
			ev, err := evaluator.EvaluateBest(hand, full)
			if err != nil {
				panic(fmt.Sprintf("equity: %v", err))
			}
			evals[i] = ev
			results[i].Categories[ev.Category]++
			if ev.Value > evals[best].Value {
				best = i
			}
		}

		winners := 0
		for _, ev := range evals {
			if ev.Value == evals[best].Value {
				winners++
			}
		}
		for i, ev := range evals {
			if ev.Value != evals[best].Value {
				continue
			}
			if winners == 1 {
				results[i].Wins++
			} else {
				results[i].Ties++
			}
		}
		for i := range results {
			results[i].Total++
		}
	}
	return results
}
