// Package simulator plays many all-autonomous hands across parallel tables
// and aggregates the results for one advisor-driven seat.
package simulator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/lox/holdem-advisor/internal/game"
	"github.com/lox/holdem-advisor/internal/history"
	"github.com/lox/holdem-advisor/internal/randutil"
	"github.com/lox/holdem-advisor/internal/session"
	"github.com/lox/holdem-advisor/internal/statistics"
)

// HeroID is the player whose results are tracked.
const HeroID = "hero"

// Config holds configuration for running simulations
type Config struct {
	Tables        int
	Hands         int // per table
	Players       int // seats per table, including the hero
	StartingChips int
	Blinds        game.Blinds
	Seed          int64
	Workers       int // tables run at once, defaults to GOMAXPROCS
	// OpponentStyle is how the other seats play; the hero always follows
	// the advisor.
	OpponentStyle session.Style
	History       history.Writer
	Logger        *log.Logger
}

// Report is the outcome of a simulation.
type Report struct {
	Stats   *statistics.Statistics
	Tables  int
	Games   int // games started, one more each time a table is reset
	Elapsed time.Duration
}

// ErrChipsNotConserved is returned when a table's chip total changes.
var ErrChipsNotConserved = errors.New("chips not conserved")

func (c *Config) applyDefaults() error {
	if c.Tables <= 0 {
		c.Tables = 1
	}
	if c.Players == 0 {
		c.Players = 6
	}
	if c.Blinds == (game.Blinds{}) {
		c.Blinds = game.Blinds{Small: 5, Big: 10}
	}
	if c.StartingChips == 0 {
		c.StartingChips = c.Blinds.Big * 100
	}
	if c.Workers <= 0 {
		c.Workers = runtime.GOMAXPROCS(0)
	}
	if c.History == nil {
		c.History = history.Nop{}
	}
	if c.Logger == nil {
		c.Logger = log.New(io.Discard)
	}
	switch {
	case c.Hands <= 0:
		return fmt.Errorf("simulator: hands must be positive, got %d", c.Hands)
	case c.Players < 2:
		return fmt.Errorf("simulator: need at least two players, got %d", c.Players)
	case c.StartingChips < c.Blinds.Big:
		return fmt.Errorf("simulator: starting chips %d cannot cover the big blind", c.StartingChips)
	}
	return nil
}

// Run plays cfg.Hands hands on each of cfg.Tables tables. Tables run in
// parallel and each draws from its own stream derived from cfg.Seed, so a
// seed always reproduces the same report. A table whose game ends, or whose
// hero busts, starts a fresh game with full stacks.
func Run(ctx context.Context, cfg Config) (*Report, error) {
	if err := cfg.applyDefaults(); err != nil {
		return nil, err
	}
	start := time.Now()

	results := make([]*statistics.Statistics, cfg.Tables)
	games := make([]int, cfg.Tables)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for i := 0; i < cfg.Tables; i++ {
		g.Go(func() error {
			tr := &tableRun{cfg: cfg, index: i, stats: &statistics.Statistics{}}
			if err := tr.run(ctx); err != nil {
				return fmt.Errorf("table %d: %w", i, err)
			}
			results[i] = tr.stats
			games[i] = tr.games
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &Report{Stats: &statistics.Statistics{}, Tables: cfg.Tables, Elapsed: time.Since(start)}
	for i, st := range results {
		report.Stats.Merge(st)
		report.Games += games[i]
	}
	if err := report.Stats.Validate(); err != nil {
		return nil, fmt.Errorf("statistics validation failed: %w", err)
	}
	cfg.Logger.Info("simulation complete", "tables", cfg.Tables, "hands", report.Stats.Hands, "games", report.Games, "elapsed", report.Elapsed)
	return report, nil
}

type tableRun struct {
	cfg   Config
	index int
	rng   randutil.Source
	stats *statistics.Statistics
	games int
}

func (r *tableRun) newGame() (*session.Table, error) {
	r.games++
	seats := make([]session.Seat, r.cfg.Players)
	for i := range seats {
		p := game.Player{
			ID:    fmt.Sprintf("t%d-p%d", r.index, i),
			Name:  fmt.Sprintf("Bot%d", i),
			Type:  game.Autonomous,
			Chips: r.cfg.StartingChips,
		}
		style := r.cfg.OpponentStyle
		if i == 0 {
			p.ID, p.Name, style = HeroID, "Hero", session.FollowAdvice
		}
		seats[i] = session.Seat{Player: p, Agent: session.AutoAgent{Rand: r.rng, Style: style}}
	}
	return session.New(session.Config{
		Seats:   seats,
		Blinds:  r.cfg.Blinds,
		Rand:    r.rng,
		History: r.cfg.History,
		Logger:  r.cfg.Logger.With("table", r.index),
	})
}

func (r *tableRun) run(ctx context.Context) error {
	r.rng = randutil.New(randutil.Derive(r.cfg.Seed, r.index))
	total := r.cfg.Players * r.cfg.StartingChips

	var table *session.Table
	heroChips := 0
	for played := 0; played < r.cfg.Hands; played++ {
		if table == nil || table.GameOver() || heroChips == 0 {
			var err error
			if table, err = r.newGame(); err != nil {
				return err
			}
			heroChips = r.cfg.StartingChips
		}

		s, err := table.PlayHand(ctx)
		if err != nil {
			return err
		}
		if got := s.TotalChips(); got != total {
			return fmt.Errorf("%w: hand %s has %d chips, want %d", ErrChipsNotConserved, s.HandID, got, total)
		}

		// The hero sits in seat 0.
		r.stats.Add(statistics.NewHandResult(s, 0, heroChips))
		heroChips = s.Players[0].Chips
	}
	return nil
}
