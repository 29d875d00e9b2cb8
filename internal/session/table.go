// Package session runs a table of players across many hands. It asks each
// seat's Agent for decisions, feeds them through the betting engine one at a
// time, rotates the button between hands and drops players who bust out.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/lox/holdem-advisor/internal/game"
	"github.com/lox/holdem-advisor/internal/history"
	"github.com/lox/holdem-advisor/internal/randutil"
)

// ErrGameOver is returned once fewer than two players have chips.
var ErrGameOver = errors.New("session: game over")

// Seat is a player and whoever decides for them.
type Seat struct {
	Player game.Player
	Agent  Agent
}

// Config describes a table.
type Config struct {
	Seats   []Seat
	Blinds  game.Blinds
	Rand    randutil.Source
	History history.Writer
	Logger  *log.Logger
	// BigBlindOption deals every hand with game.WithBigBlindOption.
	BigBlindOption bool

	// OnAction is called after every applied action with the new state.
	OnAction func(s *game.GameState, a game.Action)
	// OnHand is called with each completed hand.
	OnHand func(s *game.GameState)
}

// Table plays consecutive hands.
type Table struct {
	cfg    Config
	agents map[string]Agent
	logger *log.Logger

	mu    sync.Mutex
	state *game.GameState
	hands int
}

// New validates the seats and returns a table ready for its first hand.
func New(cfg Config) (*Table, error) {
	if len(cfg.Seats) < 2 {
		return nil, game.ErrNotEnoughPlayers
	}
	if cfg.Rand == nil {
		r, _ := randutil.NewFromTime()
		cfg.Rand = r
	}
	if cfg.History == nil {
		cfg.History = history.Nop{}
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard)
	}

	agents := make(map[string]Agent, len(cfg.Seats))
	for _, seat := range cfg.Seats {
		if seat.Agent == nil {
			return nil, fmt.Errorf("session: seat %q has no agent", seat.Player.ID)
		}
		if _, dup := agents[seat.Player.ID]; dup {
			return nil, fmt.Errorf("session: duplicate player id %q", seat.Player.ID)
		}
		agents[seat.Player.ID] = seat.Agent
	}
	return &Table{cfg: cfg, agents: agents, logger: cfg.Logger.WithPrefix("table")}, nil
}

// State returns a copy of the current or last hand, nil before the first.
func (t *Table) State() *game.GameState {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state == nil {
		return nil
	}
	return t.state.Clone()
}

// Hands is the number of hands completed.
func (t *Table) Hands() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.hands
}

// GameOver reports whether fewer than two players still have chips.
func (t *Table) GameOver() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.gameOver()
}

func (t *Table) gameOver() bool {
	if t.state == nil {
		return false
	}
	funded := 0
	for _, p := range t.state.Players {
		if p.Chips > 0 {
			funded++
		}
	}
	return funded < 2
}

// PlayHand deals the next hand and plays it to completion, returning the
// final state. A cancelled context stops play between decisions; the
// unfinished hand is discarded.
func (t *Table) PlayHand(ctx context.Context) (*game.GameState, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.gameOver() {
		return nil, ErrGameOver
	}
	s, err := t.deal()
	if err != nil {
		return nil, err
	}
	t.logger.Info("hand started", "hand", s.HandID, "dealer", s.Players[s.DealerIndex].Name)

	for !s.Complete {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		p := s.Actor()
		d, err := t.agents[p.ID].Decide(ctx, s.Clone())
		if err != nil {
			return nil, fmt.Errorf("session: %s: %w", p.Name, err)
		}

		next, err := game.Apply(s, d.Kind, d.Amount)
		if errors.Is(err, game.ErrIllegalAction) {
			fallback := TimeoutDecision(s)
			t.logger.Warn("illegal decision replaced", "player", p.Name, "action", d.Kind, "amount", d.Amount, "with", fallback.Kind)
			next, err = game.Apply(s, fallback.Kind, 0)
		}
		if err != nil {
			return nil, err
		}
		s = next
		if t.cfg.OnAction != nil {
			t.cfg.OnAction(s.Clone(), s.Actions[len(s.Actions)-1])
		}
	}

	t.state = s
	t.hands++
	t.finish(ctx, s)
	return s.Clone(), nil
}

func (t *Table) deal() (*game.GameState, error) {
	opts := []game.HandOption{game.WithRand(t.cfg.Rand), game.WithLogger(t.cfg.Logger)}
	if t.cfg.BigBlindOption {
		opts = append(opts, game.WithBigBlindOption())
	}
	if t.state != nil {
		return game.NextHand(t.state, opts...)
	}
	players := make([]game.Player, len(t.cfg.Seats))
	for i, seat := range t.cfg.Seats {
		players[i] = seat.Player
	}
	return game.StartHand(players, t.cfg.Blinds, opts...)
}

func (t *Table) finish(ctx context.Context, s *game.GameState) {
	sum, _ := game.Summarize(s)
	t.logger.Info("hand complete", "hand", s.HandID, "winners", sum.Winners, "pot", sum.Pot, "showdown", sum.Showdown)

	if err := t.cfg.History.Write(ctx, sum); err != nil {
		t.logger.Error("failed to store hand", "hand", s.HandID, "error", err)
	}
	for i, p := range s.Players {
		if p.Active && p.Chips == 0 {
			t.logger.Info("player busted", "player", p.Name, "seat", i)
		}
	}
	if t.cfg.OnHand != nil {
		t.cfg.OnHand(s.Clone())
	}
}

// Run plays hands until the game is over, limit hands have been played
// (zero means no limit) or ctx is done. It returns the number of hands played.
func (t *Table) Run(ctx context.Context, limit int) (int, error) {
	played := 0
	for limit == 0 || played < limit {
		if _, err := t.PlayHand(ctx); err != nil {
			if errors.Is(err, ErrGameOver) {
				return played, nil
			}
			return played, err
		}
		played++
	}
	return played, nil
}
