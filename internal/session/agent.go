package session

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/holdem-advisor/internal/advisor"
	"github.com/lox/holdem-advisor/internal/game"
	"github.com/lox/holdem-advisor/internal/randutil"
)

// Agent chooses the action for the player to act. It receives a copy of the
// state and may keep it.
type Agent interface {
	Decide(ctx context.Context, s *game.GameState) (advisor.Decision, error)
}

// AgentFunc adapts a function to Agent.
type AgentFunc func(ctx context.Context, s *game.GameState) (advisor.Decision, error)

func (f AgentFunc) Decide(ctx context.Context, s *game.GameState) (advisor.Decision, error) {
	return f(ctx, s)
}

// AutoAgent plays for an autonomous seat.
type AutoAgent struct {
	Rand  randutil.Source
	Style Style
}

func (a AutoAgent) Decide(_ context.Context, s *game.GameState) (advisor.Decision, error) {
	switch a.Style {
	case MixedStrategy:
		if c, ok := advisor.RegretMatchedStrategy(advisor.PayoffMatrix(s)).Sample(a.Rand); ok {
			return advisor.Decision{Kind: c.Kind, Amount: c.Amount}, nil
		}
	case CallingStation:
		return callingStation(s), nil
	case Maniac:
		return maniac(s, a.Rand), nil
	case RandomPlay:
		return randomPlay(s, a.Rand), nil
	}
	return advisor.Decide(s, a.Rand), nil
}

// TimedAgent bounds how long an inner agent, usually a human prompt, may
// think. When the clock runs out it checks if that is free and folds
// otherwise.
type TimedAgent struct {
	Agent   Agent
	Clock   quartz.Clock
	Timeout time.Duration
	Logger  *log.Logger
}

// NewTimedAgent wraps agent with a timeout on clock. A zero timeout returns
// agent unchanged.
func NewTimedAgent(agent Agent, clock quartz.Clock, timeout time.Duration, logger *log.Logger) Agent {
	if timeout <= 0 {
		return agent
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &TimedAgent{Agent: agent, Clock: clock, Timeout: timeout, Logger: logger}
}

type result struct {
	d   advisor.Decision
	err error
}

func (t *TimedAgent) Decide(ctx context.Context, s *game.GameState) (advisor.Decision, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	expired := make(chan struct{})
	timer := t.Clock.AfterFunc(t.Timeout, func() {
		close(expired)
	}, "session", "action")
	defer timer.Stop()

	done := make(chan result, 1)
	go func() {
		d, err := t.Agent.Decide(ctx, s)
		done <- result{d, err}
	}()

	select {
	case r := <-done:
		return r.d, r.err
	case <-expired:
		d := TimeoutDecision(s)
		if p := s.Actor(); p != nil {
			t.Logger.Warn("decision timed out", "player", p.Name, "after", t.Timeout, "action", d.Kind)
		}
		return d, nil
	case <-ctx.Done():
		return advisor.Decision{}, ctx.Err()
	}
}

// TimeoutDecision is the action submitted for a player who ran out of time.
func TimeoutDecision(s *game.GameState) advisor.Decision {
	if game.IsLegal(s, game.Check) {
		return advisor.Decision{Kind: game.Check, Fallback: true}
	}
	return advisor.Decision{Kind: game.Fold, Fallback: true}
}
