package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/chzyer/readline"
	"github.com/coder/quartz"

	"github.com/lox/holdem-advisor/internal/advisor"
	"github.com/lox/holdem-advisor/internal/display"
	"github.com/lox/holdem-advisor/internal/game"
	"github.com/lox/holdem-advisor/internal/session"
)

const humanID = "human"

var errQuit = errors.New("player quit")

// PlayCmd seats the human at a configured table.
type PlayCmd struct {
	Table    string `default:"main" help:"Table from the configuration file"`
	Hands    int    `help:"Stop after this many hands (0 plays until you quit or bust)"`
	LogFile  string `default:"holdem.log" type:"path" help:"Where to write the session log"`
	NoAdvice bool   `help:"Only show advice when asked for"`
	NoColor  bool   `help:"Disable colours"`
}

func (c *PlayCmd) Run(g *Globals) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}
	tc, err := cfg.Table(c.Table)
	if err != nil {
		return err
	}
	timeout, err := tc.Timeout()
	if err != nil {
		return err
	}

	logFile, err := os.OpenFile(c.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer logFile.Close()
	logger, err := g.logger(cfg, logFile, "PLAY")
	if err != nil {
		return err
	}

	ctx, cancel := signalContext(logger)
	defer cancel()

	hist, err := openHistory(ctx, cfg.History, tc.Name, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := hist.Close(); err != nil {
			logger.Error("Failed to close history", "error", err)
		}
	}()

	r := display.NewRenderer()
	if c.NoColor {
		r.Styles = display.PlainStyles()
	}

	clock := quartz.NewReal()
	p, err := newPrompt(r, clock, !c.NoAdvice)
	if err != nil {
		return err
	}
	defer p.Close()

	rng, seed := g.rng()
	logger.Info("Starting session", "table", tc.Name, "seed", seed, "players", tc.Seats(), "timeout", timeout)

	seats := []session.Seat{{
		Player: game.Player{ID: humanID, Name: tc.HumanName, Type: game.Human, Chips: tc.StartingChips},
		Agent:  session.NewTimedAgent(p, clock, timeout, logger),
	}}
	style := session.ParseStyle(tc.Style)
	for i := 1; i <= tc.AIPlayers; i++ {
		seats = append(seats, session.Seat{
			Player: game.Player{ID: fmt.Sprintf("ai-%d", i), Name: fmt.Sprintf("AI %d", i), Type: game.Autonomous, Chips: tc.StartingChips},
			Agent:  session.AutoAgent{Rand: rng, Style: style},
		})
	}

	table, err := session.New(session.Config{
		Seats:   seats,
		Blinds:  game.Blinds{Small: tc.SmallBlind, Big: tc.BigBlind},
		Rand:    rng,
		History: hist,
		Logger:  logger,

		BigBlindOption: tc.BigBlindOption,

		OnAction: func(_ *game.GameState, a game.Action) {
			if a.PlayerID != humanID {
				p.println(r.Action(a))
			}
		},
		OnHand: func(s *game.GameState) {
			p.println(r.Table(game.NewView(s, humanID)))
			if sum, ok := game.Summarize(s); ok {
				p.println(r.Summary(sum))
			}
			p.println("")
		},
	})
	if err != nil {
		return err
	}

	p.println(r.Styles.Header.Render(" ♠ ♥ Texas Hold'em ♦ ♣ "))
	p.println(r.Styles.Info.Render(fmt.Sprintf("%s: blinds %d/%d, seed %d. Type 'help' for commands.", tc.Name, tc.SmallBlind, tc.BigBlind, seed)))

	for c.Hands == 0 || table.Hands() < c.Hands {
		s, err := table.PlayHand(ctx)
		switch {
		case errors.Is(err, errQuit), errors.Is(err, context.Canceled):
			return nil
		case errors.Is(err, session.ErrGameOver):
			p.println(r.Styles.Success.Render("Game over."))
			return nil
		case err != nil:
			return err
		}
		if human := s.Players[s.PlayerByID(humanID)]; human.Chips == 0 {
			p.println(r.Styles.Error.Render("You are out of chips."))
			return nil
		}
	}
	return nil
}

type line struct {
	text string
	err  error
	at   time.Time
}

// prompt is the human seat's agent. A single goroutine owns readline so a
// read abandoned on timeout carries over to the next decision, which drops
// whatever was typed before it opened.
type prompt struct {
	rl     *readline.Instance
	out    io.Writer
	r      *display.Renderer
	clock  quartz.Clock
	advice bool

	mu       sync.Mutex
	requests chan struct{}
	lines    chan line
	pending  bool
	opened   time.Time
}

func newPrompt(r *display.Renderer, clock quartz.Clock, advice bool) (*prompt, error) {
	completer := readline.NewPrefixCompleter()
	for _, name := range []string{"fold", "check", "call", "bet", "raise", "allin", "advice", "table", "help", "quit"} {
		completer.Children = append(completer.Children, readline.PcItem(name))
	}
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          r.Styles.Actions.Render("holdem> "),
		HistoryFile:     filepath.Join(os.TempDir(), "holdem_history"),
		AutoComplete:    completer,
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
	})
	if err != nil {
		return nil, err
	}
	p := &prompt{
		rl:       rl,
		out:      rl.Stdout(),
		r:        r,
		clock:    clock,
		advice:   advice,
		requests: make(chan struct{}),
		lines:    make(chan line, 1),
	}
	go p.read()
	return p, nil
}

func (p *prompt) read() {
	for range p.requests {
		text, err := p.rl.Readline()
		p.lines <- line{text: text, err: err, at: p.clock.Now()}
	}
}

func (p *prompt) Close() error {
	close(p.requests)
	return p.rl.Close()
}

func (p *prompt) println(s string) {
	fmt.Fprintln(p.out, s)
}

// readLine returns the next line entered since the decision opened.
func (p *prompt) readLine(ctx context.Context) (string, error) {
	for {
		if !p.pending {
			p.requests <- struct{}{}
			p.pending = true
		}
		select {
		case l := <-p.lines:
			p.pending = false
			if l.err == nil && l.at.Before(p.opened) {
				p.println(p.r.Styles.Warning.Render(fmt.Sprintf("Ignored %q, typed before this decision", l.text)))
				continue
			}
			return l.text, l.err
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
}

func (p *prompt) Decide(ctx context.Context, s *game.GameState) (advisor.Decision, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	view := game.NewView(s, humanID)
	p.println(p.r.Table(view))
	if p.advice {
		p.println(p.r.Recommendation(advisor.Recommend(s)))
	}
	p.println(p.r.Legal(view.Legal))
	p.opened = p.clock.Now()

	for {
		text, err := p.readLine(ctx)
		switch {
		case errors.Is(err, readline.ErrInterrupt):
			p.println(p.r.Styles.Info.Render("Use 'quit' to exit"))
			continue
		case errors.Is(err, io.EOF):
			return advisor.Decision{}, errQuit
		case errors.Is(err, context.Canceled):
			p.println(p.r.Styles.Warning.Render("Out of time."))
			return advisor.Decision{}, err
		case err != nil:
			return advisor.Decision{}, err
		}

		cmd, err := display.ParseCommand(text, view.Legal)
		if err != nil {
			p.println(p.r.Styles.Error.Render(err.Error()))
			continue
		}
		switch cmd.Kind {
		case display.Act:
			return cmd.Decision, nil
		case display.Advice:
			p.println(p.r.Recommendation(advisor.Recommend(s)))
		case display.ShowTable:
			p.println(p.r.Table(view))
			p.println(p.r.Legal(view.Legal))
		case display.Help:
			p.println(display.HelpText)
		case display.Quit:
			return advisor.Decision{}, errQuit
		}
	}
}
