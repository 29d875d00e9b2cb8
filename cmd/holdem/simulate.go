package main

import (
	"fmt"
	"os"
	"time"

	"github.com/lox/holdem-advisor/internal/display"
	"github.com/lox/holdem-advisor/internal/game"
	"github.com/lox/holdem-advisor/internal/history"
	"github.com/lox/holdem-advisor/internal/session"
	"github.com/lox/holdem-advisor/internal/simulator"
)

// SimulateCmd plays the advisor against autonomous opponents.
type SimulateCmd struct {
	Tables  int    `default:"4" help:"Number of tables"`
	Hands   int    `default:"1000" help:"Hands per table"`
	Players int    `default:"6" help:"Seats per table, including the tracked player"`
	Workers int    `help:"Tables played at once (default: number of CPUs)"`
	Style   string `default:"advisor" enum:"advisor,mixed,calling,maniac,random" help:"How the opponents play (${enum})"`
	Table   string `default:"main" help:"Table from the configuration file for blinds and stacks"`
	Save    bool   `help:"Store simulated hands in the configured history"`
	NoColor bool   `help:"Disable colours"`
}

func (c *SimulateCmd) Run(g *Globals) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}
	tc, err := cfg.Table(c.Table)
	if err != nil {
		return err
	}
	logger, err := g.logger(cfg, os.Stderr, "SIM")
	if err != nil {
		return err
	}

	ctx, cancel := signalContext(logger)
	defer cancel()

	var hist history.Writer = history.Nop{}
	if c.Save {
		if hist, err = openHistory(ctx, cfg.History, tc.Name, logger); err != nil {
			return err
		}
		defer func() {
			if err := hist.Close(); err != nil {
				logger.Error("Failed to close history", "error", err)
			}
		}()
	}

	_, seed := g.rng()
	logger.Info("Starting simulation", "tables", c.Tables, "hands", c.Hands, "players", c.Players, "seed", seed)

	report, err := simulator.Run(ctx, simulator.Config{
		Tables:        c.Tables,
		Hands:         c.Hands,
		Players:       c.Players,
		StartingChips: tc.StartingChips,
		Blinds:        game.Blinds{Small: tc.SmallBlind, Big: tc.BigBlind},
		Seed:          seed,
		Workers:       c.Workers,
		OpponentStyle: session.ParseStyle(c.Style),
		History:       hist,
		Logger:        logger,
	})
	if err != nil {
		return err
	}

	r := display.NewRenderer()
	if c.NoColor {
		r.Styles = display.PlainStyles()
	}
	fmt.Println(r.Report(report.Stats))
	fmt.Println()
	fmt.Println(r.Styles.Info.Render(fmt.Sprintf("%d tables, %d games, seed %d, %s",
		report.Tables, report.Games, seed, report.Elapsed.Round(time.Millisecond))))
	return nil
}
