package main

import (
	"fmt"
	"time"

	"github.com/lox/holdem-advisor/internal/deck"
	"github.com/lox/holdem-advisor/internal/display"
	"github.com/lox/holdem-advisor/internal/equity"
)

// OddsCmd estimates showdown equity between hands.
type OddsCmd struct {
	Hands         []string `arg:"" help:"Hands to compare, e.g. AcKd QhJs"`
	Board         string   `short:"b" help:"Community cards dealt so far (e.g., 'Td7s8h')"`
	Possibilities bool     `short:"p" help:"Show how often each hand makes every category"`
	Iterations    int      `short:"i" default:"100000" help:"Number of Monte Carlo iterations"`
	Workers       int      `help:"Parallel workers (default: number of CPUs)"`
	NoColor       bool     `help:"Disable colours"`
}

func (c *OddsCmd) Run(g *Globals) error {
	hands := make([][]deck.Card, len(c.Hands))
	for i, h := range c.Hands {
		cards, err := deck.ParseCards(h)
		if err != nil {
			return fmt.Errorf("hand %d: %w", i+1, err)
		}
		hands[i] = cards
	}
	board, err := deck.ParseCards(c.Board)
	if err != nil {
		return fmt.Errorf("board: %w", err)
	}

	_, seed := g.rng()
	ctx, cancel := signalContext(nil)
	defer cancel()

	start := time.Now()
	results, err := equity.Calculate(ctx, hands, board, equity.Config{Iterations: c.Iterations, Seed: seed, Workers: c.Workers})
	if err != nil {
		return err
	}

	r := display.NewRenderer()
	if c.NoColor {
		r.Styles = display.PlainStyles()
	}
	fmt.Println(r.Equity(results, board, c.Possibilities))
	fmt.Println()
	fmt.Println(r.Styles.Info.Render(fmt.Sprintf("%d iterations in %v, seed %d", c.Iterations, time.Since(start).Truncate(time.Millisecond), seed)))
	return nil
}
