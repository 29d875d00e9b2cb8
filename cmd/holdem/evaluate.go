package main

import (
	"fmt"
	"strings"

	"github.com/lox/holdem-advisor/internal/advisor"
	"github.com/lox/holdem-advisor/internal/deck"
	"github.com/lox/holdem-advisor/internal/display"
	"github.com/lox/holdem-advisor/internal/evaluator"
)

// EvaluateCmd names the best hand from hole cards and a board.
type EvaluateCmd struct {
	Cards []string `arg:"" help:"Two hole cards followed by three to five board cards, e.g. AsKs QsJsTs"`
}

func (c *EvaluateCmd) Run(_ *Globals) error {
	cards, err := deck.ParseCards(strings.Join(c.Cards, ""))
	if err != nil {
		return err
	}
	if len(cards) < 5 || len(cards) > 7 {
		return fmt.Errorf("need between 5 and 7 cards, got %d", len(cards))
	}
	hole, board := cards[:2], cards[2:]

	eval, err := evaluator.EvaluateBest(hole, board)
	if err != nil {
		return err
	}

	r := display.NewRenderer()
	fmt.Printf("%s %s\n", r.Styles.HandInfo.Render(eval.Description), r.Cards(eval.Cards[:]))
	fmt.Printf("Strength: %.2f\n", advisor.HandStrength(hole, board))
	return nil
}
