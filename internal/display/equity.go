package display

import (
	"fmt"
	"strings"

	"github.com/lox/holdem-advisor/internal/deck"
	"github.com/lox/holdem-advisor/internal/equity"
	"github.com/lox/holdem-advisor/internal/evaluator"
)

// Equity renders win and tie rates per hand, optionally with how often each
// hand finishes in every category.
func (r *Renderer) Equity(results []equity.Result, board []deck.Card, categories bool) string {
	var b strings.Builder
	if len(board) > 0 {
		fmt.Fprintf(&b, "%s %s\n\n", r.Styles.HandInfo.Render("Board:"), r.Cards(board))
	}

	fmt.Fprintf(&b, "%-10s %7s %7s\n", "hand", "win", "tie")
	for _, res := range results {
		fmt.Fprintf(&b, "%s %s %s\n",
			r.pad(res.Hand, 10),
			r.Styles.Success.Render(fmt.Sprintf("%6.1f%%", res.WinRate()*100)),
			r.Styles.Warning.Render(fmt.Sprintf("%6.1f%%", res.TieRate()*100)))
	}

	if categories && len(results) > 0 {
		fmt.Fprintf(&b, "\n%-16s", "category")
		for _, res := range results {
			fmt.Fprintf(&b, " %s", r.pad(res.Hand, 8))
		}
		b.WriteString("\n")
		for i := int(evaluator.RoyalFlush); i >= int(evaluator.HighCard); i-- {
			c := evaluator.Category(i)
			seen := false
			for _, res := range results {
				seen = seen || res.Categories[c] > 0
			}
			if !seen {
				continue
			}
			fmt.Fprintf(&b, "%-16s", c)
			for _, res := range results {
				cell := "."
				if n := res.Categories[c]; n > 0 {
					cell = fmt.Sprintf("%.1f%%", float64(n)/float64(res.Total)*100)
				}
				fmt.Fprintf(&b, " %-8s", cell)
			}
			b.WriteString("\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// pad renders cards padded to width visible columns.
func (r *Renderer) pad(cards []deck.Card, width int) string {
	plain := (&Renderer{Styles: PlainStyles()}).Cards(cards)
	return r.Cards(cards) + strings.Repeat(" ", max(0, width-len([]rune(plain))))
}
