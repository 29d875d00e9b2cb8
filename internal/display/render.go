package display

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lox/holdem-advisor/internal/advisor"
	"github.com/lox/holdem-advisor/internal/deck"
	"github.com/lox/holdem-advisor/internal/game"
	"github.com/lox/holdem-advisor/internal/statistics"
)

// Renderer turns engine and advisor values into terminal text.
type Renderer struct {
	Styles Styles
}

// NewRenderer returns a renderer with the default palette.
func NewRenderer() *Renderer {
	return &Renderer{Styles: DefaultStyles()}
}

// Cards formats cards with colours, "[]" when there are none.
func (r *Renderer) Cards(cards []deck.Card) string {
	out := make([]string, len(cards))
	for i, c := range cards {
		if c.IsRed() {
			out[i] = r.Styles.RedCard.Render(c.String())
		} else {
			out[i] = r.Styles.BlackCard.Render(c.String())
		}
	}
	return "[" + strings.Join(out, " ") + "]"
}

func (r *Renderer) hidden(n int) string {
	return r.Styles.Hidden.Render("[" + strings.TrimSpace(strings.Repeat("?? ", n)) + "]")
}

// Table draws the board, the pot and every seat.
func (r *Renderer) Table(v game.View) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n", r.Styles.Header.Render(v.Street.String()), r.Styles.Info.Render("hand "+v.HandID))
	fmt.Fprintf(&b, "Board: %s  Pot: $%d\n\n", r.Cards(v.Community), v.Pot)

	for _, p := range v.Players {
		if !p.Active {
			fmt.Fprintf(&b, "  %s\n", r.Styles.Info.Render(p.Name+" (out)"))
			continue
		}
		hole := r.hidden(2)
		if p.Revealed {
			hole = r.Cards(p.Hole)
		}

		var tags []string
		if p.Dealer {
			tags = append(tags, "D")
		}
		if p.SmallBlind {
			tags = append(tags, "SB")
		}
		if p.BigBlind {
			tags = append(tags, "BB")
		}
		badge := ""
		if len(tags) > 0 {
			badge = " (" + strings.Join(tags, ",") + ")"
		}

		line := fmt.Sprintf("%-12s %s  $%-6d bet $%d", p.Name+badge, hole, p.Chips, p.Bet)
		switch {
		case p.Folded:
			line += "  folded"
		case p.AllIn:
			line += "  all-in"
		}
		if p.Hand != nil {
			line += "  " + p.Hand.Description
		}

		marker := "  "
		switch {
		case p.Winner:
			marker = r.Styles.Success.Render("* ")
			line = r.Styles.Success.Render(line)
		case p.ToAct:
			marker = r.Styles.ToAct.Render("> ")
			line = r.Styles.ToAct.Render(line)
		}
		b.WriteString(marker + line + "\n")
	}
	return r.Styles.Pane.Render(strings.TrimRight(b.String(), "\n"))
}

// Legal lists the available actions.
func (r *Renderer) Legal(legal []game.LegalAction) string {
	parts := make([]string, len(legal))
	for i, l := range legal {
		style := r.Styles.Success
		switch {
		case l.Kind == game.Fold:
			style = r.Styles.Error
		case l.Kind.Aggressive():
			style = r.Styles.Warning
		}
		parts[i] = style.Render("[" + l.String() + "]")
	}
	return r.Styles.Actions.Render("Actions: ") + strings.Join(parts, " ")
}

// Action describes one logged action.
func (r *Renderer) Action(a game.Action) string {
	switch a.Kind {
	case game.Fold:
		return fmt.Sprintf("%s folds", a.Player)
	case game.Check:
		return fmt.Sprintf("%s checks", a.Player)
	case game.Call:
		return fmt.Sprintf("%s calls $%d", a.Player, a.Amount)
	case game.Bet:
		return fmt.Sprintf("%s bets $%d", a.Player, a.Amount)
	}
	return fmt.Sprintf("%s raises $%d", a.Player, a.Amount)
}

// Recommendation renders the advisor's suggestion.
func (r *Renderer) Recommendation(rec advisor.Recommendation) string {
	var b strings.Builder
	action := rec.Action.String()
	if rec.Amount > 0 {
		action = fmt.Sprintf("%s $%d", action, rec.Amount)
	}
	fmt.Fprintf(&b, "%s %s\n", r.Styles.HandInfo.Render("Advice:"), r.Styles.Actions.Render(strings.ToUpper(action)))
	fmt.Fprintf(&b, "Strength %.2f  Confidence %.0f%%  EV %+.1f  Risk %s\n",
		rec.Strength, rec.Confidence*100, rec.ExpectedValue, r.risk(rec.Risk))
	b.WriteString(rec.Reasoning)
	for _, alt := range rec.Alternatives {
		label := alt.Kind.String()
		if alt.Amount > 0 {
			label = fmt.Sprintf("%s $%d", label, alt.Amount)
		}
		fmt.Fprintf(&b, "\n  or %s (EV %+.1f)", label, alt.ExpectedValue)
	}
	if len(rec.Strategy.Candidates) > 0 {
		mix := make([]string, len(rec.Strategy.Candidates))
		for i, c := range rec.Strategy.Candidates {
			mix[i] = fmt.Sprintf("%s %.0f%%", c, rec.Strategy.Probabilities[i]*100)
		}
		b.WriteString("\n" + r.Styles.Info.Render("Mix: "+strings.Join(mix, ", ")))
	}
	return r.Styles.AdvicePane.Render(b.String())
}

func (r *Renderer) risk(risk advisor.Risk) string {
	switch risk {
	case advisor.LowRisk:
		return r.Styles.Success.Render(risk.String())
	case advisor.MediumRisk:
		return r.Styles.Warning.Render(risk.String())
	}
	return r.Styles.Error.Render(risk.String())
}

// Summary describes how a finished hand was won.
func (r *Renderer) Summary(sum game.Summary) string {
	var names []string
	var hand string
	for _, p := range sum.Players {
		if p.Won > 0 {
			names = append(names, fmt.Sprintf("%s ($%d)", p.Name, p.Won))
			if hand == "" {
				hand = p.Hand
			}
		}
	}
	verb := "wins"
	if len(names) > 1 {
		verb = "split"
	}
	line := fmt.Sprintf("%s %s the pot of $%d", strings.Join(names, " and "), verb, sum.Pot)
	if sum.Showdown && hand != "" {
		line += " with " + hand
	} else if !sum.Showdown {
		line += " uncontested"
	}
	return r.Styles.Success.Render(line)
}

// Report renders simulation statistics for the tracked seat.
func (r *Renderer) Report(st *statistics.Statistics) string {
	var b strings.Builder
	low, high := st.ConfidenceInterval95()

	b.WriteString(r.Styles.Header.Render("Simulation results") + "\n")
	fmt.Fprintf(&b, "Hands played: %d\n", st.Hands)
	fmt.Fprintf(&b, "Mean: %.4f bb/hand  Median: %.4f  Std dev: %.4f\n", st.Mean(), st.Median(), st.StdDev())
	fmt.Fprintf(&b, "95%% CI: [%.4f, %.4f] bb/hand\n", low, high)
	fmt.Fprintf(&b, "Percentiles: P5=%.3f P25=%.3f P75=%.3f P95=%.3f\n",
		st.Percentile(0.05), st.Percentile(0.25), st.Percentile(0.75), st.Percentile(0.95))

	b.WriteString("\n" + r.Styles.HandInfo.Render("Outcomes") + "\n")
	fmt.Fprintf(&b, "Showdowns: %d  Uncontested: %d  Split pots: %d\n", st.Showdowns, st.FoldWins, st.SplitPots)
	fmt.Fprintf(&b, "Won at showdown: %d (%.2f bb/hand)  Won without: %d (%.2f bb/hand)\n",
		st.ShowdownWins, perHand(st.ShowdownBB, st.Hands), st.NonShowdownWins, perHand(st.NonShowdownBB, st.Hands))
	fmt.Fprintf(&b, "Ended on: pre-flop %d, flop %d, turn %d, river %d\n",
		st.Streets[game.PreFlop], st.Streets[game.Flop], st.Streets[game.Turn], st.Streets[game.River])
	fmt.Fprintf(&b, "Biggest pot: $%d (%.1f bb)  Pots of 50bb+: %d\n", st.MaxPotChips, st.MaxPotBB, st.BigPots)

	if cats := st.TopCategories(); len(cats) > 0 {
		b.WriteString("\n" + r.Styles.HandInfo.Render("Winning hands") + "\n")
		for _, c := range cats {
			fmt.Fprintf(&b, "  %-16s %d\n", c, st.Categories[c])
		}
	}

	b.WriteString("\n" + r.Styles.HandInfo.Render("By position") + "\n")
	for pos, ps := range st.Positions {
		if ps.Hands == 0 {
			continue
		}
		fmt.Fprintf(&b, "  %-8s %5d hands  %+.3f bb/hand\n", positionName(pos), ps.Hands, st.PositionMean(pos))
	}
	return strings.TrimRight(b.String(), "\n")
}

func perHand(total float64, hands int) float64 {
	if hands == 0 {
		return 0
	}
	return total / float64(hands)
}

func positionName(pos int) string {
	switch pos {
	case 0:
		return "button"
	case 1:
		return "small"
	case 2:
		return "big"
	}
	return fmt.Sprintf("+%d", pos)
}

// Join stacks rendered blocks vertically.
func Join(blocks ...string) string {
	return lipgloss.JoinVertical(lipgloss.Left, blocks...)
}
