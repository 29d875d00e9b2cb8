package phh

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/lox/holdem-advisor/internal/deck"
	"github.com/lox/holdem-advisor/internal/game"
	"github.com/lox/holdem-advisor/internal/handid"
)

// Encode writes the hand history to the provided writer in PHH TOML format.
func Encode(w io.Writer, hand *HandHistory) error {
	if hand == nil {
		return errors.New("phh: hand history is nil")
	}
	enc := toml.NewEncoder(w)
	enc.Indent = "\t"
	return enc.Encode(hand)
}

// Decode reads a hand written by Encode.
func Decode(r io.Reader) (*HandHistory, error) {
	var hand HandHistory
	if _, err := toml.NewDecoder(r).Decode(&hand); err != nil {
		return nil, fmt.Errorf("phh: %w", err)
	}
	return &hand, nil
}

// FromSummary converts a finished hand. Seats are numbered p1..pn in table
// order. Hole cards that were never shown are written as "????".
func FromSummary(sum game.Summary, table string) *HandHistory {
	n := len(sum.Players)
	h := &HandHistory{
		Variant:           "NT",
		Table:             table,
		SeatCount:         n,
		Antes:             make([]int, n),
		BlindsOrStraddles: make([]int, n),
		MinBet:            sum.Blinds.Big,
		StartingStacks:    make([]int, n),
		FinishingStacks:   make([]int, n),
		Winnings:          make([]int, n),
		Players:           make([]string, n),
		HandID:            sum.HandID,
	}

	seats := make(map[string]int, n)
	for i, p := range sum.Players {
		seats[p.ID] = i
		h.BlindsOrStraddles[i] = p.Blind
		h.StartingStacks[i] = p.Start
		h.FinishingStacks[i] = p.Chips
		h.Winnings[i] = p.Won
		h.Players[i] = p.Name
	}
	h.Actions = actions(sum, seats)

	if ts, err := handid.Time(sum.HandID); err == nil {
		ts = ts.UTC()
		h.Time = ts.Format("15:04:05")
		h.TimeZone = "UTC"
		h.Day, h.Month, h.Year = ts.Day(), int(ts.Month()), ts.Year()
	}
	h.Winners = sum.Winners
	if sum.Showdown {
		h.Category = sum.Category.Slug()
	}
	return h
}

func actions(sum game.Summary, seats map[string]int) []string {
	var out []string
	for i, p := range sum.Players {
		out = append(out, fmt.Sprintf("d dh p%d %s", i+1, holeCards(p.Hole)))
	}

	// Blind posts are carried by blinds_or_straddles.
	bets := make([]int, len(sum.Players))
	posts := 0
	for i, p := range sum.Players {
		bets[i] = p.Blind
		if p.Blind > 0 {
			posts++
		}
	}

	street := game.PreFlop
	for _, a := range sum.Actions[min(posts, len(sum.Actions)):] {
		if a.Street != street {
			out = append(out, boardDeals(sum.Board, street, a.Street)...)
			street = a.Street
			clear(bets)
		}
		seat := seats[a.PlayerID]
		player := fmt.Sprintf("p%d", seat+1)
		switch a.Kind {
		case game.Fold:
			out = append(out, player+" f")
		case game.Check, game.Call:
			bets[seat] += a.Amount
			out = append(out, player+" cc")
		default:
			bets[seat] += a.Amount
			out = append(out, fmt.Sprintf("%s cbr %d", player, bets[seat]))
		}
	}
	out = append(out, boardDeals(sum.Board, street, game.River)...)

	if sum.Showdown {
		for i, p := range sum.Players {
			if len(p.Hole) > 0 {
				out = append(out, fmt.Sprintf("p%d sm %s", i+1, holeCards(p.Hole)))
			}
		}
	}
	return out
}

// boardDeals lists the board cards dealt after from up to and including to.
func boardDeals(board []deck.Card, from, to game.Street) []string {
	var out []string
	for st := from + 1; st <= to && st <= game.River; st++ {
		lo, hi := boardRange(st)
		if hi > len(board) {
			break
		}
		out = append(out, "d db "+codes(board[lo:hi]))
	}
	return out
}

func boardRange(st game.Street) (int, int) {
	switch st {
	case game.Flop:
		return 0, 3
	case game.Turn:
		return 3, 4
	}
	return 4, 5
}

func holeCards(hole []deck.Card) string {
	if len(hole) == 0 {
		return "????"
	}
	return codes(hole)
}

func codes(cards []deck.Card) string {
	var b strings.Builder
	for _, c := range cards {
		b.WriteString(c.Code())
	}
	return b.String()
}
