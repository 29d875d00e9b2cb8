// Package history persists completed hands. A Writer receives the flattened
// game.Summary of every finished hand; the JSON writer keeps one file per
// hand and the SQLite writer keeps the relational players, games, rounds and
// actions tables.
package history

import (
	"context"
	"errors"
	"time"

	"github.com/lox/holdem-advisor/internal/deck"
	"github.com/lox/holdem-advisor/internal/game"
	"github.com/lox/holdem-advisor/internal/handid"
)

// ErrClosed is returned by writers used after Close.
var ErrClosed = errors.New("history: writer closed")

// Writer stores completed hands.
type Writer interface {
	Write(ctx context.Context, hand game.Summary) error
	Close() error
}

// Nop discards every hand.
type Nop struct{}

func (Nop) Write(context.Context, game.Summary) error { return nil }
func (Nop) Close() error                              { return nil }

// Multi fans every hand out to several writers.
type Multi []Writer

func (m Multi) Write(ctx context.Context, hand game.Summary) error {
	var errs []error
	for _, w := range m {
		if err := w.Write(ctx, hand); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m Multi) Close() error {
	var errs []error
	for _, w := range m {
		errs = append(errs, w.Close())
	}
	return errors.Join(errs...)
}

// Record is the stored form of a hand.
type Record struct {
	HandID      string         `json:"hand_id"`
	StartedAt   time.Time      `json:"started_at"`
	PlayerCount int            `json:"player_count"`
	Pot         int            `json:"pot"`
	WinnerID    string         `json:"winner_id"`
	Winners     []string       `json:"winners"`
	Players     []SeatRecord   `json:"players"`
	Rounds      []RoundRecord  `json:"rounds"`
	Actions     []ActionRecord `json:"actions"`
	Board       []string       `json:"board"`
	Showdown    bool           `json:"showdown"`
	Category    string         `json:"category,omitempty"`
}

// SeatRecord is a player's ending stack and, when shown down, their cards.
type SeatRecord struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Human bool     `json:"human,omitempty"`
	Chips int      `json:"chips"`
	Won   int      `json:"won"`
	Hole  []string `json:"hole,omitempty"`
	Hand  string   `json:"hand,omitempty"`
}

// RoundRecord is the board and pot at the end of a street.
type RoundRecord struct {
	Street string   `json:"street"`
	Pot    int      `json:"pot"`
	Board  []string `json:"board"`
}

// ActionRecord is one entry of the action log.
type ActionRecord struct {
	PlayerID string `json:"player_id"`
	Street   string `json:"street"`
	Action   string `json:"action"`
	Amount   int    `json:"amount"`
}

// NewRecord converts a summary into its stored form. The start time comes
// from the hand ID when it carries one.
func NewRecord(hand game.Summary) Record {
	r := Record{
		HandID:      hand.HandID,
		PlayerCount: hand.PlayerCount,
		Pot:         hand.Pot,
		WinnerID:    hand.WinnerID,
		Winners:     append([]string{}, hand.Winners...),
		Board:       cardCodes(hand.Board),
		Showdown:    hand.Showdown,
	}
	if t, err := handid.Time(hand.HandID); err == nil {
		r.StartedAt = t.UTC()
	}
	if hand.Showdown {
		r.Category = hand.Category.Slug()
	}
	for _, p := range hand.Players {
		r.Players = append(r.Players, SeatRecord{
			ID:    p.ID,
			Name:  p.Name,
			Human: p.Type == game.Human,
			Chips: p.Chips,
			Won:   p.Won,
			Hole:  cardCodes(p.Hole),
			Hand:  p.Hand,
		})
	}
	for _, rd := range hand.Rounds {
		r.Rounds = append(r.Rounds, RoundRecord{Street: streetCode(rd.Street), Pot: rd.Pot, Board: cardCodes(rd.Board)})
	}
	for _, a := range hand.Actions {
		r.Actions = append(r.Actions, ActionRecord{
			PlayerID: a.PlayerID,
			Street:   streetCode(a.Street),
			Action:   a.Kind.String(),
			Amount:   a.Amount,
		})
	}
	return r
}

func cardCodes(cards []deck.Card) []string {
	if cards == nil {
		return nil
	}
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.Code()
	}
	return out
}

// streetCode is the upper-case street name used as the round type.
func streetCode(s game.Street) string {
	switch s {
	case game.PreFlop:
		return "PRE_FLOP"
	case game.Flop:
		return "FLOP"
	case game.Turn:
		return "TURN"
	case game.River:
		return "RIVER"
	}
	return "SHOWDOWN"
}
