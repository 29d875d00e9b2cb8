package game

import (
	"maps"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/lox/holdem-advisor/internal/deck"
	"github.com/lox/holdem-advisor/internal/evaluator"
)

// Round records how a street finished: the board as it stood and the pot
// after its betting closed.
type Round struct {
	Street Street
	Board  []deck.Card
	Pot    int
}

// GameState is the complete state of one hand. Engine operations never
// modify a state they are given; each transition returns a fresh value.
type GameState struct {
	HandID    string
	Players   []Player // fixed seating for the hand
	Deck      *deck.Deck
	Community []deck.Card
	Pot       int
	// SidePots is always empty: uneven all-in stacks share the single pot.
	SidePots []int
	Street   Street

	CurrentPlayer   int // -1 when nobody is to act
	DealerIndex     int
	SmallBlindIndex int
	BigBlindIndex   int

	Blinds        Blinds
	MinBet        int
	LastRaise     int
	RoundComplete bool
	Complete      bool
	// BigBlindOption is set, when the hand was dealt WithBigBlindOption, until
	// the big blind acts voluntarily pre-flop.
	BigBlindOption bool

	Winners     []int // seat indices, in seat order
	Payouts     []int // chips awarded per seat
	Evaluations map[string]evaluator.Evaluation
	Actions     []Action
	Acted       []bool
	Rounds      []Round

	logger *log.Logger
}

// Clone returns a deep copy of the state.
func (s *GameState) Clone() *GameState {
	c := *s
	c.Players = make([]Player, len(s.Players))
	for i := range s.Players {
		c.Players[i] = s.Players[i].clone()
	}
	c.Deck = s.Deck.Clone()
	c.Community = slices.Clone(s.Community)
	c.SidePots = slices.Clone(s.SidePots)
	c.Winners = slices.Clone(s.Winners)
	c.Payouts = slices.Clone(s.Payouts)
	c.Actions = slices.Clone(s.Actions)
	c.Acted = slices.Clone(s.Acted)
	c.Rounds = slices.Clone(s.Rounds)
	for i := range c.Rounds {
		c.Rounds[i].Board = slices.Clone(s.Rounds[i].Board)
	}
	c.Evaluations = maps.Clone(s.Evaluations)
	return &c
}

// Actor returns the player to act, or nil when nobody is.
func (s *GameState) Actor() *Player {
	if s.Complete || s.CurrentPlayer < 0 || s.CurrentPlayer >= len(s.Players) {
		return nil
	}
	return &s.Players[s.CurrentPlayer]
}

// HighestBet is the largest current-street bet at the table.
func (s *GameState) HighestBet() int {
	highest := 0
	for i := range s.Players {
		highest = max(highest, s.Players[i].Bet)
	}
	return highest
}

// ToCall is the number of chips the actor needs to match the highest bet.
func (s *GameState) ToCall() int {
	p := s.Actor()
	if p == nil {
		return 0
	}
	return min(s.HighestBet()-p.Bet, p.Chips)
}

// TotalChips is every chip on the table, stacks plus pot. It is constant for
// the lifetime of a hand.
func (s *GameState) TotalChips() int {
	total := s.Pot
	for _, p := range s.SidePots {
		total += p
	}
	for i := range s.Players {
		total += s.Players[i].Chips
	}
	return total
}

// InHandCount is the number of players still contesting the pot.
func (s *GameState) InHandCount() int {
	n := 0
	for i := range s.Players {
		if s.Players[i].InHand() {
			n++
		}
	}
	return n
}

// ActiveCount is the number of players who can still make decisions.
func (s *GameState) ActiveCount() int {
	n := 0
	for i := range s.Players {
		if s.Players[i].CanAct() {
			n++
		}
	}
	return n
}

// WinnerIDs returns the IDs of the winners in seat order.
func (s *GameState) WinnerIDs() []string {
	ids := make([]string, len(s.Winners))
	for i, w := range s.Winners {
		ids[i] = s.Players[w].ID
	}
	return ids
}

// PlayerByID returns the seat index for id, or -1.
func (s *GameState) PlayerByID(id string) int {
	for i := range s.Players {
		if s.Players[i].ID == id {
			return i
		}
	}
	return -1
}

// nextEligible scans forward from seat from, wrapping, and returns the first
// player who can act, or -1.
func (s *GameState) nextEligible(from int) int {
	n := len(s.Players)
	for i := 1; i <= n; i++ {
		idx := ((from+i)%n + n) % n
		if s.Players[idx].CanAct() {
			return idx
		}
	}
	return -1
}

// nextActive scans forward from seat from for a player dealt into the hand.
func (s *GameState) nextActive(from int) int {
	n := len(s.Players)
	for i := 1; i <= n; i++ {
		idx := ((from+i)%n + n) % n
		if s.Players[idx].Active {
			return idx
		}
	}
	return -1
}
