package game

import (
	"fmt"
	"slices"

	"github.com/lox/holdem-advisor/internal/deck"
)

// Street is the betting phase of a hand.
type Street int

const (
	PreFlop Street = iota
	Flop
	Turn
	River
	Showdown
)

// String returns the string representation of a street
func (s Street) String() string {
	switch s {
	case PreFlop:
		return "Pre-flop"
	case Flop:
		return "Flop"
	case Turn:
		return "Turn"
	case River:
		return "River"
	case Showdown:
		return "Showdown"
	default:
		return "Unknown"
	}
}

// ActionKind is one of the five betting actions.
type ActionKind int

const (
	Fold ActionKind = iota
	Check
	Call
	Bet
	Raise
)

func (a ActionKind) String() string {
	return [...]string{"fold", "check", "call", "bet", "raise"}[a]
}

// ParseActionKind parses the lower-case action name.
func ParseActionKind(s string) (ActionKind, error) {
	switch s {
	case "fold", "f":
		return Fold, nil
	case "check", "k":
		return Check, nil
	case "call", "c":
		return Call, nil
	case "bet", "b":
		return Bet, nil
	case "raise", "r":
		return Raise, nil
	}
	return 0, fmt.Errorf("unknown action %q", s)
}

// Aggressive reports whether the action puts new money in ahead of the field.
func (a ActionKind) Aggressive() bool {
	return a == Bet || a == Raise
}

// PlayerType distinguishes seats driven by a person from autonomous seats.
type PlayerType int

const (
	Human PlayerType = iota
	Autonomous
)

func (t PlayerType) String() string {
	if t == Human {
		return "human"
	}
	return "autonomous"
}

// Player is a seat at the table. ID, Name, Type and Chips persist across
// hands; everything else is reset when a hand starts.
type Player struct {
	ID    string
	Name  string
	Type  PlayerType
	Chips int

	Hole      []deck.Card
	Bet       int // chips put in on the current street
	Committed int // chips put in over the whole hand
	Folded    bool
	AllIn     bool
	Active    bool // had chips when the hand started

	Dealer     bool
	SmallBlind bool
	BigBlind   bool
}

// CanAct reports whether the player still has decisions to make this hand.
func (p *Player) CanAct() bool {
	return p.Active && !p.Folded && !p.AllIn
}

// InHand reports whether the player is still contesting the pot.
func (p *Player) InHand() bool {
	return p.Active && !p.Folded
}

func (p *Player) clone() Player {
	c := *p
	c.Hole = slices.Clone(p.Hole)
	return c
}

// Action is one entry in a hand's action log. Amount is the number of chips
// the player moved into the pot with this action.
type Action struct {
	PlayerID string
	Player   string
	Kind     ActionKind
	Amount   int
	Street   Street
}

func (a Action) String() string {
	if a.Amount > 0 {
		return fmt.Sprintf("%s %s %d", a.Player, a.Kind, a.Amount)
	}
	return fmt.Sprintf("%s %s", a.Player, a.Kind)
}

// Blinds are the forced bets posted at the start of each hand.
type Blinds struct {
	Small int
	Big   int
}

// LegalAction is an entry in the acting player's action menu. Min and Max
// bound the chips added to the pot; fold and check carry zero bounds.
type LegalAction struct {
	Kind ActionKind
	Min  int
	Max  int
}

func (l LegalAction) String() string {
	switch {
	case l.Max == 0:
		return l.Kind.String()
	case l.Min == l.Max:
		return fmt.Sprintf("%s %d", l.Kind, l.Min)
	default:
		return fmt.Sprintf("%s %d-%d", l.Kind, l.Min, l.Max)
	}
}

// Clamp bounds amount to the action's range.
func (l LegalAction) Clamp(amount int) int {
	return max(l.Min, min(amount, l.Max))
}
