package evaluator

import (
	"fmt"
	"strings"

	"github.com/lox/holdem-advisor/internal/deck"
)

// Category is the class of a five-card hand, ordered weakest first.
type Category uint8

const (
	HighCard Category = iota
	OnePair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
	RoyalFlush
)

// String returns the string representation of a hand category
func (c Category) String() string {
	switch c {
	case HighCard:
		return "High Card"
	case OnePair:
		return "Pair"
	case TwoPair:
		return "Two Pair"
	case ThreeOfAKind:
		return "Three of a Kind"
	case Straight:
		return "Straight"
	case Flush:
		return "Flush"
	case FullHouse:
		return "Full House"
	case FourOfAKind:
		return "Four of a Kind"
	case StraightFlush:
		return "Straight Flush"
	case RoyalFlush:
		return "Royal Flush"
	default:
		return "Unknown"
	}
}

// Slug returns the kebab-case name stored with persisted hands.
func (c Category) Slug() string {
	return strings.ReplaceAll(strings.ToLower(c.String()), " ", "-")
}

// Value is a single comparison key for a five-card hand. The category sits
// above bit 20 and the deciding ranks follow as 4-bit nibbles, most
// significant first, so a greater Value always wins and equal Values tie.
type Value uint32

const categoryShift = 20

// Category extracts the hand category from a comparison value.
func (v Value) Category() Category {
	return Category(v >> categoryShift)
}

func newValue(c Category, ranks ...deck.Rank) Value {
	v := Value(c) << categoryShift
	shift := categoryShift
	for _, r := range ranks {
		shift -= 4
		v |= Value(r) << shift
	}
	return v
}

// Evaluation is the result of ranking a five-card hand.
type Evaluation struct {
	Category    Category
	Value       Value
	Cards       [5]deck.Card // ordered by importance: groups first, then kickers
	Description string
}

// String returns a string representation of the hand
func (e Evaluation) String() string {
	cardStrs := make([]string, len(e.Cards))
	for i, card := range e.Cards {
		cardStrs[i] = card.String()
	}
	return fmt.Sprintf("%s [%s]", e.Description, strings.Join(cardStrs, " "))
}

// Compare compares two evaluations and returns:
// -1 if a is weaker than b
//
//	0 if a ties b
//	1 if a is stronger than b
func Compare(a, b Evaluation) int {
	switch {
	case a.Value > b.Value:
		return 1
	case a.Value < b.Value:
		return -1
	}
	return 0
}

// Beats returns true if e is strictly stronger than other
func (e Evaluation) Beats(other Evaluation) bool {
	return Compare(e, other) > 0
}
