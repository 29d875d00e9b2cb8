package deck

import (
	"fmt"
	"strings"
)

// Suit represents a card suit
type Suit int

const (
	Hearts Suit = iota
	Diamonds
	Clubs
	Spades
)

// Suits lists every suit in deck construction order.
var Suits = [...]Suit{Hearts, Diamonds, Clubs, Spades}

// String returns the suit symbol
func (s Suit) String() string {
	switch s {
	case Hearts:
		return "♥"
	case Diamonds:
		return "♦"
	case Clubs:
		return "♣"
	case Spades:
		return "♠"
	default:
		return "?"
	}
}

// Name returns the lower-case suit name used in logs and persisted rows.
func (s Suit) Name() string {
	switch s {
	case Hearts:
		return "hearts"
	case Diamonds:
		return "diamonds"
	case Clubs:
		return "clubs"
	case Spades:
		return "spades"
	default:
		return "unknown"
	}
}

// Letter returns the single-letter suit code (h, d, c, s).
func (s Suit) Letter() byte {
	return "hdcs?"[min(int(s), 4)]
}

// IsRed returns true if the suit is red (Hearts or Diamonds)
func (s Suit) IsRed() bool {
	return s == Hearts || s == Diamonds
}

// Rank represents a card rank. Values match the pip count, with the ace high.
type Rank int

const (
	Two Rank = iota + 2
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

// String returns the rank as printed on the card
func (r Rank) String() string {
	switch {
	case r >= Two && r <= Nine:
		return string(rune('0' + int(r)))
	case r == Ten:
		return "10"
	case r == Jack:
		return "J"
	case r == Queen:
		return "Q"
	case r == King:
		return "K"
	case r == Ace:
		return "A"
	default:
		return "?"
	}
}

// Plural returns the rank name used in hand descriptions ("Aces", "10s").
func (r Rank) Plural() string {
	switch r {
	case Ace:
		return "Aces"
	case King:
		return "Kings"
	case Queen:
		return "Queens"
	case Jack:
		return "Jacks"
	case Six:
		return "Sixes"
	default:
		return r.String() + "s"
	}
}

// Card is an immutable playing card. Whether it is face up is table
// presentation state and lives with the game, not the card.
type Card struct {
	Suit Suit
	Rank Rank
}

// NewCard creates a new card
func NewCard(suit Suit, rank Rank) Card {
	return Card{Suit: suit, Rank: rank}
}

// String returns the string representation of a card (e.g., "A♠")
func (c Card) String() string {
	return c.Rank.String() + c.Suit.String()
}

// Code returns the ASCII form of the card ("As", "Th") accepted by ParseCard.
func (c Card) Code() string {
	r := c.Rank.String()
	if c.Rank == Ten {
		r = "T"
	}
	return r + string(c.Suit.Letter())
}

// IsRed returns true if the card is red
func (c Card) IsRed() bool {
	return c.Suit.IsRed()
}

// Valid reports whether the card is one of the 52 standard cards.
func (c Card) Valid() bool {
	return c.Suit >= Hearts && c.Suit <= Spades && c.Rank >= Two && c.Rank <= Ace
}

// ParseCard parses a single card such as "As", "Td" or "10h".
func ParseCard(s string) (Card, error) {
	cards, err := ParseCards(s)
	if err != nil {
		return Card{}, err
	}
	if len(cards) != 1 {
		return Card{}, fmt.Errorf("expected one card, got %d in %q", len(cards), s)
	}
	return cards[0], nil
}

// ParseCards parses a run of cards. Cards may be concatenated ("AsKd") or
// separated by spaces or commas ("As, 10d").
func ParseCards(s string) ([]Card, error) {
	s = strings.NewReplacer(" ", "", ",", "").Replace(s)
	cards := []Card{}
	for i := 0; i < len(s); {
		var rank Rank
		if strings.HasPrefix(s[i:], "10") {
			rank = Ten
			i += 2
		} else {
			r, err := parseRank(s[i])
			if err != nil {
				return nil, fmt.Errorf("invalid rank '%c' at position %d: %w", s[i], i, err)
			}
			rank = r
			i++
		}
		if i >= len(s) {
			return nil, fmt.Errorf("incomplete card at position %d", i)
		}
		suit, err := parseSuit(s[i])
		if err != nil {
			return nil, fmt.Errorf("invalid suit '%c' at position %d: %w", s[i], i, err)
		}
		i++
		cards = append(cards, NewCard(suit, rank))
	}
	return cards, nil
}

// MustParseCards parses cards and panics on error (for tests)
func MustParseCards(s string) []Card {
	cards, err := ParseCards(s)
	if err != nil {
		panic(fmt.Sprintf("failed to parse cards '%s': %v", s, err))
	}
	return cards
}

func parseRank(c byte) (Rank, error) {
	switch c {
	case 'A', 'a':
		return Ace, nil
	case 'K', 'k':
		return King, nil
	case 'Q', 'q':
		return Queen, nil
	case 'J', 'j':
		return Jack, nil
	case 'T', 't':
		return Ten, nil
	}
	if c >= '2' && c <= '9' {
		return Rank(c - '0'), nil
	}
	return 0, fmt.Errorf("unknown rank")
}

func parseSuit(c byte) (Suit, error) {
	switch c {
	case 'h', 'H':
		return Hearts, nil
	case 'd', 'D':
		return Diamonds, nil
	case 'c', 'C':
		return Clubs, nil
	case 's', 'S':
		return Spades, nil
	}
	return 0, fmt.Errorf("unknown suit")
}
