package deck

import (
	"errors"
	"fmt"

	"github.com/lox/holdem-advisor/internal/randutil"
)

// Size is the number of cards in a standard deck.
const Size = 52

// ErrDuplicateCard is returned when a stacked deck repeats a card.
var ErrDuplicateCard = errors.New("duplicate card")

// Deck is an ordered run of cards dealt from the top. A deck is owned by a
// single hand; callers that need an independent copy use Clone.
type Deck struct {
	cards []Card
	next  int
}

// New creates a standard 52-card deck shuffled with the given source.
// A nil source is a programming error and panics.
func New(src randutil.Source) *Deck {
	if src == nil {
		panic("deck: nil random source")
	}
	d := &Deck{cards: Ordered()}
	d.shuffle(src)
	return d
}

// Ordered returns all 52 cards in suit-major construction order.
func Ordered() []Card {
	cards := make([]Card, 0, Size)
	for _, suit := range Suits {
		for rank := Two; rank <= Ace; rank++ {
			cards = append(cards, NewCard(suit, rank))
		}
	}
	return cards
}

// NewFromCards builds a stacked deck whose top card is cards[0]. It is used
// for deterministic tests and hand replays.
func NewFromCards(cards []Card) (*Deck, error) {
	seen := make(map[Card]bool, len(cards))
	for _, c := range cards {
		if !c.Valid() {
			return nil, fmt.Errorf("invalid card %v", c)
		}
		if seen[c] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateCard, c)
		}
		seen[c] = true
	}
	return &Deck{cards: append([]Card(nil), cards...)}, nil
}

// shuffle is an in-place Fisher-Yates over the undealt cards.
func (d *Deck) shuffle(src randutil.Source) {
	for i := len(d.cards) - 1; i > d.next; i-- {
		j := d.next + src.IntN(i-d.next+1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Draw removes and returns the top card. Drawing from an empty deck means the
// caller dealt more than the table size allows, so it panics.
func (d *Deck) Draw() Card {
	if d.next >= len(d.cards) {
		panic("deck: draw from empty deck")
	}
	c := d.cards[d.next]
	d.next++
	return c
}

// DealN draws n cards from the top.
func (d *Deck) DealN(n int) []Card {
	cards := make([]Card, n)
	for i := range cards {
		cards[i] = d.Draw()
	}
	return cards
}

// Remaining returns the number of undealt cards.
func (d *Deck) Remaining() int {
	return len(d.cards) - d.next
}

// Cards returns a copy of the undealt cards, top first.
func (d *Deck) Cards() []Card {
	return append([]Card(nil), d.cards[d.next:]...)
}

// Clone returns an independent copy sharing no state with d.
func (d *Deck) Clone() *Deck {
	if d == nil {
		return nil
	}
	return &Deck{cards: append([]Card(nil), d.cards...), next: d.next}
}
