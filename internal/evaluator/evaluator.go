// Package evaluator ranks five-card poker hands and finds the best five-card
// hand out of up to seven cards.
package evaluator

import (
	"errors"
	"fmt"
	"slices"

	"github.com/lox/holdem-advisor/internal/deck"
)

var (
	// ErrCardCount is returned when a hand has the wrong number of cards.
	ErrCardCount = errors.New("wrong number of cards")
	// ErrInvalidCard is returned for duplicate or out-of-range cards.
	ErrInvalidCard = errors.New("invalid card")
)

// group is a run of cards sharing a rank.
type group struct {
	rank  deck.Rank
	count int
}

// EvaluateFive ranks exactly five cards.
func EvaluateFive(cards []deck.Card) (Evaluation, error) {
	if len(cards) != 5 {
		return Evaluation{}, fmt.Errorf("%w: need 5, got %d", ErrCardCount, len(cards))
	}
	if err := validate(cards); err != nil {
		return Evaluation{}, err
	}
	return evaluate([5]deck.Card(cards)), nil
}

// EvaluateBest returns the strongest five-card hand that can be made from the
// hole cards and community cards. At least five cards in total are required.
func EvaluateBest(hole, community []deck.Card) (Evaluation, error) {
	all := make([]deck.Card, 0, len(hole)+len(community))
	all = append(all, hole...)
	all = append(all, community...)

	n := len(all)
	if n < 5 || n > 7 {
		return Evaluation{}, fmt.Errorf("%w: need 5 to 7, got %d", ErrCardCount, n)
	}
	if err := validate(all); err != nil {
		return Evaluation{}, err
	}

	var best Evaluation
	found := false
	// Direct index enumeration of every 5-subset; at most C(7,5) = 21.
	for a := 0; a < n-4; a++ {
		for b := a + 1; b < n-3; b++ {
			for c := b + 1; c < n-2; c++ {
				for d := c + 1; d < n-1; d++ {
					for e := d + 1; e < n; e++ {
						ev := evaluate([5]deck.Card{all[a], all[b], all[c], all[d], all[e]})
						if !found || ev.Value > best.Value {
							best = ev
							found = true
						}
					}
				}
			}
		}
	}
	return best, nil
}

func validate(cards []deck.Card) error {
	seen := make(map[deck.Card]bool, len(cards))
	for _, c := range cards {
		if !c.Valid() {
			return fmt.Errorf("%w: %+v", ErrInvalidCard, c)
		}
		if seen[c] {
			return fmt.Errorf("%w: %s appears twice", ErrInvalidCard, c)
		}
		seen[c] = true
	}
	return nil
}

func evaluate(hand [5]deck.Card) Evaluation {
	cards := hand
	slices.SortFunc(cards[:], func(a, b deck.Card) int { return int(b.Rank) - int(a.Rank) })

	flush := true
	for _, c := range cards[1:] {
		if c.Suit != cards[0].Suit {
			flush = false
			break
		}
	}

	groups := groupRanks(cards)
	straightHigh := deck.Rank(0)
	if len(groups) == 5 {
		switch {
		case cards[0].Rank-cards[4].Rank == 4:
			straightHigh = cards[0].Rank
		case cards[0].Rank == deck.Ace && cards[1].Rank == deck.Five:
			// Wheel: the ace plays low.
			straightHigh = deck.Five
			cards = [5]deck.Card{cards[1], cards[2], cards[3], cards[4], cards[0]}
		}
	}

	switch {
	case flush && straightHigh == deck.Ace:
		return Evaluation{RoyalFlush, newValue(RoyalFlush), cards, "Royal Flush"}
	case flush && straightHigh > 0:
		return Evaluation{StraightFlush, newValue(StraightFlush, straightHigh), cards,
			fmt.Sprintf("Straight Flush, %s high", straightHigh)}
	}

	ordered := orderByGroups(cards, groups)
	switch {
	case groups[0].count == 4:
		return Evaluation{FourOfAKind, newValue(FourOfAKind, groups[0].rank, groups[1].rank), ordered,
			fmt.Sprintf("Four of a Kind, %s", groups[0].rank.Plural())}
	case groups[0].count == 3 && groups[1].count == 2:
		return Evaluation{FullHouse, newValue(FullHouse, groups[0].rank, groups[1].rank), ordered,
			fmt.Sprintf("Full House, %s over %s", groups[0].rank.Plural(), groups[1].rank.Plural())}
	case flush:
		return Evaluation{Flush, newValue(Flush, ranksOf(cards)...), cards,
			fmt.Sprintf("Flush, %s high", cards[0].Rank)}
	case straightHigh > 0:
		return Evaluation{Straight, newValue(Straight, straightHigh), cards,
			fmt.Sprintf("%s-high Straight", straightHigh)}
	case groups[0].count == 3:
		return Evaluation{ThreeOfAKind, newValue(ThreeOfAKind, groups[0].rank, groups[1].rank, groups[2].rank), ordered,
			fmt.Sprintf("Three of a Kind, %s", groups[0].rank.Plural())}
	case groups[0].count == 2 && groups[1].count == 2:
		return Evaluation{TwoPair, newValue(TwoPair, groups[0].rank, groups[1].rank, groups[2].rank), ordered,
			fmt.Sprintf("Two Pair, %s and %s", groups[0].rank.Plural(), groups[1].rank.Plural())}
	case groups[0].count == 2:
		return Evaluation{OnePair, newValue(OnePair, groups[0].rank, groups[1].rank, groups[2].rank, groups[3].rank), ordered,
			fmt.Sprintf("Pair of %s", groups[0].rank.Plural())}
	}
	return Evaluation{HighCard, newValue(HighCard, ranksOf(cards)...), cards,
		fmt.Sprintf("%s High", cards[0].Rank)}
}

// groupRanks collapses rank-sorted cards into groups ordered by size, then rank.
func groupRanks(sorted [5]deck.Card) []group {
	groups := make([]group, 0, 5)
	for _, c := range sorted {
		if n := len(groups); n > 0 && groups[n-1].rank == c.Rank {
			groups[n-1].count++
			continue
		}
		groups = append(groups, group{rank: c.Rank, count: 1})
	}
	slices.SortStableFunc(groups, func(a, b group) int {
		if a.count != b.count {
			return b.count - a.count
		}
		return int(b.rank) - int(a.rank)
	})
	return groups
}

func orderByGroups(sorted [5]deck.Card, groups []group) [5]deck.Card {
	var out [5]deck.Card
	i := 0
	for _, g := range groups {
		for _, c := range sorted {
			if c.Rank == g.rank {
				out[i] = c
				i++
			}
		}
	}
	return out
}

func ranksOf(cards [5]deck.Card) []deck.Rank {
	ranks := make([]deck.Rank, len(cards))
	for i, c := range cards {
		ranks[i] = c.Rank
	}
	return ranks
}
