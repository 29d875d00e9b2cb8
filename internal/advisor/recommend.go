package advisor

import (
	"fmt"

	"github.com/lox/holdem-advisor/internal/deck"
	"github.com/lox/holdem-advisor/internal/game"
)

// Risk is how exposed a line leaves the player.
type Risk int

const (
	LowRisk Risk = iota
	MediumRisk
	HighRisk
)

func (r Risk) String() string {
	return [...]string{"low", "medium", "high"}[r]
}

// Alternative is another line worth considering, with its own EV.
type Alternative struct {
	Kind          game.ActionKind
	Amount        int
	ExpectedValue float64
}

// Recommendation is the advisor's suggested action with its supporting
// figures.
type Recommendation struct {
	Action        game.ActionKind
	Amount        int
	Confidence    float64
	Reasoning     string
	ExpectedValue float64
	Risk          Risk
	Alternatives  []Alternative
	Strength      float64
	Strategy      Strategy
}

// tier is one band of the strength ladder. Each band tries its preferred
// actions in order.
type tier struct {
	above  float64
	prefer []game.ActionKind
}

var (
	preFlopTiers = []tier{
		{0.8, []game.ActionKind{game.Raise, game.Bet, game.Call, game.Check}},
		{0.6, []game.ActionKind{game.Call, game.Bet, game.Check}},
	}
	postFlopTiers = []tier{
		{0.7, []game.ActionKind{game.Raise, game.Bet, game.Call, game.Check}},
		{0.5, []game.ActionKind{game.Bet, game.Call, game.Check}},
	}
)

// Recommend picks an action for the player to act from strength thresholds
// that differ before and after the flop, then attaches EV, risk, reasoning
// and up to two alternatives. With nobody to act it recommends a fold with
// zero confidence.
func Recommend(s *game.GameState) Recommendation {
	p := s.Actor()
	candidates := CandidateActions(s)
	if p == nil || len(candidates) == 0 {
		return Recommendation{Action: game.Fold, Reasoning: "There is no decision to make."}
	}

	strength := HandStrength(p.Hole, s.Community)
	first := func(kind game.ActionKind) (Candidate, bool) {
		for _, c := range candidates {
			if c.Kind == kind {
				return c, true
			}
		}
		return Candidate{}, false
	}

	tiers, medium, callFraction := postFlopTiers, 0.3, 3
	if s.Street == game.PreFlop {
		tiers, medium, callFraction = preFlopTiers, 0.4, 4
	}

	choice := Candidate{Kind: game.Fold}
	chosen := false
	for _, t := range tiers {
		if strength <= t.above {
			continue
		}
		for _, kind := range t.prefer {
			if c, ok := first(kind); ok {
				choice, chosen = c, true
				break
			}
		}
		// The last preference is check; if even that is missing the
		// player is facing a bet they cannot raise, so fall through.
		break
	}
	if !chosen {
		if c, ok := first(game.Check); ok {
			choice = c
		} else if c, ok := first(game.Call); ok && strength > medium && c.Amount*callFraction < s.Pot {
			choice = c
		}
	}

	rec := Recommendation{
		Action:        choice.Kind,
		Amount:        choice.Amount,
		Confidence:    0.7 + strength*0.3,
		ExpectedValue: ExpectedValue(s, choice.Kind, choice.Amount, strength),
		Risk:          riskOf(choice, strength, s.Pot),
		Strength:      strength,
		Strategy:      RegretMatchedStrategy(PayoffMatrix(s)),
	}
	if s.Street == game.PreFlop {
		rec.Reasoning = preFlopReasoning(p.Hole, choice.Kind, strength)
	} else {
		rec.Reasoning = postFlopReasoning(s.Street, choice.Kind, strength)
	}

	alt := func(c Candidate) {
		rec.Alternatives = append(rec.Alternatives, Alternative{
			Kind: c.Kind, Amount: c.Amount, ExpectedValue: ExpectedValue(s, c.Kind, c.Amount, strength),
		})
	}
	if choice.Kind == game.Fold {
		if c, ok := first(game.Check); ok {
			alt(c)
		} else if c, ok := first(game.Call); ok {
			alt(c)
		}
	}
	if (choice.Kind == game.Call || choice.Kind.Aggressive()) && strength < 0.5 {
		alt(Candidate{Kind: game.Fold})
	}
	switch {
	case choice.Kind == game.Check && strength > 0.4:
		if c, ok := first(game.Bet); ok {
			alt(c)
		}
	case choice.Kind == game.Call && strength > 0.6:
		if c, ok := first(game.Raise); ok {
			alt(c)
		}
	}
	return rec
}

func riskOf(c Candidate, strength float64, pot int) Risk {
	pick := func(cond bool, yes, no Risk) Risk {
		if cond {
			return yes
		}
		return no
	}
	switch c.Kind {
	case game.Fold:
		return pick(strength > 0.4, MediumRisk, LowRisk)
	case game.Check:
		return pick(strength > 0.5, LowRisk, MediumRisk)
	case game.Call:
		if strength > 0.6 {
			return LowRisk
		}
		return pick(strength > 0.3, MediumRisk, HighRisk)
	}
	if c.Amount*2 > pot {
		return pick(strength > 0.7, MediumRisk, HighRisk)
	}
	return pick(strength > 0.5, MediumRisk, HighRisk)
}

func describeHole(hole []deck.Card) string {
	a, b := hole[0], hole[1]
	if b.Rank > a.Rank {
		a, b = b, a
	}
	ranks := a.Rank.String() + b.Rank.String()
	suited := a.Suit == b.Suit
	connected := a.Rank-b.Rank <= 2

	var desc string
	switch {
	case a.Rank == b.Rank:
		desc = "a pair of " + a.Rank.Plural()
	case connected && suited:
		desc = ranks + " suited connected cards"
	case connected:
		desc = ranks + " connected cards"
	case suited:
		desc = ranks + " suited"
	default:
		desc = ranks
	}
	if pct, ok := deck.StartingHandPercentile(a, b); ok {
		desc += fmt.Sprintf(" (%s, ahead of %.0f%% of starting hands)", deck.StartingHandKey(a, b), pct*100)
	}
	return desc
}

func preFlopReasoning(hole []deck.Card, kind game.ActionKind, strength float64) string {
	hand := "You have " + describeHole(hole) + ". "
	passive := kind == game.Check || kind == game.Call

	switch {
	case strength > 0.7:
		switch {
		case kind == game.Fold:
			return hand + "This is a strong hand, but folding may be right given the table dynamics."
		case passive:
			return hand + "This is a strong hand that warrants at least calling to see more cards."
		}
		return hand + "This is a strong hand that justifies aggressive play."
	case strength > 0.4:
		switch {
		case kind == game.Fold:
			return hand + "This is a decent hand, but folding may be the right move given the current betting."
		case passive:
			return hand + "This is a decent hand worth seeing more cards with minimal investment."
		}
		return hand + "This hand has potential and may benefit from aggressive play to build the pot."
	}
	switch {
	case kind == game.Fold:
		return hand + "This hand is relatively weak and folding is often the correct play."
	case passive:
		return hand + "This hand is marginal but may be worth continuing with minimal investment."
	}
	return hand + "While this hand is weak, a well-timed bet might win the pot immediately."
}

func postFlopReasoning(street game.Street, kind game.ActionKind, strength float64) string {
	var class string
	switch {
	case strength > 0.8:
		class = "a very strong hand"
	case strength > 0.6:
		class = "a strong hand"
	case strength > 0.4:
		class = "a decent hand"
	case strength > 0.2:
		class = "a marginal hand"
	default:
		class = "a weak hand"
	}
	hand := fmt.Sprintf("You have %s on the %s. ", class, lowerStreet(street))

	switch kind {
	case game.Fold:
		return hand + "The risk of continuing doesn't justify the potential reward."
	case game.Check:
		return hand + "Checking lets you see more cards without additional investment."
	case game.Call:
		return hand + "Calling keeps you in the hand at minimal cost to see if your hand improves."
	}
	switch {
	case strength > 0.6:
		return hand + "Betting or raising builds the pot with your strong hand."
	case strength > 0.3:
		return hand + "A bet might win the pot now or earn a free card on the next street."
	}
	return hand + "This is a bluff that can take the pot if your opponents hold little."
}

func lowerStreet(s game.Street) string {
	switch s {
	case game.Flop:
		return "flop"
	case game.Turn:
		return "turn"
	default:
		return "river"
	}
}
