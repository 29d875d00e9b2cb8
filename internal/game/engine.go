package game

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/lox/holdem-advisor/internal/deck"
	"github.com/lox/holdem-advisor/internal/evaluator"
	"github.com/lox/holdem-advisor/internal/handid"
	"github.com/lox/holdem-advisor/internal/randutil"
)

var (
	// ErrIllegalAction is returned when an action is not in the legal set.
	ErrIllegalAction = errors.New("illegal action")
	// ErrHandComplete is returned when acting on a finished hand.
	ErrHandComplete = errors.New("hand is complete")
	// ErrNotEnoughPlayers is returned when fewer than two players have chips.
	ErrNotEnoughPlayers = errors.New("need at least two players with chips")
	// ErrTableSize is returned when the deck cannot cover the table.
	ErrTableSize = errors.New("too many players for one deck")
	// ErrInvalidBlinds is returned for non-positive or inverted blinds.
	ErrInvalidBlinds = errors.New("invalid blinds")
)

type handConfig struct {
	rng        randutil.Source
	deck       *deck.Deck
	prevDealer int
	handID     string
	logger     *log.Logger
	now        func() time.Time
	bbOption   bool
}

// HandOption configures StartHand.
type HandOption func(*handConfig)

// WithRand shuffles the deck with src.
func WithRand(src randutil.Source) HandOption {
	return func(c *handConfig) { c.rng = src }
}

// WithDeck deals from a prepared deck instead of shuffling a new one.
func WithDeck(d *deck.Deck) HandOption {
	return func(c *handConfig) { c.deck = d }
}

// WithPreviousDealer sets the seat that held the button last hand. The new
// dealer is the next seat with chips after it.
func WithPreviousDealer(idx int) HandOption {
	return func(c *handConfig) { c.prevDealer = idx }
}

// WithHandID sets the hand's identifier.
func WithHandID(id string) HandOption {
	return func(c *handConfig) { c.handID = id }
}

// WithLogger logs state transitions to logger.
func WithLogger(logger *log.Logger) HandOption {
	return func(c *handConfig) { c.logger = logger }
}

// WithBigBlindOption keeps pre-flop betting open for the big blind when
// everyone else only calls, so the big blind may still raise. Without it the
// round closes as soon as every player has acted and the bets are level.
func WithBigBlindOption() HandOption {
	return func(c *handConfig) { c.bbOption = true }
}

// StartHand deals a new hand. Stacks and identities are taken from players;
// every other player field is reset. The button moves to the next seat with
// chips after the previous dealer, the blinds are posted and the first
// player after the big blind is to act.
func StartHand(players []Player, blinds Blinds, opts ...HandOption) (*GameState, error) {
	cfg := handConfig{prevDealer: -1, now: time.Now}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = log.New(io.Discard)
	}

	if blinds.Small < 0 || blinds.Big <= 0 || blinds.Big < blinds.Small {
		return nil, fmt.Errorf("%w: small %d, big %d", ErrInvalidBlinds, blinds.Small, blinds.Big)
	}

	s := &GameState{
		Players:       make([]Player, len(players)),
		Blinds:        blinds,
		MinBet:        blinds.Big,
		LastRaise:     blinds.Big,
		CurrentPlayer: -1,
		Acted:         make([]bool, len(players)),
		Payouts:       make([]int, len(players)),
		SidePots:      []int{},
		Evaluations:   map[string]evaluator.Evaluation{},
		logger:        cfg.logger,
	}

	active := 0
	for i, p := range players {
		s.Players[i] = Player{
			ID:     p.ID,
			Name:   p.Name,
			Type:   p.Type,
			Chips:  p.Chips,
			Active: p.Chips > 0,
		}
		if p.Chips > 0 {
			active++
		}
	}
	if active < 2 {
		return nil, ErrNotEnoughPlayers
	}
	if need := 2*active + 5; need > deck.Size {
		return nil, fmt.Errorf("%w: %d players need %d cards", ErrTableSize, active, need)
	}

	switch {
	case cfg.deck != nil:
		if cfg.deck.Remaining() < 2*active+5 {
			return nil, fmt.Errorf("%w: deck has %d cards", ErrTableSize, cfg.deck.Remaining())
		}
		s.Deck = cfg.deck.Clone()
	case cfg.rng != nil:
		s.Deck = deck.New(cfg.rng)
	default:
		rng, _ := randutil.NewFromTime()
		s.Deck = deck.New(rng)
	}

	s.HandID = cfg.handID
	if s.HandID == "" {
		s.HandID = handid.New(cfg.now(), nil)
	}

	s.rotate(cfg.prevDealer)
	s.dealHoleCards()
	s.postBlinds()

	s.logger.Debug("hand started", "hand", s.HandID, "dealer", s.Players[s.DealerIndex].Name,
		"small_blind", s.Players[s.SmallBlindIndex].Name, "big_blind", s.Players[s.BigBlindIndex].Name)

	s.BigBlindOption = cfg.bbOption && s.Players[s.BigBlindIndex].CanAct()
	s.CurrentPlayer = s.BigBlindIndex
	s.settle()
	return s, nil
}

// NextHand starts the hand after prev at the same table, carrying stacks and
// identities forward and moving the button on.
func NextHand(prev *GameState, opts ...HandOption) (*GameState, error) {
	players := make([]Player, len(prev.Players))
	for i, p := range prev.Players {
		players[i] = Player{ID: p.ID, Name: p.Name, Type: p.Type, Chips: p.Chips}
	}
	base := []HandOption{WithPreviousDealer(prev.DealerIndex), WithLogger(prev.logger)}
	return StartHand(players, prev.Blinds, append(base, opts...)...)
}

func (s *GameState) rotate(prevDealer int) {
	s.DealerIndex = s.nextActive(prevDealer)
	s.SmallBlindIndex = s.nextActive(s.DealerIndex)
	s.BigBlindIndex = s.nextActive(s.SmallBlindIndex)

	s.Players[s.DealerIndex].Dealer = true
	s.Players[s.SmallBlindIndex].SmallBlind = true
	s.Players[s.BigBlindIndex].BigBlind = true
}

func (s *GameState) dealHoleCards() {
	for round := 0; round < 2; round++ {
		for i := range s.Players {
			if s.Players[i].Active {
				s.Players[i].Hole = append(s.Players[i].Hole, s.Deck.Draw())
			}
		}
	}
}

func (s *GameState) postBlinds() {
	for _, blind := range []struct {
		seat   int
		amount int
	}{
		{s.SmallBlindIndex, s.Blinds.Small},
		{s.BigBlindIndex, s.Blinds.Big},
	} {
		p := &s.Players[blind.seat]
		posted := s.commit(p, blind.amount)
		s.Actions = append(s.Actions, Action{PlayerID: p.ID, Player: p.Name, Kind: Bet, Amount: posted, Street: PreFlop})
		s.Acted[blind.seat] = true
	}
}

// commit moves up to amount chips from p's stack into the pot and returns the
// number moved.
func (s *GameState) commit(p *Player, amount int) int {
	amount = min(amount, p.Chips)
	p.Chips -= amount
	p.Bet += amount
	p.Committed += amount
	s.Pot += amount
	if p.Chips == 0 {
		p.AllIn = true
	}
	return amount
}

// LegalActions returns the action menu for the player to act. It is empty
// when the hand is over or nobody can act.
func LegalActions(s *GameState) []LegalAction {
	p := s.Actor()
	if p == nil || !p.CanAct() {
		return nil
	}

	highest := s.HighestBet()
	deficit := highest - p.Bet
	actions := []LegalAction{{Kind: Fold}}

	if deficit == 0 {
		actions = append(actions, LegalAction{Kind: Check})
	}
	if deficit > 0 && p.Chips > 0 {
		amount := min(deficit, p.Chips)
		actions = append(actions, LegalAction{Kind: Call, Min: amount, Max: amount})
	}
	if highest == 0 && p.Chips > 0 {
		actions = append(actions, LegalAction{Kind: Bet, Min: min(s.MinBet, p.Chips), Max: p.Chips})
	}
	if highest > 0 && p.Chips > deficit {
		if minimum := deficit + s.LastRaise; p.Chips >= minimum {
			actions = append(actions, LegalAction{Kind: Raise, Min: minimum, Max: p.Chips})
		}
	}
	return actions
}

// IsLegal reports whether kind is in the actor's legal set.
func IsLegal(s *GameState, kind ActionKind) bool {
	_, ok := findLegal(LegalActions(s), kind)
	return ok
}

func findLegal(actions []LegalAction, kind ActionKind) (LegalAction, bool) {
	for _, a := range actions {
		if a.Kind == kind {
			return a, true
		}
	}
	return LegalAction{}, false
}

// Apply performs kind for the player to act and returns the resulting state.
// amount is the number of chips to add and only matters for bet and raise,
// where it is clamped into the legal range. s is never modified.
func Apply(s *GameState, kind ActionKind, amount int) (*GameState, error) {
	if s.Complete {
		return nil, ErrHandComplete
	}
	if s.Actor() == nil {
		panic("game: apply with no player to act")
	}

	legal, ok := findLegal(LegalActions(s), kind)
	if !ok {
		p := s.Actor()
		return nil, fmt.Errorf("%w: %s cannot %s (bet %d, to call %d, stack %d)",
			ErrIllegalAction, p.Name, kind, p.Bet, s.HighestBet()-p.Bet, p.Chips)
	}

	next := s.Clone()
	seat := next.CurrentPlayer
	p := &next.Players[seat]
	highest := next.HighestBet()

	moved := 0
	switch kind {
	case Fold:
		p.Folded = true
	case Check:
	case Call:
		moved = next.commit(p, legal.Min)
	case Bet, Raise:
		clamped := legal.Clamp(amount)
		if clamped != amount {
			next.logger.Warn("amount clamped", "player", p.Name, "action", kind,
				"requested", amount, "amount", clamped, "min", legal.Min, "max", legal.Max)
		}
		moved = next.commit(p, clamped)
		if kind == Bet {
			next.LastRaise = moved
		} else if inc := p.Bet - highest; inc > 0 {
			next.LastRaise = inc
		}
	}

	next.Actions = append(next.Actions, Action{PlayerID: p.ID, Player: p.Name, Kind: kind, Amount: moved, Street: next.Street})
	next.Acted[seat] = true
	if seat == next.BigBlindIndex {
		next.BigBlindOption = false
	}
	next.logger.Debug("action", "player", p.Name, "action", kind, "amount", moved, "pot", next.Pot, "street", next.Street)

	if next.InHandCount() == 1 {
		next.awardUncontested()
		return next, nil
	}

	next.CurrentPlayer = seat
	next.settle()
	return next, nil
}

// roundDone reports whether the current street's betting has closed.
func (s *GameState) roundDone() bool {
	highest := 0
	for i := range s.Players {
		if s.Players[i].InHand() {
			highest = max(highest, s.Players[i].Bet)
		}
	}

	eligible := 0
	for i := range s.Players {
		p := &s.Players[i]
		if !p.CanAct() {
			continue
		}
		eligible++
		if p.Bet != highest {
			return false
		}
	}
	if eligible <= 1 {
		// Nobody left to bet against, and the one player left has matched.
		return true
	}
	if s.Street == PreFlop && s.BigBlindOption && s.Players[s.BigBlindIndex].CanAct() {
		return false
	}
	for i := range s.Players {
		if s.Players[i].CanAct() && !s.Acted[i] {
			return false
		}
	}
	return true
}

// settle closes the street if betting is done, otherwise passes the action on
// from the current seat.
func (s *GameState) settle() {
	s.RoundComplete = s.roundDone()
	if s.RoundComplete {
		s.advanceStreet()
		return
	}
	s.CurrentPlayer = s.nextEligible(s.CurrentPlayer)
	if s.CurrentPlayer < 0 {
		panic("game: open betting round with no eligible player")
	}
}

// advanceStreet deals the next street. When fewer than two players can still
// bet, the remaining board is dealt straight through to showdown.
func (s *GameState) advanceStreet() {
	for {
		s.Rounds = append(s.Rounds, Round{Street: s.Street, Board: append([]deck.Card(nil), s.Community...), Pot: s.Pot})
		for i := range s.Players {
			s.Players[i].Bet = 0
			s.Acted[i] = false
		}
		s.LastRaise = s.Blinds.Big
		s.RoundComplete = false
		s.BigBlindOption = false

		switch s.Street {
		case PreFlop:
			s.Street = Flop
			s.Community = append(s.Community, s.Deck.DealN(3)...)
		case Flop:
			s.Street = Turn
			s.Community = append(s.Community, s.Deck.Draw())
		case Turn:
			s.Street = River
			s.Community = append(s.Community, s.Deck.Draw())
		case River:
			s.showdown()
			return
		}
		s.logger.Debug("street", "street", s.Street, "board", s.Community, "pot", s.Pot)

		s.CurrentPlayer = s.nextEligible(s.DealerIndex)
		if s.ActiveCount() >= 2 {
			return
		}
	}
}

// showdown evaluates every remaining hand and splits the pot between the
// best. Odd chips go to the first winner in seat order.
func (s *GameState) showdown() {
	s.Street = Showdown
	s.CurrentPlayer = -1

	var best evaluator.Value
	var winners []int
	for i := range s.Players {
		p := &s.Players[i]
		if !p.InHand() {
			continue
		}
		ev, err := evaluator.EvaluateBest(p.Hole, s.Community)
		if err != nil {
			panic(fmt.Sprintf("game: evaluating %s at showdown: %v", p.Name, err))
		}
		s.Evaluations[p.ID] = ev
		switch {
		case len(winners) == 0 || ev.Value > best:
			best = ev.Value
			winners = []int{i}
		case ev.Value == best:
			winners = append(winners, i)
		}
	}

	share := s.Pot / len(winners)
	for _, w := range winners {
		s.award(w, share)
	}
	s.award(winners[0], s.Pot%len(winners))

	s.Winners = winners
	s.Pot = 0
	s.Complete = true
	s.logger.Debug("showdown", "winners", s.WinnerIDs(), "hand", s.Evaluations[s.Players[winners[0]].ID].Description)
}

func (s *GameState) awardUncontested() {
	for i := range s.Players {
		if s.Players[i].InHand() {
			s.Rounds = append(s.Rounds, Round{Street: s.Street, Board: append([]deck.Card(nil), s.Community...), Pot: s.Pot})
			s.award(i, s.Pot)
			s.Winners = []int{i}
			s.Pot = 0
			s.Complete = true
			s.CurrentPlayer = -1
			s.logger.Debug("uncontested", "winner", s.Players[i].Name, "won", s.Payouts[i])
			return
		}
	}
}

func (s *GameState) award(seat, chips int) {
	s.Players[seat].Chips += chips
	s.Payouts[seat] += chips
}
