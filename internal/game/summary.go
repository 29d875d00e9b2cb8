package game

import (
	"github.com/lox/holdem-advisor/internal/deck"
	"github.com/lox/holdem-advisor/internal/evaluator"
)

// SeatSummary is a dealt-in player's identity and ending stack.
type SeatSummary struct {
	ID    string
	Name  string
	Type  PlayerType
	Start int // stack before the blinds
	Blind int // forced bet posted
	Chips int
	Won   int
	Hole  []deck.Card
	Hand  string // best hand description, set only when shown down
}

// Summary is the flattened record of a finished hand handed to storage.
type Summary struct {
	HandID      string
	Blinds      Blinds
	PlayerCount int
	Pot         int
	WinnerID    string // first winner in seat order
	Winners     []string
	Players     []SeatSummary
	Actions     []Action
	Rounds      []Round
	Board       []deck.Card
	Showdown    bool
	Category    evaluator.Category // winning category when shown down
}

// Summarize flattens a completed hand. It returns false while the hand is
// still in progress.
func Summarize(s *GameState) (Summary, bool) {
	if !s.Complete {
		return Summary{}, false
	}

	sum := Summary{
		HandID:   s.HandID,
		Blinds:   s.Blinds,
		Winners:  s.WinnerIDs(),
		Actions:  append([]Action(nil), s.Actions...),
		Rounds:   append([]Round(nil), s.Rounds...),
		Board:    append([]deck.Card(nil), s.Community...),
		Showdown: s.Street == Showdown,
	}
	if len(sum.Winners) > 0 {
		sum.WinnerID = sum.Winners[0]
	}

	for i := range s.Players {
		p := &s.Players[i]
		if !p.Active {
			continue
		}
		sum.PlayerCount++
		sum.Pot += s.Payouts[i]
		seat := SeatSummary{
			ID:    p.ID,
			Name:  p.Name,
			Type:  p.Type,
			Start: p.Chips - s.Payouts[i] + p.Committed,
			Chips: p.Chips,
			Won:   s.Payouts[i],
		}
		switch i {
		case s.SmallBlindIndex:
			seat.Blind = blindPosted(s, 0)
		case s.BigBlindIndex:
			seat.Blind = blindPosted(s, 1)
		}
		if ev, ok := s.Evaluations[p.ID]; ok {
			seat.Hole = append([]deck.Card(nil), p.Hole...)
			seat.Hand = ev.Description
		}
		sum.Players = append(sum.Players, seat)
	}
	if sum.Showdown && len(s.Winners) > 0 {
		sum.Category = s.Evaluations[s.Players[s.Winners[0]].ID].Category
	}
	return sum, true
}

// blindPosted reads the n-th blind post; the engine logs both posts before
// any other action.
func blindPosted(s *GameState, n int) int {
	if n < len(s.Actions) {
		return s.Actions[n].Amount
	}
	return 0
}

// PlayerView is the public face of a seat. Hole is nil unless the cards are
// revealed to the viewer.
type PlayerView struct {
	ID         string
	Name       string
	Type       PlayerType
	Chips      int
	Bet        int
	Committed  int
	Folded     bool
	AllIn      bool
	Active     bool
	Dealer     bool
	SmallBlind bool
	BigBlind   bool
	Hole       []deck.Card
	Revealed   bool
	ToAct      bool
	Winner     bool
	Hand       *evaluator.Evaluation
}

// View is everything a presentation layer needs to draw the table after a
// transition.
type View struct {
	HandID    string
	Street    Street
	Community []deck.Card
	Pot       int
	ToCall    int
	Players   []PlayerView
	Legal     []LegalAction
	Complete  bool
	Actions   []Action
}

// NewView builds the table as seen from viewerID. A human's own cards are
// always shown, and an empty viewerID shows every human seat. Every
// contesting hand is shown at showdown.
func NewView(s *GameState, viewerID string) View {
	v := View{
		HandID:    s.HandID,
		Street:    s.Street,
		Community: append([]deck.Card(nil), s.Community...),
		Pot:       s.Pot,
		ToCall:    s.ToCall(),
		Legal:     LegalActions(s),
		Complete:  s.Complete,
		Actions:   append([]Action(nil), s.Actions...),
	}
	if s.Complete {
		for _, w := range s.Payouts {
			v.Pot += w
		}
	}

	winners := make(map[int]bool, len(s.Winners))
	for _, w := range s.Winners {
		winners[w] = true
	}

	for i := range s.Players {
		p := &s.Players[i]
		pv := PlayerView{
			ID:         p.ID,
			Name:       p.Name,
			Type:       p.Type,
			Chips:      p.Chips,
			Bet:        p.Bet,
			Committed:  p.Committed,
			Folded:     p.Folded,
			AllIn:      p.AllIn,
			Active:     p.Active,
			Dealer:     p.Dealer,
			SmallBlind: p.SmallBlind,
			BigBlind:   p.BigBlind,
			ToAct:      !s.Complete && i == s.CurrentPlayer,
			Winner:     winners[i],
		}
		ev, shown := s.Evaluations[p.ID]
		pv.Revealed = shown || (p.Type == Human && (viewerID == "" || p.ID == viewerID))
		if pv.Revealed {
			pv.Hole = append([]deck.Card(nil), p.Hole...)
		}
		if shown {
			pv.Hand = &ev
		}
		v.Players = append(v.Players, pv)
	}
	return v
}
