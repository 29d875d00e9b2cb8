package main

import (
	"errors"
	"fmt"
	"slices"

	"github.com/lox/holdem-advisor/internal/advisor"
	"github.com/lox/holdem-advisor/internal/deck"
	"github.com/lox/holdem-advisor/internal/display"
	"github.com/lox/holdem-advisor/internal/game"
)

// AdviseCmd asks the advisor about a spot described on the command line.
type AdviseCmd struct {
	Hole     string `arg:"" help:"Your two hole cards, e.g. AhKd"`
	Board    string `short:"b" help:"Community cards, e.g. 'Qs Jd 2c'"`
	Pot      int    `default:"15" help:"Chips in the pot, bets in front of opponents included"`
	ToCall   int    `help:"Chips you need to add to call"`
	Stack    int    `default:"1000" help:"Your remaining chips"`
	Players  int    `default:"2" help:"Players still in the hand, including you"`
	BigBlind int    `default:"10" help:"Big blind, the minimum bet"`
	NoColor  bool   `help:"Disable colours"`
}

func (c *AdviseCmd) Run(_ *Globals) error {
	s, err := c.spot()
	if err != nil {
		return err
	}
	r := display.NewRenderer()
	if c.NoColor {
		r.Styles = display.PlainStyles()
	}
	fmt.Println(r.Table(game.NewView(s, humanID)))
	fmt.Println(r.Recommendation(advisor.Recommend(s)))
	return nil
}

// spot builds a state with the hero in seat 0 to act and every opponent
// having put in ToCall on this street.
func (c *AdviseCmd) spot() (*game.GameState, error) {
	hole, err := deck.ParseCards(c.Hole)
	if err != nil {
		return nil, err
	}
	if len(hole) != 2 {
		return nil, fmt.Errorf("need two hole cards, got %d", len(hole))
	}
	board, err := deck.ParseCards(c.Board)
	if err != nil {
		return nil, err
	}
	street, err := streetFor(len(board))
	if err != nil {
		return nil, err
	}
	if _, err := deck.NewFromCards(slices.Concat(hole, board)); err != nil {
		return nil, err
	}
	switch {
	case c.Players < 2 || c.Players > 10:
		return nil, fmt.Errorf("players must be between 2 and 10, got %d", c.Players)
	case c.Stack <= 0:
		return nil, errors.New("stack must be positive")
	case c.BigBlind <= 0:
		return nil, errors.New("big blind must be positive")
	case c.ToCall < 0 || c.Pot < c.ToCall:
		return nil, fmt.Errorf("pot of %d cannot hold a bet of %d", c.Pot, c.ToCall)
	}

	s := &game.GameState{
		HandID:        "advice",
		Community:     board,
		Pot:           c.Pot,
		Street:        street,
		CurrentPlayer: 0,
		DealerIndex:   c.Players - 1,
		Blinds:        game.Blinds{Small: c.BigBlind / 2, Big: c.BigBlind},
		MinBet:        c.BigBlind,
		LastRaise:     max(c.ToCall, c.BigBlind),
		Acted:         make([]bool, c.Players),
	}
	s.Players = append(s.Players, game.Player{
		ID: humanID, Name: "You", Type: game.Human, Chips: c.Stack, Hole: hole, Active: true,
	})
	for i := 1; i < c.Players; i++ {
		s.Players = append(s.Players, game.Player{
			ID:        fmt.Sprintf("villain-%d", i),
			Name:      fmt.Sprintf("Villain %d", i),
			Type:      game.Autonomous,
			Chips:     c.Stack,
			Bet:       c.ToCall,
			Committed: c.ToCall,
			Active:    true,
			Dealer:    i == c.Players-1,
		})
	}
	return s, nil
}

func streetFor(boardCards int) (game.Street, error) {
	switch boardCards {
	case 0:
		return game.PreFlop, nil
	case 3:
		return game.Flop, nil
	case 4:
		return game.Turn, nil
	case 5:
		return game.River, nil
	}
	return 0, fmt.Errorf("a board has 0, 3, 4 or 5 cards, got %d", boardCards)
}
