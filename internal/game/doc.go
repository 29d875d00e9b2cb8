// Package game implements the Texas Hold'em betting engine.
//
// A hand is a *GameState created by StartHand (or NextHand for the
// following hand at the same table) and advanced one action at a time with
// Apply. Apply never modifies the state it is given:
//
//	s, err := game.StartHand(players, game.Blinds{Small: 5, Big: 10}, game.WithRand(rng))
//	for !s.Complete {
//	    legal := game.LegalActions(s)
//	    s, err = game.Apply(s, legal[0].Kind, legal[0].Min)
//	}
//
// Bets and raises are expressed as the chips a player adds with the action.
// Out of range amounts are clamped to the legal range instead of rejected;
// every other illegal action returns ErrIllegalAction.
//
// The engine tracks a single pot. Players all-in for different amounts share
// it at showdown, and SidePots is left empty.
package game
