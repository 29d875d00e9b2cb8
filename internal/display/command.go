package display

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lox/holdem-advisor/internal/advisor"
	"github.com/lox/holdem-advisor/internal/game"
)

// CommandKind says what a typed line asks for.
type CommandKind int

const (
	// Act submits Decision.
	Act CommandKind = iota
	// Advice asks for the advisor's recommendation.
	Advice
	ShowTable
	Help
	Quit
)

// Command is a parsed input line.
type Command struct {
	Kind     CommandKind
	Decision advisor.Decision
}

// ErrUnknownCommand is returned for input that is not a command.
var ErrUnknownCommand = errors.New("unknown command, type 'help' for available commands")

// ParseCommand reads one line typed by the human player. Betting commands
// are checked against legal and amounts are the chips to add this action.
func ParseCommand(line string, legal []game.LegalAction) (Command, error) {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return Command{Kind: ShowTable}, nil
	}
	word, args := fields[0], fields[1:]

	switch word {
	case "quit", "q", "exit":
		return Command{Kind: Quit}, nil
	case "help", "?":
		return Command{Kind: Help}, nil
	case "advice", "a", "hint":
		return Command{Kind: Advice}, nil
	case "table", "t", "pot", "players":
		return Command{Kind: ShowTable}, nil
	case "allin", "all":
		return allIn(legal)
	}

	kind, err := game.ParseActionKind(word)
	if err != nil {
		return Command{}, fmt.Errorf("%w: %q", ErrUnknownCommand, word)
	}
	l, ok := find(legal, kind)
	if !ok {
		return Command{}, fmt.Errorf("cannot %s now, choose from %s", kind, kinds(legal))
	}

	d := advisor.Decision{Kind: kind, Amount: l.Min}
	if kind.Aggressive() {
		if len(args) == 0 {
			return Command{}, fmt.Errorf("specify an amount: '%s <%d-%d>'", kind, l.Min, l.Max)
		}
		amount, err := strconv.Atoi(strings.TrimPrefix(args[0], "$"))
		if err != nil {
			return Command{}, fmt.Errorf("invalid amount: %s", args[0])
		}
		if amount < l.Min || amount > l.Max {
			return Command{}, fmt.Errorf("%s must be between $%d and $%d", kind, l.Min, l.Max)
		}
		d.Amount = amount
	}
	return Command{Kind: Act, Decision: d}, nil
}

// allIn puts in the whole stack: the largest raise or bet, else a call.
func allIn(legal []game.LegalAction) (Command, error) {
	for _, kind := range []game.ActionKind{game.Raise, game.Bet, game.Call} {
		if l, ok := find(legal, kind); ok {
			return Command{Kind: Act, Decision: advisor.Decision{Kind: kind, Amount: l.Max}}, nil
		}
	}
	return Command{}, errors.New("no chips to go all-in with")
}

func find(legal []game.LegalAction, kind game.ActionKind) (game.LegalAction, bool) {
	for _, l := range legal {
		if l.Kind == kind {
			return l, true
		}
	}
	return game.LegalAction{}, false
}

func kinds(legal []game.LegalAction) string {
	names := make([]string, len(legal))
	for i, l := range legal {
		names[i] = l.Kind.String()
	}
	return strings.Join(names, ", ")
}

// HelpText lists the commands ParseCommand accepts.
const HelpText = `Actions:
  fold (f)            give up the hand
  check (k)           pass when there is nothing to call
  call (c)            match the current bet
  bet <n> (b)         open the betting with n chips
  raise <n> (r)       put in n more chips, call included
  allin               put in every chip
Information:
  advice (a)          show the advisor's recommendation
  table (t)           redraw the table
  help (?)            show this help
  quit (q)            leave the table`
