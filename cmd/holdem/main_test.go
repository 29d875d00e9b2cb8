package main

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/holdem-advisor/internal/advisor"
	"github.com/lox/holdem-advisor/internal/config"
	"github.com/lox/holdem-advisor/internal/game"
	"github.com/lox/holdem-advisor/internal/history"
)

func TestCLIParses(t *testing.T) {
	t.Parallel()
	var cli CLI
	parser, err := kong.New(&cli, kong.Vars{"version": "test"})
	require.NoError(t, err)

	ctx, err := parser.Parse([]string{"advise", "AhKd", "--board", "Qs Jd 2c", "--to-call", "20", "--pot", "60"})
	require.NoError(t, err)
	assert.Equal(t, "advise <hole>", ctx.Command())
	assert.Equal(t, "Qs Jd 2c", cli.Advise.Board)
	assert.Equal(t, 20, cli.Advise.ToCall)

	_, err = parser.Parse([]string{"odds", "AhAd", "KsKc", "-i", "1000", "-b", "2c3d4h"})
	require.NoError(t, err)
	assert.Equal(t, []string{"AhAd", "KsKc"}, cli.Odds.Hands)
	assert.Equal(t, 1000, cli.Odds.Iterations)

	_, err = parser.Parse([]string{"simulate", "--style", "wild"})
	assert.Error(t, err)
}

func TestAdviseSpot(t *testing.T) {
	t.Parallel()
	c := &AdviseCmd{Hole: "AhKd", Board: "Qs Jd 2c", Pot: 60, ToCall: 20, Stack: 500, Players: 3, BigBlind: 10}
	s, err := c.spot()
	require.NoError(t, err)

	assert.Equal(t, game.Flop, s.Street)
	assert.Equal(t, 3, s.ActiveCount())
	assert.Equal(t, 20, s.ToCall())
	assert.Equal(t, []game.LegalAction{
		{Kind: game.Fold},
		{Kind: game.Call, Min: 20, Max: 20},
		{Kind: game.Raise, Min: 40, Max: 500},
	}, game.LegalActions(s))

	rec := advisor.Recommend(s)
	assert.True(t, game.IsLegal(s, rec.Action))
}

func TestAdviseSpotUnopened(t *testing.T) {
	t.Parallel()
	s, err := (&AdviseCmd{Hole: "7c2d", Pot: 15, Stack: 1000, Players: 2, BigBlind: 10}).spot()
	require.NoError(t, err)
	assert.Equal(t, game.PreFlop, s.Street)
	assert.Equal(t, []game.LegalAction{
		{Kind: game.Fold},
		{Kind: game.Check},
		{Kind: game.Bet, Min: 10, Max: 1000},
	}, game.LegalActions(s))
}

func TestAdviseSpotErrors(t *testing.T) {
	t.Parallel()
	base := AdviseCmd{Hole: "AhKd", Pot: 15, Stack: 1000, Players: 2, BigBlind: 10}
	tests := map[string]func(c *AdviseCmd){
		"one hole card":  func(c *AdviseCmd) { c.Hole = "Ah" },
		"bad card":       func(c *AdviseCmd) { c.Hole = "AhKx" },
		"two card board": func(c *AdviseCmd) { c.Board = "QsJd" },
		"duplicate":      func(c *AdviseCmd) { c.Board = "AhQs2c" },
		"alone":          func(c *AdviseCmd) { c.Players = 1 },
		"no stack":       func(c *AdviseCmd) { c.Stack = 0 },
		"bet over pot":   func(c *AdviseCmd) { c.ToCall = 20 },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			c := base
			mutate(&c)
			_, err := c.spot()
			assert.Error(t, err)
		})
	}
}

func TestOpenHistory(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	w, err := openHistory(ctx, nil, "main", nil)
	require.NoError(t, err)
	assert.Equal(t, history.Nop{}, w)

	dir := t.TempDir()
	w, err = openHistory(ctx, &config.HistoryConfig{Directory: dir}, "main", nil)
	require.NoError(t, err)
	assert.IsType(t, &history.JSONWriter{}, w)
	require.NoError(t, w.Close())

	w, err = openHistory(ctx, &config.HistoryConfig{
		Directory: dir,
		PHH:       filepath.Join(dir, "phh"),
		SQLite:    filepath.Join(dir, "hands.db"),
	}, "main", nil)
	require.NoError(t, err)
	require.IsType(t, history.Multi{}, w)
	assert.Len(t, w.(history.Multi), 3)
	require.NoError(t, w.Close())
}

func TestGlobalsLoad(t *testing.T) {
	t.Parallel()
	g := &Globals{Config: filepath.Join(t.TempDir(), "missing.hcl"), LogLevel: "debug"}
	cfg, err := g.load()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)

	_, err = g.logger(cfg, io.Discard, "TEST")
	require.NoError(t, err)

	cfg.LogLevel = "loud"
	_, err = g.logger(cfg, io.Discard, "TEST")
	assert.Error(t, err)

	seed := int64(42)
	g.Seed = &seed
	a, got := g.rng()
	assert.Equal(t, seed, got)
	b, _ := g.rng()
	assert.Equal(t, a.Uint64(), b.Uint64())
}
