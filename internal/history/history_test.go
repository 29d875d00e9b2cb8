package history

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/holdem-advisor/internal/game"
	"github.com/lox/holdem-advisor/internal/handid"
	"github.com/lox/holdem-advisor/internal/phh"
	"github.com/lox/holdem-advisor/internal/randutil"
)

var handTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func players() []game.Player {
	return []game.Player{
		{ID: "p0", Name: "Alice", Type: game.Human, Chips: 1000},
		{ID: "p1", Name: "Bob", Type: game.Autonomous, Chips: 1000},
	}
}

func start(t *testing.T, seed int64) *game.GameState {
	t.Helper()
	s, err := game.StartHand(players(), game.Blinds{Small: 5, Big: 10},
		game.WithRand(randutil.New(seed)),
		game.WithHandID(handid.New(handTime, randutil.New(seed))))
	require.NoError(t, err)
	return s
}

// checkDown plays passively to showdown.
func checkDown(t *testing.T, s *game.GameState) *game.GameState {
	t.Helper()
	var err error
	for !s.Complete {
		kind := game.Call
		if game.IsLegal(s, game.Check) {
			kind = game.Check
		}
		s, err = game.Apply(s, kind, 0)
		require.NoError(t, err)
	}
	return s
}

func summarize(t *testing.T, s *game.GameState) game.Summary {
	t.Helper()
	sum, ok := game.Summarize(s)
	require.True(t, ok)
	return sum
}

func TestNewRecord(t *testing.T) {
	t.Parallel()
	s := checkDown(t, start(t, 1))
	rec := NewRecord(summarize(t, s))

	assert.Equal(t, s.HandID, rec.HandID)
	assert.Equal(t, handTime, rec.StartedAt)
	assert.Equal(t, 2, rec.PlayerCount)
	assert.Equal(t, 20, rec.Pot)
	assert.True(t, rec.Showdown)
	assert.NotEmpty(t, rec.Category)
	assert.Len(t, rec.Board, 5)

	streets := make([]string, 0, len(rec.Rounds))
	for _, r := range rec.Rounds {
		streets = append(streets, r.Street)
	}
	assert.Equal(t, []string{"PRE_FLOP", "FLOP", "TURN", "RIVER"}, streets)
	assert.Len(t, rec.Rounds[1].Board, 3)

	require.Len(t, rec.Actions, 9)
	assert.Equal(t, ActionRecord{PlayerID: s.Players[s.SmallBlindIndex].ID, Street: "PRE_FLOP", Action: "bet", Amount: 5}, rec.Actions[0])

	require.Len(t, rec.Players, 2)
	assert.True(t, rec.Players[0].Human)
	for _, p := range rec.Players {
		assert.Len(t, p.Hole, 2, "shown down cards are recorded")
		assert.NotEmpty(t, p.Hand)
	}
}

func TestNewRecordFoldWin(t *testing.T) {
	t.Parallel()
	s, err := game.Apply(start(t, 2), game.Fold, 0)
	require.NoError(t, err)
	rec := NewRecord(summarize(t, s))

	assert.False(t, rec.Showdown)
	assert.Empty(t, rec.Category)
	assert.Empty(t, rec.Board)
	assert.Equal(t, 15, rec.Pot)
	require.Len(t, rec.Rounds, 1)
	assert.Equal(t, "PRE_FLOP", rec.Rounds[0].Street)
	for _, p := range rec.Players {
		assert.Empty(t, p.Hole, "folded hands stay hidden")
	}
}

func TestJSONWriter(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	w, err := NewJSONWriter(t.TempDir(), nil)
	require.NoError(t, err)

	sum := summarize(t, checkDown(t, start(t, 3)))
	require.NoError(t, w.Write(ctx, sum))

	got, err := ReadJSON(w.Path(sum.HandID))
	require.NoError(t, err)
	want := NewRecord(sum)
	assert.True(t, want.StartedAt.Equal(got.StartedAt))
	got.StartedAt = want.StartedAt
	assert.Equal(t, want, got)

	require.NoError(t, w.Close())
	assert.ErrorIs(t, w.Write(ctx, sum), ErrClosed)
}

func TestJSONWriterCancelled(t *testing.T) {
	t.Parallel()
	w, err := NewJSONWriter(t.TempDir(), nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sum := summarize(t, checkDown(t, start(t, 4)))
	require.ErrorIs(t, w.Write(ctx, sum), context.Canceled)

	_, err = os.Stat(w.Path(sum.HandID))
	assert.True(t, os.IsNotExist(err))
}

func TestPHHWriter(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	w, err := NewPHHWriter(t.TempDir(), "main", nil)
	require.NoError(t, err)
	defer w.Close()

	sum := summarize(t, checkDown(t, start(t, 5)))
	require.NoError(t, w.Write(ctx, sum))

	f, err := os.Open(w.Path(sum.HandID))
	require.NoError(t, err)
	defer f.Close()
	got, err := phh.Decode(f)
	require.NoError(t, err)

	assert.Equal(t, sum.HandID, got.HandID)
	assert.Equal(t, "main", got.Table)
	assert.Equal(t, []string{"Alice", "Bob"}, got.Players)
	assert.Equal(t, []int{1000, 1000}, got.StartingStacks)
	assert.Contains(t, got.Actions, "d db "+sum.Board[3].Code())
}

func TestSQLiteWriter(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	w, err := OpenSQLite(ctx, ":memory:", nil)
	require.NoError(t, err)
	defer w.Close()

	first := checkDown(t, start(t, 5))
	require.NoError(t, w.Write(ctx, summarize(t, first)))

	second, err := game.NextHand(first, game.WithRand(randutil.New(6)))
	require.NoError(t, err)
	second, err = game.Apply(second, game.Fold, 0)
	require.NoError(t, err)
	require.NoError(t, w.Write(ctx, summarize(t, second)))

	count := func(query string, args ...any) int {
		var n int
		require.NoError(t, w.DB().QueryRowContext(ctx, query, args...).Scan(&n))
		return n
	}
	assert.Equal(t, 2, count(`SELECT COUNT(*) FROM games`))
	assert.Equal(t, 4, count(`SELECT COUNT(*) FROM game_rounds WHERE game_id = ?`, first.HandID))
	assert.Equal(t, 1, count(`SELECT COUNT(*) FROM game_rounds WHERE game_id = ?`, second.HandID))
	assert.Equal(t, len(first.Actions), count(`SELECT COUNT(*) FROM player_actions WHERE game_id = ?`, first.HandID))
	assert.Equal(t, 3, count(`SELECT COUNT(*) FROM player_actions WHERE game_id = ?`, second.HandID))
	assert.Equal(t, 1, count(`SELECT COUNT(*) FROM player_actions WHERE game_id = ? AND action_type = 'FOLD'`, second.HandID))

	var board string
	require.NoError(t, w.DB().QueryRowContext(ctx, `SELECT board FROM games WHERE id = ?`, second.HandID).Scan(&board))
	assert.Equal(t, "[]", board)

	winner := second.Players[second.Winners[0]]
	ps, err := w.Player(ctx, winner.ID)
	require.NoError(t, err)
	assert.Equal(t, winner.Chips, ps.Chips)
	assert.Equal(t, 2, ps.GamesPlayed)
	assert.GreaterOrEqual(t, ps.GamesWon, 1)

	_, err = w.Player(ctx, "nobody")
	assert.ErrorIs(t, err, sql.ErrNoRows)

	// Hand IDs are unique.
	assert.Error(t, w.Write(ctx, summarize(t, second)))
	assert.Equal(t, 2, count(`SELECT COUNT(*) FROM games`))
}

type failing struct{ err error }

func (f failing) Write(context.Context, game.Summary) error { return f.err }
func (f failing) Close() error                              { return nil }

func TestMulti(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	jw, err := NewJSONWriter(t.TempDir(), nil)
	require.NoError(t, err)

	boom := errors.New("boom")
	m := Multi{Nop{}, failing{boom}, jw}
	sum := summarize(t, checkDown(t, start(t, 7)))

	require.ErrorIs(t, m.Write(ctx, sum), boom)
	_, err = os.Stat(jw.Path(sum.HandID))
	assert.NoError(t, err, "later writers still run")
	assert.NoError(t, m.Close())
}
