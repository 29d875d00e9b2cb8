package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	_ "github.com/mattn/go-sqlite3"

	"github.com/lox/holdem-advisor/internal/game"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS players (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		chips INTEGER NOT NULL DEFAULT 1000,
		games_played INTEGER NOT NULL DEFAULT 0,
		games_won INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS games (
		id TEXT PRIMARY KEY,
		start_time TIMESTAMP NOT NULL,
		winner_id TEXT,
		pot_size INTEGER NOT NULL,
		player_count INTEGER NOT NULL,
		board TEXT NOT NULL DEFAULT '[]',
		category TEXT,
		FOREIGN KEY (winner_id) REFERENCES players(id)
	)`,
	`CREATE TABLE IF NOT EXISTS game_rounds (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		game_id TEXT NOT NULL,
		round_type TEXT NOT NULL CHECK (round_type IN ('PRE_FLOP', 'FLOP', 'TURN', 'RIVER')),
		pot_size INTEGER NOT NULL,
		community_cards TEXT NOT NULL DEFAULT '[]',
		FOREIGN KEY (game_id) REFERENCES games(id)
	)`,
	`CREATE TABLE IF NOT EXISTS player_actions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		game_id TEXT NOT NULL,
		round_id INTEGER NOT NULL,
		player_id TEXT NOT NULL,
		action_type TEXT NOT NULL CHECK (action_type IN ('CHECK', 'BET', 'CALL', 'RAISE', 'FOLD')),
		amount INTEGER NOT NULL DEFAULT 0,
		seq INTEGER NOT NULL,
		FOREIGN KEY (game_id) REFERENCES games(id),
		FOREIGN KEY (round_id) REFERENCES game_rounds(id),
		FOREIGN KEY (player_id) REFERENCES players(id)
	)`,
}

// SQLiteWriter stores hands in a SQLite database.
type SQLiteWriter struct {
	db     *sql.DB
	logger *log.Logger
}

// OpenSQLite opens (creating if needed) the database at path and ensures the
// schema exists. Use ":memory:" for a throwaway database.
func OpenSQLite(ctx context.Context, path string, logger *log.Logger) (*SQLiteWriter, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("history: open %s: %w", path, err)
	}
	// One connection keeps ":memory:" a single database and serialises writes.
	db.SetMaxOpenConns(1)

	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("history: create schema: %w", err)
		}
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &SQLiteWriter{db: db, logger: logger}, nil
}

// DB exposes the underlying handle for queries.
func (w *SQLiteWriter) DB() *sql.DB {
	return w.db
}

// Write records the hand, its rounds and actions, and updates each player's
// stack and tallies in one transaction.
func (w *SQLiteWriter) Write(ctx context.Context, hand game.Summary) error {
	rec := NewRecord(hand)
	started := rec.StartedAt
	if started.IsZero() {
		started = time.Now().UTC()
	}

	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("history: begin: %w", err)
	}
	defer tx.Rollback()

	for _, p := range rec.Players {
		won := 0
		if p.Won > 0 {
			won = 1
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO players (id, name, chips, games_played, games_won) VALUES (?, ?, ?, 1, ?)
			ON CONFLICT(id) DO UPDATE SET
				name = excluded.name,
				chips = excluded.chips,
				games_played = players.games_played + 1,
				games_won = players.games_won + excluded.games_won`,
			p.ID, p.Name, p.Chips, won)
		if err != nil {
			return fmt.Errorf("history: upsert player %s: %w", p.ID, err)
		}
	}

	var winner any
	if rec.WinnerID != "" {
		winner = rec.WinnerID
	}
	var category any
	if rec.Category != "" {
		category = rec.Category
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO games (id, start_time, winner_id, pot_size, player_count, board, category) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.HandID, started, winner, rec.Pot, rec.PlayerCount, mustJSON(rec.Board), category)
	if err != nil {
		return fmt.Errorf("history: insert game %s: %w", rec.HandID, err)
	}

	rounds := make(map[string]int64, len(rec.Rounds))
	for _, rd := range rec.Rounds {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO game_rounds (game_id, round_type, pot_size, community_cards) VALUES (?, ?, ?, ?)`,
			rec.HandID, rd.Street, rd.Pot, mustJSON(rd.Board))
		if err != nil {
			return fmt.Errorf("history: insert %s round: %w", rd.Street, err)
		}
		if rounds[rd.Street], err = res.LastInsertId(); err != nil {
			return err
		}
	}

	for i, a := range rec.Actions {
		round, ok := rounds[a.Street]
		if !ok {
			return fmt.Errorf("history: action %d on %s has no round", i, a.Street)
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO player_actions (game_id, round_id, player_id, action_type, amount, seq) VALUES (?, ?, ?, ?, ?, ?)`,
			rec.HandID, round, a.PlayerID, strings.ToUpper(a.Action), a.Amount, i)
		if err != nil {
			return fmt.Errorf("history: insert action %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("history: commit: %w", err)
	}
	w.logger.Debug("hand stored", "hand", rec.HandID, "rounds", len(rec.Rounds), "actions", len(rec.Actions))
	return nil
}

func (w *SQLiteWriter) Close() error {
	return w.db.Close()
}

// PlayerStats is the running tally kept for a player.
type PlayerStats struct {
	ID          string
	Name        string
	Chips       int
	GamesPlayed int
	GamesWon    int
}

// Player returns the stored tallies for id, or sql.ErrNoRows.
func (w *SQLiteWriter) Player(ctx context.Context, id string) (PlayerStats, error) {
	var ps PlayerStats
	err := w.db.QueryRowContext(ctx,
		`SELECT id, name, chips, games_played, games_won FROM players WHERE id = ?`, id).
		Scan(&ps.ID, &ps.Name, &ps.Chips, &ps.GamesPlayed, &ps.GamesWon)
	return ps, err
}

func mustJSON(v []string) string {
	if v == nil {
		v = []string{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(b)
}
