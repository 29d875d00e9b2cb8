package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Parallel()
	c, err := Load(filepath.Join(t.TempDir(), "missing.hcl"))
	require.NoError(t, err)
	assert.Equal(t, Default(), c)

	table, err := c.Table("")
	require.NoError(t, err)
	assert.Equal(t, TableConfig{
		Name: "main", SmallBlind: 5, BigBlind: 10, StartingChips: 1000,
		AIPlayers: 5, HumanName: "You", ActionTimeout: "30s", Style: "advisor",
	}, table)
	require.NoError(t, c.Validate())
}

func TestLoad(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "holdem.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`
log_level = "debug"

table "high" {
  small_blind    = 50
  big_blind      = 100
  ai_players     = 3
  human_name     = "Hero"
  action_timeout = "10s"
  style          = "mixed"

  big_blind_option = true
}

table "micro" {
  small_blind = 1
  big_blind   = 2
}

history {
  directory = "hands"
  phh       = "phh"
  sqlite    = "hands.db"
}
`), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", c.LogLevel)
	assert.Equal(t, &HistoryConfig{Directory: "hands", PHH: "phh", SQLite: "hands.db"}, c.History)

	high, err := c.Table("high")
	require.NoError(t, err)
	assert.Equal(t, 10000, high.StartingChips)
	assert.Equal(t, 4, high.Seats())
	assert.Equal(t, "mixed", high.Style)
	assert.True(t, high.BigBlindOption)
	d, err := high.Timeout()
	require.NoError(t, err)
	assert.Equal(t, 10*time.Second, d)

	micro, err := c.Table("micro")
	require.NoError(t, err)
	assert.Equal(t, 200, micro.StartingChips)
	assert.Equal(t, "You", micro.HumanName)
	assert.False(t, micro.BigBlindOption, "off unless asked for")

	_, err = c.Table("nope")
	assert.Error(t, err)
}

func TestParseErrors(t *testing.T) {
	t.Parallel()
	table := func(attrs string) string {
		return "table \"main\" {\n" + attrs + "\n}\n"
	}
	tests := []struct {
		name    string
		src     string
		invalid bool
	}{
		{"syntax", `table "main" {`, false},
		{"missing big blind", `table "main" { small_blind = 1 }`, false},
		{"no tables", `log_level = "info"`, true},
		{"bad log level", "log_level = \"loud\"\n" + table("small_blind = 1\nbig_blind = 2"), true},
		{"zero small blind", table("small_blind = 0\nbig_blind = 2"), true},
		{"big below small", table("small_blind = 5\nbig_blind = 2"), true},
		{"too many seats", table("small_blind = 1\nbig_blind = 2\nai_players = 10"), true},
		{"short stack", table("small_blind = 5\nbig_blind = 10\nstarting_chips = 5"), true},
		{"bad timeout", table("small_blind = 1\nbig_blind = 2\naction_timeout = \"soon\""), true},
		{"bad style", table("small_blind = 1\nbig_blind = 2\nstyle = \"wild\""), true},
		{"duplicate", table("small_blind = 1\nbig_blind = 2") + table("small_blind = 1\nbig_blind = 2"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Parse([]byte(tt.src), "test.hcl")
			require.Error(t, err)
			if tt.invalid {
				assert.ErrorIs(t, err, ErrInvalid)
			}
		})
	}
}

func TestZeroTimeoutDisablesClock(t *testing.T) {
	t.Parallel()
	c, err := Parse([]byte(`table "main" {
  small_blind    = 1
  big_blind      = 2
  action_timeout = "0s"
}`), "test.hcl")
	require.NoError(t, err)
	d, err := c.Tables[0].Timeout()
	require.NoError(t, err)
	assert.Zero(t, d)
}
