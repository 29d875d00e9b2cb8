// Package config loads table and persistence settings from HCL.
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// MaxSeats bounds a table so the deck always covers hole cards and board.
const MaxSeats = 10

// Styles are the autonomous playing styles: follow the advisor, sample its
// mixed strategy, or play as a calling station, maniac or at random.
var Styles = []string{"advisor", "mixed", "calling", "maniac", "random"}

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config is the complete configuration file.
type Config struct {
	LogLevel string         `hcl:"log_level,optional"`
	Tables   []TableConfig  `hcl:"table,block"`
	History  *HistoryConfig `hcl:"history,block"`
}

// TableConfig describes one table: its stakes and who sits at it.
type TableConfig struct {
	Name          string `hcl:"name,label"`
	SmallBlind    int    `hcl:"small_blind"`
	BigBlind      int    `hcl:"big_blind"`
	StartingChips int    `hcl:"starting_chips,optional"`
	AIPlayers     int    `hcl:"ai_players,optional"`
	HumanName     string `hcl:"human_name,optional"`
	ActionTimeout string `hcl:"action_timeout,optional"`
	// Style is how the autonomous seats play, one of Styles.
	Style string `hcl:"style,optional"`
	// BigBlindOption lets the big blind raise after limpers.
	BigBlindOption bool `hcl:"big_blind_option,optional"`
}

// HistoryConfig selects where completed hands are stored. Empty fields
// disable that writer.
type HistoryConfig struct {
	Directory string `hcl:"directory,optional"` // JSON, one file per hand
	PHH       string `hcl:"phh,optional"`       // Poker Hand History, one file per hand
	SQLite    string `hcl:"sqlite,optional"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	c := &Config{
		LogLevel: "info",
		Tables:   []TableConfig{{Name: "main", SmallBlind: 5, BigBlind: 10}},
		History:  &HistoryConfig{},
	}
	c.applyDefaults()
	return c
}

// Load reads filename, falling back to Default when it does not exist.
func Load(filename string) (*Config, error) {
	src, err := os.ReadFile(filename)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(src, filename)
}

// Parse decodes HCL source, applies defaults and validates the result.
func Parse(src []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var c Config
	if diags := gohcl.DecodeBody(file.Body, nil, &c); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}
	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) applyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.History == nil {
		c.History = &HistoryConfig{}
	}
	for i := range c.Tables {
		t := &c.Tables[i]
		if t.StartingChips == 0 {
			t.StartingChips = t.BigBlind * 100
		}
		if t.AIPlayers == 0 {
			t.AIPlayers = 5
		}
		if t.HumanName == "" {
			t.HumanName = "You"
		}
		if t.ActionTimeout == "" {
			t.ActionTimeout = "30s"
		}
		if t.Style == "" {
			t.Style = "advisor"
		}
	}
}

// Validate checks every table and the log level.
func (c *Config) Validate() error {
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: log_level %q", ErrInvalid, c.LogLevel)
	}
	if len(c.Tables) == 0 {
		return fmt.Errorf("%w: no tables", ErrInvalid)
	}
	seen := map[string]bool{}
	for _, t := range c.Tables {
		if seen[t.Name] {
			return fmt.Errorf("%w: duplicate table %q", ErrInvalid, t.Name)
		}
		seen[t.Name] = true
		if err := t.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks stakes, seat count and timeout.
func (t TableConfig) Validate() error {
	switch {
	case t.SmallBlind <= 0:
		return fmt.Errorf("%w: table %q: small_blind must be positive", ErrInvalid, t.Name)
	case t.BigBlind < t.SmallBlind:
		return fmt.Errorf("%w: table %q: big_blind %d is below small_blind %d", ErrInvalid, t.Name, t.BigBlind, t.SmallBlind)
	case t.StartingChips < t.BigBlind:
		return fmt.Errorf("%w: table %q: starting_chips %d cannot cover the big blind", ErrInvalid, t.Name, t.StartingChips)
	case t.Seats() < 2 || t.Seats() > MaxSeats:
		return fmt.Errorf("%w: table %q: %d seats, need 2 to %d", ErrInvalid, t.Name, t.Seats(), MaxSeats)
	case !slices.Contains(Styles, t.Style):
		return fmt.Errorf("%w: table %q: unknown style %q", ErrInvalid, t.Name, t.Style)
	}
	if _, err := t.Timeout(); err != nil {
		return fmt.Errorf("%w: table %q: %v", ErrInvalid, t.Name, err)
	}
	return nil
}

// Seats is the table size including the human seat.
func (t TableConfig) Seats() int {
	return t.AIPlayers + 1
}

// Timeout parses ActionTimeout. Zero disables the clock.
func (t TableConfig) Timeout() (time.Duration, error) {
	d, err := time.ParseDuration(t.ActionTimeout)
	if err != nil {
		return 0, fmt.Errorf("action_timeout: %w", err)
	}
	if d < 0 {
		return 0, fmt.Errorf("action_timeout %s is negative", d)
	}
	return d, nil
}

// Table returns the named table, or the first one when name is empty.
func (c *Config) Table(name string) (TableConfig, error) {
	if name == "" && len(c.Tables) > 0 {
		return c.Tables[0], nil
	}
	for _, t := range c.Tables {
		if t.Name == name {
			return t, nil
		}
	}
	return TableConfig{}, fmt.Errorf("no table named %q", name)
}
