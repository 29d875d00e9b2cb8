// Package phh converts finished hands to the Poker Hand History format, a
// TOML document with a compact action grammar ("d dh p1 AhKh", "p2 cbr 30").
package phh

// HandHistory is a single no-limit hold'em hand. Per-seat slices are indexed
// by seat order, which is also the pN numbering used in Actions (p1 first).
type HandHistory struct {
	Variant   string   `toml:"variant"`
	Table     string   `toml:"table,omitempty"`
	SeatCount int      `toml:"seat_count,omitempty"`
	Players   []string `toml:"players,omitempty"`
	HandID    string   `toml:"hand"`

	// Antes are always zero; blinds hold what each seat actually posted.
	Antes             []int `toml:"antes"`
	BlindsOrStraddles []int `toml:"blinds_or_straddles"`
	MinBet            int   `toml:"min_bet"`

	StartingStacks  []int    `toml:"starting_stacks"`
	Actions         []string `toml:"actions"`
	FinishingStacks []int    `toml:"finishing_stacks,omitempty"`
	Winnings        []int    `toml:"winnings,omitempty"`

	// Start of the hand in UTC, recovered from the hand id.
	Time     string `toml:"time,omitempty"`
	TimeZone string `toml:"time_zone,omitempty"`
	Day      int    `toml:"day,omitempty"`
	Month    int    `toml:"month,omitempty"`
	Year     int    `toml:"year,omitempty"`

	// User-defined fields take a leading underscore in PHH.
	Winners  []string `toml:"_winners,omitempty"`
	Category string   `toml:"_category,omitempty"` // winning hand at showdown
}
