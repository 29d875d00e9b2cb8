package history

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/lox/holdem-advisor/internal/game"
	"github.com/lox/holdem-advisor/internal/phh"
)

// PHHWriter writes each hand to <dir>/<hand id>.phh in Poker Hand History
// format.
type PHHWriter struct {
	*dirWriter
}

// NewPHHWriter creates dir if needed. table names the table in every file.
func NewPHHWriter(dir, table string, logger *log.Logger) (*PHHWriter, error) {
	w, err := newDirWriter(dir, ".phh", logger, func(out io.Writer, hand game.Summary) error {
		return phh.Encode(out, phh.FromSummary(hand, table))
	})
	if err != nil {
		return nil, err
	}
	return &PHHWriter{w}, nil
}
