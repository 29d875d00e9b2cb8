package history

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/lox/holdem-advisor/internal/fileutil"
	"github.com/lox/holdem-advisor/internal/game"
)

// dirWriter stores one file per hand in a directory.
type dirWriter struct {
	dir    string
	ext    string
	encode func(io.Writer, game.Summary) error
	logger *log.Logger

	mu     sync.Mutex
	closed bool
}

func newDirWriter(dir, ext string, logger *log.Logger, encode func(io.Writer, game.Summary) error) (*dirWriter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("history: create %s: %w", dir, err)
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &dirWriter{dir: dir, ext: ext, encode: encode, logger: logger}, nil
}

// Path returns the file a hand is written to.
func (w *dirWriter) Path(handID string) string {
	return filepath.Join(w.dir, handID+w.ext)
}

func (w *dirWriter) Write(ctx context.Context, hand game.Summary) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrClosed
	}

	path := w.Path(hand.HandID)
	err := fileutil.WriteAtomic(path, 0o644, func(out io.Writer) error {
		return w.encode(out, hand)
	})
	if err != nil {
		return fmt.Errorf("history: write %s: %w", path, err)
	}
	w.logger.Debug("hand written", "hand", hand.HandID, "path", path)
	return nil
}

func (w *dirWriter) Close() error {
	w.mu.Lock()
	w.closed = true
	w.mu.Unlock()
	return nil
}

// JSONWriter writes each hand to <dir>/<hand id>.json.
type JSONWriter struct {
	*dirWriter
}

// NewJSONWriter creates dir if needed and returns a writer into it.
func NewJSONWriter(dir string, logger *log.Logger) (*JSONWriter, error) {
	w, err := newDirWriter(dir, ".json", logger, func(out io.Writer, hand game.Summary) error {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(NewRecord(hand))
	})
	if err != nil {
		return nil, err
	}
	return &JSONWriter{w}, nil
}

// ReadJSON loads a hand written by JSONWriter.
func ReadJSON(path string) (Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return Record{}, err
	}
	defer f.Close()

	var r Record
	if err := json.NewDecoder(f).Decode(&r); err != nil {
		return Record{}, fmt.Errorf("history: decode %s: %w", path, err)
	}
	return r, nil
}
