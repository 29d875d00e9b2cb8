package deck

import (
	"errors"
	"testing"

	"github.com/lox/holdem-advisor/internal/randutil"
)

func TestNewDeckHasEveryCardOnce(t *testing.T) {
	t.Parallel()
	d := New(randutil.New(7))
	if d.Remaining() != Size {
		t.Fatalf("Remaining() = %d, want %d", d.Remaining(), Size)
	}

	seen := make(map[Card]bool)
	for d.Remaining() > 0 {
		c := d.Draw()
		if !c.Valid() {
			t.Fatalf("invalid card dealt: %+v", c)
		}
		if seen[c] {
			t.Fatalf("card %s dealt twice", c)
		}
		seen[c] = true
	}
	if len(seen) != Size {
		t.Errorf("dealt %d distinct cards, want %d", len(seen), Size)
	}
}

func TestShuffleIsSeeded(t *testing.T) {
	t.Parallel()
	a := New(randutil.New(42)).Cards()
	b := New(randutil.New(42)).Cards()
	c := New(randutil.New(43)).Cards()

	if !cardsEqual(a, b) {
		t.Error("same seed should produce the same order")
	}
	if cardsEqual(a, c) {
		t.Error("different seeds should produce different orders")
	}
	if cardsEqual(a, Ordered()) {
		t.Error("shuffled deck should not be in construction order")
	}
}

func TestDealNConsumesFromTop(t *testing.T) {
	t.Parallel()
	stacked := MustParseCards("AsKsQsJsTs9s")
	d, err := NewFromCards(stacked)
	if err != nil {
		t.Fatal(err)
	}

	got := d.DealN(2)
	if !cardsEqual(got, stacked[:2]) {
		t.Errorf("DealN(2) = %v, want %v", got, stacked[:2])
	}
	if d.Remaining() != 4 {
		t.Errorf("Remaining() = %d, want 4", d.Remaining())
	}
	if top := d.Draw(); top != stacked[2] {
		t.Errorf("Draw() = %v, want %v", top, stacked[2])
	}
}

func TestCloneIsIndependent(t *testing.T) {
	t.Parallel()
	d := New(randutil.New(1))
	clone := d.Clone()
	d.Draw()
	if clone.Remaining() != Size {
		t.Errorf("clone Remaining() = %d after drawing from original", clone.Remaining())
	}
}

func TestNewFromCardsRejectsDuplicates(t *testing.T) {
	t.Parallel()
	_, err := NewFromCards(MustParseCards("AsKsAs"))
	if !errors.Is(err, ErrDuplicateCard) {
		t.Errorf("NewFromCards() error = %v, want ErrDuplicateCard", err)
	}
}

func TestDrawFromEmptyDeckPanics(t *testing.T) {
	t.Parallel()
	d, _ := NewFromCards(nil)
	defer func() {
		if recover() == nil {
			t.Error("Draw() on an empty deck should panic")
		}
	}()
	d.Draw()
}

func TestNilSourcePanics(t *testing.T) {
	t.Parallel()
	defer func() {
		if recover() == nil {
			t.Error("New(nil) should panic")
		}
	}()
	New(nil)
}
