package handid

import (
	"strings"
	"testing"
	"time"

	"github.com/lox/holdem-advisor/internal/randutil"
)

func TestNew(t *testing.T) {
	id := New(time.Now(), nil)
	if len(id) != Length {
		t.Errorf("expected %d characters, got %d", Length, len(id))
	}
	if err := Validate(id); err != nil {
		t.Errorf("generated ID failed validation: %v", err)
	}
}

func TestNewIsUnique(t *testing.T) {
	ids := make(map[string]bool)
	now := time.Now()
	for i := 0; i < 100; i++ {
		id := New(now, nil)
		if ids[id] {
			t.Errorf("duplicate ID generated: %s", id)
		}
		ids[id] = true
	}
}

func TestNewSortsByTime(t *testing.T) {
	base := time.UnixMilli(1_700_000_000_000)
	var ids []string
	for i := 0; i < 10; i++ {
		ids = append(ids, New(base.Add(time.Duration(i)*time.Millisecond), nil))
	}
	for i := 1; i < len(ids); i++ {
		if strings.Compare(ids[i-1], ids[i]) >= 0 {
			t.Errorf("IDs not sorted: %s >= %s", ids[i-1], ids[i])
		}
	}
}

func TestNewIsDeterministicWithSource(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_000)
	a := New(now, randutil.New(5))
	b := New(now, randutil.New(5))
	if a != b {
		t.Errorf("same seed produced %s and %s", a, b)
	}
}

func TestTimeRoundTrip(t *testing.T) {
	now := time.UnixMilli(1_712_345_678_901)
	got, err := Time(New(now, randutil.New(1)))
	if err != nil {
		t.Fatal(err)
	}
	if !got.Equal(now) {
		t.Errorf("Time() = %v, want %v", got, now)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{name: "valid ID", id: "01h5n0et5q6mt3v7ms1234abcd"},
		{name: "too short", id: "01h5n0et5q6mt3v7ms123", wantErr: true},
		{name: "too long", id: "01h5n0et5q6mt3v7ms1234abcdef", wantErr: true},
		{name: "first char too high", id: "81h5n0et5q6mt3v7ms1234abcd", wantErr: true},
		{name: "excluded letter", id: "01h5n0et5q6mt3v7ms1234abci", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.id)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate(%q) error = %v, wantErr %v", tt.id, err, tt.wantErr)
			}
		})
	}
}
