// Package randutil provides the uniform random sources used for shuffling
// and for the autonomous players' mixed decisions.
package randutil

import (
	rand "math/rand/v2"
	"time"
)

const (
	goldenRatio64 = 0x9e3779b97f4a7c15
)

// Source is the uniform source the deck and the autonomous players draw from.
// *rand.Rand satisfies it.
type Source interface {
	IntN(n int) int
	Float64() float64
}

// New returns a *rand.Rand seeded deterministically from the provided int64.
// All call sites derive their PCG state the same way so a seed always replays
// the same shuffle and the same autonomous decisions.
func New(seed int64) *rand.Rand {
	u := uint64(seed)
	return rand.New(rand.NewPCG(mix(u), mix(u+goldenRatio64)))
}

// NewFromTime returns a source seeded from the wall clock together with the
// seed used, so a hand can be replayed later.
func NewFromTime() (*rand.Rand, int64) {
	seed := time.Now().UnixNano()
	return New(seed), seed
}

// Derive returns the seed for the n-th child stream of seed. Parallel tables
// use it so every table gets an independent but reproducible sequence.
func Derive(seed int64, n int) int64 {
	return int64(mix(uint64(seed) + uint64(n)*goldenRatio64))
}

func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
