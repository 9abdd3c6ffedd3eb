// ABOUTME: Injectable random source and sampling helpers used by every generator.
// ABOUTME: A fixed seed makes any transform reproducible; seed 0 draws from the clock.

package randutil

import (
	"math/rand"
	"time"
)

// Rand is the subset of *rand.Rand the generators draw from.
type Rand interface {
	Float64() float64
	Intn(n int) int
	Int63n(n int64) int64
	Perm(n int) []int
}

// New returns a source seeded with seed, or with the current time when seed is 0.
func New(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// Choice returns a uniformly chosen element of items. items must not be empty.
func Choice[T any](r Rand, items []T) T {
	return items[r.Intn(len(items))]
}

// Sample returns n distinct elements of items in random order.
func Sample[T any](r Rand, items []T, n int) []T {
	perm := r.Perm(len(items))
	out := make([]T, n)
	for i := 0; i < n; i++ {
		out[i] = items[perm[i]]
	}
	return out
}

// Uniform returns a float in [lo, hi).
func Uniform(r Rand, lo, hi float64) float64 {
	return lo + (hi-lo)*r.Float64()
}

// IntBetween returns an int in [lo, hi], both ends inclusive.
func IntBetween(r Rand, lo, hi int) int {
	return lo + r.Intn(hi-lo+1)
}

// Chance reports true with probability p.
func Chance(r Rand, p float64) bool {
	return r.Float64() < p
}
