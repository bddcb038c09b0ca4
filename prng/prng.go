// Package prng provides the deterministic random source used for scene generation.
//
// Every random decision in a scene is drawn from a single RNG seeded by hashing
// a string, so a shared seed string reproduces the same scene on any platform.
package prng

import (
	"math"
	"unicode/utf16"
)

const (
	fnvOffset = 2166136261
	fnvPrime  = 16777619

	// mulberryIncrement is the odd Weyl increment added to the state per draw.
	mulberryIncrement = 0x6d2b79f5

	twoPow32 = 4294967296.0
)

// HashString folds s into a 32-bit seed with FNV-1a.
// Characters are consumed as UTF-16 code units so that seeds outside the
// BMP hash the same way browsers hash them.
func HashString(s string) uint32 {
	h := uint32(fnvOffset)
	for _, unit := range utf16.Encode([]rune(s)) {
		h ^= uint32(unit)
		h *= fnvPrime
	}
	return h
}

// RNG is a mulberry32 generator. The zero value is a valid generator seeded with 0.
// An RNG is not safe for concurrent use; give each generation its own instance.
type RNG struct {
	state uint32
	draws uint64
}

// New creates a generator with the given seed.
func New(seed uint32) *RNG {
	return &RNG{state: seed}
}

// NewFromString creates a generator seeded with HashString(s).
func NewFromString(s string) *RNG {
	return New(HashString(s))
}

// next advances the state and returns the mixed 32-bit output.
func (r *RNG) next() uint32 {
	r.state += mulberryIncrement
	r.draws++
	t := r.state
	x := (t ^ (t >> 15)) * (t | 1)
	x ^= x + (x^(x>>7))*(x|61)
	return x ^ (x >> 14)
}

// Float64 returns a value in [0, 1).
func (r *RNG) Float64() float64 {
	return float64(r.next()) / twoPow32
}

// Uint32 returns a full 32-bit draw.
func (r *RNG) Uint32() uint32 {
	return r.next()
}

// Draws reports how many values have been drawn since creation.
func (r *RNG) Draws() uint64 {
	return r.draws
}

// Range returns a value in [min, max).
func (r *RNG) Range(min, max float64) float64 {
	return min + (max-min)*r.Float64()
}

// IntRange returns an integer in [min, max], both inclusive.
func (r *RNG) IntRange(min, max int) int {
	return int(math.Floor(r.Range(float64(min), float64(max+1))))
}

// Chance reports whether a single draw falls below p.
func (r *RNG) Chance(p float64) bool {
	return r.Float64() < p
}

// PickOne returns a uniformly chosen element of list.
// It panics on an empty list, like indexing would.
func PickOne[T any](r *RNG, list []T) T {
	return list[int(math.Floor(r.Float64()*float64(len(list))))]
}

// WeightedChoice returns list[i] with probability weights[i]/sum(weights).
// The scan returns the first element whose running sum reaches the target and
// falls back to the last element when rounding leaves the target unreached.
// Exactly one value is drawn.
func WeightedChoice[T any](r *RNG, list []T, weights []float64) T {
	var total float64
	for _, w := range weights {
		total += w
	}
	target := r.Float64() * total
	var acc float64
	for i := range list {
		acc += weights[i]
		if target <= acc {
			return list[i]
		}
	}
	return list[len(list)-1]
}
