// Package util provides shared helper utilities.
package util

import (
	"math/rand"
	"strings"
)

// RandIntRange returns a random int in [min, max].
func RandIntRange(r *rand.Rand, min int, max int) int {
	if max <= min {
		return min
	}
	return min + r.Intn(max-min+1)
}

// RandFloatRange returns a random float64 in [min, max).
func RandFloatRange(r *rand.Rand, min float64, max float64) float64 {
	if max <= min {
		return min
	}
	return min + r.Float64()*(max-min)
}

// RandDigits returns a string of n random decimal digits.
func RandDigits(r *rand.Rand, n int) string {
	var b strings.Builder
	b.Grow(n)
	for i := 0; i < n; i++ {
		b.WriteByte(byte('0' + r.Intn(10)))
	}
	return b.String()
}

// Chance returns true with a given percent chance.
func Chance(r *rand.Rand, percent int) bool {
	if percent <= 0 {
		return false
	}
	if percent >= 100 {
		return true
	}
	return r.Intn(100) < percent
}
