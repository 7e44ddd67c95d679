package util

import (
	"math/rand"
	"testing"
)

func TestRandIntRange(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	seen := make(map[int]bool)
	for i := 0; i < 500; i++ {
		got := RandIntRange(r, 3, 7)
		if got < 3 || got > 7 {
			t.Fatalf("RandIntRange=%d, want 3..7", got)
		}
		seen[got] = true
	}
	for v := 3; v <= 7; v++ {
		if !seen[v] {
			t.Fatalf("value %d never drawn", v)
		}
	}
	if got := RandIntRange(r, 5, 5); got != 5 {
		t.Fatalf("degenerate range=%d, want 5", got)
	}
}

func TestRandDigits(t *testing.T) {
	r := rand.New(rand.NewSource(2))
	for i := 0; i < 100; i++ {
		got := RandDigits(r, 6)
		if len(got) != 6 {
			t.Fatalf("RandDigits width=%d", len(got))
		}
		for _, c := range got {
			if c < '0' || c > '9' {
				t.Fatalf("non-digit in %q", got)
			}
		}
	}
}

func TestChance(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	if Chance(r, 0) {
		t.Fatalf("0%% chance hit")
	}
	if !Chance(r, 100) {
		t.Fatalf("100%% chance missed")
	}
	hits := 0
	for i := 0; i < 1000; i++ {
		if Chance(r, 50) {
			hits++
		}
	}
	if hits < 400 || hits > 600 {
		t.Fatalf("50%% chance hit %d of 1000", hits)
	}
}

func TestRandFloatRange(t *testing.T) {
	r := rand.New(rand.NewSource(4))
	for i := 0; i < 200; i++ {
		got := RandFloatRange(r, 5, 25)
		if got < 5 || got >= 25 {
			t.Fatalf("RandFloatRange=%v, want [5,25)", got)
		}
	}
	if got := RandFloatRange(r, 9.99, 9.99); got != 9.99 {
		t.Fatalf("degenerate range=%v", got)
	}
}
