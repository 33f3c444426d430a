package utils

import (
	"regexp"
	"testing"
	"time"
)

func TestRandomReproducibility(t *testing.T) {
	seed := int64(42)

	rng1 := NewRandom(seed)
	rng2 := NewRandom(seed)

	t.Run("IntN", func(t *testing.T) {
		for i := 0; i < 1000; i++ {
			v1 := rng1.IntN(1000)
			v2 := rng2.IntN(1000)
			if v1 != v2 {
				t.Errorf("Mismatch at iteration %d: %d != %d", i, v1, v2)
				return
			}
		}
	})

	rng1 = NewRandom(seed)
	rng2 = NewRandom(seed)

	t.Run("Mixed operations", func(t *testing.T) {
		for i := 0; i < 100; i++ {
			if rng1.Hex(15) != rng2.Hex(15) {
				t.Error("Hex mismatch")
				return
			}
			if rng1.Probability(0.5) != rng2.Probability(0.5) {
				t.Error("Probability mismatch")
				return
			}
			if rng1.IntRange(10, 20) != rng2.IntRange(10, 20) {
				t.Error("IntRange mismatch")
				return
			}
		}
	})
}

func TestRandomSeedStorage(t *testing.T) {
	rng := NewRandom(12345)
	if rng.Seed() != 12345 {
		t.Errorf("Expected seed 12345, got %d", rng.Seed())
	}

	rng = NewRandom(0)
	if rng.Seed() == 0 {
		t.Error("Expected non-zero auto-generated seed")
	}
}

func TestIntRange(t *testing.T) {
	rng := NewRandom(7)
	for i := 0; i < 1000; i++ {
		v := rng.IntRange(1, 12)
		if v < 1 || v > 12 {
			t.Fatalf("IntRange(1, 12) returned %d", v)
		}
	}
	if got := rng.IntRange(5, 5); got != 5 {
		t.Errorf("IntRange(5, 5) = %d", got)
	}
}

func TestDay(t *testing.T) {
	rng := NewRandom(99)
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2022, 12, 31, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 1000; i++ {
		d := rng.Day(start, end)
		if d.Before(start) || d.After(end) {
			t.Fatalf("Day out of range: %s", d)
		}
		if d.Hour() != 0 || d.Minute() != 0 {
			t.Fatalf("Day has a time component: %s", d)
		}
	}

	if got := rng.Day(end, start); !got.Equal(end) {
		t.Errorf("Reversed range should return start, got %s", got)
	}
}

func TestHexAndDigits(t *testing.T) {
	rng := NewRandom(3)
	hex := regexp.MustCompile(`^[0-9a-fA-F]{15}$`)
	digits := regexp.MustCompile(`^[0-9]{10}$`)

	for i := 0; i < 100; i++ {
		if h := rng.Hex(15); !hex.MatchString(h) {
			t.Fatalf("Hex(15) = %q", h)
		}
		if d := rng.Digits(10); !digits.MatchString(d) {
			t.Fatalf("Digits(10) = %q", d)
		}
	}
}
