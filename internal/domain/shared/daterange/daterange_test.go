package daterange

import (
	"errors"
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNew_RejectsInvertedAndEqual(t *testing.T) {
	in := date(2024, 7, 10)
	if _, err := New(in, in); !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("equal bounds: expected ErrInvalidRange, got %v", err)
	}
	if _, err := New(in, in.AddDate(0, 0, -1)); !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("inverted bounds: expected ErrInvalidRange, got %v", err)
	}
	if _, err := New(time.Time{}, in); !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("zero check-in: expected ErrInvalidRange, got %v", err)
	}
}

func TestNights_IgnoresTimeOfDay(t *testing.T) {
	checkIn := time.Date(2024, 7, 1, 15, 0, 0, 0, time.UTC)
	checkOut := time.Date(2024, 7, 4, 11, 0, 0, 0, time.UTC)
	dr, err := New(checkIn, checkOut)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := dr.Nights(); got != 3 {
		t.Fatalf("expected 3 nights, got %d", got)
	}
}

func TestDays_HalfOpen(t *testing.T) {
	dr, err := New(date(2024, 6, 8), date(2024, 6, 10))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	days := dr.Days()
	if len(days) != 2 {
		t.Fatalf("expected 2 days, got %d", len(days))
	}
	if !days[0].Equal(date(2024, 6, 8)) || !days[1].Equal(date(2024, 6, 9)) {
		t.Fatalf("unexpected days: %v", days)
	}
	if dr.ContainsDay(date(2024, 6, 10)) {
		t.Fatal("checkout day must not be contained")
	}
	if !dr.ContainsDay(date(2024, 6, 8)) {
		t.Fatal("check-in day must be contained")
	}
}

func TestOverlaps_BackToBackRangesDoNot(t *testing.T) {
	a, _ := New(date(2024, 6, 8), date(2024, 6, 10))
	b, _ := New(date(2024, 6, 10), date(2024, 6, 12))
	if a.Overlaps(b) || b.Overlaps(a) {
		t.Fatal("ranges sharing only a boundary day must not overlap")
	}
	c, _ := New(date(2024, 6, 9), date(2024, 6, 11))
	if !a.Overlaps(c) {
		t.Fatal("expected overlap")
	}
}
