package availability

import (
	"testing"
	"time"

	"wayfare/internal/domain/booking"
	"wayfare/internal/domain/shared/daterange"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func mustRange(t *testing.T, in, out time.Time) daterange.DateRange {
	t.Helper()
	dr, err := daterange.New(in, out)
	if err != nil {
		t.Fatalf("daterange.New: %v", err)
	}
	return dr
}

func TestBuildOccupiedDays_HalfOpenInvariant(t *testing.T) {
	b := &booking.Booking{
		ID:    "b1",
		Range: mustRange(t, date(2024, 6, 8), date(2024, 6, 10)),
	}
	set := BuildOccupiedDays([]*booking.Booking{b}, nil)

	if !set.Contains(date(2024, 6, 8)) || !set.Contains(date(2024, 6, 9)) {
		t.Fatal("every day in [check-in, check-out) must be occupied")
	}
	if set.Contains(date(2024, 6, 10)) {
		t.Fatal("checkout day must not be occupied")
	}
	if set.Len() != 2 {
		t.Fatalf("expected 2 occupied days, got %d", set.Len())
	}
}

func TestBuildOccupiedDays_NormalizesTimeOfDay(t *testing.T) {
	b := &booking.Booking{
		ID: "b1",
		Range: daterange.DateRange{
			CheckIn:  time.Date(2024, 6, 8, 15, 30, 0, 0, time.UTC),
			CheckOut: time.Date(2024, 6, 9, 11, 0, 0, 0, time.UTC),
		},
	}
	set := BuildOccupiedDays([]*booking.Booking{b}, nil)
	if !set.Contains(time.Date(2024, 6, 8, 23, 59, 0, 0, time.UTC)) {
		t.Fatal("membership must ignore time of day")
	}
	if set.Len() != 1 {
		t.Fatalf("expected 1 occupied day, got %d", set.Len())
	}
}

func TestBuildOccupiedDays_SkipsUnusableBookings(t *testing.T) {
	good := &booking.Booking{ID: "ok", Range: mustRange(t, date(2024, 6, 1), date(2024, 6, 2))}
	missing := &booking.Booking{ID: "missing"}
	inverted := &booking.Booking{
		ID:    "inverted",
		Range: daterange.DateRange{CheckIn: date(2024, 6, 5), CheckOut: date(2024, 6, 3)},
	}
	set := BuildOccupiedDays([]*booking.Booking{good, missing, nil, inverted}, nil)
	if set.Len() != 1 {
		t.Fatalf("expected only the valid booking's day, got %d days", set.Len())
	}
	if !set.Contains(date(2024, 6, 1)) {
		t.Fatal("valid booking's day missing")
	}
}

func TestBuildOccupiedDays_Idempotent(t *testing.T) {
	bookings := []*booking.Booking{
		{ID: "a", Range: mustRange(t, date(2024, 7, 1), date(2024, 7, 4))},
		{ID: "b", Range: mustRange(t, date(2024, 7, 10), date(2024, 7, 12))},
	}
	first := BuildOccupiedDays(bookings, nil)
	second := BuildOccupiedDays(bookings, nil)
	if first.Len() != second.Len() {
		t.Fatalf("set sizes differ: %d vs %d", first.Len(), second.Len())
	}
	for _, d := range first.Days() {
		if !second.Contains(d) {
			t.Fatalf("recomputed set missing %v", d)
		}
	}
}

func TestSelectable_BackToBackBoundary(t *testing.T) {
	// Booking A checks out 2024-06-10; booking B checks in the same day.
	a := &booking.Booking{ID: "a", Range: mustRange(t, date(2024, 6, 8), date(2024, 6, 10))}
	b := &booking.Booking{ID: "b", Range: mustRange(t, date(2024, 6, 10), date(2024, 6, 12))}

	onlyA := BuildOccupiedDays([]*booking.Booking{a}, nil)
	if !onlyA.Selectable(date(2024, 6, 10)) {
		t.Fatal("A's checkout day must stay selectable")
	}

	both := BuildOccupiedDays([]*booking.Booking{a, b}, nil)
	if !both.Contains(date(2024, 6, 10)) {
		t.Fatal("B's check-in day must be occupied once B exists")
	}
	if both.Contains(date(2024, 6, 12)) {
		t.Fatal("B's checkout day must not be occupied")
	}
}

func TestDays_Sorted(t *testing.T) {
	set := FromDays([]time.Time{date(2024, 7, 3), date(2024, 7, 1), date(2024, 7, 2)})
	days := set.Days()
	for i := 1; i < len(days); i++ {
		if !days[i-1].Before(days[i]) {
			t.Fatalf("days not sorted: %v", days)
		}
	}
}
