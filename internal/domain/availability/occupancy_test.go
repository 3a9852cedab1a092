package availability

import (
	"errors"
	"testing"
	"time"

	"wayfare/internal/domain/booking"
)

func TestOccupancyReserveHalfOpen(t *testing.T) {
	o := NewOccupancy("l1")
	now := date(2024, 6, 1)

	if err := o.Reserve(mustRange(t, date(2024, 6, 8), date(2024, 6, 10)), now); err != nil {
		t.Fatalf("Reserve: %v", err)
	}
	if !o.Contains(date(2024, 6, 8)) || !o.Contains(date(2024, 6, 9)) {
		t.Fatal("reserved days must be taken")
	}
	if o.Contains(date(2024, 6, 10)) {
		t.Fatal("checkout day must stay free")
	}

	// Any shared day blocks the whole range, atomically.
	err := o.Reserve(mustRange(t, date(2024, 6, 9), date(2024, 6, 12)), now)
	if !errors.Is(err, booking.ErrDatesUnavailable) {
		t.Fatalf("expected ErrDatesUnavailable, got %v", err)
	}
	if o.Contains(date(2024, 6, 11)) {
		t.Fatal("rejected reservation must not leave partial days behind")
	}

	// Back-to-back on the checkout boundary is admissible.
	if err := o.Reserve(mustRange(t, date(2024, 6, 10), date(2024, 6, 12)), now); err != nil {
		t.Fatalf("back-to-back Reserve: %v", err)
	}
}

func TestOccupancyReleaseFreesDays(t *testing.T) {
	o := NewOccupancy("l1")
	now := date(2024, 6, 1)
	dr := mustRange(t, date(2024, 7, 1), date(2024, 7, 3))

	if err := o.Reserve(dr, now); err != nil {
		t.Fatalf("Reserve: %v", err)
	}
	o.Release(dr, now)
	if o.Len() != 0 {
		t.Fatalf("Len = %d after release, want 0", o.Len())
	}
	if err := o.Reserve(dr, now); err != nil {
		t.Fatalf("Reserve after release: %v", err)
	}
}

func TestOccupancyFromDaysNormalizes(t *testing.T) {
	o := OccupancyFromDays("l1", []time.Time{
		time.Date(2024, 6, 8, 15, 30, 0, 0, time.UTC),
	}, 3, date(2024, 6, 1))
	if !o.Contains(date(2024, 6, 8)) {
		t.Fatal("time-of-day must not affect membership")
	}
	if o.Version != 3 {
		t.Fatalf("Version = %d, want 3", o.Version)
	}
}
