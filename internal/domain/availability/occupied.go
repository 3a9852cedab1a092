package availability

import (
	"log/slog"
	"sort"
	"time"

	"wayfare/internal/domain/booking"
	"wayfare/internal/domain/shared/daterange"
)

// OccupiedDaySet holds every calendar day covered by an existing booking's
// half-open range, keyed by midnight UTC. Membership is O(1).
type OccupiedDaySet struct {
	days map[time.Time]struct{}
}

func NewOccupiedDaySet() OccupiedDaySet {
	return OccupiedDaySet{days: make(map[time.Time]struct{})}
}

// BuildOccupiedDays expands each booking into its occupied days. Bookings
// with missing or inverted dates are skipped and logged, never fatal; the
// input is not mutated. Rebuilding from the same bookings yields an
// identical set.
func BuildOccupiedDays(bookings []*booking.Booking, logger *slog.Logger) OccupiedDaySet {
	set := NewOccupiedDaySet()
	for _, b := range bookings {
		if b == nil {
			continue
		}
		if err := b.Range.Validate(); err != nil {
			if logger != nil {
				logger.Warn("skipping booking with unusable dates", "booking_id", b.ID, "error", err)
			}
			continue
		}
		for _, day := range b.Range.Days() {
			set.days[day] = struct{}{}
		}
	}
	return set
}

// FromDays rebuilds a set from previously expanded days (e.g. a cache hit).
func FromDays(days []time.Time) OccupiedDaySet {
	set := NewOccupiedDaySet()
	for _, d := range days {
		set.days[daterange.Day(d)] = struct{}{}
	}
	return set
}

// Contains reports whether the calendar day of t is occupied.
func (s OccupiedDaySet) Contains(t time.Time) bool {
	_, ok := s.days[daterange.Day(t)]
	return ok
}

// Selectable is the calendar-cell constraint: a day can start or continue a
// new stay iff no existing booking occupies it. A checkout day is not
// occupied by the booking that ends on it, so back-to-back bookings can
// share that day.
func (s OccupiedDaySet) Selectable(t time.Time) bool {
	return !s.Contains(t)
}

func (s OccupiedDaySet) Len() int {
	return len(s.days)
}

// Days returns the occupied days in ascending order.
func (s OccupiedDaySet) Days() []time.Time {
	out := make([]time.Time, 0, len(s.days))
	for d := range s.days {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}
