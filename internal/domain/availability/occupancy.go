package availability

import (
	"context"
	"time"

	"wayfare/internal/domain/booking"
	"wayfare/internal/domain/listing"
	"wayfare/internal/domain/shared/daterange"
)

// Occupancy is the write-side authority for a listing's occupied days.
// Exactly one aggregate exists per listing; every admission reserves its
// days here under the repository's optimistic version check, so two
// concurrent requests for overlapping days cannot both commit — the loser's
// save fails the version filter.
type Occupancy struct {
	ListingID listing.ListingID
	days      map[time.Time]struct{}
	UpdatedAt time.Time
	Version   int64
}

func NewOccupancy(id listing.ListingID) *Occupancy {
	return &Occupancy{ListingID: id, days: make(map[time.Time]struct{})}
}

// OccupancyFromDays rehydrates a stored aggregate.
func OccupancyFromDays(id listing.ListingID, days []time.Time, version int64, updatedAt time.Time) *Occupancy {
	o := NewOccupancy(id)
	for _, d := range days {
		o.days[daterange.Day(d)] = struct{}{}
	}
	o.Version = version
	o.UpdatedAt = updatedAt
	return o
}

func (o *Occupancy) Contains(t time.Time) bool {
	_, ok := o.days[daterange.Day(t)]
	return ok
}

// Reserve marks every day of the half-open range as taken. The checkout
// day stays free for the next stay.
func (o *Occupancy) Reserve(dr daterange.DateRange, now time.Time) error {
	if err := dr.Validate(); err != nil {
		return booking.ErrInvalidDateRange
	}
	days := dr.Days()
	for _, day := range days {
		if _, taken := o.days[day]; taken {
			return booking.ErrDatesUnavailable
		}
	}
	for _, day := range days {
		o.days[day] = struct{}{}
	}
	o.UpdatedAt = now.UTC()
	return nil
}

// Release frees the days of a cancelled booking.
func (o *Occupancy) Release(dr daterange.DateRange, now time.Time) {
	for _, day := range dr.Days() {
		delete(o.days, day)
	}
	o.UpdatedAt = now.UTC()
}

// Days returns the reserved days in no particular order.
func (o *Occupancy) Days() []time.Time {
	out := make([]time.Time, 0, len(o.days))
	for d := range o.days {
		out = append(out, d)
	}
	return out
}

func (o *Occupancy) Len() int {
	return len(o.days)
}

// OccupancyRepository persists per-listing occupancy aggregates. ByListing
// returns a fresh empty aggregate when none is stored yet; Save applies an
// optimistic version check and fails on a concurrent writer.
type OccupancyRepository interface {
	ByListing(ctx context.Context, id listing.ListingID) (*Occupancy, error)
	Save(ctx context.Context, o *Occupancy) error
}
