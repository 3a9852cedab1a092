package availability

import (
	"context"
	"log/slog"
	"time"

	domainavailability "wayfare/internal/domain/availability"
	domainbooking "wayfare/internal/domain/booking"
	domainlisting "wayfare/internal/domain/listing"
)

// DayCache stores derived occupied-day sets keyed by listing. Implementations
// may fail soft: a cache miss or error only costs a recomputation.
type DayCache interface {
	Get(ctx context.Context, id domainlisting.ListingID) ([]time.Time, bool, error)
	Set(ctx context.Context, id domainlisting.ListingID, days []time.Time) error
	Invalidate(ctx context.Context, id domainlisting.ListingID) error
}

// Service derives the occupied-day set for a listing from its bookings.
type Service struct {
	Bookings domainbooking.Repository
	Cache    DayCache
	Logger   *slog.Logger
}

// OccupiedFor returns the current occupied-day set for the listing,
// consulting the cache first. The set must be re-derived whenever the
// booking list changes; writers call Invalidate for that.
func (s *Service) OccupiedFor(ctx context.Context, id domainlisting.ListingID) (domainavailability.OccupiedDaySet, error) {
	if s.Cache != nil {
		days, ok, err := s.Cache.Get(ctx, id)
		if err != nil && s.Logger != nil {
			s.Logger.Warn("availability cache read failed", "listing_id", id, "error", err)
		}
		if ok {
			return domainavailability.FromDays(days), nil
		}
	}

	bookings, err := s.Bookings.ByListing(ctx, id)
	if err != nil {
		return domainavailability.OccupiedDaySet{}, err
	}
	set := domainavailability.BuildOccupiedDays(bookings, s.Logger)

	if s.Cache != nil {
		if err := s.Cache.Set(ctx, id, set.Days()); err != nil && s.Logger != nil {
			s.Logger.Warn("availability cache write failed", "listing_id", id, "error", err)
		}
	}
	return set, nil
}

// Invalidate drops the cached set so the next read re-derives it.
func (s *Service) Invalidate(ctx context.Context, id domainlisting.ListingID) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Invalidate(ctx, id); err != nil && s.Logger != nil {
		s.Logger.Warn("availability cache invalidation failed", "listing_id", id, "error", err)
	}
}
