package booking

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"

	availabilitysvc "wayfare/internal/app/services/availability"
	domainavailability "wayfare/internal/domain/availability"
	domainbooking "wayfare/internal/domain/booking"
	domainlisting "wayfare/internal/domain/listing"
	domainrange "wayfare/internal/domain/shared/daterange"
)

var (
	ErrListingNotBookable = errors.New("booking: listing is not open for bookings")
)

// EventPublisher notifies downstream consumers about booking changes.
type EventPublisher interface {
	BookingCreated(ctx context.Context, b *domainbooking.Booking)
	BookingDeleted(ctx context.Context, b *domainbooking.Booking)
}

// Service owns the reservation admission flow: validate the candidate
// against the listing and the occupancy authority, price it, reserve the
// days under the occupancy's version check, then persist. Two concurrent
// requests for overlapping days race on the occupancy save; the loser's
// version check fails and nothing of it is stored.
type Service struct {
	Bookings     domainbooking.Repository
	Listings     domainlisting.Repository
	Occupancies  domainavailability.OccupancyRepository
	Availability *availabilitysvc.Service
	Events       EventPublisher
	Logger       *slog.Logger
	Now          func() time.Time
}

type CreateParams struct {
	ListingID  string
	GuestID    string
	CheckIn    time.Time
	CheckOut   time.Time
	Guests     int
	TotalPrice float64
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*domainbooking.Booking, error) {
	l, err := s.Listings.ByID(ctx, domainlisting.ListingID(params.ListingID))
	if err != nil {
		return nil, err
	}
	if !l.Bookable() {
		return nil, ErrListingNotBookable
	}

	now := s.now()
	occupancy, err := s.Occupancies.ByListing(ctx, l.ID)
	if err != nil {
		return nil, err
	}

	candidate := domainbooking.Candidate{CheckIn: params.CheckIn, CheckOut: params.CheckOut, Guests: params.Guests}
	dr, err := domainbooking.ValidateCandidate(candidate, l, occupancy, now)
	if err != nil {
		return nil, err
	}

	total := domainbooking.Quote(dr, l.Price)
	if params.TotalPrice != 0 && math.Abs(params.TotalPrice-total) > 0.005 {
		return nil, domainbooking.ErrPriceMismatch
	}

	if err := occupancy.Reserve(dr, now); err != nil {
		return nil, err
	}
	// The versioned save is the admission point: a concurrent create for
	// any of the same days loses here with a conflict.
	if err := s.Occupancies.Save(ctx, occupancy); err != nil {
		return nil, err
	}

	b, err := domainbooking.New(domainbooking.CreateParams{
		ID:         domainbooking.BookingID(uuid.NewString()),
		ListingID:  l.ID,
		GuestID:    params.GuestID,
		Range:      dr,
		Guests:     params.Guests,
		TotalPrice: total,
		CreatedAt:  now,
	})
	if err != nil {
		s.releaseDays(ctx, l.ID, dr)
		return nil, err
	}
	if err := s.Bookings.Save(ctx, b); err != nil {
		s.releaseDays(ctx, l.ID, dr)
		return nil, err
	}

	// The stored booking list changed; the derived set must not survive it.
	s.Availability.Invalidate(ctx, l.ID)
	if s.Events != nil {
		s.Events.BookingCreated(ctx, b)
	}
	if s.Logger != nil {
		s.Logger.Info("booking created", "booking_id", b.ID, "listing_id", b.ListingID, "guest_id", b.GuestID, "total", b.TotalPrice)
	}
	return b, nil
}

func (s *Service) ForListing(ctx context.Context, listingID string) ([]*domainbooking.Booking, error) {
	return s.Bookings.ByListing(ctx, domainlisting.ListingID(listingID))
}

func (s *Service) ForGuest(ctx context.Context, guestID string) ([]*domainbooking.Booking, error) {
	return s.Bookings.ByGuest(ctx, guestID)
}

func (s *Service) All(ctx context.Context) ([]*domainbooking.Booking, error) {
	return s.Bookings.All(ctx)
}

func (s *Service) ByID(ctx context.Context, id string) (*domainbooking.Booking, error) {
	return s.Bookings.ByID(ctx, domainbooking.BookingID(id))
}

func (s *Service) Delete(ctx context.Context, id string) error {
	b, err := s.Bookings.ByID(ctx, domainbooking.BookingID(id))
	if err != nil {
		return err
	}
	if err := s.Bookings.Delete(ctx, b.ID); err != nil {
		return err
	}
	s.releaseDays(ctx, b.ListingID, b.Range)
	s.Availability.Invalidate(ctx, b.ListingID)
	if s.Events != nil {
		s.Events.BookingDeleted(ctx, b)
	}
	if s.Logger != nil {
		s.Logger.Info("booking deleted", "booking_id", b.ID, "listing_id", b.ListingID)
	}
	return nil
}

// releaseDays frees the reserved days again, re-reading the aggregate on a
// version conflict so a concurrent reservation is never clobbered.
func (s *Service) releaseDays(ctx context.Context, listingID domainlisting.ListingID, dr domainrange.DateRange) {
	now := s.now()
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		occupancy, err := s.Occupancies.ByListing(ctx, listingID)
		if err != nil {
			lastErr = err
			break
		}
		occupancy.Release(dr, now)
		if lastErr = s.Occupancies.Save(ctx, occupancy); lastErr == nil {
			return
		}
	}
	if s.Logger != nil {
		s.Logger.Error("occupancy release failed", "listing_id", listingID, "check_in", dr.CheckIn, "check_out", dr.CheckOut, "error", lastErr)
	}
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}
