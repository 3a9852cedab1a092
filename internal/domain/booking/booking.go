package booking

import (
	"context"
	"errors"
	"time"

	"wayfare/internal/domain/listing"
	"wayfare/internal/domain/shared/daterange"
)

var (
	ErrIncompleteRequest = errors.New("booking: incomplete request")
	ErrInvalidDateRange  = errors.New("booking: check-out date must be after check-in date")
	ErrCheckInPast       = errors.New("booking: check-in date cannot be in the past")
	ErrTooManyGuests     = errors.New("booking: guest count exceeds capacity")
	ErrDatesUnavailable  = errors.New("booking: date range overlaps an existing booking")
	ErrPriceMismatch     = errors.New("booking: quoted total does not match the requested dates")
	ErrNotFound          = errors.New("booking: not found")
)

type BookingID string

// Booking is a confirmed reservation of a listing for a half-open day range.
type Booking struct {
	ID         BookingID
	ListingID  listing.ListingID
	GuestID    string
	Range      daterange.DateRange
	Guests     int
	TotalPrice float64
	Paid       bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
	Version    int64
}

type Repository interface {
	ByID(ctx context.Context, id BookingID) (*Booking, error)
	ByListing(ctx context.Context, id listing.ListingID) ([]*Booking, error)
	ByGuest(ctx context.Context, guestID string) ([]*Booking, error)
	All(ctx context.Context) ([]*Booking, error)
	Save(ctx context.Context, b *Booking) error
	Delete(ctx context.Context, id BookingID) error
}

// OccupiedDays answers whether a calendar day is already taken for a listing.
type OccupiedDays interface {
	Contains(day time.Time) bool
}

// Candidate is a not-yet-submitted reservation request.
type Candidate struct {
	CheckIn  time.Time
	CheckOut time.Time
	Guests   int
}

// ValidateCandidate runs the admission checks in order; the first failing
// check wins and no later check runs.
//
//  1. both dates present and at least one guest
//  2. check-out strictly after check-in
//  3. check-in not before today (same-day check-in allowed)
//  4. guest count within the listing capacity
//  5. no requested day already occupied
//
// On success it returns the normalized half-open range.
func ValidateCandidate(c Candidate, l *listing.Listing, occupied OccupiedDays, now time.Time) (daterange.DateRange, error) {
	if c.CheckIn.IsZero() || c.CheckOut.IsZero() || c.Guests < 1 {
		return daterange.DateRange{}, ErrIncompleteRequest
	}
	dr, err := daterange.New(c.CheckIn, c.CheckOut)
	if err != nil {
		return daterange.DateRange{}, ErrInvalidDateRange
	}
	if daterange.Day(dr.CheckIn).Before(daterange.Day(now)) {
		return daterange.DateRange{}, ErrCheckInPast
	}
	if l != nil && c.Guests > l.MaxGuests {
		return daterange.DateRange{}, ErrTooManyGuests
	}
	if occupied != nil {
		for _, day := range dr.Days() {
			if occupied.Contains(day) {
				return daterange.DateRange{}, ErrDatesUnavailable
			}
		}
	}
	return dr, nil
}

// Quote prices the range at the listing's nightly rate.
func Quote(dr daterange.DateRange, pricePerNight float64) float64 {
	return float64(dr.Nights()) * pricePerNight
}

type CreateParams struct {
	ID         BookingID
	ListingID  listing.ListingID
	GuestID    string
	Range      daterange.DateRange
	Guests     int
	TotalPrice float64
	CreatedAt  time.Time
}

func New(params CreateParams) (*Booking, error) {
	if params.ID == "" || params.ListingID == "" || params.GuestID == "" {
		return nil, ErrIncompleteRequest
	}
	if err := params.Range.Validate(); err != nil {
		return nil, ErrInvalidDateRange
	}
	if params.Guests < 1 {
		return nil, ErrIncompleteRequest
	}
	now := params.CreatedAt
	if now.IsZero() {
		now = time.Now()
	}
	now = now.UTC()
	return &Booking{
		ID:         params.ID,
		ListingID:  params.ListingID,
		GuestID:    params.GuestID,
		Range:      params.Range,
		Guests:     params.Guests,
		TotalPrice: params.TotalPrice,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}
