package booking

import (
	"errors"
	"testing"
	"time"

	"wayfare/internal/domain/listing"
	"wayfare/internal/domain/shared/daterange"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type occupiedDays map[time.Time]struct{}

func (o occupiedDays) Contains(day time.Time) bool {
	_, ok := o[daterange.Day(day)]
	return ok
}

func testListing() *listing.Listing {
	return &listing.Listing{
		ID:        "l1",
		Title:     "Seaside cabin",
		Location:  "Lisbon",
		Price:     100,
		MaxGuests: 4,
		Status:    listing.StatusApproved,
	}
}

func TestValidateCandidate_AcceptsAndQuotes(t *testing.T) {
	now := date(2024, 6, 1)
	cand := Candidate{CheckIn: date(2024, 7, 1), CheckOut: date(2024, 7, 4), Guests: 2}
	dr, err := ValidateCandidate(cand, testListing(), occupiedDays{}, now)
	if err != nil {
		t.Fatalf("expected acceptance, got %v", err)
	}
	if got := Quote(dr, 100); got != 300 {
		t.Fatalf("expected total 300, got %v", got)
	}
}

func TestValidateCandidate_Incomplete(t *testing.T) {
	now := date(2024, 6, 1)
	cases := []Candidate{
		{CheckOut: date(2024, 7, 4), Guests: 2},
		{CheckIn: date(2024, 7, 1), Guests: 2},
		{CheckIn: date(2024, 7, 1), CheckOut: date(2024, 7, 4), Guests: 0},
	}
	for i, cand := range cases {
		if _, err := ValidateCandidate(cand, testListing(), occupiedDays{}, now); !errors.Is(err, ErrIncompleteRequest) {
			t.Fatalf("case %d: expected ErrIncompleteRequest, got %v", i, err)
		}
	}
}

func TestValidateCandidate_InvalidRange(t *testing.T) {
	now := date(2024, 6, 1)
	cand := Candidate{CheckIn: date(2024, 7, 4), CheckOut: date(2024, 7, 4), Guests: 2}
	if _, err := ValidateCandidate(cand, testListing(), occupiedDays{}, now); !errors.Is(err, ErrInvalidDateRange) {
		t.Fatalf("equal dates: expected ErrInvalidDateRange, got %v", err)
	}
}

func TestValidateCandidate_PastCheckIn(t *testing.T) {
	now := time.Date(2024, 7, 2, 18, 30, 0, 0, time.UTC)
	past := Candidate{CheckIn: date(2024, 7, 1), CheckOut: date(2024, 7, 5), Guests: 2}
	if _, err := ValidateCandidate(past, testListing(), occupiedDays{}, now); !errors.Is(err, ErrCheckInPast) {
		t.Fatalf("expected ErrCheckInPast, got %v", err)
	}
	// Same-day check-in is allowed even late in the day.
	sameDay := Candidate{CheckIn: date(2024, 7, 2), CheckOut: date(2024, 7, 5), Guests: 2}
	if _, err := ValidateCandidate(sameDay, testListing(), occupiedDays{}, now); err != nil {
		t.Fatalf("same-day check-in must be allowed, got %v", err)
	}
}

func TestValidateCandidate_GuestCapacity(t *testing.T) {
	now := date(2024, 6, 1)
	cand := Candidate{CheckIn: date(2024, 7, 1), CheckOut: date(2024, 7, 4), Guests: 5}
	if _, err := ValidateCandidate(cand, testListing(), occupiedDays{}, now); !errors.Is(err, ErrTooManyGuests) {
		t.Fatalf("expected ErrTooManyGuests, got %v", err)
	}
}

func TestValidateCandidate_Overlap(t *testing.T) {
	now := date(2024, 6, 1)
	occupied := occupiedDays{date(2024, 7, 2): {}}
	cand := Candidate{CheckIn: date(2024, 7, 1), CheckOut: date(2024, 7, 3), Guests: 2}
	if _, err := ValidateCandidate(cand, testListing(), occupied, now); !errors.Is(err, ErrDatesUnavailable) {
		t.Fatalf("expected ErrDatesUnavailable, got %v", err)
	}
	// A range ending where the occupation starts stays admissible.
	before := Candidate{CheckIn: date(2024, 7, 1), CheckOut: date(2024, 7, 2), Guests: 2}
	if _, err := ValidateCandidate(before, testListing(), occupied, now); err != nil {
		t.Fatalf("range ending at occupied day must be admissible, got %v", err)
	}
}

func TestValidateCandidate_ShortCircuitOrder(t *testing.T) {
	now := date(2024, 7, 10)
	// Everything is wrong at once: inverted range, past check-in, too many
	// guests, occupied days. The range check must win after completeness.
	occupied := occupiedDays{date(2024, 7, 1): {}}
	cand := Candidate{CheckIn: date(2024, 7, 3), CheckOut: date(2024, 7, 1), Guests: 9}
	if _, err := ValidateCandidate(cand, testListing(), occupied, now); !errors.Is(err, ErrInvalidDateRange) {
		t.Fatalf("expected ErrInvalidDateRange first, got %v", err)
	}
	// With a valid future range, capacity must be reported before overlap.
	occupied = occupiedDays{date(2024, 7, 20): {}}
	cand = Candidate{CheckIn: date(2024, 7, 20), CheckOut: date(2024, 7, 22), Guests: 9}
	if _, err := ValidateCandidate(cand, testListing(), occupied, now); !errors.Is(err, ErrTooManyGuests) {
		t.Fatalf("expected ErrTooManyGuests before overlap, got %v", err)
	}
}

func TestNew_RequiresIdentityAndRange(t *testing.T) {
	dr, _ := daterange.New(date(2024, 7, 1), date(2024, 7, 4))
	if _, err := New(CreateParams{ListingID: "l1", GuestID: "g1", Range: dr, Guests: 1}); !errors.Is(err, ErrIncompleteRequest) {
		t.Fatalf("missing id: expected ErrIncompleteRequest, got %v", err)
	}
	b, err := New(CreateParams{ID: "b1", ListingID: "l1", GuestID: "g1", Range: dr, Guests: 2, TotalPrice: 300})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if b.Paid {
		t.Fatal("new bookings must start unpaid")
	}
	if b.CreatedAt.IsZero() || !b.CreatedAt.Equal(b.UpdatedAt) {
		t.Fatal("timestamps must be set and equal on creation")
	}
}
