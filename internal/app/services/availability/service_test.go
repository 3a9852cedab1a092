package availability

import (
	"context"
	"errors"
	"testing"
	"time"

	domainbooking "wayfare/internal/domain/booking"
	domainlisting "wayfare/internal/domain/listing"
	domainrange "wayfare/internal/domain/shared/daterange"
	"wayfare/internal/infra/storage/memory"
)

type fakeCache struct {
	entries map[domainlisting.ListingID][]time.Time
	getErr  error
	setErr  error
	dropErr error
	gets    int
	sets    int
	drops   int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[domainlisting.ListingID][]time.Time)}
}

func (f *fakeCache) Get(ctx context.Context, id domainlisting.ListingID) ([]time.Time, bool, error) {
	f.gets++
	if f.getErr != nil {
		return nil, false, f.getErr
	}
	days, ok := f.entries[id]
	return days, ok, nil
}

func (f *fakeCache) Set(ctx context.Context, id domainlisting.ListingID, days []time.Time) error {
	f.sets++
	if f.setErr != nil {
		return f.setErr
	}
	f.entries[id] = days
	return nil
}

func (f *fakeCache) Invalidate(ctx context.Context, id domainlisting.ListingID) error {
	f.drops++
	if f.dropErr != nil {
		return f.dropErr
	}
	delete(f.entries, id)
	return nil
}

func seedBooking(t *testing.T, repo *memory.BookingRepository, listingID string, checkIn, checkOut time.Time) {
	t.Helper()
	b, err := domainbooking.New(domainbooking.CreateParams{
		ID:        domainbooking.BookingID("b-" + checkIn.Format(time.DateOnly)),
		ListingID: domainlisting.ListingID(listingID),
		GuestID:   "guest-1",
		Range:     domainrange.DateRange{CheckIn: checkIn, CheckOut: checkOut},
		Guests:    2,
	})
	if err != nil {
		t.Fatalf("build booking: %v", err)
	}
	if err := repo.Save(t.Context(), b); err != nil {
		t.Fatalf("save booking: %v", err)
	}
}

func TestOccupiedForCachesDerivedSet(t *testing.T) {
	repo := memory.NewBookingRepository()
	cache := newFakeCache()
	svc := &Service{Bookings: repo, Cache: cache}

	checkIn := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	seedBooking(t, repo, "listing-1", checkIn, checkIn.AddDate(0, 0, 3))

	set, err := svc.OccupiedFor(t.Context(), "listing-1")
	if err != nil {
		t.Fatalf("OccupiedFor: %v", err)
	}
	if set.Len() != 3 {
		t.Fatalf("Len = %d, want 3", set.Len())
	}
	if cache.sets != 1 {
		t.Fatalf("cache sets = %d, want 1", cache.sets)
	}

	// Second read is served from the cache.
	set, err = svc.OccupiedFor(t.Context(), "listing-1")
	if err != nil {
		t.Fatalf("second OccupiedFor: %v", err)
	}
	if set.Len() != 3 {
		t.Fatalf("cached Len = %d, want 3", set.Len())
	}
	if cache.sets != 1 {
		t.Fatalf("cache sets after hit = %d, want 1", cache.sets)
	}
}

func TestOccupiedForSurvivesCacheFailure(t *testing.T) {
	repo := memory.NewBookingRepository()
	cache := newFakeCache()
	cache.getErr = errors.New("connection refused")
	cache.setErr = errors.New("connection refused")
	svc := &Service{Bookings: repo, Cache: cache}

	checkIn := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	seedBooking(t, repo, "listing-1", checkIn, checkIn.AddDate(0, 0, 2))

	set, err := svc.OccupiedFor(t.Context(), "listing-1")
	if err != nil {
		t.Fatalf("OccupiedFor with broken cache: %v", err)
	}
	if set.Len() != 2 {
		t.Fatalf("Len = %d, want 2", set.Len())
	}
}

func TestInvalidateDropsEntry(t *testing.T) {
	repo := memory.NewBookingRepository()
	cache := newFakeCache()
	svc := &Service{Bookings: repo, Cache: cache}

	checkIn := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	seedBooking(t, repo, "listing-1", checkIn, checkIn.AddDate(0, 0, 1))

	if _, err := svc.OccupiedFor(t.Context(), "listing-1"); err != nil {
		t.Fatalf("OccupiedFor: %v", err)
	}
	svc.Invalidate(t.Context(), "listing-1")
	if cache.drops != 1 {
		t.Fatalf("drops = %d, want 1", cache.drops)
	}

	// A new booking after invalidation is reflected on the next read.
	seedBooking(t, repo, "listing-1", checkIn.AddDate(0, 0, 5), checkIn.AddDate(0, 0, 7))
	set, err := svc.OccupiedFor(t.Context(), "listing-1")
	if err != nil {
		t.Fatalf("OccupiedFor after invalidate: %v", err)
	}
	if set.Len() != 3 {
		t.Fatalf("Len = %d, want 3", set.Len())
	}
}
