package booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	availabilitysvc "wayfare/internal/app/services/availability"
	domainavailability "wayfare/internal/domain/availability"
	domainbooking "wayfare/internal/domain/booking"
	domainlisting "wayfare/internal/domain/listing"
	"wayfare/internal/infra/storage/memory"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newService(t *testing.T) (*Service, *memory.BookingRepository) {
	t.Helper()
	listings := memory.NewListingRepository()
	bookings := memory.NewBookingRepository()

	l, err := domainlisting.New(domainlisting.CreateParams{
		ID:        "l1",
		Title:     "Seaside cabin",
		Location:  "Lisbon",
		Price:     100,
		MaxGuests: 4,
	})
	if err != nil {
		t.Fatalf("listing.New: %v", err)
	}
	if err := l.SetStatus(domainlisting.StatusApproved, time.Now()); err != nil {
		t.Fatalf("SetStatus: %v", err)
	}
	if err := listings.Save(context.Background(), l); err != nil {
		t.Fatalf("listings.Save: %v", err)
	}

	svc := &Service{
		Bookings:     bookings,
		Listings:     listings,
		Occupancies:  memory.NewOccupancyRepository(),
		Availability: &availabilitysvc.Service{Bookings: bookings},
		Now:          func() time.Time { return date(2024, 6, 1) },
	}
	return svc, bookings
}

func TestCreate_AcceptsAndPrices(t *testing.T) {
	svc, bookings := newService(t)
	b, err := svc.Create(context.Background(), CreateParams{
		ListingID: "l1",
		GuestID:   "g1",
		CheckIn:   date(2024, 7, 1),
		CheckOut:  date(2024, 7, 4),
		Guests:    2,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if b.TotalPrice != 300 {
		t.Fatalf("expected total 300, got %v", b.TotalPrice)
	}
	stored, err := bookings.ByID(context.Background(), b.ID)
	if err != nil {
		t.Fatalf("stored booking missing: %v", err)
	}
	if stored.Guests != 2 || stored.Paid {
		t.Fatalf("unexpected stored booking: %+v", stored)
	}
}

func TestCreate_RejectsExcessGuests(t *testing.T) {
	svc, bookings := newService(t)
	_, err := svc.Create(context.Background(), CreateParams{
		ListingID: "l1",
		GuestID:   "g1",
		CheckIn:   date(2024, 7, 1),
		CheckOut:  date(2024, 7, 4),
		Guests:    5,
	})
	if !errors.Is(err, domainbooking.ErrTooManyGuests) {
		t.Fatalf("expected ErrTooManyGuests, got %v", err)
	}
	all, _ := bookings.All(context.Background())
	if len(all) != 0 {
		t.Fatal("rejected request must not persist anything")
	}
}

func TestCreate_RejectsOverlapWithRefreshedAvailability(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	if _, err := svc.Create(ctx, CreateParams{
		ListingID: "l1", GuestID: "g1",
		CheckIn: date(2024, 7, 2), CheckOut: date(2024, 7, 3), Guests: 2,
	}); err != nil {
		t.Fatalf("first booking: %v", err)
	}
	// Occupied set must reflect the first booking within the same session.
	_, err := svc.Create(ctx, CreateParams{
		ListingID: "l1", GuestID: "g2",
		CheckIn: date(2024, 7, 1), CheckOut: date(2024, 7, 3), Guests: 2,
	})
	if !errors.Is(err, domainbooking.ErrDatesUnavailable) {
		t.Fatalf("expected ErrDatesUnavailable, got %v", err)
	}
}

func TestCreate_AllowsBackToBack(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	if _, err := svc.Create(ctx, CreateParams{
		ListingID: "l1", GuestID: "g1",
		CheckIn: date(2024, 6, 8), CheckOut: date(2024, 6, 10), Guests: 2,
	}); err != nil {
		t.Fatalf("first booking: %v", err)
	}
	if _, err := svc.Create(ctx, CreateParams{
		ListingID: "l1", GuestID: "g2",
		CheckIn: date(2024, 6, 10), CheckOut: date(2024, 6, 12), Guests: 2,
	}); err != nil {
		t.Fatalf("back-to-back booking must be admissible, got %v", err)
	}
}

func TestCreate_RejectsQuotedPriceMismatch(t *testing.T) {
	svc, _ := newService(t)
	_, err := svc.Create(context.Background(), CreateParams{
		ListingID: "l1", GuestID: "g1",
		CheckIn: date(2024, 7, 1), CheckOut: date(2024, 7, 4),
		Guests: 2, TotalPrice: 250,
	})
	if !errors.Is(err, domainbooking.ErrPriceMismatch) {
		t.Fatalf("expected ErrPriceMismatch, got %v", err)
	}
}

func TestCreate_RejectsUnapprovedListing(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	l, err := domainlisting.New(domainlisting.CreateParams{
		ID: "l2", Title: "Attic", Location: "Porto", Price: 50, MaxGuests: 2,
	})
	if err != nil {
		t.Fatalf("listing.New: %v", err)
	}
	if err := svc.Listings.Save(ctx, l); err != nil {
		t.Fatalf("Save: %v", err)
	}
	_, err = svc.Create(ctx, CreateParams{
		ListingID: "l2", GuestID: "g1",
		CheckIn: date(2024, 7, 1), CheckOut: date(2024, 7, 2), Guests: 1,
	})
	if !errors.Is(err, ErrListingNotBookable) {
		t.Fatalf("expected ErrListingNotBookable, got %v", err)
	}
}

// rendezvousOccupancyRepo holds every reader at a barrier until all
// expected reads happened, so concurrent creates validate against the same
// stale occupancy snapshot.
type rendezvousOccupancyRepo struct {
	inner *memory.OccupancyRepository
	reads *sync.WaitGroup
}

func (r *rendezvousOccupancyRepo) ByListing(ctx context.Context, id domainlisting.ListingID) (*domainavailability.Occupancy, error) {
	o, err := r.inner.ByListing(ctx, id)
	r.reads.Done()
	r.reads.Wait()
	return o, err
}

func (r *rendezvousOccupancyRepo) Save(ctx context.Context, o *domainavailability.Occupancy) error {
	return r.inner.Save(ctx, o)
}

func TestCreate_ConcurrentOverlapAdmitsOne(t *testing.T) {
	svc, bookings := newService(t)
	reads := &sync.WaitGroup{}
	reads.Add(2)
	svc.Occupancies = &rendezvousOccupancyRepo{inner: memory.NewOccupancyRepository(), reads: reads}

	ctx := context.Background()
	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int, guest string) {
			defer wg.Done()
			_, errs[i] = svc.Create(ctx, CreateParams{
				ListingID: "l1", GuestID: guest,
				CheckIn: date(2024, 7, 1), CheckOut: date(2024, 7, 4), Guests: 2,
			})
		}(i, []string{"g1", "g2"}[i])
	}
	wg.Wait()

	var failures int
	for _, err := range errs {
		if err == nil {
			continue
		}
		failures++
		if !errors.Is(err, memory.ErrConcurrentUpdate) {
			t.Fatalf("loser must fail the occupancy version check, got %v", err)
		}
	}
	if failures != 1 {
		t.Fatalf("expected exactly one rejected create, got %d (errs: %v)", failures, errs)
	}
	all, err := bookings.All(ctx)
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected a single persisted booking, got %d", len(all))
	}
}

func TestDelete_FreesDays(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	b, err := svc.Create(ctx, CreateParams{
		ListingID: "l1", GuestID: "g1",
		CheckIn: date(2024, 7, 1), CheckOut: date(2024, 7, 3), Guests: 2,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := svc.Delete(ctx, string(b.ID)); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := svc.Create(ctx, CreateParams{
		ListingID: "l1", GuestID: "g2",
		CheckIn: date(2024, 7, 1), CheckOut: date(2024, 7, 3), Guests: 2,
	}); err != nil {
		t.Fatalf("days must be free again after delete, got %v", err)
	}
}
