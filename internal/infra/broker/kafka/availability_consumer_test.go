package kafka

import (
	"context"
	"testing"

	domainlisting "wayfare/internal/domain/listing"
)

type dropRecorder struct {
	dropped []domainlisting.ListingID
}

func (d *dropRecorder) Invalidate(_ context.Context, id domainlisting.ListingID) error {
	d.dropped = append(d.dropped, id)
	return nil
}

func TestInvalidateDropsNamedListing(t *testing.T) {
	rec := &dropRecorder{}
	c := &AvailabilityConsumer{cache: rec}

	c.invalidate(context.Background(), []byte(`{"event":"booking.created","listingId":"l1"}`))
	if len(rec.dropped) != 1 || rec.dropped[0] != "l1" {
		t.Fatalf("dropped = %v, want [l1]", rec.dropped)
	}
}

func TestInvalidateIgnoresBadPayloads(t *testing.T) {
	rec := &dropRecorder{}
	c := &AvailabilityConsumer{cache: rec}

	c.invalidate(context.Background(), []byte(`not json`))
	c.invalidate(context.Background(), []byte(`{"event":"booking.created"}`))
	if len(rec.dropped) != 0 {
		t.Fatalf("nothing must be dropped for undecodable or unaddressed events, got %v", rec.dropped)
	}
}
