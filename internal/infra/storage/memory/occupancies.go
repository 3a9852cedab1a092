package memory

import (
	"context"
	"sync"
	"time"

	domainavailability "wayfare/internal/domain/availability"
	domainlisting "wayfare/internal/domain/listing"
)

// OccupancyRepository stores per-listing occupancy aggregates with the same
// optimistic version check the Mongo repository applies.
type OccupancyRepository struct {
	mu    sync.RWMutex
	items map[domainlisting.ListingID]*storedOccupancy
}

type storedOccupancy struct {
	days      []time.Time
	updatedAt time.Time
	version   int64
}

func NewOccupancyRepository() *OccupancyRepository {
	return &OccupancyRepository{items: make(map[domainlisting.ListingID]*storedOccupancy)}
}

func (r *OccupancyRepository) ByListing(ctx context.Context, id domainlisting.ListingID) (*domainavailability.Occupancy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stored, ok := r.items[id]
	if !ok {
		return domainavailability.NewOccupancy(id), nil
	}
	return domainavailability.OccupancyFromDays(id, stored.days, stored.version, stored.updatedAt), nil
}

func (r *OccupancyRepository) Save(ctx context.Context, o *domainavailability.Occupancy) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if stored, ok := r.items[o.ListingID]; ok && stored.version != o.Version {
		return ErrConcurrentUpdate
	}
	o.Version++
	r.items[o.ListingID] = &storedOccupancy{
		days:      o.Days(),
		updatedAt: o.UpdatedAt,
		version:   o.Version,
	}
	return nil
}
