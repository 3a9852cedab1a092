package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	domainlisting "wayfare/internal/domain/listing"
)

// ListingRepository is an in-memory implementation used in tests and when no
// Mongo URI is configured.
type ListingRepository struct {
	mu    sync.RWMutex
	items map[domainlisting.ListingID]*domainlisting.Listing
}

func NewListingRepository() *ListingRepository {
	return &ListingRepository{items: make(map[domainlisting.ListingID]*domainlisting.Listing)}
}

func (r *ListingRepository) ByID(ctx context.Context, id domainlisting.ListingID) (*domainlisting.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.items[id]
	if !ok {
		return nil, domainlisting.ErrNotFound
	}
	return cloneListing(l), nil
}

func (r *ListingRepository) Save(ctx context.Context, l *domainlisting.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	l.Version++
	r.items[l.ID] = cloneListing(l)
	return nil
}

func (r *ListingRepository) Delete(ctx context.Context, id domainlisting.ListingID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return domainlisting.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *ListingRepository) Search(ctx context.Context, params domainlisting.SearchParams) (domainlisting.SearchResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matches := make([]*domainlisting.Listing, 0, len(r.items))
	for _, l := range r.items {
		select {
		case <-ctx.Done():
			return domainlisting.SearchResult{}, ctx.Err()
		default:
		}
		if len(params.Statuses) > 0 && !statusIncluded(l.Status, params.Statuses) {
			continue
		}
		if params.Location != "" && !strings.Contains(strings.ToLower(l.Location), strings.ToLower(params.Location)) {
			continue
		}
		if params.Guests > 0 && l.MaxGuests < params.Guests {
			continue
		}
		matches = append(matches, cloneListing(l))
	}

	sort.Slice(matches, func(i, j int) bool {
		switch params.Sort {
		case "-price":
			return matches[i].Price > matches[j].Price
		case "rating":
			return matches[i].RatingsAverage > matches[j].RatingsAverage
		default:
			return matches[i].Price < matches[j].Price
		}
	})

	total := len(matches)
	page := params.Page
	if page < 1 {
		page = 1
	}
	limit := params.Limit
	if limit < 1 {
		limit = total
	}
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}
	return domainlisting.SearchResult{Items: matches[start:end], Total: total}, nil
}

func statusIncluded(status domainlisting.Status, allowed []domainlisting.Status) bool {
	for _, s := range allowed {
		if s == status {
			return true
		}
	}
	return false
}

func cloneListing(l *domainlisting.Listing) *domainlisting.Listing {
	if l == nil {
		return nil
	}
	copied := *l
	copied.Amenities = append([]string(nil), l.Amenities...)
	copied.Images = append([]string(nil), l.Images...)
	return &copied
}
