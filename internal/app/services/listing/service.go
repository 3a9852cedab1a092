package listing

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	domainavailability "wayfare/internal/domain/availability"
	domainlisting "wayfare/internal/domain/listing"
	domainrange "wayfare/internal/domain/shared/daterange"
)

// ImageStore persists uploaded listing photos and returns public URLs.
type ImageStore interface {
	Upload(ctx context.Context, key string, reader io.Reader, contentType string) (string, error)
}

// AvailabilityReader resolves the occupied-day set of one listing.
type AvailabilityReader interface {
	OccupiedFor(ctx context.Context, id domainlisting.ListingID) (domainavailability.OccupiedDaySet, error)
}

// Service covers the public catalog and the admin moderation surface.
type Service struct {
	Listings     domainlisting.Repository
	Images       ImageStore
	Availability AvailabilityReader
	Logger       *slog.Logger
	Now          func() time.Time
}

// Search serves the public catalog; only approved listings are shown. A
// valid check-in/check-out window additionally hides listings that have
// any of the requested days taken.
func (s *Service) Search(ctx context.Context, params domainlisting.SearchParams) (domainlisting.SearchResult, error) {
	params.Statuses = []domainlisting.Status{domainlisting.StatusApproved}
	dr, err := domainrange.New(params.CheckIn, params.CheckOut)
	if err != nil || s.Availability == nil {
		return s.Listings.Search(ctx, params)
	}
	return s.searchAvailable(ctx, params, dr)
}

// searchAvailable pages in the service instead of the repository: the date
// filter needs the full match set, or a page of fully booked listings
// would come back empty while later pages hold free ones.
func (s *Service) searchAvailable(ctx context.Context, params domainlisting.SearchParams, dr domainrange.DateRange) (domainlisting.SearchResult, error) {
	page, limit := params.Page, params.Limit
	params.Page, params.Limit = 0, 0
	res, err := s.Listings.Search(ctx, params)
	if err != nil {
		return domainlisting.SearchResult{}, err
	}

	free := make([]*domainlisting.Listing, 0, len(res.Items))
	for _, l := range res.Items {
		occupied, err := s.Availability.OccupiedFor(ctx, l.ID)
		if err != nil {
			return domainlisting.SearchResult{}, err
		}
		if windowFree(occupied, dr) {
			free = append(free, l)
		}
	}

	total := len(free)
	if page < 1 {
		page = 1
	}
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
	return domainlisting.SearchResult{Items: free[start:end], Total: total}, nil
}

func windowFree(occupied domainavailability.OccupiedDaySet, dr domainrange.DateRange) bool {
	for _, day := range dr.Days() {
		if occupied.Contains(day) {
			return false
		}
	}
	return true
}

// AdminSearch serves the dashboard; status "all" (empty) means no filter.
func (s *Service) AdminSearch(ctx context.Context, statusFilter string, params domainlisting.SearchParams) (domainlisting.SearchResult, error) {
	switch strings.ToLower(strings.TrimSpace(statusFilter)) {
	case "", "all":
		params.Statuses = []domainlisting.Status{
			domainlisting.StatusPending,
			domainlisting.StatusApproved,
			domainlisting.StatusRejected,
		}
	default:
		status, err := domainlisting.ParseStatus(statusFilter)
		if err != nil {
			return domainlisting.SearchResult{}, err
		}
		params.Statuses = []domainlisting.Status{status}
	}
	return s.Listings.Search(ctx, params)
}

func (s *Service) ByID(ctx context.Context, id string) (*domainlisting.Listing, error) {
	return s.Listings.ByID(ctx, domainlisting.ListingID(id))
}

// Image is one uploaded photo from the multipart admin form.
type Image struct {
	Reader      io.Reader
	Filename    string
	ContentType string
}

type CreateParams struct {
	Host        string
	Title       string
	Description string
	Location    string
	TourType    string
	Price       float64
	MaxGuests   int
	Amenities   []string
	Images      []Image
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*domainlisting.Listing, error) {
	id := domainlisting.ListingID(uuid.NewString())
	urls, err := s.uploadImages(ctx, id, params.Images)
	if err != nil {
		return nil, err
	}
	l, err := domainlisting.New(domainlisting.CreateParams{
		ID:          id,
		Host:        domainlisting.HostID(params.Host),
		Title:       params.Title,
		Description: params.Description,
		Location:    params.Location,
		TourType:    params.TourType,
		Price:       params.Price,
		MaxGuests:   params.MaxGuests,
		Amenities:   params.Amenities,
		Images:      urls,
		Now:         s.now(),
	})
	if err != nil {
		return nil, err
	}
	if err := s.Listings.Save(ctx, l); err != nil {
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.Info("listing created", "listing_id", l.ID, "title", l.Title)
	}
	return l, nil
}

type UpdateParams struct {
	Title          *string
	Description    *string
	Location       *string
	TourType       *string
	Price          *float64
	MaxGuests      *int
	Amenities      []string
	ExistingImages []string
	NewImages      []Image
}

func (s *Service) Update(ctx context.Context, id string, params UpdateParams) (*domainlisting.Listing, error) {
	l, err := s.Listings.ByID(ctx, domainlisting.ListingID(id))
	if err != nil {
		return nil, err
	}
	if params.Title != nil {
		if strings.TrimSpace(*params.Title) == "" {
			return nil, domainlisting.ErrTitleRequired
		}
		l.Title = strings.TrimSpace(*params.Title)
	}
	if params.Description != nil {
		l.Description = strings.TrimSpace(*params.Description)
	}
	if params.Location != nil {
		if strings.TrimSpace(*params.Location) == "" {
			return nil, domainlisting.ErrLocationRequired
		}
		l.Location = strings.TrimSpace(*params.Location)
	}
	if params.TourType != nil {
		l.TourType = strings.TrimSpace(*params.TourType)
	}
	if params.Price != nil {
		if *params.Price <= 0 {
			return nil, domainlisting.ErrPriceInvalid
		}
		l.Price = *params.Price
	}
	if params.MaxGuests != nil {
		if *params.MaxGuests < 1 {
			return nil, domainlisting.ErrGuestsInvalid
		}
		l.MaxGuests = *params.MaxGuests
	}
	if params.Amenities != nil {
		l.Amenities = append([]string(nil), params.Amenities...)
	}
	if params.ExistingImages != nil || len(params.NewImages) > 0 {
		urls, err := s.uploadImages(ctx, l.ID, params.NewImages)
		if err != nil {
			return nil, err
		}
		l.Images = append(append([]string(nil), params.ExistingImages...), urls...)
	}
	l.UpdatedAt = s.now()
	if err := s.Listings.Save(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *Service) SetStatus(ctx context.Context, id, status string) (*domainlisting.Listing, error) {
	parsed, err := domainlisting.ParseStatus(status)
	if err != nil {
		return nil, err
	}
	l, err := s.Listings.ByID(ctx, domainlisting.ListingID(id))
	if err != nil {
		return nil, err
	}
	if err := l.SetStatus(parsed, s.now()); err != nil {
		return nil, err
	}
	if err := s.Listings.Save(ctx, l); err != nil {
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.Info("listing status changed", "listing_id", l.ID, "status", l.Status)
	}
	return l, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.Listings.Delete(ctx, domainlisting.ListingID(id))
}

func (s *Service) uploadImages(ctx context.Context, id domainlisting.ListingID, images []Image) ([]string, error) {
	if len(images) == 0 {
		return nil, nil
	}
	if s.Images == nil {
		return nil, fmt.Errorf("listing: image store is not configured")
	}
	urls := make([]string, 0, len(images))
	for _, img := range images {
		ext := path.Ext(img.Filename)
		key := fmt.Sprintf("listings/%s/%s%s", id, uuid.NewString(), ext)
		url, err := s.Images.Upload(ctx, key, img.Reader, img.ContentType)
		if err != nil {
			return nil, fmt.Errorf("listing: upload image %q: %w", img.Filename, err)
		}
		urls = append(urls, url)
	}
	return urls, nil
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}
