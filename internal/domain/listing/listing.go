package listing

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	ErrTitleRequired    = errors.New("listing: title is required")
	ErrLocationRequired = errors.New("listing: location is required")
	ErrPriceInvalid     = errors.New("listing: price per night must be positive")
	ErrGuestsInvalid    = errors.New("listing: max guests must be at least 1")
	ErrInvalidStatus    = errors.New("listing: invalid status")
	ErrNotFound         = errors.New("listing: not found")
)

type ListingID string
type HostID string

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Listing is a bookable lodging offer. Price is the nightly rate and
// MaxGuests bounds the guest count of any booking.
type Listing struct {
	ID              ListingID
	Host            HostID
	Title           string
	Description     string
	Location        string
	TourType        string
	Price           float64
	MaxGuests       int
	Amenities       []string
	Images          []string
	Status          Status
	RatingsAverage  float64
	RatingsQuantity int
	CreatedAt       time.Time
	UpdatedAt       time.Time
	Version         int64
}

type SearchParams struct {
	Location string
	Guests   int
	CheckIn  time.Time
	CheckOut time.Time
	Statuses []Status
	Sort     string
	Page     int
	Limit    int
}

type SearchResult struct {
	Items []*Listing
	Total int
}

type Repository interface {
	ByID(ctx context.Context, id ListingID) (*Listing, error)
	Save(ctx context.Context, l *Listing) error
	Delete(ctx context.Context, id ListingID) error
	Search(ctx context.Context, params SearchParams) (SearchResult, error)
}

type CreateParams struct {
	ID          ListingID
	Host        HostID
	Title       string
	Description string
	Location    string
	TourType    string
	Price       float64
	MaxGuests   int
	Amenities   []string
	Images      []string
	Now         time.Time
}

func New(params CreateParams) (*Listing, error) {
	title := strings.TrimSpace(params.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	location := strings.TrimSpace(params.Location)
	if location == "" {
		return nil, ErrLocationRequired
	}
	if params.Price <= 0 {
		return nil, ErrPriceInvalid
	}
	if params.MaxGuests < 1 {
		return nil, ErrGuestsInvalid
	}
	now := params.Now
	if now.IsZero() {
		now = time.Now()
	}
	now = now.UTC()
	return &Listing{
		ID:          params.ID,
		Host:        params.Host,
		Title:       title,
		Description: strings.TrimSpace(params.Description),
		Location:    location,
		TourType:    strings.TrimSpace(params.TourType),
		Price:       params.Price,
		MaxGuests:   params.MaxGuests,
		Amenities:   append([]string(nil), params.Amenities...),
		Images:      append([]string(nil), params.Images...),
		Status:      StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// SetStatus moves the listing through the moderation lifecycle.
func (l *Listing) SetStatus(status Status, now time.Time) error {
	switch status {
	case StatusPending, StatusApproved, StatusRejected:
	default:
		return ErrInvalidStatus
	}
	l.Status = status
	l.touch(now)
	return nil
}

func (l *Listing) Bookable() bool {
	return l.Status == StatusApproved
}

func (l *Listing) touch(now time.Time) {
	if now.IsZero() {
		now = time.Now()
	}
	l.UpdatedAt = now.UTC()
}

// ParseStatus maps a query/form value onto a Status. The empty string and
// "all" are accepted by callers before this is reached.
func ParseStatus(raw string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case string(StatusPending):
		return StatusPending, nil
	case string(StatusApproved):
		return StatusApproved, nil
	case string(StatusRejected):
		return StatusRejected, nil
	default:
		return "", ErrInvalidStatus
	}
}
