package dto

import (
	"time"

	domainlisting "wayfare/internal/domain/listing"
)

type ListingSummary struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Location        string    `json:"location"`
	TourType        string    `json:"tourType,omitempty"`
	Price           float64   `json:"price"`
	MaxGuests       int       `json:"maxGuests"`
	Images          []string  `json:"images"`
	Status          string    `json:"status"`
	RatingsAverage  float64   `json:"ratingsAverage"`
	RatingsQuantity int       `json:"ratingsQuantity"`
	CreatedAt       time.Time `json:"createdAt"`
}

type ListingDetail struct {
	ListingSummary
	Description string    `json:"description"`
	Amenities   []string  `json:"amenities"`
	HostID      string    `json:"hostId,omitempty"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type ListingCollection struct {
	Items []ListingSummary `json:"listings"`
	Total int              `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}

func MapListingSummary(l *domainlisting.Listing) ListingSummary {
	if l == nil {
		return ListingSummary{}
	}
	return ListingSummary{
		ID:              string(l.ID),
		Title:           l.Title,
		Location:        l.Location,
		TourType:        l.TourType,
		Price:           l.Price,
		MaxGuests:       l.MaxGuests,
		Images:          append([]string(nil), l.Images...),
		Status:          string(l.Status),
		RatingsAverage:  l.RatingsAverage,
		RatingsQuantity: l.RatingsQuantity,
		CreatedAt:       l.CreatedAt,
	}
}

func MapListingDetail(l *domainlisting.Listing) ListingDetail {
	if l == nil {
		return ListingDetail{}
	}
	return ListingDetail{
		ListingSummary: MapListingSummary(l),
		Description:    l.Description,
		Amenities:      append([]string(nil), l.Amenities...),
		HostID:         string(l.Host),
		UpdatedAt:      l.UpdatedAt,
	}
}

func MapListingCollection(result domainlisting.SearchResult, page, limit int) ListingCollection {
	items := make([]ListingSummary, 0, len(result.Items))
	for _, l := range result.Items {
		items = append(items, MapListingSummary(l))
	}
	return ListingCollection{Items: items, Total: result.Total, Page: page, Limit: limit}
}
