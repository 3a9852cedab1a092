package dto

import (
	"time"

	domainbooking "wayfare/internal/domain/booking"
)

type BookingSummary struct {
	ID           string    `json:"id"`
	ListingID    string    `json:"listingId"`
	GuestID      string    `json:"guestId"`
	CheckInDate  time.Time `json:"checkInDate"`
	CheckOutDate time.Time `json:"checkOutDate"`
	NumGuests    int       `json:"numGuests"`
	TotalPrice   float64   `json:"totalPrice"`
	Paid         bool      `json:"paid"`
	CreatedAt    time.Time `json:"createdAt"`
}

type BookingCollection struct {
	Items []BookingSummary `json:"bookings"`
}

func MapBookingSummary(b *domainbooking.Booking) BookingSummary {
	if b == nil {
		return BookingSummary{}
	}
	return BookingSummary{
		ID:           string(b.ID),
		ListingID:    string(b.ListingID),
		GuestID:      b.GuestID,
		CheckInDate:  b.Range.CheckIn,
		CheckOutDate: b.Range.CheckOut,
		NumGuests:    b.Guests,
		TotalPrice:   b.TotalPrice,
		Paid:         b.Paid,
		CreatedAt:    b.CreatedAt,
	}
}

func MapBookingCollection(items []*domainbooking.Booking) BookingCollection {
	out := make([]BookingSummary, 0, len(items))
	for _, b := range items {
		out = append(out, MapBookingSummary(b))
	}
	return BookingCollection{Items: out}
}
