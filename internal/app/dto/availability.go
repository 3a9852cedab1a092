package dto

import (
	"time"

	domainavailability "wayfare/internal/domain/availability"
)

// Availability feeds the booking calendar: each listed day is occupied and
// must be rendered unselectable; every other day is free.
type Availability struct {
	ListingID    string   `json:"listingId"`
	OccupiedDays []string `json:"occupiedDays"`
}

func MapAvailability(listingID string, set domainavailability.OccupiedDaySet) Availability {
	days := set.Days()
	out := make([]string, 0, len(days))
	for _, d := range days {
		out = append(out, d.Format(time.DateOnly))
	}
	return Availability{ListingID: listingID, OccupiedDays: out}
}
