package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"

	"wayfare/internal/app/dto"
	bookingsvc "wayfare/internal/app/services/booking"
)

type BookingHandler struct {
	Bookings *bookingsvc.Service
}

type createBookingRequest struct {
	ListingID  string  `json:"listingId"`
	CheckIn    string  `json:"checkInDate"`
	CheckOut   string  `json:"checkOutDate"`
	NumGuests  int     `json:"numGuests"`
	TotalPrice float64 `json:"totalPrice"`
}

// Create runs the reservation flow for the authenticated guest. Dates
// arrive as ISO-8601 strings; unparseable ones fall through as zero values
// and fail the completeness check with the rest of the candidate.
func (h BookingHandler) Create(c *gin.Context) {
	p, ok := requireUser(c)
	if !ok {
		return
	}
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail("invalid request body"))
		return
	}
	b, err := h.Bookings.Create(c.Request.Context(), bookingsvc.CreateParams{
		ListingID:  req.ListingID,
		GuestID:    p.ID,
		CheckIn:    parseQueryDate(req.CheckIn),
		CheckOut:   parseQueryDate(req.CheckOut),
		Guests:     req.NumGuests,
		TotalPrice: req.TotalPrice,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.Success(map[string]any{"booking": dto.MapBookingSummary(b)}))
}

// MyBookings lists the caller's reservations.
func (h BookingHandler) MyBookings(c *gin.Context) {
	p, ok := requireUser(c)
	if !ok {
		return
	}
	items, err := h.Bookings.ForGuest(c.Request.Context(), p.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.Success(map[string]any{
		"bookings": dto.MapBookingCollection(items).Items,
	}))
}

// ForListing lists the bookings of one listing so the client can derive
// its occupied days.
func (h BookingHandler) ForListing(c *gin.Context) {
	items, err := h.Bookings.ForListing(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.Success(map[string]any{
		"bookings": dto.MapBookingCollection(items).Items,
	}))
}

var _ BookingHTTP = BookingHandler{}
