package ginserver

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	gin "github.com/gin-gonic/gin"

	"wayfare/internal/app/dto"
	availabilitysvc "wayfare/internal/app/services/availability"
	listingsvc "wayfare/internal/app/services/listing"
	domainlisting "wayfare/internal/domain/listing"
)

// ListingHandler serves the public catalog and the availability calendar.
type ListingHandler struct {
	Listings     *listingsvc.Service
	Availability *availabilitysvc.Service
}

// Catalog responds with a filtered page of approved listings.
func (h ListingHandler) Catalog(c *gin.Context) {
	params := searchParamsFromQuery(c)
	result, err := h.Listings.Search(c.Request.Context(), params)
	if err != nil {
		respondError(c, err)
		return
	}
	collection := dto.MapListingCollection(result, params.Page, params.Limit)
	c.JSON(http.StatusOK, dto.Success(map[string]any{
		"listings": collection.Items,
		"total":    collection.Total,
		"page":     collection.Page,
		"limit":    collection.Limit,
	}))
}

func (h ListingHandler) Detail(c *gin.Context) {
	l, err := h.Listings.ByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	// Unapproved listings are invisible to the public catalog.
	if !l.Bookable() {
		respondError(c, domainlisting.ErrNotFound)
		return
	}
	c.JSON(http.StatusOK, dto.Success(map[string]any{"listing": dto.MapListingDetail(l)}))
}

// Calendar returns the occupied-day set the date picker renders as
// unselectable. Checkout days of existing stays are absent from the set.
func (h ListingHandler) Calendar(c *gin.Context) {
	id := c.Param("id")
	if _, err := h.Listings.ByID(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	set, err := h.Availability.OccupiedFor(c.Request.Context(), domainlisting.ListingID(id))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.Success(map[string]any{
		"availability": dto.MapAvailability(id, set),
	}))
}

func searchParamsFromQuery(c *gin.Context) domainlisting.SearchParams {
	return domainlisting.SearchParams{
		Location: c.Query("location"),
		Guests:   parseQueryInt(c.Query("guests")),
		CheckIn:  parseQueryDate(c.Query("check_in")),
		CheckOut: parseQueryDate(c.Query("check_out")),
		Sort:     c.Query("sort"),
		Page:     parseQueryIntWithDefault(c.Query("page"), 1),
		Limit:    parseQueryIntWithDefault(c.Query("limit"), 24),
	}
}

func parseQueryDate(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC()
	}
	if t, err := time.ParseInLocation(time.DateOnly, raw, time.UTC); err == nil {
		return t
	}
	return time.Time{}
}

func parseQueryInt(raw string) int {
	value, _ := strconv.Atoi(strings.TrimSpace(raw))
	if value < 0 {
		return 0
	}
	return value
}

func parseQueryIntWithDefault(raw string, fallback int) int {
	value := parseQueryInt(raw)
	if value == 0 {
		return fallback
	}
	return value
}

var _ ListingHTTP = ListingHandler{}
