package ginserver

import (
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	gin "github.com/gin-gonic/gin"

	"wayfare/internal/app/dto"
	bookingsvc "wayfare/internal/app/services/booking"
	listingsvc "wayfare/internal/app/services/listing"
	userssvc "wayfare/internal/app/services/users"
	domainuser "wayfare/internal/domain/user"
)

// AdminHandler is the moderation dashboard surface. Every route requires
// the admin role; requireRole rejects before any handler body runs.
type AdminHandler struct {
	Listings *listingsvc.Service
	Bookings *bookingsvc.Service
	Users    *userssvc.Service
}

func (h AdminHandler) ListListings(c *gin.Context) {
	if _, ok := requireRole(c, string(domainuser.RoleAdmin)); !ok {
		return
	}
	params := searchParamsFromQuery(c)
	result, err := h.Listings.AdminSearch(c.Request.Context(), c.Query("status"), params)
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

func (h AdminHandler) CreateListing(c *gin.Context) {
	p, ok := requireRole(c, string(domainuser.RoleAdmin))
	if !ok {
		return
	}
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail("invalid multipart form"))
		return
	}
	images, err := openFormImages(form.File["images"])
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail("unreadable image upload"))
		return
	}
	defer closeFormImages(images)

	price, _ := strconv.ParseFloat(formValue(form, "price"), 64)
	maxGuests, _ := strconv.Atoi(formValue(form, "maxGuests"))
	l, err := h.Listings.Create(c.Request.Context(), listingsvc.CreateParams{
		Host:        p.ID,
		Title:       formValue(form, "title"),
		Description: formValue(form, "description"),
		Location:    formValue(form, "location"),
		TourType:    formValue(form, "tourType"),
		Price:       price,
		MaxGuests:   maxGuests,
		Amenities:   formValues(form, "amenities"),
		Images:      imageParams(images),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.Success(map[string]any{"listing": dto.MapListingDetail(l)}))
}

func (h AdminHandler) UpdateListing(c *gin.Context) {
	if _, ok := requireRole(c, string(domainuser.RoleAdmin)); !ok {
		return
	}
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail("invalid multipart form"))
		return
	}
	images, err := openFormImages(form.File["images"])
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail("unreadable image upload"))
		return
	}
	defer closeFormImages(images)

	params := listingsvc.UpdateParams{
		Title:       optionalFormValue(form, "title"),
		Description: optionalFormValue(form, "description"),
		Location:    optionalFormValue(form, "location"),
		TourType:    optionalFormValue(form, "tourType"),
		NewImages:   imageParams(images),
	}
	if raw := optionalFormValue(form, "price"); raw != nil {
		price, err := strconv.ParseFloat(*raw, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.Fail("price must be a number"))
			return
		}
		params.Price = &price
	}
	if raw := optionalFormValue(form, "maxGuests"); raw != nil {
		guests, err := strconv.Atoi(*raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.Fail("maxGuests must be an integer"))
			return
		}
		params.MaxGuests = &guests
	}
	if vals, ok := form.Value["amenities"]; ok {
		params.Amenities = vals
	}
	if vals, ok := form.Value["existingImages"]; ok {
		params.ExistingImages = vals
	}
	l, err := h.Listings.Update(c.Request.Context(), c.Param("id"), params)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.Success(map[string]any{"listing": dto.MapListingDetail(l)}))
}

type setStatusRequest struct {
	Status string `json:"status"`
}

func (h AdminHandler) SetListingStatus(c *gin.Context) {
	if _, ok := requireRole(c, string(domainuser.RoleAdmin)); !ok {
		return
	}
	var req setStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail("invalid request body"))
		return
	}
	l, err := h.Listings.SetStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.Success(map[string]any{"listing": dto.MapListingDetail(l)}))
}

func (h AdminHandler) DeleteListing(c *gin.Context) {
	if _, ok := requireRole(c, string(domainuser.RoleAdmin)); !ok {
		return
	}
	if err := h.Listings.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h AdminHandler) ListBookings(c *gin.Context) {
	if _, ok := requireRole(c, string(domainuser.RoleAdmin)); !ok {
		return
	}
	items, err := h.Bookings.All(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.Success(map[string]any{
		"bookings": dto.MapBookingCollection(items).Items,
	}))
}

func (h AdminHandler) GetBooking(c *gin.Context) {
	if _, ok := requireRole(c, string(domainuser.RoleAdmin)); !ok {
		return
	}
	b, err := h.Bookings.ByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.Success(map[string]any{"booking": dto.MapBookingSummary(b)}))
}

func (h AdminHandler) DeleteBooking(c *gin.Context) {
	if _, ok := requireRole(c, string(domainuser.RoleAdmin)); !ok {
		return
	}
	if err := h.Bookings.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h AdminHandler) ListUsers(c *gin.Context) {
	if _, ok := requireRole(c, string(domainuser.RoleAdmin)); !ok {
		return
	}
	items, err := h.Users.All(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.Success(map[string]any{"users": dto.MapUserProfiles(items)}))
}

func (h AdminHandler) GetUser(c *gin.Context) {
	if _, ok := requireRole(c, string(domainuser.RoleAdmin)); !ok {
		return
	}
	u, err := h.Users.ByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.Success(map[string]any{"user": dto.MapUserProfile(u)}))
}

type adminUpdateUserRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Role     *string `json:"role"`
	PhotoURL *string `json:"photo"`
}

func (h AdminHandler) UpdateUser(c *gin.Context) {
	if _, ok := requireRole(c, string(domainuser.RoleAdmin)); !ok {
		return
	}
	var req adminUpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail("invalid request body"))
		return
	}
	u, err := h.Users.AdminUpdate(c.Request.Context(), c.Param("id"), userssvc.UpdateParams{
		Name:     req.Name,
		Email:    req.Email,
		Role:     req.Role,
		PhotoURL: req.PhotoURL,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.Success(map[string]any{"user": dto.MapUserProfile(u)}))
}

func (h AdminHandler) DeleteUser(c *gin.Context) {
	if _, ok := requireRole(c, string(domainuser.RoleAdmin)); !ok {
		return
	}
	if err := h.Users.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type openedImage struct {
	file   multipart.File
	header *multipart.FileHeader
}

func openFormImages(headers []*multipart.FileHeader) ([]openedImage, error) {
	out := make([]openedImage, 0, len(headers))
	for _, header := range headers {
		f, err := header.Open()
		if err != nil {
			closeFormImages(out)
			return nil, err
		}
		out = append(out, openedImage{file: f, header: header})
	}
	return out, nil
}

func closeFormImages(images []openedImage) {
	for _, img := range images {
		img.file.Close()
	}
}

func imageParams(images []openedImage) []listingsvc.Image {
	out := make([]listingsvc.Image, 0, len(images))
	for _, img := range images {
		out = append(out, listingsvc.Image{
			Reader:      img.file,
			Filename:    img.header.Filename,
			ContentType: img.header.Header.Get("Content-Type"),
		})
	}
	return out
}

func formValue(form *multipart.Form, key string) string {
	if vals, ok := form.Value[key]; ok && len(vals) > 0 {
		return strings.TrimSpace(vals[0])
	}
	return ""
}

func formValues(form *multipart.Form, key string) []string {
	return form.Value[key]
}

func optionalFormValue(form *multipart.Form, key string) *string {
	if vals, ok := form.Value[key]; ok && len(vals) > 0 {
		v := strings.TrimSpace(vals[0])
		return &v
	}
	return nil
}

var _ AdminHTTP = AdminHandler{}
