package ginserver

import (
	"errors"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"wayfare/internal/app/dto"
	"wayfare/internal/app/services/auth"
	bookingsvc "wayfare/internal/app/services/booking"
	domainbooking "wayfare/internal/domain/booking"
	domainlisting "wayfare/internal/domain/listing"
	domainrange "wayfare/internal/domain/shared/daterange"
	domainuser "wayfare/internal/domain/user"
	mongodb "wayfare/internal/infra/db/mongo"
	"wayfare/internal/infra/security"
	"wayfare/internal/infra/storage/memory"
)

// respondError maps domain sentinels onto HTTP statuses. Validation
// failures are 4xx with the sentinel's message; anything unrecognized is a
// 500 with a generic message so internals never leak to the client.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domainbooking.ErrIncompleteRequest),
		errors.Is(err, domainbooking.ErrInvalidDateRange),
		errors.Is(err, domainbooking.ErrCheckInPast),
		errors.Is(err, domainbooking.ErrTooManyGuests),
		errors.Is(err, domainrange.ErrInvalidRange),
		errors.Is(err, bookingsvc.ErrListingNotBookable),
		errors.Is(err, domainlisting.ErrTitleRequired),
		errors.Is(err, domainlisting.ErrLocationRequired),
		errors.Is(err, domainlisting.ErrPriceInvalid),
		errors.Is(err, domainlisting.ErrGuestsInvalid),
		errors.Is(err, domainlisting.ErrInvalidStatus),
		errors.Is(err, domainuser.ErrNameRequired),
		errors.Is(err, domainuser.ErrEmailRequired),
		errors.Is(err, domainuser.ErrInvalidRole),
		errors.Is(err, auth.ErrPasswordTooShort):
		c.JSON(http.StatusBadRequest, dto.Fail(err.Error()))
	case errors.Is(err, domainbooking.ErrDatesUnavailable),
		errors.Is(err, domainbooking.ErrPriceMismatch),
		errors.Is(err, domainuser.ErrEmailAlreadyUsed):
		c.JSON(http.StatusConflict, dto.Fail(err.Error()))
	case errors.Is(err, mongodb.ErrConcurrentUpdate), errors.Is(err, memory.ErrConcurrentUpdate):
		c.JSON(http.StatusConflict, dto.Fail(domainbooking.ErrDatesUnavailable.Error()))
	case errors.Is(err, domainbooking.ErrNotFound),
		errors.Is(err, domainlisting.ErrNotFound),
		errors.Is(err, domainuser.ErrNotFound):
		c.JSON(http.StatusNotFound, dto.Fail(err.Error()))
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, security.ErrTokenInvalid):
		c.JSON(http.StatusUnauthorized, dto.Fail(err.Error()))
	default:
		c.JSON(http.StatusInternalServerError, dto.Error("something went wrong"))
	}
}
