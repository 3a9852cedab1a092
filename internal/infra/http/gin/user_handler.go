package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"

	"wayfare/internal/app/dto"
	userssvc "wayfare/internal/app/services/users"
)

type UserHandler struct {
	Users *userssvc.Service
}

type updateProfileRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	PhotoURL *string `json:"photo"`
}

func (h UserHandler) Me(c *gin.Context) {
	p, ok := requireUser(c)
	if !ok {
		return
	}
	u, err := h.Users.ByID(c.Request.Context(), p.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.Success(map[string]any{"user": dto.MapUserProfile(u)}))
}

func (h UserHandler) UpdateMe(c *gin.Context) {
	p, ok := requireUser(c)
	if !ok {
		return
	}
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail("invalid request body"))
		return
	}
	u, err := h.Users.UpdateProfile(c.Request.Context(), p.ID, userssvc.UpdateParams{
		Name:     req.Name,
		Email:    req.Email,
		PhotoURL: req.PhotoURL,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.Success(map[string]any{"user": dto.MapUserProfile(u)}))
}

var _ UserHTTP = UserHandler{}
