package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"

	"wayfare/internal/app/dto"
	"wayfare/internal/app/services/auth"
)

type AuthHandler struct {
	Auth *auth.Service
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail("invalid request body"))
		return
	}
	result, err := h.Auth.Register(c.Request.Context(), auth.RegisterParams{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.SuccessWithToken(result.Token, map[string]any{
		"user": dto.MapUserProfile(result.User),
	}))
}

func (h AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail("invalid request body"))
		return
	}
	result, err := h.Auth.Login(c.Request.Context(), auth.LoginParams{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.SuccessWithToken(result.Token, map[string]any{
		"user": dto.MapUserProfile(result.User),
	}))
}

// Logout is a formality with stateless bearer tokens; the client drops the
// token, the server has nothing to revoke.
func (h AuthHandler) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, dto.Success(nil))
}

var _ AuthHTTP = AuthHandler{}
