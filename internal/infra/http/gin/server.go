package ginserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	gin "github.com/gin-gonic/gin"

	"wayfare/internal/infra/config"
	"wayfare/internal/infra/obs"
)

type AuthHTTP interface {
	Register(c *gin.Context)
	Login(c *gin.Context)
	Logout(c *gin.Context)
}

type UserHTTP interface {
	Me(c *gin.Context)
	UpdateMe(c *gin.Context)
}

type ListingHTTP interface {
	Catalog(c *gin.Context)
	Detail(c *gin.Context)
	Calendar(c *gin.Context)
}

type BookingHTTP interface {
	Create(c *gin.Context)
	MyBookings(c *gin.Context)
	ForListing(c *gin.Context)
}

type AdminHTTP interface {
	ListListings(c *gin.Context)
	CreateListing(c *gin.Context)
	UpdateListing(c *gin.Context)
	SetListingStatus(c *gin.Context)
	DeleteListing(c *gin.Context)
	ListBookings(c *gin.Context)
	GetBooking(c *gin.Context)
	DeleteBooking(c *gin.Context)
	ListUsers(c *gin.Context)
	GetUser(c *gin.Context)
	UpdateUser(c *gin.Context)
	DeleteUser(c *gin.Context)
}

type Handlers struct {
	Auth           AuthHTTP
	User           UserHTTP
	Listing        ListingHTTP
	Booking        BookingHTTP
	Admin          AdminHTTP
	AuthMiddleware gin.HandlerFunc
}

func NewServer(cfg config.Config, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *http.Server {
	return &http.Server{Addr: cfg.HTTPAddr, Handler: NewRouter(cfg, obsMW, health, h)}
}

func NewRouter(cfg config.Config, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *gin.Engine {
	mode := configureGinMode(cfg.Env)
	if obsMW.Logger != nil {
		obsMW.Logger.Info("gin initialized", "mode", mode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(obsMW.RequestID())
	router.Use(obsMW.LoggerMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{
			"Content-Length",
			"Content-Type",
			"X-Request-ID",
		},
		MaxAge: 12 * time.Hour,
	}))
	if h.AuthMiddleware != nil {
		router.Use(h.AuthMiddleware)
	}

	router.GET("/livez", health.Livez)
	router.GET("/readyz", health.Readyz)

	api := router.Group("/api/v1")
	if h.Auth != nil {
		api.POST("/register", h.Auth.Register)
		api.POST("/login", h.Auth.Login)
		api.GET("/logout", h.Auth.Logout)
	}
	if h.User != nil {
		api.GET("/users/me", h.User.Me)
		api.PATCH("/users/updateMe", h.User.UpdateMe)
	}
	if h.Listing != nil {
		api.GET("/listings", h.Listing.Catalog)
		api.GET("/listings/:id", h.Listing.Detail)
		api.GET("/listings/:id/availability", h.Listing.Calendar)
	}
	if h.Booking != nil {
		api.POST("/bookings", h.Booking.Create)
		api.GET("/bookings/myBookings", h.Booking.MyBookings)
		api.GET("/bookings/listing/:id", h.Booking.ForListing)
	}
	if h.Admin != nil {
		admin := api.Group("/admin")
		admin.GET("/listings", h.Admin.ListListings)
		admin.POST("/listings", h.Admin.CreateListing)
		admin.PATCH("/listings/:id", h.Admin.UpdateListing)
		admin.PATCH("/listings/:id/status", h.Admin.SetListingStatus)
		admin.DELETE("/listings/:id", h.Admin.DeleteListing)
		admin.GET("/bookings", h.Admin.ListBookings)
		admin.GET("/bookings/:id", h.Admin.GetBooking)
		admin.DELETE("/bookings/:id", h.Admin.DeleteBooking)
		admin.GET("/users", h.Admin.ListUsers)
		admin.GET("/users/:id", h.Admin.GetUser)
		admin.PATCH("/users/:id", h.Admin.UpdateUser)
		admin.DELETE("/users/:id", h.Admin.DeleteUser)
	}

	return router
}

func configureGinMode(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "debug", "dev":
		gin.SetMode(gin.DebugMode)
		return gin.DebugMode
	case "test", "testing":
		gin.SetMode(gin.TestMode)
		return gin.TestMode
	default:
		gin.SetMode(gin.ReleaseMode)
		return gin.ReleaseMode
	}
}
