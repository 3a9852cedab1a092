package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	availabilitysvc "wayfare/internal/app/services/availability"
	authsvc "wayfare/internal/app/services/auth"
	bookingsvc "wayfare/internal/app/services/booking"
	listingsvc "wayfare/internal/app/services/listing"
	userssvc "wayfare/internal/app/services/users"
	domainavailability "wayfare/internal/domain/availability"
	domainbooking "wayfare/internal/domain/booking"
	domainlisting "wayfare/internal/domain/listing"
	domainuser "wayfare/internal/domain/user"
	"wayfare/internal/infra/broker/kafka"
	redisadapter "wayfare/internal/infra/cache/redis"
	"wayfare/internal/infra/config"
	mongodb "wayfare/internal/infra/db/mongo"
	ginserver "wayfare/internal/infra/http/gin"
	"wayfare/internal/infra/obs"
	"wayfare/internal/infra/security"
	"wayfare/internal/infra/storage/memory"
	"wayfare/internal/infra/storage/s3"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env := getenv("APP_ENV", "dev")
	logger := obs.NewLogger(env)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("configuration invalid", "error", err)
		os.Exit(1)
	}

	app, cleanup := buildApplication(ctx, cfg, logger)
	defer cleanup()

	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{
		Checks: app.readyChecks,
	}, app.handlers)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("HTTP server stopped")
}

type application struct {
	handlers    ginserver.Handlers
	readyChecks map[string]obs.ReadyCheck
}

func buildApplication(ctx context.Context, cfg config.Config, logger *slog.Logger) (application, func()) {
	var cleanups []func()
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	repos := buildRepositories(ctx, cfg, logger)

	var cache availabilitysvc.DayCache
	if cfg.RedisAddr != "" {
		client, err := redisadapter.NewClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			logger.Warn("redis unavailable, availability cache disabled", "error", err)
		} else {
			cache = &redisadapter.AvailabilityCache{Client: client, TTL: cfg.AvailabilityTTL}
			cleanups = append(cleanups, func() { client.Close() })
		}
	}

	var events bookingsvc.EventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		publisher, err := kafka.NewBookingEvents(cfg.KafkaBrokers, cfg.KafkaTopicPrefix, logger)
		if err != nil {
			logger.Warn("kafka unavailable, booking events disabled", "error", err)
		} else {
			events = publisher
			cleanups = append(cleanups, func() { publisher.Close() })
			startAvailabilityConsumer(ctx, cfg, cache, logger)
		}
	}

	var images listingsvc.ImageStore = s3.NoopPhotoStore{}
	if cfg.S3Endpoint != "" {
		photos, err := s3.NewPhotoStore(cfg.S3Endpoint, cfg.S3UseSSL, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3PublicEndpoint, logger)
		if err != nil {
			logger.Warn("object storage unavailable, image uploads disabled", "error", err)
		} else {
			images = photos
		}
	}

	availability := &availabilitysvc.Service{Bookings: repos.bookings, Cache: cache, Logger: logger}
	bookingService := &bookingsvc.Service{
		Bookings:     repos.bookings,
		Listings:     repos.listings,
		Occupancies:  repos.occupancies,
		Availability: availability,
		Events:       events,
		Logger:       logger,
	}
	listingService := &listingsvc.Service{
		Listings:     repos.listings,
		Images:       images,
		Availability: availability,
		Logger:       logger,
	}
	userService := &userssvc.Service{Users: repos.users, Logger: logger}
	authService := &authsvc.Service{
		Users:     repos.users,
		Passwords: security.BcryptHasher{Cost: cfg.BcryptCost},
		Tokens:    security.JWTCodec{Secret: []byte(cfg.JWTSecret), TTL: cfg.JWTTTL},
		Logger:    logger,
	}

	handlers := ginserver.Handlers{
		Auth:           ginserver.AuthHandler{Auth: authService},
		User:           ginserver.UserHandler{Users: userService},
		Listing:        ginserver.ListingHandler{Listings: listingService, Availability: availability},
		Booking:        ginserver.BookingHandler{Bookings: bookingService},
		Admin:          ginserver.AdminHandler{Listings: listingService, Bookings: bookingService, Users: userService},
		AuthMiddleware: ginserver.AuthMiddleware{Service: authService, Logger: logger}.Handle,
	}
	return application{handlers: handlers, readyChecks: repos.readyChecks}, cleanup
}

type repositories struct {
	listings    domainlisting.Repository
	bookings    domainbooking.Repository
	users       domainuser.Repository
	occupancies domainavailability.OccupancyRepository
	readyChecks map[string]obs.ReadyCheck
}

func memoryRepositories() repositories {
	return repositories{
		listings:    memory.NewListingRepository(),
		bookings:    memory.NewBookingRepository(),
		users:       memory.NewUserRepository(),
		occupancies: memory.NewOccupancyRepository(),
	}
}

func buildRepositories(ctx context.Context, cfg config.Config, logger *slog.Logger) repositories {
	if cfg.MongoURI == "" {
		logger.Warn("MONGO_URI not set, using in-memory storage")
		return memoryRepositories()
	}

	client, err := mongodb.New(cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		logger.Warn("mongo unavailable, using in-memory storage", "error", err)
		return memoryRepositories()
	}

	users := mongodb.NewUserRepository(client.DB)
	if err := users.EnsureIndexes(ctx); err != nil {
		logger.Warn("mongo index creation failed", "error", err)
	}
	return repositories{
		listings:    mongodb.NewListingRepository(client.DB),
		bookings:    mongodb.NewBookingRepository(client.DB),
		users:       users,
		occupancies: mongodb.NewOccupancyRepository(client.DB),
		readyChecks: map[string]obs.ReadyCheck{"mongo": client.Ping},
	}
}

// startAvailabilityConsumer follows booking events produced by other
// replicas and drops stale availability cache entries.
func startAvailabilityConsumer(ctx context.Context, cfg config.Config, cache availabilitysvc.DayCache, logger *slog.Logger) {
	if cache == nil {
		return
	}
	consumer, err := kafka.NewAvailabilityConsumer(cfg.KafkaBrokers, "wayfare-availability", cfg.KafkaTopicPrefix, cache, logger)
	if err != nil {
		logger.Warn("kafka consumer unavailable, cache invalidation is local-only", "error", err)
		return
	}
	go func() {
		defer consumer.Close()
		if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("kafka consumer stopped", "error", err)
		}
	}()
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
