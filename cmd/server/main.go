package main // Entry point package

import (
	"log" // startup logging

	"github.com/joho/godotenv"    // optional .env loading for local runs
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/venue-seat-reservation/internal/config"
	"github.com/iliyamo/venue-seat-reservation/internal/handler"
	"github.com/iliyamo/venue-seat-reservation/internal/middleware"
	"github.com/iliyamo/venue-seat-reservation/internal/model"
	"github.com/iliyamo/venue-seat-reservation/internal/queue"
	"github.com/iliyamo/venue-seat-reservation/internal/repository"
	"github.com/iliyamo/venue-seat-reservation/internal/router"
	"github.com/iliyamo/venue-seat-reservation/internal/service"
)

func main() {
	// Load .env when present; real deployments set the environment
	// directly and the file is absent.
	_ = godotenv.Load()

	cfg := config.Load()

	venue, err := model.NewVenue(cfg.VenueRows, cfg.VenueCols)
	if err != nil {
		log.Fatalf("invalid venue dimensions %dx%d: %v", cfg.VenueRows, cfg.VenueCols, err)
	}

	svc := service.NewReservationService(venue,
		service.WithHoldTTL(cfg.HoldTTL),
		service.WithNotifier(queue.Notifier{}),
	)
	defer svc.Stop()

	// The consumer narrates hold lifecycle events into logs/; it keeps
	// retrying the broker connection in the background and never stops
	// the server.
	go func() {
		if err := queue.StartLifecycleConsumer(); err != nil {
			log.Printf("lifecycle consumer stopped: %v", err)
		}
	}()

	users := repository.NewUserRepo()

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users), cfg.JWTSecret)

	// Rate limiting degrades to a pass-through when Redis is down.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; rate limiting disabled")
	}
	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	router.RegisterReservation(e, handler.NewReservationHandler(svc), cfg.JWTSecret, limiter)

	addr := ":" + cfg.Port
	log.Printf("venue %dx%d, hold TTL %s; listening on %s (env=%s)",
		cfg.VenueRows, cfg.VenueCols, cfg.HoldTTL, addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
