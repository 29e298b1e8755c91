package main // Entry point: wires storage, services, handlers and routes.

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-booking/internal/blob"
	"github.com/iliyamo/event-booking/internal/config"
	"github.com/iliyamo/event-booking/internal/database"
	"github.com/iliyamo/event-booking/internal/handler"
	"github.com/iliyamo/event-booking/internal/ledger"
	"github.com/iliyamo/event-booking/internal/middleware"
	"github.com/iliyamo/event-booking/internal/queue"
	"github.com/iliyamo/event-booking/internal/repository"
	"github.com/iliyamo/event-booking/internal/router"
	"github.com/iliyamo/event-booking/internal/service"
)

func main() {
	_ = godotenv.Load() // .env is optional; deployments set the environment directly
	cfg := config.Load()

	client, db, err := database.Open(cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatalf("mongo connect failed: %v", err)
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	idxCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	if err := database.EnsureIndexes(idxCtx, db); err != nil {
		cancel()
		log.Fatalf("index bootstrap failed: %v", err)
	}
	cancel()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; rate limiting and response caching disabled")
	}

	users := repository.NewUserRepo(db)
	events := repository.NewEventRepo(db)
	bookings := repository.NewBookingRepo(db)
	claims := repository.NewSeatClaimRepo(db)

	seatLedger := ledger.New(bookings)
	workflow := service.NewBookingWorkflow(events, bookings, claims, seatLedger, queue.PublishBookingConfirmed)
	guard := service.NewEventGuard(events, bookings)

	blobClient, err := blob.NewClientFromEnv()
	if err != nil {
		log.Printf("blob storage disabled: %v", err)
		blobClient = nil
	}

	e := echo.New()
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users), cfg.JWTSecret)
	router.RegisterEvents(e, handler.NewEventHandler(events, users, guard, seatLedger, workflow), cfg.JWTSecret, rdb, config.LoadCacheConfig())
	router.RegisterBookings(e, handler.NewBookingHandler(workflow, bookings, users), cfg.JWTSecret)
	router.RegisterUpload(e, handler.NewUploadHandler(blobClient), cfg.JWTSecret)

	go queue.StartBookingConsumer()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
