package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/lwandile/facility-booking/internal/config"
	"github.com/lwandile/facility-booking/internal/database"
	"github.com/lwandile/facility-booking/internal/handler"
	"github.com/lwandile/facility-booking/internal/middleware"
	"github.com/lwandile/facility-booking/internal/notifier"
	"github.com/lwandile/facility-booking/internal/payment"
	"github.com/lwandile/facility-booking/internal/queue"
	"github.com/lwandile/facility-booking/internal/repository"
	"github.com/lwandile/facility-booking/internal/router"
	"github.com/lwandile/facility-booking/internal/scheduler"
	"github.com/lwandile/facility-booking/internal/service"
	"github.com/lwandile/facility-booking/internal/token"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()
	if err := database.Migrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	codec, err := token.NewCodec(cfg.TokenSecret)
	if err != nil {
		log.Fatalf("token codec: %v", err)
	}

	// Repositories.
	userRepo := repository.NewUserRepo(db)
	tokenRepo := repository.NewTokenRepo(db)
	facilityRepo := repository.NewFacilityRepo(db)
	eventRepo := repository.NewEventRepo(db)
	loyaltyRepo := repository.NewLoyaltyRepo(db)
	ratingRepo := repository.NewRatingRepo(db)
	bookingRepo := repository.NewBookingRepo(db, facilityRepo, loyaltyRepo)

	// Payments are optional; without merchant credentials the service
	// still takes free and no-cost bookings.
	var gateway *payment.Gateway
	if cfg.PaymentsEnabled() {
		gateway = payment.NewGateway(cfg.PayFast)
	} else {
		log.Println("payfast: no merchant credentials, checkout disabled")
	}

	publisher := queue.NewPublisher(cfg.RabbitURL)
	svc := service.NewBookingService(
		facilityRepo, eventRepo, bookingRepo, loyaltyRepo, userRepo,
		codec, publisher, gateway,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Background workers: notification consumer and event expiry sweep.
	mail := notifier.NewEmailNotifier(notifier.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUser,
		Password: cfg.SMTPPass,
		From:     cfg.SMTPFrom,
	})
	consumer := queue.NewConsumer(cfg.RabbitURL, mail)
	go func() {
		if err := consumer.Start(ctx); err != nil && ctx.Err() == nil {
			log.Printf("consumer stopped: %v", err)
		}
	}()
	go scheduler.New(eventRepo, cfg.EventSweepInterval).Run(ctx)

	e := echo.New()

	// Redis-backed rate limiting and response caching degrade to no-ops
	// when Redis is unreachable.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis: unavailable, rate limiting and caching disabled")
	}
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	e.Use(middleware.NewRedisCache(config.LoadCacheConfig(), rdb))

	// Handlers and routes.
	authH := handler.NewAuthHandler(cfg, userRepo, tokenRepo)
	publicH := handler.NewPublicHandler(facilityRepo, eventRepo)
	bookingH := handler.NewBookingHandler(svc)
	adminH := handler.NewAdminHandler(facilityRepo, eventRepo)
	redeemH := handler.NewRedeemHandler(svc)
	paymentH := handler.NewPaymentHandler(svc)
	ratingH := handler.NewRatingHandler(facilityRepo, ratingRepo)

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterPublic(e, publicH, ratingH)
	router.RegisterCustomer(e, bookingH, ratingH, cfg.JWTSecret)
	router.RegisterAdmin(e, adminH, redeemH, cfg.JWTSecret)
	router.RegisterPayments(e, paymentH)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	go func() {
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	// First signal drains in-flight requests; stop() restores default
	// handling so a second signal kills immediately.
	<-ctx.Done()
	stop()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
