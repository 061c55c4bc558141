package main // server entry point

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/show-booking/internal/booking"
	"github.com/iliyamo/show-booking/internal/config"
	"github.com/iliyamo/show-booking/internal/database"
	"github.com/iliyamo/show-booking/internal/handler"
	"github.com/iliyamo/show-booking/internal/ledger"
	"github.com/iliyamo/show-booking/internal/payment"
	"github.com/iliyamo/show-booking/internal/queue"
	"github.com/iliyamo/show-booking/internal/repository"
	"github.com/iliyamo/show-booking/internal/router"
	queuepub "github.com/iliyamo/show-booking/internal/service"
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

	// nil client disables caching and rate limiting instead of failing boot.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable, cache and rate limiting disabled")
	}

	// Repositories and the seat ledger share the DB pool.
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	shows := repository.NewShowRepo(db)
	reservations := repository.NewReservationRepo(db)
	seats := ledger.NewSQL(db)

	payments := payment.NewClient(cfg.PaymentBaseURL, cfg.PaymentAPIKey, nil)
	notifier := queuepub.NewPublisher(queue.BrokerURL(), cfg.HoldTimeout)
	expiry := booking.NewExpiryRegistry()

	svc := booking.NewService(
		seats, reservations, shows, payments, notifier, expiry,
		cfg.HoldTimeout, cfg.NotifyTimeout,
		cfg.PaymentSuccessURL, cfg.PaymentCancelURL,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Background workers: queue consumer confirms paid reservations,
	// the scanner mails reminders ahead of showtime.
	go queue.StartPaymentConsumer(ctx, svc.OnConfirmed)
	reminder := booking.NewReminderScanner(
		shows, reservations, notifier,
		cfg.ReminderInterval, cfg.ReminderLead, cfg.ReminderWindow,
	)
	go reminder.Run(ctx)

	e := echo.New()
	e.HideBanner = true

	authH := handler.NewAuthHandler(cfg, users, tokens)
	showH := handler.NewShowHandler(shows)
	bookH := handler.NewBookingHandler(svc, seats, shows, reservations)

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterPublic(e, showH, bookH, rdb)
	router.RegisterCustomer(e, bookH, cfg.JWTSecret)
	router.RegisterOwner(e, showH, cfg.JWTSecret)
	router.RegisterWebhooks(e, bookH, cfg.PaymentWebhookSecret)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	go func() {
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Printf("shutting down")
	expiry.StopAll()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
