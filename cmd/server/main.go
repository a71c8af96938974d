package main // Entry point package

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/cinema-ticket-booking/internal/config"
	"github.com/iliyamo/cinema-ticket-booking/internal/database"
	"github.com/iliyamo/cinema-ticket-booking/internal/handler"
	"github.com/iliyamo/cinema-ticket-booking/internal/logger"
	"github.com/iliyamo/cinema-ticket-booking/internal/middleware"
	"github.com/iliyamo/cinema-ticket-booking/internal/queue"
	"github.com/iliyamo/cinema-ticket-booking/internal/repository"
	"github.com/iliyamo/cinema-ticket-booking/internal/router"
	"github.com/iliyamo/cinema-ticket-booking/internal/service"
	"github.com/iliyamo/cinema-ticket-booking/internal/store"
)

func main() {
	cfg := config.Load() // Load environment config
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// MySQL: refresh tokens and the booking ledger
	db, err := database.Open(ctx, database.Config{
		User: cfg.DBUser,
		Pass: cfg.DBPass,
		Host: cfg.DBHost,
		Port: cfg.DBPort,
		Name: cfg.DBName,
	})
	if err != nil {
		log.WithError(err).Fatal("open database")
	}
	defer db.Close()
	if err := database.Migrate(ctx, db); err != nil {
		log.WithError(err).Fatal("migrate database")
	}

	// Redis: selections, submit locks, cache, rate limit
	rdb, err := config.NewRedisClient(ctx, config.LoadRedisConfig())
	if err != nil {
		log.WithError(err).Fatal("connect redis")
	}
	defer rdb.Close()

	sc := store.NewClient(cfg.StoreBaseURL,
		store.WithHTTPClient(&http.Client{Timeout: cfg.StoreTimeout}),
		store.WithMaxAttempts(cfg.StoreMaxAttempts),
		store.WithLogger(log),
	)

	selections := repository.NewSelectionRepo(rdb, cfg.SelectionTTL)
	locks := repository.NewSubmitLockRepo(rdb, cfg.SubmitLockTTL, log)
	tokens := repository.NewTokenRepo(db)
	ledger := repository.NewLedgerRepo(db)

	svc := service.NewBookingService(sc, selections, service.Options{
		Guard:    locks,
		Events:   service.NewPublisher(cfg.RabbitMQURL, log),
		Location: cfg.Location(),
		Logger:   log,
	})

	if cfg.ConsumerEnabled {
		consumer := queue.NewConsumer(cfg.RabbitMQURL, ledger, "logs", log)
		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.WithError(err).Error("booking consumer stopped")
			}
		}()
	}

	e := echo.New() // Create Echo instance
	e.HideBanner = true
	e.HidePort = true
	e.Use(echomw.RequestID())
	e.Use(middleware.RequestLogger(log))
	e.Use(echomw.Recover())

	health := handler.NewHealthHandler(map[string]handler.Pinger{
		"mysql": db.PingContext,
		"redis": func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		"store": func(ctx context.Context) error {
			_, err := sc.ListFilms(ctx)
			return err
		},
	})

	router.RegisterRoutes(e, health) // Register application routes
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, sc, tokens), cfg.JWTSecret)

	bh := handler.NewBookingHandler(svc)
	router.RegisterPublic(e, bh, middleware.NewRedisCache(config.LoadCacheConfig(), rdb))
	router.RegisterCustomer(e, bh, cfg.JWTSecret, middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb, log))
	router.RegisterAdmin(e, handler.NewAdminHandler(ledger), cfg.JWTSecret)

	addr := ":" + cfg.Port // Address string with port
	go func() {
		log.WithField("env", cfg.Env).Infof("listening on %s", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("http server")
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
	log.Info("server stopped")
}
