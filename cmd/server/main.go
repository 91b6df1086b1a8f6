package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/iliyamo/hotel-backoffice/internal/config"
	"github.com/iliyamo/hotel-backoffice/internal/database"
	"github.com/iliyamo/hotel-backoffice/internal/handler"
	"github.com/iliyamo/hotel-backoffice/internal/middleware"
	"github.com/iliyamo/hotel-backoffice/internal/queue"
	"github.com/iliyamo/hotel-backoffice/internal/repository"
	"github.com/iliyamo/hotel-backoffice/internal/router"
	"github.com/iliyamo/hotel-backoffice/internal/service"
)

func setupLogger(cfg config.Config) {
	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if cfg.Development() {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}

func main() {
	cfg := config.Load()
	setupLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(ctx, database.DSN(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName))
	if err != nil {
		log.Fatal().Err(err).Msg("open database")
	}
	defer db.Close()
	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}

	fees, err := config.LoadFeeSchedule(cfg.FeesFile, cfg.Rates)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.FeesFile).Msg("load fee schedule")
	}

	rdb := config.NewRedisClient(ctx)
	if rdb != nil {
		defer rdb.Close()
	}

	var publisher service.EventPublisher = service.NopPublisher{}
	if cfg.RabbitURL != "" {
		publisher = &service.RabbitPublisher{URL: cfg.RabbitURL}
	}

	e := newServer(cfg, db, rdb, fees, publisher)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("addr", srv.Addr).Str("env", cfg.Env).Msg("starting server")
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	if cfg.RabbitURL != "" {
		consumer := &queue.Consumer{
			URL:     cfg.RabbitURL,
			LogPath: cfg.BookingLogPath,
			Logger:  log.With().Str("component", "booking-consumer").Logger(),
		}
		g.Go(func() error { return consumer.Run(ctx) })
	} else {
		log.Warn().Msg("RABBITMQ_URL not set, booking events are not published")
	}

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		log.Info().Msg("shutting down server")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown error: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("server terminated with error")
		os.Exit(1)
	}
}

func newServer(cfg config.Config, db *sql.DB, rdb *redis.Client, fees config.FeeSchedule, pub service.EventPublisher) *echo.Echo {
	bookingRepo := repository.NewBookingRepo(db)
	roomRepo := repository.NewRoomRepo(db)
	ownerRepo := repository.NewOwnerRepo(db)
	propertyRepo := repository.NewPropertyRepo(db)
	userRepo := repository.NewUserRepo(db)

	bookings := service.NewBookingService(bookingRepo, roomRepo, ownerRepo, fees, pub)
	calendar := service.NewCalendarService(roomRepo, bookingRepo)
	reports := service.NewReportService(roomRepo, bookingRepo)
	rooms := service.NewRoomService(roomRepo, bookingRepo, ownerRepo, propertyRepo)
	directory := service.NewDirectoryService(ownerRepo, propertyRepo)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewRequestValidator()
	e.Use(middleware.RequestLogger(log.Logger), middleware.Recover())

	checks := []handler.Check{{Name: "mysql", Ping: db.PingContext}, {Name: "redis"}}
	if rdb != nil {
		checks[1].Ping = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}

	h := router.Handlers{
		Health:   handler.Health(checks...),
		Auth:     handler.NewAuthHandler(userRepo, cfg.JWTSecret, cfg.AccessTTL, cfg.BcryptCost),
		Bookings: handler.NewBookingHandler(bookings),
		Rooms:    handler.NewRoomHandler(rooms, directory),
		Views:    handler.NewViewHandler(calendar, reports),
	}
	cacheCfg := config.LoadCacheConfig()
	router.RegisterRoutes(e, h)
	router.RegisterAPI(e, h, router.Middleware{
		JWTSecret:  cfg.JWTSecret,
		RateLimit:  middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb),
		Cache:      middleware.NewRedisCache(cacheCfg, rdb),
		Invalidate: middleware.InvalidateCache(cacheCfg, rdb),
	})
	return e
}
