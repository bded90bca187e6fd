package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdg-garage/travel-booking/internal/cache"
	"github.com/gdg-garage/travel-booking/internal/catalog"
	"github.com/gdg-garage/travel-booking/internal/config"
	"github.com/gdg-garage/travel-booking/internal/database"
	"github.com/gdg-garage/travel-booking/internal/handlers"
	"github.com/gdg-garage/travel-booking/internal/logging"
	"github.com/gdg-garage/travel-booking/internal/metrics"
	"github.com/gdg-garage/travel-booking/internal/notifier"
	"github.com/gdg-garage/travel-booking/web"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	// Load Configuration
	cfg := config.LoadConfig()
	logger := logging.New(cfg.LogLevel, cfg.LogFormat).With().Str("component", "server").Logger()

	// Connect to Database
	db, err := database.Connect(cfg, logger)
	if err != nil {
		logger.Error().Err(err).Msg("init database")
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	opts := []catalog.Option{}

	redisClient := initRedis(cfg, &logger)
	if redisClient != nil {
		defer redisClient.Close()
		opts = append(opts, catalog.WithFeaturedCache(cache.NewFeaturedCache(redisClient, cfg.FeaturedCacheTTL)))
	}

	if n := initNotifier(cfg, &logger); n != nil {
		opts = append(opts, catalog.WithNotifier(n))
	}

	if cfg.MetricsEnabled {
		metrics.Register()
	}

	// Initialize Handlers
	svc := catalog.NewService(db, logger, opts...)
	packageHandler := handlers.NewPackageHandler(svc, logger)
	bookingHandler := handlers.NewBookingHandler(svc, logger)

	// Initialize Router
	r := chi.NewRouter()

	// Register Routes
	handlers.RegisterRoutes(r, handlers.RouteOptions{
		Logger:         logger,
		EnableCORS:     cfg.EnableCORS,
		MetricsEnabled: cfg.MetricsEnabled,
		BookingLimiter: handlers.NewRateLimiter(cfg.BookingRateLimitRPS, cfg.BookingRateLimitBurst),
		Assets:         web.Assets(),
	}, packageHandler, bookingHandler)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error().Err(err).Msg("http server stopped")
			return err
		}
	case <-ctx.Done():
		logger.Info().Msg("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
		return err
	}

	logger.Info().Msg("server stopped")
	return nil
}

func initRedis(cfg *config.Config, logger *zerolog.Logger) *redis.Client {
	if cfg.RedisAddr == "" {
		return nil
	}

	client := cache.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := cache.Ping(ctx, client); err != nil {
		logger.Warn().Err(err).Msg("redis connection failed, continuing without featured cache")
		_ = client.Close()
		return nil
	}

	logger.Info().Str("addr", cfg.RedisAddr).Dur("ttl", cfg.FeaturedCacheTTL).Msg("redis connected")
	return client
}

func initNotifier(cfg *config.Config, logger *zerolog.Logger) *notifier.DiscordNotifier {
	if cfg.DiscordBotToken == "" || cfg.DiscordNotificationsChannelID == "" {
		return nil
	}

	session, err := notifier.NewDiscordSession(cfg.DiscordBotToken)
	if err != nil {
		logger.Warn().Err(err).Msg("Discord notifier not initialized")
		return nil
	}
	return notifier.NewDiscordNotifier(session, cfg.DiscordNotificationsChannelID)
}
