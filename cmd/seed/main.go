package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/gdg-garage/travel-booking/internal/cache"
	"github.com/gdg-garage/travel-booking/internal/config"
	"github.com/gdg-garage/travel-booking/internal/database"
	"github.com/gdg-garage/travel-booking/internal/logging"
	"github.com/gdg-garage/travel-booking/internal/seed"
)

func main() {
	file := flag.String("file", "catalog.yaml", "YAML catalog of travel packages to insert")
	flag.Parse()

	cfg := config.LoadConfig()
	logger := logging.New(cfg.LogLevel, cfg.LogFormat).With().Str("component", "seed").Logger()

	catalog, err := seed.LoadFile(*file)
	if err != nil {
		log.Fatalf("Failed to load catalog: %v", err)
	}

	db, err := database.Connect(cfg, logger)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	inserted, err := seed.Insert(ctx, db, catalog)
	if err != nil {
		log.Fatalf("Failed to seed catalog: %v", err)
	}
	logger.Info().Str("file", *file).Int("packages", len(inserted)).Msg("catalog seeded")

	if cfg.RedisAddr == "" {
		return
	}
	client := cache.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer client.Close()
	if err := cache.NewFeaturedCache(client, cfg.FeaturedCacheTTL).Invalidate(ctx); err != nil {
		logger.Warn().Err(err).Msg("featured cache not invalidated")
	}
}
