package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gdg-garage/travel-booking/internal/models"
	"github.com/redis/go-redis/v9"
)

const FeaturedKey = "travel:featured_packages"

// FeaturedCache keeps the featured list in Redis for a bounded time.
type FeaturedCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

func NewFeaturedCache(client *redis.Client, ttl time.Duration) *FeaturedCache {
	return &FeaturedCache{client: client, ttl: ttl}
}

func (c *FeaturedCache) Get(ctx context.Context) ([]models.TravelPackage, bool, error) {
	if c.client == nil {
		return nil, false, fmt.Errorf("redis client is nil")
	}
	val, err := c.client.Get(ctx, FeaturedKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get featured packages from redis: %w", err)
	}

	packages := []models.TravelPackage{}
	if err := json.Unmarshal(val, &packages); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal featured packages: %w", err)
	}
	return packages, true, nil
}

func (c *FeaturedCache) Set(ctx context.Context, packages []models.TravelPackage) error {
	if c.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	data, err := json.Marshal(packages)
	if err != nil {
		return fmt.Errorf("failed to marshal featured packages: %w", err)
	}
	if err := c.client.Set(ctx, FeaturedKey, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set featured packages in redis: %w", err)
	}
	return nil
}

func (c *FeaturedCache) Invalidate(ctx context.Context) error {
	if c.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if err := c.client.Del(ctx, FeaturedKey).Err(); err != nil {
		return fmt.Errorf("failed to delete featured packages from redis: %w", err)
	}
	return nil
}

// Ping checks the connection to Redis.
func Ping(ctx context.Context, client *redis.Client) error {
	if _, err := client.Ping(ctx).Result(); err != nil {
		return fmt.Errorf("failed to ping Redis: %w", err)
	}
	return nil
}
