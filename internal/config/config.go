package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	Port                          string        `mapstructure:"PORT"`
	DBDriver                      string        `mapstructure:"DB_DRIVER"`
	DatabasePath                  string        `mapstructure:"DATABASE_PATH"`
	DatabaseDSN                   string        `mapstructure:"DATABASE_DSN"`
	DBMaxOpenConns                int           `mapstructure:"DB_MAX_OPEN_CONNS"`
	LogLevel                      string        `mapstructure:"LOG_LEVEL"`
	LogFormat                     string        `mapstructure:"LOG_FORMAT"`
	EnableCORS                    bool          `mapstructure:"ENABLE_CORS"`
	MetricsEnabled                bool          `mapstructure:"METRICS_ENABLED"`
	RedisAddr                     string        `mapstructure:"REDIS_ADDR"`
	RedisPassword                 string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB                       int           `mapstructure:"REDIS_DB"`
	FeaturedCacheTTL              time.Duration `mapstructure:"FEATURED_CACHE_TTL"`
	DiscordBotToken               string        `mapstructure:"DISCORD_BOT_TOKEN"`
	DiscordNotificationsChannelID string        `mapstructure:"DISCORD_NOTIFICATIONS_CHANNEL_ID"`
	BookingRateLimitRPS           float64       `mapstructure:"BOOKING_RATE_LIMIT_RPS"`
	BookingRateLimitBurst         int           `mapstructure:"BOOKING_RATE_LIMIT_BURST"`
}

// LoadConfig reads an optional .env file and then the process environment.
func LoadConfig() *Config {
	cfg, err := Load(viper.New())
	if err != nil {
		log.Fatalf("Unable to load config, %v", err)
	}
	return cfg
}

// Load populates a Config from v. Exposed separately so tests can use an isolated viper instance.
func Load(v *viper.Viper) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v.SetDefault("PORT", "3000")
	v.SetDefault("DB_DRIVER", DriverSQLite)
	v.SetDefault("DATABASE_PATH", "travel.db")
	v.SetDefault("DATABASE_DSN", "")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("ENABLE_CORS", true)
	v.SetDefault("METRICS_ENABLED", true)
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("FEATURED_CACHE_TTL", time.Minute)
	v.SetDefault("DISCORD_BOT_TOKEN", "")
	v.SetDefault("DISCORD_NOTIFICATIONS_CHANNEL_ID", "")
	v.SetDefault("BOOKING_RATE_LIMIT_RPS", 0)
	v.SetDefault("BOOKING_RATE_LIMIT_BURST", 5)

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.DBDriver = strings.ToLower(strings.TrimSpace(cfg.DBDriver))

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.Port) == "" {
		return errors.New("PORT must not be empty")
	}
	switch c.DBDriver {
	case DriverSQLite:
		if c.DatabasePath == "" {
			return errors.New("DATABASE_PATH is required for the sqlite driver")
		}
	case DriverPostgres:
		if c.DatabaseDSN == "" {
			return errors.New("DATABASE_DSN is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.DBMaxOpenConns <= 0 {
		return errors.New("DB_MAX_OPEN_CONNS must be positive")
	}
	if c.BookingRateLimitRPS < 0 {
		return errors.New("BOOKING_RATE_LIMIT_RPS must not be negative")
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}
