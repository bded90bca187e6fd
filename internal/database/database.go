package database

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gdg-garage/travel-booking/internal/config"
	"github.com/gdg-garage/travel-booking/internal/models"
	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens the configured store, sizes its pool and migrates the schema.
func Connect(cfg *config.Config, log zerolog.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case config.DriverPostgres:
		dialector = postgres.Open(cfg.DatabaseDSN)
	default:
		dialector = sqlite.Open(SQLiteDSN(cfg.DatabasePath))
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.New(zerologWriter{log}, logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to %s database: %w", cfg.DBDriver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql handle: %w", err)
	}
	maxOpen := cfg.DBMaxOpenConns
	if cfg.DBDriver == config.DriverSQLite && strings.Contains(cfg.DatabasePath, ":memory:") {
		// each connection to :memory: is a separate database
		maxOpen = 1
	}
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetMaxIdleConns(maxOpen)

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Info().Str("driver", cfg.DBDriver).Int("max_open_conns", maxOpen).Msg("database ready")
	return db, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.TravelPackage{}, &models.Booking{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// SQLiteDSN turns foreign key enforcement on for every pooled connection.
func SQLiteDSN(path string) string {
	base, query, _ := strings.Cut(path, "?")
	params, err := url.ParseQuery(query)
	if err != nil {
		params = url.Values{}
	}
	if params.Get("_foreign_keys") == "" && params.Get("_fk") == "" {
		params.Set("_foreign_keys", "on")
	}
	return base + "?" + params.Encode()
}

type zerologWriter struct {
	log zerolog.Logger
}

func (w zerologWriter) Printf(format string, args ...any) {
	w.log.Warn().Str("component", "gorm").Msg(fmt.Sprintf(format, args...))
}
