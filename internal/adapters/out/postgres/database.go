package postgres

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/abhijeetraiiit/nccart/internal/adapters/out/postgres/buyerrepo"
	"github.com/abhijeetraiiit/nccart/internal/adapters/out/postgres/courierrepo"
	"github.com/abhijeetraiiit/nccart/internal/adapters/out/postgres/dispatchrepo"
	"github.com/abhijeetraiiit/nccart/internal/adapters/out/postgres/orderrepo"
	"github.com/abhijeetraiiit/nccart/internal/adapters/out/postgres/partnerrepo"
	"github.com/abhijeetraiiit/nccart/internal/adapters/out/postgres/pincoderepo"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DatabaseConfig selects and tunes the store behind every repository.
type DatabaseConfig struct {
	// Driver is "postgres" or "sqlite"; empty means sqlite.
	Driver string
	DSN    string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration

	// LogLevel is gorm's own query log level: silent, error, warn or info.
	LogLevel string
}

// Open connects to the configured database and applies the pool settings.
//
// Example:
//
//	db, err := postgres.Open(postgres.DatabaseConfig{Driver: "sqlite", DSN: "file:nccart.db"})
//	if err != nil {
//	    return err
//	}
//	defer postgres.Close(db)
func Open(cfg DatabaseConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "", "sqlite":
		dialector = sqlite.Open(cfg.DSN)
	case "postgres", "postgresql":
		dialector = postgres.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logLevel(cfg.LogLevel)),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	applyPool(sqlDB, cfg)
	return db, nil
}

// Migrate creates or updates every table the adapters use.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&partnerrepo.PartnerDTO{},
		&courierrepo.CourierDTO{},
		&dispatchrepo.AttemptDTO{},
		&dispatchrepo.OfferDTO{},
		&orderrepo.OrderDTO{},
		&buyerrepo.BuyerDTO{},
		&pincoderepo.RiskDTO{},
	)
}

// Close releases the connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func applyPool(sqlDB *sql.DB, cfg DatabaseConfig) {
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
	if cfg.ConnMaxIdleTime > 0 {
		sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	}
}

func logLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "info":
		return logger.Info
	case "warn":
		return logger.Warn
	case "error":
		return logger.Error
	default:
		return logger.Silent
	}
}
