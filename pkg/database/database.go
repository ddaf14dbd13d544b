package database

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Options selects and tunes the backing store.
type Options struct {
	Driver string // "sqlite" (default) or "postgres"
	DSN    string // file path / ":memory:" for sqlite, connection string for postgres

	// Logger receives SQL traces; nil silences GORM.
	Logger *slog.Logger
	// LogLevel for GORM traces, defaults to logger.Warn.
	LogLevel logger.LogLevel
}

// Open connects to the configured store. The sqlite store is the desktop default:
// a single file and a single connection, so every write is serialized.
func Open(opts Options) (*gorm.DB, error) {
	gormLogger := logger.Discard
	if opts.Logger != nil {
		level := opts.LogLevel
		if level == 0 {
			level = logger.Warn
		}
		gormLogger = logger.New(
			slog.NewLogLogger(opts.Logger.Handler(), slog.LevelDebug),
			logger.Config{
				SlowThreshold:             time.Second,
				LogLevel:                  level,
				IgnoreRecordNotFoundError: true,
				Colorful:                  false,
			},
		)
	}
	cfg := &gorm.Config{
		Logger:         gormLogger,
		TranslateError: true,
		PrepareStmt:    false,
	}

	switch opts.Driver {
	case "", DriverSQLite:
		dsn := opts.DSN
		if dsn == "" {
			dsn = "inventory.db"
		}
		db, err := gorm.Open(sqlite.Open(dsn), cfg)
		if err != nil {
			return nil, fmt.Errorf("open sqlite %q: %w", dsn, err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		// ":memory:" lives as long as its connection, so keep exactly one forever.
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
		sqlDB.SetConnMaxLifetime(0)
		return db, nil

	case DriverPostgres:
		db, err := gorm.Open(postgres.New(postgres.Config{
			DSN:                  opts.DSN,
			PreferSimpleProtocol: true, // Disables implicit prepared statements for pgbouncer transaction mode
		}), cfg)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetMaxOpenConns(20)
		sqlDB.SetConnMaxLifetime(time.Hour)
		return db, nil

	default:
		return nil, fmt.Errorf("unsupported database driver %q", opts.Driver)
	}
}

// Migrate creates or updates the tables for models.
func Migrate(db *gorm.DB, models ...interface{}) error {
	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
