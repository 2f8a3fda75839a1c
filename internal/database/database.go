// package database opens the sqlite store and bootstraps its schema
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/cirocosta/todoapi/internal/config"
)

// PingTimeout bounds the health check round-trip to the store
const PingTimeout = 2 * time.Second

const createTodosTable = `
CREATE TABLE IF NOT EXISTS Todos (
	Id INTEGER PRIMARY KEY AUTOINCREMENT,
	Title TEXT NOT NULL,
	Description TEXT,
	IsCompleted INTEGER NOT NULL DEFAULT 0,
	CreatedAt TEXT NOT NULL
)`

// Open connects to the sqlite file at cfg.Path. Failed statements are logged
// through log as errors and slow statements as warnings. Every statement is
// logged at info level when cfg.Debug is set.
func Open(cfg config.DatabaseConfig, log zerolog.Logger) (*gorm.DB, error) {
	logLevel := gormlogger.Warn
	if cfg.Debug {
		logLevel = gormlogger.Info
	}

	dbLog := log.With().Str("component", "gorm").Logger()

	db, err := gorm.Open(sqlite.Open(cfg.Path), &gorm.Config{
		Logger: newGormLogger(dbLog, logLevel, cfg.SlowQueryThreshold),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite database %s: %w", cfg.Path, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)

	return db, nil
}

// EnsureSchema creates the Todos table if it does not exist yet
func EnsureSchema(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).Exec(createTodosTable).Error; err != nil {
		return fmt.Errorf("create todos table: %w", err)
	}
	return nil
}

// Ping checks that the store is reachable
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("get sql.DB: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, PingTimeout)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	return nil
}

// Close releases every pooled connection
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("get sql.DB: %w", err)
	}

	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}
