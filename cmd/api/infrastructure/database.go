package infrastructure

import (
	"context"
	"fmt"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"dataset-registry-service/internal/adapter/db/sqlstore"
	"dataset-registry-service/internal/config"
	"dataset-registry-service/pkg/logger"
)

// NewDatabase opens the SQLite database backing the sqlstore driver and
// migrates its tables.
func NewDatabase(ctx context.Context, cfg *config.Config, l *zap.Logger) (*gorm.DB, error) {
	// Configure GORM logger
	gormLogger := logger.NewGormLogger(l, cfg.Logger.SlowQuerySeconds, cfg.Logger.Level)

	db, err := gorm.Open(sqlite.Open(cfg.Store.SQLiteDSN), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// An in-memory database lives as long as one of its connections; keep
	// one open so the data outlives idle connection reaping.
	sqlDB.SetMaxOpenConns(cfg.Store.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Store.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(0)
	sqlDB.SetConnMaxIdleTime(0)

	if err := sqlstore.NewStore(db, l).Migrate(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	l.Info("database opened successfully",
		zap.String("driver", "sqlite"),
		zap.Int("max_open_conns", cfg.Store.MaxOpenConns),
	)

	return db, nil
}

// CloseDatabase closes the database connection
func CloseDatabase(db *gorm.DB) error {
	if db == nil {
		return nil
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	return nil
}
