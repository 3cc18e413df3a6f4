package database

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// MemoryPath opens a private in-memory SQLite database.
const MemoryPath = ":memory:"

func gormConfig() *gorm.Config {
	return &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)}
}

// remoteGormConfig skips gorm's own Ping, which runs without a context.
// ConnectRemote pings under the caller's context instead.
func remoteGormConfig() *gorm.Config {
	cfg := gormConfig()
	cfg.DisableAutomaticPing = true
	return cfg
}

// ConnectLocal opens the embedded SQLite file at path. The pool is capped at
// one connection so every caller shares it and writes never interleave.
func ConnectLocal(path string) (*gorm.DB, error) {
	if path == "" {
		path = MemoryPath
	}
	if path != MemoryPath {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
	}

	db, err := gorm.Open(sqlite.Open(path), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to open local database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access local database: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}

// ConnectRemote connects to a Postgres database given as a postgres:// URL
// or a key=value DSN, and checks the connection once. The check gives up
// when ctx is done; a ctx deadline also becomes the DSN's connect_timeout.
func ConnectRemote(ctx context.Context, rawURL string) (*gorm.DB, error) {
	dsn := strings.TrimSpace(rawURL)
	if strings.Contains(dsn, "://") {
		parsed, err := pq.ParseURL(dsn)
		if err != nil {
			return nil, fmt.Errorf("invalid database url: %w", err)
		}
		dsn = parsed
	}
	dsn = withConnectTimeout(ctx, dsn)

	db, err := gorm.Open(postgres.Open(dsn), remoteGormConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access database: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to reach database: %w", err)
	}
	return db, nil
}

// withConnectTimeout appends connect_timeout, in whole seconds and at least
// one, when ctx has a deadline and the DSN does not set its own.
func withConnectTimeout(ctx context.Context, dsn string) string {
	deadline, ok := ctx.Deadline()
	if !ok || strings.Contains(dsn, "connect_timeout") {
		return dsn
	}
	secs := int(math.Ceil(time.Until(deadline).Seconds()))
	if secs < 1 {
		secs = 1
	}
	return fmt.Sprintf("%s connect_timeout=%d", dsn, secs)
}

// Close releases the pool behind db.
func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
