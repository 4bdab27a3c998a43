package database

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const busyTimeoutMillis = 5000

// Open opens (and creates if needed) the SQLite database at path.
// Using glebarez/sqlite which is a pure Go implementation (no CGO required).
func Open(path string, log zerolog.Logger) (*gorm.DB, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("database path is required")
	}

	memory := IsMemory(path)
	if !memory {
		if err := ensureDirectory(path); err != nil {
			return nil, err
		}
	}

	db, err := gorm.Open(sqlite.Open(dsn(path, memory)), &gorm.Config{
		Logger: logger.Default.LogMode(gormLogLevel(log.GetLevel())),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite database %q: %w", path, err)
	}

	if memory {
		// every pooled connection to :memory: would see its own empty database
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("access connection pool: %w", err)
		}

		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
		sqlDB.SetConnMaxLifetime(0)
		sqlDB.SetConnMaxIdleTime(0)
	}

	log.Info().Str("path", path).Bool("memory", memory).Msg("Database opened")

	return db, nil
}

// Close releases the connection pool behind db.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	return sqlDB.Close()
}

// IsMemory reports whether path denotes an in-memory database.
func IsMemory(path string) bool {
	return path == ":memory:" ||
		strings.HasPrefix(path, "file::memory:") ||
		strings.Contains(path, "mode=memory")
}

func dsn(path string, memory bool) string {
	if memory {
		return path
	}

	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}

	return fmt.Sprintf("%s%s_pragma=busy_timeout(%d)&_pragma=journal_mode(WAL)", path, sep, busyTimeoutMillis)
}

func ensureDirectory(path string) error {
	candidate := strings.TrimPrefix(path, "file:")
	if idx := strings.Index(candidate, "?"); idx >= 0 {
		candidate = candidate[:idx]
	}

	dir := filepath.Dir(candidate)
	if dir == "" || dir == "." {
		return nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create sqlite directory %q: %w", dir, err)
	}

	return nil
}

func gormLogLevel(level zerolog.Level) logger.LogLevel {
	switch level {
	case zerolog.TraceLevel, zerolog.DebugLevel:
		return logger.Info
	default:
		return logger.Silent
	}
}
