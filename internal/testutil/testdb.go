package testutil

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"kvcache/internal/database"
	"kvcache/internal/models"
)

// NewInMemoryDB creates an in-memory SQLite DB and runs migrations.
func NewInMemoryDB() (*gorm.DB, error) {
	db, err := database.Open(":memory:", zerolog.Nop())
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&models.CacheEntry{}); err != nil {
		return nil, err
	}
	return db, nil
}

// NewFileDB opens a SQLite file inside a test temp dir, closed on cleanup.
// The schema is not created.
func NewFileDB(t *testing.T) (*gorm.DB, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "cache.db")

	db, err := database.Open(path, zerolog.Nop())
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = database.Close(db) })

	return db, path
}

// CountRows returns the number of rows physically stored for key.
func CountRows(t *testing.T, db *gorm.DB, key string) int64 {
	t.Helper()

	var count int64
	if err := db.Model(&models.CacheEntry{}).Where("key = ?", key).Count(&count).Error; err != nil {
		t.Fatalf("count rows: %v", err)
	}

	return count
}
