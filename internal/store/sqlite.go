package store

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"kvcache/internal/models"
)

// SQLiteStore keeps entries in the "cache" table of a SQLite database. Each call runs a
// single statement on a connection borrowed from the pool for just that statement.
type SQLiteStore struct {
	db *gorm.DB
}

var _ Store = (*SQLiteStore)(nil)

func NewSQLiteStore(db *gorm.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) InitSchema(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&models.CacheEntry{}); err != nil {
		return unavailable("migrate cache table", err)
	}

	return nil
}

func (s *SQLiteStore) Upsert(ctx context.Context, key, value string, expiresAt int64) error {
	row := models.CacheEntry{
		Key:        key,
		Value:      value,
		Expiration: expiresAt,
	}

	if err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "expiration"}),
	}).Create(&row).Error; err != nil {
		return unavailable("upsert cache entry", err)
	}

	return nil
}

func (s *SQLiteStore) SelectByKey(ctx context.Context, key string) (models.CacheEntry, error) {
	var row models.CacheEntry

	if err := s.db.WithContext(ctx).Where("key = ?", key).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.CacheEntry{}, ErrNotFound
		}

		return models.CacheEntry{}, unavailable("query cache entry", err)
	}

	return row, nil
}

func (s *SQLiteStore) DeleteWhereExpired(ctx context.Context, threshold int64) (int64, error) {
	res := s.db.WithContext(ctx).Where("expiration <= ?", threshold).Delete(&models.CacheEntry{})
	if res.Error != nil {
		return 0, unavailable("delete expired cache entries", res.Error)
	}

	return res.RowsAffected, nil
}

func (s *SQLiteStore) DeleteByKey(ctx context.Context, key string) error {
	if err := s.db.WithContext(ctx).Where("key = ?", key).Delete(&models.CacheEntry{}).Error; err != nil {
		return unavailable("delete cache entry", err)
	}

	return nil
}
