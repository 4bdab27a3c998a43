package models

// CacheEntry is a single cached value together with its expiration.
type CacheEntry struct {
	Key        string `gorm:"column:key;type:text;primaryKey"`
	Value      string `gorm:"column:value;type:text;not null"`
	Expiration int64  `gorm:"column:expiration;not null;index"` // unix seconds
}

// TableName specifies the table name for CacheEntry Model
func (CacheEntry) TableName() string {
	return "cache"
}

// ExpiredAt reports whether the entry is logically expired at the given unix time.
func (e CacheEntry) ExpiredAt(unix int64) bool {
	return e.Expiration <= unix
}
