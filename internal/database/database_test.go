package database

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"
)

func TestOpen_CreatesDirectoryAndFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "cache.db")

	db, err := Open(path, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })

	require.NoError(t, db.Exec("CREATE TABLE IF NOT EXISTS probe (id INTEGER)").Error)
	assert.FileExists(t, path)

	var mode string
	require.NoError(t, db.Raw("PRAGMA journal_mode").Scan(&mode).Error)
	assert.Equal(t, "wal", mode)
}

func TestOpen_MemorySharesOneConnection(t *testing.T) {
	db, err := Open(":memory:", zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })

	require.NoError(t, db.Exec("CREATE TABLE probe (id INTEGER)").Error)
	require.NoError(t, db.Exec("INSERT INTO probe (id) VALUES (1)").Error)

	var count int64
	require.NoError(t, db.Raw("SELECT COUNT(*) FROM probe").Scan(&count).Error)
	assert.Equal(t, int64(1), count)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)
}

func TestOpen_RequiresPath(t *testing.T) {
	_, err := Open("  ", zerolog.Nop())
	require.Error(t, err)
}

func TestIsMemory(t *testing.T) {
	for _, tc := range []struct {
		path   string
		memory bool
	}{
		{path: ":memory:", memory: true},
		{path: "file::memory:?cache=shared", memory: true},
		{path: "file:cache?mode=memory", memory: true},
		{path: "cache.db", memory: false},
		{path: "/var/lib/kvcache/cache.db", memory: false},
	} {
		assert.Equal(t, tc.memory, IsMemory(tc.path), tc.path)
	}
}

func TestDSN(t *testing.T) {
	assert.Equal(t, ":memory:", dsn(":memory:", true))
	assert.Equal(t, "c.db?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", dsn("c.db", false))
	assert.Equal(t, "file:c.db?cache=private&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)",
		dsn("file:c.db?cache=private", false))
}

func TestGormLogLevel(t *testing.T) {
	assert.Equal(t, logger.Info, gormLogLevel(zerolog.DebugLevel))
	assert.Equal(t, logger.Silent, gormLogLevel(zerolog.InfoLevel))
}
