package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoad_Defaults(t *testing.T) {
	conf, err := Load("", "")
	require.NoError(t, err)

	assert.False(t, conf.Cache.Disabled)
	assert.Equal(t, 5, conf.Cache.SweepInterval)
	assert.Equal(t, 300, conf.Cache.DefaultTTL)
	assert.Equal(t, 5*time.Second, conf.Cache.SweepPeriod())
	assert.Equal(t, 300*time.Second, conf.Cache.DefaultTTLDuration())
	assert.Equal(t, "kvcache.db", conf.Database.Path)
	assert.Equal(t, LogJSONFormat, conf.Log.Format)
	assert.Equal(t, ":8008", conf.Server.Address)
	assert.Equal(t, 24*time.Hour, conf.Auth.TokenTTL)
	assert.False(t, conf.Auth.Enabled())
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeConfigFile(t, `
cache:
  disabled: true
  sweep_interval: 30
database:
  path: /tmp/other.db
log:
  format: text
auth:
  secret: s3cr3t
  token_ttl: 1h
`)

	conf, err := Load(path, "")
	require.NoError(t, err)

	assert.True(t, conf.Cache.Disabled)
	assert.Equal(t, 30, conf.Cache.SweepInterval)
	assert.Equal(t, 300, conf.Cache.DefaultTTL)
	assert.Equal(t, "/tmp/other.db", conf.Database.Path)
	assert.Equal(t, LogTextFormat, conf.Log.Format)
	assert.True(t, conf.Auth.Enabled())
	assert.Equal(t, time.Hour, conf.Auth.TokenTTL)
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	path := writeConfigFile(t, `
cache:
  sweep_interval: 30
`)

	t.Setenv("KVCACHETEST_CACHE_SWEEP__INTERVAL", "7")
	t.Setenv("KVCACHETEST_CACHE_DEFAULT__TTL", "60")
	t.Setenv("KVCACHETEST_CACHE_DISABLED", "true")

	conf, err := Load(path, "KVCACHETEST_")
	require.NoError(t, err)

	assert.Equal(t, 7, conf.Cache.SweepInterval)
	assert.Equal(t, 60, conf.Cache.DefaultTTL)
	assert.True(t, conf.Cache.Disabled)
}

func TestLoad_Validation(t *testing.T) {
	for _, tc := range []struct {
		uc      string
		content string
	}{
		{uc: "zero sweep interval", content: "cache:\n  sweep_interval: 0\n"},
		{uc: "negative default ttl", content: "cache:\n  default_ttl: -1\n"},
		{uc: "zero default ttl", content: "cache:\n  default_ttl: 0\n"},
		{uc: "empty database path", content: "database:\n  path: \"\"\n"},
		{uc: "unknown log format", content: "log:\n  format: xml\n"},
		{uc: "unknown log level", content: "log:\n  level: loud\n"},
	} {
		t.Run(tc.uc, func(t *testing.T) {
			_, err := Load(writeConfigFile(t, tc.content), "")

			require.Error(t, err)
			require.ErrorIs(t, err, ErrConfiguration)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"), "")

	require.ErrorIs(t, err, ErrConfiguration)
}
