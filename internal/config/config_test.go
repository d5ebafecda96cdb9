package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	chdirTemp(t)
	t.Setenv(ConfigPathEnv, "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, Default(), cfg)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_YAMLThenEnv(t *testing.T) {
	dir := chdirTemp(t)
	path := filepath.Join(dir, "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
env: production
log:
  level: warn
server:
  http_port: "8081"
store:
  driver: sqlite
  sqlite_path: /tmp/catalog.db
cache:
  redis_addr: localhost:6379
  ttl: 2m
session:
  idle_timeout: 1h
`), 0o600))

	t.Setenv(ConfigPathEnv, path)
	t.Setenv("HTTP_PORT", "9999")
	t.Setenv("SESSION_IDLE_TIMEOUT", "90")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "9999", cfg.Server.HTTPPort)
	assert.Equal(t, "9090", cfg.Server.GRPCPort)
	assert.Equal(t, DriverSQLite, cfg.Store.Driver)
	assert.Equal(t, "/tmp/catalog.db", cfg.Store.SQLitePath)
	assert.Equal(t, "localhost:6379", cfg.Cache.RedisAddr)
	assert.Equal(t, 2*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, 90*time.Second, cfg.Session.IdleTimeout)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("STORE_DRIVER=SQLITE\nLOG_LEVEL=debug\n"), 0o600))
	t.Setenv(ConfigPathEnv, "")
	// godotenv never overrides variables that are already set
	t.Setenv("LOG_LEVEL", "error")
	// registered so the value set from .env is removed after the test
	t.Setenv("STORE_DRIVER", "")
	require.NoError(t, os.Unsetenv("STORE_DRIVER"))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, cfg.Store.Driver)
	assert.Equal(t, "error", cfg.Log.Level)
}

func TestLoad_MissingYAMLIsIgnored(t *testing.T) {
	dir := chdirTemp(t)
	t.Setenv(ConfigPathEnv, filepath.Join(dir, "absent.yaml"))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DriverMemory, cfg.Store.Driver)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"unknown driver", map[string]string{"STORE_DRIVER": "mongo"}},
		{"bad duration", map[string]string{"REFERENCE_CACHE_TTL": "soon"}},
		{"non-positive ttl", map[string]string{"REFERENCE_CACHE_TTL": "0"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chdirTemp(t)
			t.Setenv(ConfigPathEnv, "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := chdirTemp(t)
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [unclosed"), 0o600))
	t.Setenv(ConfigPathEnv, path)

	_, err := Load()
	assert.ErrorContains(t, err, "failed to parse config")
}
