package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envLookup(values map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	}
}

func TestGetDefaultConfig(t *testing.T) {
	cfg := GetDefaultConfig()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, DatabaseSqlite, cfg.Database.Driver)
	assert.Equal(t, CacheNone, cfg.Cache.Driver)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.CORS.AllowedOrigins)
	assert.False(t, cfg.EnforceHTTPS)
	assert.NoError(t, cfg.Validate())
}

func TestApplyEnv(t *testing.T) {
	cfg := GetDefaultConfig()

	err := ApplyEnv(cfg, envLookup(map[string]string{
		"PORT":                 "9000",
		"DATABASE_DRIVER":      "postgres",
		"DATABASE_URL":         "postgres://localhost/tasks",
		"DATABASE_LOG_QUERIES": "true",
		"CACHE_DRIVER":         "redis",
		"CACHE_TTL":            "2m",
		"CORS_ALLOWED_ORIGINS": "http://a.test, http://b.test,",
		"API_BASE_URL":         "http://api.test",
	}))

	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, DatabasePostgres, cfg.Database.Driver)
	assert.Equal(t, "postgres://localhost/tasks", cfg.Database.URL)
	assert.True(t, cfg.Database.LogQueries)
	assert.Equal(t, CacheRedis, cfg.Cache.Driver)
	assert.Equal(t, 2*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, "http://api.test", cfg.Client.APIBaseURL)
}

func TestApplyEnv_ReleaseModeEnforcesHTTPS(t *testing.T) {
	cfg := GetDefaultConfig()

	require.NoError(t, ApplyEnv(cfg, envLookup(map[string]string{"GIN_MODE": "release"})))

	assert.True(t, cfg.EnforceHTTPS)
	assert.Equal(t, "production", cfg.Environment)
}

func TestApplyEnv_InvalidValues(t *testing.T) {
	assert.Error(t, ApplyEnv(GetDefaultConfig(), envLookup(map[string]string{"ENFORCE_HTTPS": "maybe"})))
	assert.Error(t, ApplyEnv(GetDefaultConfig(), envLookup(map[string]string{"CACHE_TTL": "soon"})))
}

func TestValidate_UnknownDrivers(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Database.Driver = "oracle"
	assert.ErrorIs(t, cfg.Validate(), ErrUnknownDatabaseDriver)

	cfg = GetDefaultConfig()
	cfg.Cache.Driver = "memcached"
	assert.ErrorIs(t, cfg.Validate(), ErrUnknownCacheDriver)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "taskapp.toml")

	content := `
port = "7070"

[database]
driver = "memory"

[cache]
driver = "memory"
ttl = "45s"

[rate_limits."POST /api/tasks"]
requests = 3
window = "10s"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg := GetDefaultConfig()
	require.NoError(t, LoadFile(cfg, path))

	assert.Equal(t, "7070", cfg.Port)
	assert.Equal(t, DatabaseMemory, cfg.Database.Driver)
	assert.Equal(t, 45*time.Second, cfg.Cache.TTL)
	assert.Equal(t, RateLimitConfig{Requests: 3, Window: 10 * time.Second}, cfg.RateLimitConfigs["POST /api/tasks"])
	assert.Contains(t, cfg.RateLimitConfigs, "default")
}

func TestLoad_FromEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "taskapp.toml")
	require.NoError(t, os.WriteFile(path, []byte("port = \"7070\"\n"), 0o600))

	t.Setenv("TASKAPP_CONFIG", path)
	t.Setenv("DATABASE_DRIVER", "memory")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "7070", cfg.Port)
	assert.Equal(t, DatabaseMemory, cfg.Database.Driver)
}

func TestLoad_MissingFile(t *testing.T) {
	t.Setenv("TASKAPP_CONFIG", filepath.Join(t.TempDir(), "missing.toml"))

	_, err := Load()

	assert.Error(t, err)
}
