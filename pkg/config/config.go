package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	DatabaseMemory   = "memory"
	DatabaseSqlite   = "sqlite"
	DatabasePostgres = "postgres"

	CacheNone   = "none"
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

var (
	ErrUnknownDatabaseDriver = errors.New("unknown database driver")
	ErrUnknownCacheDriver    = errors.New("unknown cache driver")
)

type AppConfig struct {
	Environment string `toml:"environment"`
	ServiceName string `toml:"service_name"`
	Port        string `toml:"port"`

	Database  DatabaseConfig  `toml:"database"`
	Cache     CacheConfig     `toml:"cache"`
	CORS      CORSConfig      `toml:"cors"`
	Telemetry TelemetryConfig `toml:"telemetry"`
	Client    ClientConfig    `toml:"client"`

	RateLimitEnabled bool                       `toml:"rate_limit_enabled"`
	RateLimitConfigs map[string]RateLimitConfig `toml:"rate_limits"`

	EnforceHTTPS bool `toml:"enforce_https"`
}

type DatabaseConfig struct {
	Driver     string `toml:"driver"`
	Path       string `toml:"path"`
	URL        string `toml:"url"`
	LogQueries bool   `toml:"log_queries"`
}

type CacheConfig struct {
	Driver   string        `toml:"driver"`
	TTL      time.Duration `toml:"ttl"`
	RedisURL string        `toml:"redis_url"`
}

type CORSConfig struct {
	AllowedOrigins []string `toml:"allowed_origins"`
}

type TelemetryConfig struct {
	OTLPEndpoint string `toml:"otlp_endpoint"`
	MetricsPort  string `toml:"metrics_port"`
	LokiURL      string `toml:"loki_url"`
}

type ClientConfig struct {
	APIBaseURL     string        `toml:"api_base_url"`
	LogFile        string        `toml:"log_file"`
	RequestTimeout time.Duration `toml:"request_timeout"`
}

// RateLimitConfig is keyed by "METHOD /route" or by "default".
type RateLimitConfig struct {
	Requests int           `toml:"requests"`
	Window   time.Duration `toml:"window"`
}

func GetDefaultConfig() *AppConfig {
	return &AppConfig{
		Environment: "development",
		ServiceName: "taskapp",
		Port:        "8080",
		Database: DatabaseConfig{
			Driver: DatabaseSqlite,
			Path:   "tasks.db",
		},
		Cache: CacheConfig{
			Driver: CacheNone,
			TTL:    30 * time.Second,
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{"http://localhost:5173"},
		},
		Telemetry: TelemetryConfig{
			MetricsPort: "9090",
		},
		Client: ClientConfig{
			APIBaseURL:     "http://localhost:8080",
			RequestTimeout: 10 * time.Second,
		},
		RateLimitEnabled: true,
		RateLimitConfigs: map[string]RateLimitConfig{
			"GET /api/tasks": {
				Requests: 120,
				Window:   time.Minute,
			},
			"POST /api/tasks": {
				Requests: 30,
				Window:   time.Minute,
			},
			"PUT /api/tasks/:id": {
				Requests: 30,
				Window:   time.Minute,
			},
			"DELETE /api/tasks/:id": {
				Requests: 30,
				Window:   time.Minute,
			},
			"default": {
				Requests: 60,
				Window:   time.Minute,
			},
		},
		EnforceHTTPS: false,
	}
}

// Load layers defaults, the optional TOML file named by TASKAPP_CONFIG, then environment variables.
func Load() (*AppConfig, error) {
	cfg := GetDefaultConfig()

	if path := os.Getenv("TASKAPP_CONFIG"); path != "" {
		if err := LoadFile(cfg, path); err != nil {
			return nil, err
		}
	}

	if err := ApplyEnv(cfg, os.LookupEnv); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func LoadFile(cfg *AppConfig, path string) error {
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("decode config %s: %w", path, err)
	}

	return nil
}

// ApplyEnv overrides cfg with every variable lookup reports as set.
func ApplyEnv(cfg *AppConfig, lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	flag := func(key string, dst *bool) error {
		v, ok := lookup(key)

		if !ok || v == "" {
			return nil
		}

		parsed, err := strconv.ParseBool(v)

		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}

		*dst = parsed

		return nil
	}

	str("PORT", &cfg.Port)
	str("DATABASE_DRIVER", &cfg.Database.Driver)
	str("DATABASE_PATH", &cfg.Database.Path)
	str("DATABASE_URL", &cfg.Database.URL)
	str("CACHE_DRIVER", &cfg.Cache.Driver)
	str("REDIS_URL", &cfg.Cache.RedisURL)
	str("OTLP_ENDPOINT", &cfg.Telemetry.OTLPEndpoint)
	str("METRICS_PORT", &cfg.Telemetry.MetricsPort)
	str("LOKI_URL", &cfg.Telemetry.LokiURL)
	str("API_BASE_URL", &cfg.Client.APIBaseURL)
	str("TASKS_LOG_FILE", &cfg.Client.LogFile)

	if mode, ok := lookup("GIN_MODE"); ok && mode == "release" {
		cfg.Environment = "production"
		cfg.EnforceHTTPS = true
	}

	for key, dst := range map[string]*bool{
		"DATABASE_LOG_QUERIES": &cfg.Database.LogQueries,
		"ENFORCE_HTTPS":        &cfg.EnforceHTTPS,
		"RATE_LIMIT_ENABLED":   &cfg.RateLimitEnabled,
	} {
		if err := flag(key, dst); err != nil {
			return err
		}
	}

	if v, ok := lookup("CACHE_TTL"); ok && v != "" {
		ttl, err := time.ParseDuration(v)

		if err != nil {
			return fmt.Errorf("CACHE_TTL: %w", err)
		}

		cfg.Cache.TTL = ttl
	}

	if v, ok := lookup("CORS_ALLOWED_ORIGINS"); ok && v != "" {
		origins := make([]string, 0)

		for _, origin := range strings.Split(v, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				origins = append(origins, origin)
			}
		}

		cfg.CORS.AllowedOrigins = origins
	}

	return nil
}

func (c *AppConfig) Validate() error {
	switch c.Database.Driver {
	case DatabaseMemory, DatabaseSqlite, DatabasePostgres:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDatabaseDriver, c.Database.Driver)
	}

	switch c.Cache.Driver {
	case CacheNone, CacheMemory, CacheRedis:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCacheDriver, c.Cache.Driver)
	}

	return nil
}
