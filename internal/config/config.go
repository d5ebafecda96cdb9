// Package config loads service configuration from defaults, an optional
// YAML file, an optional .env file and the environment, in that order of
// increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Store drivers.
const (
	DriverSpanner = "spanner"
	DriverSQLite  = "sqlite"
	DriverMemory  = "memory"
)

// ConfigPathEnv names the variable holding the optional YAML file path.
const ConfigPathEnv = "CATALOG_CONFIG"

// Config holds all service configuration.
type Config struct {
	ServiceName string        `yaml:"service_name"`
	Env         string        `yaml:"env"`
	Log         LogConfig     `yaml:"log"`
	Server      ServerConfig  `yaml:"server"`
	Store       StoreConfig   `yaml:"store"`
	Cache       CacheConfig   `yaml:"cache"`
	Session     SessionConfig `yaml:"session"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `yaml:"level"`
}

// ServerConfig configures the HTTP and gRPC listeners.
type ServerConfig struct {
	HTTPPort        string        `yaml:"http_port"`
	GRPCPort        string        `yaml:"grpc_port"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// StoreConfig selects and configures the catalog store.
type StoreConfig struct {
	Driver          string `yaml:"driver"`
	SpannerDatabase string `yaml:"spanner_database"`
	SQLitePath      string `yaml:"sqlite_path"`
}

// CacheConfig configures the shared reference list cache. An empty
// RedisAddr disables it.
type CacheConfig struct {
	RedisAddr string        `yaml:"redis_addr"`
	TTL       time.Duration `yaml:"ttl"`
}

// SessionConfig configures browsing sessions.
type SessionConfig struct {
	IdleTimeout time.Duration `yaml:"idle_timeout"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		ServiceName: "procat-browse",
		Env:         "development",
		Log:         LogConfig{Level: "info"},
		Server: ServerConfig{
			HTTPPort:        "8080",
			GRPCPort:        "9090",
			ShutdownTimeout: 10 * time.Second,
		},
		Store: StoreConfig{
			Driver:          DriverMemory,
			SpannerDatabase: "projects/test-project/instances/dev-instance/databases/catalog-db",
			SQLitePath:      "catalog.db",
		},
		Cache: CacheConfig{
			TTL: 5 * time.Minute,
		},
		Session: SessionConfig{
			IdleTimeout: 30 * time.Minute,
		},
	}
}

// Load builds the configuration. A missing YAML or .env file is not an error.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := Default()
	if path := os.Getenv(ConfigPathEnv); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() error {
	c.Env = getEnv("APP_ENV", c.Env)
	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
	c.Server.HTTPPort = getEnv("HTTP_PORT", c.Server.HTTPPort)
	c.Server.GRPCPort = getEnv("GRPC_PORT", c.Server.GRPCPort)
	c.Store.Driver = strings.ToLower(getEnv("STORE_DRIVER", c.Store.Driver))
	c.Store.SpannerDatabase = getEnv("SPANNER_DATABASE", c.Store.SpannerDatabase)
	c.Store.SQLitePath = getEnv("SQLITE_PATH", c.Store.SQLitePath)
	c.Cache.RedisAddr = getEnv("REDIS_ADDR", c.Cache.RedisAddr)

	var err error
	if c.Cache.TTL, err = getEnvDuration("REFERENCE_CACHE_TTL", c.Cache.TTL); err != nil {
		return err
	}
	if c.Session.IdleTimeout, err = getEnvDuration("SESSION_IDLE_TIMEOUT", c.Session.IdleTimeout); err != nil {
		return err
	}
	if c.Server.ShutdownTimeout, err = getEnvDuration("SHUTDOWN_TIMEOUT", c.Server.ShutdownTimeout); err != nil {
		return err
	}
	return nil
}

// Validate checks the store driver and the durations.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case DriverSpanner:
		if c.Store.SpannerDatabase == "" {
			return errors.New("spanner driver requires SPANNER_DATABASE")
		}
	case DriverSQLite:
		if c.Store.SQLitePath == "" {
			return errors.New("sqlite driver requires SQLITE_PATH")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}

	if c.Cache.TTL <= 0 {
		return fmt.Errorf("cache ttl must be positive, got %s", c.Cache.TTL)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown timeout must be positive, got %s", c.Server.ShutdownTimeout)
	}
	return nil
}

// IsProduction reports whether the service runs in production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return defaultValue
}

// getEnvDuration accepts Go durations ("90s") and plain seconds ("90").
func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := getEnv(key, "")
	if value == "" {
		return defaultValue, nil
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return d, nil
}
