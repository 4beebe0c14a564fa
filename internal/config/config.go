// Package config provides centralized configuration loaded from environment
// variables, optionally seeded from a YAML file. Shared by both cmd/api and
// cmd/ingest.
package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// --------------------------------------------------------------------------
// Store drivers
// --------------------------------------------------------------------------

const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// DefaultDatabaseName matches the database the predictor script reads.
const DefaultDatabaseName = "NBA-stats"

// --------------------------------------------------------------------------
// Config struct, populated from environment variables
// --------------------------------------------------------------------------

type Config struct {
	// Storage
	DatabaseURL      string
	DatabaseName     string
	StoreDriver      string
	DBPoolMinConns   int
	DBPoolMaxConns   int
	DBPoolMaxLife    time.Duration
	DBPoolMaxIdle    time.Duration
	DBConnectTimeout time.Duration

	// API server
	APIHost     string
	APIPort     int
	APIKey      string
	Environment string // development, staging, production
	LogLevel    slog.Level

	// CORS
	CORSAllowOrigins []string

	// Rate limiting
	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// Cache
	CacheEnabled bool

	// Predictor
	PredictURL     string
	PredictCommand string
	PredictScript  string
	PredictTimeout time.Duration

	// External API keys
	NewsAPIKey string

	// Maintenance
	GameLogRebuildInterval time.Duration
}

// fileConfig is the optional YAML overlay named by CONFIG_FILE. Values in it
// act as defaults; environment variables take precedence.
type fileConfig struct {
	Database struct {
		URL    string `yaml:"url"`
		Name   string `yaml:"name"`
		Driver string `yaml:"driver"`
	} `yaml:"database"`
	API struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
	} `yaml:"api"`
	Predict struct {
		URL     string `yaml:"url"`
		Command string `yaml:"command"`
		Script  string `yaml:"script"`
	} `yaml:"predict"`
	CORSAllowOrigins []string `yaml:"cors_allow_origins"`
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	var fc fileConfig
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := readFile(path, &fc); err != nil {
			return nil, err
		}
	}

	dbURL := envOr("MONGO_URI", envOr("DATABASE_URL", fc.Database.URL))
	if dbURL == "" {
		return nil, fmt.Errorf("MONGO_URI or DATABASE_URL must be set")
	}

	driver := envOr("STORE_DRIVER", fc.Database.Driver)
	if driver == "" {
		d, err := DriverFromURL(dbURL)
		if err != nil {
			return nil, err
		}
		driver = d
	}
	switch driver {
	case DriverMongo, DriverPostgres, DriverMemory:
	default:
		return nil, fmt.Errorf("unsupported STORE_DRIVER %q", driver)
	}

	level, err := parseLevel(envOr("LOG_LEVEL", "info"))
	if err != nil {
		return nil, err
	}

	connectTimeout, err := envDuration("DB_CONNECT_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	predictTimeout, err := envDuration("PREDICT_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}
	rebuildInterval, err := envDuration("GAMELOG_REBUILD_INTERVAL", 0)
	if err != nil {
		return nil, err
	}

	return &Config{
		DatabaseURL:      dbURL,
		DatabaseName:     envOr("DATABASE_NAME", orDefault(fc.Database.Name, DefaultDatabaseName)),
		StoreDriver:      driver,
		DBPoolMinConns:   envInt("DB_POOL_MIN_CONNS", 1),
		DBPoolMaxConns:   envInt("DB_POOL_MAX_CONNS", 10),
		DBPoolMaxLife:    time.Duration(envInt("DB_POOL_MAX_LIFE_MINUTES", 30)) * time.Minute,
		DBPoolMaxIdle:    time.Duration(envInt("DB_POOL_MAX_IDLE_MINUTES", 5)) * time.Minute,
		DBConnectTimeout: connectTimeout,

		APIHost:     envOr("API_HOST", orDefault(fc.API.Host, "0.0.0.0")),
		APIPort:     envInt("PORT", envInt("API_PORT", orDefaultInt(fc.API.Port, 5000))),
		APIKey:      envOr("API_KEY", ""),
		Environment: envOr("ENVIRONMENT", "development"),
		LogLevel:    level,

		CORSAllowOrigins: envList("CORS_ALLOW_ORIGINS", orDefaultList(fc.CORSAllowOrigins, []string{
			"http://localhost:3000",
			"http://localhost:5173",
		})),

		RateLimitEnabled:  envBool("RATE_LIMIT_ENABLED", true),
		RateLimitRequests: envInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitWindow:   time.Duration(envInt("RATE_LIMIT_WINDOW", 60)) * time.Second,

		CacheEnabled: envBool("CACHE_ENABLED", true),

		PredictURL:     envOr("PREDICT_URL", fc.Predict.URL),
		PredictCommand: envOr("PREDICT_COMMAND", orDefault(fc.Predict.Command, "python")),
		PredictScript:  envOr("PREDICT_SCRIPT", orDefault(fc.Predict.Script, "predict.py")),
		PredictTimeout: predictTimeout,

		NewsAPIKey: envOr("NEWS_API_KEY", ""),

		GameLogRebuildInterval: rebuildInterval,
	}, nil
}

// IsProduction returns true if running in production environment.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// DriverFromURL infers the store driver from a connection string scheme.
func DriverFromURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse database URL: %w", err)
	}
	switch strings.ToLower(u.Scheme) {
	case "mongodb", "mongodb+srv":
		return DriverMongo, nil
	case "postgres", "postgresql":
		return DriverPostgres, nil
	case "memory":
		return DriverMemory, nil
	default:
		return "", fmt.Errorf("cannot infer store driver from scheme %q", u.Scheme)
	}
}

func readFile(path string, fc *fileConfig) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config file: %w", err)
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(fc); err != nil {
		return fmt.Errorf("decode config file %s: %w", path, err)
	}
	return nil
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("parse LOG_LEVEL: %w", err)
	}
	return level, nil
}

// --------------------------------------------------------------------------
// Env helpers
// --------------------------------------------------------------------------

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return d, nil
}

func envList(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}

func orDefault(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}

func orDefaultInt(v, fallback int) int {
	if v != 0 {
		return v
	}
	return fallback
}

func orDefaultList(v, fallback []string) []string {
	if len(v) > 0 {
		return v
	}
	return fallback
}
