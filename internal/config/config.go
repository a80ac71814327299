package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"ecoeats-backend/internal/logging"
)

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"

	defaultDSN         = "host=localhost user=postgres password=postgres dbname=ecoeats port=5432 sslmode=disable"
	defaultCORSOrigins = "http://localhost:3000"

	// ConfigPathEnvVar overrides the config file search.
	ConfigPathEnvVar = "CONFIG_PATH"
)

// DefaultConfigPaths are tried in order when CONFIG_PATH is unset.
var DefaultConfigPaths = []string{"config.yaml", "config.yml", "/etc/ecoeats/config.yaml"}

type Config struct {
	HTTPPort       string `koanf:"http_port"`
	DatabaseDriver string `koanf:"database_driver"` // postgres | memory
	DatabaseDSN    string `koanf:"database_dsn"`
	JWTSecret      string `koanf:"jwt_secret"`
	CORSOrigins    string `koanf:"cors_allowed_origins"`
	SeedOnStart    bool   `koanf:"seed_on_start"`

	Log       logging.Config  `koanf:"log"`
	MealDB    MealDBConfig    `koanf:"mealdb"`
	Recommend RecommendConfig `koanf:"recommend"`
	Scheduler SchedulerConfig `koanf:"scheduler"`
}

type MealDBConfig struct {
	BaseURL          string        `koanf:"base_url"`
	Timeout          time.Duration `koanf:"timeout"`
	RequestsPerSec   float64       `koanf:"requests_per_sec"`
	Letters          string        `koanf:"letters"`
	BreakerFailures  uint32        `koanf:"breaker_failures"`
	BreakerOpenDelay time.Duration `koanf:"breaker_open_delay"`
}

type RecommendConfig struct {
	Limit int `koanf:"limit"`
}

type SchedulerConfig struct {
	// Cron spec for the days-until-expiration refresh; empty disables it.
	ExpirationRefreshSpec string `koanf:"expiration_refresh_spec"`
	Location              string `koanf:"location"`
}

func defaultConfig() *Config {
	return &Config{
		HTTPPort:       "8000",
		DatabaseDriver: DriverPostgres,
		DatabaseDSN:    defaultDSN,
		CORSOrigins:    defaultCORSOrigins,
		Log: logging.Config{
			Level:  "info",
			Format: "json",
		},
		MealDB: MealDBConfig{
			BaseURL:          "https://www.themealdb.com/api/json/v1/1",
			Timeout:          15 * time.Second,
			RequestsPerSec:   10,
			Letters:          "abcdefghijklmnopqrstuvwxyz",
			BreakerFailures:  5,
			BreakerOpenDelay: 30 * time.Second,
		},
		Recommend: RecommendConfig{
			Limit: 10,
		},
		Scheduler: SchedulerConfig{
			ExpirationRefreshSpec: "@daily",
			Location:              "Local",
		},
	}
}

// envMappings maps environment variables onto koanf paths. Anything not
// listed is ignored.
var envMappings = map[string]string{
	"HTTP_PORT":               "http_port",
	"DATABASE_DRIVER":         "database_driver",
	"DATABASE_DSN":            "database_dsn",
	"DATABASE_URL":            "database_dsn",
	"JWT_SECRET":              "jwt_secret",
	"CORS_ALLOWED_ORIGINS":    "cors_allowed_origins",
	"SEED_ON_START":           "seed_on_start",
	"LOG_LEVEL":               "log.level",
	"LOG_FORMAT":              "log.format",
	"MEALDB_BASE_URL":         "mealdb.base_url",
	"MEALDB_TIMEOUT":          "mealdb.timeout",
	"MEALDB_REQUESTS_PER_SEC": "mealdb.requests_per_sec",
	"MEALDB_LETTERS":          "mealdb.letters",
	"RECOMMEND_LIMIT":         "recommend.limit",
	"EXPIRATION_REFRESH_SPEC": "scheduler.expiration_refresh_spec",
	"SCHEDULER_LOCATION":      "scheduler.location",
}

func envTransform(key string) string {
	return envMappings[key]
}

// Load layers struct defaults, an optional YAML file and the environment,
// in increasing priority.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	cfg.DatabaseDriver = strings.ToLower(strings.TrimSpace(cfg.DatabaseDriver))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		return p
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// Validate checks settings every entry point needs.
func (c *Config) Validate() error {
	switch c.DatabaseDriver {
	case DriverPostgres, DriverMemory:
	default:
		return fmt.Errorf("database_driver must be %q or %q, got %q", DriverPostgres, DriverMemory, c.DatabaseDriver)
	}
	if c.DatabaseDriver == DriverPostgres && c.DatabaseDSN == "" {
		return errors.New("database_dsn is required for the postgres driver")
	}
	if c.Recommend.Limit <= 0 {
		return fmt.Errorf("recommend.limit must be positive, got %d", c.Recommend.Limit)
	}
	return nil
}

// ValidateServer adds the checks that only matter when serving HTTP, and
// logs warnings for defaults that should not reach production.
func (c *Config) ValidateServer() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is not set")
	}
	if len(c.JWTSecret) < 32 {
		return errors.New("JWT_SECRET must be at least 32 characters")
	}
	if c.DatabaseDriver == DriverPostgres && c.DatabaseDSN == defaultDSN {
		logging.Warn().Msg("DATABASE_DSN is the built-in default, set your own Postgres connection for production")
	}
	if c.CORSOrigins == defaultCORSOrigins {
		logging.Warn().Msg("CORS_ALLOWED_ORIGINS is the built-in default, set your own domain for production")
	}
	return nil
}

// CORSOriginList splits the comma separated origins and trims each one.
func (c *Config) CORSOriginList() []string {
	parts := strings.Split(c.CORSOrigins, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
