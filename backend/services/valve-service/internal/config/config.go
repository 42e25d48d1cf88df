package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	libconfig "ecovalve/backend/libs/config"
)

// Supported storage drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

const defaultHTTPPort = "8085"

// HTTPConfig holds listener settings.
type HTTPConfig struct {
	Port string `yaml:"port" env:"VALVE_HTTP_PORT"`
}

// DatabaseConfig selects and configures the readings store.
type DatabaseConfig struct {
	Driver     string `yaml:"driver" env:"VALVE_DB_DRIVER"`
	DSN        string `yaml:"dsn" env:"VALVE_POSTGRES_DSN"`
	SQLitePath string `yaml:"sqlite_path" env:"VALVE_SQLITE_PATH"`
}

// RedisConfig configures the optional import-run ledger. Empty Addr disables it.
type RedisConfig struct {
	Addr     string        `yaml:"addr" env:"VALVE_REDIS_ADDR"`
	Password string        `yaml:"password" env:"VALVE_REDIS_PASSWORD"`
	DB       int           `yaml:"db" env:"VALVE_REDIS_DB"`
	RunsTTL  time.Duration `yaml:"runs_ttl" env:"VALVE_REDIS_RUNS_TTL"`
	RunsKeep int           `yaml:"runs_keep" env:"VALVE_REDIS_RUNS_KEEP"`
}

// ImportConfig tunes the CSV ingestion pipeline.
type ImportConfig struct {
	BatchSize         int `yaml:"batch_size" env:"VALVE_IMPORT_BATCH_SIZE"`
	MaxReportedErrors int `yaml:"max_reported_errors" env:"VALVE_IMPORT_MAX_REPORTED_ERRORS"`
}

// MetricsConfig controls metric export for the CLI.
type MetricsConfig struct {
	PushgatewayURL string `yaml:"pushgateway_url" env:"VALVE_PUSHGATEWAY_URL"`
}

// Config defines valve service configuration shared by the API and the importer.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Import   ImportConfig   `yaml:"import"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// Default returns configuration with every optional value filled in.
func Default() *Config {
	return &Config{
		HTTP:     HTTPConfig{Port: defaultHTTPPort},
		Database: DatabaseConfig{Driver: DriverPostgres, SQLitePath: "valve.db"},
		Redis:    RedisConfig{RunsTTL: 7 * 24 * time.Hour, RunsKeep: 50},
		Import:   ImportConfig{BatchSize: 1000, MaxReportedErrors: 10},
	}
}

// Load configuration using shared helper.
func Load() (*Config, error) {
	cfg, err := Read()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Read applies the config file and environment over Default without
// validating, so callers can layer flags on top first.
func Read() (*Config, error) {
	cfg := Default()
	if err := libconfig.LoadConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	c.Database.Driver = strings.ToLower(strings.TrimSpace(c.Database.Driver))
	switch c.Database.Driver {
	case DriverPostgres:
		if strings.TrimSpace(c.Database.DSN) == "" {
			return errors.New("config: database dsn required")
		}
	case DriverSQLite:
		if strings.TrimSpace(c.Database.SQLitePath) == "" {
			return errors.New("config: sqlite path required")
		}
	default:
		return fmt.Errorf("config: unknown database driver %q", c.Database.Driver)
	}

	if c.Import.BatchSize < 1 {
		return errors.New("config: import batch size must be positive")
	}
	if c.Import.MaxReportedErrors < 1 {
		return errors.New("config: import max reported errors must be positive")
	}
	if c.Redis.RunsKeep < 1 {
		return errors.New("config: redis runs keep must be positive")
	}
	return nil
}

// HTTPAddress returns :port style.
func (c *Config) HTTPAddress() string {
	port := strings.TrimSpace(c.HTTP.Port)
	if port == "" {
		port = defaultHTTPPort
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return fmt.Sprintf(":%s", port)
}
