package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

const (
	DefaultHost                  = "localhost"
	DefaultPort                  = 9000
	DefaultPrometheusMetricsPort = 2112
	DefaultDataDir               = "./data"
	DefaultRedisPort             = 6379
	DefaultPostgresPort          = 5432
	DefaultPostgresDBName        = "gympro"
	DefaultWeightReminderDays    = 14
)

type Config struct {
	Host        string
	Port        int
	Environment string
	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`
	// storage
	StoreBackend    string `toml:"store_backend"`
	DataDir         string `toml:"data_dir"`
	RedisHost       string `toml:"redis_host"`
	RedisPort       string `toml:"redis_port"`
	RedisStateKey   string `toml:"redis_state_key"`
	PostgresHost    string `toml:"postgres_host"`
	PostgresPort    string `toml:"postgres_port"`
	PostgresDBName  string `toml:"postgres_db_name"`
	PostgresUser    string `toml:"postgres_user"`
	// MemoryCacheSize is allocated up front. The memory backend refuses a
	// state blob over 1/1024 of it (32 KiB for the 32 MiB default).
	MemoryCacheSize int `toml:"memory_cache_size"`
	// domain
	DateLayout         string `toml:"date_layout"`
	WeightReminderDays int    `toml:"weight_reminder_days"`
	// http
	CorsAllowedOrigins []string `toml:"cors_allowed_origins"`
	MCPEnabled         bool     `toml:"mcp_enabled"`
	// FailedAuthAllowedPerMin limits failed token checks per client, counted
	// in redis. 0 disables the limit.
	FailedAuthAllowedPerMin int `toml:"failed_auth_allowed_per_min"`
	// metrics
	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	var cfg *Config
	switch strings.ToLower(env) {
	case "dev", "development":
		cfg = t.Development
	case "prod", "production":
		cfg = t.Production
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
	if cfg == nil {
		return nil, fmt.Errorf("no config section for env: %s", env)
	}
	return cfg, nil
}

// Load reads the TOML file and returns the section for env with the
// defaults applied.
func Load(env, path string) (*Config, error) {
	var t Toml
	if _, err := toml.DecodeFile(path, &t); err != nil {
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	}

	cfg, err := t.Get(env)
	if err != nil {
		return nil, err
	}
	cfg.applyDefaults(env)
	return cfg, nil
}

func (c *Config) applyDefaults(env string) {
	if c.Host == "" {
		c.Host = DefaultHost
	}
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	if c.Environment == "" {
		c.Environment = strings.ToLower(env)
	}
	if c.StoreBackend == "" {
		c.StoreBackend = "file"
	}
	if c.DataDir == "" {
		c.DataDir = DefaultDataDir
	}
	if c.RedisHost == "" {
		c.RedisHost = "localhost"
	}
	if c.RedisPort == "" {
		c.RedisPort = fmt.Sprint(DefaultRedisPort)
	}
	if c.PostgresHost == "" {
		c.PostgresHost = "localhost"
	}
	if c.PostgresPort == "" {
		c.PostgresPort = fmt.Sprint(DefaultPostgresPort)
	}
	if c.PostgresDBName == "" {
		c.PostgresDBName = DefaultPostgresDBName
	}
	if c.WeightReminderDays <= 0 {
		c.WeightReminderDays = DefaultWeightReminderDays
	}
	if c.PrometheusMetricsHost == "" {
		c.PrometheusMetricsHost = "localhost"
	}
	if c.PrometheusMetricsPort == "" {
		c.PrometheusMetricsPort = fmt.Sprint(DefaultPrometheusMetricsPort)
	}
}

// Secrets never live in the TOML file.
type Secrets struct {
	APIToken         string
	RedisPassword    string
	PostgresPassword string
	SentryDSN        string
	HoneycombEnabled bool
}

// LoadSecrets reads the secrets from the environment, after loading the
// optional dotenv files. Variables already set in the environment win.
func LoadSecrets(dotEnvFiles ...string) (Secrets, error) {
	for _, f := range dotEnvFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Secrets{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	return Secrets{
		APIToken:         os.Getenv("GYMPRO_API_TOKEN"),
		RedisPassword:    os.Getenv("GYMPRO_REDIS_PASS"),
		PostgresPassword: os.Getenv("GYMPRO_POSTGRES_PASS"),
		SentryDSN:        os.Getenv("SENTRY_DSN"),
		HoneycombEnabled: os.Getenv("HONEYCOMB_ENABLED") == "true",
	}, nil
}

func (c *Config) WeightReminderInterval() time.Duration {
	return time.Duration(c.WeightReminderDays) * 24 * time.Hour
}
