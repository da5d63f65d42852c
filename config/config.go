package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kazen/backend/internal/domain"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig
	Log        LogConfig
	Storage    StorageConfig
	Cache      CacheConfig
	RateLimit  RateLimitConfig
	PriceFeed  PriceFeedConfig
	Events     EventsConfig
	Comparison ComparisonConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// LogConfig selects the slog handler
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "json" or "text", empty picks by environment
}

// StorageConfig selects the repository backend
type StorageConfig struct {
	Driver      string `mapstructure:"driver"` // "memory" or "postgres"
	DatabaseURL string `mapstructure:"database_url"`
	Migrate     bool   `mapstructure:"migrate"`
	MaxConns    int32  `mapstructure:"max_conns"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"` // requests per minute, 0 disables
	Burst int `mapstructure:"burst"`
}

// PriceFeedConfig holds the remote price feed settings. An empty base
// URL disables imports.
type PriceFeedConfig struct {
	BaseURL           string  `mapstructure:"base_url"`
	APIKey            string  `mapstructure:"api_key"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
}

// EventsConfig holds the Kafka settings. No brokers means events are dropped.
type EventsConfig struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

// ComparisonConfig tunes the comparison summary
type ComparisonConfig struct {
	CheapestPolicy string `mapstructure:"cheapest_policy"`
}

// IsProduction reports whether the server runs in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/kazen/")

	// KAZEN_STORAGE_DATABASE_URL maps to storage.database_url
	v.SetEnvPrefix("KAZEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// loadEnvFile loads ./.env into the process environment without
// overriding variables that are already set. A missing file is fine.
func loadEnvFile() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// setDefaults sets default configuration values. Every key needs a
// default so AutomaticEnv can see it during Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:5173"})

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "")

	v.SetDefault("storage.driver", "memory")
	v.SetDefault("storage.database_url", "")
	v.SetDefault("storage.migrate", false)
	v.SetDefault("storage.max_conns", 10)

	v.SetDefault("cache.ttl", "5m")

	v.SetDefault("ratelimit.per_ip", 100)
	v.SetDefault("ratelimit.burst", 20)

	v.SetDefault("pricefeed.base_url", "")
	v.SetDefault("pricefeed.api_key", "")
	v.SetDefault("pricefeed.requests_per_second", 2.0)

	v.SetDefault("events.brokers", []string{})
	v.SetDefault("events.topic", "kazen.prices")

	v.SetDefault("comparison.cheapest_policy", string(domain.PolicyCompat))
}

// validate validates the configuration
func validate(config *Config) error {
	switch config.Storage.Driver {
	case "memory":
	case "postgres":
		if config.Storage.DatabaseURL == "" {
			return fmt.Errorf("database URL is required when storage driver is 'postgres' (set KAZEN_STORAGE_DATABASE_URL)")
		}
	default:
		return fmt.Errorf("storage driver must be 'memory' or 'postgres', got: %s", config.Storage.Driver)
	}

	switch strings.ToLower(config.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log level must be debug, info, warn or error, got: %s", config.Log.Level)
	}

	if f := config.Log.Format; f != "" && f != "json" && f != "text" {
		return fmt.Errorf("log format must be 'json' or 'text', got: %s", f)
	}

	if !domain.CheapestPolicy(config.Comparison.CheapestPolicy).Valid() {
		return fmt.Errorf("cheapest policy must be '%s' or '%s', got: %s",
			domain.PolicyCompat, domain.PolicyPricedOnly, config.Comparison.CheapestPolicy)
	}

	if config.Cache.TTL < 0 {
		return fmt.Errorf("cache TTL must not be negative, got: %s", config.Cache.TTL)
	}

	if len(config.Events.Brokers) > 0 && config.Events.Topic == "" {
		return fmt.Errorf("events topic is required when brokers are set")
	}

	return nil
}
