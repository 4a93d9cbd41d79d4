package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config stores all configuration for the service.
type Config struct {
	Port        int    `mapstructure:"PORT"`
	Environment string `mapstructure:"ENVIRONMENT"`

	BrightDataUsername   string `mapstructure:"BRIGHTDATA_USERNAME"`
	BrightDataPassword   string `mapstructure:"BRIGHTDATA_PASSWORD"`
	BrightDataProxyHost  string `mapstructure:"BRIGHTDATA_PROXY_HOST"`
	BrightDataProxyPort  string `mapstructure:"BRIGHTDATA_PROXY_PORT"`
	BrightDataCACertPath string `mapstructure:"BRIGHTDATA_CA_CERT_PATH"`

	FetchTimeout       time.Duration `mapstructure:"FETCH_TIMEOUT"`
	DefaultSearchLimit int           `mapstructure:"DEFAULT_SEARCH_LIMIT"`
	MaxSearchLimit     int           `mapstructure:"MAX_SEARCH_LIMIT"`

	LogLevel string `mapstructure:"LOG_LEVEL"`
}

// Load reads configuration from the optional .env file and the environment.
func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")
	viper.AutomaticEnv()

	// Missing .env is fine; deployments configure through the environment.
	_ = viper.ReadInConfig()

	viper.SetDefault("PORT", 8080)
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("BRIGHTDATA_USERNAME", "")
	viper.SetDefault("BRIGHTDATA_PASSWORD", "")
	viper.SetDefault("BRIGHTDATA_PROXY_HOST", "brd.superproxy.io")
	viper.SetDefault("BRIGHTDATA_PROXY_PORT", "33335")
	viper.SetDefault("BRIGHTDATA_CA_CERT_PATH", "certs/brightdata-ca.crt")
	viper.SetDefault("FETCH_TIMEOUT", "60s")
	viper.SetDefault("DEFAULT_SEARCH_LIMIT", 10)
	viper.SetDefault("MAX_SEARCH_LIMIT", 50)
	viper.SetDefault("LOG_LEVEL", "info")

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks limit and timeout sanity. Proxy credentials are left
// unchecked on purpose: the fetch client validates them per request, so an
// unconfigured service still boots and answers with configuration errors.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if c.MaxSearchLimit < 1 {
		return fmt.Errorf("max search limit must be at least 1, got %d", c.MaxSearchLimit)
	}
	if c.DefaultSearchLimit < 1 || c.DefaultSearchLimit > c.MaxSearchLimit {
		return fmt.Errorf("default search limit must be within [1, %d], got %d",
			c.MaxSearchLimit, c.DefaultSearchLimit)
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("fetch timeout must be positive, got %s", c.FetchTimeout)
	}
	return nil
}

// IsProduction reports whether error responses must omit stack traces.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// SlogLevel maps the configured level name onto a slog level.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
