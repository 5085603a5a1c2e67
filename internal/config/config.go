// Package config loads gateway configuration from an optional YAML file and
// FAREWAY_* environment variables. Invalid configuration is a fatal startup
// error; the process must not accept traffic with a broken config.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type RateLimitConfig struct {
	WindowSeconds int `mapstructure:"windowSeconds"`
	MaxRequests   int `mapstructure:"maxRequests"`
}

type Config struct {
	ListenAddress string `mapstructure:"listenAddress"`
	// DatabaseURL is the Postgres connection string. Required.
	DatabaseURL string `mapstructure:"databaseUrl"`
	// RedisURL enables the cache when set; empty runs the gateway in
	// permanent-miss mode.
	RedisURL string `mapstructure:"redisUrl"`
	// AuthToken is the shared bearer secret. Empty disables auth; production
	// deployments must set it.
	AuthToken             string `mapstructure:"authToken"`
	CacheTTLSeconds       int    `mapstructure:"cacheTtlSeconds"`
	RequestTimeoutSeconds int    `mapstructure:"requestTimeoutSeconds"`

	RateLimit RateLimitConfig `mapstructure:"rateLimit"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("listenAddress", ":8080")
	v.SetDefault("cacheTtlSeconds", 300)
	v.SetDefault("requestTimeoutSeconds", 15)
	v.SetDefault("rateLimit.windowSeconds", 60)
	v.SetDefault("rateLimit.maxRequests", 120)
}

// Load reads the file at path (optional, YAML) with environment overrides.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v)

	v.SetEnvPrefix("FAREWAY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range []string{
		"listenAddress", "databaseUrl", "redisUrl", "authToken",
		"cacheTtlSeconds", "requestTimeoutSeconds",
		"rateLimit.windowSeconds", "rateLimit.maxRequests",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind env for %s: %w", key, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return errors.New("databaseUrl is required (set FAREWAY_DATABASEURL or the config file)")
	}
	if c.CacheTTLSeconds <= 0 {
		return errors.New("cacheTtlSeconds must be positive")
	}
	if c.RequestTimeoutSeconds < 0 {
		return errors.New("requestTimeoutSeconds must not be negative")
	}
	if c.RateLimit.WindowSeconds <= 0 {
		return errors.New("rateLimit.windowSeconds must be positive")
	}
	if c.RateLimit.MaxRequests <= 0 {
		return errors.New("rateLimit.maxRequests must be positive")
	}
	return nil
}

func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

func (c *Config) RateLimitWindow() time.Duration {
	return time.Duration(c.RateLimit.WindowSeconds) * time.Second
}
