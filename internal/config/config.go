// Package config loads process settings from the environment and an optional
// .env file.
package config

import (
	"fmt"
	"strings"
	"time"

	"fieldops/internal/timeutil"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type Config struct {
	Env              string        `mapstructure:"env"`
	LogLevel         string        `mapstructure:"log_level"`
	ServerPort       int           `mapstructure:"server_port"`
	AllowedOrigins   []string      `mapstructure:"allowed_origins"`
	DatabaseDriver   string        `mapstructure:"database_driver"`
	DatabaseURL      string        `mapstructure:"database_url"`
	MigrationsDir    string        `mapstructure:"migrations_dir"`
	BusinessTimezone string        `mapstructure:"business_timezone"`
	RedisAddr        string        `mapstructure:"redis_addr"`
	RedisPassword    string        `mapstructure:"redis_password"`
	LockTTL          time.Duration `mapstructure:"lock_ttl"`

	// Location is BusinessTimezone resolved by Load.
	Location *time.Location `mapstructure:"-"`
}

// IsProduction reports whether ENV selects production behaviour.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// Load reads .env (if present) and the environment into a Config.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return load(viper.New())
}

func load(v *viper.Viper) (*Config, error) {
	v.AutomaticEnv()

	v.SetDefault("env", "development")
	v.SetDefault("log_level", "")
	v.SetDefault("server_port", 8080)
	v.SetDefault("allowed_origins", "http://localhost:3000,http://localhost:5173")
	v.SetDefault("database_driver", DriverPostgres)
	v.SetDefault("database_url", "")
	v.SetDefault("migrations_dir", "migrations")
	v.SetDefault("business_timezone", timeutil.DefaultZone)
	v.SetDefault("redis_addr", "")
	v.SetDefault("redis_password", "")
	v.SetDefault("lock_ttl", "30s")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	c.DatabaseDriver = strings.ToLower(strings.TrimSpace(c.DatabaseDriver))
	switch c.DatabaseDriver {
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the %s driver", DriverPostgres)
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown DATABASE_DRIVER %q (want %s or %s)", c.DatabaseDriver, DriverPostgres, DriverMemory)
	}

	if c.ServerPort <= 0 || c.ServerPort > 65535 {
		return fmt.Errorf("invalid SERVER_PORT %d", c.ServerPort)
	}
	if c.LockTTL <= 0 {
		return fmt.Errorf("LOCK_TTL must be positive")
	}

	origins := c.AllowedOrigins[:0]
	for _, o := range c.AllowedOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	c.AllowedOrigins = origins

	loc, err := timeutil.LoadLocation(c.BusinessTimezone)
	if err != nil {
		return fmt.Errorf("invalid BUSINESS_TIMEZONE: %w", err)
	}
	c.Location = loc
	return nil
}
