package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port             string        `mapstructure:"PORT"`
	Env              string        `mapstructure:"ENV"`
	DatabaseURL      string        `mapstructure:"DATABASE_URL"`
	DBMaxConns       int32         `mapstructure:"DB_MAX_CONNS"`
	DBMinConns       int32         `mapstructure:"DB_MIN_CONNS"`
	DBAcquireTimeout time.Duration `mapstructure:"DB_ACQUIRE_TIMEOUT"`
	DBIdleTimeout    time.Duration `mapstructure:"DB_IDLE_TIMEOUT"`
	RedisURL         string        `mapstructure:"REDIS_URL"`
	APIKey           string        `mapstructure:"API_KEY"`
	JWTSecret        string        `mapstructure:"JWT_SECRET"`
	CORSOrigins      []string      `mapstructure:"CORS_ORIGINS"`
	RateLimitRPS     float64       `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst   int           `mapstructure:"RATE_LIMIT_BURST"`
	RequestTimeout   time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	MigrationsDir    string        `mapstructure:"MIGRATIONS_DIR"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "4000")
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_MAX_CONNS", 5)
	v.SetDefault("DB_MIN_CONNS", 0)
	v.SetDefault("DB_ACQUIRE_TIMEOUT", "5s")
	v.SetDefault("DB_IDLE_TIMEOUT", "30s")
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("RATE_LIMIT_RPS", 100)
	v.SetDefault("RATE_LIMIT_BURST", 200)
	v.SetDefault("REQUEST_TIMEOUT", "30s")
	v.SetDefault("MIGRATIONS_DIR", "./migrations")

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("DATABASE_URL")
	v.BindEnv("DB_MAX_CONNS")
	v.BindEnv("DB_MIN_CONNS")
	v.BindEnv("DB_ACQUIRE_TIMEOUT")
	v.BindEnv("DB_IDLE_TIMEOUT")
	v.BindEnv("REDIS_URL")
	v.BindEnv("API_KEY")
	v.BindEnv("JWT_SECRET")
	v.BindEnv("CORS_ORIGINS")
	v.BindEnv("RATE_LIMIT_RPS")
	v.BindEnv("RATE_LIMIT_BURST")
	v.BindEnv("REQUEST_TIMEOUT")
	v.BindEnv("MIGRATIONS_DIR")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		origins := v.GetString("CORS_ORIGINS")
		if origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// IsProduction returns true when the server is configured for production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Validate checks that the configuration is safe to run. Every API route sits
// behind the static key gate and login issues signed tokens, so both secrets
// are required regardless of environment.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("API_KEY is required")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.IsProduction() && len(c.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters in production, got %d", len(c.JWTSecret))
	}
	if c.RateLimitRPS < 0 {
		return fmt.Errorf("RATE_LIMIT_RPS must not be negative, got %v", c.RateLimitRPS)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive, got %v", c.RequestTimeout)
	}
	return nil
}
