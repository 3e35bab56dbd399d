// Package config loads application settings from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all runtime settings.
type Config struct {
	AppName  string
	AppEnv   string
	AppPort  string
	LogLevel string

	DatabaseDriver string
	DatabaseDSN    string

	JWTSecret  string
	SessionTTL time.Duration

	SessionDriver string
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Empty disables event publishing.
	RabbitMQURL string
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("APP_NAME", "akun")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("LOG_LEVEL", "")
	v.SetDefault("DATABASE_DRIVER", "postgres")
	v.SetDefault("DATABASE_DSN", "host=127.0.0.1 user=postgres password=postgres dbname=akun port=5432 sslmode=disable")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("SESSION_TTL", "24h")
	v.SetDefault("SESSION_DRIVER", "memory")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("RABBITMQ_URL", "")
}

// Load reads the configuration from environment variables.
func Load() (*Config, error) {
	v := viper.New()
	SetDefaults(v)
	v.AutomaticEnv()
	return FromViper(v)
}

// FromViper builds a Config from an already populated viper instance.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		AppName:        v.GetString("APP_NAME"),
		AppEnv:         v.GetString("APP_ENV"),
		AppPort:        v.GetString("APP_PORT"),
		LogLevel:       v.GetString("LOG_LEVEL"),
		DatabaseDriver: v.GetString("DATABASE_DRIVER"),
		DatabaseDSN:    v.GetString("DATABASE_DSN"),
		JWTSecret:      v.GetString("JWT_SECRET"),
		SessionTTL:     v.GetDuration("SESSION_TTL"),
		SessionDriver:  v.GetString("SESSION_DRIVER"),
		RedisAddr:      v.GetString("REDIS_ADDR"),
		RedisPassword:  v.GetString("REDIS_PASSWORD"),
		RedisDB:        v.GetInt("REDIS_DB"),
		RabbitMQURL:    v.GetString("RABBITMQ_URL"),
	}

	if cfg.JWTSecret == "" {
		if cfg.AppEnv != "development" && cfg.AppEnv != "test" {
			return nil, fmt.Errorf("JWT_SECRET is required in %s", cfg.AppEnv)
		}
		cfg.JWTSecret = "development_jwt_secret"
	}
	if cfg.SessionTTL <= 0 {
		return nil, fmt.Errorf("SESSION_TTL must be positive, got %s", v.GetString("SESSION_TTL"))
	}
	switch cfg.SessionDriver {
	case "memory", "redis":
	default:
		return nil, fmt.Errorf("unsupported SESSION_DRIVER %q", cfg.SessionDriver)
	}
	return cfg, nil
}
