// config/config.go - Environment configuration
package config

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Port        string `env:"PORT"         envDefault:"3000"`
	AppEnv      string `env:"APP_ENV"      envDefault:"development"`
	LogMode     string `env:"LOG_MODE"`
	CORSOrigins string `env:"CORS_ORIGINS" envDefault:"http://localhost:3000"`
	JWTSecret   string `env:"JWT_SECRET"`

	Database    Database
	Recognition Recognition
	RateLimit   RateLimit
}

type Database struct {
	Driver     string `env:"DB_DRIVER"   envDefault:"postgres" validate:"oneof=postgres sqlite"`
	URL        string `env:"DATABASE_URL"`
	Host       string `env:"DB_HOST"     envDefault:"localhost"`
	Port       string `env:"DB_PORT"     envDefault:"5432"`
	User       string `env:"DB_USER"     envDefault:"postgres"`
	Password   string `env:"DB_PASSWORD"`
	Name       string `env:"DB_NAME"     envDefault:"teamcal"`
	SSLMode    string `env:"DB_SSLMODE"  envDefault:"disable"`
	SQLitePath string `env:"SQLITE_PATH" envDefault:"./data/teamcal.db"`
	LogQueries bool   `env:"DB_LOG_QUERIES"`
}

type Recognition struct {
	// MetricWindow is how many recent metric rows each evaluation reads.
	MetricWindow int `env:"RECOGNITION_METRIC_WINDOW" envDefault:"52" validate:"min=1"`
	// AchievementWindow bounds the prior achievements read for dedup checks.
	AchievementWindow int `env:"RECOGNITION_ACHIEVEMENT_WINDOW" envDefault:"500" validate:"min=1"`
	CheckConcurrency  int `env:"RECOGNITION_CHECK_CONCURRENCY" envDefault:"8" validate:"min=1,max=256"`
}

type RateLimit struct {
	Disabled    bool          `env:"RATE_LIMIT_DISABLED"`
	MaxRequests int           `env:"RATE_LIMIT_MAX_REQUESTS" envDefault:"100" validate:"min=1"`
	Window      time.Duration `env:"RATE_LIMIT_WINDOW"       envDefault:"15m"`
	CheckMax    int           `env:"CHECK_RATE_LIMIT_MAX"    envDefault:"5" validate:"min=1"`
	CheckWindow time.Duration `env:"CHECK_RATE_LIMIT_WINDOW" envDefault:"5m"`
}

// Load reads .env (if present) and then the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}
	return Parse()
}

// Parse builds a Config from the process environment only.
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.LogMode == "" {
		cfg.LogMode = cfg.AppEnv
	}
	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// ValidateServer checks settings the HTTP server cannot start without.
func (c Config) ValidateServer() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET environment variable must be set")
	}
	if len(c.JWTSecret) < 32 {
		return errors.New("JWT_SECRET must be at least 32 characters long")
	}
	return nil
}

func (c Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// DSN returns the postgres connection string, preferring DATABASE_URL.
func (d Database) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}
