package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Jobs     JobsConfig
}

// AppConfig holds application configuration
type AppConfig struct {
	Port        int      `env:"APP_PORT" env-default:"8080"`
	Env         string   `env:"APP_ENV" env-default:"development"`
	LogLevel    string   `env:"LOG_LEVEL" env-default:"info"`
	LogFormat   string   `env:"LOG_FORMAT" env-default:"json"`
	CORSOrigins []string `env:"CORS_ALLOWED_ORIGINS" env-separator:"," env-default:"http://localhost:3000"`
}

type DatabaseConfig struct {
	Host        string `env:"DB_HOST" env-default:"localhost"`
	Port        int    `env:"DB_PORT" env-default:"5432"`
	User        string `env:"DB_USER" env-default:"postgres"`
	Password    string `env:"DB_PASSWORD"`
	Name        string `env:"DB_NAME" env-default:"absensi"`
	SSLMode     string `env:"DB_SSL_MODE" env-default:"disable"`
	MaxConns    int32  `env:"DB_MAX_CONNS" env-default:"25"`
	MinConns    int32  `env:"DB_MIN_CONNS" env-default:"5"`
	AutoMigrate bool   `env:"DB_AUTO_MIGRATE" env-default:"true"`
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string `env:"JWT_SECRET_KEY"`
	AccessExpiration string `env:"JWT_ACCESS_EXPIRATION_TIME" env-default:"1h"`
}

// JobsConfig controls background jobs. Absence reconciliation is off unless
// explicitly enabled.
type JobsConfig struct {
	AbsenceReconciliationEnabled bool          `env:"ABSENCE_RECONCILIATION_ENABLED" env-default:"false"`
	AbsenceReconciliationEvery   time.Duration `env:"ABSENCE_RECONCILIATION_INTERVAL" env-default:"1h"`
	SkipWeekends                 bool          `env:"ABSENCE_RECONCILIATION_SKIP_WEEKENDS" env-default:"true"`
}

// Load reads .env when present, then decodes the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	config := &Config{}
	if err := cleanenv.ReadEnv(config); err != nil {
		return nil, fmt.Errorf("read env: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if _, err := time.ParseDuration(c.JWT.AccessExpiration); err != nil {
		return fmt.Errorf("JWT_ACCESS_EXPIRATION_TIME: %w", err)
	}
	if c.Jobs.AbsenceReconciliationEnabled && c.Jobs.AbsenceReconciliationEvery <= 0 {
		return fmt.Errorf("ABSENCE_RECONCILIATION_INTERVAL must be positive")
	}
	switch strings.ToLower(c.App.LogFormat) {
	case "json", "text":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or text")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.App.Env, "production")
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}
