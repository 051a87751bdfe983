package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

type Config struct {
	App            AppConfig
	Database       DatabaseConfig
	JWT            JWTConfig
	Payroll        PayrollConfig
	Reconciliation ReconciliationConfig
}

// AppConfig holds application configuration
type AppConfig struct {
	Port           int      `envconfig:"APP_PORT" default:"8080"`
	Env            string   `envconfig:"APP_ENV" default:"development"`
	LogLevel       string   `envconfig:"LOG_LEVEL" default:"info"`
	AllowedOrigins []string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

type DatabaseConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     int    `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" default:"postgres"`
	Password string `envconfig:"DB_PASSWORD"`
	Name     string `envconfig:"DB_NAME" default:"halaqah_payroll"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
	MaxConns int32  `envconfig:"DB_MAX_CONNS" default:"25"`
	MinConns int32  `envconfig:"DB_MIN_CONNS" default:"5"`
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string        `envconfig:"JWT_SECRET_KEY"`
	AccessExpiration time.Duration `envconfig:"JWT_ACCESS_EXPIRATION_TIME" default:"1h"`
}

// PayrollConfig holds the payroll policy constants.
type PayrollConfig struct {
	AttendanceBonusThreshold decimal.Decimal `envconfig:"ATTENDANCE_BONUS_THRESHOLD" default:"0.90"`
	AttendanceBonusAmount    decimal.Decimal `envconfig:"ATTENDANCE_BONUS_AMOUNT" default:"100000"`
	MinimumWithdrawal        decimal.Decimal `envconfig:"MINIMUM_WITHDRAWAL" default:"50000"`
	DefaultSessionRate       decimal.Decimal `envconfig:"DEFAULT_SESSION_RATE" default:"50000"`
	DefaultCalculationType   string          `envconfig:"DEFAULT_CALCULATION_TYPE" default:"PER_SESSION"`
	AutoApproveEarnings      bool            `envconfig:"EARNING_AUTO_APPROVE" default:"false"`
}

type ReconciliationConfig struct {
	Interval time.Duration `envconfig:"RECONCILE_INTERVAL" default:"1h"`
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}

	var config Config
	if err := envconfig.Process("", &config); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	config.Payroll.DefaultCalculationType = strings.ToUpper(strings.TrimSpace(config.Payroll.DefaultCalculationType))

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	var errs []error
	if c.Database.Password == "" {
		errs = append(errs, errors.New("DB_PASSWORD is required"))
	}
	if c.JWT.Secret == "" {
		errs = append(errs, errors.New("JWT_SECRET_KEY is required"))
	}
	if c.JWT.AccessExpiration <= 0 {
		errs = append(errs, errors.New("JWT_ACCESS_EXPIRATION_TIME must be positive"))
	}

	p := c.Payroll
	if !p.AttendanceBonusThreshold.IsPositive() || p.AttendanceBonusThreshold.GreaterThan(decimal.NewFromInt(1)) {
		errs = append(errs, errors.New("ATTENDANCE_BONUS_THRESHOLD must be in (0, 1]"))
	}
	if p.AttendanceBonusAmount.IsNegative() {
		errs = append(errs, errors.New("ATTENDANCE_BONUS_AMOUNT must not be negative"))
	}
	if !p.MinimumWithdrawal.IsPositive() {
		errs = append(errs, errors.New("MINIMUM_WITHDRAWAL must be positive"))
	}
	if !p.DefaultSessionRate.IsPositive() {
		errs = append(errs, errors.New("DEFAULT_SESSION_RATE must be positive"))
	}
	switch p.DefaultCalculationType {
	case "PER_SESSION", "PER_HOUR":
	default:
		errs = append(errs, errors.New("DEFAULT_CALCULATION_TYPE must be PER_SESSION or PER_HOUR"))
	}
	if c.Reconciliation.Interval <= 0 {
		errs = append(errs, errors.New("RECONCILE_INTERVAL must be positive"))
	}
	return errors.Join(errs...)
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

// LogLevel maps LOG_LEVEL onto a slog level, defaulting to info.
func (c *Config) LogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.App.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}
