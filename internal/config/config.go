package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"mini-ledger/internal/log"
	"mini-ledger/internal/usecase"
)

type Config struct {
	// Account limits
	OverdraftLimit string
	InterestRate   string
	MaxBalance     string

	// Logging
	LogLevel  string
	LogFormat string
}

// LoadEnvFile loads the given .env files, or ./.env when none is given.
// A missing file is not an error.
func LoadEnvFile(files ...string) error {
	if err := godotenv.Load(files...); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("load env file: %w", err)
	}
	return nil
}

func Load() *Config {
	return &Config{
		OverdraftLimit: getEnv("LEDGER_OVERDRAFT_LIMIT", "50000"),
		InterestRate:   getEnv("LEDGER_INTEREST_RATE", "0.05"),
		MaxBalance:     getEnv("LEDGER_MAX_BALANCE", ""),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if d, err := decimal.NewFromString(c.OverdraftLimit); err != nil {
		errors = append(errors, fmt.Sprintf("invalid overdraft limit '%s': must be a decimal number", c.OverdraftLimit))
	} else if d.IsNegative() {
		errors = append(errors, fmt.Sprintf("invalid overdraft limit %s: must not be negative", d))
	}

	if d, err := decimal.NewFromString(c.InterestRate); err != nil {
		errors = append(errors, fmt.Sprintf("invalid interest rate '%s': must be a decimal number", c.InterestRate))
	} else if d.IsNegative() || d.GreaterThan(decimal.NewFromInt(1)) {
		errors = append(errors, fmt.Sprintf("invalid interest rate %s: must be between 0 and 1", d))
	}

	if c.MaxBalance != "" {
		if d, err := decimal.NewFromString(c.MaxBalance); err != nil {
			errors = append(errors, fmt.Sprintf("invalid max balance '%s': must be a decimal number", c.MaxBalance))
		} else if !d.IsPositive() {
			errors = append(errors, fmt.Sprintf("invalid max balance %s: must be greater than zero", d))
		}
	}

	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		errors = append(errors, err.Error())
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		errors = append(errors, fmt.Sprintf("invalid log format '%s': must be 'text' or 'json'", c.LogFormat))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

// Policy converts the account limit settings. Call Validate first.
func (c *Config) Policy() (usecase.Policy, error) {
	overdraft, err := decimal.NewFromString(c.OverdraftLimit)
	if err != nil {
		return usecase.Policy{}, fmt.Errorf("parse overdraft limit: %w", err)
	}
	rate, err := decimal.NewFromString(c.InterestRate)
	if err != nil {
		return usecase.Policy{}, fmt.Errorf("parse interest rate: %w", err)
	}

	policy := usecase.Policy{OverdraftLimit: overdraft, InterestRate: rate}
	if c.MaxBalance != "" {
		limit, err := decimal.NewFromString(c.MaxBalance)
		if err != nil {
			return usecase.Policy{}, fmt.Errorf("parse max balance: %w", err)
		}
		policy.MaxBalance = decimal.NewNullDecimal(limit)
	}
	return policy, nil
}

// Logger builds the root logger from the logging settings.
func (c *Config) Logger() *slog.Logger {
	level, _ := log.ParseLevel(c.LogLevel)
	cfg := log.DefaultConfig()
	cfg.Level = level
	cfg.Format = c.LogFormat
	cfg.Component = ""
	return log.New(cfg)
}

// LogStartup records the effective settings on logger.
func (c *Config) LogStartup(logger *slog.Logger) {
	maxBalance := c.MaxBalance
	if maxBalance == "" {
		maxBalance = "unbounded"
	}
	log.WithComponent(logger, log.ComponentConfig).Info("Configuration loaded",
		log.FieldOperation, log.OpStartup,
		"overdraft_limit", c.OverdraftLimit,
		"interest_rate", c.InterestRate,
		"max_balance", maxBalance,
		"log_level", c.LogLevel,
		"log_format", c.LogFormat)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
