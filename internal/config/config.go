package config

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds all configuration for our application
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Board     BoardConfig     `mapstructure:"board"`
	Health    HealthConfig    `mapstructure:"health"`
}

type ServerConfig struct {
	Port string `mapstructure:"SERVER_PORT"`
	Host string `mapstructure:"SERVER_HOST"`
	Env  string `mapstructure:"ENV"`
}

type DatabaseConfig struct {
	URL      string `mapstructure:"DATABASE_URL"`
	Host     string `mapstructure:"DATABASE_HOST"`
	Port     string `mapstructure:"DATABASE_PORT"`
	Name     string `mapstructure:"DATABASE_NAME"`
	User     string `mapstructure:"DATABASE_USER"`
	Password string `mapstructure:"DATABASE_PASSWORD"`
}

type RedisConfig struct {
	URL      string `mapstructure:"REDIS_URL"`
	Host     string `mapstructure:"REDIS_HOST"`
	Port     string `mapstructure:"REDIS_PORT"`
	Password string `mapstructure:"REDIS_PASSWORD"`
	DB       int    `mapstructure:"REDIS_DB"`
}

type SchedulerConfig struct {
	Timezone string `mapstructure:"SCHEDULER_TIMEZONE"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"LOG_LEVEL"`
	Format string `mapstructure:"LOG_FORMAT"`
}

// BoardConfig carries the values the junta's board votes on each cycle.
// The core only reads these; historical records freeze the values they saw.
type BoardConfig struct {
	ShareValue          string `mapstructure:"BOARD_SHARE_VALUE"`
	DefaultMonthlyRate  string `mapstructure:"BOARD_DEFAULT_MONTHLY_RATE"`
	LatePaymentFee      string `mapstructure:"BOARD_LATE_PAYMENT_FEE"`
	AbsenceFee          string `mapstructure:"BOARD_ABSENCE_FEE"`
	LoanFormCost        string `mapstructure:"BOARD_LOAN_FORM_COST"`
	SummaryCacheSeconds int    `mapstructure:"BOARD_SUMMARY_CACHE_SECONDS"`
}

type HealthConfig struct {
	Timeout string `mapstructure:"HEALTH_CHECK_TIMEOUT"`
}

// Load reads configuration from environment variables and files
func Load() (*Config, error) {
	// Set defaults
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "json")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("BOARD_SHARE_VALUE", "3.00")
	viper.SetDefault("BOARD_DEFAULT_MONTHLY_RATE", "0.02")
	viper.SetDefault("BOARD_LATE_PAYMENT_FEE", "5.00")
	viper.SetDefault("BOARD_ABSENCE_FEE", "2.00")
	viper.SetDefault("BOARD_LOAN_FORM_COST", "1.00")
	viper.SetDefault("BOARD_SUMMARY_CACHE_SECONDS", 300)
	viper.SetDefault("SCHEDULER_TIMEZONE", "America/Lima")
	viper.SetDefault("HEALTH_CHECK_TIMEOUT", "5s")

	// Read from environment variables
	viper.AutomaticEnv()

	// Try to read from .env file (optional)
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./deployments")

	// Don't fail if .env file doesn't exist
	_ = viper.ReadInConfig()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("SERVER_PORT is required")
	}

	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	for name, value := range map[string]string{
		"BOARD_SHARE_VALUE":          c.Board.ShareValue,
		"BOARD_DEFAULT_MONTHLY_RATE": c.Board.DefaultMonthlyRate,
		"BOARD_LATE_PAYMENT_FEE":     c.Board.LatePaymentFee,
		"BOARD_ABSENCE_FEE":          c.Board.AbsenceFee,
		"BOARD_LOAN_FORM_COST":       c.Board.LoanFormCost,
	} {
		if _, err := decimal.NewFromString(value); err != nil {
			return fmt.Errorf("%s must be a valid decimal: %w", name, err)
		}
	}

	if c.Board.SummaryCacheSeconds < 0 {
		return fmt.Errorf("BOARD_SUMMARY_CACHE_SECONDS must not be negative")
	}

	if _, err := time.ParseDuration(c.Health.Timeout); err != nil {
		return fmt.Errorf("HEALTH_CHECK_TIMEOUT must be a valid duration: %w", err)
	}

	return nil
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development" || c.Server.Env == "dev"
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production" || c.Server.Env == "prod"
}

// GetShareValue returns the configured share unit value as decimal
func (c *Config) GetShareValue() decimal.Decimal {
	v, _ := decimal.NewFromString(c.Board.ShareValue)
	return v
}

// GetDefaultMonthlyRate returns the default monthly interest rate as decimal
func (c *Config) GetDefaultMonthlyRate() decimal.Decimal {
	rate, _ := decimal.NewFromString(c.Board.DefaultMonthlyRate)
	return rate
}

// GetLatePaymentFee returns the flat late-payment fine amount
func (c *Config) GetLatePaymentFee() decimal.Decimal {
	v, _ := decimal.NewFromString(c.Board.LatePaymentFee)
	return v
}

// GetAbsenceFee returns the flat absence fine amount
func (c *Config) GetAbsenceFee() decimal.Decimal {
	v, _ := decimal.NewFromString(c.Board.AbsenceFee)
	return v
}

// GetLoanFormCost returns the cost of the loan request form
func (c *Config) GetLoanFormCost() decimal.Decimal {
	v, _ := decimal.NewFromString(c.Board.LoanFormCost)
	return v
}

// GetSummaryCacheTTL returns how long aggregated summaries may be cached
func (c *Config) GetSummaryCacheTTL() time.Duration {
	return time.Duration(c.Board.SummaryCacheSeconds) * time.Second
}

// GetHealthTimeout returns the health check timeout
func (c *Config) GetHealthTimeout() time.Duration {
	timeout, _ := time.ParseDuration(c.Health.Timeout)
	return timeout
}
