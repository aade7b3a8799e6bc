package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/benx421/payment-gateway/escrow/internal/fees"
)

// Config holds all application configuration
type Config struct {
	Server        ServerConfig
	Logger        LoggerConfig
	Database      DatabaseConfig
	Gateway       GatewayConfig
	Fees          FeeConfig
	Notifications NotificationConfig
	App           AppConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	// IdempotencyTTL is how long a stored response can be replayed.
	IdempotencyTTL time.Duration
}

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	ConnMaxLifetime time.Duration
	MaxOpenConns    int
	MaxIdleConns    int
}

// GatewayConfig holds the payment gateway connection settings
type GatewayConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// FeeConfig holds the default commission percentages and how long a
// value read from platform settings stays cached.
type FeeConfig struct {
	ClientFeePercent   decimal.Decimal
	ProviderFeePercent decimal.Decimal
	CacheTTL           time.Duration
}

// NotificationConfig holds the notification transport settings.
// An empty RedisAddr selects the in-process channel transport.
type NotificationConfig struct {
	RedisAddr string
	Topic     string
}

// AppConfig holds application-specific configuration
type AppConfig struct {
	Currency     string
	ReviewWindow time.Duration
}

// LoggerConfig holds logging configuration
type LoggerConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, text
}

// Load loads configuration from environment variables with sensible defaults
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			ReadTimeout:  getEnvAsDuration("SERVER_READ_TIMEOUT", "15s"),
			WriteTimeout: getEnvAsDuration("SERVER_WRITE_TIMEOUT", "60s"),
			IdleTimeout:  getEnvAsDuration("SERVER_IDLE_TIMEOUT", "60s"),

			IdempotencyTTL: getEnvAsDuration("IDEMPOTENCY_TTL", "24h"),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "postgres"),
			DBName:          getEnv("DB_NAME", "escrow"),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", "5m"),
		},
		Gateway: GatewayConfig{
			BaseURL: getEnv("GATEWAY_BASE_URL", "http://localhost:8081"),
			APIKey:  getEnv("GATEWAY_API_KEY", ""),
			Timeout: getEnvAsDuration("GATEWAY_TIMEOUT", "20s"),
		},
		Fees: FeeConfig{
			ClientFeePercent:   getEnvAsDecimal("CLIENT_FEE_PERCENT", "0"),
			ProviderFeePercent: getEnvAsDecimal("PROVIDER_FEE_PERCENT", "10"),
			CacheTTL:           getEnvAsDuration("FEE_CACHE_TTL", "5m"),
		},
		Notifications: NotificationConfig{
			RedisAddr: getEnv("REDIS_ADDR", ""),
			Topic:     getEnv("NOTIFICATION_TOPIC", "notifications"),
		},
		App: AppConfig{
			Currency:     strings.ToUpper(getEnv("PAYMENT_CURRENCY", "USD")),
			ReviewWindow: getEnvAsDuration("REVIEW_WINDOW", "24h"),
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port cannot be empty")
	}
	if c.Server.IdempotencyTTL <= 0 {
		return fmt.Errorf("idempotency ttl must be positive")
	}

	if c.Database.Host == "" {
		return fmt.Errorf("database host cannot be empty")
	}
	if c.Database.DBName == "" {
		return fmt.Errorf("database name cannot be empty")
	}

	if c.Gateway.BaseURL == "" {
		return fmt.Errorf("gateway base url cannot be empty")
	}
	// Gateway calls are unknown-outcome boundaries; keep them bounded.
	if c.Gateway.Timeout < 10*time.Second || c.Gateway.Timeout > 30*time.Second {
		return fmt.Errorf("gateway timeout must be between 10s and 30s, got %s", c.Gateway.Timeout)
	}

	if err := validatePercent("client fee", c.Fees.ClientFeePercent); err != nil {
		return err
	}
	if err := validatePercent("provider fee", c.Fees.ProviderFeePercent); err != nil {
		return err
	}
	if c.Fees.CacheTTL < 0 {
		return fmt.Errorf("fee cache ttl cannot be negative")
	}

	if len(c.App.Currency) != 3 {
		return fmt.Errorf("currency must be a 3-letter ISO code, got %q", c.App.Currency)
	}
	if c.App.ReviewWindow <= 0 {
		return fmt.Errorf("review window must be positive")
	}

	if c.Notifications.Topic == "" {
		return fmt.Errorf("notification topic cannot be empty")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logger.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}
	if c.Logger.Format != "json" && c.Logger.Format != "text" {
		return fmt.Errorf("invalid log format: %s (must be json or text)", c.Logger.Format)
	}

	return nil
}

// DSN returns the PostgreSQL connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func validatePercent(name string, p decimal.Decimal) error {
	if err := fees.ValidatePercent(p); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDecimal(key, defaultValue string) decimal.Decimal {
	value, err := decimal.NewFromString(getEnv(key, defaultValue))
	if err != nil {
		return decimal.RequireFromString(defaultValue)
	}
	return value
}

func getEnvAsDuration(key, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		// Fallback to parsing the default if provided value is invalid
		duration, err = time.ParseDuration(defaultValue)
		if err != nil {
			return 0
		}
	}
	return duration
}
