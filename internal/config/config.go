// Package config loads the service configuration from a YAML file with
// environment variable overrides. Provider settings are explicit structs
// injected into each component at construction, so nothing reads the
// process environment after startup.
package config

import (
	"fmt"

	"github.com/jonesrussell/llmsgen/internal/discovery"
	"github.com/jonesrussell/llmsgen/internal/enrich"
	"github.com/jonesrussell/llmsgen/internal/logger"
	"github.com/jonesrussell/llmsgen/internal/payment"
)

// Default configuration values.
const (
	defaultServiceName  = "llmsgen"
	defaultServicePort  = 8094
	defaultVersion      = "0.1.0"
	defaultPublicURL    = "http://localhost:8094"
	defaultSweepSpec    = "@hourly"
	defaultLoggingLevel = "info"
	defaultDBHost       = "localhost"
	defaultDBPort       = 5432
	defaultDBName       = "llmsgen"
	defaultDBUser       = "postgres"
	defaultDBSSLMode    = "disable"
)

// Config holds the application configuration.
type Config struct {
	Service  ServiceConfig         `yaml:"service"`
	Database DatabaseConfig        `yaml:"database"`
	Crawl    discovery.CrawlConfig `yaml:"crawl"`
	LLM      enrich.LLMConfig      `yaml:"llm"`
	Payment  payment.Config        `yaml:"payment"`
	Logging  logger.Config         `yaml:"logging"`
}

// ServiceConfig holds service-level configuration.
type ServiceConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
	Port    int    `env:"LLMSGEN_PORT" yaml:"port"`
	Debug   bool   `env:"APP_DEBUG"    yaml:"debug"`

	// PublicURL is the externally reachable base URL, used to build the
	// checkout success and cancel redirects.
	PublicURL string `env:"PUBLIC_URL" yaml:"public_url"`

	// CleanupToken authorizes the /cleanup endpoint.
	CleanupToken string `env:"CLEANUP_TOKEN" yaml:"cleanup_token"`

	// SweepSchedule is the cron spec for the background expiry sweep.
	SweepSchedule string `yaml:"sweep_schedule"`
}

// DatabaseConfig holds PostgreSQL database configuration.
type DatabaseConfig struct {
	Host     string `env:"POSTGRES_LLMSGEN_HOST"     yaml:"host"`
	Port     int    `env:"POSTGRES_LLMSGEN_PORT"     yaml:"port"`
	User     string `env:"POSTGRES_LLMSGEN_USER"     yaml:"user"`
	Password string `env:"POSTGRES_LLMSGEN_PASSWORD" yaml:"password"`
	Database string `env:"POSTGRES_LLMSGEN_DB"       yaml:"database"`
	SSLMode  string `env:"POSTGRES_LLMSGEN_SSLMODE"  yaml:"sslmode"`
}

// DSN returns the PostgreSQL connection string.
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Database, d.SSLMode,
	)
}

// Load loads configuration from the specified path.
func Load(path string) (*Config, error) {
	return loadWithDefaults(path, setDefaults)
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	if cfg.Service.Name == "" {
		cfg.Service.Name = defaultServiceName
	}
	if cfg.Service.Version == "" {
		cfg.Service.Version = defaultVersion
	}
	if cfg.Service.Port == 0 {
		cfg.Service.Port = defaultServicePort
	}
	if cfg.Service.PublicURL == "" {
		cfg.Service.PublicURL = defaultPublicURL
	}
	if cfg.Service.SweepSchedule == "" {
		cfg.Service.SweepSchedule = defaultSweepSpec
	}

	if cfg.Database.Host == "" {
		cfg.Database.Host = defaultDBHost
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = defaultDBPort
	}
	if cfg.Database.User == "" {
		cfg.Database.User = defaultDBUser
	}
	if cfg.Database.Database == "" {
		cfg.Database.Database = defaultDBName
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = defaultDBSSLMode
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = defaultLoggingLevel
	}
}

// ValidationError reports an invalid configuration field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Service.Port < 1 || c.Service.Port > 65535 {
		return &ValidationError{Field: "service.port", Message: "must be between 1 and 65535"}
	}
	if c.Service.CleanupToken == "" {
		return &ValidationError{Field: "service.cleanup_token", Message: "is required"}
	}
	if c.Payment.Configured() && c.Payment.WebhookSecret == "" {
		return &ValidationError{Field: "payment.webhook_secret", Message: "is required when payments are configured"}
	}
	return nil
}
