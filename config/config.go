// Package config provides configuration loading and validation.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Frontend FrontendConfig `yaml:"frontend"`
	Payment  PaymentConfig  `yaml:"payment"`
	Store    StoreConfig    `yaml:"store"`
	Files    FilesConfig    `yaml:"files"`
	Auth     AuthConfig     `yaml:"auth"`
	Admin    AdminConfig    `yaml:"admin"`
	Logging  LoggingConfig  `yaml:"logging"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// FrontendConfig configures where success/cancel redirects land.
type FrontendConfig struct {
	URL string `yaml:"url"`
}

// PaymentConfig configures the payment provider.
// Use "stripe" for real checkout or "dummy" for development.
type PaymentConfig struct {
	Provider        string `yaml:"provider"`
	StripeSecretKey string `yaml:"stripe_secret_key,omitempty"`
	Currency        string `yaml:"currency"`
	// ForcePriceRefs makes checkout use pre-registered provider price
	// references instead of ad-hoc amounts. Coupons are incompatible
	// with this mode on items carrying a real price ref.
	ForcePriceRefs bool `yaml:"force_price_refs"`
}

// StoreConfig configures the document stores.
type StoreConfig struct {
	DataDir string `yaml:"data_dir"`
}

// FilesConfig configures downloadable asset delivery.
type FilesConfig struct {
	Root string `yaml:"root"`
}

// AuthConfig configures token signing.
type AuthConfig struct {
	SessionSecret  string        `yaml:"session_secret"`
	AdminTTL       time.Duration `yaml:"admin_ttl"`
	MemberTTL      time.Duration `yaml:"member_ttl"`
	DownloadSecret string        `yaml:"download_secret"`
	DownloadTTL    time.Duration `yaml:"download_ttl"`
}

// AdminConfig configures the admin user directory.
type AdminConfig struct {
	Owner             string `yaml:"owner"`
	BootstrapPassword string `yaml:"bootstrap_password"`
	CredentialsSecret string `yaml:"credentials_secret"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "console"
}

// MetricsConfig configures Prometheus metrics.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         8080,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 60 * time.Second,
		},
		Frontend: FrontendConfig{
			URL: "http://localhost:4000",
		},
		Payment: PaymentConfig{
			Provider: "stripe",
			Currency: "usd",
		},
		Store: StoreConfig{
			DataDir: "data",
		},
		Files: FilesConfig{
			Root: "files",
		},
		Auth: AuthConfig{
			AdminTTL:    7 * 24 * time.Hour,
			MemberTTL:   14 * 24 * time.Hour,
			DownloadTTL: time.Hour,
		},
		Admin: AdminConfig{
			Owner: "knoir",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
	}
}

// Load reads configuration from a YAML file, applies environment
// overrides, and validates the result. A missing file is not an error;
// env-only configuration is supported for container deployments.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	case os.IsNotExist(err):
		// fall through to env overrides
	default:
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Env variable names understood by applyEnv.
const (
	EnvServerHost        = "STOREFRONT_SERVER_HOST"
	EnvServerPort        = "STOREFRONT_SERVER_PORT"
	EnvFrontendURL       = "STOREFRONT_FRONTEND_URL"
	EnvPaymentProvider   = "STOREFRONT_PAYMENT_PROVIDER"
	EnvStripeSecretKey   = "STOREFRONT_STRIPE_SECRET_KEY"
	EnvCurrency          = "STOREFRONT_CURRENCY"
	EnvForcePriceRefs    = "STOREFRONT_FORCE_PRICE_REFS"
	EnvDataDir           = "STOREFRONT_DATA_DIR"
	EnvFilesRoot         = "STOREFRONT_FILES_ROOT"
	EnvSessionSecret     = "STOREFRONT_SESSION_SECRET"
	EnvDownloadSecret    = "STOREFRONT_DOWNLOAD_SECRET"
	EnvDownloadTTL       = "STOREFRONT_DOWNLOAD_TTL"
	EnvAdminOwner        = "STOREFRONT_ADMIN_OWNER"
	EnvAdminPassword     = "STOREFRONT_ADMIN_PASSWORD"
	EnvCredentialsSecret = "STOREFRONT_CREDENTIALS_SECRET"
	EnvLogLevel          = "STOREFRONT_LOG_LEVEL"
	EnvLogFormat         = "STOREFRONT_LOG_FORMAT"
)

// HasEnvConfig reports whether any STOREFRONT_* variable is set.
func HasEnvConfig() bool {
	for _, kv := range os.Environ() {
		if strings.HasPrefix(kv, "STOREFRONT_") {
			return true
		}
	}
	return false
}

func (c *Config) applyEnv() {
	setString := func(key string, target *string) {
		if v := os.Getenv(key); v != "" {
			*target = v
		}
	}

	setString(EnvServerHost, &c.Server.Host)
	if v := os.Getenv(EnvServerPort); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
	setString(EnvFrontendURL, &c.Frontend.URL)
	setString(EnvPaymentProvider, &c.Payment.Provider)
	setString(EnvStripeSecretKey, &c.Payment.StripeSecretKey)
	setString(EnvCurrency, &c.Payment.Currency)
	if v := os.Getenv(EnvForcePriceRefs); v != "" {
		c.Payment.ForcePriceRefs = strings.EqualFold(v, "true") || v == "1"
	}
	setString(EnvDataDir, &c.Store.DataDir)
	setString(EnvFilesRoot, &c.Files.Root)
	setString(EnvSessionSecret, &c.Auth.SessionSecret)
	setString(EnvDownloadSecret, &c.Auth.DownloadSecret)
	if v := os.Getenv(EnvDownloadTTL); v != "" {
		if ttl, err := time.ParseDuration(v); err == nil {
			c.Auth.DownloadTTL = ttl
		}
	}
	setString(EnvAdminOwner, &c.Admin.Owner)
	setString(EnvAdminPassword, &c.Admin.BootstrapPassword)
	setString(EnvCredentialsSecret, &c.Admin.CredentialsSecret)
	setString(EnvLogLevel, &c.Logging.Level)
	setString(EnvLogFormat, &c.Logging.Format)
}

// Validate checks the configuration for inconsistencies.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server port %d out of range", c.Server.Port)
	}
	if c.Frontend.URL == "" {
		return fmt.Errorf("frontend url is required")
	}
	if c.Payment.Currency == "" {
		return fmt.Errorf("payment currency is required")
	}
	if c.Auth.DownloadSecret == "" {
		return fmt.Errorf("download token secret is required (%s)", EnvDownloadSecret)
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.Logging.Level)
	}
	return nil
}
