package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/blackforge/storefront/config"
)

func validConfig() string {
	return `
server:
  host: "127.0.0.1"
  port: 9090

frontend:
  url: "https://shop.example.com"

payment:
  provider: "dummy"
  currency: "eur"

store:
  data_dir: "testdata"

auth:
  session_secret: "session-secret"
  download_secret: "download-secret"
  download_ttl: 30m

logging:
  level: "debug"
  format: "console"
`
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "storefront.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_ValidConfig(t *testing.T) {
	cfg, err := config.Load(writeConfig(t, validConfig()))
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("Server.Host = %s", cfg.Server.Host)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d", cfg.Server.Port)
	}
	if cfg.Frontend.URL != "https://shop.example.com" {
		t.Errorf("Frontend.URL = %s", cfg.Frontend.URL)
	}
	if cfg.Payment.Provider != "dummy" || cfg.Payment.Currency != "eur" {
		t.Errorf("Payment = %+v", cfg.Payment)
	}
	if cfg.Auth.DownloadTTL != 30*time.Minute {
		t.Errorf("DownloadTTL = %s", cfg.Auth.DownloadTTL)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "console" {
		t.Errorf("Logging = %+v", cfg.Logging)
	}
}

func TestLoad_DefaultsPreservedWhenUnset(t *testing.T) {
	cfg, err := config.Load(writeConfig(t, `
frontend:
  url: "https://shop.example.com"
auth:
  download_secret: "s"
`))
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	def := config.Default()
	if cfg.Server.Port != def.Server.Port {
		t.Errorf("Server.Port = %d, want default %d", cfg.Server.Port, def.Server.Port)
	}
	if cfg.Auth.AdminTTL != 7*24*time.Hour {
		t.Errorf("AdminTTL = %s", cfg.Auth.AdminTTL)
	}
	if cfg.Auth.MemberTTL != 14*24*time.Hour {
		t.Errorf("MemberTTL = %s", cfg.Auth.MemberTTL)
	}
	if cfg.Auth.DownloadTTL != time.Hour {
		t.Errorf("DownloadTTL = %s", cfg.Auth.DownloadTTL)
	}
	if cfg.Admin.Owner != "knoir" {
		t.Errorf("Admin.Owner = %s", cfg.Admin.Owner)
	}
	if !cfg.Metrics.Enabled || cfg.Metrics.Path != "/metrics" {
		t.Errorf("Metrics = %+v", cfg.Metrics)
	}
}

func TestLoad_MissingFileUsesEnv(t *testing.T) {
	t.Setenv(config.EnvFrontendURL, "https://env.example.com")
	t.Setenv(config.EnvDownloadSecret, "env-secret")
	t.Setenv(config.EnvServerPort, "7070")

	cfg, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Frontend.URL != "https://env.example.com" {
		t.Errorf("Frontend.URL = %s", cfg.Frontend.URL)
	}
	if cfg.Auth.DownloadSecret != "env-secret" {
		t.Errorf("DownloadSecret = %s", cfg.Auth.DownloadSecret)
	}
	if cfg.Server.Port != 7070 {
		t.Errorf("Server.Port = %d", cfg.Server.Port)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv(config.EnvCurrency, "usd")
	t.Setenv(config.EnvForcePriceRefs, "true")
	t.Setenv(config.EnvLogLevel, "warn")

	cfg, err := config.Load(writeConfig(t, validConfig()))
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Payment.Currency != "usd" {
		t.Errorf("Currency = %s, want env override", cfg.Payment.Currency)
	}
	if !cfg.Payment.ForcePriceRefs {
		t.Error("ForcePriceRefs not taken from env")
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Level = %s", cfg.Logging.Level)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	_, err := config.Load(writeConfig(t, "server: [not a mapping"))
	if err == nil || !strings.Contains(err.Error(), "parse config") {
		t.Errorf("err = %v, want parse failure", err)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *config.Config {
		cfg := config.Default()
		cfg.Auth.DownloadSecret = "secret"
		return cfg
	}

	if err := valid().Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr string
	}{
		{"port zero", func(c *config.Config) { c.Server.Port = 0 }, "out of range"},
		{"port too high", func(c *config.Config) { c.Server.Port = 70000 }, "out of range"},
		{"no frontend url", func(c *config.Config) { c.Frontend.URL = "" }, "frontend url"},
		{"no currency", func(c *config.Config) { c.Payment.Currency = "" }, "currency"},
		{"no download secret", func(c *config.Config) { c.Auth.DownloadSecret = "" }, "download token secret"},
		{"bad log level", func(c *config.Config) { c.Logging.Level = "verbose" }, "log level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("err = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestHasEnvConfig(t *testing.T) {
	t.Setenv(config.EnvDownloadSecret, "x")
	if !config.HasEnvConfig() {
		t.Error("HasEnvConfig() = false with STOREFRONT_ var set")
	}
}
