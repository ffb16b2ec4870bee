package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv() error = %v", err)
	}

	if cfg.Server.Port != 8084 {
		t.Errorf("Port = %d, want 8084", cfg.Server.Port)
	}
	if cfg.Source.BaseURL != "https://labdados.com/produtos" {
		t.Errorf("BaseURL = %q", cfg.Source.BaseURL)
	}
	if cfg.Dashboard.DefaultTopN != 5 {
		t.Errorf("DefaultTopN = %d, want 5", cfg.Dashboard.DefaultTopN)
	}
	if cfg.Dashboard.MinYear != 2020 || cfg.Dashboard.MaxYear != 2023 {
		t.Errorf("year range = %d-%d", cfg.Dashboard.MinYear, cfg.Dashboard.MaxYear)
	}
	if cfg.Dashboard.SkipInvalid {
		t.Error("SkipInvalid should default to false")
	}
	if cfg.Address() != "localhost:8084" {
		t.Errorf("Address() = %q", cfg.Address())
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("SOURCE_CACHE_TTL", "90s")
	t.Setenv("DASHBOARD_LOCALE", "pt-BR")
	t.Setenv("DASHBOARD_SKIP_INVALID_RECORDS", "true")
	t.Setenv("SECURITY_ALLOWED_ORIGINS", "http://a.test, http://b.test")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Source.CacheTTL != 90*time.Second {
		t.Errorf("CacheTTL = %v", cfg.Source.CacheTTL)
	}
	if cfg.Dashboard.Locale != "pt-BR" {
		t.Errorf("Locale = %q", cfg.Dashboard.Locale)
	}
	if !cfg.Dashboard.SkipInvalid {
		t.Error("SkipInvalid should be true")
	}
	if len(cfg.Security.AllowedOrigins) != 2 || cfg.Security.AllowedOrigins[1] != "http://b.test" {
		t.Errorf("AllowedOrigins = %v", cfg.Security.AllowedOrigins)
	}
}

func TestFromEnv_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"port out of range", "SERVER_PORT", "70000"},
		{"relative source url", "SOURCE_URL", "/produtos"},
		{"zero top n", "DASHBOARD_TOP_N", "0"},
		{"bad log level", "LOG_LEVEL", "verbose"},
		{"bad log format", "LOG_FORMAT", "xml"},
		{"empty year range", "DASHBOARD_MIN_YEAR", "2030"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := FromEnv(); err == nil {
				t.Errorf("FromEnv() with %s=%s should fail", tt.key, tt.value)
			}
		})
	}
}

func TestLoad_ReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("DASHBOARD_CURRENCY_PREFIX=US$\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)
	t.Setenv("DASHBOARD_CURRENCY_PREFIX", "")
	os.Unsetenv("DASHBOARD_CURRENCY_PREFIX")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Dashboard.CurrencyPrefix != "US$" {
		t.Errorf("CurrencyPrefix = %q, want US$", cfg.Dashboard.CurrencyPrefix)
	}
}

func TestLoad_MissingDotEnv(t *testing.T) {
	t.Chdir(t.TempDir())

	if _, err := Load(); err != nil {
		t.Fatalf("Load() without .env should succeed, got %v", err)
	}
}
