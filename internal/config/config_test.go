package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"volsurface/internal/errors"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Dashboard.MinStrikes != 10 || cfg.Dashboard.MaxStrikes != 50 || cfg.Dashboard.DefaultStrikes != 20 {
		t.Errorf("unexpected strike bounds: %+v", cfg.Dashboard)
	}
	if cfg.Dashboard.MinTenors != 5 || cfg.Dashboard.MaxTenors != 20 || cfg.Dashboard.DefaultTenors != 10 {
		t.Errorf("unexpected tenor bounds: %+v", cfg.Dashboard)
	}
	if cfg.Server.Addr != ":8501" {
		t.Errorf("addr = %q", cfg.Server.Addr)
	}
	if cfg.Server.ShutdownTimeout != 5*time.Second {
		t.Errorf("shutdown timeout = %v", cfg.Server.ShutdownTimeout)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadCreatesTemplate(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Dashboard.DefaultStrikes != 20 {
		t.Errorf("default strikes = %d", cfg.Dashboard.DefaultStrikes)
	}
	if _, err := os.Stat(filepath.Join(dir, "config.toml")); err != nil {
		t.Errorf("template not written: %v", err)
	}

	// The template must itself load cleanly.
	if _, err := Load(dir); err != nil {
		t.Errorf("reloading template: %v", err)
	}
}

func TestLoadOverrides(t *testing.T) {
	dir := t.TempDir()
	content := `
[dashboard]
default_strikes = 30
show_table = true

[server]
addr = "127.0.0.1:9000"
read_timeout = "3s"
`
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Dashboard.DefaultStrikes != 30 || !cfg.Dashboard.ShowTable {
		t.Errorf("dashboard overrides not applied: %+v", cfg.Dashboard)
	}
	if cfg.Dashboard.MaxStrikes != 50 {
		t.Errorf("unset keys should keep defaults, got max_strikes=%d", cfg.Dashboard.MaxStrikes)
	}
	if cfg.Server.Addr != "127.0.0.1:9000" || cfg.Server.ReadTimeout != 3*time.Second {
		t.Errorf("server overrides not applied: %+v", cfg.Server)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("VOLSURFACE_ADDR", ":7777")
	t.Setenv("VOLSURFACE_LOG_LEVEL", "debug")

	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Addr != ":7777" || cfg.Logging.Level != "debug" {
		t.Errorf("env overrides not applied: addr=%q level=%q", cfg.Server.Addr, cfg.Logging.Level)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"min strikes below 2", func(c *Config) { c.Dashboard.MinStrikes = 1 }},
		{"max below min strikes", func(c *Config) { c.Dashboard.MaxStrikes = 5 }},
		{"default strikes out of range", func(c *Config) { c.Dashboard.DefaultStrikes = 60 }},
		{"min tenors below 2", func(c *Config) { c.Dashboard.MinTenors = 0 }},
		{"default tenors out of range", func(c *Config) { c.Dashboard.DefaultTenors = 4 }},
		{"empty addr", func(c *Config) { c.Server.Addr = "" }},
		{"zero chart width", func(c *Config) { c.Chart.Width = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if !errors.Is(err, errors.ErrConfigInvalid) {
				t.Errorf("expected ErrConfigInvalid, got %v", err)
			}
		})
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte("[dashboard]\nmin_strikes = 1\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(dir); !errors.Is(err, errors.ErrConfigInvalid) {
		t.Errorf("expected ErrConfigInvalid, got %v", err)
	}
}
