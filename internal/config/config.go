// Package config provides configuration management for the volatility surface tool.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"volsurface/internal/errors"
	"volsurface/internal/logging"
)

// Config holds all application configuration.
type Config struct {
	Dashboard DashboardConfig `mapstructure:"dashboard"`
	Server    ServerConfig    `mapstructure:"server"`
	Chart     ChartConfig     `mapstructure:"chart"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// DashboardConfig holds the slider bounds and defaults applied by the dashboard.
type DashboardConfig struct {
	MinStrikes     int  `mapstructure:"min_strikes"`
	MaxStrikes     int  `mapstructure:"max_strikes"`
	DefaultStrikes int  `mapstructure:"default_strikes"`
	MinTenors      int  `mapstructure:"min_tenors"`
	MaxTenors      int  `mapstructure:"max_tenors"`
	DefaultTenors  int  `mapstructure:"default_tenors"`
	ShowTable      bool `mapstructure:"show_table"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// ChartConfig holds PNG chart dimensions.
type ChartConfig struct {
	Width  int `mapstructure:"width"`
	Height int `mapstructure:"height"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	File       bool   `mapstructure:"file"`
	FilePath   string `mapstructure:"file_path"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
}

// LogConfig converts the logging section into a logging.LogConfig.
func (l LoggingConfig) LogConfig() logging.LogConfig {
	return logging.LogConfig{
		Level:      l.Level,
		Console:    true,
		File:       l.File,
		FilePath:   l.FilePath,
		MaxSize:    l.MaxSize,
		MaxBackups: l.MaxBackups,
		MaxAge:     l.MaxAge,
	}
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/volsurface"
	}
	return filepath.Join(home, ".config", "volsurface")
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg := &Config{}
	// Decoding defaults alone cannot fail.
	_ = newViper().Unmarshal(cfg)
	return cfg
}

// Load loads configuration from the specified directory.
// If configDir is empty, uses the default config directory. A missing
// config.toml is replaced by a commented template and defaults apply.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	v := newViper()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config.toml: %w", err)
		}
		if err := createTemplateConfig(configDir); err != nil {
			return nil, err
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding config.toml: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func newViper() *viper.Viper {
	v := viper.New()

	v.SetDefault("dashboard.min_strikes", 10)
	v.SetDefault("dashboard.max_strikes", 50)
	v.SetDefault("dashboard.default_strikes", 20)
	v.SetDefault("dashboard.min_tenors", 5)
	v.SetDefault("dashboard.max_tenors", 20)
	v.SetDefault("dashboard.default_tenors", 10)
	v.SetDefault("dashboard.show_table", false)

	v.SetDefault("server.addr", ":8501")
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 10*time.Second)
	v.SetDefault("server.shutdown_timeout", 5*time.Second)

	v.SetDefault("chart.width", 800)
	v.SetDefault("chart.height", 600)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.file", false)
	v.SetDefault("logging.file_path", logging.DefaultLogFile())
	v.SetDefault("logging.max_size", 20)
	v.SetDefault("logging.max_backups", 3)
	v.SetDefault("logging.max_age", 14)

	return v
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("VOLSURFACE_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("VOLSURFACE_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	d := c.Dashboard
	if d.MinStrikes < 2 {
		return errors.NewConfigError("dashboard.min_strikes", "must be at least 2")
	}
	if d.MaxStrikes < d.MinStrikes {
		return errors.NewConfigError("dashboard.max_strikes", "must not be below min_strikes")
	}
	if d.DefaultStrikes < d.MinStrikes || d.DefaultStrikes > d.MaxStrikes {
		return errors.NewConfigError("dashboard.default_strikes", "must lie within [min_strikes, max_strikes]")
	}
	if d.MinTenors < 2 {
		return errors.NewConfigError("dashboard.min_tenors", "must be at least 2")
	}
	if d.MaxTenors < d.MinTenors {
		return errors.NewConfigError("dashboard.max_tenors", "must not be below min_tenors")
	}
	if d.DefaultTenors < d.MinTenors || d.DefaultTenors > d.MaxTenors {
		return errors.NewConfigError("dashboard.default_tenors", "must lie within [min_tenors, max_tenors]")
	}

	if c.Server.Addr == "" {
		return errors.NewConfigError("server.addr", "must not be empty")
	}
	if c.Chart.Width <= 0 || c.Chart.Height <= 0 {
		return errors.NewConfigError("chart", "width and height must be positive")
	}

	return nil
}
