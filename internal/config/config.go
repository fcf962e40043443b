// Package config resolves server settings from flags and environment.
// Precedence: CLI flag > TINYHTTPD_* env var > default.
package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	DefaultAddr    = "127.0.0.1:4221"
	DefaultWorkers = 8
)

type Config struct {
	// Addr is the TCP address connections are accepted on.
	Addr string `mapstructure:"addr"`
	// Directory is the serving root for the file routes; empty disables
	// them.
	Directory string `mapstructure:"directory"`
	// Workers bounds how many connections are handled in parallel.
	Workers int `mapstructure:"workers"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `mapstructure:"log-level"`
}

// Load builds the configuration, layering the given flag set (may be nil)
// over environment variables and defaults.
func Load(flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetDefault("addr", DefaultAddr)
	v.SetDefault("directory", "")
	v.SetDefault("workers", DefaultWorkers)
	v.SetDefault("log-level", "info")

	v.SetEnvPrefix("TINYHTTPD")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("binding flags: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if cfg.Workers < 1 {
		return nil, fmt.Errorf("workers must be at least 1, got %d", cfg.Workers)
	}

	return &cfg, nil
}

// Level maps LogLevel onto slog's levels, defaulting to info.
func (c *Config) Level() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
