// Copyright (c) 2025 evaldb
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package config loads CLI settings from the XDG config dir and the
// environment. Only non-secret settings live here; the database key goes
// to the OS keychain.
package config

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"evaldb/cli/internal/xdg"
	"evaldb/cli/pkg/evaldb"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. EVALDB_BASE_URL.
const EnvPrefix = "EVALDB"

const fileName = "config.yaml"

// Config holds non-sensitive CLI settings.
type Config struct {
	LogLevel    string        `mapstructure:"log_level"`
	BaseURL     string        `mapstructure:"base_url"`
	Timeout     time.Duration `mapstructure:"timeout"`
	Concurrency int           `mapstructure:"concurrency"`
	// RateLimit caps batch requests per second; 0 means unlimited.
	RateLimit float64 `mapstructure:"rate_limit"`
}

// Default returns the settings used when neither file nor env say otherwise.
func Default() Config {
	return Config{
		LogLevel:    "info",
		BaseURL:     evaldb.DefaultBaseURL,
		Timeout:     30 * time.Second,
		Concurrency: 4,
	}
}

// newViper returns a viper instance with defaults and env binding applied.
func newViper() *viper.Viper {
	d := Default()
	v := viper.New()
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("base_url", d.BaseURL)
	v.SetDefault("timeout", d.Timeout)
	v.SetDefault("concurrency", d.Concurrency)
	v.SetDefault("rate_limit", d.RateLimit)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads configuration from the XDG config dir; a missing file yields
// defaults, still subject to EVALDB_* overrides.
func Load() (Config, error) {
	dir, err := xdg.ConfigDir()
	if err != nil {
		return Config{}, err
	}
	return LoadFrom(dir)
}

// LoadFrom reads config.yaml from dir.
func LoadFrom(dir string) (Config, error) {
	v := newViper()
	v.SetConfigFile(filepath.Join(dir, fileName))
	if err := v.ReadInConfig(); err != nil && !isNotExist(err) {
		return Config{}, err
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, err
	}
	return c, nil
}

// LoadEnv reads only defaults and EVALDB_* variables, for environments
// without a home directory such as AWS Lambda.
func LoadEnv() (Config, error) {
	var c Config
	err := newViper().Unmarshal(&c)
	return c, err
}

// Save writes c to the XDG config dir.
func Save(c Config) error {
	dir, err := xdg.ConfigDir()
	if err != nil {
		return err
	}
	return SaveTo(dir, c)
}

// SaveTo writes c as config.yaml in dir.
func SaveTo(dir string, c Config) error {
	v := viper.New()
	v.SetConfigPermissions(0o600)
	v.Set("log_level", c.LogLevel)
	v.Set("base_url", c.BaseURL)
	v.Set("timeout", c.Timeout.String())
	v.Set("concurrency", c.Concurrency)
	v.Set("rate_limit", c.RateLimit)
	return v.WriteConfigAs(filepath.Join(dir, fileName))
}

// isNotExist reports whether err means the config file is absent.
func isNotExist(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) {
		return true
	}
	return errors.Is(err, fs.ErrNotExist)
}
