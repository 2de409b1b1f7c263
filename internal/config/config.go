// Package config loads picker configuration from YAML, .env and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/R3E-Network/lotto_picker/internal/history"
	"github.com/R3E-Network/lotto_picker/internal/lottery"
	"github.com/R3E-Network/lotto_picker/pkg/logger"
)

// EnvConfigPath names the variable that overrides the config file location.
const EnvConfigPath = "LOTTO_CONFIG"

// DefaultPath is used when EnvConfigPath is unset.
var DefaultPath = filepath.Join("config", "picker.yaml")

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Host string `yaml:"host" env:"LOTTO_HOST"`
	Port int    `yaml:"port" env:"LOTTO_PORT"`
	// AllowedOrigins enables CORS for browser clients; "*" allows any origin.
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// Addr returns host:port.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// ReloadConfig schedules history reloads. An empty schedule disables them.
type ReloadConfig struct {
	Schedule string `yaml:"schedule" env:"LOTTO_RELOAD_SCHEDULE"`
}

// RateLimitConfig is applied per client address.
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" env:"LOTTO_RATE_LIMIT_RPS"`
	Burst             int     `yaml:"burst" env:"LOTTO_RATE_LIMIT_BURST"`
}

// Config is the full picker configuration.
type Config struct {
	Server    ServerConfig         `yaml:"server"`
	Logging   logger.LoggingConfig `yaml:"logging"`
	History   history.Config       `yaml:"history"`
	Defaults  lottery.Settings     `yaml:"defaults"`
	Reload    ReloadConfig         `yaml:"reload"`
	RateLimit RateLimitConfig      `yaml:"rate_limit"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{Host: "0.0.0.0", Port: 8080},
		Logging: logger.LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stdout",
		},
		History:   history.Config{Driver: history.DriverMemory},
		Defaults:  lottery.DefaultSettings(),
		Reload:    ReloadConfig{Schedule: "@every 1h"},
		RateLimit: RateLimitConfig{RequestsPerSecond: 20, Burst: 40},
	}
}

// Load reads the file named by LOTTO_CONFIG (or config/picker.yaml), then
// applies .env and environment overrides.
func Load() (*Config, error) {
	path := os.Getenv(EnvConfigPath)
	if path == "" {
		path = DefaultPath
	}
	return LoadFromPath(path)
}

// LoadFromPath loads configuration from a specific path. A missing file
// leaves the defaults in place.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	// .env is optional; values already present in the environment win.
	_ = godotenv.Load()

	if err := envdecode.Decode(cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return nil, fmt.Errorf("failed to decode environment: %w", err)
	}

	cfg.History.Driver = history.Driver(strings.ToLower(strings.TrimSpace(string(cfg.History.Driver))))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks ports, weights and the history backend.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	d := c.Defaults
	for name, v := range map[string]float64{
		"freq_weight":    d.FreqWeight,
		"co_weight":      d.CoWeight,
		"noise_strength": d.NoiseStrength,
	} {
		if v < 0 || v > 1 {
			return fmt.Errorf("defaults.%s must be within [0,1], got %v", name, v)
		}
	}
	if c.RateLimit.RequestsPerSecond < 0 || c.RateLimit.Burst < 0 {
		return fmt.Errorf("rate_limit values must not be negative")
	}
	if err := c.History.Validate(); err != nil {
		return fmt.Errorf("history: %w", err)
	}
	return nil
}
