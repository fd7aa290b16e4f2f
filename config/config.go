// Package config loads scanner configuration from YAML, starting from the
// embedded defaults.
package config

import (
	"embed"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

//go:embed config.yml
var defaultConfigFile embed.FS

var validate = validator.New(validator.WithRequiredStructEnabled())

type Config struct {
	Scanning   ScanningConfig   `json:"scanning" yaml:"scanning"`
	Resolution ResolutionConfig `json:"resolution" yaml:"resolution"`
	LogLevel   LogLevel         `json:"log_level" yaml:"log_level" validate:"omitempty,oneof=debug info warn error none"`
}

type ScanningConfig struct {
	// Packages are import paths, go list patterns (./...) or file globs; a leading '!' excludes.
	Packages []string `json:"packages" yaml:"packages" validate:"min=1,dive,required"`
	// Annotations restricts which annotations are inspected; empty means all.
	Annotations []string `json:"annotations" yaml:"annotations" validate:"dive,required"`
	Tests       bool     `json:"tests" yaml:"tests"`
}

type ResolutionConfig struct {
	Workers int `json:"workers" yaml:"workers" validate:"gte=1,lte=256"`
}

// LogLevel defines the logging verbosity
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
	LogLevelNone  LogLevel = "none"
)

// SlogLevel maps the level onto slog. The second result is false for "none".
func (l LogLevel) SlogLevel() (slog.Level, bool) {
	switch LogLevel(strings.ToLower(string(l))) {
	case LogLevelDebug:
		return slog.LevelDebug, true
	case LogLevelWarn:
		return slog.LevelWarn, true
	case LogLevelError:
		return slog.LevelError, true
	case LogLevelNone:
		return slog.LevelError, false
	default:
		return slog.LevelInfo, true
	}
}

func NewDefaultConfig() *Config {
	// parse default config from embedded file
	data, err := defaultConfigFile.ReadFile("config.yml")
	if err != nil {
		panic("failed to load default config: " + err.Error())
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		panic("failed to parse default config: " + err.Error())
	}
	return &cfg
}

// LoadConfigFromYAML overlays data on the defaults and validates the result.
func LoadConfigFromYAML(data []byte) (*Config, error) {
	cfg := NewDefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func LoadConfigFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return LoadConfigFromYAML(data)
}

func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
