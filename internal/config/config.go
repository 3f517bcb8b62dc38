package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the top-level typeinfer.yaml configuration.
type Config struct {
	// IncludeNullability makes inference track reference nullability
	// annotations. When false every result is oblivious.
	IncludeNullability bool `yaml:"include_nullability"`

	// LogLevel is one of debug, info, warn, error. Defaults to warn.
	LogLevel string `yaml:"log_level,omitempty"`

	// Color controls coloured report output: auto, always or never.
	// Defaults to auto, which colours only when stdout is a terminal.
	Color string `yaml:"color,omitempty"`

	// Record is the path of a sqlite database that receives one row per
	// evaluated call. Empty disables recording.
	Record string `yaml:"record,omitempty"`

	// Dump prints the raw inference result of every call after the report.
	Dump bool `yaml:"dump,omitempty"`
}

// Default returns the configuration used when no file is found.
func Default() *Config {
	cfg := &Config{IncludeNullability: true}
	cfg.setDefaults()
	return cfg
}

// LoadConfig reads and parses a typeinfer.yaml file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return ParseConfig(data, path)
}

// ParseConfig parses typeinfer.yaml content from bytes.
// The path argument is used only for error messages.
func ParseConfig(data []byte, path string) (*Config, error) {
	cfg := Config{IncludeNullability: true}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.validate(path); err != nil {
		return nil, err
	}
	cfg.setDefaults()
	return &cfg, nil
}

// FindConfig searches for typeinfer.yaml starting from dir and walking up
// to parent directories. Returns an empty path and nil error if not found.
func FindConfig(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving directory: %w", err)
	}

	for {
		for _, name := range ConfigFileNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// validate checks the configuration for semantic errors.
func (c *Config) validate(path string) error {
	switch c.LogLevel {
	case "", LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
	default:
		return fmt.Errorf("%s: log_level %q is not one of debug, info, warn, error", path, c.LogLevel)
	}

	switch c.Color {
	case "", ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("%s: color %q is not one of auto, always, never", path, c.Color)
	}

	if c.Record != "" {
		dir := filepath.Dir(c.Record)
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(filepath.Dir(path), dir)
		}
		info, err := os.Stat(dir)
		if err != nil {
			return fmt.Errorf("%s: record directory %q not found: %w", path, dir, err)
		}
		if !info.IsDir() {
			return fmt.Errorf("%s: record directory %q is not a directory", path, dir)
		}
	}
	return nil
}

// setDefaults fills in default values for optional fields.
func (c *Config) setDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = LogLevelWarn
	}
	if c.Color == "" {
		c.Color = ColorAuto
	}
}

// SlogLevel maps LogLevel onto a slog level.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelInfo:
		return slog.LevelInfo
	case LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
