package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sheenazien8/sqgrid/grid/export"
	"github.com/sheenazien8/sqgrid/grid/window"
	"gopkg.in/yaml.v3"
)

// Config holds the application configuration
type Config struct {
	Theme          string `yaml:"theme"`
	Overscan       int    `yaml:"overscan"`
	RowHeight      int    `yaml:"rowHeight"`
	PageSize       int    `yaml:"pageSize"`
	ExportFormat   string `yaml:"exportFormat"`
	IncludeHeaders bool   `yaml:"includeHeaders"`
	ExportDir      string `yaml:"exportDir,omitempty"`
	LogLevel       string `yaml:"logLevel"`

	path string
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Theme:          "default",
		Overscan:       window.DefaultOverscan,
		RowHeight:      1,
		PageSize:       20,
		ExportFormat:   string(export.FormatCSV),
		IncludeHeaders: true,
		LogLevel:       "info",
	}
}

// configDir returns the config directory path
func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "sqgrid"), nil
}

// DefaultPath returns the config file path
func DefaultPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yml"), nil
}

// Load reads the config at path, or at DefaultPath when path is empty.
// A missing file yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return DefaultConfig(), err
		}
		path = p
	}

	cfg := DefaultConfig()
	cfg.path = path

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		fallback := DefaultConfig()
		fallback.path = path
		return fallback, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	cfg.Validate()
	return cfg, nil
}

// Path returns the file the config was loaded from
func (c *Config) Path() string {
	return c.path
}

// Validate replaces out of range values with their defaults
func (c *Config) Validate() {
	def := DefaultConfig()
	if c.Theme == "" {
		c.Theme = def.Theme
	}
	if c.Overscan < 0 {
		c.Overscan = def.Overscan
	}
	if c.RowHeight < 1 {
		c.RowHeight = def.RowHeight
	}
	if c.PageSize < 1 {
		c.PageSize = def.PageSize
	}
	if f, err := export.ParseFormat(c.ExportFormat); err != nil {
		c.ExportFormat = def.ExportFormat
	} else {
		c.ExportFormat = string(f)
	}
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
}

// Format returns the configured default export format
func (c *Config) Format() export.Format {
	f, err := export.ParseFormat(c.ExportFormat)
	if err != nil {
		return export.FormatCSV
	}
	return f
}

// Save writes the config to the file it was loaded from
func (c *Config) Save() error {
	path := c.path
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	c.path = path
	return nil
}

// SetTheme updates the theme in config
func (c *Config) SetTheme(themeName string) {
	c.Theme = themeName
}

// SetExportFormat remembers the last export format used
func (c *Config) SetExportFormat(f export.Format) {
	c.ExportFormat = string(f)
}
