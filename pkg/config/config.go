// Package config loads the kpictl server configuration.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Storage backends.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Config is the complete kpictl configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Storage  StorageConfig  `yaml:"storage"`
	Keys     KeysConfig     `yaml:"keys"`
	Catalogs CatalogsConfig `yaml:"catalogs"`
	Log      LogConfig      `yaml:"log"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr     string `yaml:"addr"`
	BasePath string `yaml:"base_path"`
}

// StorageConfig selects the preference backend.
type StorageConfig struct {
	// Backend is one of memory, file or sqlite.
	Backend string `yaml:"backend"`
	// Path is the JSON file or SQLite database path.
	Path string `yaml:"path"`
	// Watch reloads subscribers when the file backend changes on disk.
	Watch bool `yaml:"watch"`
}

// KeysConfig holds the storage key namespaces. Changing them orphans
// previously stored preferences.
type KeysConfig struct {
	Visibility string `yaml:"visibility"`
	Order      string `yaml:"order"`
}

// CatalogsConfig points at an optional catalog manifest.
type CatalogsConfig struct {
	Manifest string `yaml:"manifest"`
	// SkipDefaults drops the built-in marketing catalogs.
	SkipDefaults bool `yaml:"skip_defaults"`
}

// LogConfig configures zap.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:     ":8080",
			BasePath: "/admin",
		},
		Storage: StorageConfig{
			Backend: BackendMemory,
		},
		Keys: KeysConfig{
			Visibility: "kpi.visible",
			Order:      "kpi.order",
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	if strings.TrimSpace(path) == "" {
		return Default(), nil
	}
	file, err := os.Open(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer file.Close()
	cfg, err := Decode(file)
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	if cfg.Storage.Path != "" && !filepath.IsAbs(cfg.Storage.Path) {
		cfg.Storage.Path = filepath.Join(filepath.Dir(path), cfg.Storage.Path)
	}
	if cfg.Catalogs.Manifest != "" && !filepath.IsAbs(cfg.Catalogs.Manifest) {
		cfg.Catalogs.Manifest = filepath.Join(filepath.Dir(path), cfg.Catalogs.Manifest)
	}
	return cfg, nil
}

// Decode parses YAML over the defaults and validates the result.
func Decode(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	cfg := Default()
	if len(bytes.TrimSpace(data)) > 0 {
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parse: %w", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendMemory:
	case BackendFile, BackendSQLite:
		if strings.TrimSpace(c.Storage.Path) == "" {
			return fmt.Errorf("storage.path is required for the %s backend", c.Storage.Backend)
		}
	default:
		return fmt.Errorf("storage.backend %q must be one of memory, file, sqlite", c.Storage.Backend)
	}
	if c.Storage.Watch && c.Storage.Backend != BackendFile {
		return errors.New("storage.watch is only supported by the file backend")
	}
	if strings.TrimSpace(c.Keys.Visibility) == "" || strings.TrimSpace(c.Keys.Order) == "" {
		return errors.New("keys.visibility and keys.order are required")
	}
	if c.Keys.Visibility == c.Keys.Order {
		return errors.New("keys.visibility and keys.order must differ")
	}
	if c.Server.BasePath != "" && !strings.HasPrefix(c.Server.BasePath, "/") {
		return fmt.Errorf("server.base_path %q must start with /", c.Server.BasePath)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses the configured zap level.
func (c *Config) Level() (zapcore.Level, error) {
	if strings.TrimSpace(c.Log.Level) == "" {
		return zapcore.InfoLevel, nil
	}
	level, err := zapcore.ParseLevel(c.Log.Level)
	if err != nil {
		return zapcore.InfoLevel, fmt.Errorf("log.level: %w", err)
	}
	return level, nil
}
