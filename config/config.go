// Package config loads outliner settings from defaults, an optional YAML
// file and OUTLINER_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Backend kinds.
const (
	BackendFile   = "file"
	BackendBolt   = "bolt"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

type Config struct {
	// Backend selects where the snapshot lives: file, bolt, sqlite or memory.
	Backend string `yaml:"backend"`
	// DataPath is a directory for the file backend and a database file otherwise.
	DataPath string `yaml:"data_path"`
	// Codec is json or cbor.
	Codec     string `yaml:"codec"`
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
	// MetricsAddr enables the /metrics endpoint when set.
	MetricsAddr string `yaml:"metrics_addr"`
	ReadOnly    bool   `yaml:"read_only"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Backend:   BackendFile,
		DataPath:  defaultDataPath(),
		Codec:     "json",
		LogLevel:  "info",
		LogFormat: "console",
	}
}

func defaultDataPath() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return dir + string(os.PathSeparator) + "outliner"
	}
	return ".outliner"
}

// Load reads path (skipped when empty) over the defaults, then applies
// environment overrides and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Backend = envOr("OUTLINER_BACKEND", c.Backend)
	c.DataPath = envOr("OUTLINER_DATA", c.DataPath)
	c.Codec = envOr("OUTLINER_CODEC", c.Codec)
	c.LogLevel = envOr("OUTLINER_LOG_LEVEL", c.LogLevel)
	c.LogFormat = envOr("OUTLINER_LOG_FORMAT", c.LogFormat)
	c.MetricsAddr = envOr("OUTLINER_METRICS_ADDR", c.MetricsAddr)
	c.ReadOnly = parseBoolOr("OUTLINER_READ_ONLY", c.ReadOnly)
}

// Validate reports unknown backend or codec names.
func (c Config) Validate() error {
	var errs []error
	switch c.Backend {
	case BackendFile, BackendBolt, BackendSQLite, BackendMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown backend %q", c.Backend))
	}
	switch c.Codec {
	case "json", "cbor":
	default:
		errs = append(errs, fmt.Errorf("unknown codec %q", c.Codec))
	}
	if c.Backend != BackendMemory && c.DataPath == "" {
		errs = append(errs, errors.New("data_path is required"))
	}
	return errors.Join(errs...)
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func parseBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
