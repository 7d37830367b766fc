// Package config handles configuration loading and defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	appDirName     = ".tudu"
	configFileName = "config.toml"
	dbFileName     = "tudu.db"

	// DefaultLogLevel keeps the CLI quiet unless something is wrong.
	DefaultLogLevel = "warn"
)

// Config holds the runtime settings. Values come from defaults, then
// the user config file, then environment variables (TUDU_DATA_DIR,
// TUDU_LOG_LEVEL), in that order.
type Config struct {
	DataDir  string `toml:"data_dir"`
	LogLevel string `toml:"log_level"`
}

// Load assembles the configuration from all sources.
func Load() (*Config, error) {
	cfg := &Config{LogLevel: DefaultLogLevel}

	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("home: %w", err)
	}
	cfg.DataDir = filepath.Join(home, appDirName)

	path := filepath.Join(home, appDirName, configFileName)
	if err := loadFile(cfg, path); err != nil {
		return nil, fmt.Errorf("loading config file %s: %w", path, err)
	}

	loadFromEnv(cfg)

	cfg.DataDir = expandPath(cfg.DataDir, home)
	return cfg, nil
}

// DBPath is where the bolt database lives.
func (c *Config) DBPath() string {
	return filepath.Join(c.DataDir, dbFileName)
}

// EnsureDataDir creates the data directory, owner-only.
func (c *Config) EnsureDataDir() error {
	if err := os.MkdirAll(c.DataDir, 0o700); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	return nil
}

func loadFile(cfg *Config, path string) error {
	_, err := toml.DecodeFile(path, cfg)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

func loadFromEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("TUDU_DATA_DIR")); v != "" {
		cfg.DataDir = v
	}
	if v := strings.TrimSpace(os.Getenv("TUDU_LOG_LEVEL")); v != "" {
		cfg.LogLevel = v
	}
}

func expandPath(p, home string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		return filepath.Join(home, strings.TrimPrefix(strings.TrimPrefix(p, "~"), "/"))
	}
	return p
}
