package fileutils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-ini/ini"
)

// Config holds the shared tool configuration, loaded from an ini file.
// Every value has a default, so the tools work without any config file
// present; a default file is written on first load so the user has
// something to edit.
type Config struct {
	configPath string
	ini        *ini.File
}

// DefaultConfigPath returns the standard config file location under the
// user configuration directory.
func DefaultConfigPath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate user config directory: %w", err)
	}
	return filepath.Join(base, "fileutils", "config"), nil
}

// LoadConfig loads the configuration from path, or from the default
// location when path is empty. A missing file is created with defaults.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		var err error
		path, err = DefaultConfigPath()
		if err != nil {
			return nil, err
		}
	}

	cfg := &Config{configPath: path}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg.ini = ini.Empty()
		if err := cfg.setDefaults(); err != nil {
			return nil, fmt.Errorf("failed to set default config: %w", err)
		}
		if err := cfg.Save(); err != nil {
			return nil, fmt.Errorf("failed to save default config: %w", err)
		}
		return cfg, nil
	}

	iniFile, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}
	cfg.ini = iniFile
	return cfg, nil
}

// setDefaults populates every section with its default values.
func (c *Config) setDefaults() error {
	defaults := []struct {
		section, key, value string
	}{
		{"filehash", "default", DefaultAlgorithm},
		{"performance", "hash_workers", "4"},
		{"performance", "hash_buffer", "64K"},
		{"symlink", "follow", "false"},
		{"walk", "dotfiles", "false"},
		{"walk", "excludes", ""},
		{"output", "format", "human"},
	}

	for _, d := range defaults {
		section, err := c.ini.NewSection(d.section)
		if err != nil {
			return fmt.Errorf("failed to create %s section: %w", d.section, err)
		}
		if _, err := section.NewKey(d.key, d.value); err != nil {
			return fmt.Errorf("failed to set %s.%s: %w", d.section, d.key, err)
		}
	}
	return nil
}

// Save writes the configuration back to its file, creating the parent
// directory if needed.
func (c *Config) Save() error {
	if err := os.MkdirAll(filepath.Dir(c.configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := c.ini.SaveTo(c.configPath); err != nil {
		return fmt.Errorf("failed to save config file: %w", err)
	}
	return nil
}

// Algorithm returns the configured default hash algorithm.
func (c *Config) Algorithm() string {
	value := c.ini.Section("filehash").Key("default").String()
	if value == "" {
		return DefaultAlgorithm
	}
	return value
}

// HashWorkers returns the configured hash worker pool size.
func (c *Config) HashWorkers() int {
	workers := c.ini.Section("performance").Key("hash_workers").MustInt(DefaultHashWorkers)
	if workers <= 0 {
		return DefaultHashWorkers
	}
	return workers
}

// ChunkSize returns the configured hash buffer size in bytes.
func (c *Config) ChunkSize() (int, error) {
	value := c.ini.Section("performance").Key("hash_buffer").String()
	if value == "" {
		return DefaultChunkSize, nil
	}
	size, err := ParseHumanSize(value)
	if err != nil {
		return 0, &ConfigError{Reason: "invalid performance.hash_buffer", Err: err}
	}
	return size, nil
}

// WalkDefaults returns a WalkConfig seeded from the config file: the
// standard defaults overlaid with the [walk] and [symlink] sections.
func (c *Config) WalkDefaults() WalkConfig {
	cfg := DefaultWalkConfig()
	cfg.Dotfiles = c.ini.Section("walk").Key("dotfiles").MustBool(false)
	cfg.FollowSymlinks = c.ini.Section("symlink").Key("follow").MustBool(false)

	if excludes := c.ini.Section("walk").Key("excludes").String(); excludes != "" {
		for _, name := range strings.Split(excludes, ",") {
			if name = strings.TrimSpace(name); name != "" {
				cfg.Excludes = append(cfg.Excludes, name)
			}
		}
	}
	return cfg
}

// OutputFormat returns the configured output format: "human" or "json".
func (c *Config) OutputFormat() string {
	value := c.ini.Section("output").Key("format").String()
	if value == "" {
		return "human"
	}
	return value
}
