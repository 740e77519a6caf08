// (c) Copyright Enthought, Inc. 2013

package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-yaml"
)

// fileConfig holds the watch defaults read from the user's config file.
// Explicit command-line flags always win over file values.
type fileConfig struct {
	Slack    *float64 `yaml:"slack"`
	Interval string   `yaml:"interval"`
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	return filepath.Join(home, ".config", "erinyes.yaml")
}

// loadConfig reads the config file at path. A missing file is not an
// error; unknown keys are.
func loadConfig(path string) (fileConfig, error) {
	var cfg fileConfig

	if path == "" {
		return cfg, nil
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, err
	}
	defer f.Close()

	if err := yaml.NewDecoder(f, yaml.Strict()).Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("error loading config file %q: %w", path, err)
	}

	if cfg.Slack != nil && *cfg.Slack < 0 {
		return cfg, fmt.Errorf("config file %q: slack must not be negative", path)
	}

	if cfg.Interval != "" {
		if _, err := time.ParseDuration(cfg.Interval); err != nil {
			return cfg, fmt.Errorf("config file %q: invalid interval: %w", path, err)
		}
	}

	return cfg, nil
}

func (cfg fileConfig) interval() (time.Duration, bool) {
	if cfg.Interval == "" {
		return 0, false
	}

	d, err := time.ParseDuration(cfg.Interval)
	if err != nil {
		return 0, false
	}

	return d, true
}
