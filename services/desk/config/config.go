// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package config loads the desk's YAML configuration.
//
// A missing config file is not an error; the defaults describe a fully
// working desk running against the embedded seed data.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the config location when --config is not given.
const DefaultPath = "~/.brokeros/config.yaml"

// Config controls data loading, timers, and logging.
type Config struct {
	// DataDir points at a directory of collection JSON files. Empty
	// means the embedded seed dataset.
	DataDir string `yaml:"data_dir"`

	// Watch reloads DataDir on file changes. Ignored for seed data.
	Watch bool `yaml:"watch"`

	// LogDir receives the JSON log file. Empty disables file logging.
	LogDir string `yaml:"log_dir"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level" validate:"omitempty,oneof=debug info warn error"`

	// PulseMinMs/PulseMaxMs bound the randomized deal-refresh interval.
	PulseMinMs int `yaml:"pulse_min_ms" validate:"gt=0"`
	PulseMaxMs int `yaml:"pulse_max_ms" validate:"gtefield=PulseMinMs"`

	// NotifyTTLMs is how long a toast stays visible.
	NotifyTTLMs int `yaml:"notify_ttl_ms" validate:"gt=0"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Watch:       true,
		LogDir:      "~/.brokeros/logs",
		LogLevel:    "info",
		PulseMinMs:  30000,
		PulseMaxMs:  60000,
		NotifyTTLMs: 4200,
	}
}

// Load reads path, falling back to Default when the file is absent.
func Load(path string) (Config, error) {
	cfg := Default()
	expanded := ExpandHome(path)
	raw, err := os.ReadFile(expanded)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", expanded, err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", expanded, err)
	}
	if err := validator.New().Struct(cfg); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", expanded, err)
	}
	return cfg, nil
}

// PulseMin returns the lower pulse interval bound.
func (c Config) PulseMin() time.Duration {
	return time.Duration(c.PulseMinMs) * time.Millisecond
}

// PulseMax returns the upper pulse interval bound.
func (c Config) PulseMax() time.Duration {
	return time.Duration(c.PulseMaxMs) * time.Millisecond
}

// NotifyTTL returns the toast lifetime.
func (c Config) NotifyTTL() time.Duration {
	return time.Duration(c.NotifyTTLMs) * time.Millisecond
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
