// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
data_dir: /tmp/desk-data
watch: false
log_level: debug
pulse_min_ms: 1000
pulse_max_ms: 2000
notify_ttl_ms: 500
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/desk-data", cfg.DataDir)
	assert.False(t, cfg.Watch)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, time.Second, cfg.PulseMin())
	assert.Equal(t, 2*time.Second, cfg.PulseMax())
	assert.Equal(t, 500*time.Millisecond, cfg.NotifyTTL())
}

func TestLoad_PartialFileKeepsRemainingDefaults(t *testing.T) {
	path := writeConfig(t, "log_level: warn\n")
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, Default().PulseMinMs, cfg.PulseMinMs)
	assert.Equal(t, Default().NotifyTTLMs, cfg.NotifyTTLMs)
}

func TestLoad_RejectsBadLevel(t *testing.T) {
	path := writeConfig(t, "log_level: loud\n")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_RejectsInvertedPulseBounds(t *testing.T) {
	path := writeConfig(t, "pulse_min_ms: 5000\npulse_max_ms: 1000\n")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_RejectsMalformedYAML(t *testing.T) {
	path := writeConfig(t, "pulse_min_ms: [not a number\n")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestDefault_IsValid(t *testing.T) {
	// The defaults must pass their own validation rules.
	path := writeConfig(t, "")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory in test environment")
	}
	assert.Equal(t, filepath.Join(home, ".brokeros/config.yaml"), ExpandHome("~/.brokeros/config.yaml"))
	assert.Equal(t, "/absolute/path", ExpandHome("/absolute/path"))
}
