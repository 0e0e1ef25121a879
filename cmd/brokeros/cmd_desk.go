// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/AleutianAI/BrokerOS/pkg/logging"
	"github.com/AleutianAI/BrokerOS/services/desk/store"
	"github.com/AleutianAI/BrokerOS/services/desk/tui"
)

// runDesk launches the interactive desk shell.
func runDesk(cmd *cobra.Command, args []string) error {
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return fmt.Errorf("the desk needs an interactive terminal; try `brokeros data stats` for scripted use")
	}

	// Stderr shares the terminal with the TUI, so logs go file-only.
	logger, err := logging.New(logging.Config{
		Level:   logging.ParseLevel(cfg.LogLevel),
		LogDir:  cfg.LogDir,
		Service: "desk",
		Quiet:   true,
	})
	if err != nil {
		return fmt.Errorf("initialize logging: %w", err)
	}
	defer func() { _ = logger.Close() }()

	snap, err := loadSnapshot()
	if err != nil {
		return err
	}
	for _, finding := range snap.Integrity() {
		logger.Warn("integrity finding", "detail", finding)
	}

	var watcher *store.Watcher
	if cfg.DataDir != "" && cfg.Watch && !noWatch {
		watcher, err = store.WatchDir(cfg.DataDir)
		if err != nil {
			logger.Warn("live reload unavailable", "error", err)
		} else {
			defer func() { _ = watcher.Close() }()
		}
	}

	model := tui.NewModel(tui.Config{
		Snapshot:  snap,
		DataDir:   cfg.DataDir,
		Watcher:   watcher,
		PulseMin:  cfg.PulseMin(),
		PulseMax:  cfg.PulseMax(),
		NotifyTTL: cfg.NotifyTTL(),
		Logger:    logger,
	})

	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("desk shell: %w", err)
	}
	return nil
}

// loadSnapshot honors --data-dir / config, defaulting to the seed.
func loadSnapshot() (*store.Snapshot, error) {
	if cfg.DataDir != "" {
		return store.LoadDir(cfg.DataDir)
	}
	return store.Seed()
}
