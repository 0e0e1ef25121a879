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
	"github.com/spf13/cobra"

	"github.com/AleutianAI/BrokerOS/services/desk/config"
)

// --- Global Command Variables ---
var (
	configPath string
	dataDir    string
	noWatch    bool

	rootCmd = &cobra.Command{
		Use:   "brokeros",
		Short: "A terminal desk for real-estate brokerage work",
		Long: `BrokerOS is a keyboard-driven desk for brokerage teams: pick a
buyer, deal, or property context and the workspace and intelligence
rail recompose around it.`,
		RunE: runDesk, // Defined in cmd_desk.go
	}

	// --- Data Utilities ---
	dataCmd = &cobra.Command{
		Use:   "data",
		Short: "Inspect the desk's record collections",
	}
	dataValidateCmd = &cobra.Command{
		Use:   "validate",
		Short: "Check the dataset for dangling references and field gaps",
		RunE:  runDataValidate, // Defined in cmd_data.go
	}
	dataStatsCmd = &cobra.Command{
		Use:   "stats",
		Short: "Print collection counts for the dataset",
		RunE:  runDataStats, // Defined in cmd_data.go
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath, "Path to the config file")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "Load collections from this directory instead of the embedded seed")
	rootCmd.Flags().BoolVar(&noWatch, "no-watch", false, "Disable live reload of the data directory")

	dataCmd.AddCommand(dataValidateCmd)
	dataCmd.AddCommand(dataStatsCmd)
	rootCmd.AddCommand(dataCmd)
}
