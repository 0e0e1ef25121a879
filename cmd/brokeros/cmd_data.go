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

	"github.com/spf13/cobra"
)

// runDataValidate loads the dataset and reports referential gaps.
// Findings are warnings, not errors; the desk tolerates all of them.
func runDataValidate(cmd *cobra.Command, args []string) error {
	snap, err := loadSnapshot()
	if err != nil {
		return err
	}
	findings := snap.Integrity()
	if len(findings) == 0 {
		fmt.Println("OK: no integrity findings.")
		return nil
	}
	fmt.Printf("%d finding(s):\n", len(findings))
	for _, f := range findings {
		fmt.Printf("  - %s\n", f)
	}
	return nil
}

func runDataStats(cmd *cobra.Command, args []string) error {
	snap, err := loadSnapshot()
	if err != nil {
		return err
	}
	fmt.Printf("buyers:     %d\n", len(snap.Buyers))
	fmt.Printf("properties: %d\n", len(snap.Properties))
	fmt.Printf("deals:      %d\n", len(snap.Deals))
	fmt.Printf("events:     %d\n", len(snap.Events))
	fmt.Printf("insights:   %d\n", len(snap.Insights))
	return nil
}
