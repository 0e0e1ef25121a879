// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package store loads and indexes the desk's record collections.
//
// # Description
//
// A Snapshot is an immutable, fully materialized copy of the five
// record collections. The desk ships with an embedded seed dataset and
// can instead load a directory of JSON files (buyers.json,
// properties.json, deals.json, events.json, insights.json) so that mock
// data can be edited without rebuilding the binary.
//
// Records are validated on load. A snapshot that loads successfully is
// structurally sound; referential integrity between collections is
// checked separately (see Integrity) because dangling references are
// tolerated at runtime and degrade to placeholder views.
//
// # Thread Safety
//
// Snapshots and Indexes are immutable after construction and safe to
// share. Loading is not synchronized; callers swap whole snapshots.
package store

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"

	"github.com/go-playground/validator/v10"

	"github.com/AleutianAI/BrokerOS/services/desk/domain"
)

//go:embed seed/*.json
var seedFS embed.FS

// Snapshot is one immutable view of all desk records.
type Snapshot struct {
	Buyers     []domain.Buyer
	Properties []domain.Property
	Deals      []domain.Deal
	Events     []domain.Event
	Insights   []domain.Insight
}

// Collection file names expected inside a data directory.
const (
	buyersFile     = "buyers.json"
	propertiesFile = "properties.json"
	dealsFile      = "deals.json"
	eventsFile     = "events.json"
	insightsFile   = "insights.json"
)

var validate = validator.New()

// Seed loads the dataset embedded in the binary.
func Seed() (*Snapshot, error) {
	sub, err := fs.Sub(seedFS, "seed")
	if err != nil {
		return nil, fmt.Errorf("seed data unavailable: %w", err)
	}
	return Load(sub)
}

// LoadDir loads a snapshot from a directory on disk.
func LoadDir(dir string) (*Snapshot, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("data directory %s: %w", dir, err)
	}
	return Load(os.DirFS(dir))
}

// Load reads all five collection files from fsys.
//
// # Outputs
//
//   - *Snapshot: The parsed, validated collections.
//   - error: Non-nil if any file is missing, malformed, or contains a
//     record that fails validation. Partial snapshots are never returned.
func Load(fsys fs.FS) (*Snapshot, error) {
	snap := &Snapshot{}
	if err := loadCollection(fsys, buyersFile, &snap.Buyers); err != nil {
		return nil, err
	}
	if err := loadCollection(fsys, propertiesFile, &snap.Properties); err != nil {
		return nil, err
	}
	if err := loadCollection(fsys, dealsFile, &snap.Deals); err != nil {
		return nil, err
	}
	if err := loadCollection(fsys, eventsFile, &snap.Events); err != nil {
		return nil, err
	}
	if err := loadCollection(fsys, insightsFile, &snap.Insights); err != nil {
		return nil, err
	}
	return snap, nil
}

func loadCollection[T any](fsys fs.FS, name string, out *[]T) error {
	raw, err := fs.ReadFile(fsys, name)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	for i := range *out {
		if err := validate.Struct((*out)[i]); err != nil {
			return fmt.Errorf("%s record %d: %w", name, i, err)
		}
	}
	return nil
}
