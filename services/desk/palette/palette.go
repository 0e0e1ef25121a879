// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package palette implements the command palette: a flattened, searchable
// index of every selectable context plus its keyboard navigation state.
//
// # Description
//
// Filtering is a case-insensitive substring match over title,
// description, and the keyword bag. An empty or whitespace-only query
// returns the full index unfiltered; a non-empty query always returns a
// subset of that list in the same relative order.
//
// Navigation wraps: ArrowDown from the last filtered item returns to the
// first, ArrowUp from the first jumps to the last. Opening the palette
// resets the query and highlight.
package palette

import (
	"strings"

	"github.com/AleutianAI/BrokerOS/services/desk/rail"
	"github.com/AleutianAI/BrokerOS/services/desk/resolve"
)

// Item is one searchable palette entry.
type Item struct {
	Ref         resolve.Ref
	Title       string
	Description string
	Keywords    []string
}

// BuildIndex flattens rail items into palette entries.
//
// The display description prefers the item's status and falls back to
// its long description. The keyword bag carries the context type tag,
// status, and description so that queries like "buyer" or "negotiation"
// match even when the visible text does not contain them.
func BuildIndex(items []rail.Item) []Item {
	out := make([]Item, 0, len(items))
	for _, it := range items {
		desc := it.Status
		if desc == "" {
			desc = it.Description
		}
		out = append(out, Item{
			Ref:         it.Ref,
			Title:       it.Title,
			Description: desc,
			Keywords:    []string{it.Ref.Type.String(), it.Status, it.Description},
		})
	}
	return out
}

// Filter returns the items matching query, preserving order.
func Filter(query string, items []Item) []Item {
	normalized := strings.ToLower(strings.TrimSpace(query))
	if normalized == "" {
		return items
	}
	var matched []Item
	for _, it := range items {
		haystack := strings.ToLower(strings.Join(append([]string{it.Title, it.Description}, it.Keywords...), " "))
		if strings.Contains(haystack, normalized) {
			matched = append(matched, it)
		}
	}
	return matched
}

// State is the palette's open/query/highlight state machine.
//
// All transitions are synchronous; the zero value is a closed palette
// over an empty index.
type State struct {
	items     []Item
	open      bool
	query     string
	highlight int
}

// NewState builds palette state over a fixed index.
func NewState(items []Item) *State {
	return &State{items: items}
}

// Open opens the palette, resetting query and highlight.
func (s *State) Open() {
	s.open = true
	s.query = ""
	s.highlight = 0
}

// Close closes the palette without touching the active context.
func (s *State) Close() {
	s.open = false
}

// IsOpen reports whether the palette overlay is showing.
func (s *State) IsOpen() bool {
	return s.open
}

// Query returns the current query text.
func (s *State) Query() string {
	return s.query
}

// SetQuery replaces the query and resets the highlight to the top.
func (s *State) SetQuery(q string) {
	s.query = q
	s.highlight = 0
}

// Filtered returns the items matching the current query.
func (s *State) Filtered() []Item {
	return Filter(s.query, s.items)
}

// Highlight returns the highlighted index within Filtered.
func (s *State) Highlight() int {
	return s.highlight
}

// SetHighlight moves the highlight directly (mouse-over equivalent).
// Out-of-range values are ignored.
func (s *State) SetHighlight(i int) {
	if i >= 0 && i < len(s.Filtered()) {
		s.highlight = i
	}
}

// MoveDown advances the highlight, wrapping past the end.
func (s *State) MoveDown() {
	n := len(s.Filtered())
	if n == 0 {
		return
	}
	s.highlight = (s.highlight + 1) % n
}

// MoveUp retreats the highlight, wrapping past the start.
func (s *State) MoveUp() {
	n := len(s.Filtered())
	if n == 0 {
		return
	}
	if s.highlight == 0 {
		s.highlight = n - 1
		return
	}
	s.highlight--
}

// Selected returns the highlighted item. ok is false when the filtered
// list is empty, in which case Enter is a no-op.
func (s *State) Selected() (Item, bool) {
	filtered := s.Filtered()
	if len(filtered) == 0 || s.highlight >= len(filtered) {
		return Item{}, false
	}
	return filtered[s.highlight], true
}
