// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package resolve joins the record store into per-context view bundles.
//
// # Description
//
// A context is the entity the desk is focused on: the command center, a
// buyer, a deal, or a property. Resolve produces the joined bundle for
// one context: the record itself plus everything the workspace and
// intelligence rail need to render it (events, insight profile, joined
// buyer/property, comparable listings).
//
// Resolution is a pure function of (snapshot, ref): identical inputs
// produce identical bundles. Bundles are disposable; callers re-resolve
// on every selection change instead of caching.
//
// Dangling references inside a deal do not fail resolution. The joined
// buyer or property is simply nil and label helpers fall back to
// "Unknown buyer" / "Unknown property" so the view stays renderable.
// Only the context's own id being absent yields ok=false.
package resolve

import (
	"sort"

	"github.com/AleutianAI/BrokerOS/services/desk/domain"
	"github.com/AleutianAI/BrokerOS/services/desk/store"
)

// =============================================================================
// Context Types
// =============================================================================

// ContextType discriminates the Resolved union.
type ContextType int

const (
	// ContextCommand is the synthetic command-center context.
	ContextCommand ContextType = iota

	// ContextBuyer focuses one buyer.
	ContextBuyer

	// ContextDeal focuses one deal.
	ContextDeal

	// ContextProperty focuses one property.
	ContextProperty
)

// String returns the lowercase tag used in keyword bags and logs.
func (t ContextType) String() string {
	switch t {
	case ContextCommand:
		return "command"
	case ContextBuyer:
		return "buyer"
	case ContextDeal:
		return "deal"
	case ContextProperty:
		return "property"
	default:
		return "unknown"
	}
}

// Ref identifies one selectable context.
type Ref struct {
	Type ContextType
	ID   string
}

// CommandRefID is the id of the synthetic command-center context.
const CommandRefID = "command-center"

// =============================================================================
// Resolved Bundles
// =============================================================================

// Comparable-listing rules: same property type, price within the fixed
// distance, closest first, at most MaxComps results.
const (
	CompPriceThreshold = 120000
	MaxComps           = 3
)

// Resolved is the tagged union of per-type context bundles.
// Exactly one of the four pointers is non-nil, matching Type.
type Resolved struct {
	Type     ContextType
	Command  *CommandContext
	Buyer    *BuyerContext
	Deal     *DealContext
	Property *PropertyContext
}

// CommandContext aggregates across the whole store.
type CommandContext struct {
	BuyerCount    int
	DealCount     int
	PropertyCount int

	// RecentEvents is every event in the store, newest first.
	RecentEvents []domain.Event

	// Insights preserves store order; priority lists are first-come,
	// not score-ranked.
	Insights []domain.Insight
}

// BuyerContext is a buyer joined with their insight and activity.
type BuyerContext struct {
	Buyer   domain.Buyer
	Insight *domain.Insight
	Events  []domain.Event
}

// DealContext is a deal joined with its participants and activity.
// Buyer and Property are nil when the deal's reference dangles.
type DealContext struct {
	Deal     domain.Deal
	Buyer    *domain.Buyer
	Property *domain.Property
	Events   []domain.Event
}

// BuyerLabel names the joined buyer, degrading on dangling references.
func (d *DealContext) BuyerLabel() string {
	if d.Buyer == nil {
		return "Unknown buyer"
	}
	return d.Buyer.Name
}

// PropertyLabel names the joined property, degrading on dangling references.
func (d *DealContext) PropertyLabel() string {
	if d.Property == nil {
		return "Unknown property"
	}
	return d.Property.Address
}

// PropertyContext is a property joined with comps and activity.
type PropertyContext struct {
	Property domain.Property
	Comps    []domain.Property
	Events   []domain.Event
}

// =============================================================================
// Resolution
// =============================================================================

// Resolve builds the joined bundle for ref.
//
// # Outputs
//
//   - *Resolved: The bundle, nil when ok is false.
//   - bool: False when ref names a buyer/deal/property id absent from
//     the store. Command contexts always resolve.
func Resolve(snap *store.Snapshot, ix *store.Index, ref Ref) (*Resolved, bool) {
	switch ref.Type {
	case ContextCommand:
		return &Resolved{Type: ContextCommand, Command: resolveCommand(snap)}, true

	case ContextBuyer:
		buyer, ok := ix.Buyer(ref.ID)
		if !ok {
			return nil, false
		}
		bundle := &BuyerContext{
			Buyer:  buyer,
			Events: sortEventsDesc(ix.EventsForBuyer(ref.ID)),
		}
		if insight, ok := ix.InsightForBuyer(ref.ID); ok {
			bundle.Insight = &insight
		}
		return &Resolved{Type: ContextBuyer, Buyer: bundle}, true

	case ContextDeal:
		deal, ok := ix.Deal(ref.ID)
		if !ok {
			return nil, false
		}
		bundle := &DealContext{
			Deal:   deal,
			Events: sortEventsDesc(ix.EventsForDeal(ref.ID)),
		}
		if buyer, ok := ix.Buyer(deal.BuyerID); ok {
			bundle.Buyer = &buyer
		}
		if prop, ok := ix.Property(deal.PropertyID); ok {
			bundle.Property = &prop
		}
		return &Resolved{Type: ContextDeal, Deal: bundle}, true

	case ContextProperty:
		prop, ok := ix.Property(ref.ID)
		if !ok {
			return nil, false
		}
		bundle := &PropertyContext{
			Property: prop,
			Comps:    Comps(snap.Properties, prop),
			Events:   sortEventsDesc(ix.EventsForProperty(ref.ID)),
		}
		return &Resolved{Type: ContextProperty, Property: bundle}, true

	default:
		return nil, false
	}
}

func resolveCommand(snap *store.Snapshot) *CommandContext {
	return &CommandContext{
		BuyerCount:    len(snap.Buyers),
		DealCount:     len(snap.Deals),
		PropertyCount: len(snap.Properties),
		RecentEvents:  sortEventsDesc(snap.Events),
		Insights:      snap.Insights,
	}
}

// Comps returns comparable listings for subject: other properties of the
// same type priced within CompPriceThreshold, nearest price first, ties
// keeping store order, capped at MaxComps. The subject never appears in
// its own comps.
func Comps(all []domain.Property, subject domain.Property) []domain.Property {
	var comps []domain.Property
	for _, p := range all {
		if p.ID == subject.ID || p.Type != subject.Type {
			continue
		}
		if priceDistance(p.Price, subject.Price) < CompPriceThreshold {
			comps = append(comps, p)
		}
	}
	sort.SliceStable(comps, func(i, j int) bool {
		return priceDistance(comps[i].Price, subject.Price) < priceDistance(comps[j].Price, subject.Price)
	})
	if len(comps) > MaxComps {
		comps = comps[:MaxComps]
	}
	return comps
}

func priceDistance(a, b int64) int64 {
	if a > b {
		return a - b
	}
	return b - a
}

// sortEventsDesc returns a date-descending copy. The sort is stable so
// same-day events keep their insertion order.
func sortEventsDesc(events []domain.Event) []domain.Event {
	sorted := make([]domain.Event, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date > sorted[j].Date
	})
	return sorted
}
