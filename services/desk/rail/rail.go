// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package rail groups selectable contexts into navigation sections.
//
// Sections are built once from a snapshot at composition time and stay
// fixed for the life of that snapshot. Item order inside a section
// follows store order.
package rail

import (
	"fmt"

	"github.com/AleutianAI/BrokerOS/services/desk/intel"
	"github.com/AleutianAI/BrokerOS/services/desk/resolve"
	"github.com/AleutianAI/BrokerOS/services/desk/store"
)

// Item is one selectable context in the rail.
type Item struct {
	Ref         resolve.Ref
	Title       string
	Description string
	Status      string
}

// Section is a named, ordered group of items.
type Section struct {
	Title string
	Items []Item
}

// CommandCenterItem is the synthetic context used both as the head of
// the rail and as the fallback selection for an empty dataset.
func CommandCenterItem() Item {
	return Item{
		Ref:         resolve.Ref{Type: resolve.ContextCommand, ID: resolve.CommandRefID},
		Title:       "Command Center",
		Description: "Live signal routing for active revenue moments.",
		Status:      "Streaming",
	}
}

// BuildSections derives the navigation sections for snap.
func BuildSections(snap *store.Snapshot) []Section {
	ix := store.NewIndex(snap)

	sections := []Section{
		{Title: "Command", Items: []Item{CommandCenterItem()}},
	}

	buyers := Section{Title: "Buyers"}
	for _, b := range snap.Buyers {
		buyers.Items = append(buyers.Items, Item{
			Ref:         resolve.Ref{Type: resolve.ContextBuyer, ID: b.ID},
			Title:       b.Name,
			Description: b.Notes,
			Status:      intel.TitleCase(b.Status),
		})
	}

	deals := Section{Title: "Deals"}
	for _, d := range snap.Deals {
		buyerName := "Unknown buyer"
		if b, ok := ix.Buyer(d.BuyerID); ok {
			buyerName = b.Name
		}
		address := "Unknown property"
		if p, ok := ix.Property(d.PropertyID); ok {
			address = p.Address
		}
		deals.Items = append(deals.Items, Item{
			Ref:         resolve.Ref{Type: resolve.ContextDeal, ID: d.ID},
			Title:       fmt.Sprintf("%s · %s", buyerName, address),
			Description: fmt.Sprintf("Deal %s", d.ID),
			Status:      intel.TitleCase(d.Stage),
		})
	}

	properties := Section{Title: "Properties"}
	for _, p := range snap.Properties {
		properties.Items = append(properties.Items, Item{
			Ref:         resolve.Ref{Type: resolve.ContextProperty, ID: p.ID},
			Title:       p.Address,
			Description: fmt.Sprintf("%s · %s", p.Neighborhood, intel.FormatCurrency(p.Price)),
			Status:      intel.TitleCase(p.Status),
		})
	}

	if len(buyers.Items) > 0 {
		sections = append(sections, buyers)
	}
	if len(deals.Items) > 0 {
		sections = append(sections, deals)
	}
	if len(properties.Items) > 0 {
		sections = append(sections, properties)
	}
	return sections
}

// Flatten returns every item across sections in display order.
func Flatten(sections []Section) []Item {
	var items []Item
	for _, s := range sections {
		items = append(items, s.Items...)
	}
	return items
}
