// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package store

import "github.com/AleutianAI/BrokerOS/services/desk/domain"

// Index provides O(1) joins over one snapshot.
//
// # Description
//
// Construction walks every collection once. The snapshot is immutable
// for the session, so the index is built once per snapshot and never
// invalidated. Event lists preserve the snapshot's insertion order,
// which downstream sorting relies on for stable ties.
//
// Missing keys return the zero record and ok=false; lookups never panic.
type Index struct {
	buyerByID        map[string]domain.Buyer
	propertyByID     map[string]domain.Property
	dealByID         map[string]domain.Deal
	insightByBuyerID map[string]domain.Insight

	eventsByBuyerID    map[string][]domain.Event
	eventsByDealID     map[string][]domain.Event
	eventsByPropertyID map[string][]domain.Event
}

// NewIndex builds the lookup maps for snap.
func NewIndex(snap *Snapshot) *Index {
	ix := &Index{
		buyerByID:          make(map[string]domain.Buyer, len(snap.Buyers)),
		propertyByID:       make(map[string]domain.Property, len(snap.Properties)),
		dealByID:           make(map[string]domain.Deal, len(snap.Deals)),
		insightByBuyerID:   make(map[string]domain.Insight, len(snap.Insights)),
		eventsByBuyerID:    make(map[string][]domain.Event),
		eventsByDealID:     make(map[string][]domain.Event),
		eventsByPropertyID: make(map[string][]domain.Event),
	}
	for _, b := range snap.Buyers {
		ix.buyerByID[b.ID] = b
	}
	for _, p := range snap.Properties {
		ix.propertyByID[p.ID] = p
	}
	for _, d := range snap.Deals {
		ix.dealByID[d.ID] = d
	}
	for _, ins := range snap.Insights {
		ix.insightByBuyerID[ins.BuyerID] = ins
	}
	for _, e := range snap.Events {
		if e.BuyerID != "" {
			ix.eventsByBuyerID[e.BuyerID] = append(ix.eventsByBuyerID[e.BuyerID], e)
		}
		if e.DealID != "" {
			ix.eventsByDealID[e.DealID] = append(ix.eventsByDealID[e.DealID], e)
		}
		if e.PropertyID != "" {
			ix.eventsByPropertyID[e.PropertyID] = append(ix.eventsByPropertyID[e.PropertyID], e)
		}
	}
	return ix
}

// Buyer returns the buyer with the given id.
func (ix *Index) Buyer(id string) (domain.Buyer, bool) {
	b, ok := ix.buyerByID[id]
	return b, ok
}

// Property returns the property with the given id.
func (ix *Index) Property(id string) (domain.Property, bool) {
	p, ok := ix.propertyByID[id]
	return p, ok
}

// Deal returns the deal with the given id.
func (ix *Index) Deal(id string) (domain.Deal, bool) {
	d, ok := ix.dealByID[id]
	return d, ok
}

// InsightForBuyer returns the insight profile for a buyer, if any.
func (ix *Index) InsightForBuyer(buyerID string) (domain.Insight, bool) {
	ins, ok := ix.insightByBuyerID[buyerID]
	return ins, ok
}

// EventsForBuyer returns the buyer's events in insertion order.
// The returned slice is shared; callers must copy before sorting.
func (ix *Index) EventsForBuyer(buyerID string) []domain.Event {
	return ix.eventsByBuyerID[buyerID]
}

// EventsForDeal returns the deal's events in insertion order.
func (ix *Index) EventsForDeal(dealID string) []domain.Event {
	return ix.eventsByDealID[dealID]
}

// EventsForProperty returns the property's events in insertion order.
func (ix *Index) EventsForProperty(propertyID string) []domain.Event {
	return ix.eventsByPropertyID[propertyID]
}
