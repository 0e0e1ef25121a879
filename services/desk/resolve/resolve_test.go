// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package resolve

import (
	"reflect"
	"testing"

	"github.com/AleutianAI/BrokerOS/services/desk/domain"
	"github.com/AleutianAI/BrokerOS/services/desk/store"
)

func seedSnapshot(t *testing.T) (*store.Snapshot, *store.Index) {
	t.Helper()
	snap, err := store.Seed()
	if err != nil {
		t.Fatalf("Seed() error = %v", err)
	}
	return snap, store.NewIndex(snap)
}

// =============================================================================
// Resolution Tests
// =============================================================================

func TestResolve_Command(t *testing.T) {
	snap, ix := seedSnapshot(t)

	res, ok := Resolve(snap, ix, Ref{Type: ContextCommand, ID: CommandRefID})
	if !ok {
		t.Fatal("command context should always resolve")
	}
	cmd := res.Command
	if cmd == nil {
		t.Fatal("Command bundle is nil")
	}
	if cmd.BuyerCount != len(snap.Buyers) ||
		cmd.DealCount != len(snap.Deals) ||
		cmd.PropertyCount != len(snap.Properties) {
		t.Errorf("counts = %d/%d/%d, want %d/%d/%d",
			cmd.BuyerCount, cmd.DealCount, cmd.PropertyCount,
			len(snap.Buyers), len(snap.Deals), len(snap.Properties))
	}
	if len(cmd.RecentEvents) != len(snap.Events) {
		t.Errorf("RecentEvents = %d events, want all %d", len(cmd.RecentEvents), len(snap.Events))
	}
	if cmd.RecentEvents[0].ID != "event-012" {
		t.Errorf("newest event = %s, want event-012", cmd.RecentEvents[0].ID)
	}
}

func TestResolve_CommandOnEmptyStore(t *testing.T) {
	snap := &store.Snapshot{}
	ix := store.NewIndex(snap)

	res, ok := Resolve(snap, ix, Ref{Type: ContextCommand, ID: CommandRefID})
	if !ok {
		t.Fatal("command context should resolve against an empty store")
	}
	if res.Command.BuyerCount != 0 || len(res.Command.RecentEvents) != 0 {
		t.Error("empty store should produce zero counts and no events")
	}
}

func TestResolve_Buyer(t *testing.T) {
	snap, ix := seedSnapshot(t)

	res, ok := Resolve(snap, ix, Ref{Type: ContextBuyer, ID: "buyer-ramirez"})
	if !ok {
		t.Fatal("buyer-ramirez should resolve")
	}
	b := res.Buyer
	if b.Buyer.Name != "Elena Ramirez" {
		t.Errorf("buyer name = %s", b.Buyer.Name)
	}
	if b.Insight == nil || b.Insight.FitScore != 91 {
		t.Error("expected joined insight with fit score 91")
	}
	if len(b.Events) != 4 {
		t.Fatalf("buyer events = %d, want 4", len(b.Events))
	}
	// Newest first.
	if b.Events[0].ID != "event-004" || b.Events[len(b.Events)-1].ID != "event-001" {
		t.Errorf("events not date-descending: first=%s last=%s", b.Events[0].ID, b.Events[len(b.Events)-1].ID)
	}
}

func TestResolve_BuyerWithoutInsight(t *testing.T) {
	snap, ix := seedSnapshot(t)

	res, ok := Resolve(snap, ix, Ref{Type: ContextBuyer, ID: "buyer-tran"})
	if !ok {
		t.Fatal("buyer-tran should resolve")
	}
	if res.Buyer.Insight != nil {
		t.Error("buyer-tran has no insight profile; bundle should carry nil")
	}
	if len(res.Buyer.Events) != 0 {
		t.Errorf("buyer-tran events = %d, want 0", len(res.Buyer.Events))
	}
}

func TestResolve_Deterministic(t *testing.T) {
	snap, ix := seedSnapshot(t)
	ref := Ref{Type: ContextBuyer, ID: "buyer-ramirez"}

	first, _ := Resolve(snap, ix, ref)
	second, _ := Resolve(snap, ix, ref)
	if !reflect.DeepEqual(first, second) {
		t.Error("resolving the same ref twice should yield identical bundles")
	}
}

func TestResolve_Deal(t *testing.T) {
	snap, ix := seedSnapshot(t)

	res, ok := Resolve(snap, ix, Ref{Type: ContextDeal, ID: "deal-ramirez-laurel"})
	if !ok {
		t.Fatal("deal-ramirez-laurel should resolve")
	}
	d := res.Deal
	if d.BuyerLabel() != "Elena Ramirez" {
		t.Errorf("BuyerLabel() = %s", d.BuyerLabel())
	}
	if d.PropertyLabel() != "18 Laurel Street" {
		t.Errorf("PropertyLabel() = %s", d.PropertyLabel())
	}
	if len(d.Events) != 3 || d.Events[0].ID != "event-004" {
		t.Errorf("deal events wrong: %v", d.Events)
	}
}

func TestResolve_DealWithDanglingReferences(t *testing.T) {
	snap, _ := seedSnapshot(t)
	mutated := *snap
	mutated.Deals = append([]domain.Deal{}, snap.Deals...)
	mutated.Deals[0].BuyerID = "buyer-gone"
	mutated.Deals[0].PropertyID = "prop-gone"
	ix := store.NewIndex(&mutated)

	res, ok := Resolve(&mutated, ix, Ref{Type: ContextDeal, ID: mutated.Deals[0].ID})
	if !ok {
		t.Fatal("a deal with dangling references should still resolve")
	}
	if res.Deal.Buyer != nil || res.Deal.Property != nil {
		t.Error("dangling references should join as nil")
	}
	if res.Deal.BuyerLabel() != "Unknown buyer" {
		t.Errorf("BuyerLabel() = %s, want Unknown buyer", res.Deal.BuyerLabel())
	}
	if res.Deal.PropertyLabel() != "Unknown property" {
		t.Errorf("PropertyLabel() = %s, want Unknown property", res.Deal.PropertyLabel())
	}
}

func TestResolve_Property(t *testing.T) {
	snap, ix := seedSnapshot(t)

	res, ok := Resolve(snap, ix, Ref{Type: ContextProperty, ID: "prop-laurel-18"})
	if !ok {
		t.Fatal("prop-laurel-18 should resolve")
	}
	p := res.Property
	if len(p.Comps) != 1 || p.Comps[0].ID != "prop-castro-940" {
		t.Errorf("comps = %v, want only prop-castro-940", compIDs(p.Comps))
	}
}

func TestResolve_NotFound(t *testing.T) {
	snap, ix := seedSnapshot(t)

	refs := []Ref{
		{Type: ContextBuyer, ID: "buyer-gone"},
		{Type: ContextDeal, ID: "deal-gone"},
		{Type: ContextProperty, ID: "prop-gone"},
	}
	for _, ref := range refs {
		if res, ok := Resolve(snap, ix, ref); ok || res != nil {
			t.Errorf("Resolve(%v) should report not found", ref)
		}
	}
}

// =============================================================================
// Comps Tests
// =============================================================================

func compIDs(props []domain.Property) []string {
	ids := make([]string, len(props))
	for i, p := range props {
		ids[i] = p.ID
	}
	return ids
}

func compFixture() []domain.Property {
	return []domain.Property{
		{ID: "subject", Type: "condo", Price: 1000000},
		{ID: "near-low", Type: "condo", Price: 950000},    // distance 50k
		{ID: "near-high", Type: "condo", Price: 1040000},  // distance 40k
		{ID: "edge", Type: "condo", Price: 1120000},       // distance exactly 120k
		{ID: "far", Type: "condo", Price: 1500000},        // distance 500k
		{ID: "wrong-type", Type: "loft", Price: 1010000},  // distance 10k, wrong type
		{ID: "tie-a", Type: "condo", Price: 930000},       // distance 70k
		{ID: "tie-b", Type: "condo", Price: 1070000},      // distance 70k
	}
}

func TestComps_Rules(t *testing.T) {
	all := compFixture()
	subject := all[0]

	got := compIDs(Comps(all, subject))
	// Nearest first; the 70k tie keeps store order; capped at three.
	want := []string{"near-high", "near-low", "tie-a"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Comps() = %v, want %v", got, want)
	}
}

func TestComps_ThresholdIsExclusive(t *testing.T) {
	all := []domain.Property{
		{ID: "subject", Type: "condo", Price: 1000000},
		{ID: "edge", Type: "condo", Price: 1000000 + CompPriceThreshold},
	}
	if got := Comps(all, all[0]); len(got) != 0 {
		t.Errorf("a distance of exactly %d should be excluded, got %v", CompPriceThreshold, compIDs(got))
	}
}

func TestComps_NeverIncludesSubject(t *testing.T) {
	all := compFixture()
	for _, c := range Comps(all, all[0]) {
		if c.ID == "subject" {
			t.Fatal("subject appeared in its own comps")
		}
	}
}

func TestComps_TieKeepsStoreOrder(t *testing.T) {
	all := []domain.Property{
		{ID: "subject", Type: "condo", Price: 1000000},
		{ID: "tie-a", Type: "condo", Price: 930000},
		{ID: "tie-b", Type: "condo", Price: 1070000},
	}
	got := compIDs(Comps(all, all[0]))
	want := []string{"tie-a", "tie-b"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("equidistant comps = %v, want store order %v", got, want)
	}
}

// =============================================================================
// Event Ordering Tests
// =============================================================================

func TestSortEventsDesc_StableAndNonMutating(t *testing.T) {
	original := []domain.Event{
		{ID: "a", Date: "2024-10-01"},
		{ID: "b", Date: "2024-10-05"},
		{ID: "c", Date: "2024-10-05"},
		{ID: "d", Date: "2024-09-20"},
	}
	input := append([]domain.Event{}, original...)

	sorted := sortEventsDesc(input)
	want := []string{"b", "c", "a", "d"}
	for i, id := range want {
		if sorted[i].ID != id {
			t.Errorf("sorted[%d] = %s, want %s", i, sorted[i].ID, id)
		}
	}
	if !reflect.DeepEqual(input, original) {
		t.Error("sortEventsDesc mutated its input")
	}
}
