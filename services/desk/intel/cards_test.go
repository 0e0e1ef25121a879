// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package intel

import (
	"strings"
	"testing"

	"github.com/AleutianAI/BrokerOS/services/desk/domain"
	"github.com/AleutianAI/BrokerOS/services/desk/resolve"
	"github.com/AleutianAI/BrokerOS/services/desk/store"
)

func seedResolved(t *testing.T, ref resolve.Ref) (*store.Index, *resolve.Resolved) {
	t.Helper()
	snap, err := store.Seed()
	if err != nil {
		t.Fatalf("Seed() error = %v", err)
	}
	ix := store.NewIndex(snap)
	res, ok := resolve.Resolve(snap, ix, ref)
	if !ok {
		t.Fatalf("Resolve(%v) failed", ref)
	}
	return ix, res
}

func cardByTitle(t *testing.T, r Result, title string) Card {
	t.Helper()
	for _, c := range r.Cards {
		if c.Title == title {
			return c
		}
	}
	t.Fatalf("no card titled %q in %v", title, r.Cards)
	return Card{}
}

// =============================================================================
// Command Center Cards
// =============================================================================

func TestSynthesize_Command(t *testing.T) {
	ix, res := seedResolved(t, resolve.Ref{Type: resolve.ContextCommand, ID: resolve.CommandRefID})
	r := Synthesize(ix, res)

	if len(r.Metrics) != 3 {
		t.Fatalf("command metrics = %d, want 3", len(r.Metrics))
	}
	if r.Metrics[0].Label != "Active buyers" || r.Metrics[0].Value != "4" {
		t.Errorf("first metric = %+v", r.Metrics[0])
	}

	changed := cardByTitle(t, r, "What Changed")
	lines := changed.Lines()
	if len(lines) != 3 {
		t.Fatalf("What Changed has %d lines, want 3", len(lines))
	}
	// Newest event first: the Oct 15 price change.
	if !strings.Contains(lines[0], "Oct 15") || !strings.Contains(lines[0], "Price Change") {
		t.Errorf("newest line = %q", lines[0])
	}

	todays := cardByTitle(t, r, "Today’s Priorities")
	priorities := todays.Lines()
	if len(priorities) != 3 {
		t.Fatalf("priorities = %d lines, want 3", len(priorities))
	}
	// Store order, not score order: all three come from the first insight.
	if !strings.Contains(priorities[0], "Send 3 off-market opportunities") {
		t.Errorf("priorities[0] = %q", priorities[0])
	}
	if !strings.Contains(priorities[2], "Schedule second showing") {
		t.Errorf("priorities[2] = %q", priorities[2])
	}
}

func TestSynthesize_CommandEmptyStore(t *testing.T) {
	snap := &store.Snapshot{}
	ix := store.NewIndex(snap)
	res, _ := resolve.Resolve(snap, ix, resolve.Ref{Type: resolve.ContextCommand, ID: resolve.CommandRefID})
	r := Synthesize(ix, res)

	if got := cardByTitle(t, r, "What Changed").Description; got != "No new activity logged today." {
		t.Errorf("What Changed = %q", got)
	}
	if got := cardByTitle(t, r, "Today’s Priorities").Description; got != "No priority actions queued." {
		t.Errorf("Today’s Priorities = %q", got)
	}
}

// =============================================================================
// Buyer Cards
// =============================================================================

func TestSynthesize_BuyerWithInsight(t *testing.T) {
	ix, res := seedResolved(t, resolve.Ref{Type: resolve.ContextBuyer, ID: "buyer-ramirez"})
	r := Synthesize(ix, res)

	insights := cardByTitle(t, r, "Insights").Description
	if !strings.Contains(insights, "Fit score: 91") {
		t.Errorf("insights missing fit score: %q", insights)
	}
	// Top property ids resolve to addresses.
	if !strings.Contains(insights, "18 Laurel Street, 940 Castro Street") {
		t.Errorf("insights should list resolved addresses: %q", insights)
	}

	risk := cardByTitle(t, r, "Risk").Description
	if strings.Contains(risk, "Financing pre-approval still pending.") {
		t.Error("preapproved buyer should not flag pending financing")
	}
	// event-004's outcome contains "counter".
	if !strings.Contains(risk, "Recent offer counter indicates negotiation risk.") {
		t.Errorf("risk missing counter flag: %q", risk)
	}

	memory := cardByTitle(t, r, "Memory Timeline")
	if len(memory.Lines()) != 3 {
		t.Errorf("memory timeline = %d lines, want 3", len(memory.Lines()))
	}
}

func TestSynthesize_BuyerQuietAndUnapproved(t *testing.T) {
	ix, res := seedResolved(t, resolve.Ref{Type: resolve.ContextBuyer, ID: "buyer-tran"})
	r := Synthesize(ix, res)

	if got := cardByTitle(t, r, "Insights").Description; got != "No insight profile available yet." {
		t.Errorf("Insights = %q", got)
	}
	risk := cardByTitle(t, r, "Risk").Description
	if risk != "• Financing pre-approval still pending." {
		t.Errorf("Risk = %q, want only the financing flag", risk)
	}
	if got := cardByTitle(t, r, "Memory Timeline").Description; got != "No recent buyer activity logged." {
		t.Errorf("Memory Timeline = %q", got)
	}
}

func TestSynthesize_BuyerNoRiskFlags(t *testing.T) {
	r := buyerResult(nil, &resolve.BuyerContext{
		Buyer: domain.Buyer{ID: "b1", Name: "Quiet Buyer", Preapproved: true},
	})
	if got := cardByTitle(t, r, "Risk").Description; got != "No active risk flags for this buyer." {
		t.Errorf("Risk = %q", got)
	}
}

func TestSynthesize_BuyerUnresolvableTopProperties(t *testing.T) {
	ins := domain.Insight{
		ID:            "i1",
		BuyerID:       "b1",
		FitScore:      70,
		TopProperties: []string{"prop-ghost-1", "prop-ghost-2", "prop-ghost-3"},
		Rationale:     "test",
	}
	r := buyerResult(nil, &resolve.BuyerContext{
		Buyer:   domain.Buyer{ID: "b1", Name: "Test", Preapproved: true},
		Insight: &ins,
	})
	insights := cardByTitle(t, r, "Insights").Description
	// Unresolvable ids render verbatim, capped at two.
	if !strings.Contains(insights, "prop-ghost-1, prop-ghost-2") {
		t.Errorf("insights = %q", insights)
	}
	if strings.Contains(insights, "prop-ghost-3") {
		t.Errorf("top properties should cap at two: %q", insights)
	}
}

// =============================================================================
// Deal Cards
// =============================================================================

func TestSynthesize_DealRiskSignals(t *testing.T) {
	ix, res := seedResolved(t, resolve.Ref{Type: resolve.ContextDeal, ID: "deal-ramirez-laurel"})
	r := Synthesize(ix, res)

	risk := cardByTitle(t, r, "Risk Signals").Description
	if !strings.Contains(risk, "Contingencies open: inspection, appraisal") {
		t.Errorf("risk missing contingencies: %q", risk)
	}
	if !strings.Contains(risk, "Negotiation stage increases counter risk.") {
		t.Errorf("risk missing negotiation flag: %q", risk)
	}
	if strings.Contains(risk, "FHA") {
		t.Error("conventional deal should not flag FHA")
	}

	interventions := cardByTitle(t, r, "Interventions").Description
	if !strings.Contains(interventions, "Review latest event: Offer Response (seller countered at 2,320,000).") {
		t.Errorf("interventions missing latest event: %q", interventions)
	}
	if !strings.Contains(interventions, "Align pricing strategy at $2,280,000 vs list $2,350,000.") {
		t.Errorf("interventions missing pricing line: %q", interventions)
	}
	if !strings.Contains(interventions, "Coordinate with Priya Shah on close target 2024-11-22.") {
		t.Errorf("interventions missing close line: %q", interventions)
	}
}

func TestSynthesize_DealFHA(t *testing.T) {
	ix, res := seedResolved(t, resolve.Ref{Type: resolve.ContextDeal, ID: "deal-okafor-hudson"})
	r := Synthesize(ix, res)

	risk := cardByTitle(t, r, "Risk Signals").Description
	if !strings.Contains(risk, "Financing type FHA may extend appraisal timelines.") {
		t.Errorf("risk missing FHA flag: %q", risk)
	}
	if strings.Contains(risk, "Negotiation stage") {
		t.Error("under_contract deal should not flag negotiation")
	}
}

func TestSynthesize_DealBareOffer(t *testing.T) {
	offer := int64(600000)
	r := dealResult(&resolve.DealContext{
		Deal: domain.Deal{
			ID: "d1", BuyerID: "b1", PropertyID: "p1",
			Stage: "offer", ListPrice: 650000, OfferPrice: &offer,
			Financing: "conventional", Agent: "Alex Kim",
		},
	})

	risk := cardByTitle(t, r, "Risk Signals").Description
	if risk != "• No contingencies currently flagged." {
		t.Errorf("Risk Signals = %q, want only the no-contingency line", risk)
	}

	interventions := cardByTitle(t, r, "Interventions").Lines()
	if len(interventions) != 3 {
		t.Fatalf("interventions = %d lines, want 3", len(interventions))
	}
	if !strings.Contains(interventions[0], "Log next milestone update.") {
		t.Errorf("interventions[0] = %q", interventions[0])
	}
	if !strings.Contains(interventions[1], "Align pricing strategy at $600,000 vs list $650,000.") {
		t.Errorf("interventions[1] = %q", interventions[1])
	}
	if !strings.Contains(interventions[2], "close target TBD.") {
		t.Errorf("interventions[2] = %q", interventions[2])
	}
}

func TestSynthesize_DealNoOffer(t *testing.T) {
	r := dealResult(&resolve.DealContext{
		Deal: domain.Deal{ID: "d1", BuyerID: "b1", PropertyID: "p1", ListPrice: 500000, Agent: "Alex Kim"},
	})
	interventions := cardByTitle(t, r, "Interventions").Description
	if !strings.Contains(interventions, "Confirm offer strategy with buyer.") {
		t.Errorf("interventions = %q", interventions)
	}
	if got := r.Metrics[1]; got.Label != "Offer price" || got.Value != "—" {
		t.Errorf("offer metric = %+v", got)
	}
}

// =============================================================================
// Property Cards
// =============================================================================

func TestSynthesize_PropertyComps(t *testing.T) {
	ix, res := seedResolved(t, resolve.Ref{Type: resolve.ContextProperty, ID: "prop-laurel-18"})
	r := Synthesize(ix, res)

	comps := cardByTitle(t, r, "Comps").Description
	if !strings.Contains(comps, "940 Castro Street · $2,275,000 · 3 bd/2 ba") {
		t.Errorf("comps = %q", comps)
	}

	notes := cardByTitle(t, r, "Risk Notes").Description
	if !strings.Contains(notes, "Extended time on market (32 days).") {
		t.Errorf("notes missing stale flag: %q", notes)
	}
	if !strings.Contains(notes, "Listing is active.") {
		t.Errorf("notes missing active line: %q", notes)
	}
}

func TestSynthesize_PropertyNoComps(t *testing.T) {
	r := propertyResult(&resolve.PropertyContext{
		Property: domain.Property{ID: "p1", Address: "1 Lonely Lane", Type: "loft", Price: 400000, Status: "available"},
	})
	if got := cardByTitle(t, r, "Comps").Description; got != "No close comps in this segment." {
		t.Errorf("Comps = %q", got)
	}
}

func TestSynthesize_PropertyPendingStatus(t *testing.T) {
	ix, res := seedResolved(t, resolve.Ref{Type: resolve.ContextProperty, ID: "prop-irving-1242"})
	r := Synthesize(ix, res)

	notes := cardByTitle(t, r, "Risk Notes").Description
	if !strings.Contains(notes, "Status: Pending.") {
		t.Errorf("notes = %q", notes)
	}
	if !strings.Contains(notes, "Extended time on market (26 days).") {
		t.Errorf("notes = %q", notes)
	}
	// The Oct 13 backup showing is the latest property event.
	if !strings.Contains(notes, "Latest showing: Backup option if Shrader negotiation stalls.") {
		t.Errorf("notes = %q", notes)
	}
}

// =============================================================================
// Placeholder Behavior
// =============================================================================

func TestSynthesize_NeverPanicsOnNil(t *testing.T) {
	cases := []*resolve.Resolved{
		nil,
		{Type: resolve.ContextCommand},
		{Type: resolve.ContextBuyer},
		{Type: resolve.ContextDeal},
		{Type: resolve.ContextProperty},
		{Type: resolve.ContextType(42)},
	}
	for _, res := range cases {
		r := Synthesize(nil, res)
		if len(r.Cards) == 0 {
			t.Errorf("Synthesize(%v) produced no cards", res)
		}
	}
}

func TestSynthesize_MissingRecordPlaceholders(t *testing.T) {
	r := Synthesize(nil, &resolve.Resolved{Type: resolve.ContextDeal})
	if got := cardByTitle(t, r, "Risk Signals").Description; got != "No deal record found for this context." {
		t.Errorf("deal placeholder = %q", got)
	}
	if got := cardByTitle(t, r, "Interventions").Description; got != "Confirm deal details to surface interventions." {
		t.Errorf("deal interventions placeholder = %q", got)
	}

	r = Synthesize(nil, &resolve.Resolved{Type: resolve.ContextProperty})
	if got := cardByTitle(t, r, "Comps").Description; got != "No property record found for this context." {
		t.Errorf("property placeholder = %q", got)
	}
	if got := cardByTitle(t, r, "Risk Notes").Description; got != "Confirm property details to generate risk notes." {
		t.Errorf("property notes placeholder = %q", got)
	}
}
