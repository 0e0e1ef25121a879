// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package intel synthesizes intelligence cards and metric tiles for a
// resolved context.
//
// # Description
//
// Cards are titled, multi-line summaries (risk signals, insights, comps,
// timeline digests). Line breaks in a card description are significant:
// the rail renders each line as its own paragraph. Card titles are
// stable and used as rendering keys.
//
// Synthesize is total. Missing joins, empty event lists, and even a nil
// bundle produce placeholder cards, never an error. The worst case is a
// degraded view.
//
// The "counter" substring check against event outcomes is a deliberate
// carry-over of the desk's historical heuristic. It is weak and
// case-sensitive; keep the trigger condition as is rather than
// extending it.
package intel

import (
	"fmt"
	"strings"

	"github.com/AleutianAI/BrokerOS/services/desk/resolve"
	"github.com/AleutianAI/BrokerOS/services/desk/store"
)

// Card is one synthesized intelligence summary.
type Card struct {
	Title       string
	Description string
}

// Lines splits the description into display paragraphs.
func (c Card) Lines() []string {
	return strings.Split(c.Description, "\n")
}

// Metric is one label/value tile.
type Metric struct {
	Label string
	Value string
}

// Result is everything the intelligence rail renders for one context.
type Result struct {
	Metrics []Metric
	Cards   []Card
}

// How many items the digest cards keep.
const (
	maxRecentEvents   = 3
	maxPriorities     = 3
	maxTopProperties  = 2
	maxTimelineEvents = 3
)

// Synthesize derives metrics and cards for res.
//
// res may be nil or carry a nil bundle; both degrade to placeholder
// cards so the caller can always render something.
func Synthesize(ix *store.Index, res *resolve.Resolved) Result {
	if res == nil {
		return Result{Cards: missingContextCards()}
	}
	switch res.Type {
	case resolve.ContextCommand:
		return commandResult(res.Command)
	case resolve.ContextBuyer:
		return buyerResult(ix, res.Buyer)
	case resolve.ContextDeal:
		return dealResult(res.Deal)
	case resolve.ContextProperty:
		return propertyResult(res.Property)
	default:
		return Result{Cards: missingContextCards()}
	}
}

func missingContextCards() []Card {
	return []Card{{
		Title:       "Context",
		Description: "No record found for this context.",
	}}
}

// =============================================================================
// Command Center
// =============================================================================

func commandResult(cmd *resolve.CommandContext) Result {
	if cmd == nil {
		return Result{Cards: missingContextCards()}
	}

	var recent []string
	for i, e := range cmd.RecentEvents {
		if i == maxRecentEvents {
			break
		}
		recent = append(recent, fmt.Sprintf("%s · %s — %s", FormatDateShort(e.Date), TitleCase(e.Type), e.Notes))
	}

	// First-come across insights in store order; not ranked by score.
	var priorities []string
	for _, ins := range cmd.Insights {
		for _, action := range ins.NextActions {
			if len(priorities) == maxPriorities {
				break
			}
			priorities = append(priorities, action)
		}
	}

	changed := "No new activity logged today."
	if len(recent) > 0 {
		changed = bulleted(recent)
	}
	todays := "No priority actions queued."
	if len(priorities) > 0 {
		todays = bulleted(priorities)
	}

	return Result{
		Metrics: []Metric{
			{Label: "Active buyers", Value: fmt.Sprintf("%d", cmd.BuyerCount)},
			{Label: "Open deals", Value: fmt.Sprintf("%d", cmd.DealCount)},
			{Label: "Listings", Value: fmt.Sprintf("%d", cmd.PropertyCount)},
		},
		Cards: []Card{
			{Title: "What Changed", Description: changed},
			{Title: "Today’s Priorities", Description: todays},
		},
	}
}

// =============================================================================
// Buyer
// =============================================================================

func buyerResult(ix *store.Index, b *resolve.BuyerContext) Result {
	if b == nil {
		return Result{Cards: []Card{
			{Title: "Insights", Description: "No buyer record found for this context."},
			{Title: "Risk", Description: "Confirm buyer details to surface risk flags."},
		}}
	}

	insights := "No insight profile available yet."
	if ins := b.Insight; ins != nil {
		top := make([]string, 0, maxTopProperties)
		for i, pid := range ins.TopProperties {
			if i == maxTopProperties {
				break
			}
			if ix != nil {
				if prop, ok := ix.Property(pid); ok {
					top = append(top, prop.Address)
					continue
				}
			}
			top = append(top, pid)
		}
		insights = strings.Join([]string{
			fmt.Sprintf("Fit score: %d", ins.FitScore),
			fmt.Sprintf("Rationale: %s", ins.Rationale),
			fmt.Sprintf("Top properties: %s", strings.Join(top, ", ")),
			fmt.Sprintf("Next actions: %s", strings.Join(ins.NextActions, "; ")),
		}, "\n")
	}

	var risks []string
	if !b.Buyer.Preapproved {
		risks = append(risks, "Financing pre-approval still pending.")
	}
	if len(b.Events) > 0 {
		latest := b.Events[0]
		risks = append(risks, fmt.Sprintf("Latest update: %s (%s).", TitleCase(latest.Type), latest.Outcome))
	}
	for _, e := range b.Events {
		if strings.Contains(e.Outcome, "counter") {
			risks = append(risks, "Recent offer counter indicates negotiation risk.")
			break
		}
	}
	risk := "No active risk flags for this buyer."
	if len(risks) > 0 {
		risk = bulleted(risks)
	}

	var timeline []string
	for i, e := range b.Events {
		if i == maxTimelineEvents {
			break
		}
		timeline = append(timeline, fmt.Sprintf("%s · %s: %s (%s)", FormatDateShort(e.Date), TitleCase(e.Type), e.Notes, e.Outcome))
	}
	memory := "No recent buyer activity logged."
	if len(timeline) > 0 {
		memory = bulleted(timeline)
	}

	return Result{
		Metrics: []Metric{
			{Label: "Budget", Value: fmt.Sprintf("%s - %s", FormatCurrency(b.Buyer.BudgetMin), FormatCurrency(b.Buyer.BudgetMax))},
			{Label: "Timeline", Value: b.Buyer.Timeline},
			{Label: "Preapproved", Value: yesNo(b.Buyer.Preapproved)},
		},
		Cards: []Card{
			{Title: "Insights", Description: insights},
			{Title: "Risk", Description: risk},
			{Title: "Memory Timeline", Description: memory},
		},
	}
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

// =============================================================================
// Deal
// =============================================================================

func dealResult(d *resolve.DealContext) Result {
	if d == nil {
		return Result{Cards: []Card{
			{Title: "Risk Signals", Description: "No deal record found for this context."},
			{Title: "Interventions", Description: "Confirm deal details to surface interventions."},
		}}
	}
	deal := d.Deal

	var risks []string
	if len(deal.Contingencies) > 0 {
		risks = append(risks, fmt.Sprintf("Contingencies open: %s", strings.Join(deal.Contingencies, ", ")))
	} else {
		risks = append(risks, "No contingencies currently flagged.")
	}
	if deal.Stage == "negotiation" {
		risks = append(risks, "Negotiation stage increases counter risk.")
	}
	if deal.Financing == "fha" {
		risks = append(risks, "Financing type FHA may extend appraisal timelines.")
	}

	var interventions []string
	if len(d.Events) > 0 {
		latest := d.Events[0]
		interventions = append(interventions, fmt.Sprintf("Review latest event: %s (%s).", TitleCase(latest.Type), latest.Outcome))
	} else {
		interventions = append(interventions, "Log next milestone update.")
	}
	if deal.OfferPrice != nil && deal.ListPrice > 0 {
		interventions = append(interventions, fmt.Sprintf("Align pricing strategy at %s vs list %s.",
			FormatCurrency(*deal.OfferPrice), FormatCurrency(deal.ListPrice)))
	} else {
		interventions = append(interventions, "Confirm offer strategy with buyer.")
	}
	closeTarget := "TBD"
	if deal.CloseTarget != nil {
		closeTarget = *deal.CloseTarget
	}
	interventions = append(interventions, fmt.Sprintf("Coordinate with %s on close target %s.", deal.Agent, closeTarget))

	return Result{
		Metrics: []Metric{
			{Label: "List price", Value: FormatCurrency(deal.ListPrice)},
			{Label: "Offer price", Value: FormatOptionalCurrency(deal.OfferPrice)},
			{Label: "Stage", Value: TitleCase(deal.Stage)},
		},
		Cards: []Card{
			{Title: "Risk Signals", Description: bulleted(risks)},
			{Title: "Interventions", Description: bulleted(interventions)},
		},
	}
}

// =============================================================================
// Property
// =============================================================================

func propertyResult(p *resolve.PropertyContext) Result {
	if p == nil {
		return Result{Cards: []Card{
			{Title: "Comps", Description: "No property record found for this context."},
			{Title: "Risk Notes", Description: "Confirm property details to generate risk notes."},
		}}
	}
	prop := p.Property

	var comps []string
	for _, c := range p.Comps {
		comps = append(comps, fmt.Sprintf("%s · %s · %d bd/%s ba",
			c.Address, FormatCurrency(c.Price), c.Bedrooms, FormatBaths(c.Bathrooms)))
	}
	compCard := "No close comps in this segment."
	if len(comps) > 0 {
		compCard = bulleted(comps)
	}

	var notes []string
	if prop.DaysOnMarket > 20 {
		notes = append(notes, fmt.Sprintf("Extended time on market (%d days).", prop.DaysOnMarket))
	}
	if prop.Status != "available" {
		notes = append(notes, fmt.Sprintf("Status: %s.", TitleCase(prop.Status)))
	} else {
		notes = append(notes, "Listing is active.")
	}
	if len(p.Events) > 0 {
		notes = append(notes, fmt.Sprintf("Latest showing: %s", p.Events[0].Notes))
	}
	noteCard := "No risk notes available."
	if len(notes) > 0 {
		noteCard = bulleted(notes)
	}

	return Result{
		Metrics: []Metric{
			{Label: "Price", Value: FormatCurrency(prop.Price)},
			{Label: "Beds/Baths", Value: fmt.Sprintf("%d bd / %s ba", prop.Bedrooms, FormatBaths(prop.Bathrooms))},
			{Label: "Days on market", Value: plural(prop.DaysOnMarket, "days")},
		},
		Cards: []Card{
			{Title: "Comps", Description: compCard},
			{Title: "Risk Notes", Description: noteCard},
		},
	}
}
