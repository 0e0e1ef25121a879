// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/AleutianAI/BrokerOS/services/desk/domain"
	"github.com/AleutianAI/BrokerOS/services/desk/intel"
	"github.com/AleutianAI/BrokerOS/services/desk/resolve"
	"github.com/AleutianAI/BrokerOS/services/desk/session"
)

// Pane widths; the workspace takes the remainder.
const (
	railWidth    = 30
	intelWidth   = 42
	minWorkspace = 40
)

const maxTimelineRows = 3

// View renders the three-pane desk or the palette overlay.
func (m Model) View() string {
	if !m.ready {
		return "Starting desk..."
	}
	if m.pal.IsOpen() {
		return m.viewPalette()
	}

	header := m.viewHeader()
	body := lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.viewRail(),
		m.viewWorkspace(),
		m.viewIntel(),
	)
	footer := helpStyle.Render(
		"↑/↓ navigate · enter select · ctrl+k palette · a analyze · 1-4 untray · d dismiss · q quit")

	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

func (m Model) viewHeader() string {
	title := titleStyle.Render("BrokerOS Desk")
	active := subtitleStyle.Render(fmt.Sprintf("Focus: %s", m.sess.Active().Title))
	return lipgloss.JoinHorizontal(lipgloss.Center, title, "  ", active)
}

// =============================================================================
// Context Rail
// =============================================================================

func (m Model) viewRail() string {
	var b strings.Builder
	activeRef := m.sess.Active().Ref

	flat := 0
	for si, sec := range m.sections {
		if si > 0 {
			b.WriteString("\n")
		}
		b.WriteString(sectionHeaderStyle.Render(strings.ToUpper(sec.Title)))
		b.WriteString("\n")
		for _, it := range sec.Items {
			cursor := "  "
			if flat == m.railCursor {
				cursor = railCursorStyle.Render("▸ ")
			}
			line := railItemStyle.Render(truncate(it.Title, railWidth-8))
			if it.Ref == activeRef {
				line = railActiveStyle.Render(truncate(it.Title, railWidth-8))
			}
			b.WriteString(cursor + line)
			if it.Status != "" {
				b.WriteString(" " + statusStyle.Render(truncate(it.Status, 12)))
			}
			b.WriteString("\n")
			flat++
		}
	}

	return panelStyle.Width(railWidth).Height(m.bodyHeight()).Render(b.String())
}

// =============================================================================
// Workspace
// =============================================================================

func (m Model) viewWorkspace() string {
	width := m.width - railWidth - intelWidth - 6
	if width < minWorkspace {
		width = minWorkspace
	}

	var content string
	switch {
	case m.resolved == nil:
		content = cardBodyStyle.Render("No record found for this context.")
	case m.resolved.Type == resolve.ContextCommand:
		content = m.viewCommandWorkspace(m.resolved.Command)
	case m.resolved.Type == resolve.ContextBuyer:
		content = m.viewBuyerWorkspace(m.resolved.Buyer)
	case m.resolved.Type == resolve.ContextDeal:
		content = m.viewDealWorkspace(m.resolved.Deal)
	case m.resolved.Type == resolve.ContextProperty:
		content = m.viewPropertyWorkspace(m.resolved.Property)
	}

	return panelStyle.Width(width).Height(m.bodyHeight()).Render(content)
}

func (m Model) viewCommandWorkspace(cmd *resolve.CommandContext) string {
	var b strings.Builder
	b.WriteString(cardTitleStyle.Render("Command Center"))
	b.WriteString("\n")
	b.WriteString(subtitleStyle.Render("Live signal routing for active revenue moments."))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("%s %s   %s %s   %s %s\n\n",
		metricLabelStyle.Render("Buyers"), metricValueStyle.Render(fmt.Sprintf("%d", cmd.BuyerCount)),
		metricLabelStyle.Render("Deals"), metricValueStyle.Render(fmt.Sprintf("%d", cmd.DealCount)),
		metricLabelStyle.Render("Listings"), metricValueStyle.Render(fmt.Sprintf("%d", cmd.PropertyCount)),
	))

	b.WriteString(sectionHeaderStyle.Render("ACTIVITY FEED"))
	b.WriteString("\n")
	if len(cmd.RecentEvents) == 0 {
		b.WriteString(cardBodyStyle.Render("No activity logged."))
	}
	for i, e := range cmd.RecentEvents {
		if i == 6 {
			break
		}
		b.WriteString(renderEventRow(e, false))
	}
	return b.String()
}

func (m Model) viewBuyerWorkspace(bc *resolve.BuyerContext) string {
	buyer := bc.Buyer
	var b strings.Builder
	b.WriteString(cardTitleStyle.Render(buyer.Name))
	b.WriteString("  " + statusStyle.Render(intel.TitleCase(buyer.Status)))
	b.WriteString("\n")
	if buyer.Email != "" || buyer.Phone != "" {
		b.WriteString(subtitleStyle.Render(strings.TrimSpace(buyer.Email + "  " + buyer.Phone)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(fieldRow("Budget", fmt.Sprintf("%s - %s",
		intel.FormatCurrency(buyer.BudgetMin), intel.FormatCurrency(buyer.BudgetMax))))
	b.WriteString(fieldRow("Timeline", buyer.Timeline))
	b.WriteString(fieldRow("Preapproved", yesNoLabel(buyer.Preapproved)))
	if len(buyer.PreferredLocations) > 0 {
		b.WriteString(fieldRow("Locations", strings.Join(buyer.PreferredLocations, ", ")))
	}
	if len(buyer.PropertyTypes) > 0 {
		b.WriteString(fieldRow("Types", strings.Join(buyer.PropertyTypes, ", ")))
	}
	b.WriteString(fieldRow("Min size", fmt.Sprintf("%d bd / %s ba",
		buyer.MinBedrooms, intel.FormatBaths(buyer.MinBathrooms))))
	if len(buyer.MustHaves) > 0 {
		b.WriteString(fieldRow("Must-haves", strings.Join(buyer.MustHaves, ", ")))
	}
	if buyer.Notes != "" {
		b.WriteString("\n" + cardBodyStyle.Render(buyer.Notes) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(sectionHeaderStyle.Render("ACTIVITY"))
	b.WriteString("\n")
	if len(bc.Events) == 0 {
		b.WriteString(cardBodyStyle.Render("No recent buyer activity logged."))
	}
	for i, e := range bc.Events {
		if i == maxTimelineRows {
			break
		}
		b.WriteString(renderEventRow(e, false))
	}
	return b.String()
}

func (m Model) viewDealWorkspace(dc *resolve.DealContext) string {
	deal := dc.Deal
	var b strings.Builder
	b.WriteString(cardTitleStyle.Render(fmt.Sprintf("%s · %s", dc.BuyerLabel(), dc.PropertyLabel())))
	b.WriteString("\n")
	b.WriteString(subtitleStyle.Render(fmt.Sprintf("Stage: %s · Agent: %s",
		intel.TitleCase(deal.Stage), deal.Agent)))
	b.WriteString("\n\n")

	b.WriteString(fieldRow("List price", intel.FormatCurrency(deal.ListPrice)))
	b.WriteString(fieldRow("Offer price", intel.FormatOptionalCurrency(deal.OfferPrice)))
	b.WriteString(fieldRow("Offer date", intel.FormatDateLong(deal.OfferDate)))
	b.WriteString(fieldRow("Close target", intel.FormatDateLong(deal.CloseTarget)))
	b.WriteString(fieldRow("Financing", strings.ToUpper(deal.Financing)))
	contingencies := "None flagged"
	if len(deal.Contingencies) > 0 {
		contingencies = strings.Join(deal.Contingencies, ", ")
	}
	b.WriteString(fieldRow("Contingencies", contingencies))

	b.WriteString("\n")
	b.WriteString(sectionHeaderStyle.Render("LIVE TIMELINE"))
	b.WriteString("\n")
	if m.pulseEvent != nil {
		b.WriteString(renderEventRow(*m.pulseEvent, true))
	}
	if len(dc.Events) == 0 && m.pulseEvent == nil {
		b.WriteString(cardBodyStyle.Render("No milestones logged for this deal."))
	}
	for i, e := range dc.Events {
		if i == maxTimelineRows {
			break
		}
		b.WriteString(renderEventRow(e, false))
	}
	return b.String()
}

func (m Model) viewPropertyWorkspace(pc *resolve.PropertyContext) string {
	prop := pc.Property
	var b strings.Builder
	b.WriteString(cardTitleStyle.Render(prop.Address))
	b.WriteString("  " + statusStyle.Render(intel.TitleCase(prop.Status)))
	b.WriteString("\n")
	b.WriteString(subtitleStyle.Render(fmt.Sprintf("%s · %s, %s %s",
		prop.Neighborhood, prop.City, prop.State, prop.Zip)))
	b.WriteString("\n\n")

	b.WriteString(fieldRow("Price", intel.FormatCurrency(prop.Price)))
	b.WriteString(fieldRow("Layout", fmt.Sprintf("%d bd / %s ba · %d sqft",
		prop.Bedrooms, intel.FormatBaths(prop.Bathrooms), prop.Sqft)))
	b.WriteString(fieldRow("Type", intel.TitleCase(prop.Type)))
	b.WriteString(fieldRow("On market", fmt.Sprintf("%d days (listed %s)",
		prop.DaysOnMarket, intel.FormatDateShort(prop.ListedAt))))
	if len(prop.Features) > 0 {
		b.WriteString(fieldRow("Features", strings.Join(prop.Features, ", ")))
	}

	b.WriteString("\n")
	b.WriteString(m.viewAnalysisTray(prop))
	return b.String()
}

// viewAnalysisTray renders the side-by-side comparison set and the
// toggle state for the focused property.
func (m Model) viewAnalysisTray(focused domain.Property) string {
	var b strings.Builder
	ids := m.sess.AnalysisIDs()
	b.WriteString(sectionHeaderStyle.Render(
		fmt.Sprintf("ANALYSIS TRAY (%d/%d)", len(ids), session.MaxAnalysis)))
	b.WriteString("\n")

	if len(ids) == 0 {
		b.WriteString(cardBodyStyle.Render("Tray is empty. Press a to add this property."))
		b.WriteString("\n")
	}
	for i, id := range ids {
		label := id
		if p, ok := m.ix.Property(id); ok {
			label = fmt.Sprintf("%s · %s", p.Address, intel.FormatCurrency(p.Price))
		}
		marker := " "
		if id == focused.ID {
			marker = "●"
		}
		b.WriteString(fmt.Sprintf("%s %d. %s\n", marker, i+1, cardBodyStyle.Render(label)))
	}

	switch {
	case m.sess.InAnalysis(focused.ID):
		b.WriteString(helpStyle.Render("a removes this property from the tray"))
	case m.sess.AnalysisFull():
		b.WriteString(trayFullStyle.Render("Tray full. Remove a property (1-4) to add another."))
	default:
		b.WriteString(helpStyle.Render("a adds this property to the tray"))
	}
	return b.String()
}

// =============================================================================
// Intelligence Rail
// =============================================================================

func (m Model) viewIntel() string {
	var b strings.Builder
	b.WriteString(sectionHeaderStyle.Render("INTELLIGENCE"))
	b.WriteString("\n")

	for _, metric := range m.result.Metrics {
		b.WriteString(fmt.Sprintf("%s %s\n",
			metricLabelStyle.Render(metric.Label+":"),
			metricValueStyle.Render(metric.Value)))
	}
	for _, card := range m.result.Cards {
		b.WriteString("\n")
		b.WriteString(cardTitleStyle.Render(card.Title))
		b.WriteString("\n")
		for _, line := range card.Lines() {
			b.WriteString(cardBodyStyle.Render(line))
			b.WriteString("\n")
		}
	}

	for _, n := range m.sess.Notifications() {
		b.WriteString("\n")
		b.WriteString(toastStyle.Render(
			cardTitleStyle.Render(n.Title) + "\n" + cardBodyStyle.Render(n.Message)))
		b.WriteString("\n")
	}

	return panelStyle.Width(intelWidth).Height(m.bodyHeight()).Render(b.String())
}

// =============================================================================
// Command Palette
// =============================================================================

func (m Model) viewPalette() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Command Palette"))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	filtered := m.pal.Filtered()
	if len(filtered) == 0 {
		b.WriteString(subtitleStyle.Render("No contexts match."))
		b.WriteString("\n")
	}
	for i, it := range filtered {
		line := fmt.Sprintf("%s  %s", it.Title, it.Description)
		if i == m.pal.Highlight() {
			b.WriteString(paletteHighlightStyle.Render("▸ " + line))
		} else {
			b.WriteString(paletteItemStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("↑/↓ highlight · enter select · esc close"))

	width := m.width - 8
	if width > 80 {
		width = 80
	}
	panel := paletteStyle.Width(width).Render(b.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, panel)
}

// =============================================================================
// Helpers
// =============================================================================

func (m Model) bodyHeight() int {
	h := m.height - 4
	if h < 10 {
		h = 10
	}
	return h
}

func renderEventRow(e domain.Event, pulse bool) string {
	row := fmt.Sprintf("%s · %s — %s", intel.FormatDateShort(e.Date), intel.TitleCase(e.Type), e.Notes)
	if e.Outcome != "" {
		row += fmt.Sprintf(" (%s)", e.Outcome)
	}
	if pulse {
		return pulseStyle.Render("◉ "+row) + "\n"
	}
	return cardBodyStyle.Render(row) + "\n"
}

func fieldRow(label, value string) string {
	return fmt.Sprintf("%s %s\n",
		metricLabelStyle.Render(fmt.Sprintf("%-13s", label+":")),
		metricValueStyle.Render(value))
}

func yesNoLabel(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

func truncate(s string, max int) string {
	if max <= 1 || len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}
