// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package session owns the desk's per-session UI state.
//
// # Description
//
// One Session instance exists per run and is the only owner of the
// active context, the analysis tray selection, dismissed insight ids,
// and the notification list. Every consumer mutates this state through
// the transitions below; there are no ambient globals.
//
// All state is ephemeral. Nothing persists across restarts, and nothing
// here is safe for concurrent use: the bubbletea event loop is the only
// caller.
package session

import (
	"time"

	"github.com/AleutianAI/BrokerOS/services/desk/rail"
)

// MaxAnalysis bounds the analysis tray selection.
const MaxAnalysis = 4

// MaxNotifications bounds concurrently visible toasts; pushing past the
// cap drops the oldest.
const MaxNotifications = 2

// Notification is one transient toast.
type Notification struct {
	ID        string
	Title     string
	Message   string
	ExpiresAt time.Time
}

// Session is the selection state machine.
type Session struct {
	active        rail.Item
	analysisIDs   []string
	dismissed     map[string]struct{}
	notifications []Notification
	notifyTTL     time.Duration
}

// New builds a session over the given sections.
//
// The active context defaults to the first item of the first section.
// An empty dataset falls back to the synthetic command-center item so
// the selection is never undefined.
func New(sections []rail.Section, notifyTTL time.Duration) *Session {
	active := rail.CommandCenterItem()
	if items := rail.Flatten(sections); len(items) > 0 {
		active = items[0]
	}
	return &Session{
		active:    active,
		dismissed: make(map[string]struct{}),
		notifyTTL: notifyTTL,
	}
}

// =============================================================================
// Active Context
// =============================================================================

// Active returns the current context. Never a zero Item after New.
func (s *Session) Active() rail.Item {
	return s.active
}

// SelectContext unconditionally replaces the active context. The
// analysis tray is untouched; it belongs to the session, not to any one
// context.
func (s *Session) SelectContext(item rail.Item) {
	s.active = item
}

// =============================================================================
// Analysis Tray
// =============================================================================

// AnalysisIDs returns the tray selection in insertion order.
func (s *Session) AnalysisIDs() []string {
	return s.analysisIDs
}

// InAnalysis reports whether the property is currently in the tray.
func (s *Session) InAnalysis(propertyID string) bool {
	for _, id := range s.analysisIDs {
		if id == propertyID {
			return true
		}
	}
	return false
}

// ToggleAnalysis adds or removes a property from the tray.
//
// Adding past MaxAnalysis is a silent no-op, not an error; the UI is
// expected to disable the affordance by checking AnalysisFull.
func (s *Session) ToggleAnalysis(propertyID string) {
	if s.InAnalysis(propertyID) {
		s.RemoveAnalysis(propertyID)
		return
	}
	if len(s.analysisIDs) >= MaxAnalysis {
		return
	}
	s.analysisIDs = append(s.analysisIDs, propertyID)
}

// RemoveAnalysis removes a property from the tray if present.
func (s *Session) RemoveAnalysis(propertyID string) {
	for i, id := range s.analysisIDs {
		if id == propertyID {
			s.analysisIDs = append(s.analysisIDs[:i], s.analysisIDs[i+1:]...)
			return
		}
	}
}

// AnalysisFull reports whether the tray is at capacity.
func (s *Session) AnalysisFull() bool {
	return len(s.analysisIDs) >= MaxAnalysis
}

// =============================================================================
// Dismissed Insights
// =============================================================================

// DismissInsight hides a high-signal insight toast for the session.
func (s *Session) DismissInsight(insightID string) {
	s.dismissed[insightID] = struct{}{}
}

// InsightDismissed reports whether the insight was dismissed.
func (s *Session) InsightDismissed(insightID string) bool {
	_, ok := s.dismissed[insightID]
	return ok
}

// =============================================================================
// Notifications
// =============================================================================

// PushNotification prepends a toast, stamping its expiry at now+TTL.
// The visible list is capped at MaxNotifications; the oldest entries
// fall off the end.
func (s *Session) PushNotification(n Notification, now time.Time) {
	n.ExpiresAt = now.Add(s.notifyTTL)
	s.notifications = append([]Notification{n}, s.notifications...)
	if len(s.notifications) > MaxNotifications {
		s.notifications = s.notifications[:MaxNotifications]
	}
}

// Notifications returns the visible toasts, newest first.
func (s *Session) Notifications() []Notification {
	return s.notifications
}

// ExpireNotifications drops every toast whose expiry has passed.
func (s *Session) ExpireNotifications(now time.Time) {
	kept := s.notifications[:0]
	for _, n := range s.notifications {
		if n.ExpiresAt.After(now) {
			kept = append(kept, n)
		}
	}
	s.notifications = kept
}

// RemoveNotification drops one toast by id; no-op when absent.
func (s *Session) RemoveNotification(id string) {
	for i, n := range s.notifications {
		if n.ID == id {
			s.notifications = append(s.notifications[:i], s.notifications[i+1:]...)
			return
		}
	}
}

// ClearNotifications drops every toast. Called on teardown so no timer
// acts on stale state.
func (s *Session) ClearNotifications() {
	s.notifications = nil
}
