// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package tui implements the interactive desk shell.
//
// # Description
//
// The shell is a three-pane bubbletea program: a context rail on the
// left, the active workspace in the center, and the intelligence rail on
// the right. A command palette overlay (Ctrl+K) provides fuzzy-free
// substring search across every selectable context.
//
// Selecting a context re-resolves and re-synthesizes the whole view.
// Deal contexts additionally run a pulse timer that injects a synthetic
// "live" event into the displayed timeline at randomized intervals;
// pulse events are view-only and never written back to the store.
//
// # Thread Safety
//
// Model follows the bubbletea convention: all state is owned by the
// event loop and mutated only inside Update.
package tui

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/AleutianAI/BrokerOS/pkg/logging"
	"github.com/AleutianAI/BrokerOS/services/desk/domain"
	"github.com/AleutianAI/BrokerOS/services/desk/intel"
	"github.com/AleutianAI/BrokerOS/services/desk/palette"
	"github.com/AleutianAI/BrokerOS/services/desk/rail"
	"github.com/AleutianAI/BrokerOS/services/desk/resolve"
	"github.com/AleutianAI/BrokerOS/services/desk/session"
	"github.com/AleutianAI/BrokerOS/services/desk/store"
)

// =============================================================================
// Messages
// =============================================================================

// pulseMsg fires one deal-pulse tick. The generation stamp lets Update
// discard ticks scheduled for a context that is no longer active.
type pulseMsg struct {
	gen int
}

// notificationExpiredMsg retires one toast by id.
type notificationExpiredMsg struct {
	id string
}

// dataChangedMsg reports that the watched data directory changed.
type dataChangedMsg struct{}

// watchClosedMsg reports that the directory watcher shut down.
type watchClosedMsg struct{}

// =============================================================================
// Configuration
// =============================================================================

// Config configures the desk shell.
type Config struct {
	// Snapshot is the loaded dataset. Required.
	Snapshot *store.Snapshot

	// DataDir is the on-disk data directory, empty when running from
	// the embedded seed. Reloads only apply when non-empty.
	DataDir string

	// Watcher signals data directory changes. Optional.
	Watcher *store.Watcher

	// PulseMin/PulseMax bound the randomized deal-refresh interval.
	PulseMin time.Duration
	PulseMax time.Duration

	// NotifyTTL is how long a toast stays visible.
	NotifyTTL time.Duration

	// Logger receives selection and reload events. Optional.
	Logger *logging.Logger

	// Rand drives pulse scheduling. Tests inject a fixed seed; nil
	// gets a time-seeded source.
	Rand *rand.Rand
}

// DefaultPulseMin and friends back-fill zero Config fields.
const (
	DefaultPulseMin  = 30 * time.Second
	DefaultPulseMax  = 60 * time.Second
	DefaultNotifyTTL = 4200 * time.Millisecond
)

// The three synthetic update flavors a deal pulse rotates through.
var pulseRotation = []struct {
	eventType string
	notes     string
}{
	{"inspection_update", "Inspection notes uploaded; reviewing contractor follow-ups."},
	{"offer_revision", "Seller countered with updated closing window."},
	{"title_check", "Title review in progress; awaiting escrow feedback."},
}

// =============================================================================
// Model
// =============================================================================

// Model is the bubbletea model for the desk shell.
type Model struct {
	cfg    Config
	logger *logging.Logger
	rng    *rand.Rand

	snap      *store.Snapshot
	ix        *store.Index
	sections  []rail.Section
	railItems []rail.Item

	sess  *session.Session
	pal   *palette.State
	input textinput.Model

	resolved *resolve.Resolved
	result   intel.Result

	railCursor int

	// pulseGen invalidates in-flight pulse ticks on context change.
	pulseGen   int
	pulseSeq   int
	pulseEvent *domain.Event

	width  int
	height int
	ready  bool
}

// NewModel builds the shell over a loaded snapshot.
func NewModel(cfg Config) Model {
	if cfg.PulseMin <= 0 {
		cfg.PulseMin = DefaultPulseMin
	}
	if cfg.PulseMax < cfg.PulseMin {
		cfg.PulseMax = cfg.PulseMin
	}
	if cfg.NotifyTTL <= 0 {
		cfg.NotifyTTL = DefaultNotifyTTL
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	rng := cfg.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	input := textinput.New()
	input.Placeholder = "Search buyers, deals, properties..."
	input.Prompt = "> "
	input.CharLimit = 80

	m := Model{
		cfg:    cfg,
		logger: cfg.Logger,
		rng:    rng,
		input:  input,
	}
	m.install(cfg.Snapshot)
	return m
}

// install swaps in a snapshot and rebuilds every derived structure.
func (m *Model) install(snap *store.Snapshot) {
	m.snap = snap
	m.ix = store.NewIndex(snap)
	m.sections = rail.BuildSections(snap)
	m.railItems = rail.Flatten(m.sections)
	m.pal = palette.NewState(palette.BuildIndex(m.railItems))

	if m.sess == nil {
		m.sess = session.New(m.sections, m.cfg.NotifyTTL)
	}

	active := m.sess.Active()
	if _, ok := resolve.Resolve(m.snap, m.ix, active.Ref); !ok && len(m.railItems) > 0 {
		active = m.railItems[0]
		m.sess.SelectContext(active)
	}
	m.railCursor = m.indexOfRef(active.Ref)
	m.refresh()
}

// refresh re-resolves and re-synthesizes the active context.
func (m *Model) refresh() {
	res, ok := resolve.Resolve(m.snap, m.ix, m.sess.Active().Ref)
	if !ok {
		res = nil
	}
	m.resolved = res
	m.result = intel.Synthesize(m.ix, res)
}

func (m *Model) indexOfRef(ref resolve.Ref) int {
	for i, it := range m.railItems {
		if it.Ref == ref {
			return i
		}
	}
	return 0
}

// =============================================================================
// Init
// =============================================================================

// Init schedules startup work: high-signal insight toasts, the pulse
// timer when the default context is a deal, and the directory watch.
func (m Model) Init() tea.Cmd {
	var cmds []tea.Cmd
	cmds = append(cmds, textinput.Blink)
	if cmd := m.watchCmd(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	// Startup toasts land via a zero-delay tick so Init stays pure.
	cmds = append(cmds, func() tea.Msg { return startupMsg{} })
	return tea.Batch(cmds...)
}

type startupMsg struct{}

func (m *Model) watchCmd() tea.Cmd {
	w := m.cfg.Watcher
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-w.Changed; !ok {
			return watchClosedMsg{}
		}
		return dataChangedMsg{}
	}
}

// =============================================================================
// Update
// =============================================================================

// Update routes messages to the right handler.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case startupMsg:
		return m.handleStartup()

	case pulseMsg:
		return m.handlePulse(msg)

	case notificationExpiredMsg:
		m.sess.RemoveNotification(msg.id)
		return m, nil

	case dataChangedMsg:
		return m.handleReload()

	case watchClosedMsg:
		return m, nil
	}

	if m.pal.IsOpen() {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleStartup() (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	for _, ins := range m.snap.Insights {
		if !ins.HighSignal() || m.sess.InsightDismissed(ins.ID) {
			continue
		}
		buyer := ins.BuyerID
		if b, ok := m.ix.Buyer(ins.BuyerID); ok {
			buyer = b.Name
		}
		message := ins.SignalSummary
		if message == "" {
			message = fmt.Sprintf("New high-signal insight for %s.", buyer)
		}
		cmds = append(cmds, m.pushToast(session.Notification{
			ID:      ins.ID,
			Title:   "High-signal insight",
			Message: message,
		}))
		if len(m.sess.Notifications()) >= session.MaxNotifications {
			break
		}
	}
	if m.resolved != nil && m.resolved.Type == resolve.ContextDeal {
		cmds = append(cmds, m.schedulePulse())
	}
	return m, tea.Batch(cmds...)
}

// -----------------------------------------------------------------------------
// Keys
// -----------------------------------------------------------------------------

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.pal.IsOpen() {
		return m.handlePaletteKey(msg)
	}

	switch msg.String() {
	case "ctrl+c", "q":
		m.sess.ClearNotifications()
		return m, tea.Quit

	case "ctrl+k", "/":
		m.pal.Open()
		m.input.Reset()
		m.input.Focus()
		return m, textinput.Blink

	case "up", "k":
		if m.railCursor > 0 {
			m.railCursor--
		}
		return m, nil

	case "down", "j":
		if m.railCursor < len(m.railItems)-1 {
			m.railCursor++
		}
		return m, nil

	case "enter":
		if m.railCursor < len(m.railItems) {
			return m, m.selectContext(m.railItems[m.railCursor])
		}
		return m, nil

	case "a":
		if m.resolved != nil && m.resolved.Type == resolve.ContextProperty {
			m.sess.ToggleAnalysis(m.resolved.Property.Property.ID)
		}
		return m, nil

	case "x":
		if m.resolved != nil && m.resolved.Type == resolve.ContextProperty {
			m.sess.RemoveAnalysis(m.resolved.Property.Property.ID)
		}
		return m, nil

	case "1", "2", "3", "4":
		slot := int(msg.String()[0] - '1')
		if ids := m.sess.AnalysisIDs(); slot < len(ids) {
			m.sess.RemoveAnalysis(ids[slot])
		}
		return m, nil

	case "d":
		return m, m.dismissNewestToast()
	}
	return m, nil
}

func (m Model) handlePaletteKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "ctrl+k":
		m.pal.Close()
		m.input.Blur()
		return m, nil

	case "up":
		m.pal.MoveUp()
		return m, nil

	case "down":
		m.pal.MoveDown()
		return m, nil

	case "enter":
		item, ok := m.pal.Selected()
		if !ok {
			// Nothing matched; Enter stays a no-op.
			return m, nil
		}
		m.pal.Close()
		m.input.Blur()
		if idx := m.indexOfRef(item.Ref); idx < len(m.railItems) {
			return m, m.selectContext(m.railItems[idx])
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.pal.SetQuery(m.input.Value())
	return m, cmd
}

// -----------------------------------------------------------------------------
// Selection
// -----------------------------------------------------------------------------

// selectContext makes item the active context and restarts the derived
// view: resolve, synthesize, pulse timer, switch toast.
func (m *Model) selectContext(item rail.Item) tea.Cmd {
	m.sess.SelectContext(item)
	m.railCursor = m.indexOfRef(item.Ref)
	m.refresh()

	// Any in-flight pulse tick now carries a stale generation.
	m.pulseGen++
	m.pulseSeq = 0
	m.pulseEvent = nil

	m.logger.Info("context selected",
		"type", item.Ref.Type.String(),
		"id", item.Ref.ID,
	)

	cmds := []tea.Cmd{m.pushToast(session.Notification{
		ID:      uuid.NewString(),
		Title:   "Context switched",
		Message: fmt.Sprintf("%s is now the primary focus area.", item.Title),
	})}
	if m.resolved != nil && m.resolved.Type == resolve.ContextDeal {
		cmds = append(cmds, m.schedulePulse())
	}
	return tea.Batch(cmds...)
}

// -----------------------------------------------------------------------------
// Pulse Timer
// -----------------------------------------------------------------------------

func (m *Model) schedulePulse() tea.Cmd {
	gen := m.pulseGen
	return tea.Tick(m.pulseDelay(), func(time.Time) tea.Msg {
		return pulseMsg{gen: gen}
	})
}

// pulseDelay draws uniformly from [PulseMin, PulseMax].
func (m *Model) pulseDelay() time.Duration {
	span := int64(m.cfg.PulseMax - m.cfg.PulseMin)
	if span <= 0 {
		return m.cfg.PulseMin
	}
	return m.cfg.PulseMin + time.Duration(m.rng.Int63n(span+1))
}

func (m Model) handlePulse(msg pulseMsg) (tea.Model, tea.Cmd) {
	if msg.gen != m.pulseGen {
		return m, nil
	}
	if m.resolved == nil || m.resolved.Type != resolve.ContextDeal {
		return m, nil
	}
	if ev, ok := m.nextPulseEvent(); ok {
		m.pulseEvent = &ev
	}
	return m, m.schedulePulse()
}

// nextPulseEvent synthesizes the next rotation entry on top of the
// deal's newest real event. Deals with no activity never pulse. The
// event exists only in the view; the store is untouched.
func (m *Model) nextPulseEvent() (domain.Event, bool) {
	d := m.resolved.Deal
	if len(d.Events) == 0 {
		return domain.Event{}, false
	}
	update := pulseRotation[m.pulseSeq%len(pulseRotation)]
	m.pulseSeq++

	ev := d.Events[0]
	ev.ID = fmt.Sprintf("%s-pulse-%d", d.Events[0].ID, m.pulseSeq)
	ev.Date = time.Now().Format("2006-01-02")
	ev.Type = update.eventType
	ev.Notes = update.notes
	return ev, true
}

// -----------------------------------------------------------------------------
// Notifications
// -----------------------------------------------------------------------------

// pushToast makes the toast visible and schedules its expiry.
func (m *Model) pushToast(n session.Notification) tea.Cmd {
	m.sess.PushNotification(n, time.Now())
	id := n.ID
	return tea.Tick(m.cfg.NotifyTTL, func(time.Time) tea.Msg {
		return notificationExpiredMsg{id: id}
	})
}

// dismissNewestToast drops the newest toast. Dismissing an insight
// toast also suppresses that insight for the rest of the session.
func (m *Model) dismissNewestToast() tea.Cmd {
	toasts := m.sess.Notifications()
	if len(toasts) == 0 {
		return nil
	}
	newest := toasts[0]
	m.sess.RemoveNotification(newest.ID)
	for _, ins := range m.snap.Insights {
		if ins.ID == newest.ID {
			m.sess.DismissInsight(ins.ID)
			break
		}
	}
	return nil
}

// -----------------------------------------------------------------------------
// Reload
// -----------------------------------------------------------------------------

func (m Model) handleReload() (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{m.watchCmd()}
	if m.cfg.DataDir == "" {
		return m, tea.Batch(cmds...)
	}

	snap, err := store.LoadDir(m.cfg.DataDir)
	if err != nil {
		m.logger.Warn("data reload failed", "dir", m.cfg.DataDir, "error", err)
		cmds = append(cmds, m.pushToast(session.Notification{
			ID:      uuid.NewString(),
			Title:   "Reload failed",
			Message: "Keeping the previous dataset; check the data files.",
		}))
		return m, tea.Batch(cmds...)
	}

	m.pal.Close()
	m.input.Blur()
	m.install(snap)
	m.pulseGen++
	m.pulseSeq = 0
	m.pulseEvent = nil
	m.logger.Info("data reloaded",
		"buyers", len(snap.Buyers),
		"deals", len(snap.Deals),
		"properties", len(snap.Properties),
	)

	cmds = append(cmds, m.pushToast(session.Notification{
		ID:      uuid.NewString(),
		Title:   "Data reloaded",
		Message: "The dataset changed on disk; views are rebuilt.",
	}))
	if m.resolved != nil && m.resolved.Type == resolve.ContextDeal {
		cmds = append(cmds, m.schedulePulse())
	}
	return m, tea.Batch(cmds...)
}
