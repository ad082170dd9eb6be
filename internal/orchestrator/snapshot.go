// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/orchestrator/snapshot.go
// Summary: Render snapshots: an immutable description of everything a
// client's frontend needs to redraw one frame, built fresh after every
// mutating message. The styled cell buffer (tcell styles,
// go-runewidth-measured cells) is built from a snapshot by
// internal/render; this is the geometry/metadata layer
// the orchestrator owns directly, grounded on Screen's own per-client
// TabInfo/rendering split in screen.rs's render() method.

package orchestrator

import (
	"github.com/framegrace/texelation-core/internal/geometry"
	"github.com/framegrace/texelation-core/internal/pane"
	"github.com/framegrace/texelation-core/internal/registry"
)

// PaneSnapshot is one pane's visible state. Content is the pane's live
// capability handle (nil for a pane that failed to spawn content) — a
// frontend building an actual styled buffer type-asserts it against
// pane.Scrollback/pane.Resizer/etc. the same way the orchestrator
// itself does internally; the snapshot only hands out a read-only
// reference, it never mutates through it.
type PaneSnapshot struct {
	ID       pane.ID
	Geom     geometry.PaneGeom
	Title    string
	Focused  bool
	Floating bool
	Held     bool
	Content  pane.Capabilities
}

// TabSnapshot names one tab for the tab bar.
type TabSnapshot struct {
	Index  int
	Name   string
	Active bool
}

// Snapshot is the full redraw state for a single client.
type Snapshot struct {
	Client          registry.ClientID
	Tabs            []TabSnapshot
	Panes           []PaneSnapshot
	FloatingVisible bool
	Mode            registry.Mode
}

func (o *Orchestrator) snapshotFor(client registry.ClientID) (Snapshot, error) {
	tab, _, err := o.activeTab(client)
	if err != nil {
		return Snapshot{}, err
	}

	focusedTiled, hasTiledFocus := tab.Grid.Focused()

	snap := Snapshot{
		Client:          client,
		FloatingVisible: tab.Floating.Visible(),
		Mode:            tab.Mode,
	}

	for _, idx := range o.registry.Order() {
		t, _ := o.registry.Tab(idx)
		pos, _ := o.registry.Position(idx)
		active := t == tab
		snap.Tabs = append(snap.Tabs, TabSnapshot{Index: pos, Name: t.Name, Active: active})
	}

	for _, p := range tab.Grid.Panes() {
		if tab.IsFullscreenActive && !(hasTiledFocus && p.ID == focusedTiled) {
			continue
		}
		geom := p.Geom
		if tab.IsFullscreenActive {
			geom = fullscreenGeom(tab.Grid.Viewport())
		}
		snap.Panes = append(snap.Panes, PaneSnapshot{
			ID:      p.ID,
			Geom:    geom,
			Title:   p.Title(),
			Focused: hasTiledFocus && p.ID == focusedTiled,
			Held:    p.Held,
			Content: p.Content,
		})
	}
	if !tab.IsFullscreenActive {
		for _, p := range tab.Floating.Panes() {
			snap.Panes = append(snap.Panes, PaneSnapshot{
				ID:       p.ID,
				Geom:     p.Geom,
				Title:    p.Title(),
				Floating: true,
				Held:     p.Held,
				Content:  p.Content,
			})
		}
	}
	return snap, nil
}

// fullscreenGeom expands a pane to cover the tab's whole viewport for
// toggle-fullscreen rendering (screen.rs reports is_fullscreen_active
// to the frontend rather than rewriting any pane's stored geometry;
// this mirrors that by overriding geometry only at snapshot time, so
// toggling back off needs no saved-geometry restore step).
func fullscreenGeom(v geometry.Viewport) geometry.PaneGeom {
	return geometry.PaneGeom{
		X:    v.X,
		Y:    v.Y,
		Cols: geometry.NewFixed(v.Cols).SetInner(v.Cols),
		Rows: geometry.NewFixed(v.Rows).SetInner(v.Rows),
	}
}

// Snapshots builds one Snapshot per connected client.
func (o *Orchestrator) Snapshots() map[registry.ClientID]Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make(map[registry.ClientID]Snapshot, len(o.clients))
	for client := range o.clients {
		if snap, err := o.snapshotFor(client); err == nil {
			out[client] = snap
		}
	}
	return out
}
