// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/layoutstore/manifest.go
// Summary: The in-memory shape a session round-trips through on its
// way to and from SQLite: persisted state, a session-serialization
// feature beyond what the distilled baseline names.
//
// Grounded on original_source/'s session-serialization module's
// GlobalLayoutManifest/TabLayoutManifest/PaneLayoutManifest: the same
// three-level shape (session -> tabs -> panes), minus the KDL text
// emission that file builds on top of it — this module's job stops at
// a structured manifest a SQLite table can hold and `ManifestFromTabs`
// can reconstruct, not at producing a layout file format.
package layoutstore

import (
	"github.com/framegrace/texelation-core/internal/floatlayer"
	"github.com/framegrace/texelation-core/internal/geometry"
	"github.com/framegrace/texelation-core/internal/pane"
	"github.com/framegrace/texelation-core/internal/registry"
	"github.com/framegrace/texelation-core/internal/tiledgrid"
)

// GeomRecord is PaneGeom flattened to the resolved cell rectangle a
// persisted session restores into; the constraint (Fixed vs Percent)
// that produced it is not preserved; a reloaded pane's Dimension is
// reconstructed as Fixed at its last size. Only floating panes are
// placed back at the recorded rectangle; RestoreInto re-inserts tiled
// panes by splitting, so their recorded rectangle is not reapplied.
type GeomRecord struct {
	X, Y, Cols, Rows int
	IsStacked        bool
	IsPinned         bool
}

// paneKindFromInt reverses the int(p.Kind) cast Store.Save uses to
// store a pane.Kind as a SQLite INTEGER column.
func paneKindFromInt(n int) pane.Kind {
	if n == int(pane.Plugin) {
		return pane.Plugin
	}
	return pane.Terminal
}

func geomToRecord(g geometry.PaneGeom) GeomRecord {
	return GeomRecord{
		X: g.X, Y: g.Y,
		Cols: g.Cols.AsUsize(), Rows: g.Rows.AsUsize(),
		IsStacked: g.IsStacked, IsPinned: g.IsPinned,
	}
}

func (r GeomRecord) toPaneGeom() geometry.PaneGeom {
	return geometry.PaneGeom{
		X: r.X, Y: r.Y,
		Cols:      geometry.NewFixed(r.Cols),
		Rows:      geometry.NewFixed(r.Rows),
		IsStacked: r.IsStacked,
		IsPinned:  r.IsPinned,
	}
}

// PaneManifest is one pane's persisted state: enough to respawn its
// content and place it back where it was.
type PaneManifest struct {
	Kind      pane.Kind
	Num       uint32
	Geom      GeomRecord
	Run       pane.RunLocation
	Title     string
	IsFocused bool
	Held      bool
}

// TabManifest is one tab's persisted state: its tiled and floating
// panes plus the flags session_serialization.rs tracks per tab.
type TabManifest struct {
	Name              string
	IsActive          bool
	HideFloatingPanes bool
	TiledPanes        []PaneManifest
	FloatingPanes     []PaneManifest
}

// SessionManifest is a whole session: every client-visible tab, plus
// the global settings the original's GlobalLayoutManifest carries.
type SessionManifest struct {
	ID           string
	Name         string
	GlobalCwd    string
	DefaultShell string
	Tabs         []TabManifest
}

func paneToManifest(p *pane.Pane, focused bool) PaneManifest {
	return PaneManifest{
		Kind:      p.ID.Kind,
		Num:       p.ID.Num,
		Geom:      geomToRecord(p.Geom),
		Run:       p.Run,
		Title:     p.Title(),
		IsFocused: focused,
		Held:      p.Held,
	}
}

// ManifestFromTabs builds a SessionManifest snapshot from a registry's
// live tabs, the way session_serialization.rs's callers assemble a
// GlobalLayoutManifest before handing it to the serializer.
func ManifestFromTabs(id, name string, reg *registry.Registry, activeIndex int) SessionManifest {
	m := SessionManifest{ID: id, Name: name}
	for _, idx := range reg.Order() {
		tab, ok := reg.Tab(idx)
		if !ok {
			continue
		}
		tm := TabManifest{
			Name:              tab.Name,
			IsActive:          idx == activeIndex,
			HideFloatingPanes: !tab.Floating.Visible(),
		}
		focusedTiled, hasTiledFocus := tab.Grid.Focused()
		for _, p := range tab.Grid.Panes() {
			tm.TiledPanes = append(tm.TiledPanes, paneToManifest(p, hasTiledFocus && p.ID == focusedTiled))
		}
		focusedFloat, hasFloatFocus := floatingFocus(tab.Floating)
		for _, p := range tab.Floating.Panes() {
			tm.FloatingPanes = append(tm.FloatingPanes, paneToManifest(p, hasFloatFocus && p.ID == focusedFloat))
		}
		m.Tabs = append(m.Tabs, tm)
	}
	return m
}

// floatingFocus reports the topmost (last in z-order) pane, the same
// pane FocusPane raises to the front and GetPaneAt's hit test prefers.
func floatingFocus(l *floatlayer.Layer) (pane.ID, bool) {
	panes := l.Panes()
	if len(panes) == 0 {
		return pane.ID{}, false
	}
	top := panes[len(panes)-1]
	return top.ID, true
}

// RestoreInto recreates m's tabs (geometry and pane placeholders only
// — no content; the caller's Spawner must still bring each pane's
// process or plugin back up) into an empty registry, mirroring
// layout.ApplyLayout's own "grid describes shape, caller supplies
// content" split.
func RestoreInto(reg *registry.Registry, m SessionManifest, viewport geometry.Viewport) error {
	for _, tm := range m.Tabs {
		idx := reg.CreateTab(tm.Name, viewport)
		tab, ok := reg.Tab(idx)
		if !ok {
			continue
		}
		tab.Floating.ToggleShow(!tm.HideFloatingPanes)
		for _, pm := range tm.TiledPanes {
			id := pane.ID{Kind: pm.Kind, Num: pm.Num}
			p := &pane.Pane{ID: id, Geom: pm.Geom.toPaneGeom(), Run: pm.Run, Held: pm.Held}
			if err := restoreTiledPane(tab.Grid, p); err != nil {
				return err
			}
			if gp, ok := tab.Grid.Pane(id); ok {
				gp.Run, gp.Held = pm.Run, pm.Held
			}
			if pm.IsFocused {
				tab.Grid.SetFocus(id)
			}
		}
		for _, pm := range tm.FloatingPanes {
			id := pane.ID{Kind: pm.Kind, Num: pm.Num}
			tab.Floating.AddPane(id, pm.Geom.toPaneGeom(), nil)
			if fp, ok := tab.Floating.Pane(id); ok {
				fp.Run, fp.Held = pm.Run, pm.Held
			}
			if pm.IsFocused {
				_ = tab.Floating.FocusPane(id)
			}
		}
	}
	return nil
}

// restoreTiledPane places p as the tab's root if it is empty,
// otherwise via a 50/50 vertical split off the current focus.
func restoreTiledPane(grid *tiledgrid.Grid, p *pane.Pane) error {
	if grid.Len() == 0 {
		return grid.InsertRoot(p.ID, p.Content)
	}
	focus, ok := grid.Focused()
	if !ok {
		return grid.InsertRoot(p.ID, p.Content)
	}
	return grid.Split(focus, tiledgrid.SplitVertical, p.ID, p.Content)
}
