// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/registry/tab.go
// Summary: A single tab's mode, grid, floating layer and grouping
// state (component D; grouping is a supplemented feature reached via
// the mouse state machine's Alt-gesture actions).

package registry

import (
	"github.com/framegrace/texelation-core/internal/floatlayer"
	"github.com/framegrace/texelation-core/internal/geometry"
	"github.com/framegrace/texelation-core/internal/layout"
	"github.com/framegrace/texelation-core/internal/pane"
	"github.com/framegrace/texelation-core/internal/tiledgrid"
)

// ClientID identifies one connected terminal/client.
type ClientID uint32

// Mode is the tab's current input mode, set by the orchestrator's
// ChangeMode message and reported in render snapshots. No key routing
// in this module depends on it.
type Mode int

const (
	ModeNormal Mode = iota
	ModePane
	ModeResize
	ModeMove
	ModeTab
	ModeScroll
	ModeSearch
)

// Tab bundles one tab's tiled grid, floating layer, and session state.
type Tab struct {
	Name string

	Grid     *tiledgrid.Grid
	Floating *floatlayer.Layer

	Mode Mode

	FocusedClientSet map[ClientID]bool

	ActiveSwapLayoutName string
	SyncInputActive      bool
	IsFullscreenActive   bool

	// SwapLayouts is the tab's declared cycle of alternate partitions
	// (empty until RegisterSwapLayouts is applied); SwapLayoutIndex is
	// the currently active one, meaningful only when len(SwapLayouts) > 0.
	SwapLayouts     []layout.SwapLayoutSet
	SwapLayoutIndex int

	groupedPanes map[pane.ID]bool
}

// NewTab creates an empty tab over the given viewport.
func NewTab(name string, viewport geometry.Viewport) *Tab {
	return &Tab{
		Name:             name,
		Grid:             tiledgrid.NewGrid(viewport),
		Floating:         floatlayer.NewLayer(viewport),
		FocusedClientSet: make(map[ClientID]bool),
		groupedPanes:     make(map[pane.ID]bool),
	}
}

// GroupToggle adds id to the group if absent, removes it if present.
func (t *Tab) GroupToggle(id pane.ID) {
	if t.groupedPanes[id] {
		delete(t.groupedPanes, id)
		return
	}
	t.groupedPanes[id] = true
}

// GroupAdd adds id to the group, idempotently.
func (t *Tab) GroupAdd(id pane.ID) { t.groupedPanes[id] = true }

// Ungroup clears the entire group.
func (t *Tab) Ungroup() { t.groupedPanes = make(map[pane.ID]bool) }

// GroupedPanes returns the currently grouped pane ids.
func (t *Tab) GroupedPanes() []pane.ID {
	out := make([]pane.ID, 0, len(t.groupedPanes))
	for id := range t.groupedPanes {
		out = append(out, id)
	}
	return out
}

// IsGrouped reports whether id is part of the current group.
func (t *Tab) IsGrouped(id pane.ID) bool { return t.groupedPanes[id] }
