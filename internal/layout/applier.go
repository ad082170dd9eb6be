// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/layout/applier.go
// Summary: The layout applier: realizes a declarative
// TiledPaneLayout plus its FloatingPaneLayout siblings against a tab's
// live panes, spawning new content for empty slots and relocating any
// unmatched live pane rather than discarding it.
//
// Grounded on original_source/'s layout-applier module's apply_layout function
// (original_source/): apply the tiled layout first, then the floating
// one, and derive "should the floating layer start visible" from
// layout_has_floating_panes && !hide_floating_panes.

package layout

import (
	"github.com/framegrace/texelation-core/internal/floatlayer"
	"github.com/framegrace/texelation-core/internal/geometry"
	"github.com/framegrace/texelation-core/internal/pane"
	"github.com/framegrace/texelation-core/internal/tiledgrid"
)

// SpawnFunc asks the orchestrator's PTY/plugin collaborators for a
// fresh pane to host the given invocation (nil Run means "default
// shell"). It is the only side-effecting seam in this package.
type SpawnFunc func(run *pane.RunLocation) (pane.ID, pane.Capabilities, error)

// Result reports what ApplyLayout decided: which pane (if any) should
// receive focus, and whether the floating layer should start visible.
type Result struct {
	Focus               pane.ID
	HasFocus            bool
	ShouldShowFloating  bool
}

// ApplyLayout realizes root and floating over grid/layer, drawing
// content from liveTiled/liveFloating wherever a slot matches, and
// from spawn otherwise. No live pane is ever discarded: a pane left
// over after tiled matching is folded into the floating-layout match
// as an additional candidate, and anything still unmatched after that
// is placed via Layer.FindRoomForNewPane as a last resort.
func ApplyLayout(grid *tiledgrid.Grid, layer *floatlayer.Layer, root *TiledPaneLayout, floating []*FloatingPaneLayout, liveTiled, liveFloating []*pane.Pane, spawn SpawnFunc) (Result, error) {
	tiledOut, orphans, err := applyTiled(grid, root, liveTiled, spawn)
	if err != nil {
		return Result{}, err
	}

	combinedLive := append(append([]*pane.Pane{}, liveFloating...), orphans...)
	hasFloatingPanes, err := applyFloating(layer, floating, combinedLive, spawn)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Focus:              tiledOut.focus,
		HasFocus:           tiledOut.hasFocus,
		ShouldShowFloating: hasFloatingPanes && !root.HideFloatingPanes,
	}, nil
}

type tiledApplyOutcome struct {
	focus    pane.ID
	hasFocus bool
}

// applyTiled matches root's flattened slots against liveTiled in three
// passes, spawns content for any slot still empty,
// and installs the result into grid. Panes from liveTiled that no slot
// claimed are returned as orphans rather than dropped.
func applyTiled(grid *tiledgrid.Grid, root *TiledPaneLayout, liveTiled []*pane.Pane, spawn SpawnFunc) (tiledApplyOutcome, []*pane.Pane, error) {
	slots, err := FlattenTiledLayout(root, grid.Viewport())
	if err != nil {
		return tiledApplyOutcome{}, nil, err
	}
	for i := range slots {
		slots[i].geom.LogicalPosition = i
		slots[i].geom.HasLogicalPosition = true
	}

	pool := newExistingPanes(liveTiled)
	assigned := matchThreePasses(pool, len(slots), func(i int) (*pane.RunLocation, int) {
		return slots[i].layout.Run, slots[i].geom.LogicalPosition
	})

	finalPanes := make([]*pane.Pane, 0, len(slots))
	var focus pane.ID
	hasFocus := false
	var firstSelectable pane.ID
	hasFirstSelectable := false

	for i, s := range slots {
		p := assigned[i]
		if p == nil {
			id, content, err := spawn(s.layout.Run)
			if err != nil {
				return tiledApplyOutcome{}, nil, err
			}
			p = &pane.Pane{ID: id, Content: content}
			if s.layout.Run != nil {
				p.Run = *s.layout.Run
			}
		}
		p.Geom = s.geom
		p.Geom.IsStacked = s.layout.Stacked
		finalPanes = append(finalPanes, p)
		if s.layout.Focus && !hasFocus {
			focus, hasFocus = p.ID, true
		}
		if !hasFirstSelectable && p.Selectable() {
			firstSelectable, hasFirstSelectable = p.ID, true
		}
	}
	if !hasFocus && hasFirstSelectable {
		focus, hasFocus = firstSelectable, true
	}

	if err := grid.ReplaceAll(finalPanes, focus, hasFocus); err != nil {
		return tiledApplyOutcome{}, nil, err
	}

	return tiledApplyOutcome{focus: focus, hasFocus: hasFocus}, pool.remaining(), nil
}

// applyFloating matches floating layout slots against liveFloating the
// same three-pass way, then installs the result into layer. Any
// unmatched live pane is placed via FindRoomForNewPane rather than
// dropped. Returns whether the layer ends up non-empty.
func applyFloating(layer *floatlayer.Layer, floating []*FloatingPaneLayout, liveFloating []*pane.Pane, spawn SpawnFunc) (bool, error) {
	v := layer.Viewport()
	geoms := make([]geometry.PaneGeom, len(floating))
	for i, l := range floating {
		g := ResolveFloatingGeom(l, v)
		g.LogicalPosition = i
		g.HasLogicalPosition = true
		geoms[i] = g
	}

	pool := newExistingPanes(liveFloating)
	assigned := matchThreePasses(pool, len(floating), func(i int) (*pane.RunLocation, int) {
		return floating[i].Run, i
	})

	finalPanes := make([]*pane.Pane, 0, len(floating))
	for i, l := range floating {
		p := assigned[i]
		if p == nil {
			id, content, err := spawn(l.Run)
			if err != nil {
				return false, err
			}
			p = &pane.Pane{ID: id, Content: content}
			if l.Run != nil {
				p.Run = *l.Run
			}
		}
		p.Geom = geoms[i]
		finalPanes = append(finalPanes, p)
	}
	layer.ReplaceAll(finalPanes)

	logicalPos := len(floating)
	for _, p := range pool.remaining() {
		geo, ok := layer.FindRoomForNewPane()
		if !ok {
			geo = forcedFallbackGeom(v)
		}
		geo.LogicalPosition = logicalPos
		geo.HasLogicalPosition = true
		logicalPos++
		p.Geom = geo
		layer.AddPane(p.ID, geo, p.Content)
	}

	return layer.Len() > 0, nil
}

// matchThreePasses runs the exact-match / logical-position-match /
// positional-fallback matcher over n slots,
// described by runAndPosition, claiming from pool.
func matchThreePasses(pool *existingPanes, n int, runAndPosition func(i int) (*pane.RunLocation, int)) []*pane.Pane {
	assigned := make([]*pane.Pane, n)
	var passTwo []int
	for i := 0; i < n; i++ {
		run, pos := runAndPosition(i)
		if p, ok := pool.extractExactMatch(run, pos); ok {
			assigned[i] = p
		} else {
			passTwo = append(passTwo, i)
		}
	}
	var passThree []int
	for _, i := range passTwo {
		_, pos := runAndPosition(i)
		if p, ok := pool.extractSameLogicalPosition(pos); ok {
			assigned[i] = p
		} else {
			passThree = append(passThree, i)
		}
	}
	for _, i := range passThree {
		if p, ok := pool.extractAny(); ok {
			assigned[i] = p
		}
	}
	return assigned
}

// forcedFallbackGeom is the last resort when FindRoomForNewPane can't
// find a free candidate rectangle: a half-viewport box that may
// overlap an existing pane, so that the "every live pane ends up
// placed" guarantee holds even under total floating-space exhaustion.
func forcedFallbackGeom(v geometry.Viewport) geometry.PaneGeom {
	cols := v.Cols / 2
	if cols < geometry.MinCols {
		cols = geometry.MinCols
	}
	rows := v.Rows / 2
	if rows < geometry.MinRowsUnstacked {
		rows = geometry.MinRowsUnstacked
	}
	return geometry.PaneGeom{
		X: v.X, Y: v.Y,
		Cols: geometry.NewFixed(cols).SetInner(cols),
		Rows: geometry.NewFixed(rows).SetInner(rows),
	}
}

// ResolveFloatingGeom resolves a declarative floating pane's Fixed or
// Percent coordinates against the current viewport, clamping the
// result inside it.
func ResolveFloatingGeom(l *FloatingPaneLayout, v geometry.Viewport) geometry.PaneGeom {
	cols := resolveAgainst(l.Width, v.Cols)
	if cols < geometry.MinCols {
		cols = geometry.MinCols
	}
	rows := resolveAgainst(l.Height, v.Rows)
	if rows < geometry.MinRowsUnstacked {
		rows = geometry.MinRowsUnstacked
	}
	geo := geometry.PaneGeom{
		X: v.X + resolveAgainst(l.X, v.Cols),
		Y: v.Y + resolveAgainst(l.Y, v.Rows),
		Cols:     geometry.NewFixed(cols).SetInner(cols),
		Rows:     geometry.NewFixed(rows).SetInner(rows),
		IsPinned: l.Pinned,
	}
	return clampToViewport(geo, v)
}

func resolveAgainst(d geometry.Dimension, total int) int {
	switch d.Kind {
	case geometry.Fixed:
		return d.AsUsize()
	case geometry.Percent:
		return int(float64(total) * d.Percent / 100.0)
	}
	return 0
}

func clampToViewport(g geometry.PaneGeom, v geometry.Viewport) geometry.PaneGeom {
	cols := g.Cols.AsUsize()
	rows := g.Rows.AsUsize()
	if cols > v.Cols {
		cols = v.Cols
	}
	if rows > v.Rows {
		rows = v.Rows
	}
	x, y := g.X, g.Y
	if x < v.X {
		x = v.X
	}
	if y < v.Y {
		y = v.Y
	}
	if x+cols > v.Right() {
		x = v.Right() - cols
	}
	if y+rows > v.Bottom() {
		y = v.Bottom() - rows
	}
	g.X, g.Y = x, y
	g.Cols = geometry.NewFixed(cols).SetInner(cols)
	g.Rows = geometry.NewFixed(rows).SetInner(rows)
	return g
}
