// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/floatlayer/layer.go
// Summary: The floating pane layer (component C): a
// z-ordered set of free-floating rectangles over a tab's viewport,
// independent of the tiled grid's strict partition.
//
// Grounded on original_source/'s floating-pane-grid module (pack
// original_source/): move_pane_by's clamp-to-viewport, resize()'s
// desired-geom-first / shift-before-shrink-before-expand algorithm, and
// find_room_for_new_pane's five-candidate deterministic placement.

package floatlayer

import (
	"github.com/framegrace/texelation-core/internal/geometry"
	"github.com/framegrace/texelation-core/internal/pane"
)

const maxCandidateOffsets = 20

// dragState tracks an in-progress drag-move gesture: a click on the
// pane's frame latches its id and the
// pointer position; each motion event translates the pane by the
// delta since the last observed position.
type dragState struct {
	id        pane.ID
	lastX, lastY int
}

// Layer is a tab's floating pane layer.
type Layer struct {
	viewport geometry.Viewport
	panes    map[pane.ID]*pane.Pane
	desired  map[pane.ID]geometry.PaneGeom
	zorder   []pane.ID // front-most = last
	visible  bool
	drag     *dragState
	minCols  int
	minRows  int
}

// NewLayer creates an empty floating layer over the given viewport.
func NewLayer(viewport geometry.Viewport) *Layer {
	return &Layer{
		viewport: viewport,
		panes:    make(map[pane.ID]*pane.Pane),
		desired:  make(map[pane.ID]geometry.PaneGeom),
		minCols:  geometry.MinCols,
		minRows:  geometry.MinRowsUnstacked,
	}
}

// SetMinimums overrides the default minimum pane dimensions.
func (l *Layer) SetMinimums(cols, rows int) {
	l.minCols, l.minRows = cols, rows
}

// Viewport returns the layer's current viewport.
func (l *Layer) Viewport() geometry.Viewport { return l.viewport }

// Visible reports whether the layer is currently shown.
func (l *Layer) Visible() bool { return l.visible }

// ToggleShow sets whether the layer is shown. Pinned panes remain
// visible (and hit-testable) regardless of this flag.
func (l *Layer) ToggleShow(show bool) { l.visible = show }

// Pane looks up a live pane by id.
func (l *Layer) Pane(id pane.ID) (*pane.Pane, bool) {
	p, ok := l.panes[id]
	return p, ok
}

// Len returns the number of live panes.
func (l *Layer) Len() int { return len(l.panes) }

// Panes returns all live panes back-to-front (z-order).
func (l *Layer) Panes() []*pane.Pane {
	out := make([]*pane.Pane, 0, len(l.zorder))
	for _, id := range l.zorder {
		if p, ok := l.panes[id]; ok {
			out = append(out, p)
		}
	}
	return out
}

// AddPane inserts a new floating pane at geo, placing it front-most.
func (l *Layer) AddPane(id pane.ID, geo geometry.PaneGeom, content pane.Capabilities) {
	p := &pane.Pane{ID: id, Geom: geo, Content: content}
	l.panes[id] = p
	l.desired[id] = geo
	l.zorder = append(l.zorder, id)
}

// RemovePane removes id from the layer.
func (l *Layer) RemovePane(id pane.ID) error {
	if _, ok := l.panes[id]; !ok {
		return ErrPaneNotFound
	}
	delete(l.panes, id)
	delete(l.desired, id)
	for i, o := range l.zorder {
		if o == id {
			l.zorder = append(l.zorder[:i], l.zorder[i+1:]...)
			break
		}
	}
	return nil
}

// FocusPane moves id to the front of the z-order.
func (l *Layer) FocusPane(id pane.ID) error {
	if _, ok := l.panes[id]; !ok {
		return ErrPaneNotFound
	}
	for i, o := range l.zorder {
		if o == id {
			l.zorder = append(l.zorder[:i], l.zorder[i+1:]...)
			break
		}
	}
	l.zorder = append(l.zorder, id)
	return nil
}

// GetPaneAt returns the front-most pane containing (x, y), scanning
// from the top of the z-order. When the layer is hidden, only pinned
// panes are hit-testable. If selectableOnly, unselectable panes (e.g.
// held panes with no content) are skipped.
func (l *Layer) GetPaneAt(x, y int, selectableOnly bool) (pane.ID, bool) {
	for i := len(l.zorder) - 1; i >= 0; i-- {
		id := l.zorder[i]
		p, ok := l.panes[id]
		if !ok {
			continue
		}
		if !l.visible && !p.Geom.IsPinned {
			continue
		}
		if selectableOnly && !p.Selectable() {
			continue
		}
		if p.ContainsPoint(x, y) {
			return id, true
		}
	}
	return pane.ID{}, false
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// MovePaneTo sets id's top-left corner to (x, y), clamped so the pane
// stays fully within the viewport.
func (l *Layer) MovePaneTo(id pane.ID, x, y int) error {
	p, ok := l.panes[id]
	if !ok {
		return ErrPaneNotFound
	}
	geo := p.Geom
	maxX := l.viewport.Right() - geo.Cols.AsUsize()
	maxY := l.viewport.Bottom() - geo.Rows.AsUsize()
	geo.X = clamp(x, l.viewport.X, maxX)
	geo.Y = clamp(y, l.viewport.Y, maxY)
	l.setGeom(id, geo)
	return nil
}

// MovePaneBy translates id by (dx, dy), clamped to the viewport.
func (l *Layer) MovePaneBy(id pane.ID, dx, dy int) error {
	p, ok := l.panes[id]
	if !ok {
		return ErrPaneNotFound
	}
	geo := p.Geom
	return l.MovePaneTo(id, geo.X+dx, geo.Y+dy)
}

func (l *Layer) setGeom(id pane.ID, geo geometry.PaneGeom) {
	p := l.panes[id]
	p.Geom = geo
	l.desired[id] = geo
}

// ---- drag-move gesture ----

// StartDragMove latches a drag gesture on id at the given pointer
// position.
func (l *Layer) StartDragMove(id pane.ID, x, y int) error {
	if _, ok := l.panes[id]; !ok {
		return ErrPaneNotFound
	}
	l.drag = &dragState{id: id, lastX: x, lastY: y}
	return nil
}

// ContinueDragMove translates the dragged pane by the delta since the
// last observed position, clamped to the viewport, and advances the
// gesture's reference position.
func (l *Layer) ContinueDragMove(x, y int) error {
	if l.drag == nil {
		return ErrPaneNotFound
	}
	dx, dy := x-l.drag.lastX, y-l.drag.lastY
	if err := l.MovePaneBy(l.drag.id, dx, dy); err != nil {
		return err
	}
	l.drag.lastX, l.drag.lastY = x, y
	return nil
}

// EndDragMove clears the in-progress drag gesture, if any.
func (l *Layer) EndDragMove() {
	l.drag = nil
}

// Dragging reports the pane id currently being dragged, if any.
func (l *Layer) Dragging() (pane.ID, bool) {
	if l.drag == nil {
		return pane.ID{}, false
	}
	return l.drag.id, true
}

// ---- viewport resize ----

// Resize re-lays-out every pane against a new viewport: a pane whose
// desired geometry still fits is snapped back to it; otherwise it is
// shifted up/left to fit, then shrunk, never below the minimum size.
// When the viewport later grows, panes are grown back out toward
// their desired geometry.
func (l *Layer) Resize(v geometry.Viewport) {
	l.viewport = v
	for id, p := range l.panes {
		cur := p.Geom
		desired, hasDesired := l.desired[id]
		if hasDesired && desired.FitsInside(v) {
			l.apply(id, desired)
			continue
		}
		l.apply(id, l.fitToViewport(cur, desired, hasDesired, v))
	}
}

func (l *Layer) apply(id pane.ID, geo geometry.PaneGeom) {
	p := l.panes[id]
	p.Geom = geo
}

// fitToViewport implements the shift-before-shrink-before-expand
// clamp used when a pane's desired geometry no longer fits: the pane
// is shifted toward the viewport origin first, then, if still
// oversized, shrunk (never below the minimum); when the viewport has
// grown, the pane is grown back toward its desired geometry.
func (l *Layer) fitToViewport(cur, desired geometry.PaneGeom, hasDesired bool, v geometry.Viewport) geometry.PaneGeom {
	geo := cur
	paneRight := geo.X + geo.Cols.AsUsize()
	paneBottom := geo.Y + geo.Rows.AsUsize()
	vRight, vBottom := v.Right(), v.Bottom()

	excessWidth := paneRight - vRight
	excessHeight := paneBottom - vBottom
	extraWidth := vRight - paneRight
	extraHeight := vBottom - paneBottom

	if excessWidth > 0 {
		if geo.X-excessWidth > v.X {
			geo.X -= excessWidth
		} else {
			reduceXBy := geo.X - v.X
			reduced := geo.Cols.AsUsize() - maxInt(excessWidth-reduceXBy, 0)
			geo.X = v.X
			geo.Cols = geo.Cols.SetInner(maxInt(reduced, l.minCols))
		}
	}
	if excessHeight > 0 {
		if geo.Y-excessHeight > v.Y {
			geo.Y -= excessHeight
		} else {
			reduceYBy := geo.Y - v.Y
			reduced := geo.Rows.AsUsize() - maxInt(excessHeight-reduceYBy, 0)
			geo.Y = v.Y
			geo.Rows = geo.Rows.SetInner(maxInt(reduced, l.minRows))
		}
	}

	if hasDesired && extraWidth > 0 {
		maxRight := vRight
		if geo.X < desired.X {
			switch {
			case desired.X+geo.Cols.AsUsize() <= maxRight:
				geo.X = desired.X
			case geo.X+geo.Cols.AsUsize()+extraWidth < maxRight:
				geo.X += extraWidth
			default:
				geo.X = maxRight - geo.Cols.AsUsize()
			}
		}
		if geo.Cols.AsUsize() < desired.Cols.AsUsize() {
			switch {
			case geo.X+desired.Cols.AsUsize() <= maxRight:
				geo.Cols = geo.Cols.SetInner(desired.Cols.AsUsize())
			case geo.X+geo.Cols.AsUsize()+extraWidth < maxRight:
				geo.Cols = geo.Cols.SetInner(geo.Cols.AsUsize() + extraWidth)
			default:
				geo.Cols = geo.Cols.SetInner(geo.Cols.AsUsize() + (maxRight - (geo.X + geo.Cols.AsUsize())))
			}
		}
	}
	if hasDesired && extraHeight > 0 {
		maxBottom := vBottom
		if geo.Y < desired.Y {
			switch {
			case desired.Y+geo.Rows.AsUsize() <= maxBottom:
				geo.Y = desired.Y
			case geo.Y+geo.Rows.AsUsize()+extraHeight < maxBottom:
				geo.Y += extraHeight
			default:
				geo.Y = maxBottom - geo.Rows.AsUsize()
			}
		}
		if geo.Rows.AsUsize() < desired.Rows.AsUsize() {
			switch {
			case geo.Y+desired.Rows.AsUsize() <= maxBottom:
				geo.Rows = geo.Rows.SetInner(desired.Rows.AsUsize())
			case geo.Y+geo.Rows.AsUsize()+extraHeight < maxBottom:
				geo.Rows = geo.Rows.SetInner(geo.Rows.AsUsize() + extraHeight)
			default:
				geo.Rows = geo.Rows.SetInner(geo.Rows.AsUsize() + (maxBottom - (geo.Y + geo.Rows.AsUsize())))
			}
		}
	}
	return geo
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// ---- new-pane placement ----

// FindRoomForNewPane tries, in order, a centered half-size rectangle
// and the four corner one-third-size rectangles, at increasing offsets,
// accepting the first candidate that fits inside the viewport, meets
// the minimum size, and does not exactly coincide with a live pane's
// geometry.
func (l *Layer) FindRoomForNewPane() (geometry.PaneGeom, bool) {
	existing := make([]geometry.PaneGeom, 0, len(l.panes))
	for _, p := range l.panes {
		existing = append(existing, p.Geom)
	}
	for offset := 0; offset < maxCandidateOffsets; offset++ {
		for _, cand := range []geometry.PaneGeom{
			halfSizeMiddle(l.viewport, offset),
			thirdSizeTopLeft(l.viewport, offset),
			thirdSizeTopRight(l.viewport, offset),
			thirdSizeBottomLeft(l.viewport, offset),
			thirdSizeBottomRight(l.viewport, offset),
		} {
			if l.candidateIsBigEnough(cand) && l.candidateIsFree(cand, existing) {
				return cand, true
			}
		}
	}
	return geometry.PaneGeom{}, false
}

func (l *Layer) candidateIsBigEnough(g geometry.PaneGeom) bool {
	return g.Cols.AsUsize() >= l.minCols && g.Rows.AsUsize() >= l.minRows
}

func (l *Layer) candidateIsFree(g geometry.PaneGeom, existing []geometry.PaneGeom) bool {
	if !g.FitsInside(l.viewport) {
		return false
	}
	for _, e := range existing {
		if e.Equal(g) {
			return false
		}
	}
	return true
}

func halfSizeMiddle(v geometry.Viewport, offset int) geometry.PaneGeom {
	cols, rows := v.Cols/2, v.Rows/2
	x := v.X + round(float64(v.Cols)/4.0) + offset
	y := v.Y + round(float64(v.Rows)/4.0) + offset
	return fixedGeom(x, y, cols, rows)
}

func thirdSizeTopLeft(v geometry.Viewport, offset int) geometry.PaneGeom {
	cols, rows := v.Cols/3, v.Rows/3
	x := v.X + 2 + offset
	y := v.Y + 2 + offset
	return fixedGeom(x, y, cols, rows)
}

func thirdSizeTopRight(v geometry.Viewport, offset int) geometry.PaneGeom {
	cols, rows := v.Cols/3, v.Rows/3
	x := saturatingSub((v.X+v.Cols)-cols-2, offset)
	y := v.Y + 2 + offset
	return fixedGeom(x, y, cols, rows)
}

func thirdSizeBottomLeft(v geometry.Viewport, offset int) geometry.PaneGeom {
	cols, rows := v.Cols/3, v.Rows/3
	x := v.X + 2 + offset
	y := saturatingSub((v.Y+v.Rows)-rows-2, offset)
	return fixedGeom(x, y, cols, rows)
}

func thirdSizeBottomRight(v geometry.Viewport, offset int) geometry.PaneGeom {
	cols, rows := v.Cols/3, v.Rows/3
	x := saturatingSub((v.X+v.Cols)-cols-2, offset)
	y := saturatingSub((v.Y+v.Rows)-rows-2, offset)
	return fixedGeom(x, y, cols, rows)
}

func fixedGeom(x, y, cols, rows int) geometry.PaneGeom {
	return geometry.PaneGeom{
		X: x, Y: y,
		Cols: geometry.NewFixed(cols).SetInner(cols),
		Rows: geometry.NewFixed(rows).SetInner(rows),
	}
}

func round(f float64) int {
	if f < 0 {
		return int(f - 0.5)
	}
	return int(f + 0.5)
}

func saturatingSub(a, b int) int {
	if a-b < 0 {
		return 0
	}
	return a - b
}
