// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/tiledgrid/grid.go
// Summary: The tiled pane grid (component B): a spatial
// partition of a tab's viewport, with directional split, aligned-chain
// resize, close-and-reflow, directional focus, and stacked groups.
//
// Grid keeps no split tree — the partition is implicit in each pane's
// geometry, and every structural op (split, resize, close) recomputes
// the affected geometries directly from the live rectangles, the way
// the originating tree.go's resizeNode/findNeighbor worked from live
// node rects rather than a persistent layout description (the same
// arena+id discipline, with no parent/child back-pointers).

package tiledgrid

import (
	"sort"

	"github.com/framegrace/texelation-core/internal/geometry"
	"github.com/framegrace/texelation-core/internal/pane"
)

// BorderGap is the single cell reserved between adjacent tiled panes
// for the border/separator line. Panes never occupy a gap cell; a
// gap cell belongs to neither neighbor.
const BorderGap = 1

// Direction is a compass direction used for directional split, resize
// and focus movement.
type Direction int

const (
	Left Direction = iota
	Right
	Up
	Down
)

// SplitDirection names the axis a new pane is carved from.
type SplitDirection int

const (
	// SplitHorizontal divides a pane's rows, producing a top/bottom pair
	// (the split *line* is horizontal — tmux-style naming).
	SplitHorizontal SplitDirection = iota
	// SplitVertical divides a pane's columns, producing a left/right pair.
	SplitVertical
)

func directionToEdge(d Direction) pane.Edge {
	switch d {
	case Left:
		return pane.EdgeLeft
	case Right:
		return pane.EdgeRight
	case Up:
		return pane.EdgeTop
	default:
		return pane.EdgeBottom
	}
}

// Grid is a tab's tiled pane partition over a fixed viewport.
type Grid struct {
	viewport geometry.Viewport
	panes    map[pane.ID]*pane.Pane
	desired  map[pane.ID]geometry.PaneGeom // last user-requested geometry, for restore-after-viewport-growth
	order    []pane.ID                     // insertion order, used for tie-breaks
	focused  pane.ID
	hasFocus bool
	minCols  int
	minRowsUnstacked int
	minRowsStacked   int
}

// NewGrid creates an empty grid over the given viewport.
func NewGrid(viewport geometry.Viewport) *Grid {
	return &Grid{
		viewport:         viewport,
		panes:            make(map[pane.ID]*pane.Pane),
		desired:          make(map[pane.ID]geometry.PaneGeom),
		minCols:          geometry.MinCols,
		minRowsUnstacked: geometry.MinRowsUnstacked,
		minRowsStacked:   geometry.MinRowsStacked,
	}
}

// SetMinimums overrides the default minimum pane dimensions, wired from
// the multiplexer config section (config.Section("multiplexer")).
func (g *Grid) SetMinimums(cols, rowsUnstacked, rowsStacked int) {
	g.minCols = cols
	g.minRowsUnstacked = rowsUnstacked
	g.minRowsStacked = rowsStacked
}

// Viewport returns the grid's current viewport.
func (g *Grid) Viewport() geometry.Viewport { return g.viewport }

// Len returns the number of live panes.
func (g *Grid) Len() int { return len(g.panes) }

// Pane looks up a live pane by id.
func (g *Grid) Pane(id pane.ID) (*pane.Pane, bool) {
	p, ok := g.panes[id]
	return p, ok
}

// Panes returns all live panes in insertion order.
func (g *Grid) Panes() []*pane.Pane {
	out := make([]*pane.Pane, 0, len(g.order))
	for _, id := range g.order {
		if p, ok := g.panes[id]; ok {
			out = append(out, p)
		}
	}
	return out
}

// Focused returns the focused pane id, if any.
func (g *Grid) Focused() (pane.ID, bool) { return g.focused, g.hasFocus }

// SetFocus sets the focused pane, if it exists in this grid.
func (g *Grid) SetFocus(id pane.ID) bool {
	if _, ok := g.panes[id]; !ok {
		return false
	}
	g.focused = id
	g.hasFocus = true
	return true
}

func (g *Grid) insert(p *pane.Pane) {
	g.panes[p.ID] = p
	g.order = append(g.order, p.ID)
	g.desired[p.ID] = p.Geom
}

func (g *Grid) remove(id pane.ID) {
	delete(g.panes, id)
	delete(g.desired, id)
	for i, o := range g.order {
		if o == id {
			g.order = append(g.order[:i], g.order[i+1:]...)
			break
		}
	}
}

func (g *Grid) setGeom(id pane.ID, geo geometry.PaneGeom) {
	p := g.panes[id]
	p.Geom = geo
	g.desired[id] = geo
}

// InsertRoot places the first pane, filling the entire viewport. It
// fails with ErrNotEmpty if the grid already holds panes.
func (g *Grid) InsertRoot(id pane.ID, content pane.Capabilities) error {
	if len(g.panes) != 0 {
		return ErrNotEmpty
	}
	geo := geometry.PaneGeom{
		X: g.viewport.X, Y: g.viewport.Y,
		Cols: geometry.NewPercent(100).SetInner(g.viewport.Cols),
		Rows: geometry.NewPercent(100).SetInner(g.viewport.Rows),
	}
	p := &pane.Pane{ID: id, Geom: geo, Content: content}
	g.insert(p)
	g.SetFocus(id)
	return nil
}

// Split divides the focused pane's rectangle along dir, reserving one
// BorderGap cell for the separator, and inserts newID into the second
// half (below/right). The first half is resized in place. Returns
// ErrPaneNotFound if id isn't live, ErrResizeBlocked if the pane is too
// small to host a gap and two panes honoring the minimum sizes.
func (g *Grid) Split(id pane.ID, dir SplitDirection, newID pane.ID, content pane.Capabilities) error {
	p, ok := g.panes[id]
	if !ok {
		return ErrPaneNotFound
	}
	old := p.Geom
	switch dir {
	case SplitHorizontal:
		total := old.Rows.AsUsize()
		avail := total - BorderGap
		if avail < g.minRowsFor(old.IsStacked)*2 {
			return ErrResizeBlocked
		}
		topRows := avail / 2
		bottomRows := avail - topRows
		newTop := old
		newTop.Rows = geometry.NewPercent(percentOf(topRows, g.viewport.Rows)).SetInner(topRows)
		g.setGeom(id, newTop)

		bottom := old
		bottom.Y = old.Y + topRows + BorderGap
		bottom.Rows = geometry.NewPercent(percentOf(bottomRows, g.viewport.Rows)).SetInner(bottomRows)
		np := &pane.Pane{ID: newID, Geom: bottom, Content: content}
		g.insert(np)
	case SplitVertical:
		total := old.Cols.AsUsize()
		avail := total - BorderGap
		if avail < g.minCols*2 {
			return ErrResizeBlocked
		}
		leftCols := avail / 2
		rightCols := avail - leftCols
		newLeft := old
		newLeft.Cols = geometry.NewPercent(percentOf(leftCols, g.viewport.Cols)).SetInner(leftCols)
		g.setGeom(id, newLeft)

		right := old
		right.X = old.X + leftCols + BorderGap
		right.Cols = geometry.NewPercent(percentOf(rightCols, g.viewport.Cols)).SetInner(rightCols)
		np := &pane.Pane{ID: newID, Geom: right, Content: content}
		g.insert(np)
	}
	g.SetFocus(newID)
	return nil
}

func (g *Grid) minRowsFor(stacked bool) int {
	if stacked {
		return g.minRowsStacked
	}
	return g.minRowsUnstacked
}

func percentOf(n, total int) float64 {
	if total <= 0 {
		return 1
	}
	return float64(n) / float64(total) * 100
}

// ---- directional focus ----

// FocusDirection returns the id of the nearest pane adjacent to from in
// direction dir, or false if none exists (edge of viewport).
func (g *Grid) FocusDirection(from pane.ID, dir Direction) (pane.ID, bool) {
	p, ok := g.panes[from]
	if !ok {
		return pane.ID{}, false
	}
	src := p.Geom
	var best pane.ID
	bestDist := -1
	found := false
	for id, cand := range g.panes {
		if id == from {
			continue
		}
		cg := cand.Geom
		var adjacent bool
		var dist int
		switch dir {
		case Left:
			adjacent = cg.VerticallyOverlaps(src) && cg.Right()+BorderGap == src.X
			dist = src.X - cg.Right()
		case Right:
			adjacent = cg.VerticallyOverlaps(src) && cg.X == src.Right()+BorderGap
			dist = cg.X - src.Right()
		case Up:
			adjacent = cg.HorizontallyOverlaps(src) && cg.Bottom()+BorderGap == src.Y
			dist = src.Y - cg.Bottom()
		case Down:
			adjacent = cg.HorizontallyOverlaps(src) && cg.Y == src.Bottom()+BorderGap
			dist = cg.Y - src.Bottom()
		}
		if !adjacent || !cand.Selectable() {
			continue
		}
		if !found || dist < bestDist {
			found = true
			bestDist = dist
			best = id
		}
	}
	return best, found
}

// ---- resize ----

// axisInfo captures, for a given resize edge, which coordinate moves
// (main axis) and which is held fixed for band-membership (perp axis).
type axisInfo struct {
	vertical bool // true: Left/Right edges move X; false: Top/Bottom move Y
}

func edgeAxis(e pane.Edge) axisInfo {
	switch e {
	case pane.EdgeLeft, pane.EdgeRight:
		return axisInfo{vertical: true}
	default:
		return axisInfo{vertical: false}
	}
}

// Resize moves the given edge of pane id by deltaCells (positive grows
// the pane outward along that edge). The pane's column/row band — every
// live pane sharing its X,Cols (for a vertical edge) or Y,Rows (for a
// horizontal edge) exactly — moves together; the aligned chain of
// panes across the border shrinks or grows by the same amount to keep
// the grid a strict partition. mouseDriven disables the keyboard
// path's "invert direction" fallback when a minimum would be violated:
// a mouse drag
// simply clamps and stops. Returns ErrResizeBlocked if no aligned chain
// covers the full band, or (keyboard path) if inversion still can't
// satisfy the minimum.
func (g *Grid) Resize(id pane.ID, edge pane.Edge, deltaCells int, mouseDriven bool) error {
	if deltaCells == 0 {
		return nil
	}
	p, ok := g.panes[id]
	if !ok {
		return ErrPaneNotFound
	}
	axis := edgeAxis(edge)

	movingGroup := g.band(p.Geom, axis.vertical)
	chain, perpLo, perpHi := g.alignedChain(p.Geom, edge, axis.vertical)
	if chain == nil {
		return ErrResizeBlocked
	}
	_ = perpLo
	_ = perpHi

	if err := g.applyResize(movingGroup, chain, edge, deltaCells); err != nil {
		if mouseDriven {
			return ErrResizeBlocked
		}
		if err2 := g.applyResize(movingGroup, chain, edge, -deltaCells); err2 != nil {
			return ErrResizeBlocked
		}
	}
	return nil
}

// band returns every live pane sharing p's X,Cols (vertical=true) or
// Y,Rows (vertical=false) exactly — the set of panes that move
// together when the shared border moves.
func (g *Grid) band(p geometry.PaneGeom, vertical bool) []pane.ID {
	var out []pane.ID
	for id, cand := range g.panes {
		cg := cand.Geom
		if vertical {
			if cg.X == p.X && cg.Cols.AsUsize() == p.Cols.AsUsize() {
				out = append(out, id)
			}
		} else {
			if cg.Y == p.Y && cg.Rows.AsUsize() == p.Rows.AsUsize() {
				out = append(out, id)
			}
		}
	}
	return out
}

// alignedChain finds the panes across the border from p's edge whose
// combined perpendicular span exactly covers p's band perpendicular
// span, returning nil if no such contiguous covering set exists.
func (g *Grid) alignedChain(p geometry.PaneGeom, edge pane.Edge, vertical bool) (chain []pane.ID, lo, hi int) {
	if vertical {
		lo, hi = p.Y, p.Bottom()
	} else {
		lo, hi = p.X, p.Right()
	}
	var boundary int
	switch edge {
	case pane.EdgeRight:
		boundary = p.Right()
	case pane.EdgeLeft:
		boundary = p.X
	case pane.EdgeBottom:
		boundary = p.Bottom()
	case pane.EdgeTop:
		boundary = p.Y
	default:
		return nil, 0, 0
	}

	type seg struct {
		id       pane.ID
		a, b     int // perpendicular span
	}
	var cands []seg
	for id, cand := range g.panes {
		cg := cand.Geom
		var touches bool
		var a, b int
		switch edge {
		case pane.EdgeRight:
			touches = cg.X == boundary+BorderGap
			a, b = cg.Y, cg.Bottom()
		case pane.EdgeLeft:
			touches = cg.Right()+BorderGap == boundary
			a, b = cg.Y, cg.Bottom()
		case pane.EdgeBottom:
			touches = cg.Y == boundary+BorderGap
			a, b = cg.X, cg.Right()
		case pane.EdgeTop:
			touches = cg.Bottom()+BorderGap == boundary
			a, b = cg.X, cg.Right()
		}
		if touches && a < hi && b > lo {
			cands = append(cands, seg{id, a, b})
		}
	}
	if len(cands) == 0 {
		return nil, lo, hi
	}
	sort.Slice(cands, func(i, j int) bool { return cands[i].a < cands[j].a })
	cursor := lo
	for _, c := range cands {
		if c.a != cursor {
			return nil, lo, hi
		}
		cursor = c.b
		chain = append(chain, c.id)
	}
	if cursor != hi {
		return nil, lo, hi
	}
	return chain, lo, hi
}

// applyResize grows movingGroup by delta along edge and shrinks chain
// by the same amount, rejecting the whole operation (no partial
// mutation) if any affected pane would fall below its minimum size.
func (g *Grid) applyResize(movingGroup, chain []pane.ID, edge pane.Edge, delta int) error {
	type change struct {
		id  pane.ID
		geo geometry.PaneGeom
	}
	var changes []change

	for _, id := range movingGroup {
		p := g.panes[id]
		geo := p.Geom
		switch edge {
		case pane.EdgeRight:
			newCols := geo.Cols.AsUsize() + delta
			if newCols < g.minCols {
				return ErrResizeBlocked
			}
			geo.Cols = geo.Cols.SetInner(newCols)
		case pane.EdgeLeft:
			newCols := geo.Cols.AsUsize() + delta
			if newCols < g.minCols {
				return ErrResizeBlocked
			}
			geo.X -= delta
			geo.Cols = geo.Cols.SetInner(newCols)
		case pane.EdgeBottom:
			newRows := geo.Rows.AsUsize() + delta
			if newRows < g.minRowsFor(geo.IsStacked) {
				return ErrResizeBlocked
			}
			geo.Rows = geo.Rows.SetInner(newRows)
		case pane.EdgeTop:
			newRows := geo.Rows.AsUsize() + delta
			if newRows < g.minRowsFor(geo.IsStacked) {
				return ErrResizeBlocked
			}
			geo.Y -= delta
			geo.Rows = geo.Rows.SetInner(newRows)
		}
		changes = append(changes, change{id, geo})
	}

	opposite := oppositeEdge(edge)
	for _, id := range chain {
		p := g.panes[id]
		geo := p.Geom
		switch opposite {
		case pane.EdgeLeft:
			newCols := geo.Cols.AsUsize() - delta
			if newCols < g.minCols {
				return ErrResizeBlocked
			}
			geo.X += delta
			geo.Cols = geo.Cols.SetInner(newCols)
		case pane.EdgeRight:
			newCols := geo.Cols.AsUsize() - delta
			if newCols < g.minCols {
				return ErrResizeBlocked
			}
			geo.Cols = geo.Cols.SetInner(newCols)
		case pane.EdgeTop:
			newRows := geo.Rows.AsUsize() - delta
			if newRows < g.minRowsFor(geo.IsStacked) {
				return ErrResizeBlocked
			}
			geo.Y += delta
			geo.Rows = geo.Rows.SetInner(newRows)
		case pane.EdgeBottom:
			newRows := geo.Rows.AsUsize() - delta
			if newRows < g.minRowsFor(geo.IsStacked) {
				return ErrResizeBlocked
			}
			geo.Rows = geo.Rows.SetInner(newRows)
		}
		changes = append(changes, change{id, geo})
	}

	for _, c := range changes {
		g.setGeom(c.id, c.geo)
	}
	return nil
}

func oppositeEdge(e pane.Edge) pane.Edge {
	switch e {
	case pane.EdgeLeft:
		return pane.EdgeRight
	case pane.EdgeRight:
		return pane.EdgeLeft
	case pane.EdgeTop:
		return pane.EdgeBottom
	case pane.EdgeBottom:
		return pane.EdgeTop
	}
	return pane.EdgeNone
}

// ResizeDirection resizes the focused pane's edge facing dir by
// deltaCells, e.g. Right grows the pane's right edge outward.
func (g *Grid) ResizeDirection(id pane.ID, dir Direction, deltaCells int, mouseDriven bool) error {
	return g.Resize(id, directionToEdge(dir), deltaCells, mouseDriven)
}

// ---- close and reflow ----

// Close removes id and grows one adjacent aligned group to absorb its
// freed rectangle (plus the border gaps that bordered it), trying
// Left, Right, Above, Below in that order as the tie-break. Returns
// ErrReflowBlocked if no side fully covers the
// freed rectangle's perpendicular extent, leaving the caller to decide
// whether the tab must be abandoned.
func (g *Grid) Close(id pane.ID) error {
	p, ok := g.panes[id]
	if !ok {
		return ErrPaneNotFound
	}
	freed := p.Geom
	g.remove(id)

	for _, side := range []Direction{Left, Right, Up, Down} {
		if g.absorb(freed, side) {
			if g.hasFocus && g.focused == id {
				g.hasFocus = false
			}
			if !g.hasFocus {
				g.pickFallbackFocus()
			}
			return nil
		}
	}
	// could not reflow: put the pane back so the caller sees a
	// consistent grid and can decide how to handle ErrReflowBlocked.
	g.insert(p)
	return ErrReflowBlocked
}

func (g *Grid) pickFallbackFocus() {
	if len(g.order) == 0 {
		return
	}
	for _, id := range g.order {
		if p := g.panes[id]; p.Selectable() {
			g.SetFocus(id)
			return
		}
	}
	g.SetFocus(g.order[0])
}

// absorb tries to grow the aligned group bordering freed on side into
// freed's rectangle (and any gap cells that bordered it). Returns
// false if no contiguous group exactly covers the perpendicular span.
func (g *Grid) absorb(freed geometry.PaneGeom, side Direction) bool {
	var vertical bool
	switch side {
	case Left, Right:
		vertical = true
	case Up, Down:
		vertical = false
	}

	var lo, hi int
	if vertical {
		lo, hi = freed.Y, freed.Bottom()
	} else {
		lo, hi = freed.X, freed.Right()
	}

	type seg struct {
		id   pane.ID
		a, b int
	}
	var cands []seg
	matches := func(cg geometry.PaneGeom) (bool, int, int) {
		switch side {
		case Left:
			return cg.Right()+BorderGap == freed.X, cg.Y, cg.Bottom()
		case Right:
			return cg.X == freed.Right()+BorderGap, cg.Y, cg.Bottom()
		case Up:
			return cg.Bottom()+BorderGap == freed.Y, cg.X, cg.Right()
		default:
			return cg.Y == freed.Bottom()+BorderGap, cg.X, cg.Right()
		}
	}
	for id, cand := range g.panes {
		ok, a, b := matches(cand.Geom)
		if ok && a < hi && b > lo {
			cands = append(cands, seg{id, a, b})
		}
	}
	if len(cands) == 0 {
		return false
	}
	sort.Slice(cands, func(i, j int) bool { return cands[i].a < cands[j].a })
	cursor := lo
	for i, c := range cands {
		want := cursor
		if i > 0 {
			want = cursor + BorderGap
		}
		if c.a != want {
			return false
		}
		cursor = c.b
	}
	if cursor != hi {
		return false
	}

	// Determine the far boundary the group grows to: the next live
	// pane's edge beyond freed (minus the gap it would keep), or the
	// viewport edge.
	for _, c := range cands {
		id := c.id
		p := g.panes[id]
		geo := p.Geom
		switch side {
		case Left:
			newRight := g.farBoundary(freed.Right(), true, true)
			geo.Cols = geo.Cols.SetInner(newRight - geo.X)
		case Right:
			newX := g.farBoundary(freed.X, true, false)
			geo.Cols = geo.Cols.SetInner(geo.Right() - newX)
			geo.X = newX
		case Up:
			newBottom := g.farBoundary(freed.Bottom(), false, true)
			geo.Rows = geo.Rows.SetInner(newBottom - geo.Y)
		default:
			newY := g.farBoundary(freed.Y, false, false)
			geo.Rows = geo.Rows.SetInner(geo.Bottom() - newY)
			geo.Y = newY
		}
		g.setGeom(id, geo)
	}
	return true
}

// farBoundary finds the coordinate the absorbing group should grow to:
// the start (growingRight=true) or end (growingRight=false) of the
// nearest live pane beyond the freed rectangle's far edge, minus the
// gap it will keep with that neighbor, or the viewport edge if none.
func (g *Grid) farBoundary(freedFar int, vertical, growingRight bool) int {
	best := -1
	for _, cand := range g.panes {
		cg := cand.Geom
		var coord int
		var matches bool
		if vertical && growingRight {
			coord, matches = cg.X, cg.X >= freedFar
		} else if vertical && !growingRight {
			coord, matches = cg.Right(), cg.Right() <= freedFar
		} else if !vertical && growingRight {
			coord, matches = cg.Y, cg.Y >= freedFar
		} else {
			coord, matches = cg.Bottom(), cg.Bottom() <= freedFar
		}
		if !matches {
			continue
		}
		if growingRight {
			if best == -1 || coord < best {
				best = coord
			}
		} else {
			if best == -1 || coord > best {
				best = coord
			}
		}
	}
	if best != -1 {
		if growingRight {
			return best - BorderGap
		}
		return best + BorderGap
	}
	if vertical {
		if growingRight {
			return g.viewport.Right()
		}
		return g.viewport.X
	}
	if growingRight {
		return g.viewport.Bottom()
	}
	return g.viewport.Y
}

// ---- viewport resize ----

// SetViewport rescales every pane to a new viewport size. Each pane's
// start coordinate maps through floor(old*newTotal/oldTotal); an end
// that borders a gap maps to the mapped start of the cell past that
// gap, minus the gap, and an end at the old viewport edge maps to the
// new edge. Panes that shared a boundary in the old viewport therefore
// still share it afterward — the grid stays a consistent partition
// without needing an explicit split tree.
func (g *Grid) SetViewport(v geometry.Viewport) {
	old := g.viewport
	if old.Cols == 0 || old.Rows == 0 {
		g.viewport = v
		return
	}
	mapX := func(c int) int { return v.X + (c-old.X)*v.Cols/old.Cols }
	mapY := func(c int) int { return v.Y + (c-old.Y)*v.Rows/old.Rows }

	for id, p := range g.panes {
		geo := p.Geom
		nx, nright := mapX(geo.X), v.Right()
		ny, nbottom := mapY(geo.Y), v.Bottom()
		if geo.Right() < old.Right() {
			nright = mapX(geo.Right()+BorderGap) - BorderGap
		}
		if geo.Bottom() < old.Bottom() {
			nbottom = mapY(geo.Bottom()+BorderGap) - BorderGap
		}
		if nright-nx < g.minCols {
			nright = nx + g.minCols
		}
		if nbottom-ny < g.minRowsFor(geo.IsStacked) {
			nbottom = ny + g.minRowsFor(geo.IsStacked)
		}
		geo.X, geo.Y = nx, ny
		geo.Cols = geo.Cols.SetInner(nright - nx)
		geo.Rows = geo.Rows.SetInner(nbottom - ny)
		g.setGeom(id, geo)
	}
	g.viewport = v
}

// ---- stacks ----

// CreateStack arranges ids into a vertically stacked group sharing the
// union of their current X,Cols: the first id is expanded to fill the
// remaining height, the rest collapse to one row each. ids must
// already share identical X and Cols.
func (g *Grid) CreateStack(ids []pane.ID) error {
	if len(ids) < 2 {
		return ErrStackMismatch
	}
	first, ok := g.panes[ids[0]]
	if !ok {
		return ErrPaneNotFound
	}
	x, cols := first.Geom.X, first.Geom.Cols.AsUsize()
	top, bottom := first.Geom.Y, first.Geom.Bottom()
	for _, id := range ids[1:] {
		p, ok := g.panes[id]
		if !ok {
			return ErrPaneNotFound
		}
		if p.Geom.X != x || p.Geom.Cols.AsUsize() != cols {
			return ErrStackMismatch
		}
		if p.Geom.Y < top {
			top = p.Geom.Y
		}
		if p.Geom.Bottom() > bottom {
			bottom = p.Geom.Bottom()
		}
	}
	total := bottom - top
	collapsed := len(ids) - 1
	if total-collapsed < g.minRowsStacked {
		return ErrResizeBlocked
	}
	y := top
	for i, id := range ids {
		p := g.panes[id]
		geo := p.Geom
		geo.X = x
		geo.Cols = geo.Cols.SetInner(cols)
		geo.IsStacked = true
		geo.Y = y
		if i == 0 {
			geo.Rows = geo.Rows.SetInner(total - collapsed)
			y += total - collapsed
		} else {
			geo.Rows = geo.Rows.SetInner(g.minRowsStacked)
			y += g.minRowsStacked
		}
		g.setGeom(id, geo)
	}
	return nil
}

// ExpandStackedPane makes id the expanded member of its stack,
// collapsing its siblings to one row each. Returns ErrNotStacked if id
// is not part of a stack (no other pane shares its X,Cols band).
func (g *Grid) ExpandStackedPane(id pane.ID) error {
	p, ok := g.panes[id]
	if !ok {
		return ErrPaneNotFound
	}
	if !p.Geom.IsStacked {
		return ErrNotStacked
	}
	members := g.band(p.Geom, true)
	if len(members) < 2 {
		return ErrNotStacked
	}
	sort.Slice(members, func(i, j int) bool { return g.panes[members[i]].Geom.Y < g.panes[members[j]].Geom.Y })
	top := g.panes[members[0]].Geom.Y
	bottom := g.panes[members[len(members)-1]].Geom.Bottom()
	total := bottom - top
	collapsed := len(members) - 1
	y := top
	for _, mid := range members {
		m := g.panes[mid]
		geo := m.Geom
		geo.Y = y
		if mid == id {
			geo.Rows = geo.Rows.SetInner(total - collapsed)
			y += total - collapsed
		} else {
			geo.Rows = geo.Rows.SetInner(g.minRowsStacked)
			y += g.minRowsStacked
		}
		g.setGeom(mid, geo)
	}
	return nil
}
