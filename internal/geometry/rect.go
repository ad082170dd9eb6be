// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/geometry/rect.go
// Summary: PaneGeom and Viewport arithmetic: containment, adjacency, overlap.

package geometry

// Viewport is the rectangular area a tab's tiled grid or floating
// layer is laid out over. Coordinates are in cells, origin top-left.
type Viewport struct {
	X, Y, Cols, Rows int
}

// Right and Bottom are exclusive bounds: [X, X+Cols) x [Y, Y+Rows).
func (v Viewport) Right() int  { return v.X + v.Cols }
func (v Viewport) Bottom() int { return v.Y + v.Rows }

// PaneGeom is the position and size of one pane.
type PaneGeom struct {
	X, Y           int
	Cols, Rows     Dimension
	IsStacked      bool
	IsPinned       bool
	LogicalPosition int
	HasLogicalPosition bool
}

// Right and Bottom are exclusive bounds computed from the resolved
// inner size.
func (g PaneGeom) Right() int  { return g.X + g.Cols.AsUsize() }
func (g PaneGeom) Bottom() int { return g.Y + g.Rows.AsUsize() }

// MinRows returns the minimum row count for this pane given its
// stacked flag: rows.inner >= 1, >= 2 when unstacked.
func (g PaneGeom) MinRows() int {
	if g.IsStacked {
		return MinRowsStacked
	}
	return MinRowsUnstacked
}

// FitsInside reports whether g's rectangle is fully contained in v.
func (g PaneGeom) FitsInside(v Viewport) bool {
	return g.X >= v.X && g.Right() <= v.Right() &&
		g.Y >= v.Y && g.Bottom() <= v.Bottom()
}

// ContainsPoint reports whether (x, y) falls within g's rectangle,
// inclusive-of-x-exclusive-of-right on both axes.
func (g PaneGeom) ContainsPoint(x, y int) bool {
	return x >= g.X && x < g.Right() && y >= g.Y && y < g.Bottom()
}

// OverlapsWith reports whether g and o share any cell.
func (g PaneGeom) OverlapsWith(o PaneGeom) bool {
	if g.Right() <= o.X || o.Right() <= g.X {
		return false
	}
	if g.Bottom() <= o.Y || o.Bottom() <= g.Y {
		return false
	}
	return true
}

// HorizontallyOverlaps reports whether g and o's x-ranges intersect.
func (g PaneGeom) HorizontallyOverlaps(o PaneGeom) bool {
	return g.X < o.Right() && o.X < g.Right()
}

// VerticallyOverlaps reports whether g and o's y-ranges intersect.
func (g PaneGeom) VerticallyOverlaps(o PaneGeom) bool {
	return g.Y < o.Bottom() && o.Y < g.Bottom()
}

// IsLeftOf reports whether g's right edge touches o's left edge, with
// no overlap on the perpendicular (vertical) axis required to be
// strict: this only checks edge adjacency, not full alignment.
func (g PaneGeom) IsLeftOf(o PaneGeom) bool {
	return g.Right() == o.X
}

// IsRightOf reports whether g's left edge touches o's right edge.
func (g PaneGeom) IsRightOf(o PaneGeom) bool {
	return g.X == o.Right()
}

// IsAbove reports whether g's bottom edge touches o's top edge.
func (g PaneGeom) IsAbove(o PaneGeom) bool {
	return g.Bottom() == o.Y
}

// IsBelow reports whether g's top edge touches o's bottom edge.
func (g PaneGeom) IsBelow(o PaneGeom) bool {
	return g.Y == o.Bottom()
}

// Equal reports whether two PaneGeoms describe the same rectangle and
// flags, comparing Dimensions with Dimension.Equal.
func (g PaneGeom) Equal(o PaneGeom) bool {
	return g.X == o.X && g.Y == o.Y &&
		g.Cols.Equal(o.Cols) && g.Rows.Equal(o.Rows) &&
		g.IsStacked == o.IsStacked && g.IsPinned == o.IsPinned
}

// CheckInvariants validates g against v and the minimum-size rules.
// It returns a non-nil error describing the first violation.
func (g PaneGeom) CheckInvariants(v Viewport) error {
	if !g.FitsInside(v) {
		return ErrOutsideViewport
	}
	if g.Cols.AsUsize() < MinCols {
		return ErrBelowMinimum
	}
	if g.Rows.AsUsize() < g.MinRows() {
		return ErrBelowMinimum
	}
	return nil
}
