// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package tiledgrid

import (
	"testing"

	"github.com/framegrace/texelation-core/internal/geometry"
	"github.com/framegrace/texelation-core/internal/pane"
)

type stubContent struct{ title string }

func (s stubContent) Title() string                  { return s.title }
func (s stubContent) Selectable() bool                { return true }
func (s stubContent) Borderless() bool                { return false }
func (s stubContent) FrameOn() bool                   { return true }
func (s stubContent) WantsMouse() bool                { return false }
func (s stubContent) SupportsMouseSelection() bool    { return false }
func (s stubContent) ContentOffset() (int, int)       { return 0, 0 }

func newTestGrid(cols, rows int) *Grid {
	return NewGrid(geometry.Viewport{X: 0, Y: 0, Cols: cols, Rows: rows})
}

func TestInsertRootFillsViewport(t *testing.T) {
	g := newTestGrid(80, 24)
	a := pane.NewTerminalID(1)
	if err := g.InsertRoot(a, stubContent{"a"}); err != nil {
		t.Fatalf("InsertRoot: %v", err)
	}
	p, _ := g.Pane(a)
	if p.Geom.X != 0 || p.Geom.Y != 0 || p.Geom.Cols.AsUsize() != 80 || p.Geom.Rows.AsUsize() != 24 {
		t.Fatalf("unexpected root geom: %+v", p.Geom)
	}
	if err := g.InsertRoot(pane.NewTerminalID(2), stubContent{"b"}); err != ErrNotEmpty {
		t.Fatalf("expected ErrNotEmpty, got %v", err)
	}
}

// TestSplitHorizontalReservesGap matches the documented 80x24 scenario:
// a horizontal split of a single full-viewport pane produces an 11-row
// top pane and a 12-row bottom pane with the gap row at y=11.
func TestSplitHorizontalReservesGap(t *testing.T) {
	g := newTestGrid(80, 24)
	a, b := pane.NewTerminalID(1), pane.NewTerminalID(2)
	if err := g.InsertRoot(a, stubContent{"a"}); err != nil {
		t.Fatalf("InsertRoot: %v", err)
	}
	if err := g.Split(a, SplitHorizontal, b, stubContent{"b"}); err != nil {
		t.Fatalf("Split: %v", err)
	}
	pa, _ := g.Pane(a)
	pb, _ := g.Pane(b)
	if pa.Geom.Y != 0 || pa.Geom.Rows.AsUsize() != 11 {
		t.Fatalf("top pane geom wrong: %+v", pa.Geom)
	}
	if pb.Geom.Y != 12 || pb.Geom.Rows.AsUsize() != 12 {
		t.Fatalf("bottom pane geom wrong: %+v", pb.Geom)
	}
	if pa.Geom.Bottom()+BorderGap != pb.Geom.Y {
		t.Fatalf("expected single gap row between panes, got bottom=%d next=%d", pa.Geom.Bottom(), pb.Geom.Y)
	}
}

func threeColumnGrid(t *testing.T) (*Grid, pane.ID, pane.ID, pane.ID) {
	t.Helper()
	g := newTestGrid(80, 24)
	a := pane.NewTerminalID(1)
	if err := g.InsertRoot(a, stubContent{"a"}); err != nil {
		t.Fatalf("InsertRoot: %v", err)
	}
	b := pane.NewTerminalID(2)
	if err := g.Split(a, SplitVertical, b, stubContent{"b"}); err != nil {
		t.Fatalf("first split: %v", err)
	}
	c := pane.NewTerminalID(3)
	if err := g.Split(b, SplitVertical, c, stubContent{"c"}); err != nil {
		t.Fatalf("second split: %v", err)
	}
	return g, a, b, c
}

func TestCloseMiddlePaneAbsorbsIntoNeighbor(t *testing.T) {
	g, a, b, c := threeColumnGrid(t)
	pa, _ := g.Pane(a)
	pc, _ := g.Pane(c)
	aRightBefore := pa.Geom.Right()
	cXBefore := pc.Geom.X

	if err := g.Close(b); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, ok := g.Pane(b); ok {
		t.Fatalf("closed pane still present")
	}
	pa2, _ := g.Pane(a)
	pc2, _ := g.Pane(c)

	leftGrew := pa2.Geom.Right() > aRightBefore
	rightGrew := pc2.Geom.X < cXBefore
	if !leftGrew && !rightGrew {
		t.Fatalf("neither neighbor absorbed the freed rectangle: a=%+v c=%+v", pa2.Geom, pc2.Geom)
	}
	if pa2.Geom.Right()+BorderGap != pc2.Geom.X {
		t.Fatalf("panes not left with a single gap after reflow: a.right=%d c.x=%d", pa2.Geom.Right(), pc2.Geom.X)
	}
}

func TestResizeGrowsFocusedShrinksChain(t *testing.T) {
	g, a, b, _ := threeColumnGrid(t)
	pb, _ := g.Pane(b)
	before := pb.Geom.Cols.AsUsize()

	if err := g.Resize(b, pane.EdgeLeft, 3, false); err != nil {
		t.Fatalf("Resize: %v", err)
	}
	pa, _ := g.Pane(a)
	pb2, _ := g.Pane(b)
	if pb2.Geom.Cols.AsUsize() != before+3 {
		t.Fatalf("b did not grow by 3: before=%d after=%d", before, pb2.Geom.Cols.AsUsize())
	}
	if pa.Geom.Right()+BorderGap != pb2.Geom.X {
		t.Fatalf("a and b lost their single-gap adjacency after resize: a.right=%d b.x=%d", pa.Geom.Right(), pb2.Geom.X)
	}
}

func TestResizeBelowMinimumRejected(t *testing.T) {
	g := newTestGrid(10, 24)
	a := pane.NewTerminalID(1)
	b := pane.NewTerminalID(2)
	if err := g.InsertRoot(a, stubContent{"a"}); err != nil {
		t.Fatalf("InsertRoot: %v", err)
	}
	if err := g.Split(a, SplitVertical, b, stubContent{"b"}); err != nil {
		t.Fatalf("Split: %v", err)
	}
	if err := g.Resize(a, pane.EdgeRight, 1000, true); err != ErrResizeBlocked {
		t.Fatalf("expected ErrResizeBlocked on mouse-driven overshoot, got %v", err)
	}
}

func TestFocusDirectionFindsNeighbor(t *testing.T) {
	g, a, b, c := threeColumnGrid(t)
	if got, ok := g.FocusDirection(a, Right); !ok || got != b {
		t.Fatalf("expected Right from a to reach b, got %v ok=%v", got, ok)
	}
	if got, ok := g.FocusDirection(c, Left); !ok || got != b {
		t.Fatalf("expected Left from c to reach b, got %v ok=%v", got, ok)
	}
	if _, ok := g.FocusDirection(a, Left); ok {
		t.Fatalf("expected no neighbor to the left of a")
	}
}

func TestSetViewportPreservesSharedBoundaries(t *testing.T) {
	g, a, b, c := threeColumnGrid(t)
	g.SetViewport(geometry.Viewport{X: 0, Y: 0, Cols: 160, Rows: 48})
	pa, _ := g.Pane(a)
	pb, _ := g.Pane(b)
	pc, _ := g.Pane(c)
	if pa.Geom.Right()+BorderGap != pb.Geom.X {
		t.Fatalf("a/b boundary diverged after resize: a.right=%d b.x=%d", pa.Geom.Right(), pb.Geom.X)
	}
	if pb.Geom.Right()+BorderGap != pc.Geom.X {
		t.Fatalf("b/c boundary diverged after resize: b.right=%d c.x=%d", pb.Geom.Right(), pc.Geom.X)
	}
	if pc.Geom.Right() != 160 {
		t.Fatalf("rightmost pane did not reach new viewport edge: %+v", pc.Geom)
	}
}

func TestCreateStackAndExpand(t *testing.T) {
	g := newTestGrid(40, 20)
	a := pane.NewTerminalID(1)
	if err := g.InsertRoot(a, stubContent{"a"}); err != nil {
		t.Fatalf("InsertRoot: %v", err)
	}
	b := pane.NewTerminalID(2)
	if err := g.Split(a, SplitHorizontal, b, stubContent{"b"}); err != nil {
		t.Fatalf("Split: %v", err)
	}
	// force b to share a's x/cols band explicitly (already true after a
	// horizontal split) and stack them.
	if err := g.CreateStack([]pane.ID{a, b}); err != nil {
		t.Fatalf("CreateStack: %v", err)
	}
	pa, _ := g.Pane(a)
	pb, _ := g.Pane(b)
	if !pa.Geom.IsStacked || !pb.Geom.IsStacked {
		t.Fatalf("stack flag not set")
	}
	if pb.Geom.Rows.AsUsize() != 1 {
		t.Fatalf("expected b collapsed to 1 row, got %d", pb.Geom.Rows.AsUsize())
	}

	if err := g.ExpandStackedPane(b); err != nil {
		t.Fatalf("ExpandStackedPane: %v", err)
	}
	pa2, _ := g.Pane(a)
	pb2, _ := g.Pane(b)
	if pa2.Geom.Rows.AsUsize() != 1 {
		t.Fatalf("expected a collapsed after expanding b, got %d", pa2.Geom.Rows.AsUsize())
	}
	if pb2.Geom.Rows.AsUsize() <= pa2.Geom.Rows.AsUsize() {
		t.Fatalf("expected b to hold the remaining height, a=%d b=%d", pa2.Geom.Rows.AsUsize(), pb2.Geom.Rows.AsUsize())
	}
}
