// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package layout

import (
	"testing"

	"github.com/framegrace/texelation-core/internal/floatlayer"
	"github.com/framegrace/texelation-core/internal/geometry"
	"github.com/framegrace/texelation-core/internal/pane"
	"github.com/framegrace/texelation-core/internal/tiledgrid"
)

type stubContent struct {
	title      string
	selectable bool
}

func (s *stubContent) Title() string                    { return s.title }
func (s *stubContent) Selectable() bool                  { return s.selectable }
func (s *stubContent) Borderless() bool                  { return false }
func (s *stubContent) FrameOn() bool                     { return true }
func (s *stubContent) WantsMouse() bool                  { return false }
func (s *stubContent) SupportsMouseSelection() bool      { return true }
func (s *stubContent) ContentOffset() (int, int)         { return 0, 0 }

func testViewport() geometry.Viewport {
	return geometry.Viewport{X: 0, Y: 0, Cols: 80, Rows: 24}
}

func fixed(n int) *geometry.Dimension {
	d := geometry.NewFixed(n)
	return &d
}

func percent(p float64) *geometry.Dimension {
	d := geometry.NewPercent(p)
	return &d
}

func TestFlattenEqualSplitAmongMissingSizes(t *testing.T) {
	root := &TiledPaneLayout{
		SplitDirection: tiledgrid.SplitVertical,
		Children: []*TiledPaneLayout{
			{},
			{},
		},
	}
	slots, err := FlattenTiledLayout(root, testViewport())
	if err != nil {
		t.Fatalf("FlattenTiledLayout: %v", err)
	}
	if len(slots) != 2 {
		t.Fatalf("expected 2 slots, got %d", len(slots))
	}
	// 80 cols - 1 gap = 79, split 39/40.
	if slots[0].geom.Cols.AsUsize() != 39 || slots[1].geom.Cols.AsUsize() != 40 {
		t.Fatalf("expected 39/40 col split, got %d/%d", slots[0].geom.Cols.AsUsize(), slots[1].geom.Cols.AsUsize())
	}
	if slots[1].geom.X != slots[0].geom.Right()+tiledgrid.BorderGap {
		t.Fatalf("expected gap-separated slots, got %+v %+v", slots[0].geom, slots[1].geom)
	}
}

func TestFlattenFixedAndMissingMix(t *testing.T) {
	root := &TiledPaneLayout{
		SplitDirection: tiledgrid.SplitHorizontal,
		Children: []*TiledPaneLayout{
			{Size: fixed(5)},
			{},
		},
	}
	slots, err := FlattenTiledLayout(root, testViewport())
	if err != nil {
		t.Fatalf("FlattenTiledLayout: %v", err)
	}
	if slots[0].geom.Rows.AsUsize() != 5 {
		t.Fatalf("expected fixed 5 rows, got %d", slots[0].geom.Rows.AsUsize())
	}
	// 24 rows - 1 gap - 5 fixed = 18 for the remaining child.
	if slots[1].geom.Rows.AsUsize() != 18 {
		t.Fatalf("expected 18 remaining rows, got %d", slots[1].geom.Rows.AsUsize())
	}
}

func TestFlattenInfeasibleRetriesIgnoringPercents(t *testing.T) {
	root := &TiledPaneLayout{
		SplitDirection: tiledgrid.SplitVertical,
		Children: []*TiledPaneLayout{
			{Size: percent(95)},
			{Size: percent(90)}, // sums past 100% of 80 cols: infeasible as declared
		},
	}
	slots, err := FlattenTiledLayout(root, testViewport())
	if err != nil {
		t.Fatalf("expected percent-stripped retry to succeed, got %v", err)
	}
	if len(slots) != 2 {
		t.Fatalf("expected 2 slots, got %d", len(slots))
	}
	total := slots[0].geom.Cols.AsUsize() + tiledgrid.BorderGap + slots[1].geom.Cols.AsUsize()
	if total != 80 {
		t.Fatalf("expected slots to partition the full 80 cols, got total %d", total)
	}
}

func TestFlattenNestedTree(t *testing.T) {
	root := &TiledPaneLayout{
		SplitDirection: tiledgrid.SplitHorizontal,
		Children: []*TiledPaneLayout{
			{
				SplitDirection: tiledgrid.SplitVertical,
				Children:       []*TiledPaneLayout{{}, {}},
			},
			{},
		},
	}
	slots, err := FlattenTiledLayout(root, testViewport())
	if err != nil {
		t.Fatalf("FlattenTiledLayout: %v", err)
	}
	if len(slots) != 3 {
		t.Fatalf("expected 3 leaves, got %d", len(slots))
	}
	for i, s := range slots {
		if s.geom.LogicalPosition != 0 {
			t.Fatalf("logical positions are stamped by the caller, not flatten; slot %d had %d", i, s.geom.LogicalPosition)
		}
	}
}

func newApplyFixtures() (*tiledgrid.Grid, *floatlayer.Layer) {
	return tiledgrid.NewGrid(testViewport()), floatlayer.NewLayer(testViewport())
}

func TestApplyTiledLayoutMatchesExactRunOverPositionalFallback(t *testing.T) {
	grid, layer := newApplyFixtures()
	run := pane.RunLocation{Command: "vim"}
	existingID := pane.NewTerminalID(1)
	existing := &pane.Pane{ID: existingID, Run: run, Content: &stubContent{selectable: true}}

	root := &TiledPaneLayout{
		SplitDirection: tiledgrid.SplitVertical,
		Children: []*TiledPaneLayout{
			{Run: &pane.RunLocation{Command: "shell"}},
			{Run: &run, Focus: true},
		},
	}

	spawnCalls := 0
	spawn := func(r *pane.RunLocation) (pane.ID, pane.Capabilities, error) {
		spawnCalls++
		return pane.NewTerminalID(uint32(10 + spawnCalls)), &stubContent{selectable: true}, nil
	}

	result, err := ApplyLayout(grid, layer, root, nil, []*pane.Pane{existing}, nil, spawn)
	if err != nil {
		t.Fatalf("ApplyLayout: %v", err)
	}
	if !result.HasFocus || result.Focus != existingID {
		t.Fatalf("expected focus on the exact-run match %v, got %v (hasFocus=%v)", existingID, result.Focus, result.HasFocus)
	}
	if spawnCalls != 1 {
		t.Fatalf("expected exactly one spawned pane for the unmatched slot, got %d", spawnCalls)
	}
	if grid.Len() != 2 {
		t.Fatalf("expected 2 tiled panes, got %d", grid.Len())
	}
	if p, ok := grid.Pane(existingID); !ok || !p.Run.Equal(run) {
		t.Fatalf("expected existing pane preserved with its Run, got %+v ok=%v", p, ok)
	}
}

func TestApplyTiledLayoutOrphanBecomesFloating(t *testing.T) {
	grid, layer := newApplyFixtures()
	// One slot, two live panes: the logical-position pass claims the
	// lower-ordered pane for the slot, leaving the other with no home
	// in the tiled grid.
	keptID := pane.NewTerminalID(1)
	orphanID := pane.NewTerminalID(2)
	kept := &pane.Pane{ID: keptID, Content: &stubContent{selectable: true}}
	orphan := &pane.Pane{ID: orphanID, Content: &stubContent{selectable: true}}

	root := &TiledPaneLayout{} // single leaf: only one slot

	spawn := func(r *pane.RunLocation) (pane.ID, pane.Capabilities, error) {
		t.Fatalf("did not expect a spawn when two live panes already cover the one slot")
		return pane.ID{}, nil, nil
	}

	_, err := ApplyLayout(grid, layer, root, nil, []*pane.Pane{kept, orphan}, nil, spawn)
	if err != nil {
		t.Fatalf("ApplyLayout: %v", err)
	}
	if grid.Len() != 1 {
		t.Fatalf("expected 1 tiled pane, got %d", grid.Len())
	}
	if _, ok := grid.Pane(keptID); !ok {
		t.Fatalf("expected the lower-ordered pane %v to keep the tiled slot", keptID)
	}
	if layer.Len() != 1 {
		t.Fatalf("expected the orphan to land in the floating layer, got %d floating panes", layer.Len())
	}
	if _, ok := layer.Pane(orphanID); !ok {
		t.Fatalf("expected orphan %v present in floating layer", orphanID)
	}
}

func TestApplyFloatingLayoutResolvesPercentAndClamps(t *testing.T) {
	grid, layer := newApplyFixtures()
	root := &TiledPaneLayout{}
	floating := []*FloatingPaneLayout{
		{X: geometry.NewPercent(90), Y: geometry.NewPercent(90), Width: geometry.NewPercent(50), Height: geometry.NewPercent(50)},
	}
	spawn := func(r *pane.RunLocation) (pane.ID, pane.Capabilities, error) {
		return pane.NewPluginID(1), &stubContent{selectable: true}, nil
	}

	result, err := ApplyLayout(grid, layer, root, floating, nil, nil, spawn)
	if err != nil {
		t.Fatalf("ApplyLayout: %v", err)
	}
	if !result.ShouldShowFloating {
		t.Fatalf("expected floating layer to be shown when the layout declares floating panes")
	}
	if layer.Len() != 1 {
		t.Fatalf("expected 1 floating pane, got %d", layer.Len())
	}
	p := layer.Panes()[0]
	v := layer.Viewport()
	if !p.Geom.FitsInside(v) {
		t.Fatalf("expected floating pane clamped inside viewport, got %+v", p.Geom)
	}
}

func TestApplyLayoutHideFloatingPanesSuppressesVisibility(t *testing.T) {
	grid, layer := newApplyFixtures()
	root := &TiledPaneLayout{HideFloatingPanes: true}
	floating := []*FloatingPaneLayout{
		{Width: geometry.NewFixed(10), Height: geometry.NewFixed(5)},
	}
	spawn := func(r *pane.RunLocation) (pane.ID, pane.Capabilities, error) {
		return pane.NewPluginID(1), &stubContent{selectable: true}, nil
	}
	result, err := ApplyLayout(grid, layer, root, floating, nil, nil, spawn)
	if err != nil {
		t.Fatalf("ApplyLayout: %v", err)
	}
	if result.ShouldShowFloating {
		t.Fatalf("expected hide_floating_panes to suppress visibility even with floating panes present")
	}
}
