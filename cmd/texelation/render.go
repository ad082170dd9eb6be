// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: cmd/texelation/render.go
// Summary: Consumes the orchestrator's render snapshots, composites
// them into a cell grid via internal/render, and blits that grid to
// the tcell screen. Each pane's content is rendered from its raw
// scrollback tail through internal/heldview — there is no VT100/ANSI
// interpreter anywhere in this tree (see internal/ptyio's doc comment),
// so a pane shows its output as highlighted text rather than a true
// cursor-addressed terminal surface; that boundary is inherited, not
// invented here.
package main

import (
	"context"
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/framegrace/texelation-core/internal/geometry"
	"github.com/framegrace/texelation-core/internal/heldview"
	"github.com/framegrace/texelation-core/internal/orchestrator"
	"github.com/framegrace/texelation-core/internal/pane"
	"github.com/framegrace/texelation-core/internal/render"
)

const scrollbackTailBytes = 16 * 1024

func runRenderLoop(ctx context.Context, screen tcell.Screen, orch *orchestrator.Orchestrator, quit <-chan struct{}) {
	snapshots := orch.RenderSnapshots()
	for {
		select {
		case <-ctx.Done():
			return
		case <-quit:
			return
		case snap := <-snapshots:
			drawSnapshot(screen, snap)
		}
	}
}

func drawSnapshot(screen tcell.Screen, snap orchestrator.Snapshot) {
	cols, rows := screen.Size()
	viewport := viewportForScreen(cols, rows)

	views := make([]render.PaneView, 0, len(snap.Panes))
	for _, p := range snap.Panes {
		views = append(views, render.PaneView{
			Geom:    p.Geom,
			Title:   paneTitle(p),
			Focused: p.Focused,
			FrameOn: paneFrameOn(p),
			Content: paneContentGrid(p),
		})
	}

	grid := render.Compose(viewport, views)
	blitGrid(screen, grid)
	drawTabBar(screen, snap, cols)
	screen.Show()
}

func paneTitle(p orchestrator.PaneSnapshot) string {
	if p.Held {
		return p.Title + " (exited)"
	}
	return p.Title
}

func paneFrameOn(p orchestrator.PaneSnapshot) bool {
	if p.Content == nil {
		return true
	}
	return p.Content.FrameOn()
}

// paneContentGrid renders a pane's current scrollback tail through
// heldview, the same renderer a held pane already used for its frozen
// output — applied here to a live pane too, since nothing in this tree
// builds a cursor-addressed alternative.
func paneContentGrid(p orchestrator.PaneSnapshot) render.Grid {
	cols := p.Geom.Cols.AsUsize() - 2
	rows := p.Geom.Rows.AsUsize() - 2
	if cols < 1 || rows < 1 {
		return render.NewGrid(0, 0)
	}
	sb, ok := p.Content.(pane.Scrollback)
	if !ok {
		return render.NewGrid(cols, 0)
	}
	return heldview.Render(sb.Tail(scrollbackTailBytes), heldview.Options{
		FilenameHint: p.Title,
		Cols:         cols,
		MaxLines:     rows,
	})
}

func drawTabBar(screen tcell.Screen, snap orchestrator.Snapshot, cols int) {
	style := tcell.StyleDefault
	activeStyle := style.Bold(true).Reverse(true)
	x := 0
	for _, t := range snap.Tabs {
		label := fmt.Sprintf(" %d:%s ", t.Index+1, t.Name)
		s := style
		if t.Active {
			s = activeStyle
		}
		for _, ch := range label {
			if x >= cols {
				return
			}
			screen.SetContent(x, 0, ch, nil, s)
			x++
		}
	}
}

func blitGrid(screen tcell.Screen, grid render.Grid) {
	for y, row := range grid {
		for x, cell := range row {
			screen.SetContent(x, y+1, cell.Ch, nil, cell.Style)
		}
	}
}

// viewportForScreen reserves row 0 of the physical screen for the tab
// bar: both the orchestrator (via TerminalResize, see main.go/input.go)
// and this file's own grid composition size panes against the result,
// so a pane's geometry and what actually gets blitted always agree.
func viewportForScreen(cols, rows int) geometry.Viewport {
	v := geometry.Viewport{Cols: cols, Rows: rows - 1}
	if v.Rows < 0 {
		v.Rows = 0
	}
	return v
}
