// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/render/compose.go
// Summary: Composites every pane's content grid plus its frame (border
// and title) into one viewport-sized Grid, the generalization of
// tui/screen.go's fixed-quadrant Screen.draw/compositePanes/
// drawBorders/blit to the engine's arbitrary tiled+floating rectangles
// (the render snapshot is the thing a frontend blits from; this is
// what builds it).
package render

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/framegrace/texelation-core/internal/geometry"
)

// PaneView is everything Compose needs about one pane to draw it: its
// rectangle, its frame decoration, and its already-rendered content
// (from a live content source or, for a held pane, heldview.Render).
type PaneView struct {
	Geom    geometry.PaneGeom
	Title   string
	Focused bool
	FrameOn bool
	Content Grid
}

var (
	defaultBorderStyle = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	focusedBorderStyle = tcell.StyleDefault.Foreground(tcell.ColorYellow)
)

// Compose draws panes onto a fresh viewport-sized Grid, content first
// and frames on top, matching Screen.draw's compositePanes-then-
// drawBorders ordering so a frame's title line is never overwritten
// by its own content.
func Compose(viewport geometry.Viewport, panes []PaneView) Grid {
	grid := NewGrid(viewport.Cols, viewport.Rows)
	for _, p := range panes {
		blitInto(grid, p)
	}
	for _, p := range panes {
		if p.FrameOn {
			drawFrame(grid, p)
		}
	}
	return grid
}

// blitInto copies p's content into grid at p.Geom, inset by one cell
// on every side when the pane has a frame — the same
// "(X0+1, Y0+1)" offset Screen.compositePanes uses.
func blitInto(grid Grid, p PaneView) {
	ox, oy := p.Geom.X, p.Geom.Y
	if p.FrameOn {
		ox++
		oy++
	}
	for r, row := range p.Content {
		y := oy + r
		if y < 0 || y >= len(grid) {
			continue
		}
		for c, cell := range row {
			x := ox + c
			if x < 0 || x >= grid.Cols() {
				continue
			}
			grid[y][x] = cell
		}
	}
}

// drawFrame draws a single-line box around p.Geom's rectangle plus a
// truncated title on the top border, grounded on
// tui/screen.go's drawBorders (RuneHLine/RuneVLine/RuneULCorner, a
// " title " label starting one cell right of the corner).
func drawFrame(grid Grid, p PaneView) {
	style := defaultBorderStyle
	if p.Focused {
		style = focusedBorderStyle
	}
	x0, y0 := p.Geom.X, p.Geom.Y
	x1, y1 := p.Geom.Right(), p.Geom.Bottom()
	rows, cols := grid.Rows(), grid.Cols()

	setCell := func(x, y int, ch rune) {
		if x < 0 || x >= cols || y < 0 || y >= rows {
			return
		}
		grid[y][x] = Cell{Ch: ch, Style: style}
	}

	for x := x0; x < x1; x++ {
		setCell(x, y0, tcell.RuneHLine)
		setCell(x, y1-1, tcell.RuneHLine)
	}
	for y := y0; y < y1; y++ {
		setCell(x0, y, tcell.RuneVLine)
		setCell(x1-1, y, tcell.RuneVLine)
	}
	setCell(x0, y0, tcell.RuneULCorner)
	setCell(x1-1, y0, tcell.RuneURCorner)
	setCell(x0, y1-1, tcell.RuneLLCorner)
	setCell(x1-1, y1-1, tcell.RuneLRCorner)

	drawTitle(grid, p, x0, y0, x1, style)
}

// drawTitle writes " Title " starting one cell right of the top-left
// corner, truncated (accounting for wide runes via go-runewidth) so it
// never overruns the frame's right edge.
func drawTitle(grid Grid, p PaneView, x0, y0, x1 int, style tcell.Style) {
	available := x1 - x0 - 2
	if available <= 0 {
		return
	}
	label := fmt.Sprintf(" %s ", p.Title)
	label = runewidth.Truncate(label, available, "")

	titleStyle := style.Bold(true)
	x := x0 + 1
	for _, ch := range label {
		if x >= x1-1 {
			break
		}
		if x >= 0 && x < grid.Cols() && y0 >= 0 && y0 < grid.Rows() {
			grid[y0][x] = Cell{Ch: ch, Style: titleStyle}
		}
		x += runewidth.RuneWidth(ch)
	}
}
