// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/render/cell.go
// Summary: The screen cell grid every pane's content is ultimately
// drawn into, grounded on tui's Cell{Ch, Style}/[][]Cell convention
// (see tui/pty_app.go's Render, tui/clock_app.go, tui/welcome_app.go).
package render

import "github.com/gdamore/tcell/v2"

// Cell is one terminal character cell: a rune plus its tcell style.
type Cell struct {
	Ch    rune
	Style tcell.Style
}

// Grid is a row-major screen buffer, grid[y][x].
type Grid [][]Cell

// NewGrid returns a blank grid of the given size, every cell a space
// in the default style.
func NewGrid(cols, rows int) Grid {
	if cols < 0 {
		cols = 0
	}
	if rows < 0 {
		rows = 0
	}
	g := make(Grid, rows)
	for y := range g {
		row := make([]Cell, cols)
		for x := range row {
			row[x] = Cell{Ch: ' ', Style: tcell.StyleDefault}
		}
		g[y] = row
	}
	return g
}

// Cols reports the grid's column count, taken from its first row (0
// for an empty grid).
func (g Grid) Cols() int {
	if len(g) == 0 {
		return 0
	}
	return len(g[0])
}

// Rows reports the grid's row count.
func (g Grid) Rows() int { return len(g) }
