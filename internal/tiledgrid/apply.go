// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/tiledgrid/apply.go
// Summary: The bulk-replace entry point the layout applier (component
// F) uses to realize a declarative layout, bypassing the incremental
// split/resize/close API that assumes one structural change at a time.

package tiledgrid

import (
	"github.com/framegrace/texelation-core/internal/geometry"
	"github.com/framegrace/texelation-core/internal/pane"
)

// ReplaceAll atomically swaps every live pane for the given set. Each
// geometry must already satisfy CheckInvariants against the grid's
// viewport; the caller (the layout applier) owns that computation.
// Returns the first invariant violation found, leaving the grid
// untouched.
func (g *Grid) ReplaceAll(panes []*pane.Pane, focus pane.ID, hasFocus bool) error {
	for _, p := range panes {
		if err := p.Geom.CheckInvariants(g.viewport); err != nil {
			return err
		}
	}
	g.panes = make(map[pane.ID]*pane.Pane, len(panes))
	g.desired = make(map[pane.ID]geometry.PaneGeom, len(panes))
	g.order = nil
	for _, p := range panes {
		g.insert(p)
	}
	g.hasFocus = false
	if hasFocus {
		g.SetFocus(focus)
	}
	return nil
}
