// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/floatlayer/apply.go
// Summary: The bulk-replace entry point the layout applier (component
// F) uses to realize a declarative floating layout.

package floatlayer

import (
	"github.com/framegrace/texelation-core/internal/geometry"
	"github.com/framegrace/texelation-core/internal/pane"
)

// ReplaceAll atomically swaps every live floating pane for the given
// set, in back-to-front z-order. Panes with IsPinned set are surfaced
// through GetPaneAt even while the layer is hidden.
func (l *Layer) ReplaceAll(panes []*pane.Pane) {
	l.panes = make(map[pane.ID]*pane.Pane, len(panes))
	l.desired = make(map[pane.ID]geometry.PaneGeom, len(panes))
	l.zorder = nil
	for _, p := range panes {
		l.panes[p.ID] = p
		l.desired[p.ID] = p.Geom
		l.zorder = append(l.zorder, p.ID)
	}
	l.drag = nil
}
