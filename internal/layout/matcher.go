// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/layout/matcher.go
// Summary: The three-pass live-pane matcher, grounded directly on
// original_source/'s layout-applier module's
// ExistingTabState (original_source/): candidates are ordered by
// logical position (ties broken by pane id) and removed from the pool
// as they're claimed, so a later pass never reconsiders an already
// assigned pane.

package layout

import (
	"sort"

	"github.com/framegrace/texelation-core/internal/pane"
)

// existingPanes is the pool of live panes a layout is being matched
// against, mutated as panes are claimed.
type existingPanes struct {
	panes map[pane.ID]*pane.Pane
}

func newExistingPanes(ps []*pane.Pane) *existingPanes {
	m := make(map[pane.ID]*pane.Pane, len(ps))
	for _, p := range ps {
		m[p.ID] = p
	}
	return &existingPanes{panes: m}
}

func (e *existingPanes) candidates() []*pane.Pane {
	out := make([]*pane.Pane, 0, len(e.panes))
	for _, p := range e.panes {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Geom.LogicalPosition != b.Geom.LogicalPosition {
			return a.Geom.LogicalPosition < b.Geom.LogicalPosition
		}
		if a.ID.Kind != b.ID.Kind {
			return a.ID.Kind < b.ID.Kind
		}
		return a.ID.Num < b.ID.Num
	})
	return out
}

// extractExactMatch claims a pane whose Run matches exactly. Among
// several same-Run candidates it prefers the one whose logical
// position already matches the slot's, falling back to the
// lowest-ordered one otherwise (first pass).
func (e *existingPanes) extractExactMatch(run *pane.RunLocation, logicalPosition int) (*pane.Pane, bool) {
	if run == nil {
		return nil, false
	}
	var sameRun []*pane.Pane
	for _, p := range e.candidates() {
		if p.Run.Equal(*run) {
			sameRun = append(sameRun, p)
		}
	}
	if len(sameRun) == 0 {
		return nil, false
	}
	for _, p := range sameRun {
		if p.Geom.LogicalPosition == logicalPosition {
			delete(e.panes, p.ID)
			return p, true
		}
	}
	p := sameRun[0]
	delete(e.panes, p.ID)
	return p, true
}

// extractSameLogicalPosition claims the pane whose logical position
// matches exactly, regardless of Run (second pass).
func (e *existingPanes) extractSameLogicalPosition(logicalPosition int) (*pane.Pane, bool) {
	for _, p := range e.candidates() {
		if p.Geom.LogicalPosition == logicalPosition {
			delete(e.panes, p.ID)
			return p, true
		}
	}
	return nil, false
}

// extractAny claims the lowest-ordered remaining pane, for the
// positional-fallback third pass.
func (e *existingPanes) extractAny() (*pane.Pane, bool) {
	cs := e.candidates()
	if len(cs) == 0 {
		return nil, false
	}
	p := cs[0]
	delete(e.panes, p.ID)
	return p, true
}

// remaining returns every pane still unclaimed, in candidate order.
func (e *existingPanes) remaining() []*pane.Pane {
	return e.candidates()
}
