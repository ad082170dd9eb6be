// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/layout/flatten.go
// Summary: Flattens a declarative TiledPaneLayout tree into resolved
// (leaf, PaneGeom) pairs. No Rust source for the constraint-propagation
// routine was retrieved (only layout_applier.rs's caller,
// `flatten_layout`, was — the resolver itself lives in a crate that
// wasn't pulled into the pack), so the split arithmetic here is an
// original interpretation of the expected behavior, built the way
// ResolvePercentShares already approaches percent/fixed mixes
// elsewhere in this module: fixed cells are reserved first, explicit
// percents are resolved against the total, and children with no
// declared size split whatever is left equally.

package layout

import (
	"github.com/framegrace/texelation-core/internal/geometry"
	"github.com/framegrace/texelation-core/internal/tiledgrid"
)

// FlattenTiledLayout resolves root against viewport, returning every
// leaf paired with its geometry in tree order (left-to-right,
// top-to-bottom depth-first). If the constraints can't be satisfied
// (a branch's children don't fit even with equal splitting), it
// retries once with every percent size stripped (constraint
// propagation falling back to ignoring percent sizes), and returns
// ErrLayoutInfeasible only if that retry also fails.
func FlattenTiledLayout(root *TiledPaneLayout, viewport geometry.Viewport) ([]slot, error) {
	slots, err := flattenNode(root, viewport, false)
	if err == nil {
		return slots, nil
	}
	slots, err = flattenNode(root, viewport, true)
	if err != nil {
		return nil, ErrLayoutInfeasible
	}
	return slots, nil
}

func flattenNode(node *TiledPaneLayout, rect geometry.Viewport, stripPercents bool) ([]slot, error) {
	if node.IsLeaf() {
		geo := geometry.PaneGeom{
			X: rect.X, Y: rect.Y,
			Cols:      geometry.NewFixed(rect.Cols).SetInner(rect.Cols),
			Rows:      geometry.NewFixed(rect.Rows).SetInner(rect.Rows),
			IsStacked: node.Stacked,
		}
		if err := geo.CheckInvariants(rect); err != nil {
			return nil, err
		}
		return []slot{{layout: node, geom: geo}}, nil
	}

	childRects, err := splitRect(node.SplitDirection, rect, node.Children, stripPercents)
	if err != nil {
		return nil, err
	}

	var out []slot
	for i, child := range node.Children {
		childSlots, err := flattenNode(child, childRects[i], stripPercents)
		if err != nil {
			return nil, err
		}
		out = append(out, childSlots...)
	}
	return out, nil
}

// splitRect divides rect along dir among children, reserving
// tiledgrid.BorderGap between each pair of siblings.
func splitRect(dir tiledgrid.SplitDirection, rect geometry.Viewport, children []*TiledPaneLayout, stripPercents bool) ([]geometry.Viewport, error) {
	n := len(children)
	gapTotal := (n - 1) * tiledgrid.BorderGap
	var total int
	if dir == tiledgrid.SplitHorizontal {
		total = rect.Rows - gapTotal
	} else {
		total = rect.Cols - gapTotal
	}
	if total <= 0 {
		return nil, geometry.ErrBelowMinimum
	}

	sizes, err := resolveChildSizes(total, children, stripPercents)
	if err != nil {
		return nil, err
	}

	out := make([]geometry.Viewport, n)
	cursor := 0
	for i, sz := range sizes {
		v := rect
		if dir == tiledgrid.SplitHorizontal {
			v.Y = rect.Y + cursor
			v.Rows = sz
		} else {
			v.X = rect.X + cursor
			v.Cols = sz
		}
		out[i] = v
		cursor += sz + tiledgrid.BorderGap
		minRows := geometry.MinRowsUnstacked
		if children[i].Stacked {
			minRows = geometry.MinRowsStacked
		}
		if dir == tiledgrid.SplitHorizontal && sz < minRows {
			return nil, geometry.ErrBelowMinimum
		}
		if dir == tiledgrid.SplitVertical && sz < geometry.MinCols {
			return nil, geometry.ErrBelowMinimum
		}
	}
	return out, nil
}

// resolveChildSizes assigns each child a cell count along the split
// axis: fixed children consume their exact size, percent children
// (unless stripped) consume floor(total*pct/100), and every remaining
// ("missing size") child splits the leftover equally — the last such
// child absorbs the rounding remainder, the same convention
// ResolvePercentShares uses.
func resolveChildSizes(total int, children []*TiledPaneLayout, stripPercents bool) ([]int, error) {
	out := make([]int, len(children))
	fixedSum := 0
	var missing []int
	for i, c := range children {
		if c.Size == nil {
			missing = append(missing, i)
			continue
		}
		switch c.Size.Kind {
		case geometry.Fixed:
			out[i] = c.Size.AsUsize()
			fixedSum += out[i]
		case geometry.Percent:
			if stripPercents {
				missing = append(missing, i)
			} else {
				out[i] = int(float64(total) * c.Size.Percent / 100.0)
			}
		}
	}
	percentSum := 0
	for i, c := range children {
		if c.Size != nil && c.Size.Kind == geometry.Percent && !stripPercents {
			percentSum += out[i]
		}
	}
	remainder := total - fixedSum - percentSum
	if remainder < 0 {
		return nil, geometry.ErrBelowMinimum
	}
	if len(missing) > 0 {
		share := remainder / len(missing)
		assigned := 0
		for k, idx := range missing {
			if k == len(missing)-1 {
				out[idx] = remainder - assigned
			} else {
				out[idx] = share
				assigned += share
			}
		}
	} else if remainder != 0 {
		// No missing-size sibling to soak up a rounding slop from
		// percent division; hand it to the last child so totals stay
		// exact, mirroring ResolvePercentShares's convention.
		out[len(out)-1] += remainder
	}
	return out, nil
}
