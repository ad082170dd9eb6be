// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package geometry

import "errors"

// ErrOutsideViewport and ErrBelowMinimum are the geometry-level
// building blocks of the StructuralInvariantBreach error kind; callers
// higher up the stack wrap these with pane/tab context.
var (
	ErrOutsideViewport = errors.New("geometry: rectangle is outside its viewport")
	ErrBelowMinimum    = errors.New("geometry: rectangle is below the minimum pane size")
)
