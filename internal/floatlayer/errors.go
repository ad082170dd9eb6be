// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package floatlayer

import "errors"

var (
	ErrPaneNotFound = errors.New("floatlayer: pane not found")
	ErrNoRoom       = errors.New("floatlayer: no room for a new pane")
)
