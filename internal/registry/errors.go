// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package registry

import "errors"

var (
	ErrTabNotFound    = errors.New("registry: tab not found")
	ErrNoTabs         = errors.New("registry: registry has no tabs")
	ErrClientNotFound = errors.New("registry: client has no active tab")
)
