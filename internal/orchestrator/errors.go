// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package orchestrator

import "errors"

var (
	// ErrNoActiveTab is returned when a client has no active tab — it
	// has never been added, or every tab has been closed out from
	// under it.
	ErrNoActiveTab = errors.New("orchestrator: client has no active tab")
	// ErrNoFocusedPane is returned when an operation needs a focused
	// pane but the active tab's grid and floating layer both report
	// none.
	ErrNoFocusedPane = errors.New("orchestrator: active tab has no focused pane")
	ErrUnhandledMessage = errors.New("orchestrator: unhandled message type")
)
