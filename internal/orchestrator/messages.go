// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/orchestrator/messages.go
// Summary: The message union the orchestrator's run loop consumes
// (component H). Grounded on original_source/'s screen module's
// ScreenInstruction enum (original_source/): one variant per client
// action plus the PTY/render/lifecycle signals. Rust's closed enum +
// match becomes a sealed interface + type switch — the idiomatic Go
// equivalent of the same "exactly one of these, exhaustively handled"
// contract, without reaching for a generic event-bus abstraction.

package orchestrator

import (
	"github.com/framegrace/texelation-core/internal/geometry"
	"github.com/framegrace/texelation-core/internal/layout"
	"github.com/framegrace/texelation-core/internal/mouse"
	"github.com/framegrace/texelation-core/internal/pane"
	"github.com/framegrace/texelation-core/internal/registry"
	"github.com/framegrace/texelation-core/internal/tiledgrid"
)

// Message is implemented by every instruction the orchestrator accepts.
// The unexported marker method seals the set to this package, mirroring
// the closed ScreenInstruction enum it's grounded on.
type Message interface{ isMessage() }

type base struct{}

func (base) isMessage() {}

// PtyBytes delivers output read from a pane's backing process.
type PtyBytes struct {
	base
	Pane pane.ID
	Data []byte
}

// NewPane creates a fresh pane in the active tab: as the tiled grid's
// root if it's empty, otherwise floating (found a free spot via
// FindRoomForNewPane). Most callers splitting off an existing pane
// want Split instead.
type NewPane struct {
	base
	Client registry.ClientID
	Run    pane.RunLocation
}

// Split carves a new pane out of the client's focused pane.
type Split struct {
	base
	Client    registry.ClientID
	Direction tiledgrid.SplitDirection
	Run       pane.RunLocation
	Content   pane.Capabilities
}

// WriteCharacter forwards raw input bytes to the client's focused pane.
type WriteCharacter struct {
	base
	Client registry.ClientID
	Data   []byte
}

// ResizeDirection grows or shrinks the focused pane along an edge.
type ResizeDirection struct {
	base
	Client      registry.ClientID
	Dir         tiledgrid.Direction
	DeltaCells  int
}

// FocusDirection moves focus to the neighboring pane in a direction.
type FocusDirection struct {
	base
	Client registry.ClientID
	Dir    tiledgrid.Direction
}

// FocusNextPane and FocusPreviousPane cycle focus within the active tab
// in insertion order, wrapping at the ends.
type FocusNextPane struct {
	base
	Client registry.ClientID
}

type FocusPreviousPane struct {
	base
	Client registry.ClientID
}

// ClosePane closes the client's focused pane (tiled or floating).
type ClosePane struct {
	base
	Client registry.ClientID
}

// ToggleActiveFullscreen expands the focused pane to the whole tiled
// viewport, or restores the prior partition if already fullscreen
// (a supplemented feature not present in the distilled baseline).
type ToggleActiveFullscreen struct {
	base
	Client registry.ClientID
}

// TogglePaneFrames flips whether tiled panes draw a border/title frame.
type TogglePaneFrames struct{ base }

// NewTab creates a tab, applying a declarative layout if one is given
// (nil Layout yields a single full-viewport pane via spawn).
type NewTab struct {
	base
	Client   registry.ClientID
	Name     string
	Layout   *layout.TiledPaneLayout
	Floating []*layout.FloatingPaneLayout
}

// SwapLayout re-applies a different declarative partition against the
// active tab's current live panes (a supplemented feature, not present
// in the distilled baseline).
type SwapLayout struct {
	base
	Client   registry.ClientID
	Layout   *layout.TiledPaneLayout
	Floating []*layout.FloatingPaneLayout
}

// RegisterSwapLayouts declares the active tab's ordered cycle of
// alternate partitions for NextSwapLayout/PrevSwapLayout, replacing any
// previously registered set and resetting the cycle position to 0.
type RegisterSwapLayouts struct {
	base
	Client  registry.ClientID
	Layouts []layout.SwapLayoutSet
}

// NextSwapLayout and PrevSwapLayout step the active tab's registered
// swap-layout cycle, wrapping at either end, and apply the newly
// current one the same way SwapLayout does. A no-op if the tab has no
// registered cycle.
type NextSwapLayout struct {
	base
	Client registry.ClientID
}

type PrevSwapLayout struct {
	base
	Client registry.ClientID
}

type SwitchTabNext struct {
	base
	Client registry.ClientID
}

type SwitchTabPrev struct {
	base
	Client registry.ClientID
}

type GoToTab struct {
	base
	Client registry.ClientID
	Index  int
}

type ToggleTab struct {
	base
	Client registry.ClientID
}

type CloseTab struct {
	base
	Client registry.ClientID
}

type UpdateTabName struct {
	base
	Client registry.ClientID
	Name   string
}

// TerminalResize reports the physical terminal's new size; every tab's
// tiled grid and floating layer is reflowed against it.
type TerminalResize struct {
	base
	Viewport geometry.Viewport
}

// ChangeMode switches a client's input mode within its active tab.
type ChangeMode struct {
	base
	Client registry.ClientID
	Mode   registry.Mode
}

// MouseInput carries one raw mouse event for classification and
// dispatch against the active tab's pane context.
type MouseInput struct {
	base
	Client registry.ClientID
	Event  mouse.Event
}

// AddClient attaches a newly connected client to the first tab
// (creating one if none exist yet).
type AddClient struct {
	base
	Client registry.ClientID
}

// RemoveClient detaches a disconnected client from whatever tab it was
// viewing.
type RemoveClient struct {
	base
	Client registry.ClientID
}

// Render requests an out-of-band snapshot emission for one client
// without any state change (e.g. a periodic redraw tick).
type Render struct {
	base
	Client registry.ClientID
}

// Exit shuts down the orchestrator's run loop.
type Exit struct{ base }
