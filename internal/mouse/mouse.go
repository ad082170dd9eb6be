// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/mouse/mouse.go
// Summary: The mouse interaction state machine (component E):
// classifies a raw MouseEvent plus gathered tab context into
// exactly one Action, following a fixed precedence order.
//
// Grounded on original_source/'s mouse-handling module (pack
// original_source/): MouseEffect's shape, the MouseEventContext /
// ClickedPaneDetails gathered-context split, the PaneEdge enum (reused
// here as pane.Edge, already carrying all eight handles), and
// edge_and_delta_to_strategies' per-edge Increase/Decrease direction
// rules.

package mouse

import "github.com/framegrace/texelation-core/internal/pane"

// EventType is the phase of a mouse interaction.
type EventType int

const (
	Press EventType = iota
	Motion
	Release
)

// Position is a terminal cell coordinate.
type Position struct{ X, Y int }

// Event is a raw mouse input, gathered by the terminal frontend.
type Event struct {
	Position                                Position
	Type                                     EventType
	Left, Right, Middle                      bool
	WheelUp, WheelDown                       bool
	Ctrl, Alt, Shift                         bool
}

// Context is gathered by the caller before classification: everything
// Classify needs to know about the tab's current state and the pane
// under the pointer, without Classify reaching back into the
// grid/layer itself.
type Context struct {
	PaneAtPosition      pane.ID
	HasPaneAtPosition   bool
	ActivePaneForClient pane.ID
	HasActivePane       bool

	FloatingVisible   bool
	PaneBeingResized  bool
	SelectingWithMouse bool
	PaneBeingMoved    bool

	// For the hit pane (PaneAtPosition), when present:
	OnFrame                 bool
	FrameInterceptedByContent bool
	EdgeAtPosition           pane.Edge
	IsFloating               bool
	TerminalWantsMouse       bool

	PinnedSelectable      pane.ID
	HasPinnedSelectable   bool
	PinnedUnselectable    pane.ID
	HasPinnedUnselectable bool
}

// ActionKind names the single classification outcome — the fixed
// ordering below is the contract: exactly one of these per event.
type ActionKind int

const (
	NoAction ActionKind = iota
	GroupToggle
	GroupAdd
	Ungroup
	StartResize
	ContinueResize
	StopResize
	FocusPane
	ShowFloatingAndFocus
	StartSelection
	UpdateSelection
	EndSelection
	StartMove
	ContinueMove
	StopMove
	ScrollUp
	ScrollDown
	UpdateHover
	SendToTerminal
	FrameIntercepted
)

// Action is the classifier's single output.
type Action struct {
	Kind       ActionKind
	PaneID     pane.ID
	HasPaneID  bool
	Position   Position
	Edge       pane.Edge
	IsFloating bool
	Lines      int
	Event      Event
}

// Effect tells the orchestrator whether to re-render and whether to
// preserve the clipboard status line.
type Effect struct {
	StateChanged         bool
	LeaveClipboardMessage bool
	GroupToggle          pane.ID
	HasGroupToggle       bool
	GroupAdd             pane.ID
	HasGroupAdd          bool
	Ungroup              bool
}

const wheelLinesPerNotch = 3

// Classify implements a fixed twelve-step precedence order. The first
// matching rule wins; later rules are never consulted once an earlier
// one applies, even if they would also match.
func Classify(ev Event, ctx Context) (Action, Effect) {
	pos := ev.Position

	// 1. An in-progress resize gesture owns all motion until release.
	if ctx.PaneBeingResized {
		switch ev.Type {
		case Motion:
			return Action{Kind: ContinueResize, Position: pos}, Effect{StateChanged: true}
		case Release:
			return Action{Kind: StopResize, Position: pos}, Effect{StateChanged: true}
		}
	}

	// 2. An in-progress text selection owns left-button motion/release.
	if ctx.SelectingWithMouse && ev.Left {
		switch ev.Type {
		case Motion:
			return Action{Kind: UpdateSelection, Position: pos}, Effect{StateChanged: true}
		case Release:
			return Action{Kind: EndSelection, Position: pos}, Effect{StateChanged: true}
		}
	}

	// 3. An in-progress floating-pane move owns left-button motion/release.
	if ctx.PaneBeingMoved && ev.Left {
		switch ev.Type {
		case Motion:
			return Action{Kind: ContinueMove, Position: pos}, Effect{StateChanged: true}
		case Release:
			return Action{Kind: StopMove, Position: pos}, Effect{StateChanged: true}
		}
	}

	// 4. Alt held: pane grouping gestures.
	if ev.Alt {
		switch {
		case ev.Left && ev.Type == Press && ctx.HasPaneAtPosition:
			return Action{Kind: GroupToggle, PaneID: ctx.PaneAtPosition, HasPaneID: true},
				Effect{StateChanged: true, GroupToggle: ctx.PaneAtPosition, HasGroupToggle: true}
		case ev.Left && ev.Type == Motion && ctx.HasPaneAtPosition:
			return Action{Kind: GroupAdd, PaneID: ctx.PaneAtPosition, HasPaneID: true},
				Effect{StateChanged: true, GroupAdd: ctx.PaneAtPosition, HasGroupAdd: true}
		case ev.Right:
			return Action{Kind: Ungroup}, Effect{StateChanged: true, Ungroup: true}
		}
	}

	// 5. Wheel events scroll the pane under the pointer.
	if ev.WheelUp && ctx.HasPaneAtPosition {
		return Action{Kind: ScrollUp, PaneID: ctx.PaneAtPosition, HasPaneID: true, Lines: wheelLinesPerNotch}, Effect{StateChanged: true}
	}
	if ev.WheelDown && ctx.HasPaneAtPosition {
		return Action{Kind: ScrollDown, PaneID: ctx.PaneAtPosition, HasPaneID: true, Lines: wheelLinesPerNotch}, Effect{StateChanged: true}
	}

	// 6. Ctrl+left-press on a frame either gets intercepted by content
	// or starts a resize gesture.
	if ev.Ctrl && ev.Left && ev.Type == Press && ctx.OnFrame && ctx.HasPaneAtPosition {
		if ctx.FrameInterceptedByContent {
			return Action{Kind: FrameIntercepted, PaneID: ctx.PaneAtPosition, HasPaneID: true}, Effect{}
		}
		return Action{Kind: StartResize, PaneID: ctx.PaneAtPosition, HasPaneID: true, Position: pos, Edge: ctx.EdgeAtPosition, IsFloating: ctx.IsFloating},
			Effect{StateChanged: true}
	}

	// 7. Plain left-press on a frame: move if the layer is visible (or
	// the pane is pinned-selectable), else resize.
	if ev.Left && ev.Type == Press && ctx.OnFrame && ctx.HasPaneAtPosition {
		if ctx.FloatingVisible || (ctx.HasPinnedSelectable && ctx.PinnedSelectable == ctx.PaneAtPosition) {
			return Action{Kind: StartMove, PaneID: ctx.PaneAtPosition, HasPaneID: true, Position: pos}, Effect{StateChanged: true}
		}
		return Action{Kind: StartResize, PaneID: ctx.PaneAtPosition, HasPaneID: true, Position: pos, Edge: ctx.EdgeAtPosition, IsFloating: ctx.IsFloating},
			Effect{StateChanged: true}
	}

	// 8. Plain left-press inside the active pane's content.
	if ev.Left && ev.Type == Press && !ctx.OnFrame && ctx.HasActivePane && ctx.HasPaneAtPosition && ctx.PaneAtPosition == ctx.ActivePaneForClient {
		if ctx.TerminalWantsMouse {
			return Action{Kind: SendToTerminal, PaneID: ctx.PaneAtPosition, HasPaneID: true, Event: ev}, Effect{}
		}
		return Action{Kind: StartSelection, PaneID: ctx.PaneAtPosition, HasPaneID: true, Position: pos}, Effect{StateChanged: true}
	}

	// 9. Plain left-press outside the active pane.
	if ev.Left && ev.Type == Press && ctx.HasPaneAtPosition && (!ctx.HasActivePane || ctx.PaneAtPosition != ctx.ActivePaneForClient) {
		if !ctx.FloatingVisible && ctx.HasPinnedSelectable && ctx.PinnedSelectable == ctx.PaneAtPosition {
			return Action{Kind: ShowFloatingAndFocus, PaneID: ctx.PaneAtPosition, HasPaneID: true}, Effect{StateChanged: true}
		}
		return Action{Kind: FocusPane, PaneID: ctx.PaneAtPosition, HasPaneID: true, Position: pos}, Effect{StateChanged: true}
	}

	// 10. Right/middle press inside the active pane forwards to content.
	if (ev.Right || ev.Middle) && ev.Type == Press && ctx.HasActivePane && ctx.HasPaneAtPosition && ctx.PaneAtPosition == ctx.ActivePaneForClient {
		return Action{Kind: SendToTerminal, PaneID: ctx.PaneAtPosition, HasPaneID: true, Event: ev}, Effect{}
	}

	// 11. Motion with no buttons held updates hover.
	if ev.Type == Motion && !ev.Left && !ev.Right && !ev.Middle {
		if ctx.HasPaneAtPosition {
			return Action{Kind: UpdateHover, PaneID: ctx.PaneAtPosition, HasPaneID: true}, Effect{}
		}
		return Action{Kind: UpdateHover}, Effect{}
	}

	// 12. Nothing matched.
	return Action{Kind: NoAction}, Effect{}
}
